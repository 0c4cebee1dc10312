package gomap

import (
	"reflect"
	"strings"
)

// rekey renames the keys of v which match the jaml tag of a field of t
// to the name the yaml decoder looks for.
func rekey(v any, t reflect.Type) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch x := v.(type) {
	case map[string]any:
		switch t.Kind() {
		case reflect.Struct:
			names := fieldNames(t)
			res := make(map[string]any, len(x))
			for k, val := range x {
				f, ok := names[k]
				if !ok {
					res[k] = val
					continue
				}
				res[decoderName(f)] = rekey(val, f.Type)
			}
			return res
		case reflect.Map:
			res := make(map[string]any, len(x))
			for k, val := range x {
				res[k] = rekey(val, t.Elem())
			}
			return res
		}
	case []any:
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return v
		}
		res := make([]any, len(x))
		for i, val := range x {
			res[i] = rekey(val, t.Elem())
		}
		return res
	}
	return v
}

// fieldNames maps the document key of each exported field of t to
// the field.
func fieldNames(t reflect.Type) map[string]reflect.StructField {
	res := map[string]reflect.StructField{}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := decoderName(f)
		if tag, _, _ := strings.Cut(f.Tag.Get("jaml"), ","); tag != "" && tag != "-" {
			name = tag
		}
		res[name] = f
	}
	return res
}

func decoderName(f reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		if tag, _, _ := strings.Cut(f.Tag.Get(key), ","); tag != "" && tag != "-" {
			return tag
		}
	}
	return strings.ToLower(f.Name)
}
