// Package gomap stores plain document data in Go values.
package gomap

import (
	"reflect"

	"github.com/goccy/go-yaml"
)

type decodeOpts struct {
	strict bool
}

type DecodeOption func(*decodeOpts)

// Strict rejects keys which match no struct field.
func Strict() DecodeOption { return func(o *decodeOpts) { o.strict = true } }

// Decode stores data in the value p points to. Struct fields are
// matched by their jaml tag, then their yaml or json tag, then their
// lower cased name.
func Decode(data map[string]any, p any, opts ...DecodeOption) error {
	do := &decodeOpts{}
	for _, f := range opts {
		f(do)
	}
	if t := reflect.TypeOf(p); t != nil && t.Kind() == reflect.Pointer {
		data, _ = rekey(data, t.Elem()).(map[string]any)
	}
	d, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	var yOpts []yaml.DecodeOption
	if do.strict {
		yOpts = append(yOpts, yaml.DisallowUnknownField())
	}
	return yaml.UnmarshalWithOptions(d, p, yOpts...)
}
