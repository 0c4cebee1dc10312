// Package mergeop combines and patches plain document data with JSON
// merge patches and JSON patches.
package mergeop

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"
	"github.com/signadot/jaml/debug"
)

// Layer merges layers over base in order with merge patch semantics:
// mappings merge recursively and null deletes. Neither base nor the
// layers are modified.
func Layer(base map[string]any, layers ...map[string]any) (map[string]any, error) {
	doc, err := toJSON(base)
	if err != nil {
		return nil, err
	}
	for i, l := range layers {
		p, err := toJSON(l)
		if err != nil {
			return nil, err
		}
		if debug.LoadEnv() {
			debug.Logf("layer %d: %s\n", i, p)
		}
		doc, err = jsonpatch.MergePatch(doc, p)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return fromJSON(doc)
}

// Merge applies a merge patch given as JSON or YAML text to data.
func Merge(data map[string]any, patch []byte) (map[string]any, error) {
	p, err := asJSON(patch)
	if err != nil {
		return nil, err
	}
	doc, err := toJSON(data)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(doc, p)
	if err != nil {
		return nil, err
	}
	return fromJSON(out)
}

// Apply applies a JSON patch given as JSON or YAML text to data.
func Apply(data map[string]any, patch []byte) (map[string]any, error) {
	p, err := asJSON(patch)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, err
	}
	doc, err := toJSON(data)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, err
	}
	return fromJSON(out)
}

// asJSON converts YAML text to JSON. JSON text is YAML too.
func asJSON(d []byte) ([]byte, error) {
	if json.Valid(d) {
		return d, nil
	}
	return yaml.YAMLToJSON(d)
}

func toJSON(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// fromJSON decodes a JSON object keeping integers as int64.
func fromJSON(d []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	m, ok := numbers(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotMapping, d)
	}
	return m, nil
}

func numbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, y := range x {
			x[k] = numbers(y)
		}
	case []any:
		for i, y := range x {
			x[i] = numbers(y)
		}
	}
	return v
}
