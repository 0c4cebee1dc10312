package encode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/ir"
	"github.com/zclconf/go-cty/cty"
)

var ErrUnencodable = errors.New("value cannot be encoded")

// EncodeData writes plain data in the format chosen with EncodeFormat.
func EncodeData(data map[string]any, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	data, _ = eval.Normalize(data).(map[string]any)
	switch es.format {
	case format.JAMLFormat:
		return Encode(ir.FromData(data), w, opts...)
	case format.YAMLFormat:
		d, err := yaml.MarshalWithOptions(data, yaml.Indent(es.indent), yaml.IndentSequence(true))
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	case format.JSONFormat:
		if err := checkFinite(data); err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case format.HCLFormat:
		f := hclwrite.NewEmptyFile()
		if err := hclBody(f.Body(), data); err != nil {
			return err
		}
		_, err := f.WriteTo(w)
		return err
	}
	return fmt.Errorf("%w: %s", format.ErrBadFormat, es.format)
}

func checkFinite(v any) error {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return fmt.Errorf("%w: %v in json", ErrUnencodable, x)
		}
	case []any:
		for _, y := range x {
			if err := checkFinite(y); err != nil {
				return err
			}
		}
	case map[string]any:
		for _, y := range x {
			if err := checkFinite(y); err != nil {
				return err
			}
		}
	}
	return nil
}

// hclBody writes scalars and lists as attributes, mappings as blocks
// and lists of mappings as repeated blocks.
func hclBody(b *hclwrite.Body, m map[string]any) error {
	var blocks []string
	for _, k := range eval.SortedKeys(m) {
		switch x := m[k].(type) {
		case map[string]any:
			blocks = append(blocks, k)
			continue
		case []any:
			if isTables(x) {
				blocks = append(blocks, k)
				continue
			}
		}
		v, err := toCty(m[k])
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		b.SetAttributeValue(k, v)
	}
	for _, k := range blocks {
		var items []any
		switch x := m[k].(type) {
		case map[string]any:
			items = []any{x}
		case []any:
			items = x
		}
		for _, item := range items {
			b.AppendNewline()
			blk := b.AppendNewBlock(k, nil)
			if err := hclBody(blk.Body(), item.(map[string]any)); err != nil {
				return err
			}
		}
	}
	return nil
}

func isTables(xs []any) bool {
	if len(xs) == 0 {
		return false
	}
	for _, x := range xs {
		if _, ok := x.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func toCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(x), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case float64:
		if math.IsNaN(x) {
			return cty.NilVal, fmt.Errorf("%w: nan in hcl", ErrUnencodable)
		}
		return cty.NumberFloatVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case []any:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vs := make([]cty.Value, len(x))
		for i, y := range x {
			cv, err := toCty(y)
			if err != nil {
				return cty.NilVal, err
			}
			vs[i] = cv
		}
		return cty.TupleVal(vs), nil
	case map[string]any:
		if len(x) == 0 {
			return cty.EmptyObjectVal, nil
		}
		vs := make(map[string]cty.Value, len(x))
		for k, y := range x {
			cv, err := toCty(y)
			if err != nil {
				return cty.NilVal, err
			}
			vs[k] = cv
		}
		return cty.ObjectVal(vs), nil
	}
	return cty.NilVal, fmt.Errorf("%w: %T", ErrUnencodable, v)
}
