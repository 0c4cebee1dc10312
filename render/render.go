// Package render produces the final data of a document given the
// caller's context values.
package render

import (
	"maps"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/resolve"
)

// Render parses src, resolves it with ctx as the context tier and
// returns its data. Markers which cannot be found anywhere stay in the
// data as text.
func Render(src []byte, ctx map[string]any, opts ...resolve.Option) (map[string]any, error) {
	d, err := Document(src, ctx, opts...)
	if err != nil {
		return nil, err
	}
	return d.Data(), nil
}

// Document is like Render but returns the rendered document.
func Document(src []byte, ctx map[string]any, opts ...resolve.Option) (*ir.Document, error) {
	d, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	ctx = Context(ctx)
	if debug.Render() {
		debug.Logf("render with context %v\n", ctx)
	}
	opts = append(opts[:len(opts):len(opts)], resolve.WithContext(ctx))
	if err := resolve.Resolve(d, opts...); err != nil {
		return nil, err
	}
	return d, nil
}

// Again renders a document which may have been edited or resolved
// already. It always starts from the text of d.
func Again(d *ir.Document, ctx map[string]any, opts ...resolve.Option) (map[string]any, error) {
	return Render([]byte(encode.String(d)), ctx, opts...)
}

// Context normalizes the caller's context values and adds the boolean
// names.
func Context(ctx map[string]any) map[string]any {
	res := map[string]any{"true": true, "false": false}
	if ctx == nil {
		return res
	}
	n, _ := eval.Normalize(maps.Clone(ctx)).(map[string]any)
	maps.Copy(res, n)
	return res
}
