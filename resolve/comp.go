package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/scope"
)

// expand replaces the section at index at, whose header is a
// comprehension, with one resolved section per produced name. Sections
// whose header depends on the context tier are left for rendering.
func (r *resolver) expand(at int, id ir.NodeID) (int, error) {
	sec := r.d.Node(id)
	kind := sec.Kind
	seps := slices.Clone(sec.Seps)
	body := slices.Clone(sec.Kids[1:])
	hid := sec.Kids[0]
	h := r.d.Node(hid)
	if h.Err != nil {
		r.report(diag.Error, hid, h.Name, h.Err)
		return 1, nil
	}
	name, expr, clauses := h.Name, h.Expr, h.Clauses

	var made []ir.NodeID
	err := eval.Expand(clauses, r.scope(r.scan(id)), func(is *scope.Scope) error {
		v, err := eval.Eval(expr, is)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		path, err := headerPath(v)
		if err != nil {
			return err
		}
		lines := make([]ir.NodeID, len(body))
		for i, k := range body {
			lines[i] = r.d.Clone(k)
		}
		ns := ir.NewSection(r.d, kind, ir.NewHeader(r.d, kind, path), lines...)
		r.d.Node(ns).Seps = slices.Clone(seps)
		r.merge(kind, path, r.body(ns, is))
		made = append(made, ns)
		return nil
	})
	switch {
	case errors.Is(err, eval.ErrDeferred):
		return 1, nil
	case err != nil && errors.Is(err, eval.ErrUnresolved):
		r.report(diag.Info, hid, name, err)
		return 1, nil
	case err != nil:
		r.report(diag.Error, hid, name, err)
		return 1, nil
	}
	if debug.Comprehension() {
		debug.Logf("expanded [%s] into %d sections\n", name, len(made))
	}
	if err := r.d.Splice(r.d.Root, at, 1, "\n", made...); err != nil {
		return 0, err
	}
	return len(made), nil
}

// headerPath converts a produced header value to a section name.
func headerPath(v any) ([]string, error) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case int64, float64, bool:
		s = eval.Str(x)
	default:
		return nil, &eval.ValueError{
			Kind: eval.InvalidLiteral,
			Msg:  fmt.Sprintf("section name from %s", eval.TypeName(v)),
			Err:  ErrHeaderName,
		}
	}
	path := strings.Split(s, ".")
	for _, p := range path {
		if p == "" {
			return nil, &eval.ValueError{Kind: eval.InvalidLiteral, Msg: fmt.Sprintf("%q", s), Err: ErrHeaderName}
		}
	}
	return path, nil
}
