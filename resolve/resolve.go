// Package resolve evaluates documents in place.
//
// Resolution runs in document order. Top level assignments and the
// literal assignments of every section seed the global tier first.
// Each section then gets a local tier seeded with its own literals, its
// header is resolved, and its lines are resolved left to right, each
// assignment updating the local tier. The lines are resolved again
// while that makes progress, so a line may use a computed line below it. The values of a finished section
// are merged back into the global tier under the section name.
//
// Without a context tier, references to ${...} are left in place:
// folded expressions are reduced as far as possible and interpolated
// strings keep their context markers. Rendering resolves again with
// the context tier available.
package resolve

import (
	"errors"
	"fmt"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/scope"
	"github.com/signadot/jaml/token"
)

// Resolve evaluates d in place. Evaluation failures are reported to the
// diagnostics sink and leave the failing node as written. The returned
// error is only for documents which cannot be restructured.
func Resolve(d *ir.Document, opts ...Option) error {
	o := &resolveOpts{sink: diag.Discard}
	for _, opt := range opts {
		opt(o)
	}
	r := &resolver{
		d:      d,
		o:      o,
		pd:     token.NewPosDoc(d.Source),
		global: scope.Copy(o.globals),
		items:  map[string]int{},
	}
	return r.run()
}

type resolver struct {
	d      *ir.Document
	o      *resolveOpts
	pd     *token.PosDoc
	global map[string]any
	// items counts the table array instances merged so far by name.
	items map[string]int
}

func (r *resolver) scope(local map[string]any) *scope.Scope {
	s := scope.New(r.global).WithLocal(local)
	if r.o.context != nil {
		s = s.WithContext(r.o.context)
	}
	return s
}

func (r *resolver) report(sev diag.Severity, id ir.NodeID, path string, err error) {
	n := r.d.Node(id)
	dg := diag.Diagnostic{Severity: sev, Path: path, Err: err}
	if !n.Synthetic {
		dg.Pos = r.pd.Pos(n.Start)
	}
	if debug.Resolve() {
		debug.Logf("resolve %s\n", dg)
	}
	r.o.sink.Report(dg)
}

func (r *resolver) run() error {
	root := r.d.Root
	seen := map[string]int{}
	for _, k := range r.d.Kids(root) {
		n := r.d.Node(k)
		switch n.Kind {
		case ir.AssignmentKind:
			if v, ok := r.concrete(r.d.ValueOf(k)); ok {
				scope.Set(r.global, n.Path, v)
			}
		case ir.SectionKind:
			if !r.isComprehension(k) {
				mergeInto(tableAt(r.global, n.Path), r.scan(k))
			}
		case ir.TableArrayKind:
			if !r.isComprehension(k) {
				key := ir.KeyPath(n.Path)
				mergeInto(itemAt(r.global, n.Path, seen[key]), r.scan(k))
				seen[key]++
			}
		}
	}
	top := r.scope(r.global)
	r.settle(r.d.Kids(root), func(k ir.NodeID) bool {
		_, ok := r.assign(k, top, r.global)
		return ok
	})
	for i := 0; i < len(r.d.Kids(root)); i++ {
		k := r.d.Kids(root)[i]
		switch r.d.Node(k).Kind {
		case ir.SectionKind, ir.TableArrayKind:
			n, err := r.section(i, k)
			if err != nil {
				return err
			}
			i += n - 1
		}
	}
	if debug.Resolve() {
		debug.Logf("global scope %v\n", r.global)
	}
	return nil
}

func (r *resolver) isComprehension(sec ir.NodeID) bool {
	h := r.d.HeaderOf(sec)
	return h != ir.NoNode && r.d.Node(h).IsComprehensionHeader()
}

// scan collects the values of the assignments of sec which are known
// without evaluation.
func (r *resolver) scan(sec ir.NodeID) map[string]any {
	res := map[string]any{}
	for _, k := range r.d.Kids(sec) {
		n := r.d.Node(k)
		if n.Kind != ir.AssignmentKind {
			continue
		}
		if v, ok := r.concrete(r.d.ValueOf(k)); ok {
			scope.Set(res, n.Path, v)
		}
	}
	return res
}

// section resolves the section at index at of the document and returns
// how many sections now stand in its place.
func (r *resolver) section(at int, id ir.NodeID) (int, error) {
	if r.isComprehension(id) {
		return r.expand(at, id)
	}
	n := r.d.Node(id)
	kind, path := n.Kind, n.Path
	s := r.scope(r.scan(id))
	r.merge(kind, path, r.body(id, s))
	return 1, nil
}

// body resolves the lines of a section and returns the values which
// resolved completely.
func (r *resolver) body(sec ir.NodeID, s *scope.Scope) map[string]any {
	vals := map[string]any{}
	r.settle(r.d.Kids(sec)[1:], func(k ir.NodeID) bool {
		v, ok := r.assign(k, s, s.Local)
		if ok {
			scope.Set(vals, r.d.Node(k).Path, v)
		}
		return ok
	})
	return vals
}

// settle resolves the assignments among lines in order, and again while
// a pass resolves more of them than the one before, so that a line may
// refer to a computed line further down. There are at most as many
// passes as lines. Only the diagnostics of the last pass are reported.
func (r *resolver) settle(lines []ir.NodeID, assign func(ir.NodeID) bool) {
	sink := r.o.sink
	defer func() { r.o.sink = sink }()
	var assigns []ir.NodeID
	for _, k := range lines {
		if r.d.Node(k).Kind == ir.AssignmentKind {
			assigns = append(assigns, k)
		}
	}
	var buf *diag.List
	prev := -1
	for pass := 0; pass <= len(assigns); pass++ {
		buf = &diag.List{}
		r.o.sink = buf
		n := 0
		for _, k := range assigns {
			if assign(k) {
				n++
			}
		}
		if debug.Resolve() {
			debug.Logf("resolve pass %d: %d of %d lines\n", pass, n, len(assigns))
		}
		if n <= prev || n == len(assigns) {
			break
		}
		prev = n
	}
	for _, dg := range buf.Items {
		sink.Report(dg)
	}
}

func (r *resolver) merge(kind ir.Kind, path []string, vals map[string]any) {
	var dst map[string]any
	if kind == ir.SectionKind {
		dst = tableAt(r.global, path)
	} else {
		key := ir.KeyPath(path)
		dst = itemAt(r.global, path, r.items[key])
		r.items[key]++
	}
	mergeInto(dst, vals)
}

// assign resolves an assignment and stores its value in local when it
// is known.
func (r *resolver) assign(id ir.NodeID, s *scope.Scope, local map[string]any) (any, bool) {
	a := r.d.Node(id)
	path, name, typ := a.Path, a.Name, a.Type
	v := r.d.ValueOf(id)
	r.value(v, s, name)
	val, ok := r.concrete(v)
	if !ok {
		return nil, false
	}
	if typ != "" && !typeOK(typ, val) {
		r.report(diag.Warning, id, name, fmt.Errorf("%w: declared %s, got %s", ErrTypeMismatch, typ, eval.TypeName(val)))
	}
	if local != nil {
		scope.Set(local, path, val)
	}
	return val, true
}

func (r *resolver) value(id ir.NodeID, s *scope.Scope, path string) {
	n := r.d.Node(id)
	if n.Err != nil {
		r.report(diag.Error, id, path, n.Err)
		return
	}
	switch n.Kind {
	case ir.IntegerKind, ir.FloatKind, ir.BoolKind, ir.NullKind, ir.StringKind:
		if !n.Done {
			n.Resolved, n.Done = n.Value, true
		}
	case ir.FStringKind:
		r.fstring(id, s, path)
	case ir.ScopedVarKind:
		r.scoped(id, s, path)
	case ir.FoldedKind:
		r.folded(id, s, path)
	case ir.ListCompKind, ir.DictCompKind, ir.TableCompKind:
		r.comprehension(id, s, path)
	case ir.ArrayKind:
		for _, k := range n.Kids {
			r.value(k, s, path)
		}
	case ir.InlineTableKind:
		for _, k := range n.Kids {
			r.value(r.d.ValueOf(k), s, path+"."+r.d.Node(k).Name)
		}
	default:
		panic("resolve: unexpected value " + n.Kind.String())
	}
}

func (r *resolver) scoped(id ir.NodeID, s *scope.Scope, path string) {
	n := r.d.Node(id)
	if n.Done {
		return
	}
	m, _ := n.Expr.(*eval.Marker)
	if m == nil {
		m = &eval.Marker{Tier: n.Tier, Path: n.Ref}
	}
	v, err := eval.LookupMarker(m, s)
	switch {
	case err == nil:
		n.Resolved, n.Done = v, true
	case errors.Is(err, eval.ErrDeferred):
	case errors.Is(err, eval.ErrUnresolved):
		r.report(diag.Info, id, path, err)
	default:
		r.report(diag.Error, id, path, err)
	}
}

func (r *resolver) folded(id ir.NodeID, s *scope.Scope, path string) {
	n := r.d.Node(id)
	e := n.Expr
	if n.Done {
		d, ok := n.Resolved.(ir.Deferred)
		if !ok {
			return
		}
		e = d.Expr
	}
	res, err := eval.Fold(e, s)
	if err != nil {
		r.report(diag.Error, id, path, err)
		return
	}
	n = r.d.Node(id)
	if l, ok := res.(*eval.Lit); ok {
		n.Resolved, n.Done = eval.Normalize(l.Value), true
		return
	}
	r.missing(id, path, eval.Markers(res))
	if eval.Format(res) == eval.Format(e) {
		return
	}
	n.Resolved, n.Done = ir.Deferred{Expr: res}, true
}

func (r *resolver) fstring(id ir.NodeID, s *scope.Scope, path string) {
	n := r.d.Node(id)
	text, _ := n.Value.(string)
	if n.Done {
		t, ok := n.Resolved.(ir.Template)
		if !ok {
			return
		}
		text = t.Text
	}
	out, missing, err := eval.Interpolate(text, s)
	if err != nil {
		r.report(diag.Error, id, path, err)
		return
	}
	n = r.d.Node(id)
	if len(missing) == 0 {
		n.Resolved, n.Done = out, true
		return
	}
	r.missing(id, path, eval.TextMarkers(out))
	if out == text {
		return
	}
	n.Resolved, n.Done = ir.Template{Text: out}, true
}

// missing reports the markers which are left over although the tier
// they refer to is available.
func (r *resolver) missing(id ir.NodeID, path string, ms []*eval.Marker) {
	for _, m := range ms {
		if m.Tier == scope.Context && r.o.context == nil {
			continue
		}
		r.report(diag.Info, id, path, fmt.Errorf("%w: %c{%s}", eval.ErrUnresolved, m.Tier.Sigil(), m.Path))
	}
}

func (r *resolver) comprehension(id ir.NodeID, s *scope.Scope, path string) {
	n := r.d.Node(id)
	if n.Done {
		return
	}
	kind, elem, key, clauses := n.Kind, n.Expr, n.KeyExpr, n.Clauses
	list := []any{}
	m := map[string]any{}
	err := eval.Expand(clauses, s, func(is *scope.Scope) error {
		v, err := eval.Eval(elem, is)
		if err != nil {
			return err
		}
		if kind == ir.ListCompKind {
			list = append(list, v)
			return nil
		}
		k, err := eval.Eval(key, is)
		if err != nil {
			return err
		}
		if k == nil {
			return nil
		}
		m[eval.Str(k)] = v
		return nil
	})
	switch {
	case errors.Is(err, eval.ErrDeferred):
		return
	case err != nil && errors.Is(err, eval.ErrUnresolved):
		r.report(diag.Info, id, path, err)
		return
	case err != nil:
		r.report(diag.Error, id, path, err)
		return
	}
	n = r.d.Node(id)
	n.Done = true
	if kind == ir.ListCompKind {
		n.Resolved = eval.Normalize(list)
	} else {
		n.Resolved = eval.Normalize(m)
	}
	if debug.Comprehension() {
		debug.Logf("%s %s -> %v\n", kind, path, n.Resolved)
	}
}

// concrete returns the value of a value node when it is known and
// does not depend on the context tier.
func (r *resolver) concrete(id ir.NodeID) (any, bool) {
	if id == ir.NoNode {
		return nil, false
	}
	n := r.d.Node(id)
	if n.Err != nil {
		return nil, false
	}
	switch {
	case n.Kind.IsLiteral():
		if n.Done {
			return n.Resolved, true
		}
		return n.Value, true
	case n.Kind == ir.FStringKind && !n.Done:
		text, _ := n.Value.(string)
		if len(eval.TextMarkers(text)) != 0 {
			return nil, false
		}
		return text, true
	case n.Kind.IsComputed():
		if !n.Done {
			return nil, false
		}
		switch n.Resolved.(type) {
		case ir.Deferred, ir.Template:
			return nil, false
		}
		return n.Resolved, true
	case n.Kind == ir.ArrayKind:
		res := make([]any, len(n.Kids))
		for i, k := range n.Kids {
			v, ok := r.concrete(k)
			if !ok {
				return nil, false
			}
			res[i] = v
		}
		return res, true
	case n.Kind == ir.InlineTableKind:
		res := map[string]any{}
		for _, k := range n.Kids {
			v, ok := r.concrete(r.d.ValueOf(k))
			if !ok {
				return nil, false
			}
			scope.Set(res, r.d.Node(k).Path, v)
		}
		return res, true
	}
	return nil, false
}

func typeOK(typ string, v any) bool {
	switch typ {
	case "int":
		_, ok := v.(int64)
		return ok
	case "float":
		switch v.(type) {
		case int64, float64:
			return true
		}
		return false
	case "str", "string":
		_, ok := v.(string)
		return ok
	case "bool":
		_, ok := v.(bool)
		return ok
	case "list", "array":
		_, ok := v.([]any)
		return ok
	case "dict", "table", "mapping":
		_, ok := v.(map[string]any)
		return ok
	case "null", "none":
		return v == nil
	}
	return true
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeInto(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

// tableAt returns the mapping at path in m, creating it when needed.
// A path through a list of tables refers to its last element.
func tableAt(m map[string]any, path []string) map[string]any {
	cur := m
	for _, seg := range path {
		switch x := cur[seg].(type) {
		case map[string]any:
			cur = x
			continue
		case []any:
			if len(x) > 0 {
				if last, ok := x[len(x)-1].(map[string]any); ok {
					cur = last
					continue
				}
			}
		}
		next := map[string]any{}
		cur[seg] = next
		cur = next
	}
	return cur
}

// itemAt returns element i of the list of tables at path, growing the
// list when needed.
func itemAt(m map[string]any, path []string, i int) map[string]any {
	if len(path) == 0 {
		return m
	}
	parent := tableAt(m, path[:len(path)-1])
	key := path[len(path)-1]
	list, _ := parent[key].([]any)
	for len(list) <= i {
		list = append(list, map[string]any{})
	}
	parent[key] = list
	item, ok := list[i].(map[string]any)
	if !ok {
		item = map[string]any{}
		list[i] = item
	}
	return item
}
