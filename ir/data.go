package ir

import (
	"github.com/signadot/jaml/scope"
)

// Data collapses the document into plain data. Sections with a
// comprehension header which has not been expanded are left out.
func (d *Document) Data() map[string]any {
	res := map[string]any{}
	for _, k := range d.nodes[d.Root].Kids {
		n := &d.nodes[k]
		switch n.Kind {
		case AssignmentKind:
			scope.Set(res, n.Path, d.Plain(d.ValueOf(k)))
		case SectionKind, TableArrayKind:
			h := &d.nodes[d.HeaderOf(k)]
			if h.IsComprehensionHeader() {
				continue
			}
			var tbl map[string]any
			if n.Kind == SectionKind {
				tbl = table(res, h.Path)
			} else {
				tbl = appendTable(res, h.Path)
			}
			d.collect(k, tbl)
		case CommentKind, BlankKind:
		default:
			panic("ir: unexpected top level " + n.Kind.String())
		}
	}
	return res
}

// SectionData returns the assignments of a section as a mapping.
func (d *Document) SectionData(id NodeID) map[string]any {
	res := map[string]any{}
	d.collect(id, res)
	return res
}

func (d *Document) collect(id NodeID, dst map[string]any) {
	for _, k := range d.nodes[id].Kids {
		n := &d.nodes[k]
		if n.Kind == AssignmentKind {
			scope.Set(dst, n.Path, d.Plain(d.ValueOf(k)))
		}
	}
}

// table returns the table at path, creating it when needed. A path
// through an array of tables refers to its last element.
func table(m map[string]any, path []string) map[string]any {
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

func appendTable(m map[string]any, path []string) map[string]any {
	if len(path) == 0 {
		return m
	}
	parent := table(m, path[:len(path)-1])
	key := path[len(path)-1]
	list, _ := parent[key].([]any)
	item := map[string]any{}
	parent[key] = append(list, item)
	return item
}

// Plain returns the value of a value node. Unresolved scoped variables,
// folded expressions and comprehensions yield their source text.
func (d *Document) Plain(id NodeID) any {
	if id == NoNode {
		return nil
	}
	n := &d.nodes[id]
	if n.Done {
		return plainValue(n.Resolved)
	}
	switch n.Kind {
	case IntegerKind, FloatKind, BoolKind, NullKind, StringKind:
		if n.Value != nil || n.Kind == NullKind {
			return n.Value
		}
		v, err := Coerce(n)
		if err != nil {
			return n.Origin
		}
		return v
	case FStringKind:
		if s, ok := n.Value.(string); ok {
			return s
		}
		return n.Origin
	case ScopedVarKind, FoldedKind, ListCompKind, DictCompKind, TableCompKind:
		return n.Origin
	case ArrayKind:
		res := make([]any, len(n.Kids))
		for i, k := range n.Kids {
			res[i] = d.Plain(k)
		}
		return res
	case InlineTableKind:
		res := map[string]any{}
		d.collect(id, res)
		return res
	}
	panic("ir: no plain value for " + n.Kind.String())
}

func plainValue(v any) any {
	switch x := v.(type) {
	case Deferred:
		return x.Source()
	case Template:
		return x.Text
	case []any:
		res := make([]any, len(x))
		for i, y := range x {
			res[i] = plainValue(y)
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, y := range x {
			res[k] = plainValue(y)
		}
		return res
	}
	return v
}
