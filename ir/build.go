package ir

import (
	"strings"

	"github.com/signadot/jaml/eval"
)

// FromValue adds a synthetic node holding v, which is normalized
// first. The node is resolved and its Origin is the canonical text of
// v.
func FromValue(d *Document, v any) NodeID {
	v = eval.Normalize(v)
	n := Node{
		Synthetic: true,
		Done:      true,
		Value:     v,
		Resolved:  v,
		Origin:    ValueText(v),
	}
	switch x := v.(type) {
	case nil:
		n.Kind = NullKind
	case bool:
		n.Kind = BoolKind
	case int64:
		n.Kind = IntegerKind
	case float64:
		n.Kind = FloatKind
	case string:
		n.Kind = StringKind
	case []any:
		n.Kind = ArrayKind
		n.Seps = []string{""}
	case map[string]any:
		n.Kind = InlineTableKind
		n.Seps = []string{""}
	case Deferred:
		n.Kind = FoldedKind
		n.Value = nil
		n.Expr = x.Expr
	case Template:
		n.Kind = FStringKind
		n.Value = x.Text
	default:
		n.Kind = StringKind
		n.Value = eval.Str(v)
		n.Resolved = n.Value
		n.Origin = ValueText(n.Value)
	}
	return d.Add(n)
}

// KeyPath prints a dotted name, quoting segments which are not bare
// keys.
func KeyPath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = eval.KeyText(p)
	}
	return strings.Join(parts, ".")
}

// NewAssignment adds a synthetic "key = value" line.
func NewAssignment(d *Document, path []string, value NodeID) NodeID {
	name := KeyPath(path)
	return d.Add(Node{
		Kind:      AssignmentKind,
		Synthetic: true,
		Name:      name,
		Path:      append([]string(nil), path...),
		Kids:      []NodeID{value},
		Seps:      []string{name + " = ", ""},
		Origin:    name + " = " + d.nodes[value].Origin,
	})
}

// NewHeader adds a synthetic section header for a section of kind k.
func NewHeader(d *Document, k Kind, path []string) NodeID {
	name := KeyPath(path)
	text := "[" + name + "]"
	if k == TableArrayKind {
		text = "[[" + name + "]]"
	}
	return d.Add(Node{
		Kind:      HeaderKind,
		Synthetic: true,
		Name:      name,
		Path:      append([]string(nil), path...),
		Origin:    text,
	})
}

// NewSection adds a synthetic section of kind k holding header
// followed by lines, one per line.
func NewSection(d *Document, k Kind, header NodeID, lines ...NodeID) NodeID {
	kids := append([]NodeID{header}, lines...)
	seps := make([]string, len(kids)+1)
	for i := 1; i < len(kids); i++ {
		seps[i] = "\n"
	}
	return d.Add(Node{
		Kind:      k,
		Synthetic: true,
		Kids:      kids,
		Seps:      seps,
	})
}

// NewLine adds a synthetic comment or blank line.
func NewLine(d *Document, k Kind, text string) NodeID {
	return d.Add(Node{Kind: k, Synthetic: true, Origin: text})
}

// FromData builds a synthetic document holding data. Scalars and
// arrays become top level assignments, mappings become sections and
// arrays of mappings become table arrays.
func FromData(data map[string]any) *Document {
	d := NewDocument(nil)
	root := &d.nodes[d.Root]
	root.Seps = []string{""}
	root.Synthetic = true
	m, _ := eval.Normalize(data).(map[string]any)
	var lines, secs []NodeID
	addTable(d, nil, m, &lines, &secs)
	kids := append(lines, secs...)
	seps := make([]string, len(kids)+1)
	for i := 1; i < len(kids); i++ {
		seps[i] = "\n"
		if i >= len(lines) {
			seps[i] = "\n\n"
		}
	}
	if len(kids) > 0 {
		seps[len(kids)] = "\n"
	}
	root = &d.nodes[d.Root]
	root.Kids = kids
	root.Seps = seps
	return d
}

func isTableList(v any) bool {
	xs, ok := v.([]any)
	if !ok || len(xs) == 0 {
		return false
	}
	for _, x := range xs {
		if _, ok := x.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// addTable appends the scalar entries of m at path to lines and the
// sections for its nested tables to secs.
func addTable(d *Document, path []string, m map[string]any, lines, secs *[]NodeID) {
	var tables []string
	for _, k := range eval.SortedKeys(m) {
		v := m[k]
		_, isMap := v.(map[string]any)
		if isMap || isTableList(v) {
			tables = append(tables, k)
			continue
		}
		*lines = append(*lines, NewAssignment(d, []string{k}, FromValue(d, v)))
	}
	for _, k := range tables {
		sub := append(append([]string(nil), path...), k)
		switch x := m[k].(type) {
		case map[string]any:
			var body, nested []NodeID
			addTable(d, sub, x, &body, &nested)
			*secs = append(*secs, NewSection(d, SectionKind, NewHeader(d, SectionKind, sub), body...))
			*secs = append(*secs, nested...)
		case []any:
			for _, item := range x {
				var body []NodeID
				for _, ik := range eval.SortedKeys(item.(map[string]any)) {
					body = append(body, NewAssignment(d, []string{ik}, FromValue(d, item.(map[string]any)[ik])))
				}
				*secs = append(*secs, NewSection(d, TableArrayKind, NewHeader(d, TableArrayKind, sub), body...))
			}
		}
	}
}
