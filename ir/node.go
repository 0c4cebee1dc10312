package ir

import (
	"fmt"
	"slices"

	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/scope"
	"github.com/signadot/jaml/token"
)

type NodeID int

// NoNode is the zero reference.
const NoNode NodeID = -1

type Node struct {
	Kind Kind

	// Origin is the source text the node was built from, or canonical
	// text for synthetic nodes.
	Origin     string
	Start, End int
	Synthetic  bool
	// Edited is set on containers whose children were spliced.
	Edited bool

	// Value is the literal value of literal scalars, and the decoded
	// text of strings and interpolated strings.
	Value    any
	Resolved any
	Done     bool

	Kids []NodeID
	// Seps has len(Kids)+1 entries: the text before the first child,
	// between consecutive children and after the last one.
	Seps []string

	// Name is the key of an assignment or the dotted name of a header,
	// Path its segments.
	Name string
	Path []string
	// Type is the optional type annotation of an assignment.
	Type   string
	Flavor token.Flavor

	// Tier and Ref describe a scoped variable.
	Tier scope.Tier
	Ref  string

	Multiline bool

	// Expr is the expression of a folded value, the element of a
	// comprehension or the name of a comprehension header.
	Expr    eval.Expr
	KeyExpr eval.Expr
	Clauses []eval.Clause

	// Err holds an expression error found while building the node,
	// reported when the node is resolved.
	Err error
}

// IsComprehensionHeader reports whether a header node computes its
// name.
func (n *Node) IsComprehensionHeader() bool {
	return n.Kind == HeaderKind && n.Clauses != nil
}

// Document owns its nodes.
type Document struct {
	Source []byte
	Root   NodeID
	nodes  []Node
}

func NewDocument(src []byte) *Document {
	d := &Document{Source: src}
	d.Root = d.Add(Node{Kind: DocumentKind, End: len(src), Seps: []string{string(src)}})
	return d
}

func (d *Document) Add(n Node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// Node returns the node id refers to. The pointer is invalidated by
// Add, Clone and Splice.
func (d *Document) Node(id NodeID) *Node {
	return &d.nodes[id]
}

func (d *Document) Len() int { return len(d.nodes) }

// Kids returns the children of id.
func (d *Document) Kids(id NodeID) []NodeID {
	return d.nodes[id].Kids
}

// SetSpans fills in Origin and Seps of container from the source
// positions of itself and its children.
func (d *Document) SetSpans(id NodeID) {
	n := &d.nodes[id]
	src := d.Source
	n.Origin = string(src[n.Start:n.End])
	if !n.Kind.IsContainer() {
		return
	}
	seps := make([]string, len(n.Kids)+1)
	prev := n.Start
	for i, k := range n.Kids {
		kn := &d.nodes[k]
		seps[i] = string(src[prev:kn.Start])
		prev = kn.End
	}
	seps[len(n.Kids)] = string(src[prev:n.End])
	n.Seps = seps
}

// Splice replaces del children of parent starting at index at with
// ins. The separators around the replaced range are kept and sep is
// used between inserted children.
func (d *Document) Splice(parent NodeID, at, del int, sep string, ins ...NodeID) error {
	p := &d.nodes[parent]
	if !p.Kind.IsContainer() {
		return fmt.Errorf("%w: %s", ErrNotContainer, p.Kind)
	}
	if at < 0 || del < 0 || at+del > len(p.Kids) {
		return fmt.Errorf("%w: %d+%d of %d", ErrSpliceRange, at, del, len(p.Kids))
	}
	if len(p.Seps) != len(p.Kids)+1 {
		return fmt.Errorf("%w: %d separators for %d children", errInternal, len(p.Seps), len(p.Kids))
	}
	kids := slices.Concat(p.Kids[:at], ins, p.Kids[at+del:])
	var seps []string
	switch {
	case len(ins) > 0:
		fill := make([]string, len(ins)-1)
		for i := range fill {
			fill[i] = sep
		}
		seps = slices.Concat(p.Seps[:at+1], fill, p.Seps[at+del:])
	case at+del < len(p.Kids) || at == 0:
		seps = slices.Concat(p.Seps[:at+1], p.Seps[at+del+1:])
	default:
		// deleting a tail keeps the trailing separator
		seps = slices.Concat(p.Seps[:at], p.Seps[at+del:])
	}
	p.Kids = kids
	p.Seps = seps
	p.Edited = true
	return nil
}

// Clone deep copies the subtree at id and returns the id of the copy.
func (d *Document) Clone(id NodeID) NodeID {
	n := d.nodes[id]
	n.Kids = slices.Clone(n.Kids)
	n.Seps = slices.Clone(n.Seps)
	n.Path = slices.Clone(n.Path)
	res := d.Add(n)
	for i, k := range n.Kids {
		c := d.Clone(k)
		d.nodes[res].Kids[i] = c
	}
	return res
}

// Changed reports whether emitting id differs from its Origin.
func (d *Document) Changed(id NodeID) bool {
	n := &d.nodes[id]
	if n.Synthetic || n.Edited {
		return true
	}
	switch {
	case n.Kind.IsComputed():
		return n.Done
	case n.Kind.IsContainer():
		for _, k := range n.Kids {
			if d.Changed(k) {
				return true
			}
		}
	}
	return false
}

// Walk calls f on id and its descendants, parents first. Returning
// false skips the children.
func (d *Document) Walk(id NodeID, f func(NodeID, *Node) bool) {
	if !f(id, &d.nodes[id]) {
		return
	}
	for _, k := range d.nodes[id].Kids {
		d.Walk(k, f)
	}
}

// ValueOf returns the value child of an assignment.
func (d *Document) ValueOf(id NodeID) NodeID {
	n := &d.nodes[id]
	if n.Kind != AssignmentKind || len(n.Kids) == 0 {
		return NoNode
	}
	return n.Kids[0]
}

// HeaderOf returns the header of a section.
func (d *Document) HeaderOf(id NodeID) NodeID {
	n := &d.nodes[id]
	if !n.Kind.IsSection() || len(n.Kids) == 0 {
		return NoNode
	}
	return n.Kids[0]
}

// Sections returns the sections and table arrays of the document in
// order.
func (d *Document) Sections() []NodeID {
	var res []NodeID
	for _, k := range d.nodes[d.Root].Kids {
		if d.nodes[k].Kind.IsSection() {
			res = append(res, k)
		}
	}
	return res
}

// TableArrays returns the table array sections named name in order.
func (d *Document) TableArrays(name string) []NodeID {
	var res []NodeID
	for _, s := range d.Sections() {
		if d.nodes[s].Kind != TableArrayKind {
			continue
		}
		h := d.HeaderOf(s)
		if h != NoNode && !d.nodes[h].IsComprehensionHeader() && d.nodes[h].Name == name {
			res = append(res, s)
		}
	}
	return res
}
