package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/ir"
	"go.lsp.dev/protocol"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil || doc.resolved == nil {
		return nil, nil
	}
	id, path := assignmentAt(doc.resolved, doc.offset(params.Position))
	if id == ir.NoNode {
		return nil, nil
	}
	n := doc.resolved.Node(id)
	rng := doc.span(n.Start, n.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText(doc.resolved, id, path),
		},
		Range: &rng,
	}, nil
}

// assignmentAt finds the innermost assignment from the source whose span
// contains off and returns it with its full key path.
func assignmentAt(d *ir.Document, off int) (ir.NodeID, []string) {
	best, bestPath := ir.NoNode, []string(nil)
	var visit func(id ir.NodeID, prefix []string)
	visit = func(id ir.NodeID, prefix []string) {
		n := d.Node(id)
		if n.Synthetic || off < n.Start || off >= n.End {
			return
		}
		switch {
		case n.Kind.IsSection():
			if h := d.HeaderOf(id); h != ir.NoNode {
				prefix = slices.Clone(d.Node(h).Path)
			}
		case n.Kind == ir.AssignmentKind:
			prefix = slices.Concat(prefix, n.Path)
			best, bestPath = id, prefix
		}
		for _, k := range n.Kids {
			visit(k, prefix)
		}
	}
	visit(d.Root, nil)
	return best, bestPath
}

func hoverText(d *ir.Document, id ir.NodeID, path []string) string {
	n := d.Node(id)
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", ir.KeyPath(path))
	if n.Type != "" {
		fmt.Fprintf(&b, " `%s`", n.Type)
	}
	v := d.ValueOf(id)
	if v == ir.NoNode {
		return b.String()
	}
	vn := d.Node(v)
	fmt.Fprintf(&b, "\n\n```jaml\n%s\n```", encode.NodeString(d, v))
	switch {
	case !vn.Kind.IsComputed():
	case !vn.Done:
		b.WriteString("\n\nunresolved")
	case isDeferred(vn.Resolved):
		b.WriteString("\n\ndeferred until render")
	default:
		fmt.Fprintf(&b, "\n\nfrom `%s`", vn.Origin)
	}
	return b.String()
}

func isDeferred(v any) bool {
	switch v.(type) {
	case ir.Deferred, ir.Template:
		return true
	}
	return false
}
