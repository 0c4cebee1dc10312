package main

import (
	"context"
	"slices"
	"strings"

	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/token"
	"go.lsp.dev/protocol"
)

// Completion offers names after an opened marker: the assignments of
// the enclosing section after "%{", and the context names already used
// in the document after "${".
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}
	off := doc.offset(params.Position)
	var (
		names []string
		kind  protocol.CompletionItemKind
	)
	switch before := doc.content[:off]; {
	case strings.HasSuffix(before, "%{"):
		if doc.resolved == nil {
			return nil, nil
		}
		names, kind = localNames(doc.resolved, off), protocol.CompletionItemKindField
	case strings.HasSuffix(before, "${"):
		names, kind = contextNames(doc.content, off), protocol.CompletionItemKindVariable
	default:
		return nil, nil
	}
	items := make([]protocol.CompletionItem, len(names))
	for i, name := range names {
		items[i] = protocol.CompletionItem{
			Label:      name,
			Kind:       kind,
			InsertText: name + "}",
		}
	}
	return &protocol.CompletionList{Items: items}, nil
}

func localNames(d *ir.Document, off int) []string {
	owner := d.Root
	for _, sec := range d.Sections() {
		n := d.Node(sec)
		if !n.Synthetic && n.Start <= off && off <= n.End {
			owner = sec
		}
	}
	var res []string
	for _, k := range d.Kids(owner) {
		n := d.Node(k)
		if n.Kind == ir.AssignmentKind && !slices.Contains(res, n.Name) {
			res = append(res, n.Name)
		}
	}
	return res
}

// contextNames scans content without the line at off, which holds the
// unclosed marker.
func contextNames(content string, off int) []string {
	from := strings.LastIndexByte(content[:off], '\n') + 1
	to := lineEnd(content, off)
	toks, err := token.Tokenize([]byte(content[:from] + content[to:]))
	if err != nil {
		return nil
	}
	var res []string
	for i := range toks {
		t := &toks[i]
		if t.Type != token.TContextVar {
			continue
		}
		if p := eval.MarkerOf(t).Path; !slices.Contains(res, p) {
			res = append(res, p)
		}
	}
	slices.Sort(res)
	return res
}
