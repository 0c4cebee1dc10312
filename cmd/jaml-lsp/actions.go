package main

import (
	"context"

	"github.com/signadot/jaml/encode"
	"go.lsp.dev/protocol"
)

// resolveKind is the code action kind which rewrites a document with
// every statically known value folded in.
const resolveKind protocol.CodeActionKind = "source.resolve.jaml"

func (s *Server) CodeAction(ctx context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil || doc.resolved == nil || doc.err != nil {
		return nil, nil
	}
	edit, ok := resolveEdit(doc)
	if !ok {
		return nil, nil
	}
	return []protocol.CodeAction{{
		Title: "Resolve static values",
		Kind:  resolveKind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				params.TextDocument.URI: {edit},
			},
		},
	}}, nil
}

// resolveEdit replaces the whole content with the resolved document,
// reporting false when resolving changes nothing.
func resolveEdit(doc *document) (protocol.TextEdit, bool) {
	text := encode.String(doc.resolved)
	if text == doc.content {
		return protocol.TextEdit{}, false
	}
	return protocol.TextEdit{Range: doc.whole(), NewText: text}, true
}
