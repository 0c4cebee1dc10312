package main

import (
	"context"
	"errors"
	"strings"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/token"
	"go.lsp.dev/protocol"
)

const source = "jaml"

func (s *Server) publishDiagnostics(ctx context.Context, doc *document) {
	if s.conn == nil {
		return
	}
	diags := validateDocument(doc)
	if debug.LSP() {
		debug.Logf("%s v%d: %d diagnostics\n", doc.uri, doc.version, len(diags))
	}
	s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(doc.uri),
		Version:     uint32(doc.version),
		Diagnostics: diags,
	})
}

func validateDocument(doc *document) []protocol.Diagnostic {
	res := []protocol.Diagnostic{}
	if doc.err != nil {
		res = append(res, errDiagnostic(doc, doc.err))
	}
	for _, d := range doc.diags {
		res = append(res, protocol.Diagnostic{
			Range:    diagRange(doc, d.Pos),
			Severity: severity(d.Severity),
			Source:   source,
			Message:  diagMessage(d),
		})
	}
	return res
}

func errDiagnostic(doc *document, err error) protocol.Diagnostic {
	res := protocol.Diagnostic{
		Range:    protocol.Range{},
		Severity: protocol.DiagnosticSeverityError,
		Source:   source,
		Message:  err.Error(),
	}
	var synErr *token.SyntaxError
	if errors.As(err, &synErr) {
		res.Range = diagRange(doc, synErr.Pos)
		res.Code = synErr.Kind.String()
		res.Message = strings.TrimSuffix(synErr.Error(), " "+posString(synErr.Pos))
		return res
	}
	var d diag.Diagnostic
	if errors.As(err, &d) {
		res.Range = diagRange(doc, d.Pos)
		res.Message = diagMessage(d)
	}
	return res
}

func posString(p *token.Pos) string {
	if p == nil {
		return ""
	}
	return p.String()
}

// diagRange runs from p to the end of its line. Diagnostics without a
// position are shown on the first line.
func diagRange(doc *document, p *token.Pos) protocol.Range {
	if p == nil {
		return doc.span(0, lineEnd(doc.content, 0))
	}
	off := min(p.I, len(doc.content))
	end := lineEnd(doc.content, off)
	if end == off && off < len(doc.content) {
		end++
	}
	return doc.span(off, end)
}

func lineEnd(s string, off int) int {
	i := strings.IndexByte(s[off:], '\n')
	if i == -1 {
		return len(s)
	}
	return off + i
}

func diagMessage(d diag.Diagnostic) string {
	msg := d.Msg
	if d.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += d.Err.Error()
	}
	if d.Path != "" {
		msg = d.Path + ": " + msg
	}
	return msg
}

func severity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := s.docs.put(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	doc := s.docs.get(uri)
	if doc == nil {
		return nil
	}
	t := applyChanges(doc.text, params.ContentChanges)
	doc = s.docs.put(uri, t.content, params.TextDocument.Version)
	s.publishDiagnostics(ctx, doc)
	return nil
}

// applyChanges applies incremental changes in order; a change without a
// range replaces the whole content.
func applyChanges(t text, changes []protocol.TextDocumentContentChangeEvent) text {
	for _, change := range changes {
		r := change.Range
		if r == (protocol.Range{}) {
			t = newText(change.Text)
			continue
		}
		from, to := t.offset(r.Start), t.offset(r.End)
		if from > to {
			continue
		}
		t = newText(t.content[:from] + change.Text + t.content[to:])
	}
	return t
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return nil
}
