package main

import (
	"sync"
	"unicode/utf8"

	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/resolve"
	"github.com/signadot/jaml/token"
	"go.lsp.dev/protocol"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	text
	uri     string
	version int32

	// resolved is nil when the content does not parse, err then holds
	// the syntax error.
	resolved *ir.Document
	err      error
	diags    []diag.Diagnostic
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri string, content string, version int32) *document {
	doc := newDocument(uri, content, version)
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = doc
	return doc
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

// newDocument parses and statically resolves content. The context tier
// is unknown to the server so context markers stay deferred.
func newDocument(uri, content string, version int32) *document {
	doc := &document{
		text:    newText(content),
		uri:     uri,
		version: version,
	}
	d, err := parse.Parse([]byte(content))
	if err != nil {
		doc.err = err
		return doc
	}
	list := &diag.List{}
	if err := resolve.Resolve(d, resolve.WithDiagnostics(list)); err != nil {
		doc.err = err
	}
	doc.resolved = d
	doc.diags = list.Items
	return doc
}

// text maps between byte offsets and LSP positions, whose character
// counts UTF-16 code units.
type text struct {
	content string
	pd      *token.PosDoc
}

func newText(content string) text {
	return text{content: content, pd: token.NewPosDoc([]byte(content))}
}

func (t text) position(off int) protocol.Position {
	line, col := t.pd.LineCol(off)
	start := off - col
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(utf16Len(t.content[start:off])),
	}
}

// offset is the inverse of position.
func (t text) offset(p protocol.Position) int {
	i := t.pd.Offset(int(p.Line), 0)
	units := 0
	for i < len(t.content) && units < int(p.Character) {
		r, n := utf8.DecodeRuneInString(t.content[i:])
		if r == '\n' {
			break
		}
		units += utf16Units(r)
		i += n
	}
	return i
}

func (t text) span(from, to int) protocol.Range {
	return protocol.Range{Start: t.position(from), End: t.position(to)}
}

// whole is the range covering the entire content.
func (t text) whole() protocol.Range {
	return t.span(0, len(t.content))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Units(r)
	}
	return n
}

func utf16Units(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
