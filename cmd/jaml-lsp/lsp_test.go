package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/protocol"
)

const pkgSrc = `[package]
name = "demo"
version = "1.0"
full = <( %{name} + "-" + %{version} )>
label = f"${env}-%{name}"
`

func TestValidateDocument(t *testing.T) {
	doc := newDocument("file:///a.jml", "a = [1,", 1)
	ds := validateDocument(doc)
	if len(ds) != 1 || ds[0].Severity != protocol.DiagnosticSeverityError {
		t.Fatalf("syntax error: %v", ds)
	}

	doc = newDocument("file:///b.jml", "env_name = \"demo\"\n[app]\nurl = <( @{env_name} + \"-\" + ${env} )>\nn: int = \"oops\"\n", 1)
	ds = validateDocument(doc)
	if len(ds) != 1 {
		t.Fatalf("got %v", ds)
	}
	d := ds[0]
	if d.Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("severity %v", d.Severity)
	}
	if d.Range.Start.Line != 3 || d.Range.Start.Character != 0 {
		t.Errorf("range %v", d.Range)
	}
	if !strings.HasPrefix(d.Message, "n: ") {
		t.Errorf("message %q", d.Message)
	}

	if ds := validateDocument(newDocument("file:///c.jml", pkgSrc, 1)); len(ds) != 0 {
		t.Errorf("clean document: %v", ds)
	}
}

func TestHover(t *testing.T) {
	doc := newDocument("file:///a.jml", pkgSrc, 1)
	id, path := assignmentAt(doc.resolved, doc.offset(protocol.Position{Line: 3, Character: 2}))
	if diff := cmp.Diff([]string{"package", "full"}, path); diff != "" {
		t.Fatal(diff)
	}
	text := hoverText(doc.resolved, id, path)
	for _, want := range []string{"**package.full**", "\"demo-1.0\"", "from `<("} {
		if !strings.Contains(text, want) {
			t.Errorf("%q not in %q", want, text)
		}
	}

	id, path = assignmentAt(doc.resolved, doc.offset(protocol.Position{Line: 4, Character: 0}))
	if text := hoverText(doc.resolved, id, path); !strings.Contains(text, "deferred until render") {
		t.Errorf("label hover %q", text)
	}

	if id, _ := assignmentAt(doc.resolved, doc.offset(protocol.Position{Line: 0, Character: 2})); id >= 0 {
		t.Errorf("header has no assignment, got %d", id)
	}
}

func TestPositions(t *testing.T) {
	txt := newText("aé\U0001F600b\nx")
	p := txt.position(7)
	if diff := cmp.Diff(protocol.Position{Line: 0, Character: 4}, p); diff != "" {
		t.Error(diff)
	}
	if off := txt.offset(p); off != 7 {
		t.Errorf("offset %d", off)
	}
	if off := txt.offset(protocol.Position{Line: 1, Character: 9}); off != len(txt.content) {
		t.Errorf("past line end %d", off)
	}
}

func TestApplyChanges(t *testing.T) {
	txt := newText("a = 1\nb = 2\n")
	got := applyChanges(txt, []protocol.TextDocumentContentChangeEvent{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 1, Character: 4},
				End:   protocol.Position{Line: 1, Character: 5},
			},
			Text: "3",
		},
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 2, Character: 0},
				End:   protocol.Position{Line: 2, Character: 0},
			},
			Text: "c = 4\n",
		},
	})
	if diff := cmp.Diff("a = 1\nb = 3\nc = 4\n", got.content); diff != "" {
		t.Error(diff)
	}
	got = applyChanges(txt, []protocol.TextDocumentContentChangeEvent{{Text: "x = 0\n"}})
	if got.content != "x = 0\n" {
		t.Errorf("full replace %q", got.content)
	}
}

func TestSemanticTokens(t *testing.T) {
	got := encodeTokens(collectSemanticTokens("a = 1 # c\n[pkg.x]\n"))
	want := []uint32{
		0, 0, 1, 5, modDefinition,
		0, 2, 1, 4, 0,
		0, 2, 1, 3, 0,
		0, 2, 3, 0, 0,
		1, 1, 3, 6, modDefinition,
		0, 4, 1, 6, modDefinition,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}

func TestCompletionNames(t *testing.T) {
	src := "a = ${env}\nb = ${\n"
	if diff := cmp.Diff([]string{"env"}, contextNames(src, len("a = ${env}\nb = ${"))); diff != "" {
		t.Error(diff)
	}
	doc := newDocument("file:///a.jml", pkgSrc, 1)
	got := localNames(doc.resolved, strings.Index(pkgSrc, "label"))
	if diff := cmp.Diff([]string{"name", "version", "full", "label"}, got); diff != "" {
		t.Error(diff)
	}
}

func TestResolveEdit(t *testing.T) {
	doc := newDocument("file:///a.jml", pkgSrc, 1)
	edit, ok := resolveEdit(doc)
	if !ok {
		t.Fatal("no edit")
	}
	if !strings.Contains(edit.NewText, "full = \"demo-1.0\"\n") {
		t.Errorf("edit %q", edit.NewText)
	}
	if diff := cmp.Diff(protocol.Position{Line: 5}, edit.Range.End); diff != "" {
		t.Error(diff)
	}
	if _, ok := resolveEdit(newDocument("file:///b.jml", "a = 1\n", 1)); ok {
		t.Error("edit for resolved document")
	}
}
