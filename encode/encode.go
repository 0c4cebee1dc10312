package encode

import (
	"bytes"
	"io"
	"strings"

	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/ir"
)

type EncState struct {
	indent int
	format format.Format

	Color func(ir.Kind, ColorAttr, string) string

	d   *ir.Document
	buf bytes.Buffer
}

// Encode writes the document.
func Encode(d *ir.Document, w io.Writer, opts ...EncodeOption) error {
	return EncodeNode(d, d.Root, w, opts...)
}

// EncodeNode writes the subtree at id.
func EncodeNode(d *ir.Document, id ir.NodeID, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2, d: d}
	for _, opt := range opts {
		opt(es)
	}
	es.node(id)
	_, err := w.Write(es.buf.Bytes())
	return err
}

// String returns the text of the document.
func String(d *ir.Document) string {
	return NodeString(d, d.Root)
}

func NodeString(d *ir.Document, id ir.NodeID) string {
	buf := bytes.NewBuffer(nil)
	if err := EncodeNode(d, id, buf); err != nil {
		panic(err)
	}
	return buf.String()
}

func (es *EncState) color(k ir.Kind, a ColorAttr, s string) string {
	if es.Color == nil || s == "" {
		return s
	}
	return es.Color(k, a, s)
}

func (es *EncState) node(id ir.NodeID) {
	d := es.d
	n := d.Node(id)
	switch {
	case n.Kind == ir.HeaderKind:
		es.buf.WriteString(es.header(n.Origin))
		return
	case n.Kind == ir.CommentKind:
		es.buf.WriteString(es.color(ir.CommentKind, CommentColor, n.Origin))
		return
	case n.Kind == ir.BlankKind:
		es.buf.WriteString(n.Origin)
		return
	case n.Done && (n.Synthetic || n.Kind.IsComputed()):
		es.buf.WriteString(es.color(n.Kind, ValueColor, ir.ValueText(n.Resolved)))
		return
	case !n.Kind.IsContainer():
		es.buf.WriteString(es.color(n.Kind, ValueColor, n.Origin))
		return
	case n.Kind == ir.ArrayKind && d.Changed(id):
		es.array(id)
		return
	}
	if es.Color == nil && !d.Changed(id) {
		es.buf.WriteString(n.Origin)
		return
	}
	for i, k := range n.Kids {
		es.sep(n, i)
		es.node(k)
	}
	es.sep(n, len(n.Kids))
}

// header colors a header line, keeping its trailing comment apart.
func (es *EncState) header(line string) string {
	if es.Color == nil {
		return line
	}
	h, c := splitComment(line)
	return es.color(ir.HeaderKind, HeaderColor, h) + es.color(ir.CommentKind, CommentColor, c)
}

func (es *EncState) sep(n *ir.Node, i int) {
	s := n.Seps[i]
	if es.Color == nil {
		es.buf.WriteString(s)
		return
	}
	if n.Kind == ir.AssignmentKind && i == 0 && n.Name != "" {
		if j := strings.Index(s, n.Name); j >= 0 {
			es.buf.WriteString(s[:j])
			es.buf.WriteString(es.color(ir.AssignmentKind, KeyColor, n.Name))
			s = s[j+len(n.Name):]
		}
	}
	for s != "" {
		line, rest, nl := strings.Cut(s, "\n")
		text, comment := splitComment(line)
		es.buf.WriteString(text)
		es.buf.WriteString(es.color(ir.CommentKind, CommentColor, comment))
		if nl {
			es.buf.WriteByte('\n')
		}
		s = rest
	}
}

// splitComment splits a line of layout at its comment. Layout never
// holds string literals, so the first '#' starts the comment.
func splitComment(line string) (string, string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i], line[i:]
	}
	return line, ""
}

// array writes a changed array in canonical layout: single-line arrays
// joined by ", ", multi-line arrays with one item per line. Comments
// and a trailing comma are carried over from the source layout.
func (es *EncState) array(id ir.NodeID) {
	n := es.d.Node(id)
	kids, seps, multi := n.Kids, n.Seps, n.Multiline
	if !multi {
		es.buf.WriteByte('[')
		for i, k := range kids {
			if i > 0 {
				es.buf.WriteString(", ")
			}
			es.node(k)
		}
		es.buf.WriteByte(']')
		return
	}
	indent, closing := es.arrayIndent(n)
	lays := make([]sepLayout, len(kids)+1)
	for i := range min(len(seps), len(lays)) {
		lays[i] = layoutOf(seps[i])
	}
	es.buf.WriteByte('[')
	es.comment(lays[0].inline)
	es.buf.WriteByte('\n')
	for i, k := range kids {
		es.ownLine(indent, lays[i].own)
		es.buf.WriteString(indent)
		es.node(k)
		if i < len(kids)-1 || lays[i+1].comma {
			es.buf.WriteByte(',')
		}
		es.comment(lays[i+1].inline)
		es.buf.WriteByte('\n')
	}
	es.ownLine(indent, lays[len(kids)].own)
	es.buf.WriteString(closing)
	es.buf.WriteByte(']')
}

func (es *EncState) comment(c string) {
	if c == "" {
		return
	}
	es.buf.WriteByte(' ')
	es.buf.WriteString(es.color(ir.CommentKind, CommentColor, c))
}

func (es *EncState) ownLine(indent string, comments []string) {
	for _, c := range comments {
		es.buf.WriteString(indent)
		es.buf.WriteString(es.color(ir.CommentKind, CommentColor, c))
		es.buf.WriteByte('\n')
	}
}

// sepLayout is what survives of the layout between two array items:
// the comma and comment on the line of the item before it, and the
// comments on lines of their own.
type sepLayout struct {
	comma  bool
	inline string
	own    []string
}

func layoutOf(sep string) sepLayout {
	first, rest, _ := strings.Cut(sep, "\n")
	text, c := splitComment(first)
	res := sepLayout{
		comma:  strings.Contains(text, ","),
		inline: strings.TrimSpace(c),
	}
	for line := range strings.Lines(rest) {
		if c := strings.TrimSpace(line); strings.HasPrefix(c, "#") {
			res.own = append(res.own, c)
		}
	}
	return res
}

// arrayIndent takes the item and closing bracket indentation of a
// multi-line array from its source layout.
func (es *EncState) arrayIndent(n *ir.Node) (string, string) {
	indent := strings.Repeat(" ", es.indent)
	closing := ""
	if len(n.Seps) == 0 {
		return indent, closing
	}
	if ws, ok := lastLineSpace(n.Seps[0]); ok && ws != "" {
		indent = ws
	}
	if ws, ok := lastLineSpace(strings.TrimSuffix(n.Seps[len(n.Seps)-1], "]")); ok {
		closing = ws
		if len(indent) <= len(closing) {
			indent = closing + strings.Repeat(" ", es.indent)
		}
	}
	return indent, closing
}

// lastLineSpace returns the text after the last newline of s when it
// is only blanks.
func lastLineSpace(s string) (string, bool) {
	i := strings.LastIndexByte(s, '\n')
	if i < 0 {
		return "", false
	}
	ws := s[i+1:]
	if strings.TrimLeft(ws, " \t") != "" {
		return "", false
	}
	return ws, true
}
