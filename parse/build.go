package parse

import (
	"errors"
	"strings"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/token"
)

// Parse parses a document.
func Parse(src []byte, opts ...ParseOption) (*ir.Document, error) {
	t, err := ParseTree(src)
	if err != nil {
		return nil, err
	}
	return Build(t, opts...)
}

// Build converts a tree to a document. Every node records its source
// span, and every container the exact text between its children, so
// that an unmodified document emits its source unchanged.
func Build(t *Tree, opts ...ParseOption) (*ir.Document, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	b := &builder{
		t:    t,
		doc:  ir.NewDocument(t.Source),
		end:  token.NewPosDoc(t.Source).Pos(len(t.Source)),
		seen: map[string]bool{},
		opts: o,
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

type builder struct {
	t    *Tree
	doc  *ir.Document
	end  *token.Pos
	seen map[string]bool
	opts *parseOpts
}

func (b *builder) text(from, to int) string {
	return string(b.t.Source[from:to])
}

func (b *builder) add(n ir.Node) ir.NodeID {
	id := b.doc.Add(n)
	b.doc.SetSpans(id)
	return id
}

func (b *builder) build() error {
	var (
		top  []ir.NodeID
		sec  = ir.NoNode
		body []ir.NodeID
	)
	closeSection := func() {
		if sec == ir.NoNode {
			return
		}
		n := b.doc.Node(sec)
		n.Kids = body
		n.End = b.doc.Node(body[len(body)-1]).End
		b.doc.SetSpans(sec)
		sec, body = ir.NoNode, nil
	}
	for i := range b.t.Lines {
		l := &b.t.Lines[i]
		if l.Kind == HeaderLine {
			closeSection()
			h, err := b.header(l)
			if err != nil {
				return err
			}
			hn := b.doc.Node(h)
			k := ir.SectionKind
			if l.Array {
				k = ir.TableArrayKind
			}
			sec = b.doc.Add(ir.Node{Kind: k, Start: l.Start, Name: hn.Name, Path: hn.Path})
			body = []ir.NodeID{h}
			top = append(top, sec)
			continue
		}
		id, err := b.line(l)
		if err != nil {
			return err
		}
		if sec == ir.NoNode {
			top = append(top, id)
		} else {
			body = append(body, id)
		}
	}
	closeSection()
	b.doc.Node(b.doc.Root).Kids = top
	b.doc.SetSpans(b.doc.Root)
	if debug.Parse() {
		debug.Logf("built %d nodes, %d top level\n", b.doc.Len(), len(top))
	}
	return nil
}

func (b *builder) line(l *Line) (ir.NodeID, error) {
	switch l.Kind {
	case BlankLine:
		return b.add(ir.Node{Kind: ir.BlankKind, Start: l.Start, End: l.End}), nil
	case CommentLine:
		return b.add(ir.Node{Kind: ir.CommentKind, Start: l.Start, End: l.End}), nil
	case AssignLine:
		name, path, err := b.key(l.Name)
		if err != nil {
			return ir.NoNode, err
		}
		v, err := b.value(l.Value.From, l.Value.To)
		if err != nil {
			return ir.NoNode, err
		}
		n := ir.Node{
			Kind:  ir.AssignmentKind,
			Start: l.Start,
			End:   l.End,
			Name:  name,
			Path:  path,
			Kids:  []ir.NodeID{v},
		}
		if l.Type >= 0 {
			n.Type = b.t.Toks[l.Type].Text()
		}
		return b.add(n), nil
	}
	return ir.NoNode, errInternal
}

// key decodes the dotted key in span s.
func (b *builder) key(s Span) (string, []string, error) {
	toks := b.t.Toks
	var path []string
	for i := s.From; i < s.To; i++ {
		t := &toks[i]
		if (i-s.From)%2 == 1 {
			if t.Type != token.TDot {
				return "", nil, token.UnexpectedErr(t, b.end, "'.'")
			}
			continue
		}
		if !isKeyTok(t) {
			return "", nil, token.UnexpectedErr(t, b.end, "key")
		}
		seg := t.Text()
		if t.Type == token.TString {
			s, _, err := token.Unquote(seg)
			if err != nil {
				return "", nil, &token.SyntaxError{Kind: token.UnexpectedToken, Pos: t.Pos, Msg: seg, Err: ErrBadKey}
			}
			seg = s
		}
		path = append(path, seg)
	}
	if len(path) == 0 || (s.To-s.From)%2 == 0 {
		return "", nil, token.UnexpectedErr(&toks[s.To-1], b.end, "key")
	}
	return b.text(toks[s.From].Start(), toks[s.To-1].End()), path, nil
}

func (b *builder) header(l *Line) (ir.NodeID, error) {
	toks := b.t.Toks
	n := ir.Node{Kind: ir.HeaderKind, Start: l.Start, End: l.End}
	if hasFor(toks, l.Name.From, l.Name.To) {
		n.Name = strings.TrimSpace(b.text(toks[l.Name.From].Start(), toks[l.Name.To-1].End()))
		p := b.parser(l.Name.From, l.Name.To)
		err := func() error {
			e, err := p.Expr()
			if err != nil {
				return err
			}
			cs, err := p.Clauses()
			if err != nil {
				return err
			}
			n.Expr, n.Clauses = e, cs
			return p.ExpectEnd()
		}()
		if err := b.exprErr(&n, err); err != nil {
			return ir.NoNode, err
		}
		if n.Clauses == nil {
			n.Clauses = []eval.Clause{}
		}
		return b.add(n), nil
	}
	name, path, err := b.key(l.Name)
	if err != nil {
		return ir.NoNode, err
	}
	n.Name, n.Path = name, path
	if !l.Array && !b.opts.allowDuplicates {
		k := ir.KeyPath(path)
		if b.seen[k] {
			e := token.NewSyntaxErr(token.UnexpectedToken, toks[l.Name.From].Pos, "[%s]", name)
			e.Err = ErrDuplicateSection
			return ir.NoNode, e
		}
		b.seen[k] = true
	}
	return b.add(n), nil
}

// hasFor reports whether toks[from:to] holds a "for" keyword outside
// nested brackets.
func hasFor(toks []token.Token, from, to int) bool {
	for i := from; i < to; i++ {
		t := &toks[i]
		if t.Type.IsOpen() && t.Pair > i {
			i = t.Pair
			continue
		}
		if t.Is(token.TKeyword, "for") {
			return true
		}
	}
	return false
}

func (b *builder) parser(from, to int) *eval.Parser {
	return eval.NewParser(eval.StripLayout(b.t.Toks[from:to]))
}

// exprErr keeps evaluation errors on the node for the resolver to
// report. Syntax errors abort the build.
func (b *builder) exprErr(n *ir.Node, err error) error {
	if err == nil {
		return nil
	}
	var ve *eval.ValueError
	if errors.As(err, &ve) {
		n.Err = err
		return nil
	}
	return err
}

// value builds the value spanning toks[from:to].
func (b *builder) value(from, to int) (ir.NodeID, error) {
	toks := b.t.Toks
	t := &toks[from]
	last := &toks[to-1]
	n := ir.Node{Start: t.Start(), End: last.End()}
	switch t.Type {
	case token.TLSquare:
		if hasFor(toks, from+1, t.Pair) {
			return b.listComp(n, from)
		}
		return b.array(n, from)
	case token.TLCurl:
		if hasFor(toks, from+1, t.Pair) {
			return b.dictComp(n, from)
		}
		return b.inlineTable(n, from)
	case token.TFoldOpen:
		n.Kind = ir.FoldedKind
		p := b.parser(from+1, t.Pair)
		e, err := p.Expr()
		if err == nil {
			err = p.ExpectEnd()
		}
		if err := b.exprErr(&n, err); err != nil {
			return ir.NoNode, err
		}
		n.Expr = e
		return b.add(n), nil
	case token.TGlobalVar, token.TLocalVar, token.TContextVar:
		m := eval.MarkerOf(t)
		n.Kind = ir.ScopedVarKind
		n.Tier, n.Ref, n.Expr = m.Tier, m.Path, m
		return b.add(n), nil
	case token.TOp:
		t = last
	}
	switch t.Type {
	case token.TInteger:
		n.Kind = ir.IntegerKind
	case token.TFloat:
		n.Kind = ir.FloatKind
	case token.TBool:
		n.Kind = ir.BoolKind
	case token.TNull:
		n.Kind = ir.NullKind
	case token.TString, token.TMString, token.TBacktick:
		n.Kind = ir.StringKind
		n.Flavor = token.FlavorOf(t.Text())
	case token.TFString:
		n.Kind = ir.FStringKind
		n.Flavor = token.FlavorOf(t.Text()[1:])
	default:
		return ir.NoNode, token.UnexpectedErr(t, b.end, "value")
	}
	id := b.add(n)
	nn := b.doc.Node(id)
	v, err := ir.Coerce(nn)
	if err != nil {
		nn.Err = err
	} else {
		nn.Value = v
	}
	return id, nil
}

func (b *builder) listComp(n ir.Node, from int) (ir.NodeID, error) {
	n.Kind = ir.ListCompKind
	p := b.parser(from+1, b.t.Toks[from].Pair)
	err := func() error {
		e, err := p.Expr()
		if err != nil {
			return err
		}
		cs, err := p.Clauses()
		if err != nil {
			return err
		}
		n.Expr, n.Clauses = e, cs
		return p.ExpectEnd()
	}()
	if err := b.exprErr(&n, err); err != nil {
		return ir.NoNode, err
	}
	return b.add(n), nil
}

// dictComp builds "{k: v for ...}" and "{k = v for ...}".
func (b *builder) dictComp(n ir.Node, from int) (ir.NodeID, error) {
	n.Kind = ir.DictCompKind
	p := b.parser(from+1, b.t.Toks[from].Pair)
	err := func() error {
		k, err := p.Expr()
		if err != nil {
			return err
		}
		sep := p.Next()
		switch {
		case sep == nil:
			return token.UnexpectedErr(nil, b.end, "':' or '='")
		case sep.Type == token.TAssign:
			n.Kind = ir.TableCompKind
		case sep.Type != token.TColon:
			return token.UnexpectedErr(sep, b.end, "':' or '='")
		}
		v, err := p.Expr()
		if err != nil {
			return err
		}
		cs, err := p.Clauses()
		if err != nil {
			return err
		}
		n.KeyExpr, n.Expr, n.Clauses = k, v, cs
		return p.ExpectEnd()
	}()
	if err := b.exprErr(&n, err); err != nil {
		return ir.NoNode, err
	}
	return b.add(n), nil
}

func (b *builder) array(n ir.Node, from int) (ir.NodeID, error) {
	toks := b.t.Toks
	close := toks[from].Pair
	n.Kind = ir.ArrayKind
	needComma := false
	for j := from + 1; j < close; {
		switch toks[j].Type {
		case token.TNewline:
			n.Multiline = true
			j++
			continue
		case token.TComment:
			j++
			continue
		}
		if needComma {
			return ir.NoNode, token.UnexpectedErr(&toks[j], b.end, "',' or ']'")
		}
		end, err := valueEnd(toks, j, b.end)
		if err != nil {
			return ir.NoNode, err
		}
		if end > close {
			return ir.NoNode, token.UnexpectedErr(&toks[close], b.end, "value")
		}
		id, err := b.value(j, end)
		if err != nil {
			return ir.NoNode, err
		}
		n.Kids = append(n.Kids, id)
		j = end
		comma, nl := false, false
	trail:
		for j < close {
			switch t := &toks[j]; t.Type {
			case token.TComma:
				if comma {
					return ir.NoNode, token.UnexpectedErr(t, b.end, "value")
				}
				comma = true
			case token.TComment:
				if nl {
					break trail
				}
			case token.TNewline:
				nl = true
				n.Multiline = true
			default:
				break trail
			}
			j++
		}
		needComma = !comma
	}
	return b.add(n), nil
}

func (b *builder) inlineTable(n ir.Node, from int) (ir.NodeID, error) {
	toks := b.t.Toks
	close := toks[from].Pair
	n.Kind = ir.InlineTableKind
	needComma := false
	for j := from + 1; j < close; {
		switch toks[j].Type {
		case token.TNewline:
			n.Multiline = true
			j++
			continue
		case token.TComment:
			j++
			continue
		case token.TComma:
			if !needComma {
				return ir.NoNode, token.UnexpectedErr(&toks[j], b.end, "key")
			}
			needComma = false
			j++
			continue
		}
		if needComma {
			return ir.NoNode, token.UnexpectedErr(&toks[j], b.end, "',' or '}'")
		}
		k := j
		for k < close && isKeyTok(&toks[k]) {
			k++
			if k >= close || toks[k].Type != token.TDot {
				break
			}
			k++
		}
		name, path, err := b.key(Span{j, k})
		if err != nil {
			return ir.NoNode, err
		}
		entry := ir.Node{Kind: ir.AssignmentKind, Start: toks[j].Start(), Name: name, Path: path}
		if k < close && toks[k].Type == token.TColon {
			k++
			if k < close && (toks[k].Type == token.TIdent || toks[k].Type == token.TKeyword) {
				entry.Type = toks[k].Text()
				k++
			}
		}
		if k >= close || toks[k].Type != token.TAssign {
			return ir.NoNode, token.UnexpectedErr(&toks[min(k, close)], b.end, "'='")
		}
		k++
		end, err := valueEnd(toks, k, b.end)
		if err != nil {
			return ir.NoNode, err
		}
		if end > close {
			return ir.NoNode, token.UnexpectedErr(&toks[close], b.end, "value")
		}
		v, err := b.value(k, end)
		if err != nil {
			return ir.NoNode, err
		}
		entry.Kids = []ir.NodeID{v}
		entry.End = toks[end-1].End()
		n.Kids = append(n.Kids, b.add(entry))
		needComma = true
		j = end
	}
	return b.add(n), nil
}
