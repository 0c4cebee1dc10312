package parse

import (
	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/token"
)

type LineKind int

const (
	BlankLine LineKind = iota
	CommentLine
	HeaderLine
	AssignLine
)

func (k LineKind) String() string {
	switch k {
	case BlankLine:
		return "blank"
	case CommentLine:
		return "comment"
	case HeaderLine:
		return "header"
	case AssignLine:
		return "assignment"
	}
	return "?"
}

// Span is a half open range of token indices.
type Span struct {
	From, To int
}

func (s Span) Len() int { return s.To - s.From }

// Line is one logical line of a document. A line holding a multi-line
// value spans several source lines.
type Line struct {
	Kind LineKind
	// Start is the offset of the beginning of the line, End the end of
	// its content excluding the newline.
	Start, End int
	// Array is set for [[...]] headers.
	Array bool
	// Name is the header name or the assignment key.
	Name Span
	// Type is the token index of the type annotation or -1.
	Type  int
	Value Span
	// Comment is the token index of the trailing comment or -1.
	Comment int
}

// Tree is the concrete syntax of a document: its balanced tokens
// grouped into lines.
type Tree struct {
	Source []byte
	Toks   []token.Token
	Lines  []Line
}

// ParseTree scans src and groups its tokens into lines.
func ParseTree(src []byte) (*Tree, error) {
	toks, err := token.Scan(src)
	if err != nil {
		return nil, err
	}
	t := &Tree{Source: src, Toks: toks}
	p := &treeParser{t: t, end: token.NewPosDoc(src).Pos(len(src))}
	if err := p.lines(); err != nil {
		return nil, err
	}
	if debug.Parse() {
		for _, l := range t.Lines {
			debug.Logf("line %s %q\n", l.Kind, src[l.Start:l.End])
		}
	}
	return t, nil
}

type treeParser struct {
	t   *Tree
	i   int
	ls  int
	end *token.Pos
}

func (p *treeParser) tok(i int) *token.Token {
	if i >= len(p.t.Toks) {
		return nil
	}
	return &p.t.Toks[i]
}

func (p *treeParser) lines() error {
	for p.i < len(p.t.Toks) {
		t := p.tok(p.i)
		line := Line{Start: p.ls, Type: -1, Comment: -1}
		switch t.Type {
		case token.TNewline:
			line.Kind = BlankLine
			line.End = t.Start()
		case token.TComment:
			line.Kind = CommentLine
			line.End = t.End()
			p.i++
		case token.TLSquare:
			if err := p.header(&line); err != nil {
				return err
			}
		case token.TIdent, token.TKeyword, token.TString, token.TBool, token.TNull, token.TInteger:
			if err := p.assignment(&line); err != nil {
				return err
			}
		default:
			return token.UnexpectedErr(t, p.end, "section header, assignment or comment")
		}
		p.t.Lines = append(p.t.Lines, line)
		if err := p.eol(); err != nil {
			return err
		}
	}
	return nil
}

// eol consumes the newline ending a line.
func (p *treeParser) eol() error {
	t := p.tok(p.i)
	if t == nil {
		return nil
	}
	if t.Type != token.TNewline {
		return token.UnexpectedErr(t, p.end, "end of line")
	}
	p.i++
	p.ls = t.End()
	return nil
}

// trailer consumes an optional trailing comment and sets the line end.
func (p *treeParser) trailer(line *Line, last int) {
	line.End = p.t.Toks[last].End()
	if t := p.tok(p.i); t != nil && t.Type == token.TComment {
		line.Comment = p.i
		line.End = t.End()
		p.i++
	}
}

func (p *treeParser) header(line *Line) error {
	line.Kind = HeaderLine
	toks := p.t.Toks
	open := p.i
	close := toks[open].Pair
	from, to := open+1, close
	if in := p.tok(open + 1); in != nil && in.Type == token.TLSquare && toks[open].Adjacent(in) &&
		in.Pair+1 == close && toks[in.Pair].Adjacent(&toks[close]) {
		line.Array = true
		from, to = open+2, in.Pair
	}
	if from == to {
		return token.UnexpectedErr(&toks[to], p.end, "section name")
	}
	line.Name = Span{from, to}
	p.i = close + 1
	p.trailer(line, close)
	return nil
}

func isKeyTok(t *token.Token) bool {
	switch t.Type {
	case token.TIdent, token.TKeyword, token.TString, token.TBool, token.TNull, token.TInteger:
		return true
	}
	return false
}

// key consumes a dotted key starting at p.i.
func (p *treeParser) key() (Span, error) {
	from := p.i
	for {
		t := p.tok(p.i)
		if t == nil || !isKeyTok(t) {
			return Span{}, token.UnexpectedErr(t, p.end, "key")
		}
		p.i++
		if d := p.tok(p.i); d != nil && d.Type == token.TDot {
			p.i++
			continue
		}
		return Span{from, p.i}, nil
	}
}

func (p *treeParser) assignment(line *Line) error {
	line.Kind = AssignLine
	k, err := p.key()
	if err != nil {
		return err
	}
	line.Name = k
	if t := p.tok(p.i); t != nil && t.Type == token.TColon {
		p.i++
		if ty := p.tok(p.i); ty != nil && (ty.Type == token.TIdent || ty.Type == token.TKeyword || ty.Type == token.TNull) {
			line.Type = p.i
			p.i++
		}
	}
	if t := p.tok(p.i); t == nil || t.Type != token.TAssign {
		return token.UnexpectedErr(t, p.end, "'='")
	}
	p.i++
	end, err := valueEnd(p.t.Toks, p.i, p.end)
	if err != nil {
		return err
	}
	line.Value = Span{p.i, end}
	p.i = end
	p.trailer(line, end-1)
	return nil
}

// valueEnd returns the index after the value starting at toks[i].
func valueEnd(toks []token.Token, i int, end *token.Pos) (int, error) {
	if i >= len(toks) {
		return 0, token.UnexpectedErr(nil, end, "value")
	}
	t := &toks[i]
	switch t.Type {
	case token.TLSquare, token.TLCurl, token.TFoldOpen:
		return t.Pair + 1, nil
	case token.TInteger, token.TFloat, token.TBool, token.TNull,
		token.TString, token.TMString, token.TBacktick, token.TFString,
		token.TGlobalVar, token.TLocalVar, token.TContextVar:
		return i + 1, nil
	case token.TOp:
		if t.Text() == "+" || t.Text() == "-" {
			if i+1 < len(toks) {
				n := &toks[i+1]
				if (n.Type == token.TInteger || n.Type == token.TFloat) && t.Adjacent(n) {
					return i + 2, nil
				}
			}
		}
	}
	return 0, token.UnexpectedErr(t, end, "value")
}
