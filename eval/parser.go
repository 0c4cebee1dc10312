package eval

import (
	"strings"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/scope"
	"github.com/signadot/jaml/token"
)

// Parser parses expressions from a token slice. Newline and comment
// tokens must have been removed.
//
// Precedence, loosest first: conditional, or, and, not, comparison,
// + -, * / // %, unary + -, ** (right associative) and postfix access.
type Parser struct {
	toks []token.Token
	i    int
	end  *token.Pos
}

func NewParser(toks []token.Token) *Parser {
	p := &Parser{toks: toks}
	if n := len(toks); n > 0 && toks[n-1].Pos != nil {
		last := &toks[n-1]
		p.end = last.Pos.D.Pos(last.End())
	}
	return p
}

// Parse parses text as a single expression.
func Parse(text string) (Expr, error) {
	toks, err := token.Scan([]byte(text))
	if err != nil {
		return nil, err
	}
	toks = StripLayout(toks)
	p := NewParser(toks)
	e, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	if debug.Eval() {
		debug.Logf("parsed %q as %s\n", text, Format(e))
	}
	return e, nil
}

// StripLayout returns toks without newline and comment tokens. Pair
// indices are not preserved.
func StripLayout(toks []token.Token) []token.Token {
	res := make([]token.Token, 0, len(toks))
	for i := range toks {
		switch toks[i].Type {
		case token.TNewline, token.TComment:
			continue
		}
		res = append(res, toks[i])
	}
	return res
}

func (p *Parser) peek() *token.Token {
	if p.i >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i]
}

func (p *Parser) peekAt(n int) *token.Token {
	if p.i+n >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i+n]
}

func (p *Parser) next() *token.Token {
	t := p.peek()
	if t != nil {
		p.i++
	}
	return t
}

func (p *Parser) isKw(t *token.Token, kw string) bool {
	return t != nil && t.Is(token.TKeyword, kw)
}

func (p *Parser) expect(typ token.TokenType, text, what string) (*token.Token, error) {
	t := p.peek()
	if t == nil || !t.Is(typ, text) {
		return nil, token.UnexpectedErr(t, p.end, what)
	}
	p.i++
	return t, nil
}

// Done reports whether all tokens are consumed.
func (p *Parser) Done() bool { return p.i >= len(p.toks) }

// Peek exposes the next token to callers combining expression parsing
// with their own grammar.
func (p *Parser) Peek() *token.Token { return p.peek() }

func (p *Parser) Next() *token.Token { return p.next() }

func (p *Parser) ExpectEnd() error {
	if t := p.peek(); t != nil {
		return token.UnexpectedErr(t, p.end, "end of expression")
	}
	return nil
}

// Expr parses a full expression including conditionals.
func (p *Parser) Expr() (Expr, error) {
	x, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.isKw(p.peek(), "if") {
		return x, nil
	}
	// "x if c" without else inside a comprehension is a clause
	// condition, not a conditional.
	save := p.i
	p.i++
	c, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.isKw(p.peek(), "else") {
		p.i = save
		return x, nil
	}
	p.i++
	y, err := p.Expr()
	if err != nil {
		return nil, err
	}
	return &Cond{Then: x, If: c, Else: y}, nil
}

// OrExpr parses an expression without a top level conditional, as used
// for comprehension iterables and conditions.
func (p *Parser) OrExpr() (Expr, error) { return p.or() }

func (p *Parser) or() (Expr, error) {
	x, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isKw(p.peek(), "or") {
		p.i++
		y, err := p.and()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: "or", X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) and() (Expr, error) {
	x, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.isKw(p.peek(), "and") {
		p.i++
		y, err := p.not()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: "and", X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) not() (Expr, error) {
	if p.isKw(p.peek(), "not") {
		p.i++
		x, err := p.not()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "not", X: x}, nil
	}
	return p.compare()
}

func (p *Parser) compareOp() string {
	t := p.peek()
	if t == nil {
		return ""
	}
	switch t.Type {
	case token.TOp:
		switch s := t.Text(); s {
		case "==", "!=", "<", "<=", ">", ">=":
			p.i++
			return s
		}
	case token.TKeyword:
		switch t.Text() {
		case "in":
			p.i++
			return "in"
		case "not":
			if p.isKw(p.peekAt(1), "in") {
				p.i += 2
				return "not in"
			}
		case "is":
			p.i++
			if p.isKw(p.peek(), "not") {
				p.i++
				return "is not"
			}
			return "is"
		}
	}
	return ""
}

func (p *Parser) compare() (Expr, error) {
	x, err := p.arith()
	if err != nil {
		return nil, err
	}
	var cmp *Compare
	for {
		op := p.compareOp()
		if op == "" {
			break
		}
		y, err := p.arith()
		if err != nil {
			return nil, err
		}
		if cmp == nil {
			cmp = &Compare{Xs: []Expr{x}}
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Xs = append(cmp.Xs, y)
	}
	if cmp == nil {
		return x, nil
	}
	return cmp, nil
}

func (p *Parser) binOp(ops ...string) string {
	t := p.peek()
	if t == nil || t.Type != token.TOp {
		return ""
	}
	for _, op := range ops {
		if t.Text() == op {
			p.i++
			return op
		}
	}
	return ""
}

func (p *Parser) arith() (Expr, error) {
	x, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.binOp("+", "-")
		if op == "" {
			return x, nil
		}
		y, err := p.term()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *Parser) term() (Expr, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.binOp("*", "/", "//", "%")
		if op == "" {
			return x, nil
		}
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *Parser) unary() (Expr, error) {
	if op := p.binOp("+", "-"); op != "" {
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.power()
}

func (p *Parser) power() (Expr, error) {
	x, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.binOp("**") == "" {
		return x, nil
	}
	y, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: "**", X: x, Y: y}, nil
}

func (p *Parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t == nil {
			return x, nil
		}
		switch t.Type {
		case token.TDot:
			p.i++
			name := p.next()
			if name == nil || (name.Type != token.TIdent && name.Type != token.TKeyword) {
				return nil, token.UnexpectedErr(name, p.end, "attribute name")
			}
			x = &Attr{X: x, Name: name.Text()}
		case token.TLSquare:
			p.i++
			idx, err := p.Expr()
			if err != nil {
				return nil, err
			}
			if t := p.peek(); t != nil && t.Type == token.TColon {
				return nil, unsupported("slice at %s", t.Pos)
			}
			if _, err := p.expect(token.TRSquare, "", "']'"); err != nil {
				return nil, err
			}
			x = &Index{X: x, Index: idx}
		case token.TLParen:
			n, ok := x.(*Name)
			if !ok {
				return nil, unsupported("call of %s", Format(x))
			}
			p.i++
			args, err := p.exprList(token.TRParen)
			if err != nil {
				return nil, err
			}
			x = &Call{Fn: n.Name, Args: args}
		default:
			return x, nil
		}
	}
}

// exprList parses comma separated expressions up to and including the
// closing token.
func (p *Parser) exprList(close token.TokenType) ([]Expr, error) {
	var res []Expr
	for {
		t := p.peek()
		if t == nil {
			return nil, token.UnexpectedErr(nil, p.end, close.String())
		}
		if t.Type == close {
			p.i++
			return res, nil
		}
		x, err := p.Expr()
		if err != nil {
			return nil, err
		}
		res = append(res, x)
		t = p.peek()
		if t != nil && t.Type == token.TComma {
			p.i++
			continue
		}
		if t == nil || t.Type != close {
			return nil, token.UnexpectedErr(t, p.end, "',' or "+close.String())
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	t := p.next()
	if t == nil {
		return nil, token.UnexpectedErr(nil, p.end, "expression")
	}
	switch t.Type {
	case token.TInteger:
		v, err := token.ParseInt(t.Text())
		if err != nil {
			return nil, invalidLiteral(t.Text(), err)
		}
		return &Lit{Value: v}, nil
	case token.TFloat:
		v, err := token.ParseFloat(t.Text())
		if err != nil {
			return nil, invalidLiteral(t.Text(), err)
		}
		return &Lit{Value: v}, nil
	case token.TBool:
		return &Lit{Value: t.Text() == "true"}, nil
	case token.TNull:
		return &Lit{Value: nil}, nil
	case token.TString, token.TMString, token.TBacktick:
		s, _, err := token.Unquote(t.Text())
		if err != nil {
			return nil, invalidLiteral(t.Text(), err)
		}
		return &Lit{Value: s}, nil
	case token.TFString:
		s, _, err := token.Unquote(t.Text()[1:])
		if err != nil {
			return nil, invalidLiteral(t.Text(), err)
		}
		return &FStr{Text: s}, nil
	case token.TGlobalVar, token.TLocalVar, token.TContextVar:
		return MarkerOf(t), nil
	case token.TIdent:
		return &Name{Name: t.Text()}, nil
	case token.TLParen:
		return p.paren()
	case token.TLSquare:
		return p.list()
	case token.TLCurl:
		return nil, unsupported("mapping literal at %s", t.Pos)
	case token.TFoldOpen:
		x, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TFoldClose, "", "')>'"); err != nil {
			return nil, err
		}
		return x, nil
	case token.TKeyword:
		return nil, unsupported("keyword %q at %s", t.Text(), t.Pos)
	}
	return nil, token.UnexpectedErr(t, p.end, "expression")
}

// MarkerOf converts a scoped variable token to a Marker.
func MarkerOf(t *token.Token) *Marker {
	tier, _ := scope.TierOf(t.Bytes[0])
	path := strings.TrimSpace(string(t.Bytes[2 : len(t.Bytes)-1]))
	return &Marker{Tier: tier, Path: path}
}

func (p *Parser) paren() (Expr, error) {
	if t := p.peek(); t != nil && t.Type == token.TRParen {
		p.i++
		return &Tuple{}, nil
	}
	x, err := p.Expr()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t != nil && t.Type == token.TRParen {
		p.i++
		return x, nil
	}
	if t == nil || t.Type != token.TComma {
		return nil, token.UnexpectedErr(t, p.end, "',' or ')'")
	}
	p.i++
	rest, err := p.exprList(token.TRParen)
	if err != nil {
		return nil, err
	}
	return &Tuple{Elems: append([]Expr{x}, rest...)}, nil
}

func (p *Parser) list() (Expr, error) {
	if t := p.peek(); t != nil && t.Type == token.TRSquare {
		p.i++
		return &List{}, nil
	}
	x, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if p.isKw(p.peek(), "for") {
		cs, err := p.Clauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TRSquare, "", "']'"); err != nil {
			return nil, err
		}
		return &Comp{Elem: x, Clauses: cs}, nil
	}
	t := p.peek()
	if t != nil && t.Type == token.TRSquare {
		p.i++
		return &List{Elems: []Expr{x}}, nil
	}
	if t == nil || t.Type != token.TComma {
		return nil, token.UnexpectedErr(t, p.end, "',' or ']'")
	}
	p.i++
	rest, err := p.exprList(token.TRSquare)
	if err != nil {
		return nil, err
	}
	return &List{Elems: append([]Expr{x}, rest...)}, nil
}

// Clauses parses one or more "for ... in ... if ..." clauses.
func (p *Parser) Clauses() ([]Clause, error) {
	var res []Clause
	for p.isKw(p.peek(), "for") {
		p.i++
		c := Clause{}
		for {
			tgt, err := p.target()
			if err != nil {
				return nil, err
			}
			c.Targets = append(c.Targets, tgt)
			if t := p.peek(); t != nil && t.Type == token.TComma {
				p.i++
				continue
			}
			break
		}
		if _, err := p.expect(token.TKeyword, "in", "'in'"); err != nil {
			return nil, err
		}
		iter, err := p.or()
		if err != nil {
			return nil, err
		}
		c.Iter = iter
		for p.isKw(p.peek(), "if") {
			p.i++
			cond, err := p.or()
			if err != nil {
				return nil, err
			}
			c.Conds = append(c.Conds, cond)
		}
		res = append(res, c)
	}
	if len(res) == 0 {
		return nil, token.UnexpectedErr(p.peek(), p.end, "'for'")
	}
	return res, nil
}

func (p *Parser) target() (Target, error) {
	t := p.next()
	if t == nil || t.Type != token.TIdent {
		return Target{}, token.UnexpectedErr(t, p.end, "loop variable")
	}
	tgt := Target{Name: t.Text()}
	if !p.isKw(p.peek(), "as") {
		return tgt, nil
	}
	p.i++
	a := p.next()
	switch {
	case a == nil:
		return Target{}, token.UnexpectedErr(nil, p.end, "alias")
	case a.Type == token.TLocalVar:
		tgt.Alias = MarkerOf(a).Path
	case a.Type == token.TIdent:
		tgt.Alias = a.Text()
	default:
		return Target{}, token.UnexpectedErr(a, p.end, "alias")
	}
	return tgt, nil
}
