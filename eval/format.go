package eval

import (
	"strings"

	"github.com/signadot/jaml/token"
)

const (
	precCond    = 5
	precOr      = 10
	precAnd     = 20
	precNot     = 30
	precCompare = 40
	precAdd     = 50
	precMul     = 60
	precUnary   = 65
	precPow     = 70
	precPostfix = 80
	precAtom    = 90
)

var binPrec = map[string]int{
	"or":  precOr,
	"and": precAnd,
	"+":   precAdd,
	"-":   precAdd,
	"*":   precMul,
	"/":   precMul,
	"//":  precMul,
	"%":   precMul,
	"**":  precPow,
}

// Format prints e in source syntax, parenthesizing only where needed.
func Format(e Expr) string {
	b := &strings.Builder{}
	format(b, e, 0)
	return b.String()
}

func prec(e Expr) int {
	switch x := e.(type) {
	case *Cond:
		return precCond
	case *Binary:
		return binPrec[x.Op]
	case *Unary:
		if x.Op == "not" {
			return precNot
		}
		return precUnary
	case *Compare:
		return precCompare
	case *Index, *Attr, *Call:
		return precPostfix
	case *Lit:
		if x.src != nil && !printable(x.Value) {
			return prec(x.src)
		}
		switch v := x.Value.(type) {
		case int64:
			if v < 0 {
				return precUnary
			}
		case float64:
			if v < 0 || strings.HasPrefix(FormatFloat(v), "-") {
				return precUnary
			}
		}
	}
	return precAtom
}

// printable reports whether v has expression syntax.
func printable(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		return false
	case []any:
		for _, y := range x {
			if !printable(y) {
				return false
			}
		}
	}
	return true
}

func format(b *strings.Builder, e Expr, min int) {
	p := prec(e)
	if p < min {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	switch x := e.(type) {
	case *Lit:
		if x.src != nil && !printable(x.Value) {
			format(b, x.src, 0)
			return
		}
		b.WriteString(LiteralText(x.Value))
	case *Name:
		b.WriteString(x.Name)
	case *Marker:
		b.WriteByte(x.Tier.Sigil())
		b.WriteByte('{')
		b.WriteString(x.Path)
		b.WriteByte('}')
	case *FStr:
		b.WriteByte('f')
		b.WriteString(token.Quote(x.Text))
	case *Unary:
		b.WriteString(x.Op)
		if x.Op == "not" {
			b.WriteByte(' ')
			format(b, x.X, precNot)
			return
		}
		format(b, x.X, precUnary)
	case *Binary:
		if x.Op == "**" {
			format(b, x.X, precPow+1)
			b.WriteString(" ** ")
			format(b, x.Y, precUnary)
			return
		}
		format(b, x.X, p)
		b.WriteString(" " + x.Op + " ")
		format(b, x.Y, p+1)
	case *Compare:
		format(b, x.Xs[0], precAdd)
		for i, op := range x.Ops {
			b.WriteString(" " + op + " ")
			format(b, x.Xs[i+1], precAdd)
		}
	case *Cond:
		format(b, x.Then, precOr)
		b.WriteString(" if ")
		format(b, x.If, precOr)
		b.WriteString(" else ")
		format(b, x.Else, precCond)
	case *List:
		b.WriteByte('[')
		formatList(b, x.Elems)
		b.WriteByte(']')
	case *Tuple:
		b.WriteByte('(')
		formatList(b, x.Elems)
		if len(x.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case *Comp:
		b.WriteByte('[')
		format(b, x.Elem, precCond)
		b.WriteString(FormatClauses(x.Clauses))
		b.WriteByte(']')
	case *Index:
		format(b, x.X, precPostfix)
		b.WriteByte('[')
		format(b, x.Index, 0)
		b.WriteByte(']')
	case *Attr:
		format(b, x.X, precPostfix)
		b.WriteByte('.')
		b.WriteString(x.Name)
	case *Call:
		b.WriteString(x.Fn)
		b.WriteByte('(')
		formatList(b, x.Args)
		b.WriteByte(')')
	default:
		panic("eval: unknown expression type")
	}
}

func formatList(b *strings.Builder, xs []Expr) {
	for i, y := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, y, 0)
	}
}

// FormatClauses prints clauses with a leading space.
func FormatClauses(cs []Clause) string {
	b := &strings.Builder{}
	for _, c := range cs {
		b.WriteString(" for ")
		for i, t := range c.Targets {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.Name)
			if t.Alias != "" {
				b.WriteString(" as %{" + t.Alias + "}")
			}
		}
		b.WriteString(" in ")
		format(b, c.Iter, precOr)
		for _, cond := range c.Conds {
			b.WriteString(" if ")
			format(b, cond, precOr)
		}
	}
	return b.String()
}
