package ir

import (
	"fmt"

	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/token"
)

// Deferred is the resolved form of a folded expression which still
// refers to the context tier. Expr has every static part folded.
type Deferred struct {
	Expr eval.Expr
}

func (d Deferred) Source() string {
	return "<( " + eval.Format(d.Expr) + " )>"
}

func (d Deferred) String() string { return d.Source() }

// Template is the resolved form of an interpolated string with markers
// left to substitute.
type Template struct {
	Text string
}

func (t Template) Source() string {
	return "f" + token.Quote(t.Text)
}

func (t Template) String() string { return t.Text }

// Coerce computes the literal value of a scalar from its Origin:
// integers with base detection, floats including inf and nan,
// booleans, null and decoded strings.
func Coerce(n *Node) (any, error) {
	switch n.Kind {
	case IntegerKind:
		v, err := token.ParseInt(n.Origin)
		if err != nil {
			return nil, &eval.ValueError{Kind: eval.InvalidLiteral, Msg: fmt.Sprintf("%q", n.Origin), Err: err}
		}
		return v, nil
	case FloatKind:
		v, err := token.ParseFloat(n.Origin)
		if err != nil {
			return nil, &eval.ValueError{Kind: eval.InvalidLiteral, Msg: fmt.Sprintf("%q", n.Origin), Err: err}
		}
		return v, nil
	case BoolKind:
		switch n.Origin {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	case NullKind:
		if n.Origin == "null" {
			return nil, nil
		}
	case StringKind, FStringKind:
		text := n.Origin
		if n.Kind == FStringKind {
			text = text[1:]
		}
		s, _, err := token.Unquote(text)
		if err != nil {
			return nil, &eval.ValueError{Kind: eval.InvalidLiteral, Msg: fmt.Sprintf("%q", n.Origin), Err: err}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a literal", ErrNoValue, n.Kind)
	}
	return nil, &eval.ValueError{Kind: eval.InvalidLiteral, Msg: fmt.Sprintf("%s %q", n.Kind, n.Origin)}
}

// ValueText is the canonical source text of a resolved value.
func ValueText(v any) string {
	return eval.LiteralText(v)
}
