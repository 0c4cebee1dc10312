package eval

import "github.com/signadot/jaml/scope"

// Expr is a node of the restricted expression language. The set of
// implementations is closed.
type Expr interface {
	expr()
}

// Lit is a literal value: int64, float64, string, bool, nil or a []any
// / map[string]any built by folding.
type Lit struct {
	Value any
	// src is the expression the value was folded from, printed instead
	// of the value when the value has no expression syntax.
	src Expr
}

type Name struct {
	Name string
}

// Marker is a scoped variable reference such as %{a.b}.
type Marker struct {
	Tier scope.Tier
	Path string
}

// FStr is an interpolated string; Text is the decoded body with markers
// still in place.
type FStr struct {
	Text string
}

type Unary struct {
	Op string
	X  Expr
}

type Binary struct {
	Op   string
	X, Y Expr
}

// Compare is a chain a op1 b op2 c, true when every link holds.
type Compare struct {
	Ops []string
	Xs  []Expr
}

// Cond is Then if If else Else.
type Cond struct {
	Then, If, Else Expr
}

type List struct {
	Elems []Expr
}

type Tuple struct {
	Elems []Expr
}

// Comp is a list comprehension.
type Comp struct {
	Elem    Expr
	Clauses []Clause
}

type Index struct {
	X, Index Expr
}

type Attr struct {
	X    Expr
	Name string
}

// Call invokes a registered function.
type Call struct {
	Fn   string
	Args []Expr
}

// Clause is one "for targets in Iter if Conds..." clause.
type Clause struct {
	Targets []Target
	Iter    Expr
	Conds   []Expr
}

// Target is a loop variable, bound under Alias when it is set.
type Target struct {
	Name  string
	Alias string
}

func (t Target) Bind() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

func (*Lit) expr()     {}
func (*Name) expr()    {}
func (*Marker) expr()  {}
func (*FStr) expr()    {}
func (*Unary) expr()   {}
func (*Binary) expr()  {}
func (*Compare) expr() {}
func (*Cond) expr()    {}
func (*List) expr()    {}
func (*Tuple) expr()   {}
func (*Comp) expr()    {}
func (*Index) expr()   {}
func (*Attr) expr()    {}
func (*Call) expr()    {}

// Markers returns the scoped variable references in e in source order.
func Markers(e Expr) []*Marker {
	var res []*Marker
	Walk(e, func(x Expr) {
		switch m := x.(type) {
		case *Marker:
			res = append(res, m)
		case *FStr:
			res = append(res, TextMarkers(m.Text)...)
		}
	})
	return res
}

// Walk calls f on e and every sub expression, parents first.
func Walk(e Expr, f func(Expr)) {
	if e == nil {
		return
	}
	f(e)
	switch x := e.(type) {
	case *Lit, *Name, *Marker, *FStr:
	case *Unary:
		Walk(x.X, f)
	case *Binary:
		Walk(x.X, f)
		Walk(x.Y, f)
	case *Compare:
		for _, y := range x.Xs {
			Walk(y, f)
		}
	case *Cond:
		Walk(x.Then, f)
		Walk(x.If, f)
		Walk(x.Else, f)
	case *List:
		for _, y := range x.Elems {
			Walk(y, f)
		}
	case *Tuple:
		for _, y := range x.Elems {
			Walk(y, f)
		}
	case *Comp:
		Walk(x.Elem, f)
		WalkClauses(x.Clauses, f)
	case *Index:
		Walk(x.X, f)
		Walk(x.Index, f)
	case *Attr:
		Walk(x.X, f)
	case *Call:
		for _, y := range x.Args {
			Walk(y, f)
		}
	default:
		panic("eval: unknown expression type")
	}
}

func WalkClauses(cs []Clause, f func(Expr)) {
	for i := range cs {
		Walk(cs[i].Iter, f)
		for _, c := range cs[i].Conds {
			Walk(c, f)
		}
	}
}
