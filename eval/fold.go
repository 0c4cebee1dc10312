package eval

import (
	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/scope"
)

// Fold partially evaluates e: every sub expression which does not
// depend on a pending scoped variable is replaced by its value. The
// result is a *Lit when e could be evaluated completely. Errors other
// than pending lookups are returned.
func Fold(e Expr, s *scope.Scope) (Expr, error) {
	r, err := fold(e, s)
	if debug.Eval() {
		debug.Logf("fold %s -> %s (err=%v)\n", Format(e), formatOrNil(r), err)
	}
	return r, err
}

func formatOrNil(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return Format(e)
}

func lit(v any, src Expr) *Lit {
	return &Lit{Value: v, src: src}
}

func fold(e Expr, s *scope.Scope) (Expr, error) {
	switch x := e.(type) {
	case *Lit:
		return x, nil
	case *Name:
		v, err := lookupName(x.Name, s)
		if err != nil {
			return nil, err
		}
		return lit(v, x), nil
	case *Marker:
		v, err := LookupMarker(x, s)
		if err != nil {
			if IsPending(err) {
				return x, nil
			}
			return nil, err
		}
		return lit(v, x), nil
	case *FStr:
		out, missing, err := Interpolate(x.Text, s)
		if err != nil {
			return nil, err
		}
		if len(missing) != 0 {
			return &FStr{Text: out}, nil
		}
		return lit(out, x), nil
	case *Unary:
		a, err := fold(x.X, s)
		if err != nil {
			return nil, err
		}
		if al, ok := a.(*Lit); ok {
			v, err := unaryOp(x.Op, al.Value)
			if err != nil {
				return nil, err
			}
			return lit(v, x), nil
		}
		return &Unary{Op: x.Op, X: a}, nil
	case *Binary:
		return foldBinary(x, s)
	case *Compare:
		xs, all, err := foldAll(x.Xs, s)
		if err != nil {
			return nil, err
		}
		if !all {
			return &Compare{Ops: x.Ops, Xs: xs}, nil
		}
		v, err := eval(&Compare{Ops: x.Ops, Xs: xs}, s)
		if err != nil {
			return nil, err
		}
		return lit(v, x), nil
	case *Cond:
		c, err := fold(x.If, s)
		if err != nil {
			return nil, err
		}
		if cl, ok := c.(*Lit); ok {
			if Truthy(cl.Value) {
				return fold(x.Then, s)
			}
			return fold(x.Else, s)
		}
		a, err := fold(x.Then, s)
		if err != nil {
			return nil, err
		}
		b, err := fold(x.Else, s)
		if err != nil {
			return nil, err
		}
		return &Cond{Then: a, If: c, Else: b}, nil
	case *List:
		xs, all, err := foldAll(x.Elems, s)
		if err != nil {
			return nil, err
		}
		if !all {
			return &List{Elems: xs}, nil
		}
		return lit(litValues(xs), x), nil
	case *Tuple:
		xs, all, err := foldAll(x.Elems, s)
		if err != nil {
			return nil, err
		}
		if !all {
			return &Tuple{Elems: xs}, nil
		}
		return lit(litValues(xs), x), nil
	case *Comp:
		v, err := eval(x, s)
		if err != nil {
			if IsPending(err) {
				return x, nil
			}
			return nil, err
		}
		return lit(v, x), nil
	case *Index:
		a, err := fold(x.X, s)
		if err != nil {
			return nil, err
		}
		i, err := fold(x.Index, s)
		if err != nil {
			return nil, err
		}
		al, aok := a.(*Lit)
		il, iok := i.(*Lit)
		if !aok || !iok {
			return &Index{X: a, Index: i}, nil
		}
		v, err := index(al.Value, il.Value)
		if err != nil {
			return nil, err
		}
		return lit(v, x), nil
	case *Attr:
		a, err := fold(x.X, s)
		if err != nil {
			return nil, err
		}
		al, ok := a.(*Lit)
		if !ok {
			return &Attr{X: a, Name: x.Name}, nil
		}
		v, err := eval(&Attr{X: al, Name: x.Name}, s)
		if err != nil {
			return nil, err
		}
		return lit(v, x), nil
	case *Call:
		args, all, err := foldAll(x.Args, s)
		if err != nil {
			return nil, err
		}
		if !all {
			return &Call{Fn: x.Fn, Args: args}, nil
		}
		v, err := eval(&Call{Fn: x.Fn, Args: args}, s)
		if err != nil {
			return nil, err
		}
		return lit(v, x), nil
	}
	panic("eval: unknown expression type")
}

func foldBinary(x *Binary, s *scope.Scope) (Expr, error) {
	a, err := fold(x.X, s)
	if err != nil {
		return nil, err
	}
	al, aok := a.(*Lit)
	if aok && (x.Op == "and" || x.Op == "or") {
		if (x.Op == "and") != Truthy(al.Value) {
			return al, nil
		}
		return fold(x.Y, s)
	}
	b, err := fold(x.Y, s)
	if err != nil {
		return nil, err
	}
	bl, bok := b.(*Lit)
	if !aok || !bok {
		return &Binary{Op: x.Op, X: a, Y: b}, nil
	}
	v, err := binaryOp(x.Op, al.Value, bl.Value)
	if err != nil {
		return nil, err
	}
	return lit(v, x), nil
}

func foldAll(xs []Expr, s *scope.Scope) ([]Expr, bool, error) {
	res := make([]Expr, len(xs))
	all := true
	for i, y := range xs {
		r, err := fold(y, s)
		if err != nil {
			return nil, false, err
		}
		if _, ok := r.(*Lit); !ok {
			all = false
		}
		res[i] = r
	}
	return res, all, nil
}

func litValues(xs []Expr) []any {
	res := make([]any, len(xs))
	for i, y := range xs {
		res[i] = y.(*Lit).Value
	}
	return res
}
