package eval

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/scope"
)

// Eval evaluates e in s. References to the context tier while it is
// unavailable fail with ErrDeferred, missing scoped variables with
// ErrUnresolved.
func Eval(e Expr, s *scope.Scope) (any, error) {
	v, err := eval(e, s)
	if debug.Eval() {
		debug.Logf("eval %s -> %s (err=%v)\n", Format(e), LiteralText(v), err)
	}
	return v, err
}

// SafeEval parses and evaluates text with local as the local tier.
func SafeEval(text string, local map[string]any) (any, error) {
	e, err := Parse(text)
	if err != nil {
		return nil, err
	}
	s := scope.New(nil).WithLocal(Normalize(orEmpty(local)).(map[string]any))
	return Eval(e, s)
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func eval(e Expr, s *scope.Scope) (any, error) {
	switch x := e.(type) {
	case *Lit:
		return x.Value, nil
	case *Name:
		return lookupName(x.Name, s)
	case *Marker:
		return LookupMarker(x, s)
	case *FStr:
		out, missing, err := Interpolate(x.Text, s)
		if err != nil {
			return nil, err
		}
		if len(missing) != 0 {
			return nil, missing[0]
		}
		return out, nil
	case *Unary:
		v, err := eval(x.X, s)
		if err != nil {
			return nil, err
		}
		return unaryOp(x.Op, v)
	case *Binary:
		return evalBinary(x, s)
	case *Compare:
		return evalCompare(x, s)
	case *Cond:
		c, err := eval(x.If, s)
		if err != nil {
			return nil, err
		}
		if Truthy(c) {
			return eval(x.Then, s)
		}
		return eval(x.Else, s)
	case *List:
		return evalList(x.Elems, s)
	case *Tuple:
		return evalList(x.Elems, s)
	case *Comp:
		var res []any
		err := Expand(x.Clauses, s, func(is *scope.Scope) error {
			v, err := eval(x.Elem, is)
			if err != nil {
				return err
			}
			res = append(res, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if res == nil {
			res = []any{}
		}
		return res, nil
	case *Index:
		v, err := eval(x.X, s)
		if err != nil {
			return nil, err
		}
		i, err := eval(x.Index, s)
		if err != nil {
			return nil, err
		}
		return index(v, i)
	case *Attr:
		v, err := eval(x.X, s)
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, unsupported("attribute %q of %s", x.Name, TypeName(v))
		}
		r, ok := m[x.Name]
		if !ok {
			return nil, unsupported("no attribute %q", x.Name)
		}
		return r, nil
	case *Call:
		f := LookupFunc(x.Fn)
		if f == nil {
			return nil, unsupported("function %q is not allowed", x.Fn)
		}
		args, err := evalList(x.Args, s)
		if err != nil {
			return nil, err
		}
		v, err := f.Call(args.([]any))
		if err != nil {
			var ve *ValueError
			if errors.As(err, &ve) {
				return nil, err
			}
			return nil, &ValueError{Kind: UnsupportedExpression, Msg: x.Fn, Err: err}
		}
		return Normalize(v), nil
	}
	panic(fmt.Sprintf("eval: unknown expression %T", e))
}

func evalList(xs []Expr, s *scope.Scope) (any, error) {
	res := make([]any, len(xs))
	for i, y := range xs {
		v, err := eval(y, s)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

// lookupName resolves a bare name: local first, where loop variables
// are bound, then the context, then globals. Only ${...} markers give
// the context precedence.
func lookupName(name string, s *scope.Scope) (any, error) {
	if v, ok := s.Local[name]; ok {
		return v, nil
	}
	if s.HasContext() {
		if v, ok := s.Context[name]; ok {
			return v, nil
		}
	}
	if v, ok := s.Global[name]; ok {
		return v, nil
	}
	return nil, unsupported("unknown name %q", name)
}

// LookupMarker resolves a scoped variable.
func LookupMarker(m *Marker, s *scope.Scope) (any, error) {
	v, err := s.Lookup(m.Tier, m.Path)
	switch {
	case err == nil:
		return Normalize(v), nil
	case errors.Is(err, scope.ErrNoContext):
		return nil, fmt.Errorf("%w: %w", ErrDeferred, err)
	case errors.Is(err, scope.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrUnresolved, err)
	}
	return nil, err
}

var markerRe = regexp.MustCompile(`[@%$]\{[^{}\r\n]*\}`)

// Interpolate substitutes the scoped variables in text. Markers which
// cannot be resolved yet are left in place and their errors returned in
// missing.
func Interpolate(text string, s *scope.Scope) (string, []error, error) {
	var (
		missing []error
		hard    error
	)
	out := markerRe.ReplaceAllStringFunc(text, func(m string) string {
		mk := &Marker{Path: strings.TrimSpace(m[2 : len(m)-1])}
		mk.Tier, _ = scope.TierOf(m[0])
		v, err := LookupMarker(mk, s)
		switch {
		case err == nil:
			return Str(v)
		case IsPending(err):
			missing = append(missing, err)
		case hard == nil:
			hard = err
		}
		return m
	})
	return out, missing, hard
}

// TextMarkers returns the markers in an interpolated string.
func TextMarkers(text string) []*Marker {
	var res []*Marker
	for _, m := range markerRe.FindAllString(text, -1) {
		mk := &Marker{Path: strings.TrimSpace(m[2 : len(m)-1])}
		mk.Tier, _ = scope.TierOf(m[0])
		res = append(res, mk)
	}
	return res
}

func unaryOp(op string, v any) (any, error) {
	switch op {
	case "not":
		return !Truthy(v), nil
	case "-":
		switch x := v.(type) {
		case int64:
			return subInt(0, x)
		case float64:
			return -x, nil
		}
	case "+":
		if isNum(v) {
			return v, nil
		}
	}
	return nil, unsupported("unary %s on %s", op, TypeName(v))
}

func evalBinary(x *Binary, s *scope.Scope) (any, error) {
	a, err := eval(x.X, s)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "and":
		if !Truthy(a) {
			return a, nil
		}
		return eval(x.Y, s)
	case "or":
		if Truthy(a) {
			return a, nil
		}
		return eval(x.Y, s)
	}
	b, err := eval(x.Y, s)
	if err != nil {
		return nil, err
	}
	return binaryOp(x.Op, a, b)
}

func binaryOp(op string, a, b any) (any, error) {
	switch op {
	case "+":
		switch x := a.(type) {
		case string:
			if y, ok := b.(string); ok {
				return x + y, nil
			}
		case []any:
			if y, ok := b.([]any); ok {
				res := make([]any, 0, len(x)+len(y))
				return append(append(res, x...), y...), nil
			}
		}
	case "*":
		if n, ok := b.(int64); ok {
			if r, ok, err := repeat(a, n); ok {
				return r, err
			}
		}
		if n, ok := a.(int64); ok {
			if r, ok, err := repeat(b, n); ok {
				return r, err
			}
		}
	case "%":
		if f, ok := a.(string); ok {
			return nil, unsupported("string formatting %q", f)
		}
	}
	if !isNum(a) || !isNum(b) {
		return nil, unsupported("%s %s %s", TypeName(a), op, TypeName(b))
	}
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		return intOp(op, ai, bi)
	}
	return floatOp(op, toFloat(a), toFloat(b))
}

// repeat is sequence repetition, reporting false when v is not a
// sequence.
func repeat(v any, n int64) (any, bool, error) {
	var size int
	switch x := v.(type) {
	case string:
		size = len(x)
	case []any:
		size = len(x)
	default:
		return nil, false, nil
	}
	n = max(n, 0)
	if size != 0 && n > int64(MaxLen/size) {
		return nil, true, overflow("repetition of %d items %d times", size, n)
	}
	switch x := v.(type) {
	case string:
		return strings.Repeat(x, int(n)), true, nil
	default:
		xs := x.([]any)
		res := make([]any, 0, size*int(n))
		for range n {
			res = append(res, xs...)
		}
		return res, true, nil
	}
}

var errDivZero = errors.New("division by zero")

func intOp(op string, a, b int64) (any, error) {
	switch op {
	case "+":
		return addInt(a, b)
	case "-":
		return subInt(a, b)
	case "*":
		return mulInt(a, b)
	case "/":
		if b == 0 {
			return nil, &ValueError{Kind: UnsupportedExpression, Err: errDivZero}
		}
		return float64(a) / float64(b), nil
	case "//":
		if b == 0 {
			return nil, &ValueError{Kind: UnsupportedExpression, Err: errDivZero}
		}
		if a == math.MinInt64 && b == -1 {
			return nil, overflow("%d // %d", a, b)
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return q, nil
	case "%":
		if b == 0 {
			return nil, &ValueError{Kind: UnsupportedExpression, Err: errDivZero}
		}
		if b == -1 {
			return int64(0), nil
		}
		m := a % b
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return m, nil
	case "**":
		if b < 0 {
			return math.Pow(float64(a), float64(b)), nil
		}
		return powInt(a, b)
	}
	return nil, unsupported("operator %s", op)
}

func addInt(a, b int64) (any, error) {
	r := a + b
	if (a^r)&(b^r) < 0 {
		return nil, overflow("%d + %d", a, b)
	}
	return r, nil
}

func subInt(a, b int64) (any, error) {
	r := a - b
	if (a^b)&(a^r) < 0 {
		return nil, overflow("%d - %d", a, b)
	}
	return r, nil
}

func mulInt(a, b int64) (any, error) {
	if a == 0 || b == 0 {
		return int64(0), nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return nil, overflow("%d * %d", a, b)
	}
	return r, nil
}

// powInt computes a**b for b >= 0 by repeated squaring.
func powInt(a, b int64) (any, error) {
	r, base, e := int64(1), a, b
	for e > 0 {
		if e&1 == 1 {
			v, err := mulInt(r, base)
			if err != nil {
				return nil, overflow("%d ** %d", a, b)
			}
			r = v.(int64)
		}
		e >>= 1
		if e > 0 {
			v, err := mulInt(base, base)
			if err != nil {
				return nil, overflow("%d ** %d", a, b)
			}
			base = v.(int64)
		}
	}
	return r, nil
}

func floatOp(op string, a, b float64) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, &ValueError{Kind: UnsupportedExpression, Err: errDivZero}
		}
		return a / b, nil
	case "//":
		if b == 0 {
			return nil, &ValueError{Kind: UnsupportedExpression, Err: errDivZero}
		}
		return math.Floor(a / b), nil
	case "%":
		if b == 0 {
			return nil, &ValueError{Kind: UnsupportedExpression, Err: errDivZero}
		}
		m := math.Mod(a, b)
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return m, nil
	case "**":
		return math.Pow(a, b), nil
	}
	return nil, unsupported("operator %s", op)
}

func evalCompare(x *Compare, s *scope.Scope) (any, error) {
	a, err := eval(x.Xs[0], s)
	if err != nil {
		return nil, err
	}
	for i, op := range x.Ops {
		b, err := eval(x.Xs[i+1], s)
		if err != nil {
			return nil, err
		}
		ok, err := compareOp(op, a, b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return false, nil
		}
		a = b
	}
	return true, nil
}

func compareOp(op string, a, b any) (bool, error) {
	switch op {
	case "==":
		return Equal(a, b), nil
	case "!=":
		return !Equal(a, b), nil
	case "is":
		return identical(a, b), nil
	case "is not":
		return !identical(a, b), nil
	case "in":
		return contains(b, a)
	case "not in":
		ok, err := contains(b, a)
		return !ok, err
	}
	c, err := order(a, b)
	if err != nil {
		return false, err
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, unsupported("comparison %s", op)
}

// identical is "is": null and booleans compare by identity, other
// values by type and equality.
func identical(a, b any) bool {
	if TypeName(a) != TypeName(b) {
		return false
	}
	return Equal(a, b)
}

func contains(container, v any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := v.(string)
		if !ok {
			return false, unsupported("'in <str>' requires a str, got %s", TypeName(v))
		}
		return strings.Contains(c, s), nil
	case []any:
		for _, x := range c {
			if Equal(x, v) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		k, ok := v.(string)
		if !ok {
			return false, nil
		}
		_, ok = c[k]
		return ok, nil
	}
	return false, notIterable(container)
}

func index(v, i any) (any, error) {
	switch x := v.(type) {
	case []any:
		n, ok := i.(int64)
		if !ok {
			return nil, unsupported("list index %s", TypeName(i))
		}
		if n < 0 {
			n += int64(len(x))
		}
		if n < 0 || n >= int64(len(x)) {
			return nil, unsupported("index %d out of range", i)
		}
		return x[n], nil
	case string:
		n, ok := i.(int64)
		if !ok {
			return nil, unsupported("string index %s", TypeName(i))
		}
		rs := []rune(x)
		if n < 0 {
			n += int64(len(rs))
		}
		if n < 0 || n >= int64(len(rs)) {
			return nil, unsupported("index %d out of range", i)
		}
		return string(rs[n]), nil
	case map[string]any:
		k, ok := i.(string)
		if !ok {
			return nil, unsupported("mapping key %s", TypeName(i))
		}
		r, ok := x[k]
		if !ok {
			return nil, unsupported("no key %q", k)
		}
		return r, nil
	}
	return nil, unsupported("cannot index %s", TypeName(v))
}
