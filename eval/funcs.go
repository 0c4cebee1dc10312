package eval

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/signadot/jaml/token"
)

type name string

func (s name) String() string {
	return string(s)
}

// fn is a builtin taking between min and max arguments, max < 0 meaning
// any number.
type fn struct {
	name
	min, max int
	f        func(args []any) (any, error)
}

func (f *fn) Call(args []any) (any, error) {
	if len(args) < f.min || (f.max >= 0 && len(args) > f.max) {
		return nil, unsupported("%s() takes %s arguments, got %d", f.name, f.arity(), len(args))
	}
	return f.f(args)
}

func (f *fn) arity() string {
	switch {
	case f.min == f.max:
		return fmt.Sprint(f.min)
	case f.max < 0:
		return fmt.Sprintf("at least %d", f.min)
	}
	return fmt.Sprintf("%d to %d", f.min, f.max)
}

// NewFunc returns a Func for registration.
func NewFunc(n string, min, max int, f func(args []any) (any, error)) Func {
	return &fn{name: name(n), min: min, max: max, f: f}
}

func builtins() []Func {
	return []Func{
		NewFunc("enumerate", 1, 2, fEnumerate),
		NewFunc("range", 1, 3, fRange),
		NewFunc("len", 1, 1, fLen),
		NewFunc("str", 1, 1, func(a []any) (any, error) { return Str(a[0]), nil }),
		NewFunc("int", 1, 1, fInt),
		NewFunc("float", 1, 1, fFloat),
		NewFunc("bool", 1, 1, func(a []any) (any, error) { return Truthy(a[0]), nil }),
		NewFunc("list", 0, 1, fList),
		NewFunc("min", 1, -1, func(a []any) (any, error) { return extreme(a, -1) }),
		NewFunc("max", 1, -1, func(a []any) (any, error) { return extreme(a, 1) }),
		NewFunc("sum", 1, 2, fSum),
		NewFunc("abs", 1, 1, fAbs),
		NewFunc("round", 1, 2, fRound),
		NewFunc("sorted", 1, 1, fSorted),
		NewFunc("keys", 1, 1, fKeys),
		NewFunc("values", 1, 1, fValues),
		NewFunc("items", 1, 1, fItems),
		NewFunc("lower", 1, 1, strFunc(strings.ToLower)),
		NewFunc("upper", 1, 1, strFunc(strings.ToUpper)),
		NewFunc("join", 1, 2, fJoin),
	}
}

func intArg(v any, what string) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case bool:
		return b2i(x), nil
	}
	return 0, unsupported("%s must be int, got %s", what, TypeName(v))
}

func fEnumerate(a []any) (any, error) {
	items, err := Iterable(a[0])
	if err != nil {
		return nil, err
	}
	start := int64(0)
	if len(a) == 2 {
		if start, err = intArg(a[1], "start"); err != nil {
			return nil, err
		}
	}
	res := make([]any, len(items))
	for i, x := range items {
		res[i] = []any{start + int64(i), x}
	}
	return res, nil
}

func fRange(a []any) (any, error) {
	var start, stop, step int64 = 0, 0, 1
	var err error
	switch len(a) {
	case 1:
		stop, err = intArg(a[0], "stop")
	default:
		if start, err = intArg(a[0], "start"); err != nil {
			return nil, err
		}
		if stop, err = intArg(a[1], "stop"); err != nil {
			return nil, err
		}
		if len(a) == 3 {
			step, err = intArg(a[2], "step")
		}
	}
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, unsupported("range() step must not be zero")
	}
	res := []any{}
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		if len(res) == MaxLen {
			return nil, unsupported("range() longer than %d", MaxLen)
		}
		res = append(res, i)
	}
	return res, nil
}

// floatToInt truncates f, failing when the result does not fit int64.
func floatToInt(f float64) (any, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, invalidLiteral(FormatFloat(f), token.ErrNumber)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, overflow("%s as int", FormatFloat(f))
	}
	return int64(f), nil
}

func fLen(a []any) (any, error) {
	switch x := a[0].(type) {
	case string:
		return int64(len([]rune(x))), nil
	case []any:
		return int64(len(x)), nil
	case map[string]any:
		return int64(len(x)), nil
	}
	return nil, unsupported("len() of %s", TypeName(a[0]))
}

func fInt(a []any) (any, error) {
	switch x := a[0].(type) {
	case int64:
		return x, nil
	case float64:
		return floatToInt(x)
	case bool:
		return b2i(x), nil
	case string:
		v, err := token.ParseInt(strings.TrimSpace(x))
		if err != nil {
			return nil, invalidLiteral(x, err)
		}
		return v, nil
	}
	return nil, unsupported("int() of %s", TypeName(a[0]))
}

func fFloat(a []any) (any, error) {
	switch x := a[0].(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case bool:
		return float64(b2i(x)), nil
	case string:
		v, err := token.ParseFloat(strings.TrimSpace(x))
		if err != nil {
			return nil, invalidLiteral(x, err)
		}
		return v, nil
	}
	return nil, unsupported("float() of %s", TypeName(a[0]))
}

func fList(a []any) (any, error) {
	if len(a) == 0 {
		return []any{}, nil
	}
	items, err := Iterable(a[0])
	if err != nil {
		return nil, err
	}
	return append([]any{}, items...), nil
}

func extreme(a []any, sign int) (any, error) {
	items := a
	if len(a) == 1 {
		var err error
		if items, err = Iterable(a[0]); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, unsupported("empty sequence")
	}
	best := items[0]
	for _, x := range items[1:] {
		c, err := order(x, best)
		if err != nil {
			return nil, err
		}
		if c*sign > 0 {
			best = x
		}
	}
	return best, nil
}

func fSum(a []any) (any, error) {
	items, err := Iterable(a[0])
	if err != nil {
		return nil, err
	}
	var acc any = int64(0)
	if len(a) == 2 {
		acc = a[1]
	}
	for _, x := range items {
		if acc, err = binaryOp("+", acc, x); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func fAbs(a []any) (any, error) {
	switch x := a[0].(type) {
	case int64:
		if x < 0 {
			return subInt(0, x)
		}
		return x, nil
	case float64:
		return math.Abs(x), nil
	}
	return nil, unsupported("abs() of %s", TypeName(a[0]))
}

func fRound(a []any) (any, error) {
	if !isNum(a[0]) {
		return nil, unsupported("round() of %s", TypeName(a[0]))
	}
	if len(a) == 1 {
		return floatToInt(math.RoundToEven(toFloat(a[0])))
	}
	nd, err := intArg(a[1], "ndigits")
	if err != nil {
		return nil, err
	}
	p := math.Pow(10, float64(nd))
	return math.RoundToEven(toFloat(a[0])*p) / p, nil
}

func fSorted(a []any) (any, error) {
	items, err := Iterable(a[0])
	if err != nil {
		return nil, err
	}
	res := append([]any{}, items...)
	var serr error
	sort.SliceStable(res, func(i, j int) bool {
		c, err := order(res[i], res[j])
		if err != nil && serr == nil {
			serr = err
		}
		return c < 0
	})
	if serr != nil {
		return nil, serr
	}
	return res, nil
}

func mapArg(v any, fname string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, unsupported("%s() of %s", fname, TypeName(v))
	}
	return m, nil
}

func fKeys(a []any) (any, error) {
	m, err := mapArg(a[0], "keys")
	if err != nil {
		return nil, err
	}
	keys := SortedKeys(m)
	res := make([]any, len(keys))
	for i, k := range keys {
		res[i] = k
	}
	return res, nil
}

func fValues(a []any) (any, error) {
	m, err := mapArg(a[0], "values")
	if err != nil {
		return nil, err
	}
	keys := SortedKeys(m)
	res := make([]any, len(keys))
	for i, k := range keys {
		res[i] = m[k]
	}
	return res, nil
}

func fItems(a []any) (any, error) {
	m, err := mapArg(a[0], "items")
	if err != nil {
		return nil, err
	}
	keys := SortedKeys(m)
	res := make([]any, len(keys))
	for i, k := range keys {
		res[i] = []any{k, m[k]}
	}
	return res, nil
}

func strFunc(f func(string) string) func([]any) (any, error) {
	return func(a []any) (any, error) {
		s, ok := a[0].(string)
		if !ok {
			return nil, unsupported("expected str, got %s", TypeName(a[0]))
		}
		return f(s), nil
	}
}

func fJoin(a []any) (any, error) {
	items, err := Iterable(a[0])
	if err != nil {
		return nil, err
	}
	sep := ""
	if len(a) == 2 {
		s, ok := a[1].(string)
		if !ok {
			return nil, unsupported("join() separator must be str")
		}
		sep = s
	}
	parts := make([]string, len(items))
	for i, x := range items {
		parts[i] = Str(x)
	}
	return strings.Join(parts, sep), nil
}
