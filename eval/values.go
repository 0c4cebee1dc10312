package eval

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/signadot/jaml/token"
)

// Normalize maps Go values to the value domain of the evaluator:
// int64, float64, string, bool, nil, []any and map[string]any.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, int64, float64, string, bool:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []string:
		res := make([]any, len(x))
		for i, s := range x {
			res[i] = s
		}
		return res
	case []int:
		res := make([]any, len(x))
		for i, n := range x {
			res[i] = int64(n)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, y := range x {
			res[i] = Normalize(y)
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, y := range x {
			res[k] = Normalize(y)
		}
		return res
	case map[string]string:
		res := make(map[string]any, len(x))
		for k, y := range x {
			res[k] = y
		}
		return res
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, y := range x {
			res[fmt.Sprint(k)] = Normalize(y)
		}
		return res
	case Sourcer:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}

// Truthy follows the usual rules: null, false, zero, and empty strings
// or collections are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) != 0
	case map[string]any:
		return len(x) != 0
	}
	return true
}

// Iterable returns the items of v when it is an ordered sequence.
// Strings iterate by character, mappings by sorted key.
func Iterable(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case string:
		res := make([]any, 0, len(x))
		for _, r := range x {
			res = append(res, string(r))
		}
		return res, nil
	case map[string]any:
		keys := SortedKeys(x)
		res := make([]any, len(keys))
		for i, k := range keys {
			res[i] = k
		}
		return res, nil
	}
	return nil, notIterable(v)
}

func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Str is the text of v when interpolated or converted with str().
func Str(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatFloat(x)
	}
	return LiteralText(v)
}

// FormatFloat formats f so that it reads back as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Sourcer is implemented by values which are printed as source text
// rather than as a literal.
type Sourcer interface {
	Source() string
}

// LiteralText is the canonical source text of v. Mappings are written
// with their keys sorted.
func LiteralText(v any) string {
	switch x := v.(type) {
	case Sourcer:
		return x.Source()
	case nil:
		return "null"
	case string:
		return token.Quote(x)
	case bool, int64, float64:
		return Str(x)
	case []any:
		parts := make([]string, len(x))
		for i, y := range x {
			parts[i] = LiteralText(y)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		if len(x) == 0 {
			return "{}"
		}
		keys := SortedKeys(x)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = KeyText(k) + " = " + LiteralText(x[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return LiteralText(Normalize(v))
}

// KeyText returns k as a bare key when possible, quoted otherwise.
func KeyText(k string) string {
	if isBareKey(k) {
		return k
	}
	return token.Quote(k)
}

func isBareKey(k string) bool {
	if k == "" {
		return false
	}
	toks, err := token.Tokenize([]byte(k))
	if err != nil || len(toks) != 1 {
		return false
	}
	t := &toks[0]
	return (t.Type == token.TIdent || t.Type == token.TKeyword) && len(t.Bytes) == len(k)
}

func isNum(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// Equal compares values structurally with numeric promotion. Booleans
// only equal booleans.
func Equal(a, b any) bool {
	if isNum(a) && isNum(b) {
		ai, aok := a.(int64)
		bi, bok := b.(int64)
		if aok && bok {
			return ai == bi
		}
		return toFloat(a) == toFloat(b)
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, Equal)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// order returns -1, 0 or 1, or an error when a and b are not ordered.
func order(a, b any) (int, error) {
	if isNum(a) && isNum(b) {
		ai, aok := a.(int64)
		bi, bok := b.(int64)
		if aok && bok {
			return cmpInt(ai, bi), nil
		}
		x, y := toFloat(a), toFloat(b)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmpInt(b2i(x), b2i(y)), nil
		}
	case []any:
		if y, ok := b.([]any); ok {
			for i := 0; i < len(x) && i < len(y); i++ {
				c, err := order(x[i], y[i])
				if err != nil || c != 0 {
					return c, err
				}
			}
			return cmpInt(int64(len(x)), int64(len(y))), nil
		}
	}
	return 0, unsupported("cannot order %s and %s", TypeName(a), TypeName(b))
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
