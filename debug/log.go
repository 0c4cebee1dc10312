package debug

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSON marks a Logf argument to be printed as indented JSON.
type JSON struct{ V any }

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case JSON:
			args[i] = indent(x.V)
		case map[string]any, []any:
			args[i] = indent(x)
		case bool, string, float64, int:

		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func indent(v any) string {
	d, err := json.MarshalIndent(v, "   |", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(d)
}
