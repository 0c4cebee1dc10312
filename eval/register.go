package eval

import (
	"fmt"
	"sort"
	"sync"
)

// Func is a function callable from expressions.
type Func interface {
	String() string
	Call(args []any) (any, error)
}

var (
	mu sync.RWMutex
	d  = map[string]Func{}
)

func Register(f Func) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[f.String()]
	if present {
		return fmt.Errorf("%s: %w", f, ErrFuncExists)
	}
	d[f.String()] = f
	return nil
}

func init() {
	for _, f := range builtins() {
		Register(f)
	}
}

func LookupFunc(s string) Func {
	mu.RLock()
	defer mu.RUnlock()
	return d[s]
}

// Funcs returns the registered functions sorted by name.
func Funcs() []Func {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Func, 0, len(d))
	for _, f := range d {
		res = append(res, f)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].String() < res[j].String() })
	return res
}
