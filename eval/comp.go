package eval

import (
	"fmt"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/scope"
)

// Expand runs the Cartesian product of clauses, calling yield with the
// scope of every innermost iteration whose conditions all hold. Loop
// variables are bound into a copy of the enclosing local tier.
func Expand(clauses []Clause, s *scope.Scope, yield func(*scope.Scope) error) error {
	if len(clauses) == 0 {
		return yield(s)
	}
	c := &clauses[0]
	iv, err := eval(c.Iter, s)
	if err != nil {
		return err
	}
	items, err := Iterable(iv)
	if err != nil {
		return err
	}
	if debug.Comprehension() {
		debug.Logf("clause over %s: %d items\n", Format(c.Iter), len(items))
	}
outer:
	for _, item := range items {
		local := scope.Copy(s.Local)
		if err := bind(local, c.Targets, item); err != nil {
			return err
		}
		is := s.WithLocal(local)
		for _, cond := range c.Conds {
			cv, err := eval(cond, is)
			if err != nil {
				return err
			}
			if cv == nil || !Truthy(cv) {
				continue outer
			}
		}
		if err := Expand(clauses[1:], is, yield); err != nil {
			return err
		}
	}
	return nil
}

func bind(local map[string]any, targets []Target, item any) error {
	if len(targets) == 1 {
		local[targets[0].Bind()] = item
		return nil
	}
	parts, ok := item.([]any)
	if !ok || len(parts) != len(targets) {
		return &ValueError{
			Kind: NotIterable,
			Msg:  fmt.Sprintf("cannot unpack %s into %d variables", LiteralText(item), len(targets)),
		}
	}
	for i, t := range targets {
		local[t.Bind()] = parts[i]
	}
	return nil
}
