// Package scope holds the three variable tiers visible while a document
// is resolved.
//
// Global values are the document's top level assignments and sections,
// Local values are those of the section being resolved and Context
// values are supplied by the caller at render time.
package scope

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

type Tier int

const (
	Global Tier = iota
	Local
	Context
)

func (t Tier) String() string {
	switch t {
	case Global:
		return "global"
	case Local:
		return "local"
	case Context:
		return "context"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Sigil is the marker prefix of the tier.
func (t Tier) Sigil() byte {
	switch t {
	case Local:
		return '%'
	case Context:
		return '$'
	}
	return '@'
}

// TierOf maps a marker sigil to its tier.
func TierOf(sigil byte) (Tier, bool) {
	switch sigil {
	case '@':
		return Global, true
	case '%':
		return Local, true
	case '$':
		return Context, true
	}
	return 0, false
}

// Scope is the set of tiers. A nil Context means context values are not
// available yet, which is the case when a document is loaded rather
// than rendered.
type Scope struct {
	Global  map[string]any
	Local   map[string]any
	Context map[string]any
}

func New(global map[string]any) *Scope {
	if global == nil {
		global = map[string]any{}
	}
	return &Scope{Global: global, Local: map[string]any{}}
}

// WithLocal returns a scope sharing the global and context tiers of s
// with local replaced.
func (s *Scope) WithLocal(local map[string]any) *Scope {
	return &Scope{Global: s.Global, Local: local, Context: s.Context}
}

func (s *Scope) WithContext(ctx map[string]any) *Scope {
	if ctx == nil {
		ctx = map[string]any{}
	}
	return &Scope{Global: s.Global, Local: s.Local, Context: ctx}
}

func (s *Scope) HasContext() bool {
	return s.Context != nil
}

// Lookup resolves a dotted path in tier t. Local lookups fall back to
// the global tier and context lookups fall back to local then global.
// Context lookups when the context tier is unavailable return
// ErrNoContext.
func (s *Scope) Lookup(t Tier, path string) (any, error) {
	var chain []map[string]any
	switch t {
	case Global:
		chain = []map[string]any{s.Global}
	case Local:
		chain = []map[string]any{s.Local, s.Global}
	case Context:
		if !s.HasContext() {
			return nil, fmt.Errorf("%w: %c{%s}", ErrNoContext, t.Sigil(), path)
		}
		chain = []map[string]any{s.Context, s.Local, s.Global}
	default:
		return nil, fmt.Errorf("unknown tier %d", t)
	}
	for _, m := range chain {
		if v, ok := Get(m, path); ok {
			return v, nil
		}
	}
	return nil, &NotFoundError{Tier: t, Path: path}
}

// SplitPath splits "a.b[0].c" into its segments, "a", "b", "0", "c".
func SplitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)
	parts := strings.Split(path, ".")
	res := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// Get looks up a dotted path in data, indexing lists by numeric
// segments.
func Get(data map[string]any, path string) (any, bool) {
	segs := SplitPath(path)
	if len(segs) == 0 || data == nil {
		return nil, false
	}
	var cur any = data
	for _, seg := range segs {
		switch x := cur.(type) {
		case map[string]any:
			v, ok := x[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(x) {
				return nil, false
			}
			cur = x[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set stores v at the dotted path, creating intermediate maps.
// Intermediate non map values are replaced.
func Set(data map[string]any, path []string, v any) {
	if len(path) == 0 {
		return
	}
	cur := data
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
}

// Copy returns a shallow copy of m, nested maps are copied too so that
// Set on the copy does not modify m.
func Copy(m map[string]any) map[string]any {
	res := maps.Clone(m)
	if res == nil {
		return map[string]any{}
	}
	for k, v := range res {
		if sub, ok := v.(map[string]any); ok {
			res[k] = Copy(sub)
		}
	}
	return res
}
