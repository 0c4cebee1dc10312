package gomap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type server struct {
	Host    string            `jaml:"host-name"`
	Port    int               `yaml:"port"`
	Tags    []string          `json:"tags"`
	Limits  map[string]limit  `jaml:"limits"`
	Labels  map[string]string `jaml:"labels"`
	Verbose bool
}

type limit struct {
	Max int `jaml:"max-conn"`
}

func TestDecode(t *testing.T) {
	data := map[string]any{
		"host-name": "h",
		"port":      int64(80),
		"tags":      []any{"a", "b"},
		"limits":    map[string]any{"x": map[string]any{"max-conn": int64(3)}},
		"labels":    map[string]any{"max-conn": "kept"},
		"verbose":   true,
	}
	var got server
	if err := Decode(data, &got); err != nil {
		t.Fatal(err)
	}
	want := server{
		Host:    "h",
		Port:    80,
		Tags:    []string{"a", "b"},
		Limits:  map[string]limit{"x": {Max: 3}},
		Labels:  map[string]string{"max-conn": "kept"},
		Verbose: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}

func TestDecodeStrict(t *testing.T) {
	var s server
	data := map[string]any{"port": int64(1), "nope": 1}
	if err := Decode(data, &s); err != nil {
		t.Errorf("lenient: %v", err)
	}
	if err := Decode(data, &s, Strict()); err == nil {
		t.Error("strict: no error")
	}
}

func TestDecodeMap(t *testing.T) {
	var got map[string]any
	if err := Decode(map[string]any{"a": map[string]any{"b": "c"}}, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": map[string]any{"b": "c"}}, got); diff != "" {
		t.Error(diff)
	}
}
