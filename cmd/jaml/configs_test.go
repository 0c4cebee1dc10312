package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/dirbuild"
)

func TestContext(t *testing.T) {
	t.Setenv(dirbuild.EnvEnv, "region: us\nenv: dev\n")
	file := filepath.Join(t.TempDir(), "ctx.yaml")
	if err := os.WriteFile(file, []byte("db:\n  host: h\n  port: 5432\nenv: qa\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &ContextConfig{}
	if _, err := cfg.fileFunc(nil, file); err != nil {
		t.Fatal(err)
	}
	for _, a := range []string{"env=prod", "db.port=6543", "tags=[a, b]"} {
		if _, err := cfg.setFunc(nil, a); err != nil {
			t.Fatal(err)
		}
	}
	got, err := cfg.context()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"region": "us",
		"env":    "prod",
		"db":     map[string]any{"host": "h", "port": int64(6543)},
		"tags":   []any{"a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	if _, err := cfg.setFunc(nil, "novalue"); err == nil {
		t.Error("missing = accepted")
	}
	if _, err := cfg.setFunc(nil, "env.x=1"); err == nil {
		t.Error("path through a scalar accepted")
	}
}

func TestWriteValue(t *testing.T) {
	cfg := &MainConfig{J: true}
	buf := bytes.NewBuffer(nil)
	if err := writeValue(cfg, buf, []any{int64(1), "a"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[1,\"a\"]\n" {
		t.Errorf("got %q", got)
	}
	buf.Reset()
	if err := writeValue(&MainConfig{}, buf, "x"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\"x\"\n" {
		t.Errorf("got %q", got)
	}
}
