package dirbuild

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/diag"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuild(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"build.yaml": `destDir: out
env:
  region: us
  env: dev
patches:
- match: "a.*"
  file: a-patch.json
`,
		"a-patch.json": `[{"op": "add", "path": "/svc/replicas", "value": 2}]`,
		"a.jml":        "[svc]\nname = \"a\"\nregion = ${region}\nenv = ${env}\n",
		"b.jaml":       "x = <( 1 + 2 )>\ny = ${nope}\n",
		"notes.txt":    "ignored",
	})
	dir, err := OpenDir(root, map[string]any{"env": "prod"})
	if err != nil {
		t.Fatal(err)
	}
	l := &diag.List{}
	outs, err := dir.Build(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) != 2 {
		t.Fatalf("got %d outputs", len(outs))
	}
	want := []struct {
		dest string
		data map[string]any
	}{
		{
			dest: filepath.Join(root, "out", "a.json"),
			data: map[string]any{"svc": map[string]any{
				"name": "a", "region": "us", "env": "prod", "replicas": float64(2),
			}},
		},
		{
			dest: filepath.Join(root, "out", "b.json"),
			data: map[string]any{"x": float64(3), "y": "${nope}"},
		},
	}
	for i, w := range want {
		if outs[i].Dest != w.dest {
			t.Errorf("dest %s, want %s", outs[i].Dest, w.dest)
		}
		var got map[string]any
		if err := json.Unmarshal(outs[i].Data, &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(w.data, got); diff != "" {
			t.Error(diff)
		}
	}
	if len(l.Items) != 1 || l.Items[0].Path != "y" {
		t.Errorf("diagnostics %v", l.Items)
	}
	if err := Write(outs); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "out", "b.json")); err != nil {
		t.Error(err)
	}
}

func TestOpenDirJAML(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"build.jml": "[build]\nformat = \"yaml\"\nsources = [\"*.jaml\"]\nsuffix = f\"-${stage}.yaml\"\n",
		"a.jml":     "a = 1\n",
		"b.jaml":    "b = 2\n",
	})
	dir, err := OpenDir(root, map[string]any{"stage": "qa"})
	if err != nil {
		t.Fatal(err)
	}
	if dir.Suffix != "-qa.yaml" {
		t.Errorf("suffix %q", dir.Suffix)
	}
	files, err := dir.Files()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "b.jaml")}, files); diff != "" {
		t.Error(diff)
	}
}

func TestOpenDirDefaults(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.jml": "a = 1\n"})
	dir, err := OpenDir(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dir.Suffix != ".json" || len(dir.Sources) != 2 {
		t.Errorf("got %+v", dir)
	}
	if _, err := OpenDir(writeFiles(t, map[string]string{"build.yaml": "nope: 1\n"}), nil); err == nil {
		t.Error("unknown build setting accepted")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvEnv, "")
	env, err := LoadEnv()
	if err != nil || env != nil {
		t.Errorf("empty: %v %v", env, err)
	}
	t.Setenv(EnvEnv, `{"a": 1, "b": [x, y]}`)
	env, err = LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": int64(1), "b": []any{"x", "y"}}, env); diff != "" {
		t.Error(diff)
	}
	t.Setenv(EnvEnv, "- 1\n")
	if _, err := LoadEnv(); err == nil {
		t.Error("list accepted")
	}
}
