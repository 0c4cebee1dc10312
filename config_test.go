package jaml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/diag"
)

const configSrc = `# settings
name = "demo"  # app name
port = 8080

[pkg]
deps = ["a", "b"]

[pkg.extra]
x = 1
`

func newConfig(t *testing.T, src string) *Config {
	t.Helper()
	c, err := NewConfig([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestConfigGet(t *testing.T) {
	c := newConfig(t, configSrc)
	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"name", "demo", true},
		{"port", int64(8080), true},
		{"pkg.deps", []any{"a", "b"}, true},
		{"pkg.deps.1", "b", true},
		{"pkg.extra.x", int64(1), true},
		{"pkg.nope", nil, false},
		{"", nil, false},
	}
	for _, test := range tests {
		got, ok := c.Get(test.path)
		if ok != test.ok {
			t.Errorf("%q: got ok %t", test.path, ok)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%q: %s", test.path, diff)
		}
	}
	if diff := cmp.Diff([]string{"name", "pkg", "port"}, c.Keys()); diff != "" {
		t.Error(diff)
	}
}

func TestConfigEdit(t *testing.T) {
	c := newConfig(t, configSrc)
	sets := []struct {
		path string
		v    any
	}{
		{"port", 9090},
		{"name", "x"},
		{"pkg.version", "1.0"},
		{"pkg.extra.y", true},
		{"debug", false},
	}
	for _, s := range sets {
		if err := c.Set(s.path, s.v); err != nil {
			t.Fatalf("set %s: %v", s.path, err)
		}
	}
	if !c.Delete("pkg.deps") {
		t.Error("pkg.deps not deleted")
	}
	if c.Delete("pkg.deps") {
		t.Error("pkg.deps deleted twice")
	}
	want := `# settings
name = "x"  # app name
port = 9090
debug = false

[pkg]
version = "1.0"

[pkg.extra]
x = 1
y = true
`
	if diff := cmp.Diff(want, c.Dumps()); diff != "" {
		t.Error(diff)
	}
	if v, _ := c.Get("pkg.extra.y"); v != true {
		t.Errorf("pkg.extra.y: %v", v)
	}
}

func TestConfigSetNew(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
		v    any
		want string
	}{
		{
			name: "empty",
			src:  "",
			path: "a",
			v:    1,
			want: "a = 1\n",
		},
		{
			name: "before first section",
			src:  "[s]\nx = 1\n",
			path: "a",
			v:    []any{"p", "q"},
			want: "a = [\"p\", \"q\"]\n[s]\nx = 1\n",
		},
		{
			name: "dotted top level",
			src:  "a = 1\n",
			path: "b.c",
			v:    map[string]any{"d": 2},
			want: "a = 1\nb.c = { d = 2 }\n",
		},
		{
			name: "merge into section",
			src:  "[s]\nx = 1\n",
			path: "s",
			v:    map[string]any{"x": 2, "y": "z"},
			want: "[s]\nx = 2\ny = \"z\"\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newConfig(t, test.src)
			if err := c.Set(test.path, test.v); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, c.Dumps()); diff != "" {
				t.Error(diff)
			}
		})
	}
	if err := newConfig(t, "").Set(" . ", 1); err == nil {
		t.Error("empty path accepted")
	}
}

func TestConfigDeleteSection(t *testing.T) {
	c := newConfig(t, configSrc)
	if !c.Delete("pkg") {
		t.Fatal("pkg not deleted")
	}
	// the blank line before the first section stays
	want := "# settings\nname = \"demo\"  # app name\nport = 8080\n\n"
	if diff := cmp.Diff(want, c.Dumps()); diff != "" {
		t.Error(diff)
	}
}

func TestConfigResolveRender(t *testing.T) {
	src := `env_name = "demo"
[app]
url = <( @{env_name} + "-" + ${env} )>
n: int = "oops"
`
	l := &diag.List{}
	c, err := NewConfig([]byte(src), WithDiagnostics(l))
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"env_name": "demo",
		"app":      map[string]any{"url": `<( "demo-" + ${env} )>`, "n": "oops"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	if ds := c.Diagnostics(); len(ds) != 1 || ds[0].Severity != diag.Warning {
		t.Errorf("diagnostics %v", ds)
	}
	if len(l.Items) != 1 {
		t.Errorf("sink got %v", l.Items)
	}
	if c.Dumps() != src {
		t.Error("resolve changed the config")
	}
	got, err = c.Render(map[string]any{"env": "prod"})
	if err != nil {
		t.Fatal(err)
	}
	if url, _ := got["app"].(map[string]any)["url"]; url != "demo-prod" {
		t.Errorf("url %v", url)
	}
}
