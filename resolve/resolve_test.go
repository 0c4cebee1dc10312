package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/parse"
	"github.com/smartystreets/goconvey/convey"
)

func resolved(t *testing.T, src string, opts ...Option) *ir.Document {
	t.Helper()
	d, err := parse.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if err := Resolve(d, opts...); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestPackageScenario(t *testing.T) {
	src := "[pkg]\nname = \"demo\"\nfull = <(%{name} + \"-1.0\")>\n"
	d := resolved(t, src)
	want := "[pkg]\nname = \"demo\"\nfull = \"demo-1.0\"\n"
	if diff := cmp.Diff(want, encode.String(d)); diff != "" {
		t.Error(diff)
	}
	data := map[string]any{"pkg": map[string]any{"name": "demo", "full": "demo-1.0"}}
	if diff := cmp.Diff(data, d.Data()); diff != "" {
		t.Error(diff)
	}
}

func TestTableArrayOrder(t *testing.T) {
	src := "[[item]]\nn = 1\nk = \"a\"\n\n[[item]]\nn = 2\n\n[[item]]\nn = <( 1 + 2 )>\n"
	d := resolved(t, src)
	items := d.TableArrays("item")
	if len(items) != 3 {
		t.Fatalf("got %d table arrays", len(items))
	}
	want := map[string]any{"item": []any{
		map[string]any{"n": int64(1), "k": "a"},
		map[string]any{"n": int64(2)},
		map[string]any{"n": int64(3)},
	}}
	if diff := cmp.Diff(want, d.Data()); diff != "" {
		t.Error(diff)
	}
	out := "[[item]]\nn = 1\nk = \"a\"\n\n[[item]]\nn = 2\n\n[[item]]\nn = 3\n"
	if diff := cmp.Diff(out, encode.String(d)); diff != "" {
		t.Error(diff)
	}
}

func TestIdempotence(t *testing.T) {
	srcs := []string{
		"[pkg]\nname = \"demo\"\nfull = <(%{name} + \"-1.0\")>\n",
		"[app]\nname = \"demo\"\nurl = <(%{name} + \"-\" + ${env})>\ngreet = f\"hi %{name} in ${env}\"\n",
		"top = 1\n[[f\"job-%{i}\" for i in ['a', 'b']]]\nname = %{i}\nurl = f\"${host}/%{i}\"\n",
		"xs = [x for x in range(3)]\nys = [\n  @{xs}, # all\n  <( len(@{xs}) )>,\n]\n",
		"[[f\"job-%{i}\" for i in ${jobs}]]\nname = %{i}\n",
		"a = %{missing}\nb = <( 1 / 0 )>\n",
		"[s]\nk = <( %{later} + 1 )>\nlater = <( 2 )>\n",
		"n = <( @{m} * 2 )>\nm = <( 1 + 1 )>\n",
	}
	for _, src := range srcs {
		d := resolved(t, src)
		once := encode.String(d)
		if err := Resolve(d); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(once, encode.String(d)); diff != "" {
			t.Errorf("resolving twice:\n%s", diff)
		}
		again := encode.String(resolved(t, once))
		if diff := cmp.Diff(once, again); diff != "" {
			t.Errorf("resolving the output:\n%s", diff)
		}
	}
}

func TestScopePrecedence(t *testing.T) {
	convey.Convey("given x in every tier", t, func() {
		src := "x = \"global\"\n[s]\nx = \"local\"\na = %{x}\nb = @{x}\nc = ${x}\n"

		convey.Convey("local lookups prefer the section", func() {
			d := resolved(t, src)
			s := d.Data()["s"].(map[string]any)
			convey.So(s["a"], convey.ShouldEqual, "local")
			convey.So(s["b"], convey.ShouldEqual, "global")
			convey.So(s["c"], convey.ShouldEqual, "${x}")
		})
		convey.Convey("context lookups prefer the context", func() {
			d := resolved(t, src, WithContext(map[string]any{"x": "ctx"}))
			convey.So(d.Data()["s"].(map[string]any)["c"], convey.ShouldEqual, "ctx")
		})
		convey.Convey("context lookups fall back to local", func() {
			d := resolved(t, src, WithContext(map[string]any{}))
			convey.So(d.Data()["s"].(map[string]any)["c"], convey.ShouldEqual, "local")
		})
	})

	convey.Convey("sections see each other through the global tier", t, func() {
		d := resolved(t, "[a]\nv = 1\n[b]\nw = <( @{a.v} + 1 )>\n")
		convey.So(d.Data()["b"].(map[string]any)["w"], convey.ShouldEqual, int64(2))
	})

	convey.Convey("later lines see earlier resolved lines", t, func() {
		d := resolved(t, "[s]\na = <( 2 * 3 )>\nb = <( %{a} + 1 )>\n")
		convey.So(d.Data()["s"].(map[string]any)["b"], convey.ShouldEqual, int64(7))
	})

	convey.Convey("external globals", t, func() {
		d := resolved(t, "x = @{ext.v}\n", WithGlobals(map[string]any{"ext": map[string]any{"v": 5}}))
		convey.So(d.Data()["x"], convey.ShouldEqual, int64(5))
	})
}

func TestForwardReferences(t *testing.T) {
	src := "n = <( @{m} * 2 )>\nm = <( 1 + 1 )>\n[s]\nk = <( %{later} + 1 )>\nlater = <( 2 )>\nu = %{gone}\n"
	l := &diag.List{}
	d := resolved(t, src, WithDiagnostics(l))
	want := "n = 4\nm = 2\n[s]\nk = 3\nlater = 2\nu = %{gone}\n"
	if diff := cmp.Diff(want, encode.String(d)); diff != "" {
		t.Error(diff)
	}
	var paths []string
	for _, dg := range l.Items {
		paths = append(paths, dg.Path)
	}
	if diff := cmp.Diff([]string{"u"}, paths); diff != "" {
		t.Errorf("diagnostics: %s", diff)
	}
}

func TestComprehensionCardinality(t *testing.T) {
	d := resolved(t, `a = [x for x in range(10) if x % 3 == 0]
b = [x for x in [1, null, 2]]
c = {(k if k != 'b' else null): 1 for k in ['a', 'b', 'c']}
e = [[x, y] for x in [1, 2] for y in ['p', 'q'] if y != 'p']
f = [i for i, v in enumerate(['a', 'b']) if v]
g = [%{v} for k as %{v} in [1, 2]]
`)
	want := map[string]any{
		"a": []any{int64(0), int64(3), int64(6), int64(9)},
		"b": []any{int64(1), nil, int64(2)},
		"c": map[string]any{"a": int64(1), "c": int64(1)},
		"e": []any{[]any{int64(1), "q"}, []any{int64(2), "q"}},
		"f": []any{int64(0), int64(1)},
		"g": []any{int64(1), int64(2)},
	}
	if diff := cmp.Diff(want, d.Data()); diff != "" {
		t.Error(diff)
	}
}

func TestSectionComprehension(t *testing.T) {
	tests := []struct {
		in, out string
		data    map[string]any
	}{
		{
			in:  "top = 1\n[[f\"job-%{i}\" for i in ['a', 'b']]]\nname = %{i}\n",
			out: "top = 1\n[[job-a]]\nname = \"a\"\n[[job-b]]\nname = \"b\"\n",
			data: map[string]any{
				"top":   int64(1),
				"job-a": []any{map[string]any{"name": "a"}},
				"job-b": []any{map[string]any{"name": "b"}},
			},
		},
		{
			in:  "[f\"svc-%{n}\" for n in @{names} if n != 'z']\nport = 80\nid = %{n}\n\n[after]\nk = @{svc-x.port}\n",
			out: "[svc-x]\nport = 80\nid = \"x\"\n\n[svc-y]\nport = 80\nid = \"y\"\n\n[after]\nk = 80\n",
			data: map[string]any{
				"svc-x": map[string]any{"port": int64(80), "id": "x"},
				"svc-y": map[string]any{"port": int64(80), "id": "y"},
				"after": map[string]any{"k": int64(80)},
			},
		},
		{
			in:   "a = 1\n[[f\"job-%{i}\" for i in []]]\nname = %{i}\n",
			out:  "a = 1\n",
			data: map[string]any{"a": int64(1)},
		},
		{
			in:   "[[f\"job-%{i}\" for i in ${jobs}]]\nname = %{i}\n",
			out:  "[[f\"job-%{i}\" for i in ${jobs}]]\nname = %{i}\n",
			data: map[string]any{},
		},
	}
	for _, tc := range tests {
		opt := WithGlobals(map[string]any{"names": []any{"x", "y", "z"}})
		d := resolved(t, tc.in, opt)
		if diff := cmp.Diff(tc.out, encode.String(d)); diff != "" {
			t.Errorf("%q:\n%s", tc.in, diff)
		}
		if diff := cmp.Diff(tc.data, d.Data()); diff != "" {
			t.Errorf("%q:\n%s", tc.in, diff)
		}
	}
}

func TestRenderComprehensionHeader(t *testing.T) {
	d := resolved(t, "[[f\"job-%{i}\" for i in ${jobs}]]\nname = %{i}\nenv = ${env}\n",
		WithContext(map[string]any{"jobs": []any{"a"}, "env": "prod"}))
	want := map[string]any{"job-a": []any{map[string]any{"name": "a", "env": "prod"}}}
	if diff := cmp.Diff(want, d.Data()); diff != "" {
		t.Error(diff)
	}
}

func TestDiagnostics(t *testing.T) {
	src := `a = %{missing}
b = <( 1 / 0 )>
c: int = "x"
d = <( nope(1) )>
e = [x for x in 3]
f = ${later}
`
	l := &diag.List{}
	d := resolved(t, src, WithDiagnostics(l))
	got := map[string]diag.Severity{}
	for _, dg := range l.Items {
		got[dg.Path] = dg.Severity
	}
	want := map[string]diag.Severity{
		"a": diag.Info,
		"b": diag.Error,
		"c": diag.Warning,
		"d": diag.Error,
		"e": diag.Error,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	for _, dg := range l.Items {
		switch dg.Path {
		case "c":
			if !errors.Is(dg.Err, ErrTypeMismatch) {
				t.Errorf("c: %v", dg.Err)
			}
		case "d":
			if !errors.Is(dg.Err, eval.ErrUnsupportedExpression) {
				t.Errorf("d: %v", dg.Err)
			}
		case "e":
			if !errors.Is(dg.Err, eval.ErrNotIterable) {
				t.Errorf("e: %v", dg.Err)
			}
		}
		if dg.Pos == nil {
			t.Errorf("%s: no position", dg.Path)
		}
	}
	if diff := cmp.Diff(src, encode.String(d)); diff != "" {
		t.Errorf("failed nodes changed:\n%s", diff)
	}
}
