package ir_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/parse"
	"github.com/smartystreets/goconvey/convey"
)

func layout(d *ir.Document, id ir.NodeID) string {
	n := d.Node(id)
	if !n.Kind.IsContainer() {
		return n.Origin
	}
	var b strings.Builder
	for i, k := range n.Kids {
		b.WriteString(n.Seps[i])
		b.WriteString(layout(d, k))
	}
	b.WriteString(n.Seps[len(n.Kids)])
	return b.String()
}

func mustParse(t *testing.T, src string) *ir.Document {
	t.Helper()
	d, err := parse.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestData(t *testing.T) {
	d := mustParse(t, `top = 1
v = ${later}
[a.b]
x = "s"
ys = [1, 2.5, true, null]
t = { k = 'v' }

[[item]]
n = 1
[[item]]
n = 2
[item.sub]
z = 0o17
`)
	want := map[string]any{
		"top": int64(1),
		"v":   "${later}",
		"a": map[string]any{"b": map[string]any{
			"x":  "s",
			"ys": []any{int64(1), 2.5, true, nil},
			"t":  map[string]any{"k": "v"},
		}},
		"item": []any{
			map[string]any{"n": int64(1)},
			map[string]any{"n": int64(2), "sub": map[string]any{"z": int64(15)}},
		},
	}
	if diff := cmp.Diff(want, d.Data()); diff != "" {
		t.Error(diff)
	}
}

func TestFromData(t *testing.T) {
	d := ir.FromData(map[string]any{
		"name": "demo",
		"n":    3,
		"pkg":  map[string]any{"deps": []any{"a", "b"}},
		"item": []any{map[string]any{"k": 1}, map[string]any{"k": 2}},
	})
	got := layout(d, d.Root)
	want := `n = 3
name = "demo"

[[item]]
k = 1

[[item]]
k = 2

[pkg]
deps = ["a", "b"]
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	back := mustParse(t, got)
	if diff := cmp.Diff(d.Data(), back.Data()); diff != "" {
		t.Error(diff)
	}
}

func TestSplice(t *testing.T) {
	convey.Convey("splicing the top level", t, func() {
		d := mustParse(t, "a = 1\nb = 2\nc = 3\n")
		convey.So(d.Changed(d.Root), convey.ShouldBeFalse)

		convey.Convey("replacing one child keeps the separators", func() {
			x := ir.NewAssignment(d, []string{"x"}, ir.FromValue(d, "y"))
			convey.So(d.Splice(d.Root, 1, 1, "\n", x), convey.ShouldBeNil)
			convey.So(layout(d, d.Root), convey.ShouldEqual, "a = 1\nx = \"y\"\nc = 3\n")
			convey.So(d.Changed(d.Root), convey.ShouldBeTrue)
		})
		convey.Convey("inserting several children uses sep between them", func() {
			x := ir.NewAssignment(d, []string{"x"}, ir.FromValue(d, 1))
			y := ir.NewAssignment(d, []string{"y"}, ir.FromValue(d, 2))
			convey.So(d.Splice(d.Root, 0, 1, "\n", x, y), convey.ShouldBeNil)
			convey.So(layout(d, d.Root), convey.ShouldEqual, "x = 1\ny = 2\nb = 2\nc = 3\n")
		})
		convey.Convey("deleting the tail keeps the final newline", func() {
			convey.So(d.Splice(d.Root, 2, 1, ""), convey.ShouldBeNil)
			convey.So(layout(d, d.Root), convey.ShouldEqual, "a = 1\nb = 2\n")
		})
		convey.Convey("deleting in the middle", func() {
			convey.So(d.Splice(d.Root, 1, 1, ""), convey.ShouldBeNil)
			convey.So(layout(d, d.Root), convey.ShouldEqual, "a = 1\nc = 3\n")
		})
		convey.Convey("bad ranges are rejected", func() {
			err := d.Splice(d.Root, 2, 2, "")
			convey.So(errors.Is(err, ir.ErrSpliceRange), convey.ShouldBeTrue)
			leaf := d.ValueOf(d.Kids(d.Root)[0])
			err = d.Splice(leaf, 0, 0, "")
			convey.So(errors.Is(err, ir.ErrNotContainer), convey.ShouldBeTrue)
		})
	})
}

func TestClone(t *testing.T) {
	d := mustParse(t, "[s]\nxs = [1, 2]\n")
	sec := d.Sections()[0]
	c := d.Clone(sec)
	if c == sec {
		t.Fatal("clone returned the original")
	}
	if got, want := layout(d, c), layout(d, sec); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	arr := d.ValueOf(d.Kids(c)[1])
	if err := d.Splice(arr, 0, 1, ""); err != nil {
		t.Fatal(err)
	}
	if d.Changed(sec) {
		t.Error("editing a clone changed the original")
	}
	if !d.Changed(c) {
		t.Error("edited clone is unchanged")
	}
}

func TestFromValue(t *testing.T) {
	d := ir.NewDocument(nil)
	tests := []struct {
		v    any
		kind ir.Kind
		text string
	}{
		{nil, ir.NullKind, "null"},
		{true, ir.BoolKind, "true"},
		{7, ir.IntegerKind, "7"},
		{1.5, ir.FloatKind, "1.5"},
		{2.0, ir.FloatKind, "2.0"},
		{"q\"", ir.StringKind, `"q\""`},
		{[]any{1, "a"}, ir.ArrayKind, `[1, "a"]`},
		{map[string]any{"b": 1, "a c": 2}, ir.InlineTableKind, `{ "a c" = 2, b = 1 }`},
		{ir.Template{Text: "x-${y}"}, ir.FStringKind, `f"x-${y}"`},
	}
	for _, tc := range tests {
		n := d.Node(ir.FromValue(d, tc.v))
		if n.Kind != tc.kind || !n.Done || !n.Synthetic {
			t.Errorf("%v: got %s done=%t", tc.v, n.Kind, n.Done)
		}
		if got := ir.ValueText(n.Resolved); got != tc.text {
			t.Errorf("%v: got %q want %q", tc.v, got, tc.text)
		}
	}
	e, err := eval.Parse(`"a-" + ${b}`)
	if err != nil {
		t.Fatal(err)
	}
	n := d.Node(ir.FromValue(d, ir.Deferred{Expr: e}))
	if n.Kind != ir.FoldedKind || n.Origin != `<( "a-" + ${b} )>` {
		t.Errorf("got %s %q", n.Kind, n.Origin)
	}
}

func TestCoerce(t *testing.T) {
	d := mustParse(t, "a = 0b101\nb = -inf\nc = '''\nx'''\nd = f\"v=${v}\"\n")
	var got []any
	for _, k := range d.Kids(d.Root) {
		v, err := ir.Coerce(d.Node(d.ValueOf(k)))
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	b := got[1].(float64)
	got[1] = b < 0 && b*2 == b
	want := []any{int64(5), true, "x", "v=${v}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}
