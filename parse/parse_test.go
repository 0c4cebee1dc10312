package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/token"
	"github.com/smartystreets/goconvey/convey"
)

// layout rebuilds text from origins and separators only.
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

var roundTrips = []string{
	``,
	"\n",
	`a = 1`,
	"a = 1\n",
	"a=1\n\n\nb   =   2   # two\n",
	"# leading\n\n[pkg]\nname = \"demo\"\nfull = <(%{name} + \"-1.0\")>\n",
	"  indented = true  \n",
	"[a.b.\"c d\"]\nx: int = 0x10\ny: = -3.5e2\n",
	"[[item]]\nn = 1\n\n[[item]]\nn = 2\n[[item]]\nn = 3\n",
	"xs = [1, 2,3 ,]\n",
	"xs = [\n  1, # one\n  # lone\n\n  2,\n  [3, 4],\n]\n",
	"t = { a = 1, b.c = \"x\" , d = { e = [] } }\n",
	"s = '''\nraw\n  text'''\nb = `tick`\nc = ```\nmore```\nd = \"\"\"x\"\"\"\n",
	"f = f\"hi ${who} and %{x}\"\n",
	"g = @{a.b}\nl = %{c}\nctx = ${d[0]}\n",
	"sq = [x * x for x in range(4) if x > 0]\n",
	"dc = {k: v for k, v in items(@{m})}\ntc = { k = v for k in ['a'] for v in [1] }\n",
	"[f\"svc-{%{n}}\" for n in [1, 2]]\nport = 80\n",
	"[[f\"job-${i}\" for i in ${jobs}]]\nname = %{i}\n",
	"flags = [true, false, null, inf, -inf, nan, +1]\n",
	"a = 1\r\nb = 2\r\n",
	"[a]\n[b]\n\n\n",
}

func TestRoundTrip(t *testing.T) {
	for _, in := range roundTrips {
		d, err := Parse([]byte(in))
		if err != nil {
			t.Errorf("parse %q: %v", in, err)
			continue
		}
		if got := layout(d, d.Root); got != in {
			t.Errorf("round trip:\n%s", cmp.Diff(in, got))
		}
		if d.Changed(d.Root) {
			t.Errorf("%q: fresh document reports a change", in)
		}
	}
}

func kinds(d *ir.Document, ids []ir.NodeID) []ir.Kind {
	res := make([]ir.Kind, len(ids))
	for i, id := range ids {
		res[i] = d.Node(id).Kind
	}
	return res
}

func TestStructure(t *testing.T) {
	convey.Convey("a document with sections", t, func() {
		src := "top = 1\n\n[pkg] # the package\nname = \"demo\"\n\n[[item]]\nv = [1, 2] # pair\n"
		d, err := Parse([]byte(src))
		convey.So(err, convey.ShouldBeNil)
		top := d.Kids(d.Root)
		convey.So(kinds(d, top), convey.ShouldResemble,
			[]ir.Kind{ir.AssignmentKind, ir.BlankKind, ir.SectionKind, ir.TableArrayKind})

		convey.Convey("sections own their header and lines", func() {
			pkg := d.Node(top[2])
			convey.So(pkg.Name, convey.ShouldEqual, "pkg")
			convey.So(kinds(d, pkg.Kids), convey.ShouldResemble,
				[]ir.Kind{ir.HeaderKind, ir.AssignmentKind, ir.BlankKind})
			convey.So(d.Node(pkg.Kids[0]).Origin, convey.ShouldEqual, "[pkg] # the package")
		})

		convey.Convey("assignments keep key and value", func() {
			a := d.Node(d.Kids(top[2])[1])
			convey.So(a.Path, convey.ShouldResemble, []string{"name"})
			convey.So(a.Seps, convey.ShouldResemble, []string{"name = ", ""})
			v := d.Node(a.Kids[0])
			convey.So(v.Kind, convey.ShouldEqual, ir.StringKind)
			convey.So(v.Value, convey.ShouldEqual, "demo")
			convey.So(v.Origin, convey.ShouldEqual, `"demo"`)
		})

		convey.Convey("arrays record inline comments", func() {
			a := d.Node(d.Kids(top[3])[1])
			convey.So(a.Seps[1], convey.ShouldEqual, " # pair")
			arr := d.Node(a.Kids[0])
			convey.So(arr.Kind, convey.ShouldEqual, ir.ArrayKind)
			convey.So(len(arr.Kids), convey.ShouldEqual, 2)
			convey.So(arr.Multiline, convey.ShouldBeFalse)
		})
	})

	convey.Convey("multi-line arrays", t, func() {
		d, err := Parse([]byte("xs = [\n  1, # one\n  2\n]"))
		convey.So(err, convey.ShouldBeNil)
		arr := d.Node(d.ValueOf(d.Kids(d.Root)[0]))
		convey.So(arr.Multiline, convey.ShouldBeTrue)
		convey.So(arr.Seps, convey.ShouldResemble, []string{"[\n  ", ", # one\n  ", "\n]"})
		convey.So(d.Node(arr.Kids[1]).Value, convey.ShouldEqual, int64(2))
	})

	convey.Convey("scoped variables", t, func() {
		d, err := Parse([]byte("a = ${ env.name }"))
		convey.So(err, convey.ShouldBeNil)
		v := d.Node(d.ValueOf(d.Kids(d.Root)[0]))
		convey.So(v.Kind, convey.ShouldEqual, ir.ScopedVarKind)
		convey.So(v.Ref, convey.ShouldEqual, "env.name")
		convey.So(v.Tier.Sigil(), convey.ShouldEqual, byte('$'))
	})

	convey.Convey("comprehension headers", t, func() {
		d, err := Parse([]byte("[[f\"job-{i}\" for i in [1, 2]]]\nn = 1\n"))
		convey.So(err, convey.ShouldBeNil)
		sec := d.Node(d.Kids(d.Root)[0])
		convey.So(sec.Kind, convey.ShouldEqual, ir.TableArrayKind)
		h := d.Node(sec.Kids[0])
		convey.So(h.IsComprehensionHeader(), convey.ShouldBeTrue)
		convey.So(len(h.Clauses), convey.ShouldEqual, 1)
		convey.So(h.Clauses[0].Targets[0].Name, convey.ShouldEqual, "i")
	})

	convey.Convey("dict and table comprehensions", t, func() {
		d, err := Parse([]byte("a = {k: 1 for k in ['x']}\nb = {k = 1 for k in ['x']}\n"))
		convey.So(err, convey.ShouldBeNil)
		ls := d.Kids(d.Root)
		convey.So(d.Node(d.ValueOf(ls[0])).Kind, convey.ShouldEqual, ir.DictCompKind)
		convey.So(d.Node(d.ValueOf(ls[1])).Kind, convey.ShouldEqual, ir.TableCompKind)
	})

	convey.Convey("unsupported expressions are kept for the resolver", t, func() {
		d, err := Parse([]byte("a = <( x.y[1:2] )>\n"))
		convey.So(err, convey.ShouldBeNil)
		v := d.Node(d.ValueOf(d.Kids(d.Root)[0]))
		convey.So(errors.Is(v.Err, eval.ErrUnsupportedExpression), convey.ShouldBeTrue)
	})
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind token.SyntaxKind
		err  error
	}{
		{in: "a = ", kind: token.UnexpectedEOF},
		{in: "a = \n", kind: token.UnexpectedToken},
		{in: "a = 1 2", kind: token.UnexpectedToken},
		{in: "a = ~", kind: token.UnexpectedCharacter},
		{in: "= 1", kind: token.UnexpectedToken},
		{in: "a = [1 2]", kind: token.UnexpectedToken},
		{in: "a = [1,, 2]", kind: token.UnexpectedToken},
		{in: "a = {b 1}", kind: token.UnexpectedToken},
		{in: "a = [1, 2", kind: token.UnexpectedEOF},
		{in: "a = \"open", kind: token.UnexpectedEOF},
		{in: "a = <( 1 2 )>", kind: token.UnexpectedToken},
		{in: "a = <( 1 + )>", kind: token.UnexpectedEOF},
		{in: "[]\n", kind: token.UnexpectedToken},
		{in: "[a]\nx = 1\n[a]\n", kind: token.UnexpectedToken, err: ErrDuplicateSection},
	}
	for _, tc := range tests {
		_, err := Parse([]byte(tc.in))
		var se *token.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: got %v, want a syntax error", tc.in, err)
			continue
		}
		if se.Kind != tc.kind {
			t.Errorf("%q: got kind %s, want %s (%v)", tc.in, se.Kind, tc.kind, err)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Errorf("%q: got %v, want %v", tc.in, err, tc.err)
		}
	}
}

func TestAllowDuplicateSections(t *testing.T) {
	_, err := Parse([]byte("[a]\n[a]\n"), AllowDuplicateSections())
	if err != nil {
		t.Fatal(err)
	}
}

func TestParseTreeLines(t *testing.T) {
	tree, err := ParseTree([]byte("# c\n\n[s]\nk = [\n 1,\n]  # x\n"))
	if err != nil {
		t.Fatal(err)
	}
	var got []LineKind
	for _, l := range tree.Lines {
		got = append(got, l.Kind)
	}
	want := []LineKind{CommentLine, BlankLine, HeaderLine, AssignLine}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
	last := tree.Lines[3]
	if s := string(tree.Source[last.Start:last.End]); s != "k = [\n 1,\n]  # x" {
		t.Errorf("got line %q", s)
	}
}
