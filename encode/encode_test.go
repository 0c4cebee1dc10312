package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/resolve"
)

type encodeTest struct {
	in  string
	out string
}

func TestEncodeUnchanged(t *testing.T) {
	ins := []string{
		"",
		"a = 1\n",
		"# c\n\n[pkg]   # pkg\nname = \"demo\"\nxs = [\n  1, # one\n\n  2,\n]\n",
		"[[item]]\nn = 1\n[[item]]\nn = 2\n[[item]]\nn = 3",
		"v = <( ${a} + 1 )>\nw = { x = [1, { y = 2 }] }\n",
	}
	for _, in := range ins {
		d, err := parse.Parse([]byte(in))
		if err != nil {
			t.Fatal(err)
		}
		if got := String(d); got != in {
			t.Errorf("%s", cmp.Diff(in, got))
		}
	}
}

func TestEncodeResolved(t *testing.T) {
	tests := []encodeTest{
		{
			in:  "[pkg]\nname = \"demo\"\nfull = <(%{name} + \"-1.0\")>\n",
			out: "[pkg]\nname = \"demo\"\nfull = \"demo-1.0\"\n",
		},
		{
			in:  "n = 0x1F\nm = <( @{n} * 2 )>  # doubled\n",
			out: "n = 0x1F\nm = 62  # doubled\n",
		},
		{
			in:  "a = 1\nys = [ %{a},2 ]\n",
			out: "a = 1\nys = [1, 2]\n",
		},
		{
			in:  "a = 1\nxs = [\n    %{a}, # first\n\n    2,\n]\n",
			out: "a = 1\nxs = [\n    1, # first\n    2,\n]\n",
		},
		{
			in:  "a = 1\nt = {\n  xs = [\n    %{a},\n  ],\n}\n",
			out: "a = 1\nt = {\n  xs = [\n    1,\n  ],\n}\n",
		},
		{
			in:  "xs = [1, 2]\nys = [\n  @{xs},\n  # own line\n  3, # three\n\n]\n",
			out: "xs = [1, 2]\nys = [\n  [1, 2],\n  # own line\n  3, # three\n]\n",
		},
		{
			in:  "a = 1\nzs = [ # open\n  %{a}\n  # closing\n]\n",
			out: "a = 1\nzs = [ # open\n  1\n  # closing\n]\n",
		},
		{
			in:  "[app]\nname = \"demo\"\nurl = <(%{name} + \"-\" + ${env})>\ngreet = f\"hi %{name} in ${env}\"\n",
			out: "[app]\nname = \"demo\"\nurl = <( \"demo-\" + ${env} )>\ngreet = f\"hi demo in ${env}\"\n",
		},
		{
			in:  "x = ${env}\ny = <( ${env} + 1 )>\n",
			out: "x = ${env}\ny = <( ${env} + 1 )>\n",
		},
		{
			in:  "sq = [x * x for x in range(4) if x > 0]\nm = {k: len(k) for k in ['ab', 'c']}\n",
			out: "sq = [1, 4, 9]\nm = { ab = 2, c = 1 }\n",
		},
		{
			in:  "m = {k: i for i, k in enumerate(['b', 'c', 'a'])}\n",
			out: "m = { a = 2, b = 0, c = 1 }\n",
		},
	}
	for _, tc := range tests {
		d, err := parse.Parse([]byte(tc.in))
		if err != nil {
			t.Fatal(err)
		}
		if err := resolve.Resolve(d); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.out, String(d)); diff != "" {
			t.Errorf("%q:\n%s", tc.in, diff)
		}
	}
}

func TestEncodeColors(t *testing.T) {
	in := "# c\n[s] # s\nk = \"v\" # v\nn = [1, 2]\n"
	d, err := parse.Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	saved := color.NoColor
	defer func() { color.NoColor = saved }()

	color.NoColor = true
	buf := bytes.NewBuffer(nil)
	if err := Encode(d, buf, EncodeColors(NewColors())); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, buf.String()); diff != "" {
		t.Error(diff)
	}

	color.NoColor = false
	buf.Reset()
	if err := Encode(d, buf, EncodeColors(NewColors())); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("no escapes in %q", buf.String())
	}
}

func TestEncodeData(t *testing.T) {
	data := map[string]any{
		"name": "demo",
		"n":    2,
		"pkg":  map[string]any{"deps": []any{"a"}},
	}
	tests := []struct {
		f        format.Format
		contains []string
	}{
		{format.JAMLFormat, []string{"n = 2\nname = \"demo\"\n\n[pkg]\ndeps = [\"a\"]\n"}},
		{format.JSONFormat, []string{"{\n  \"n\": 2,\n  \"name\": \"demo\",\n  \"pkg\": {\n    \"deps\": [\n      \"a\"\n    ]\n  }\n}\n"}},
		{format.YAMLFormat, []string{"name: demo\n", "n: 2\n", "pkg:\n", "- a\n"}},
		{format.HCLFormat, []string{"name", `"demo"`, "pkg {", `deps = ["a"]`}},
	}
	for _, tc := range tests {
		buf := bytes.NewBuffer(nil)
		if err := EncodeData(data, buf, EncodeFormat(tc.f)); err != nil {
			t.Errorf("%s: %v", tc.f, err)
			continue
		}
		for _, c := range tc.contains {
			if !strings.Contains(buf.String(), c) {
				t.Errorf("%s: %q not in\n%s", tc.f, c, buf.String())
			}
		}
	}
}

func TestEncodeDataErrors(t *testing.T) {
	nan := map[string]any{"x": []any{1, map[string]any{"y": 0.0}}}
	nan["x"].([]any)[1].(map[string]any)["y"] = zero() / zero()
	for _, f := range []format.Format{format.JSONFormat, format.HCLFormat} {
		if err := EncodeData(nan, &bytes.Buffer{}, EncodeFormat(f)); err == nil {
			t.Errorf("%s: encoded nan", f)
		}
	}
}

func zero() float64 { return 0 }
