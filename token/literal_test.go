package token

import (
	"errors"
	"math"
	"testing"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		flavor Flavor
	}{
		{`"a\tb\n"`, "a\tb\n", DoubleQuoted},
		{`'a\tb'`, `a\tb`, SingleQuoted},
		{"`C:\\x`", `C:\x`, Backtick},
		{"\"\"\"\nline1\nline2\"\"\"", "line1\nline2", TripleDouble},
		{"'''\n\\n'''", `\n`, TripleSingle},
		{`"\u00e9\U0001F600"`, "é😀", DoubleQuoted},
		{`"\q"`, `\q`, DoubleQuoted},
		{`"\"quoted\" \\"`, `"quoted" \`, DoubleQuoted},
		{`""`, "", DoubleQuoted},
	}
	for _, tc := range tests {
		got, f, err := Unquote(tc.in)
		if err != nil {
			t.Errorf("%s: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %q want %q", tc.in, got, tc.want)
		}
		if f != tc.flavor {
			t.Errorf("%s: got flavor %s want %s", tc.in, f, tc.flavor)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	if _, _, err := Unquote(`"\u12"`); !errors.Is(err, ErrBadUnicode) {
		t.Errorf("got %v", err)
	}
	if _, _, err := Unquote(`abc`); !errors.Is(err, ErrUnterminated) {
		t.Errorf("got %v", err)
	}
}

func TestQuote(t *testing.T) {
	for _, s := range []string{"", "plain", "a\"b", "back\\slash", "nl\n\ttab\r", "ctl\x01", "é😀"} {
		q := Quote(s)
		got, f, err := Unquote(q)
		if err != nil {
			t.Errorf("%q: %v", q, err)
			continue
		}
		if f != DoubleQuoted || got != s {
			t.Errorf("%q: got %q (%s)", q, got, f)
		}
	}
	if q := Quote("a\"b\n"); q != `"a\"b\n"` {
		t.Errorf("got %s", q)
	}
}

func TestParseNumbers(t *testing.T) {
	ints := map[string]int64{
		"0x1F": 31, "0o17": 15, "0b101": 5, "1_000": 1000, "-42": -42, "+7": 7, "0": 0,
		"-9223372036854775808": -9223372036854775808,
	}
	for in, want := range ints {
		got, err := ParseInt(in)
		if err != nil || got != want {
			t.Errorf("%s: got %d, %v", in, got, err)
		}
	}
	if _, err := ParseInt("9223372036854775808"); !errors.Is(err, ErrNumber) {
		t.Errorf("overflow: %v", err)
	}
	floats := map[string]float64{"3.14": 3.14, "1e3": 1000, "-2.5E-1": -0.25, "1_0.5": 10.5}
	for in, want := range floats {
		got, err := ParseFloat(in)
		if err != nil || got != want {
			t.Errorf("%s: got %g, %v", in, got, err)
		}
	}
	if f, _ := ParseFloat("-inf"); !math.IsInf(f, -1) {
		t.Errorf("-inf: got %g", f)
	}
	if f, _ := ParseFloat("nan"); !math.IsNaN(f) {
		t.Errorf("nan: got %g", f)
	}
}
