package format

import (
	"errors"
	"testing"
)

func TestCheckExtension(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"app.jml", true},
		{"dir/app.jaml", true},
		{"app.JAML", false},
		{"app.toml", false},
		{"app", false},
		{"app.jaml.bak", false},
		{".jml", true},
	}
	for _, tc := range tests {
		err := CheckExtension(tc.name)
		if tc.ok != (err == nil) {
			t.Errorf("%q: got %v", tc.name, err)
		}
		if err != nil && !errors.Is(err, ErrBadExtension) {
			t.Errorf("%q: %v does not wrap ErrBadExtension", tc.name, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats() {
		var g Format
		if err := g.UnmarshalText([]byte(f.String())); err != nil {
			t.Fatal(err)
		}
		if g != f {
			t.Errorf("%s: got %s", f, g)
		}
		h, err := FromPath("x" + f.Suffix())
		if err != nil || h != f {
			t.Errorf("%s: FromPath gave %s %v", f, h, err)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v", err)
	}
	if f, _ := FromPath("ctx.yml"); f != YAMLFormat {
		t.Errorf("got %s", f)
	}
}
