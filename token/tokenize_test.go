package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tt struct {
	Type TokenType
	Text string
}

func simplify(toks []Token) []tt {
	res := make([]tt, len(toks))
	for i := range toks {
		res[i] = tt{toks[i].Type, string(toks[i].Bytes)}
	}
	return res
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []tt
	}{
		{
			name: "assignment",
			in:   `name: str = "demo"  # c`,
			want: []tt{
				{TIdent, "name"}, {TColon, ":"}, {TIdent, "str"}, {TAssign, "="},
				{TString, `"demo"`}, {TComment, "# c"},
			},
		},
		{
			name: "numbers",
			in:   "0x1F 0o17 0b101 1_000 3.14 1e10 2.5E-3",
			want: []tt{
				{TInteger, "0x1F"}, {TInteger, "0o17"}, {TInteger, "0b101"},
				{TInteger, "1_000"}, {TFloat, "3.14"}, {TFloat, "1e10"}, {TFloat, "2.5E-3"},
			},
		},
		{
			name: "keywords",
			in:   "true false null inf nan for in if not and or is as else",
			want: []tt{
				{TBool, "true"}, {TBool, "false"}, {TNull, "null"}, {TFloat, "inf"}, {TFloat, "nan"},
				{TKeyword, "for"}, {TKeyword, "in"}, {TKeyword, "if"}, {TKeyword, "not"},
				{TKeyword, "and"}, {TKeyword, "or"}, {TKeyword, "is"}, {TKeyword, "as"}, {TKeyword, "else"},
			},
		},
		{
			name: "hyphenated identifier",
			in:   "my-key = x - 1",
			want: []tt{
				{TIdent, "my-key"}, {TAssign, "="}, {TIdent, "x"}, {TOp, "-"}, {TInteger, "1"},
			},
		},
		{
			name: "scoped markers",
			in:   "@{a.b} %{c} ${ d }",
			want: []tt{
				{TGlobalVar, "@{a.b}"}, {TLocalVar, "%{c}"}, {TContextVar, "${ d }"},
			},
		},
		{
			name: "fold",
			in:   `<( %{x} + "y" )>`,
			want: []tt{
				{TFoldOpen, "<("}, {TLocalVar, "%{x}"}, {TOp, "+"}, {TString, `"y"`}, {TFoldClose, ")>"},
			},
		},
		{
			name: "strings",
			in:   "'a' f\"b${x}\" `c` \"\"\"d\ne\"\"\" '''f'''",
			want: []tt{
				{TString, "'a'"}, {TFString, `f"b${x}"`}, {TBacktick, "`c`"},
				{TMString, "\"\"\"d\ne\"\"\""}, {TMString, "'''f'''"},
			},
		},
		{
			name: "operators",
			in:   "a ** b // c == d != e <= f >= g < h > i % j",
			want: []tt{
				{TIdent, "a"}, {TOp, "**"}, {TIdent, "b"}, {TOp, "//"}, {TIdent, "c"}, {TOp, "=="},
				{TIdent, "d"}, {TOp, "!="}, {TIdent, "e"}, {TOp, "<="}, {TIdent, "f"}, {TOp, ">="},
				{TIdent, "g"}, {TOp, "<"}, {TIdent, "h"}, {TOp, ">"}, {TIdent, "i"}, {TOp, "%"}, {TIdent, "j"},
			},
		},
		{
			name: "header and newlines",
			in:   "[[item]]\r\nx = 1\n",
			want: []tt{
				{TLSquare, "["}, {TLSquare, "["}, {TIdent, "item"}, {TRSquare, "]"}, {TRSquare, "]"},
				{TNewline, "\r\n"}, {TIdent, "x"}, {TAssign, "="}, {TInteger, "1"}, {TNewline, "\n"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := Tokenize([]byte(tc.in))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, simplify(toks)); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind SyntaxKind
		err  error
	}{
		{in: `x = "abc`, kind: UnexpectedEOF, err: ErrUnterminated},
		{in: "x = \"ab\nc\"", kind: UnexpectedCharacter, err: ErrUnterminated},
		{in: `x = """abc`, kind: UnexpectedEOF, err: ErrUnterminated},
		{in: "x = 12abc", kind: UnexpectedCharacter, err: ErrIllegalIdent},
		{in: "x = ?", kind: UnexpectedCharacter},
		{in: "x = ${a b}", kind: UnexpectedCharacter, err: ErrScopedVarPath},
	}
	for _, tc := range tests {
		_, err := Tokenize([]byte(tc.in))
		if err == nil {
			t.Errorf("%q: expected error", tc.in)
			continue
		}
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: got %T, want *SyntaxError", tc.in, err)
			continue
		}
		if se.Kind != tc.kind {
			t.Errorf("%q: got kind %s want %s", tc.in, se.Kind, tc.kind)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Errorf("%q: %v is not %v", tc.in, err, tc.err)
		}
	}
}

func TestPositions(t *testing.T) {
	toks, err := Tokenize([]byte("a = 1\n  b = 2"))
	if err != nil {
		t.Fatal(err)
	}
	b := toks[4]
	if b.Text() != "b" {
		t.Fatalf("got %s", b)
	}
	line, col := b.Pos.LineCol()
	if line != 1 || col != 2 {
		t.Errorf("got line %d col %d", line, col)
	}
	if off := b.Pos.D.Offset(line, col); off != b.Start() {
		t.Errorf("offset %d want %d", off, b.Start())
	}
}
