package token

import (
	"bytes"
	"regexp"
	"unicode/utf8"

	"github.com/signadot/jaml/debug"
)

// scanFunc returns the type and length of the token at d[i:], or a
// length of 0 when the rule does not apply.
type scanFunc func(pd *PosDoc, d []byte, i int) (TokenType, int, error)

type rule struct {
	name string
	scan scanFunc
	drop bool
}

// rules are tried in order, the first match wins.
var rules = []rule{
	{name: "newline", scan: reRule(TNewline, `^\r?\n`)},
	{name: "space", scan: reRule(TComment, `^[ \t\f\r]+`), drop: true},
	{name: "comment", scan: reRule(TComment, `^#[^\r\n]*`)},
	{name: "triple-string", scan: scanTriple},
	{name: "fstring", scan: scanFString},
	{name: "string", scan: scanString},
	{name: "scoped", scan: scanScoped},
	{name: "fold", scan: scanFold},
	{name: "number", scan: scanNumber},
	{name: "word", scan: scanWord},
	{name: "punct", scan: scanPunct},
}

func reRule(typ TokenType, pattern string) scanFunc {
	re := regexp.MustCompile(pattern)
	return func(_ *PosDoc, d []byte, i int) (TokenType, int, error) {
		loc := re.FindIndex(d[i:])
		if loc == nil {
			return typ, 0, nil
		}
		return typ, loc[1], nil
	}
}

// Tokenize scans d into tokens. Bracket pairs are not checked, see
// [Balance].
func Tokenize(d []byte) ([]Token, error) {
	pd := NewPosDoc(d)
	res := make([]Token, 0, len(d)/3)
	i := 0
outer:
	for i < len(d) {
		for ri := range rules {
			r := &rules[ri]
			typ, n, err := r.scan(pd, d, i)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				continue
			}
			if !r.drop {
				res = append(res, Token{Type: typ, Pos: pd.Pos(i), Bytes: d[i : i+n], Pair: -1})
			}
			i += n
			continue outer
		}
		r, _ := utf8.DecodeRune(d[i:])
		return nil, charErr(pd.Pos(i), nil, "%q", r)
	}
	if debug.Scan() {
		PrintTokens(res, "scanned")
	}
	return res, nil
}

var tripleDelims = []string{`"""`, `'''`, "```"}

func scanTriple(pd *PosDoc, d []byte, i int) (TokenType, int, error) {
	for _, delim := range tripleDelims {
		if !bytes.HasPrefix(d[i:], []byte(delim)) {
			continue
		}
		n, err := scanQuoted(pd, d, i, delim, delim == `"""`, true)
		if err != nil {
			return 0, 0, err
		}
		if delim == "```" {
			return TBacktick, n, nil
		}
		return TMString, n, nil
	}
	return 0, 0, nil
}

func scanFString(pd *PosDoc, d []byte, i int) (TokenType, int, error) {
	if d[i] != 'f' || i+1 >= len(d) {
		return 0, 0, nil
	}
	if i > 0 && isWordByte(d[i-1]) {
		return 0, 0, nil
	}
	for _, delim := range []string{`"""`, `'''`, `"`, `'`} {
		if !bytes.HasPrefix(d[i+1:], []byte(delim)) {
			continue
		}
		n, err := scanQuoted(pd, d, i+1, delim, delim[0] == '"', len(delim) == 3)
		if err != nil {
			return 0, 0, err
		}
		return TFString, n + 1, nil
	}
	return 0, 0, nil
}

func scanString(pd *PosDoc, d []byte, i int) (TokenType, int, error) {
	switch d[i] {
	case '"':
		n, err := scanQuoted(pd, d, i, `"`, true, false)
		return TString, n, err
	case '\'':
		n, err := scanQuoted(pd, d, i, `'`, false, false)
		return TString, n, err
	case '`':
		n, err := scanQuoted(pd, d, i, "`", false, true)
		return TBacktick, n, err
	}
	return 0, 0, nil
}

// scanQuoted returns the length of the quoted literal at d[i:], including
// both delimiters.
func scanQuoted(pd *PosDoc, d []byte, i int, delim string, escapes, multiline bool) (int, error) {
	j := i + len(delim)
	for j < len(d) {
		c := d[j]
		switch {
		case escapes && c == '\\':
			if j+1 >= len(d) {
				return 0, eofErr(pd.end(), ErrUnterminated, "string starting %s", pd.Pos(i))
			}
			j += 2
			continue
		case c == '\n' && !multiline:
			return 0, charErr(pd.Pos(j), ErrUnterminated, "newline in string starting at offset %d", i)
		case bytes.HasPrefix(d[j:], []byte(delim)):
			return j + len(delim) - i, nil
		}
		j++
	}
	return 0, eofErr(pd.end(), ErrUnterminated, "string starting %s", pd.Pos(i))
}

var scopedPathRe = regexp.MustCompile(`^[ \t]*[A-Za-z_][A-Za-z0-9_\-]*(\.[A-Za-z0-9_\-]+|\[[0-9]+\])*[ \t]*$`)

func scanScoped(pd *PosDoc, d []byte, i int) (TokenType, int, error) {
	if i+1 >= len(d) || d[i+1] != '{' {
		return 0, 0, nil
	}
	var typ TokenType
	switch d[i] {
	case '@':
		typ = TGlobalVar
	case '%':
		typ = TLocalVar
	case '$':
		typ = TContextVar
	default:
		return 0, 0, nil
	}
	end := bytes.IndexAny(d[i+2:], "}\n")
	if end == -1 {
		return 0, 0, eofErr(pd.end(), ErrUnterminated, "scoped variable at offset %d", i)
	}
	if d[i+2+end] != '}' {
		return 0, 0, charErr(pd.Pos(i+2+end), ErrUnterminated, "scoped variable at offset %d", i)
	}
	if !scopedPathRe.Match(d[i+2 : i+2+end]) {
		return 0, 0, charErr(pd.Pos(i), ErrScopedVarPath, "%q", d[i:i+3+end])
	}
	return typ, end + 3, nil
}

func scanFold(_ *PosDoc, d []byte, i int) (TokenType, int, error) {
	switch {
	case bytes.HasPrefix(d[i:], []byte("<(")):
		return TFoldOpen, 2, nil
	case bytes.HasPrefix(d[i:], []byte(")>")):
		return TFoldClose, 2, nil
	}
	return 0, 0, nil
}

var numberRe = regexp.MustCompile(`^(?:0[xX][0-9a-fA-F](?:_?[0-9a-fA-F])*|0[oO][0-7](?:_?[0-7])*|0[bB][01](?:_?[01])*|[0-9](?:_?[0-9])*(?:\.[0-9](?:_?[0-9])*)?(?:[eE][+-]?[0-9]+)?)`)

func scanNumber(pd *PosDoc, d []byte, i int) (TokenType, int, error) {
	if d[i] < '0' || d[i] > '9' {
		return 0, 0, nil
	}
	loc := numberRe.FindIndex(d[i:])
	if loc == nil {
		return 0, 0, nil
	}
	n := loc[1]
	if i+n < len(d) && isWordByte(d[i+n]) {
		j := i + n
		for j < len(d) && isWordByte(d[j]) {
			j++
		}
		return 0, 0, charErr(pd.Pos(i), ErrIllegalIdent, "%q", d[i:j])
	}
	lit := d[i : i+n]
	if len(lit) > 1 && lit[0] == '0' && bytes.ContainsAny(lit[1:2], "xXoObB") {
		return TInteger, n, nil
	}
	if bytes.ContainsAny(lit, ".eE") {
		return TFloat, n, nil
	}
	return TInteger, n, nil
}

var wordRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(?:-[A-Za-z_][A-Za-z0-9_]*)*`)

var keywords = map[string]TokenType{
	"true":  TBool,
	"false": TBool,
	"null":  TNull,
	"inf":   TFloat,
	"nan":   TFloat,
	"for":   TKeyword,
	"in":    TKeyword,
	"if":    TKeyword,
	"else":  TKeyword,
	"as":    TKeyword,
	"and":   TKeyword,
	"or":    TKeyword,
	"not":   TKeyword,
	"is":    TKeyword,
}

func scanWord(_ *PosDoc, d []byte, i int) (TokenType, int, error) {
	loc := wordRe.FindIndex(d[i:])
	if loc == nil {
		return 0, 0, nil
	}
	if typ, ok := keywords[string(d[i:i+loc[1]])]; ok {
		return typ, loc[1], nil
	}
	return TIdent, loc[1], nil
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

var (
	ops2   = []string{"**", "//", "==", "!=", "<=", ">="}
	puncts = map[byte]TokenType{
		'<': TOp,
		'>': TOp,
		'+': TOp,
		'-': TOp,
		'*': TOp,
		'/': TOp,
		'%': TOp,
		'=': TAssign,
		':': TColon,
		',': TComma,
		'.': TDot,
		'[': TLSquare,
		']': TRSquare,
		'{': TLCurl,
		'}': TRCurl,
		'(': TLParen,
		')': TRParen,
	}
)

func scanPunct(_ *PosDoc, d []byte, i int) (TokenType, int, error) {
	for _, op := range ops2 {
		if bytes.HasPrefix(d[i:], []byte(op)) {
			return TOp, 2, nil
		}
	}
	if typ, ok := puncts[d[i]]; ok {
		return typ, 1, nil
	}
	return 0, 0, nil
}
