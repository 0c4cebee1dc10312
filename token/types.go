package token

import "fmt"

type TokenType int

const (
	TNewline TokenType = iota
	TComment
	TInteger
	TFloat
	TBool
	TNull
	TString
	TMString
	TBacktick
	TFString
	TGlobalVar
	TLocalVar
	TContextVar
	TFoldOpen
	TFoldClose
	TIdent
	TKeyword
	TOp
	TAssign
	TColon
	TComma
	TDot
	TLSquare
	TRSquare
	TLCurl
	TRCurl
	TLParen
	TRParen
)

var typeNames = map[TokenType]string{
	TNewline:    "TNewline",
	TComment:    "TComment",
	TInteger:    "TInteger",
	TFloat:      "TFloat",
	TBool:       "TBool",
	TNull:       "TNull",
	TString:     "TString",
	TMString:    "TMString",
	TBacktick:   "TBacktick",
	TFString:    "TFString",
	TGlobalVar:  "TGlobalVar",
	TLocalVar:   "TLocalVar",
	TContextVar: "TContextVar",
	TFoldOpen:   "TFoldOpen",
	TFoldClose:  "TFoldClose",
	TIdent:      "TIdent",
	TKeyword:    "TKeyword",
	TOp:         "TOp",
	TAssign:     "TAssign",
	TColon:      "TColon",
	TComma:      "TComma",
	TDot:        "TDot",
	TLSquare:    "TLSquare",
	TRSquare:    "TRSquare",
	TLCurl:      "TLCurl",
	TRCurl:      "TRCurl",
	TLParen:     "TLParen",
	TRParen:     "TRParen",
}

func (t TokenType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsOpen reports whether t opens a bracketed span.
func (t TokenType) IsOpen() bool {
	switch t {
	case TLSquare, TLCurl, TLParen, TFoldOpen:
		return true
	}
	return false
}

func (t TokenType) IsClose() bool {
	switch t {
	case TRSquare, TRCurl, TRParen, TFoldClose:
		return true
	}
	return false
}

func (t TokenType) IsString() bool {
	switch t {
	case TString, TMString, TBacktick, TFString:
		return true
	}
	return false
}

func (t TokenType) IsScoped() bool {
	switch t {
	case TGlobalVar, TLocalVar, TContextVar:
		return true
	}
	return false
}

func closerOf(t TokenType) TokenType {
	switch t {
	case TLSquare:
		return TRSquare
	case TLCurl:
		return TRCurl
	case TLParen:
		return TRParen
	case TFoldOpen:
		return TFoldClose
	}
	return -1
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
	// Pair is the index of the matching bracket token once the
	// sequence has been balanced, -1 otherwise.
	Pair int
}

func (t *Token) Start() int { return t.Pos.I }

func (t *Token) End() int { return t.Pos.I + len(t.Bytes) }

func (t *Token) Text() string { return string(t.Bytes) }

// Is reports whether the token has type typ and, when text is not empty,
// exactly that text.
func (t *Token) Is(typ TokenType, text string) bool {
	if t.Type != typ {
		return false
	}
	return text == "" || string(t.Bytes) == text
}

// Adjacent reports whether u starts exactly where t ends.
func (t *Token) Adjacent(u *Token) bool {
	return t.End() == u.Start()
}

func (t Token) String() string {
	return fmt.Sprintf("%s `%s` %s", t.Type, t.Bytes, t.Pos)
}

// Flavor distinguishes the string literal forms.
type Flavor int

const (
	NoFlavor Flavor = iota
	DoubleQuoted
	SingleQuoted
	TripleDouble
	TripleSingle
	Backtick
	TripleBacktick
)

func (f Flavor) String() string {
	switch f {
	case DoubleQuoted:
		return "double"
	case SingleQuoted:
		return "single"
	case TripleDouble:
		return "triple-double"
	case TripleSingle:
		return "triple-single"
	case Backtick:
		return "backtick"
	case TripleBacktick:
		return "triple-backtick"
	}
	return "none"
}

// Escapes reports whether backslash escapes are decoded for the flavor.
func (f Flavor) Escapes() bool {
	return f == DoubleQuoted || f == TripleDouble
}

func (f Flavor) delim() string {
	switch f {
	case DoubleQuoted:
		return `"`
	case SingleQuoted:
		return `'`
	case TripleDouble:
		return `"""`
	case TripleSingle:
		return `'''`
	case Backtick:
		return "`"
	case TripleBacktick:
		return "```"
	}
	return ""
}
