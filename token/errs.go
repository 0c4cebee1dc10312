package token

import (
	"errors"
	"fmt"
)

// SyntaxKind classifies a failure to scan or parse.
type SyntaxKind int

const (
	UnexpectedToken SyntaxKind = iota
	UnexpectedCharacter
	UnexpectedEOF
)

var (
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")

	ErrUnterminated  = errors.New("unterminated")
	ErrBadEscape     = errors.New("bad escape")
	ErrBadUnicode    = errors.New("bad unicode")
	ErrIllegalIdent  = errors.New("illegal identifier")
	ErrDocBalance    = errors.New("imbalanced document")
	ErrScopedVarPath = errors.New("bad scoped variable path")
)

func (k SyntaxKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	}
	return fmt.Sprintf("SyntaxKind(%d)", int(k))
}

func (k SyntaxKind) sentinel() error {
	switch k {
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	case UnexpectedEOF:
		return ErrUnexpectedEOF
	default:
		return ErrUnexpectedToken
	}
}

// SyntaxError is returned by the scanner and the parser. It is never
// recovered from.
type SyntaxError struct {
	Kind SyntaxKind
	Pos  *Pos
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Pos != nil {
		msg += " " + e.Pos.String()
	}
	return msg
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func NewSyntaxErr(kind SyntaxKind, pos *Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// UnexpectedErr reports tok as unexpected, or the end of input when tok
// is nil.
func UnexpectedErr(tok *Token, end *Pos, what string) error {
	if tok == nil {
		return &SyntaxError{Kind: UnexpectedEOF, Pos: end, Msg: "expected " + what}
	}
	if what == "" {
		return &SyntaxError{Kind: UnexpectedToken, Pos: tok.Pos, Msg: fmt.Sprintf("%q", tok.Bytes)}
	}
	return &SyntaxError{Kind: UnexpectedToken, Pos: tok.Pos, Msg: fmt.Sprintf("%q, expected %s", tok.Bytes, what)}
}

func charErr(p *Pos, err error, format string, args ...any) error {
	return &SyntaxError{Kind: UnexpectedCharacter, Pos: p, Msg: fmt.Sprintf(format, args...), Err: err}
}

func eofErr(p *Pos, err error, format string, args ...any) error {
	return &SyntaxError{Kind: UnexpectedEOF, Pos: p, Msg: fmt.Sprintf(format, args...), Err: err}
}
