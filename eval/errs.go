package eval

import (
	"errors"
	"fmt"
)

// ValueErrorKind classifies a failure to evaluate an expression.
type ValueErrorKind int

const (
	NotIterable ValueErrorKind = iota
	UnsupportedExpression
	InvalidLiteral
)

func (k ValueErrorKind) String() string {
	switch k {
	case NotIterable:
		return "NotIterable"
	case UnsupportedExpression:
		return "UnsupportedExpression"
	case InvalidLiteral:
		return "InvalidLiteral"
	}
	return fmt.Sprintf("ValueErrorKind(%d)", int(k))
}

var (
	ErrNotIterable           = errors.New("not iterable")
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrInvalidLiteral        = errors.New("invalid literal")

	// ErrDeferred is returned when an expression references the context
	// tier while it is unavailable.
	ErrDeferred = errors.New("deferred to render")
	// ErrUnresolved is returned when a scoped variable is not found in
	// any tier searched.
	ErrUnresolved = errors.New("unresolved")

	ErrFuncExists = errors.New("function exists")

	// ErrOverflow is wrapped by the UnsupportedExpression errors of
	// integer results outside int64 and of repetitions longer than
	// MaxLen.
	ErrOverflow = errors.New("overflow")
)

// MaxLen bounds the length of sequences built by evaluation.
const MaxLen = 1 << 20

func overflow(format string, args ...any) error {
	return &ValueError{Kind: UnsupportedExpression, Msg: fmt.Sprintf(format, args...), Err: ErrOverflow}
}

func (k ValueErrorKind) sentinel() error {
	switch k {
	case NotIterable:
		return ErrNotIterable
	case InvalidLiteral:
		return ErrInvalidLiteral
	}
	return ErrUnsupportedExpression
}

type ValueError struct {
	Kind ValueErrorKind
	Msg  string
	Err  error
}

func (e *ValueError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValueError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func unsupported(format string, args ...any) error {
	return &ValueError{Kind: UnsupportedExpression, Msg: fmt.Sprintf(format, args...)}
}

func notIterable(v any) error {
	return &ValueError{Kind: NotIterable, Msg: fmt.Sprintf("%s value %s", TypeName(v), LiteralText(v))}
}

func invalidLiteral(text string, err error) error {
	return &ValueError{Kind: InvalidLiteral, Msg: fmt.Sprintf("%q", text), Err: err}
}

// IsPending reports whether err only means the expression cannot be
// evaluated yet, either because it references the context tier or
// because a scoped variable is missing.
func IsPending(err error) bool {
	return errors.Is(err, ErrDeferred) || errors.Is(err, ErrUnresolved)
}
