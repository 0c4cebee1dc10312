// Package diag collects the problems found while resolving and
// rendering documents. Evaluation failures are reported here instead of
// aborting the call.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/token"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

type Diagnostic struct {
	Severity Severity
	// Pos is nil for nodes created during evaluation.
	Pos *token.Pos
	// Path is the dotted key of the assignment or section concerned.
	Path string
	Msg  string
	Err  error
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	if d.Pos != nil {
		line, col := d.Pos.LineCol()
		fmt.Fprintf(&b, " line=%d col=%d", line+1, col+1)
	}
	if d.Path != "" {
		b.WriteString(" ")
		b.WriteString(d.Path)
	}
	b.WriteString(": ")
	b.WriteString(d.Msg)
	if d.Err != nil {
		if d.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(d.Err.Error())
	}
	return b.String()
}

func (d Diagnostic) Error() string { return d.String() }

func (d Diagnostic) Unwrap() error { return d.Err }

// Sink receives diagnostics.
type Sink interface {
	Report(Diagnostic)
}

type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops everything.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// List records diagnostics in order.
type List struct {
	Items []Diagnostic
}

func (l *List) Report(d Diagnostic) {
	l.Items = append(l.Items, d)
}

// AtLeast returns the diagnostics of severity s or higher.
func (l *List) AtLeast(s Severity) []Diagnostic {
	var res []Diagnostic
	for _, d := range l.Items {
		if d.Severity >= s {
			res = append(res, d)
		}
	}
	return res
}

func (l *List) HasErrors() bool {
	return len(l.AtLeast(Error)) != 0
}

// Err joins the error diagnostics, or returns nil when there are none.
func (l *List) Err() error {
	var errs []error
	for _, d := range l.AtLeast(Error) {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// Tee reports to every sink in turn.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			s.Report(d)
		}
	})
}

// Logger returns a sink writing to the debug log when JAML_DEBUG_DIAG
// is set.
func Logger() Sink {
	return SinkFunc(func(d Diagnostic) {
		if debug.Diag() {
			debug.Logf("diag %s\n", d)
		}
	})
}
