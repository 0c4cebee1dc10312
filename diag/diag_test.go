package diag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jaml/token"
)

func TestList(t *testing.T) {
	boom := errors.New("boom")
	l := &List{}
	var seen []Severity
	s := Tee(l, SinkFunc(func(d Diagnostic) { seen = append(seen, d.Severity) }), Discard)
	s.Report(Diagnostic{Severity: Info, Path: "a", Msg: "unresolved"})
	s.Report(Diagnostic{Severity: Error, Path: "b", Err: boom})
	s.Report(Diagnostic{Severity: Warning, Msg: "type"})

	if diff := cmp.Diff([]Severity{Info, Error, Warning}, seen); diff != "" {
		t.Error(diff)
	}
	if got := len(l.AtLeast(Warning)); got != 2 {
		t.Errorf("got %d warnings or worse", got)
	}
	if !l.HasErrors() {
		t.Error("no errors")
	}
	if err := l.Err(); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
	if err := (&List{}).Err(); err != nil {
		t.Errorf("empty list gave %v", err)
	}
}

func TestString(t *testing.T) {
	pd := token.NewPosDoc([]byte("a = 1\nb = x\n"))
	d := Diagnostic{Severity: Error, Pos: pd.Pos(10), Path: "b", Msg: "bad", Err: errors.New("x")}
	if got, want := d.String(), "error line=2 col=5 b: bad: x"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
