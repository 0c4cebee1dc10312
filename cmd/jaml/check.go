package main

import (
	"errors"
	"fmt"

	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/libdiff"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/resolve"

	"github.com/scott-cotton/cli"
)

var errCheck = errors.New("check failed")

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check requires files", cli.ErrUsage)
	}
	ins, err := readInputs(cc.In, args)
	if err != nil {
		return err
	}
	fail := diag.Error
	if cfg.Warn {
		fail = diag.Warning
	}
	failed := 0
	for _, x := range ins {
		ok, err := checkInput(cfg, cc, x, fail)
		if err != nil {
			fmt.Fprintf(cc.Out, "%s: %v\n", x.name, err)
			ok = false
		}
		if !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errCheck, failed, len(ins))
	}
	return nil
}

func checkInput(cfg *CheckConfig, cc *cli.Context, x input, fail diag.Severity) (bool, error) {
	d, err := parse.Parse(x.src)
	if err != nil {
		return false, err
	}
	if got := encode.String(d); got != string(x.src) {
		fmt.Fprintf(cc.Out, "%s: does not round trip\n", x.name)
		cc.Out.Write([]byte(libdiff.Format(libdiff.Lines(string(x.src), got), 2, false)))
		return false, nil
	}
	l := &diag.List{}
	if err := resolve.Resolve(d, resolve.WithDiagnostics(l)); err != nil {
		return false, err
	}
	printDiags(cc.Out, x.name, l.Items)
	if cfg.Show {
		lines := libdiff.Lines(string(x.src), encode.String(d))
		if libdiff.Changed(lines) {
			fmt.Fprintf(cc.Out, "--- %s\n+++ %s (resolved)\n", x.name, x.name)
			cc.Out.Write([]byte(libdiff.Format(lines, 2, cfg.Color || isTerminal(cc.Out))))
		}
	}
	return len(l.AtLeast(fail)) == 0, nil
}
