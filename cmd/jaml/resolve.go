package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/resolve"

	"github.com/scott-cotton/cli"
)

func resolveCmd(cfg *ResolveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Resolve.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachInput(cc.Out, cc.In, args, func(x input) error {
		d, err := parse.Parse(x.src)
		if err != nil {
			return err
		}
		l := &diag.List{}
		if err := resolve.Resolve(d, resolve.WithDiagnostics(diag.Tee(l, diag.Logger()))); err != nil {
			return err
		}
		if cfg.Diags {
			printDiags(os.Stderr, x.name, l.Items)
		}
		return encode.Encode(d, cc.Out, cfg.encOpts(cc.Out)...)
	})
}

func printDiags(w io.Writer, name string, ds []diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintf(w, "%s: %s\n", name, d)
	}
}
