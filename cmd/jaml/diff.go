package main

import (
	"fmt"

	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/libdiff"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/render"
	"github.com/signadot/jaml/resolve"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	ins, err := readInputs(cc.In, args)
	if err != nil {
		return err
	}
	if cfg.Data {
		return diffData(cfg, cc, ins[0], ins[1])
	}
	texts := make([]string, 2)
	for i, x := range ins {
		texts[i] = string(x.src)
		if !cfg.Resolved {
			continue
		}
		d, err := parse.Parse(x.src)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", x.name, err)
		}
		if err := resolve.Resolve(d); err != nil {
			return fmt.Errorf("error resolving %s: %w", x.name, err)
		}
		texts[i] = encode.String(d)
	}
	lines := libdiff.Lines(texts[0], texts[1])
	if !libdiff.Changed(lines) {
		return nil
	}
	fmt.Fprintf(cc.Out, "--- %s\n+++ %s\n", ins[0].name, ins[1].name)
	if _, err := cc.Out.Write([]byte(libdiff.Format(lines, cfg.Context, cfg.Color || isTerminal(cc.Out)))); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func diffData(cfg *DiffConfig, cc *cli.Context, a, b input) error {
	da, err := render.Render(a.src, nil)
	if err != nil {
		return fmt.Errorf("error rendering %s: %w", a.name, err)
	}
	db, err := render.Render(b.src, nil)
	if err != nil {
		return fmt.Errorf("error rendering %s: %w", b.name, err)
	}
	p, err := libdiff.Data(da, db)
	if err != nil {
		return err
	}
	if _, err := cc.Out.Write(append(p, '\n')); err != nil {
		return err
	}
	if string(p) != "{}" {
		return cli.ExitCodeErr(1)
	}
	return nil
}
