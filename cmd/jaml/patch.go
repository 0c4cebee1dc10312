package main

import (
	"fmt"
	"os"

	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/mergeop"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	p, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	datas, err := renderInputs(cc, cfg.Ctx, args[1:])
	if err != nil {
		return err
	}
	for i, data := range datas {
		if cfg.Merge {
			data, err = mergeop.Merge(data, p)
		} else {
			data, err = mergeop.Apply(data, p)
		}
		if err != nil {
			return fmt.Errorf("error patching document %d: %w", i, err)
		}
		if err := encode.EncodeData(data, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
		if i < len(datas)-1 {
			cc.Out.Write([]byte("\n---\n"))
		}
	}
	return nil
}
