package main

import (
	"fmt"
	"os"

	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/dirbuild"
	"github.com/signadot/jaml/encode"

	"github.com/scott-cotton/cli"
)

func build(cfg *BuildConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Build.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.ShowEnv && cfg.List {
		return fmt.Errorf("%w: cannot use -s and -l together", cli.ErrUsage)
	}
	dirPath := "."
	if len(args) != 0 {
		dirPath = args[0]
	}
	ctx, err := cfg.Ctx.context()
	if err != nil {
		return err
	}
	dir, err := dirbuild.OpenDir(dirPath, ctx)
	if err != nil {
		return err
	}
	if cfg.ShowEnv {
		return encode.EncodeData(dir.Env, cc.Out, cfg.encOpts(cc.Out)...)
	}
	if cfg.List {
		files, err := dir.Files()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cc.Out, f)
		}
		return nil
	}
	l := &diag.List{}
	outs, err := dir.Build(diag.Tee(l, diag.Logger()))
	if err != nil {
		return err
	}
	printDiags(os.Stderr, dirPath, l.Items)
	if dir.DestDir == "" && cfg.Out != "" {
		for i, o := range outs {
			if _, err := cc.Out.Write(o.Data); err != nil {
				return err
			}
			if i < len(outs)-1 {
				cc.Out.Write([]byte("\n---\n"))
			}
		}
		return nil
	}
	if err := dirbuild.Write(outs); err != nil {
		return err
	}
	for _, o := range outs {
		fmt.Fprintf(cc.Out, "%s -> %s\n", o.Source, o.Dest)
	}
	return nil
}
