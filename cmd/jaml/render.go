package main

import (
	"os"

	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/render"
	"github.com/signadot/jaml/resolve"

	"github.com/scott-cotton/cli"
)

func renderCmd(cfg *RenderConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Render.Parse(cc, args)
	if err != nil {
		return err
	}
	ctx, err := cfg.Ctx.context()
	if err != nil {
		return err
	}
	return eachInput(cc.Out, cc.In, args, func(x input) error {
		l := &diag.List{}
		data, err := render.Render(x.src, ctx, resolve.WithDiagnostics(l))
		if err != nil {
			return err
		}
		if cfg.Diags {
			printDiags(os.Stderr, x.name, l.Items)
		}
		return encode.EncodeData(data, cc.Out, cfg.encOpts(cc.Out)...)
	})
}

// renderInputs renders every input with the context of cfg.
func renderInputs(cc *cli.Context, ccfg *ContextConfig, files []string) ([]map[string]any, error) {
	ctx, err := ccfg.context()
	if err != nil {
		return nil, err
	}
	ins, err := readInputs(cc.In, files)
	if err != nil {
		return nil, err
	}
	res := make([]map[string]any, len(ins))
	for i, x := range ins {
		res[i], err = render.Render(x.src, ctx)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
