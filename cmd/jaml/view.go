package main

import (
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/parse"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachInput(cc.Out, cc.In, args, func(x input) error {
		d, err := parse.Parse(x.src)
		if err != nil {
			return err
		}
		return encode.Encode(d, cc.Out, cfg.encOpts(cc.Out)...)
	})
}
