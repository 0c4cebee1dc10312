package main

import (
	"github.com/signadot/jaml"
	"github.com/signadot/jaml/encode"

	"github.com/scott-cotton/cli"
)

func load(cfg *LoadConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Load.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachInput(cc.Out, cc.In, args, func(x input) error {
		data, err := jaml.Loads(x.src)
		if err != nil {
			return err
		}
		return encode.EncodeData(data, cc.Out, cfg.encOpts(cc.Out)...)
	})
}
