package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/scope"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a dotted path", cli.ErrUsage)
	}
	path := args[0]
	if len(scope.SplitPath(path)) == 0 {
		return fmt.Errorf("%w: invalid path %q", cli.ErrUsage, path)
	}
	datas, err := renderInputs(cc, cfg.Ctx, args[1:])
	if err != nil {
		return err
	}
	for i, data := range datas {
		v, ok := scope.Get(data, path)
		if !ok {
			return fmt.Errorf("%s not found in document %d", path, i)
		}
		if err := writeValue(cfg.MainConfig, cc.Out, v); err != nil {
			return err
		}
	}
	return nil
}

// writeValue writes a single value in the output format.
func writeValue(cfg *MainConfig, w io.Writer, v any) error {
	if m, ok := v.(map[string]any); ok {
		return encode.EncodeData(m, w, cfg.encOpts(w)...)
	}
	var d []byte
	var err error
	switch cfg.format() {
	case format.JSONFormat:
		d, err = json.Marshal(v)
		d = append(d, '\n')
	case format.YAMLFormat:
		d, err = yaml.Marshal(v)
	default:
		d = []byte(ir.ValueText(v) + "\n")
	}
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
