package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Expr == "" {
		return fmt.Errorf("%w: query requires -e <expr>", cli.ErrUsage)
	}
	prg, err := expr.Compile(cfg.Expr, expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	datas, err := renderInputs(cc, cfg.Ctx, args)
	if err != nil {
		return err
	}
	for i, data := range datas {
		v, err := expr.Run(prg, data)
		if err != nil {
			return fmt.Errorf("error evaluating document %d: %w", i, err)
		}
		if err := writeValue(cfg.MainConfig, cc.Out, v); err != nil {
			return err
		}
	}
	return nil
}
