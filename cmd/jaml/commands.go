package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "data output format: jaml, yaml, json, hcl",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "jaml").
		WithSynopsis("jaml [opts] command [opts]").
		WithDescription("jaml is a tool for working with JAML configuration files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return jamlMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			ResolveCommand(cfg),
			RenderCommand(cfg),
			LoadCommand(cfg),
			GetCommand(cfg),
			DiffCommand(cfg),
			CheckCommand(cfg),
			QueryCommand(cfg),
			PatchCommand(cfg),
			BuildCommand(cfg))
}

// ctxOpts are the options of commands which take a render context.
func ctxOpts(cfg *ContextConfig) []*cli.Opt {
	return []*cli.Opt{
		&cli.Opt{
			Name:        "c",
			Description: "set a context value, parsed as yaml",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.setFunc), "(path=val)"),
		},
		&cli.Opt{
			Name:        "f",
			Description: "layer a yaml or json context file",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.fileFunc), "(filepath)"),
		},
	}
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [files]").
		WithDescription("view jaml files in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
	cfg.View = cmd
	return cmd
}

func ResolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResolveConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("resolve").
		WithAliases("r", "res").
		WithOpts(opts...).
		WithSynopsis("resolve [-d] [files]").
		WithDescription("compute static values, keeping layout and context references").
		WithRun(func(cc *cli.Context, args []string) error {
			return resolveCmd(cfg, cc, args)
		})
	cfg.Resolve = cmd
	return cmd
}

func RenderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenderConfig{MainConfig: mainCfg, Ctx: &ContextConfig{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, ctxOpts(cfg.Ctx)...)
	cmd := cli.NewCommand("render").
		WithAliases("re").
		WithOpts(opts...).
		WithSynopsis("render [-c path=val]... [-f ctxfile]... [files]").
		WithDescription("render jaml files to data with a context").
		WithRun(func(cc *cli.Context, args []string) error {
			return renderCmd(cfg, cc, args)
		})
	cfg.Render = cmd
	return cmd
}

func LoadCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LoadConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Load, "load").
		WithAliases("l").
		WithOpts(opts...).
		WithSynopsis("load [files]").
		WithDescription("load jaml files as data without a context").
		WithRun(func(cc *cli.Context, args []string) error {
			return load(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg, Ctx: &ContextConfig{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, ctxOpts(cfg.Ctx)...)
	cmd := cli.NewCommand("get").
		WithAliases("g", "ge").
		WithOpts(opts...).
		WithSynopsis("get [-c path=val]... <path> [files]").
		WithDescription("get the rendered value at a dotted path").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: -1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff [-resolved] [-data] a b").
		WithDescription("diff two jaml files").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c", "ch").
		WithOpts(opts...).
		WithSynopsis("check [-w] [-s] files").
		WithDescription("check jaml files parse, round trip and resolve cleanly").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg, Ctx: &ContextConfig{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, ctxOpts(cfg.Ctx)...)
	cmd := cli.NewCommand("query").
		WithAliases("q").
		WithOpts(opts...).
		WithSynopsis("query -e <expr> [-c path=val]... [files]").
		WithDescription("evaluate an expr-lang expression over rendered data").
		WithRun(func(cc *cli.Context, args []string) error {
			return query(cfg, cc, args)
		})
	cfg.Query = cmd
	return cmd
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg, Ctx: &ContextConfig{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, ctxOpts(cfg.Ctx)...)
	cmd := cli.NewCommand("patch").
		WithAliases("p", "pa").
		WithOpts(opts...).
		WithSynopsis("patch [-m] <patchfile> [files]").
		WithDescription("render jaml files and apply a json patch or merge patch").
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
	cfg.Patch = cmd
	return cmd
}

func BuildCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BuildConfig{MainConfig: mainCfg, Ctx: &ContextConfig{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, ctxOpts(cfg.Ctx)...)
	return cli.NewCommandAt(&cfg.Build, "build").
		WithAliases("b").
		WithOpts(opts...).
		WithSynopsis("build [-c path=val]... [-s] [dir]").
		WithDescription("render every jaml file of a build directory").
		WithRun(func(cc *cli.Context, args []string) error {
			return build(cfg, cc, args)
		})
}
