package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/jaml/dirbuild"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/mergeop"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`

	J bool `cli:"name=j aliases=json desc='output data in json'"`
	Y bool `cli:"name=y aliases=yaml desc='output data in yaml'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) format() format.Format {
	var f format.Format
	switch {
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.J:
		f = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format()),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	if isTerminal(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// ContextConfig collects the render context given on the command
// line. Files are layered in order over $JAML_CONTEXT and -c values
// come last.
type ContextConfig struct {
	Values map[string]any
	Files  []map[string]any
}

func (cfg *ContextConfig) setFunc(_ *cli.Context, a string) (any, error) {
	if cfg.Values == nil {
		cfg.Values = map[string]any{}
	}
	if err := ctxFunc(cfg.Values, a); err != nil {
		return nil, err
	}
	return 0, nil
}

func (cfg *ContextConfig) fileFunc(_ *cli.Context, a string) (any, error) {
	d, err := os.ReadFile(a)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", a, err)
	}
	m, ok := eval.Normalize(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: context file %s is not a mapping", cli.ErrUsage, a)
	}
	cfg.Files = append(cfg.Files, m)
	return 0, nil
}

func (cfg *ContextConfig) context() (map[string]any, error) {
	base, err := dirbuild.LoadEnv()
	if err != nil {
		return nil, err
	}
	layers := append(cfg.Files[:len(cfg.Files):len(cfg.Files)], cfg.Values)
	return mergeop.Layer(base, layers...)
}

func ctxFunc(env map[string]any, a string) error {
	key, val, ok := strings.Cut(a, "=")
	if !ok {
		return fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
	}
	var v any
	err := yaml.Unmarshal([]byte(val), &v)
	if err != nil {
		return err
	}
	v = eval.Normalize(v)
	parts := strings.Split(key, ".")
	n := len(parts)
	tmpEnv := env
	for i, part := range parts {
		if i == n-1 {
			tmpEnv[part] = v
			break
		}
		next := tmpEnv[part]
		if next == nil {
			next = map[string]any{}
			tmpEnv[part] = next
		}
		nextEnv, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot access %s, list or scalar", strings.Join(parts[:i+1], "."))
		}
		tmpEnv = nextEnv
	}
	return nil
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type ResolveConfig struct {
	*MainConfig
	Diags bool `cli:"name=d desc='print diagnostics to stderr'"`

	Resolve *cli.Command
}

type RenderConfig struct {
	*MainConfig
	Ctx   *ContextConfig
	Diags bool `cli:"name=d desc='print diagnostics to stderr'"`

	Render *cli.Command
}

type LoadConfig struct {
	*MainConfig
	Load *cli.Command
}

type GetConfig struct {
	*MainConfig
	Ctx *ContextConfig

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Resolved bool `cli:"name=resolved desc='diff the resolved documents'"`
	Data     bool `cli:"name=data desc='print a json merge patch of the rendered data'"`
	Context  int  `cli:"name=U desc='lines of context, -1 for all'"`

	Diff *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Warn  bool `cli:"name=w desc='fail on warnings too'"`
	Show  bool `cli:"name=s desc='show the changes resolve makes'"`
	Check *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Ctx  *ContextConfig
	Expr string `cli:"name=e desc='expression to evaluate'"`

	Query *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Ctx   *ContextConfig
	Merge bool `cli:"name=m desc='patch is a json merge patch'"`

	Patch *cli.Command
}

type BuildConfig struct {
	*MainConfig
	Ctx     *ContextConfig
	ShowEnv bool `cli:"name=s aliases=show desc='show the build context'"`
	List    bool `cli:"name=l aliases=list desc='list the sources'"`

	Build *cli.Command
}
