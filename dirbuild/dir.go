// Package dirbuild renders the JAML files of a directory with a
// shared context.
package dirbuild

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/jaml/debug"
	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/gomap"
	"github.com/signadot/jaml/mergeop"
	"github.com/signadot/jaml/render"
	"github.com/signadot/jaml/resolve"
)

// Dir is a build directory. Its settings come from an optional build
// file named build.jml, build.yaml or build.json.
type Dir struct {
	Root    string         `json:"-"`
	DestDir string         `json:"destDir,omitempty"`
	Format  string         `json:"format,omitempty"`
	Suffix  string         `json:"suffix,omitempty"`
	Sources []string       `json:"sources,omitempty"`
	Patches []DirPatch     `json:"patches,omitempty"`
	Env     map[string]any `json:"env,omitempty"`

	format format.Format
}

// DirPatch applies the JSON patch in File to the rendered data of the
// sources whose base name matches Match.
type DirPatch struct {
	Match string `json:"match"`
	File  string `json:"file"`
}

func (p DirPatch) String() string { return p.Match + " <- " + p.File }

// Output is one rendered source.
type Output struct {
	Source string
	Dest   string
	Data   []byte
}

var buildFiles = []string{"build.jml", "build.yaml", "build.json"}

// OpenDir reads the settings of the build directory at path. env is
// layered over the env of the build file.
func OpenDir(path string, env map[string]any) (*Dir, error) {
	if debug.LoadEnv() {
		debug.Logf("OpenDir input env:\n%s\n", debug.JSON{V: env})
	}
	dir := &Dir{Root: path}
	for _, name := range buildFiles {
		p := filepath.Join(path, name)
		d, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not read %q: %w", p, err)
		}
		if err := dir.load(name, d, env); err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", p, err)
		}
		break
	}
	merged, err := mergeop.Layer(dir.Env, env)
	if err != nil {
		return nil, err
	}
	dir.Env = merged
	if dir.Format == "" {
		dir.Format = format.JSONFormat.String()
	}
	f, err := format.ParseFormat(dir.Format)
	if err != nil {
		return nil, err
	}
	dir.format = f
	if dir.Suffix == "" {
		dir.Suffix = f.Suffix()
	}
	if len(dir.Sources) == 0 {
		for _, ext := range format.Extensions {
			dir.Sources = append(dir.Sources, "*"+ext)
		}
	}
	return dir, nil
}

// load decodes a build file. A JAML build file is rendered with env
// and its settings live in its build section.
func (dir *Dir) load(name string, d []byte, env map[string]any) error {
	var m map[string]any
	if strings.HasSuffix(name, ".jml") {
		data, err := render.Render(d, env)
		if err != nil {
			return err
		}
		m, _ = data["build"].(map[string]any)
	} else if err := yaml.Unmarshal(d, &m); err != nil {
		return err
	}
	return gomap.Decode(m, dir, gomap.Strict())
}

// Files returns the sources of the directory in order.
func (dir *Dir) Files() ([]string, error) {
	var res []string
	for _, pat := range dir.Sources {
		ms, err := filepath.Glob(filepath.Join(dir.Root, pat))
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			if format.CheckExtension(m) != nil || slices.Contains(buildFiles, filepath.Base(m)) {
				continue
			}
			if !slices.Contains(res, m) {
				res = append(res, m)
			}
		}
	}
	slices.Sort(res)
	return res, nil
}

// Build renders every source. Diagnostics go to sink, which may be
// nil.
func (dir *Dir) Build(sink diag.Sink) ([]Output, error) {
	files, err := dir.Files()
	if err != nil {
		return nil, err
	}
	var opts []resolve.Option
	if sink != nil {
		opts = append(opts, resolve.WithDiagnostics(sink))
	}
	res := make([]Output, 0, len(files))
	for _, file := range files {
		out, err := dir.build(file, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		res = append(res, *out)
	}
	return res, nil
}

func (dir *Dir) build(file string, opts []resolve.Option) (*Output, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	data, err := render.Render(src, dir.Env, opts...)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(file)
	for _, p := range dir.Patches {
		ok, err := filepath.Match(p.Match, base)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if debug.LoadEnv() {
			debug.Logf("patch %s with %s\n", base, p)
		}
		pd, err := os.ReadFile(filepath.Join(dir.Root, p.File))
		if err != nil {
			return nil, err
		}
		if data, err = mergeop.Apply(data, pd); err != nil {
			return nil, fmt.Errorf("patch %s: %w", p, err)
		}
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.EncodeData(data, buf, encode.EncodeFormat(dir.format)); err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(base, filepath.Ext(base)) + dir.Suffix
	return &Output{Source: file, Dest: filepath.Join(dir.Root, dir.DestDir, name), Data: buf.Bytes()}, nil
}

// Write writes outputs to their destinations.
func Write(outs []Output) error {
	for _, o := range outs {
		if err := os.MkdirAll(filepath.Dir(o.Dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(o.Dest, o.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
