package jaml

import (
	"fmt"
	"os"

	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/format"
	"github.com/signadot/jaml/gomap"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/render"
	"github.com/signadot/jaml/resolve"
)

// Loads parses and resolves src and returns its data. Layout is lost
// and references to the render context stay as text.
func Loads(src []byte, opts ...Option) (map[string]any, error) {
	d, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := resolve.Resolve(d, makeOpts(opts).resolveOpts()...); err != nil {
		return nil, err
	}
	return d.Data(), nil
}

// RoundTripLoads parses src keeping its layout.
func RoundTripLoads(src []byte) (*ir.Document, error) {
	return parse.Parse(src)
}

// RoundTripDumps writes doc out. An unmodified document yields its
// source exactly.
func RoundTripDumps(doc *ir.Document) string {
	return encode.String(doc)
}

// Resolve computes the static values of doc in place and returns it.
func Resolve(doc *ir.Document, opts ...Option) (*ir.Document, error) {
	if err := resolve.Resolve(doc, makeOpts(opts).resolveOpts()...); err != nil {
		return nil, err
	}
	return doc, nil
}

// Render parses src and returns its data with context references
// substituted from context.
func Render(src []byte, context map[string]any, opts ...Option) (map[string]any, error) {
	return render.Render(src, context, makeOpts(opts).resolveOpts()...)
}

// CheckExtension returns an error unless filename has a JAML suffix.
func CheckExtension(filename string) error {
	return format.CheckExtension(filename)
}

// Unmarshal loads src and stores its data in the value pointed to by
// v. Struct fields are matched with their jaml, yaml or json tags.
func Unmarshal(src []byte, v any, opts ...Option) error {
	data, err := Loads(src, opts...)
	if err != nil {
		return err
	}
	var dOpts []gomap.DecodeOption
	if makeOpts(opts).strict {
		dOpts = append(dOpts, gomap.Strict())
	}
	return gomap.Decode(data, v, dOpts...)
}

// Load reads the JAML file at path.
func Load(path string, opts ...Option) (*Config, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := NewConfig(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
