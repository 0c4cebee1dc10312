package jaml

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/encode"
	"github.com/signadot/jaml/eval"
	"github.com/signadot/jaml/ir"
	"github.com/signadot/jaml/parse"
	"github.com/signadot/jaml/render"
	"github.com/signadot/jaml/resolve"
	"github.com/signadot/jaml/scope"
)

// Config is a parsed document which can be read and edited as a
// mapping of dotted paths. Edits are made to the document itself, so
// Dumps keeps the layout of everything not edited.
type Config struct {
	doc   *ir.Document
	o     *options
	diags diag.List
}

func NewConfig(src []byte, opts ...Option) (*Config, error) {
	d, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Config{doc: d, o: makeOpts(opts)}, nil
}

// Document returns the underlying document.
func (c *Config) Document() *ir.Document { return c.doc }

// Get returns the value at path as written, without resolution.
func (c *Config) Get(path string) (any, bool) {
	return scope.Get(c.doc.Data(), path)
}

// Keys returns the sorted top level keys.
func (c *Config) Keys() []string {
	return eval.SortedKeys(c.doc.Data())
}

func (c *Config) Dumps() string {
	return encode.String(c.doc)
}

// Set stores v at path. An existing assignment gets its value replaced
// in place. Otherwise a new line is added to the section with the
// longest name that prefixes path, or at the top level. A mapping set
// on the name of an existing section is merged into it key by key.
func (c *Config) Set(path string, v any) error {
	segs := scope.SplitPath(path)
	if len(segs) == 0 {
		return fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	d := c.doc
	if m, ok := eval.Normalize(v).(map[string]any); ok && c.section(segs) != ir.NoNode {
		for _, k := range eval.SortedKeys(m) {
			if err := c.Set(ir.KeyPath(append(slices.Clone(segs), k)), m[k]); err != nil {
				return err
			}
		}
		return nil
	}
	if p, at, ok := c.locate(segs); ok {
		a := d.Kids(p)[at]
		return d.Splice(a, 0, 1, "", ir.FromValue(d, v))
	}
	parent, rest := c.owner(segs)
	line := ir.NewAssignment(d, rest, ir.FromValue(d, v))
	return insertLine(d, parent, line)
}

// Delete removes the assignment at path, or every section named path
// together with its subsections. It reports whether anything was
// removed.
func (c *Config) Delete(path string) bool {
	segs := scope.SplitPath(path)
	if len(segs) == 0 {
		return false
	}
	d := c.doc
	if p, at, ok := c.locate(segs); ok {
		return d.Splice(p, at, 1, "") == nil
	}
	kids := d.Kids(d.Root)
	found := false
	for i := len(kids) - 1; i >= 0; i-- {
		k := kids[i]
		if !d.Node(k).Kind.IsSection() {
			continue
		}
		h := d.Node(d.HeaderOf(k))
		if h.IsComprehensionHeader() || len(h.Path) < len(segs) || !slices.Equal(h.Path[:len(segs)], segs) {
			continue
		}
		if d.Splice(d.Root, i, 1, "") == nil {
			found = true
		}
		kids = d.Kids(d.Root)
	}
	return found
}

// Resolve resolves a copy of the document and returns its data. The
// diagnostics are kept until the next call to Resolve or Render.
func (c *Config) Resolve() (map[string]any, error) {
	d, err := parse.Parse([]byte(c.Dumps()))
	if err != nil {
		return nil, err
	}
	c.diags = diag.List{}
	if err := resolve.Resolve(d, c.o.resolveOpts(&c.diags)...); err != nil {
		return nil, err
	}
	return d.Data(), nil
}

// Render renders the document with context.
func (c *Config) Render(context map[string]any) (map[string]any, error) {
	c.diags = diag.List{}
	return render.Render([]byte(c.Dumps()), context, c.o.resolveOpts(&c.diags)...)
}

// Diagnostics returns what the last Resolve or Render reported.
func (c *Config) Diagnostics() []diag.Diagnostic {
	return slices.Clone(c.diags.Items)
}

// locate finds the assignment for segs, either at the top level or in
// a section whose name prefixes segs. The last one wins.
func (c *Config) locate(segs []string) (ir.NodeID, int, bool) {
	d := c.doc
	parent, at := ir.NoNode, -1
	for i, k := range d.Kids(d.Root) {
		n := d.Node(k)
		switch n.Kind {
		case ir.AssignmentKind:
			if slices.Equal(n.Path, segs) {
				parent, at = d.Root, i
			}
		case ir.SectionKind:
			h := d.Node(d.HeaderOf(k))
			if h.IsComprehensionHeader() || !isPrefix(h.Path, segs) {
				continue
			}
			rest := segs[len(h.Path):]
			for j, a := range d.Kids(k) {
				an := d.Node(a)
				if an.Kind == ir.AssignmentKind && slices.Equal(an.Path, rest) {
					parent, at = k, j
				}
			}
		}
	}
	return parent, at, at >= 0
}

// section returns the plain section named segs.
func (c *Config) section(segs []string) ir.NodeID {
	d := c.doc
	for _, s := range d.Sections() {
		if d.Node(s).Kind != ir.SectionKind {
			continue
		}
		h := d.Node(d.HeaderOf(s))
		if !h.IsComprehensionHeader() && slices.Equal(h.Path, segs) {
			return s
		}
	}
	return ir.NoNode
}

// owner returns the container a new assignment for segs goes into and
// the key relative to it.
func (c *Config) owner(segs []string) (ir.NodeID, []string) {
	d := c.doc
	best, rest := d.Root, segs
	for _, s := range d.Sections() {
		if d.Node(s).Kind != ir.SectionKind {
			continue
		}
		h := d.Node(d.HeaderOf(s))
		if h.IsComprehensionHeader() || !isPrefix(h.Path, segs) {
			continue
		}
		if len(h.Path) > len(segs)-len(rest) {
			best, rest = s, segs[len(h.Path):]
		}
	}
	return best, rest
}

// isPrefix reports whether p is a proper prefix of segs.
func isPrefix(p, segs []string) bool {
	return len(p) < len(segs) && slices.Equal(p, segs[:len(p)])
}

// insertLine adds line after the last assignment of parent. Top level
// lines without assignments go before the first section.
func insertLine(d *ir.Document, parent, line ir.NodeID) error {
	kids := d.Kids(parent)
	at := len(kids)
	if parent != d.Root {
		at = 1
	} else if i := slices.IndexFunc(kids, func(k ir.NodeID) bool { return d.Node(k).Kind.IsSection() }); i >= 0 {
		at = i
	}
	for i, k := range kids {
		kind := d.Node(k).Kind
		if kind.IsSection() {
			break
		}
		if kind == ir.AssignmentKind {
			at = i + 1
		}
	}
	if err := d.Splice(parent, at, 0, "", line); err != nil {
		return err
	}
	p := d.Node(parent)
	if at > 0 && !strings.HasSuffix(p.Seps[at], "\n") {
		p.Seps[at] += "\n"
	}
	last := at+1 == len(p.Kids)
	if !strings.Contains(p.Seps[at+1], "\n") && (!last || parent == d.Root) {
		p.Seps[at+1] = "\n" + p.Seps[at+1]
	}
	return nil
}
