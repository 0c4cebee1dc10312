package encode

import (
	"strings"

	"github.com/fatih/color"
	"github.com/signadot/jaml/ir"
)

type Colorable struct {
	Kind ir.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	KeyColor
	ValueColor
	HeaderColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	colors.Map[Colorable{Kind: ir.CommentKind, Attr: CommentColor}] = color.BlueString
	colors.Map[Colorable{Kind: ir.HeaderKind, Attr: HeaderColor}] = color.RGB(196, 128, 128).SprintfFunc()
	colors.Map[Colorable{Kind: ir.AssignmentKind, Attr: KeyColor}] = color.RGB(196, 96, 16).SprintfFunc()

	able := Colorable{Attr: ValueColor}
	for _, k := range []ir.Kind{ir.IntegerKind, ir.FloatKind} {
		able.Kind = k
		colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	}
	able.Kind = ir.NullKind
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Kind = ir.BoolKind
	colors.Map[able] = color.CyanString
	able.Kind = ir.StringKind
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Kind = ir.FStringKind
	colors.Map[able] = color.RGB(88, 158, 86).SprintfFunc()
	able.Kind = ir.ScopedVarKind
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	for _, k := range []ir.Kind{ir.FoldedKind, ir.ListCompKind, ir.DictCompKind, ir.TableCompKind} {
		able.Kind = k
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k ir.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k ir.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
