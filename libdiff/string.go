package libdiff

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Line is one line of a line diff.
type Line struct {
	Op   diffpatch.Operation
	Text string
}

// Lines computes a line diff from from to to. Lines keep their
// newlines.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		text := d.Text
		for text != "" {
			ln, rest, nl := strings.Cut(text, "\n")
			if nl {
				ln += "\n"
			}
			res = append(res, Line{Op: d.Type, Text: ln})
			text = rest
		}
	}
	return res
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}

// Format prints lines with a "-", "+" or " " prefix. With ctx >= 0,
// runs of unchanged lines longer than 2*ctx are elided.
func Format(lines []Line, ctx int, colors bool) string {
	del, ins := fmtNone, fmtNone
	if colors {
		del = color.New(color.FgRed).SprintFunc()
		ins = color.New(color.FgGreen).SprintFunc()
	}
	b := &strings.Builder{}
	for i, l := range lines {
		text := l.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		switch l.Op {
		case diffpatch.DiffDelete:
			b.WriteString(del("-" + text))
		case diffpatch.DiffInsert:
			b.WriteString(ins("+" + text))
		default:
			if ctx >= 0 && !near(lines, i, ctx) {
				if i == 0 || near(lines, i-1, ctx) {
					b.WriteString("...\n")
				}
				continue
			}
			b.WriteString(" " + text)
		}
	}
	return b.String()
}

func fmtNone(a ...any) string {
	if len(a) == 1 {
		if s, ok := a[0].(string); ok {
			return s
		}
	}
	return ""
}

// near reports whether a change is within ctx lines of line i.
func near(lines []Line, i, ctx int) bool {
	for j := max(0, i-ctx); j <= min(len(lines)-1, i+ctx); j++ {
		if lines[j].Op != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}
