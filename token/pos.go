package token

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

// PosDoc holds a document and the offsets of its newlines so positions
// can be reported as lines and columns.
type PosDoc struct {
	d []byte
	n []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	off := 0
	for {
		i := bytes.IndexByte(d[off:], '\n')
		if i == -1 {
			break
		}
		p.n = append(p.n, off+i)
		off += i + 1
	}
	return p
}

func (p *PosDoc) Bytes() []byte { return p.d }

// LineCol returns the zero based line and column of byte offset off.
func (p *PosDoc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 0, off
	}
	return di, off - p.n[di-1] - 1
}

// Offset is the inverse of LineCol; out of range lines map to the end of
// the document.
func (p *PosDoc) Offset(line, col int) int {
	if line <= 0 {
		return min(col, len(p.d))
	}
	if line > len(p.n) {
		return len(p.d)
	}
	return min(p.n[line-1]+1+col, len(p.d))
}

func (p *PosDoc) Pos(i int) *Pos {
	return &Pos{
		I: i,
		D: p,
	}
}

func (p *PosDoc) end() *Pos {
	return &Pos{
		I: len(p.d),
		D: p,
	}
}

type Pos struct {
	I int
	D *PosDoc
}

func (p *Pos) LineCol() (int, int) {
	return p.D.LineCol(p.I)
}

func (p *Pos) Line() int {
	l, _ := p.LineCol()
	return l
}

func (p *Pos) Col() int {
	_, c := p.LineCol()
	return c
}

func (p Pos) String() string {
	if p.D == nil {
		return fmt.Sprintf("offset %d", p.I)
	}
	sample := string(p.D.d[max(0, p.I-5):min(p.I+5, len(p.D.d))])
	sample = strconv.Quote(sample)
	sample = sample[1 : len(sample)-1]
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.I, p.Line(), p.Col())
}
