// Package ruler aligns cells sharing a logical column across several lines,
// such as the values of designated initializers or the backslashes of a
// multi-line macro.
package ruler

import (
	"github.com/charmbracelet/log"

	"cfmt/internal/doc"
	"cfmt/internal/logging"
	"cfmt/internal/style"
	"cfmt/internal/token"
)

// Mode selects how the padding of a cell is computed.
type Mode uint8

const (
	// Fixed pads every cell with the ruler's amount of spaces.
	Fixed Mode = 1 << iota
	// Min aligns one space past the widest cell.
	Min
	// Max aligns to the ruler's target column, or one space past the widest
	// cell when that is further right.
	Max
	// Tabs pads with tab characters when the style allows them.
	Tabs
	// RequireTabs pads with tab characters regardless of the style.
	RequireTabs
)

type cell struct {
	tk    *token.Token
	pad   *doc.Doc
	col   int
	width int
}

// Ruler accumulates cells until Exec.
type Ruler struct {
	st     *style.Style
	log    *log.Logger
	mode   Mode
	amount int
	cells  []cell
}

// New returns a ruler. amount is the number of spaces in Fixed mode and the
// target column in Max mode.
func New(st *style.Style, amount int, mode Mode) *Ruler {
	if st == nil {
		st = style.Defaults()
	}
	return &Ruler{st: st, log: logging.Default(), mode: mode, amount: amount}
}

// Len returns the number of registered cells.
func (rl *Ruler) Len() int { return len(rl.cells) }

// Insert registers a cell ending at width on logical column col and appends
// its padding node to dc. width is measured from the indentation of the line. Until Exec adjusts it, or whenever the enclosing
// group renders flat, the padding is spaces wide.
func (rl *Ruler) Insert(tk *token.Token, dc *doc.Doc, col, width, spaces int) *doc.Doc {
	pad := dc.Align(spaces)
	rl.cells = append(rl.cells, cell{tk: tk, pad: pad, col: col, width: width})
	return pad
}

// Exec computes the padding of every registered cell and resets the ruler.
// A column holding a single cell is left alone, except in a Max ruler with a
// target column which also places a lone cell.
func (rl *Ruler) Exec() {
	defer rl.reset()

	type column struct{ widest, n int }
	cols := make(map[int]*column)
	for _, c := range rl.cells {
		cl := cols[c.col]
		if cl == nil {
			cl = &column{}
			cols[c.col] = cl
		}
		cl.widest = max(cl.widest, c.width)
		cl.n++
	}
	lone := rl.mode&Max != 0 && rl.amount > 0
	tabs := rl.mode&RequireTabs != 0 || (rl.mode&Tabs != 0 && rl.st.UseTabs())
	for _, c := range rl.cells {
		cl := cols[c.col]
		if cl.n < 2 && !lone {
			continue
		}
		a := c.pad.AlignSpec()
		if rl.mode&Fixed != 0 {
			a.Indent = rl.amount
			c.pad.SetAlign(a)
			continue
		}
		target := cl.widest + 1
		if rl.mode&Max != 0 {
			target = max(target, rl.amount)
		}
		if tabs {
			a.Indent = roundTab(target)/doc.TabWidth - c.width/doc.TabWidth
			a.Column = target
			a.Tabs = true
		} else {
			a.Indent = target - c.width
			a.Column = 0
			a.Tabs = false
		}
		rl.log.Debug("align", logging.FieldToken, c.tk,
			logging.FieldWidth, c.width, logging.FieldColumn, target)
		c.pad.SetAlign(a)
	}
}

func (rl *Ruler) reset() {
	clear(rl.cells)
	rl.cells = rl.cells[:0]
}

func roundTab(col int) int {
	if r := col % doc.TabWidth; r != 0 {
		col += doc.TabWidth - r
	}
	return col
}
