package doc

import (
	"github.com/mattn/go-runewidth"

	"cfmt/internal/style"
)

// TabWidth is the distance between tab stops.
const TabWidth = 8

// StrWidth returns the column reached after writing s starting at col. A tab
// advances to the next tab stop and a newline resets the column.
func StrWidth(s string, col int) int {
	for _, r := range s {
		switch {
		case r == '\n':
			col = 0
		case r == '\t':
			col += TabWidth - col%TabWidth
		case r < 0x80:
			col++
		default:
			col += runewidth.RuneWidth(r)
		}
	}
	return col
}

// Width returns the column reached after rendering d flat from column zero.
func Width(d *Doc, st *style.Style) int {
	p := newPrinter(st, 0, nil)
	p.discard = true
	p.bol = false
	p.exec(d, modeFlat)
	return p.col
}
