// Package cppalign re-aligns the backslashes continuing a preprocessor
// directive over several lines.
package cppalign

import (
	"strings"

	"cfmt/internal/doc"
	"cfmt/internal/ruler"
	"cfmt/internal/style"
)

// Align lays out a directive whose lines end with a backslash. text must not
// carry the newline ending the directive. Directives fitting a single line
// are reported with ok false.
func Align(st *style.Style, text string) (d *doc.Doc, ok bool) {
	if st == nil {
		st = style.Defaults()
	}
	rl := newRuler(st)
	d = doc.New(doc.Concat)
	n := 0
	for {
		line, rest, more := nextLine(text)
		if !more {
			break
		}
		cell := d.Concat()
		if n > 0 {
			cell.HardLine()
		}
		cell.Literal(line)
		rl.Insert(nil, d, 1, doc.Width(cell, st), 1)
		d.Literal(`\`)
		text = rest
		n++
	}
	if n == 0 {
		return nil, false
	}
	d.HardLine()
	d.Literal(text)
	rl.Exec()
	return d, true
}

func newRuler(st *style.Style) *ruler.Ruler {
	switch st.AlignEscapedNewlines {
	case style.Left:
		if st.UseTabs() {
			return ruler.New(st, 0, ruler.Tabs)
		}
		return ruler.New(st, 0, ruler.Min)
	case style.Right:
		mode := ruler.Max
		if st.UseTabs() {
			mode |= ruler.Tabs
		}
		return ruler.New(st, st.ColumnLimit-st.IndentWidth, mode)
	default:
		return ruler.New(st, 1, ruler.Fixed)
	}
}

// nextLine splits off the first line of text when it is continued by a
// backslash. The returned line has the backslash and the blanks before it
// removed.
func nextLine(text string) (line, rest string, ok bool) {
	i := strings.IndexByte(text, '\n')
	if i < 1 || text[i-1] != '\\' {
		return "", text, false
	}
	return strings.TrimRight(text[:i-1], " \t"), text[i+1:], true
}
