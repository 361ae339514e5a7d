package doc

import "strings"

type verdict uint8

const (
	measureMore verdict = iota
	measureFits
	measureOverflow
)

// measurer walks a subtree as if it was rendered flat, tracking the column
// without producing output.
type measurer struct {
	col   int
	limit int
	mute  bool
}

// fits reports whether d rendered flat ends before the column limit. A line
// break inside a Scope ends the measurement successfully, any other line
// break means the group must break.
func (p *printer) fits(d *Doc) bool {
	limit := p.limit()
	if limit <= 0 {
		return true
	}
	m := measurer{col: p.col, limit: limit, mute: p.mute}
	if p.bol {
		m.col = p.indent
	}
	return m.walk(d, 0) != measureOverflow
}

func (m *measurer) walk(d *Doc, scope int) verdict {
	switch d.Kind {
	case Scope:
		scope++
		fallthrough
	case Concat, Group, Indent, Dedent, Optional, Minimize:
		for _, c := range d.children {
			if v := m.walk(c, scope); v != measureMore {
				return v
			}
		}
	case Literal:
		return m.add(d.text)
	case Verbatim:
		if d.verb&(verbFresh|verbEnd) != 0 || strings.Contains(d.text, "\n") {
			return m.linebreak(scope)
		}
		return m.add(d.text)
	case Line:
		return m.add(" ")
	case HardLine:
		return m.linebreak(scope)
	case Align:
		return m.add(strings.Repeat(" ", d.align.Spaces))
	case Mute:
		m.mute = d.indent != 0
	}
	return measureMore
}

func (m *measurer) add(s string) verdict {
	if m.mute {
		return measureMore
	}
	m.col = StrWidth(s, m.col)
	if m.col > m.limit {
		return measureOverflow
	}
	return measureMore
}

func (m *measurer) linebreak(scope int) verdict {
	if m.mute {
		return measureMore
	}
	if scope > 0 {
		return measureFits
	}
	return measureOverflow
}
