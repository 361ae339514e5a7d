package doc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"cfmt/internal/logging"
	"cfmt/internal/style"
)

// Flags alter rendering.
type Flags uint8

const (
	// Trace logs group and minimize decisions at debug level.
	Trace Flags = 1 << iota
	// Trim strips trailing whitespace from every emitted line.
	Trim
)

// Options configure Render.
type Options struct {
	Flags  Flags
	Logger *log.Logger // defaults to logging.Default()
}

type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

func (m mode) String() string {
	if m == modeFlat {
		return "flat"
	}
	return "break"
}

// frame is the indentation saved by an Indent, Dedent or Minimize node.
type frame struct {
	indent   int  // restored when the node is left
	pending  int  // IndentNewline amount waiting for a line break
	absolute bool // Dedent, or aligned after a parenthesis
}

type printer struct {
	st      *style.Style
	flags   Flags
	log     *log.Logger
	out     []byte
	discard bool

	col      int
	lead     int // column after the indentation of the current line
	indent   int
	bol      bool // indentation of the current line not written yet
	absorb   bool // the next line break was already emitted
	mute     bool
	optional int
	frames   []frame

	// Minimize scoring.
	lines    int
	exceeds  int
	overflow float64
}

func newPrinter(st *style.Style, flags Flags, logger *log.Logger) *printer {
	if st == nil {
		st = style.Defaults()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &printer{st: st, flags: flags, log: logger, bol: true}
}

// Render lays out d under the style's column limit.
func Render(d *Doc, st *style.Style, opts Options) []byte {
	p := newPrinter(st, opts.Flags, opts.Logger)
	p.exec(d, modeBreak)
	if p.flags&Trim != 0 {
		p.trim()
	}
	return p.out
}

// clone returns a scratch printer continuing from the state of p.
func (p *printer) clone() *printer {
	return &printer{
		st:       p.st,
		flags:    p.flags &^ Trace,
		log:      p.log,
		discard:  true,
		col:      p.col,
		lead:     p.lead,
		indent:   p.indent,
		bol:      p.bol,
		absorb:   p.absorb,
		mute:     p.mute,
		optional: p.optional,
		frames:   append([]frame(nil), p.frames...),
	}
}

func (p *printer) limit() int { return p.st.ColumnLimit }

func (p *printer) exec(d *Doc, m mode) {
	switch d.Kind {
	case Concat, Scope:
		p.children(d, m)

	case Group:
		if m == modeBreak && p.fits(d) {
			m = modeFlat
		}
		if p.flags&Trace != 0 {
			p.log.Debug("group", logging.FieldColumn, p.col, logging.FieldMode, m)
		}
		p.children(d, m)

	case Indent:
		p.enter(d.indent)
		p.children(d, m)
		p.leave()

	case Dedent:
		p.frames = append(p.frames, frame{indent: p.indent, absolute: true})
		p.indent = 0
		p.children(d, m)
		p.leave()

	case Align:
		p.align(d.align, m)

	case Literal:
		p.print(d.text)

	case Verbatim:
		p.verbatim(d.text, d.verb)

	case Line:
		if m == modeFlat {
			p.print(" ")
		} else {
			p.newline()
		}

	case SoftLine:
		if m == modeBreak {
			p.newline()
		}

	case HardLine:
		p.newline()

	case OptLine:
		if m == modeBreak && p.optional > 0 {
			p.newline()
		}

	case Mute:
		p.mute = d.indent != 0

	case Optional:
		p.optional++
		p.children(d, m)
		p.optional--

	case Minimize:
		p.minimize(d, m)
	}
}

func (p *printer) children(d *Doc, m mode) {
	for _, c := range d.children {
		p.exec(c, m)
	}
}

func (p *printer) enter(v int) {
	n, sentinels := splitIndent(v)
	p.frames = append(p.frames, frame{indent: p.indent})
	if sentinels&IndentParens != 0 {
		if p.st.AlignAfterOpenBracket == style.Align {
			n += max(p.col-p.indent, 0)
			p.frames[len(p.frames)-1].absolute = true
		} else {
			n += p.st.ContinuationIndentWidth
		}
	}
	if sentinels&IndentNewline != 0 {
		p.frames[len(p.frames)-1].pending = n
		return
	}
	p.indent = max(p.indent+n, 0)
	if sentinels&IndentForce != 0 && !p.mute && !p.bol && p.col < p.indent {
		p.pad(p.indent)
	}
}

func (p *printer) leave() {
	f := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]
	p.indent = f.indent
}

// activate applies pending IndentNewline amounts once a line break has been
// emitted inside their node. Frames entered later restore to the shifted
// indentation, up to and including the first absolute one.
func (p *printer) activate() {
	for i := range p.frames {
		delta := p.frames[i].pending
		if delta == 0 {
			continue
		}
		p.frames[i].pending = 0
		current := true
		for j := i + 1; j < len(p.frames); j++ {
			p.frames[j].indent += delta
			if p.frames[j].absolute {
				current = false
				break
			}
		}
		if current {
			p.indent += delta
		}
	}
}

func (p *printer) align(a AlignSpec, m mode) {
	if m == modeFlat || a.Indent == 0 {
		p.print(strings.Repeat(" ", a.Spaces))
		return
	}
	if a.Tabs && a.Column > 0 {
		p.print(strings.Repeat("\t", max(tabsTo(p.col, p.lead+a.Column), 1)))
		return
	}
	if a.Tabs {
		p.print(strings.Repeat("\t", a.Indent))
	} else {
		p.print(strings.Repeat(" ", a.Indent))
	}
}

func (p *printer) write(s string) {
	if !p.discard {
		p.out = append(p.out, s...)
	}
	p.col = StrWidth(s, p.col)
}

func (p *printer) writeIndent() {
	if !p.bol {
		return
	}
	p.bol = false
	p.col = 0
	p.pad(p.indent)
	p.lead = p.col
}

// tabsTo counts the tabs that advance col to the first tab stop at or past
// goal.
func tabsTo(col, goal int) int {
	n := 0
	for col < goal {
		col += TabWidth - col%TabWidth
		n++
	}
	return n
}

// pad writes whitespace from the current column up to col.
func (p *printer) pad(col int) {
	if p.st.UseTabs() {
		for (p.col/TabWidth+1)*TabWidth <= col {
			p.write("\t")
		}
	}
	if col > p.col {
		p.write(strings.Repeat(" ", col-p.col))
	}
}

// print writes s after the indentation. Blanks alone never start a line.
func (p *printer) print(s string) {
	if p.mute || s == "" || (p.bol && strings.Trim(s, " ") == "") {
		return
	}
	p.absorb = false
	p.writeIndent()
	p.write(s)
}

func (p *printer) newline() {
	if p.mute {
		return
	}
	if p.absorb {
		p.absorb = false
		return
	}
	if p.flags&Trim != 0 {
		p.trim()
	}
	p.score()
	p.lines++
	if !p.discard {
		p.out = append(p.out, '\n')
	}
	p.col = 0
	p.lead = 0
	p.bol = true
	p.activate()
}

// score accounts the current line against the column limit.
func (p *printer) score() {
	if limit := p.limit(); limit > 0 && p.col > limit {
		p.exceeds++
		p.overflow += float64(p.col-limit) / float64(limit)
	}
}

// trim drops trailing blanks of the current line.
func (p *printer) trim() {
	start := bytes.LastIndexByte(p.out, '\n') + 1
	end := len(p.out)
	for end > start && (p.out[end-1] == ' ' || p.out[end-1] == '\t') {
		end--
	}
	p.out = p.out[:end]
}

// verbatim writes source text. Unless raw, leading blanks are replaced by
// the current indentation. Continuation lines are kept as is.
func (p *printer) verbatim(text string, vm verbMode) {
	if p.mute {
		return
	}
	if vm&verbFresh != 0 && !p.bol {
		p.absorb = false
		p.newline()
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.absorb = false
			p.newline()
			if line != "" {
				p.bol = false
				p.write(line)
			}
			continue
		}
		if p.bol && vm&verbRaw == 0 {
			line = strings.TrimLeft(line, " \t")
		} else if p.bol && line != "" {
			p.absorb = false
			p.bol = false
			p.col = 0
			p.write(line)
			continue
		}
		p.print(line)
	}
	if vm&verbEnd != 0 {
		switch {
		case !p.bol:
			p.absorb = false
			p.newline()
			p.absorb = true
		case strings.HasSuffix(text, "\n"):
			p.absorb = true
		}
	}
}

func (p *printer) minimize(d *Doc, m mode) {
	if len(d.cands) == 0 {
		p.children(d, m)
		return
	}
	best := -1
	var bestScore score
	for i, c := range d.cands {
		sp := p.clone()
		sp.enter(c.Indent)
		sp.children(d, m)
		sp.leave()
		sp.score()
		sc := score{exceeds: sp.exceeds, lines: sp.lines, overflow: sp.overflow}
		if p.flags&Trace != 0 {
			p.log.Debug("minimize", logging.FieldPenalty, sc, "candidate", i)
		}
		if c.Force {
			best = i
			break
		}
		if best == -1 || sc.less(bestScore) {
			best = i
			bestScore = sc
		}
	}
	p.enter(d.cands[best].Indent)
	p.children(d, m)
	p.leave()
}

// score orders Minimize candidates: fewer lines over the limit first, then
// fewer lines, then less overflow.
type score struct {
	exceeds  int
	lines    int
	overflow float64
}

func (s score) String() string {
	return fmt.Sprintf("%d/%d/%.3f", s.exceeds, s.lines, s.overflow)
}

func (s score) less(o score) bool {
	if s.exceeds != o.exceeds {
		return s.exceeds < o.exceeds
	}
	if s.lines != o.lines {
		return s.lines < o.lines
	}
	return s.overflow < o.overflow
}
