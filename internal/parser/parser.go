// Package parser walks the token stream of a C source file and builds the
// layout tree the formatter renders. It knows enough of the grammar to lay
// out declarations, statements and expressions. Preprocessor conditionals
// are handled by re-parsing every arm against the same layout, and regions
// that cannot be parsed at all are kept as they are.
package parser

import (
	"github.com/charmbracelet/log"

	"cfmt/internal/diag"
	"cfmt/internal/doc"
	"cfmt/internal/lexer"
	"cfmt/internal/logging"
	"cfmt/internal/source"
	"cfmt/internal/style"
	"cfmt/internal/token"
)

type Options struct {
	Reporter diag.Reporter // may be nil
	Logger   *log.Logger   // defaults to logging.Default()
}

type Result struct {
	Doc      *doc.Doc
	Branches int  // conditional arms re-parsed
	Recovers int  // conditionals folded into a single directive
	Verbatim bool // the tail of the file is copied from the source
}

// Parser holds the state of one file.
type Parser struct {
	lx   *lexer.Lexer
	st   *style.Style
	opts Options
	log  *log.Logger

	root     *doc.Doc
	unit     *doc.Doc // top-level document not stamped yet
	muteNext bool
	marks    []mark
	res      Result
	// led is the next token when its comments and directives were already
	// laid out by lead.
	led *token.Token
}

// mark remembers where the source stands after a stamped declaration.
type mark struct {
	docs int    // children of the root
	end  uint32 // source offset past the declaration and its suffixes
}

// Parse builds the layout tree of the whole stream of lx.
func Parse(lx *lexer.Lexer, st *style.Style, opts Options) Result {
	if st == nil {
		st = style.Defaults()
	}
	p := &Parser{
		lx:   lx,
		st:   st,
		opts: opts,
		log:  opts.Logger,
		root: doc.New(doc.Concat),
	}
	if p.log == nil {
		p.log = logging.Default()
	}
	p.parseUnits()
	p.res.Doc = p.root
	return p.res
}

// parseUnits is the top-level loop. Each external declaration is stamped
// once parsed; a failure either takes the next arm of the conditional the
// cursor halted at, folds a conditional, or gives up on the rest of the file.
func (p *Parser) parseUnits() {
	for {
		dc := p.begin()
		done, ok := p.parseExternal(dc)
		if ok {
			p.lx.Stamp()
			p.endUnit()
			if done {
				return
			}
			continue
		}
		if !p.recover() {
			p.fallback()
			return
		}
	}
}

// begin returns a document for the next external declaration. Documents
// are grouped into one unit per stamp, so a failed attempt and the re-parse
// following it share a unit.
func (p *Parser) begin() *doc.Doc {
	if p.unit == nil {
		p.unit = p.root.Concat()
	}
	dc := p.unit.Concat()
	if p.muteNext {
		dc.Mute(true)
		p.muteNext = false
	}
	return dc
}

// endUnit closes the current unit with the line breaks following its last
// token.
func (p *Parser) endUnit() {
	back, ok := p.lx.Back()
	if !ok || back.Kind == token.EOF {
		p.unit = nil
		return
	}
	p.unit.HardLine()
	if back.HasLine(2) {
		p.unit.HardLine()
	}
	end := back.Off + uint32(len(back.Text)) // #nosec G115 -- token lengths fit the file size
	if n := len(back.Suffixes); n > 0 {
		last := back.Suffix(n - 1)
		end = last.Off + uint32(len(last.Text)) // #nosec G115
	}
	p.unit = nil
	p.marks = append(p.marks, mark{docs: p.root.Len(), end: end})
}

func (p *Parser) recover() bool {
	p.led = nil
	if p.lx.IsBranch() {
		back, _ := p.lx.Back()
		p.lx.Branch()
		p.res.Branches++
		p.muteNext = p.pendingUnmute()
		p.log.Debug("branch taken", logging.FieldToken, back)
		diag.ReportInfo(p.opts.Reporter, diag.SynBranchTaken, p.lx.Span(back),
			"conditional arm re-parsed").Emit()
		return true
	}
	back, _ := p.lx.Back()
	n := p.lx.Recover()
	if n == 0 {
		return false
	}
	for range n {
		p.root.RemoveTail()
	}
	for len(p.marks) > 0 && p.marks[len(p.marks)-1].docs > p.root.Len() {
		p.marks = p.marks[:len(p.marks)-1]
	}
	p.unit = nil
	p.res.Recovers++
	p.muteNext = p.pendingUnmute()
	diag.ReportInfo(p.opts.Reporter, diag.SynBranchRecovered, p.lx.Span(back),
		"conditional kept verbatim").Emit()
	return true
}

// pendingUnmute reports whether the token ending a muted region lies ahead
// of the cursor.
func (p *Parser) pendingUnmute() bool {
	um := p.lx.Unmute()
	if um == nil {
		return false
	}
	back, ok := p.lx.Back()
	return !ok || um.Off > back.Off
}

// fallback drops the unfinished unit and copies the source from the end of
// the last declaration kept.
func (p *Parser) fallback() {
	p.led = nil
	if p.unit != nil {
		p.root.Remove(p.unit)
		p.unit = nil
	}
	var start uint32
	if n := len(p.marks); n > 0 {
		start = p.marks[n-1].end
	}
	back, _ := p.lx.Back()
	p.log.Debug("verbatim", logging.FieldToken, back, logging.FieldSeek, start)
	at := p.lx.Span(back)
	kept := source.Span{File: at.File, Start: start, End: start}.Cover(at)
	diag.ReportWarning(p.opts.Reporter, diag.SynVerbatimFallback, kept,
		"cannot lay out the rest of the file, keeping it as is").
		WithNote(at, "layout stopped here").
		Emit()

	dc := p.root.Concat()
	dc.Mute(false)
	dc.Source(string(p.lx.File().Content[start:]))
	p.res.Verbatim = true
}

// parseExternal parses one external declaration into dc. done is set once
// the end of the file was reached.
func (p *Parser) parseExternal(dc *doc.Doc) (done, ok bool) {
	switch p.peekKind() {
	case token.EOF:
		tk, ok := p.lx.Pop()
		if !ok {
			return false, false
		}
		p.emit(dc, tk)
		return true, true
	case token.Semi:
		_, ok := p.next(dc)
		return false, ok
	}
	return false, p.parseDeclaration(dc, declTop, nil)
}
