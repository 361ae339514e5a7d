package parser

import (
	"strings"

	"cfmt/internal/cppalign"
	"cfmt/internal/doc"
	"cfmt/internal/token"
)

// emit appends tk to dc along with its comments and directives. Crossing
// the token armed by a branch turns emission back on.
func (p *Parser) emit(dc *doc.Doc, tk *token.Token) {
	if tk == p.led {
		p.led = nil
	} else {
		p.prefixes(dc, tk)
	}
	if tk.Text != "" {
		dc.Literal(tk.Text)
	}
	for i := range tk.Suffixes {
		sx := tk.Suffix(i)
		if sx.Kind != token.Comment {
			continue
		}
		if strings.Contains(sx.Text, "\n") {
			dc.Verbatim(sx.Text)
		} else {
			dc.Literal(sx.Text)
		}
		if strings.HasPrefix(strings.TrimLeft(sx.Text, " \t"), "//") {
			dc.EndLine()
		}
	}
}

// lead lays out the comments and directives of the next token into dc,
// ahead of the node the token itself goes to. Their line breaks then leave
// the indentation of a wrapped statement untouched.
func (p *Parser) lead(dc *doc.Doc) {
	tk, ok := p.lx.Peek()
	if !ok || len(tk.Prefixes) == 0 {
		return
	}
	p.prefixes(dc, tk)
	p.led = tk
}

func (p *Parser) prefixes(dc *doc.Doc, tk *token.Token) {
	if tk.Flags&token.FlagUnmute != 0 {
		dc.Mute(false)
	}
	for i := range tk.Prefixes {
		px := tk.Prefix(i)
		switch {
		case px.Kind == token.Comment:
			dc.Comment(px.Text)
		case px.Kind.IsCpp():
			p.directive(dc, px.Text)
		}
	}
}

// directive lays out a preprocessor line at column zero. Definitions
// continued over several lines get their backslashes aligned.
func (p *Parser) directive(dc *doc.Doc, text string) {
	dd := dc.Dedent()
	body := strings.TrimRight(text, "\n")
	if isDefine(body) {
		if ad, ok := cppalign.Align(p.st, strings.TrimLeft(body, " \t")); ok {
			dd.Directive("")
			dd.Append(ad)
			dd.EndLine()
			if len(text)-len(body) > 1 {
				dd.Directive("\n")
			}
			return
		}
	}
	dd.Directive(text)
}

func isDefine(text string) bool {
	text = strings.TrimLeft(text, " \t")
	text = strings.TrimPrefix(text, "#")
	return strings.HasPrefix(strings.TrimLeft(text, " \t"), "define")
}

func (p *Parser) peekKind() token.Kind {
	if tk, ok := p.lx.Peek(); ok {
		return tk.Kind
	}
	return token.EOF
}

func (p *Parser) at(k token.Kind) bool { return p.peekKind() == k }

// peek2 returns the kind of the token after the next one.
func (p *Parser) peek2() token.Kind {
	s := p.lx.PeekEnter()
	defer p.lx.PeekLeave(s)
	if _, ok := p.lx.Pop(); !ok {
		return token.EOF
	}
	if tk, ok := p.lx.Pop(); ok {
		return tk.Kind
	}
	return token.EOF
}

// next consumes the next token into dc.
func (p *Parser) next(dc *doc.Doc) (*token.Token, bool) {
	tk, ok := p.lx.Pop()
	if !ok {
		return nil, false
	}
	p.emit(dc, tk)
	return tk, true
}

// accept consumes the next token into dc when it has kind k.
func (p *Parser) accept(dc *doc.Doc, k token.Kind) (*token.Token, bool) {
	tk, ok := p.lx.If(k)
	if !ok {
		return nil, false
	}
	p.emit(dc, tk)
	return tk, true
}

// expect consumes a token of kind k into dc, reporting its absence.
func (p *Parser) expect(dc *doc.Doc, k token.Kind) bool {
	tk, ok := p.lx.Expect(k)
	if !ok {
		return false
	}
	p.emit(dc, tk)
	return true
}

// spaced reports whether the source separates tk from the next token.
func spaced(tk *token.Token) bool {
	return tk != nil && (tk.HasSpaces() || tk.HasLine(1) || tk.HasSuffix(token.Comment))
}

// parseRaw consumes a balanced lhs/rhs pair, keeping a single space where
// the source has whitespace.
func (p *Parser) parseRaw(dc *doc.Doc, lhs, rhs token.Kind) bool {
	depth := 0
	for {
		tk, ok := p.next(dc)
		if !ok || tk.Kind == token.EOF {
			return false
		}
		switch tk.Kind {
		case lhs:
			depth++
		case rhs:
			depth--
		}
		if depth == 0 {
			return true
		}
		if spaced(tk) {
			dc.Literal(" ")
		}
	}
}
