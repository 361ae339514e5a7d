package parser

import (
	"cfmt/internal/doc"
	"cfmt/internal/ruler"
	"cfmt/internal/token"
)

// parseBraces lays out a brace enclosed list such as an initializer or the
// constants of an enum. When the opening brace ends its line in the source
// the list is laid out one row per source line, with the rows separated by
// blank lines aligned as a table. Otherwise the list fills the line.
func (p *Parser) parseBraces(dc *doc.Doc, elem func(item *doc.Doc, keys *ruler.Ruler) bool) bool {
	lbrace, ok := p.lx.PeekIf(token.LBrace)
	if !ok {
		_, ok := p.lx.Expect(token.LBrace)
		return ok
	}
	if !p.expect(dc, token.LBrace) {
		return false
	}
	if p.at(token.RBrace) {
		return p.expect(dc, token.RBrace)
	}
	if lbrace.HasLine(1) {
		return p.parseRows(dc, elem)
	}

	g := dc.Group()
	in := g.Indent(p.st.IndentWidth)
	keys := ruler.New(p.st, 0, ruler.Tabs)
	for {
		in.Line()
		if !elem(in.Concat(), keys) {
			return false
		}
		if _, ok := p.accept(in, token.Comma); !ok || p.at(token.RBrace) {
			break
		}
	}
	keys.Exec()
	g.Line()
	return p.expect(g, token.RBrace)
}

// parseRows lays out the vertical form of a brace enclosed list.
func (p *Parser) parseRows(dc *doc.Doc, elem func(item *doc.Doc, keys *ruler.Ruler) bool) bool {
	keys := ruler.New(p.st, 0, ruler.Tabs)
	cols := ruler.New(p.st, 0, ruler.Min)
	body := dc.Indent(p.st.IndentWidth)
	body.HardLine()
	col := 0
	for !p.at(token.RBrace) {
		item := body.Concat()
		if !elem(item, keys) {
			return false
		}
		comma, ok := p.accept(body, token.Comma)
		if !ok || p.at(token.RBrace) {
			break
		}
		switch {
		case comma.HasLine(2):
			body.HardLine()
			body.HardLine()
			keys.Exec()
			cols.Exec()
			col = 0
		case comma.HasLine(1):
			body.HardLine()
			col = 0
		default:
			cols.Insert(comma, body, col, doc.Width(item, p.st)+1, 1)
			col++
		}
	}
	keys.Exec()
	cols.Exec()
	dc.HardLine()
	return p.expect(dc, token.RBrace)
}

// parseInitElem lays out one element of an initializer list, aligning the
// values that follow designators.
func (p *Parser) parseInitElem(dc *doc.Doc, keys *ruler.Ruler) bool {
	key := dc.Concat()
	designated := false
	for {
		switch p.peekKind() {
		case token.Period:
			if _, ok := p.next(key); !ok {
				return false
			}
			if !p.expect(key, token.Ident) {
				return false
			}
		case token.LSquare:
			if !p.expect(key, token.LSquare) || !p.parseBinary(key, precTernary) {
				return false
			}
			if p.at(token.Ellipsis) {
				key.Literal(" ")
				if _, ok := p.next(key); !ok {
					return false
				}
				key.Literal(" ")
				if !p.parseBinary(key, precTernary) {
					return false
				}
			}
			if !p.expect(key, token.RSquare) {
				return false
			}
		default:
			if designated {
				back, _ := p.lx.Back()
				keys.Insert(back, dc, 0, doc.Width(key, p.st), 1)
				if !p.expect(dc, token.Equal) {
					return false
				}
				dc.Literal(" ")
			}
			return p.parseInitializer(dc)
		}
		designated = true
	}
}

// parseInitializer lays out the value of an initializer.
func (p *Parser) parseInitializer(dc *doc.Doc) bool {
	if p.at(token.LBrace) {
		return p.parseBraces(dc, p.parseInitElem)
	}
	return p.parseAssign(dc)
}
