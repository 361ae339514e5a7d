package parser

import (
	"cfmt/internal/doc"
	"cfmt/internal/style"
	"cfmt/internal/token"
)

// parseCompound lays out a block, one statement per line. Blank lines
// between statements are kept, at most one.
func (p *Parser) parseCompound(dc *doc.Doc) bool {
	if !p.expect(dc, token.LBrace) {
		return false
	}
	body := dc.Indent(p.st.IndentWidth)
	first := true
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			_, ok := p.lx.Expect(token.RBrace)
			return ok
		}
		if back, ok := p.lx.Back(); ok && !first && back.HasLine(2) {
			body.HardLine()
		}
		body.HardLine()
		if !p.parseStatement(body.Concat()) {
			return false
		}
		first = false
	}
	dc.HardLine()
	return p.expect(dc, token.RBrace)
}

// parseStatement lays out one statement, or a declaration at block scope.
// Labels keep their comments at their own indentation; other statements
// lay their comments out before any continuation indent opens.
func (p *Parser) parseStatement(dc *doc.Doc) bool {
	switch p.peekKind() {
	case token.KwCase, token.KwDefault:
		return p.parseCase(dc)
	case token.Ident:
		if p.peek2() == token.Colon {
			return p.parseLabel(dc)
		}
	}
	p.lead(dc)
	switch p.peekKind() {
	case token.LBrace:
		return p.parseCompound(dc)
	case token.KwIf:
		return p.parseIf(dc)
	case token.KwWhile:
		return p.parseWhile(dc)
	case token.KwDo:
		return p.parseDo(dc)
	case token.KwFor:
		return p.parseFor(dc)
	case token.KwSwitch:
		return p.parseSwitch(dc)
	case token.KwReturn:
		return p.parseReturn(dc)
	case token.KwBreak, token.KwContinue:
		if _, ok := p.next(dc); !ok {
			return false
		}
		return p.expect(dc, token.Semi)
	case token.KwGoto:
		if _, ok := p.next(dc); !ok {
			return false
		}
		dc.Literal(" ")
		if !p.expect(dc, token.Ident) {
			return false
		}
		return p.expect(dc, token.Semi)
	case token.Semi:
		_, ok := p.next(dc)
		return ok
	case token.KwAsm:
		return p.parseAsm(dc)
	}
	if p.startsDecl() {
		return p.parseDeclaration(dc, declLocal, nil)
	}
	return p.parseExprStatement(dc)
}

// parseExprStatement lays out an expression followed by a semicolon. An
// invocation followed by a block is taken as a loop macro.
func (p *Parser) parseExprStatement(dc *doc.Doc) bool {
	wrap := dc.Indent(p.cont())
	if !p.parseExpr(wrap) {
		return false
	}
	if back, ok := p.lx.Back(); ok && back.Kind == token.RParen && p.at(token.LBrace) {
		_, ok := p.parseBody(dc)
		return ok
	}
	return p.expect(wrap, token.Semi)
}

// parseBody lays out the statement controlled by if, else, for, while or
// do. compound reports a block.
func (p *Parser) parseBody(dc *doc.Doc) (compound, ok bool) {
	switch p.peekKind() {
	case token.LBrace:
		if p.st.Wrapping().AfterControlStatement == style.Always {
			dc.HardLine()
		} else {
			dc.Literal(" ")
		}
		return true, p.parseCompound(dc)
	case token.Semi:
		_, ok := p.next(dc)
		return false, ok
	}
	body := dc.Indent(p.st.IndentWidth)
	body.HardLine()
	return false, p.parseStatement(body.Concat())
}

// parseCond lays out the parenthesized condition of a control statement.
func (p *Parser) parseCond(dc *doc.Doc) bool {
	dc.Literal(" ")
	if !p.expect(dc, token.LParen) {
		return false
	}
	if !p.parseExpr(p.parens(dc, false)) {
		return false
	}
	return p.expect(dc, token.RParen)
}

func (p *Parser) parseIf(dc *doc.Doc) bool {
	hdr := dc.Indent(p.cont())
	if !p.expect(hdr, token.KwIf) || !p.parseCond(hdr) {
		return false
	}
	compound, ok := p.parseBody(dc)
	if !ok {
		return false
	}
	if !p.at(token.KwElse) {
		return true
	}
	if compound && !p.st.Wrapping().BeforeElse {
		dc.Literal(" ")
	} else {
		dc.HardLine()
	}
	if !p.expect(dc, token.KwElse) {
		return false
	}
	if p.at(token.KwIf) {
		dc.Literal(" ")
		return p.parseIf(dc.Concat())
	}
	_, ok = p.parseBody(dc)
	return ok
}

func (p *Parser) parseWhile(dc *doc.Doc) bool {
	hdr := dc.Indent(p.cont())
	if !p.expect(hdr, token.KwWhile) || !p.parseCond(hdr) {
		return false
	}
	_, ok := p.parseBody(dc)
	return ok
}

func (p *Parser) parseDo(dc *doc.Doc) bool {
	if !p.expect(dc, token.KwDo) {
		return false
	}
	compound, ok := p.parseBody(dc)
	if !ok {
		return false
	}
	if compound && !p.st.Wrapping().BeforeWhile {
		dc.Literal(" ")
	} else {
		dc.HardLine()
	}
	tail := dc.Indent(p.cont())
	if !p.expect(tail, token.KwWhile) || !p.parseCond(tail) {
		return false
	}
	return p.expect(tail, token.Semi)
}

// parseFor lays out for (init; cond; step). The init clause may declare.
func (p *Parser) parseFor(dc *doc.Doc) bool {
	hdr := dc.Indent(p.cont())
	if !p.expect(hdr, token.KwFor) {
		return false
	}
	hdr.Literal(" ")
	if !p.expect(hdr, token.LParen) {
		return false
	}
	in := p.parens(hdr, false)
	switch {
	case p.at(token.Semi):
		if !p.expect(in, token.Semi) {
			return false
		}
	case p.startsDecl():
		if !p.parseDeclaration(in, declLocal, nil) {
			return false
		}
	default:
		if !p.parseExpr(in) || !p.expect(in, token.Semi) {
			return false
		}
	}
	clause := in.Group()
	if !p.at(token.Semi) {
		clause.Line()
		if !p.parseExpr(clause) {
			return false
		}
	}
	if !p.expect(clause, token.Semi) {
		return false
	}
	if !p.at(token.RParen) {
		clause = in.Group()
		clause.Line()
		if !p.parseExpr(clause) {
			return false
		}
	}
	if !p.expect(hdr, token.RParen) {
		return false
	}
	_, ok := p.parseBody(dc)
	return ok
}

func (p *Parser) parseSwitch(dc *doc.Doc) bool {
	hdr := dc.Indent(p.cont())
	if !p.expect(hdr, token.KwSwitch) || !p.parseCond(hdr) {
		return false
	}
	_, ok := p.parseBody(dc)
	return ok
}

// parseCase lays out a case or default label one level to the left of the
// statements it introduces.
func (p *Parser) parseCase(dc *doc.Doc) bool {
	label := dc.Indent(-p.st.IndentWidth)
	kw, ok := p.next(label)
	if !ok {
		return false
	}
	if kw.Kind == token.KwCase {
		label.Literal(" ")
		if !p.parseBinary(label, precTernary) {
			return false
		}
		if p.at(token.Ellipsis) {
			label.Literal(" ")
			if _, ok := p.next(label); !ok {
				return false
			}
			label.Literal(" ")
			if !p.parseBinary(label, precTernary) {
				return false
			}
		}
	}
	if !p.expect(label, token.Colon) {
		return false
	}
	return p.labeled(dc)
}

// parseLabel lays out a goto label at column zero.
func (p *Parser) parseLabel(dc *doc.Doc) bool {
	label := dc.Dedent()
	p.lead(label)
	if tk, ok := p.lx.Peek(); ok && tk.HasIndent() {
		label = label.Indent(1)
	}
	if !p.expect(label, token.Ident) || !p.expect(label, token.Colon) {
		return false
	}
	return p.labeled(dc)
}

// labeled lays out the statement following a label, unless the block or
// the label list goes on.
func (p *Parser) labeled(dc *doc.Doc) bool {
	switch p.peekKind() {
	case token.RBrace, token.KwCase, token.KwDefault, token.EOF:
		return true
	case token.Ident:
		if p.peek2() == token.Colon {
			return true
		}
	}
	dc.HardLine()
	return p.parseStatement(dc.Concat())
}

func (p *Parser) parseReturn(dc *doc.Doc) bool {
	wrap := dc.Indent(p.cont())
	if !p.expect(wrap, token.KwReturn) {
		return false
	}
	if !p.at(token.Semi) {
		wrap.Literal(" ")
		if !p.parseExpr(wrap) {
			return false
		}
	}
	return p.expect(wrap, token.Semi)
}

// parseAsm lays out an inline assembly statement as found in the source.
func (p *Parser) parseAsm(dc *doc.Doc) bool {
	if !p.expect(dc, token.KwAsm) {
		return false
	}
	for p.at(token.KwVolatile) || p.at(token.KwGoto) {
		dc.Literal(" ")
		if _, ok := p.next(dc); !ok {
			return false
		}
	}
	if back, _ := p.lx.Back(); spaced(back) {
		dc.Literal(" ")
	}
	if !p.parseRaw(dc, token.LParen, token.RParen) {
		return false
	}
	return p.expect(dc, token.Semi)
}
