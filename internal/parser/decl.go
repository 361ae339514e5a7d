package parser

import (
	"cfmt/internal/doc"
	"cfmt/internal/ruler"
	"cfmt/internal/token"
)

type declKind uint8

const (
	declTop declKind = iota
	declLocal
	declMember
)

// specs summarizes the specifiers of a declaration.
type specs struct {
	n    int  // specifiers consumed
	typ  bool // a type was named
	body bool // a struct, union or enum body was laid out
}

// cont returns the indentation of a wrapped declaration or statement.
func (p *Parser) cont() int {
	return p.st.ContinuationIndentWidth | doc.IndentNewline
}

// startsDecl reports whether the next tokens open a declaration.
func (p *Parser) startsDecl() bool {
	tk, ok := p.lx.Peek()
	if !ok {
		return false
	}
	switch {
	case tk.Flags&(token.FlagStorage|token.FlagQualifier) != 0:
		return true
	case tk.Flags&token.FlagType != 0 && tk.Kind != token.Ellipsis:
		return true
	case tk.Kind == token.KwAttribute:
		return true
	case tk.Kind == token.Ident:
		return p.identIsType()
	}
	return false
}

// identIsType reports whether the identifier ahead names a type: it is
// followed by another identifier, a pointer or a qualifier.
func (p *Parser) identIsType() bool {
	switch p.peek2() {
	case token.Ident, token.KwConst, token.KwVolatile, token.KwRestrict:
		return true
	case token.Star:
		return p.starDeclarator()
	}
	return false
}

// starDeclarator tells "T *x" apart from "a * b" by looking past the stars
// for an identifier ending the statement or starting a declarator list.
func (p *Parser) starDeclarator() bool {
	s := p.lx.PeekEnter()
	defer p.lx.PeekLeave(s)
	if _, ok := p.lx.Pop(); !ok {
		return false
	}
	for {
		tk, ok := p.lx.Pop()
		if !ok {
			return false
		}
		switch tk.Kind {
		case token.Star, token.KwConst, token.KwVolatile, token.KwRestrict:
			continue
		case token.Ident:
			nx, ok := p.lx.Pop()
			if !ok {
				return false
			}
			switch nx.Kind {
			case token.Semi, token.Comma, token.Equal, token.LSquare, token.LParen:
				return true
			}
			return false
		case token.LParen, token.RParen:
			return true
		}
		return false
	}
}

// parseSpecifiers lays out the storage classes, qualifiers and type
// specifiers opening a declaration, separated by single spaces.
func (p *Parser) parseSpecifiers(dc *doc.Doc) (specs, bool) {
	var sp specs
	for {
		tk, ok := p.lx.Peek()
		if !ok {
			return sp, sp.n > 0
		}
		sep := func() {
			if sp.n > 0 {
				dc.Literal(" ")
			}
			sp.n++
		}
		switch {
		case tk.Kind == token.KwStruct || tk.Kind == token.KwUnion || tk.Kind == token.KwEnum:
			sep()
			body, ok := p.parseRecord(dc)
			if !ok {
				return sp, false
			}
			sp.typ = true
			sp.body = sp.body || body
		case tk.Kind == token.KwAttribute:
			sep()
			if !p.parseAttribute(dc) {
				return sp, false
			}
		case tk.Flags&(token.FlagStorage|token.FlagQualifier) != 0,
			tk.Flags&token.FlagType != 0 && tk.Kind != token.Ellipsis:
			sep()
			if _, ok := p.next(dc); !ok {
				return sp, false
			}
			if tk.Kind != token.KwTypedef && tk.Flags&token.FlagType != 0 {
				sp.typ = true
			}
		case tk.Kind == token.Ident && !sp.typ && p.identIsType():
			sep()
			if _, ok := p.next(dc); !ok {
				return sp, false
			}
			sp.typ = true
		default:
			return sp, true
		}
	}
}

// parseDeclaration lays out a declaration or a function definition. With a
// ruler the gap between the specifiers and the first declarator becomes an
// aligned cell, as done for the members of a struct.
func (p *Parser) parseDeclaration(dc *doc.Doc, kind declKind, rl *ruler.Ruler) bool {
	head := dc.Concat()
	sp, ok := p.parseSpecifiers(head)
	if !ok {
		return false
	}
	if p.at(token.Semi) {
		return p.expect(dc, token.Semi)
	}

	lead := dc.Concat()
	switch {
	case rl != nil && !sp.body && sp.n > 0:
		back, _ := p.lx.Back()
		rl.Insert(back, lead, 0, doc.Width(head, p.st), 1)
	case sp.n > 0:
		lead.Literal(" ")
	}
	stars := dc.Concat()
	if !p.parsePointers(stars) {
		return false
	}
	name := dc.Concat()
	decl := dc.Indent(p.cont())
	fn, ok := p.parseDirect(name, decl, kind == declMember && p.at(token.Colon))
	if !ok {
		return false
	}

	if kind == declTop && fn {
		if p.at(token.LBrace) {
			if sp.n > 0 && p.st.BreakAfterReturnType(true, true) {
				p.breakReturnType(lead, stars, name)
			}
			return p.parseFunction(dc)
		}
		if sp.n > 0 && p.st.BreakAfterReturnType(false, true) {
			p.breakReturnType(lead, stars, name)
		}
	}

	cur := decl
	for {
		rest, ok := p.parseDeclTail(dc, cur)
		if !ok {
			return false
		}
		if rest != cur {
			decl, cur = rest, rest
		}
		if _, ok := p.accept(cur, token.Comma); !ok {
			break
		}
		cur = decl.Group()
		cur.Line()
		if !p.parseDeclarator(cur) {
			return false
		}
	}
	return p.expect(cur, token.Semi)
}

// breakReturnType puts the name of a function at the start of a line. The
// pointers of the return type stay with the type.
func (p *Parser) breakReturnType(lead, stars, name *doc.Doc) {
	if stars.Len() > 0 {
		if name.Len() == 0 {
			return
		}
		name.AppendBefore(doc.New(doc.HardLine), name.Children()[0])
		return
	}
	for lead.Len() > 0 {
		lead.RemoveTail()
	}
	lead.HardLine()
}

// parseFunction lays out the body of a function definition.
func (p *Parser) parseFunction(dc *doc.Doc) bool {
	if p.st.Wrapping().AfterFunction {
		dc.HardLine()
	} else {
		dc.Literal(" ")
	}
	return p.parseCompound(dc)
}

// parseDeclarator lays out the pointers and direct declarator following a
// comma of a declarator list.
func (p *Parser) parseDeclarator(dc *doc.Doc) bool {
	if !p.parsePointers(dc) {
		return false
	}
	_, ok := p.parseDirect(dc, dc, false)
	return ok
}

// parseDeclTail lays out what follows a declarator into dc: a bit-field
// width, attributes, an asm label and an initializer. A brace enclosed
// initializer goes to outer so its rows are indented from the start of the
// declaration; the declaration then goes on in the returned document.
func (p *Parser) parseDeclTail(outer, dc *doc.Doc) (*doc.Doc, bool) {
	if colon, ok := p.lx.PeekIf(token.Colon); ok {
		if back, _ := p.lx.Back(); spaced(back) {
			dc.Literal(" ")
		}
		if !p.expect(dc, token.Colon) {
			return nil, false
		}
		if spaced(colon) {
			dc.Literal(" ")
		}
		if !p.parseBinary(dc, precTernary) {
			return nil, false
		}
	}
	for p.at(token.KwAttribute) || p.at(token.KwAsm) {
		dc.Literal(" ")
		if _, ok := p.next(dc); !ok {
			return nil, false
		}
		for p.at(token.KwVolatile) {
			dc.Literal(" ")
			if _, ok := p.next(dc); !ok {
				return nil, false
			}
		}
		if !p.parseRaw(dc, token.LParen, token.RParen) {
			return nil, false
		}
	}
	if !p.at(token.Equal) {
		return dc, true
	}
	dc.Literal(" ")
	if !p.expect(dc, token.Equal) {
		return nil, false
	}
	dc.Literal(" ")
	if p.at(token.LBrace) {
		if !p.parseBraces(outer, p.parseInitElem) {
			return nil, false
		}
		return outer.Indent(p.cont()), true
	}
	return dc, p.parseAssign(dc)
}

// parsePointers lays out the stars of a declarator and their qualifiers.
func (p *Parser) parsePointers(dc *doc.Doc) bool {
	for {
		switch p.peekKind() {
		case token.Star:
			if _, ok := p.next(dc); !ok {
				return false
			}
		case token.KwConst, token.KwVolatile, token.KwRestrict:
			if _, ok := p.next(dc); !ok {
				return false
			}
			switch p.peekKind() {
			case token.Star, token.Ident, token.KwConst, token.KwVolatile, token.KwRestrict:
				dc.Literal(" ")
			}
		default:
			return true
		}
	}
}

// parseDirect lays out a direct declarator: the name, or a parenthesized
// declarator, into name, then its array and parameter suffixes into dc. An
// abstract declarator may omit the name. fn reports a named function
// declarator.
func (p *Parser) parseDirect(name, dc *doc.Doc, abstract bool) (fn, ok bool) {
	named := false
	switch {
	case p.at(token.Ident):
		if _, ok := p.next(name); !ok {
			return false, false
		}
		named = true
	case p.at(token.LParen) && (!abstract || p.peek2() == token.Star || p.peek2() == token.LParen):
		if !p.expect(name, token.LParen) {
			return false, false
		}
		if !p.parsePointers(name) {
			return false, false
		}
		if _, ok := p.parseDirect(name, name, abstract); !ok {
			return false, false
		}
		if !p.expect(name, token.RParen) {
			return false, false
		}
	case abstract:
	default:
		_, ok := p.lx.Expect(token.Ident)
		return false, ok
	}

	first := true
	for {
		switch p.peekKind() {
		case token.LSquare:
			if !p.expect(dc, token.LSquare) {
				return false, false
			}
			if !p.at(token.RSquare) && !p.parseExpr(dc) {
				return false, false
			}
			if !p.expect(dc, token.RSquare) {
				return false, false
			}
		case token.LParen:
			if !p.parseList(dc, p.parseParam) {
				return false, false
			}
			if first && named {
				fn = true
			}
		default:
			return fn, true
		}
		first = false
	}
}

// parseParam lays out one parameter. Arguments of a function-like macro and
// identifier lists are taken as expressions.
func (p *Parser) parseParam(dc *doc.Doc) bool {
	if p.at(token.Ellipsis) {
		_, ok := p.next(dc)
		return ok
	}
	if !p.startsDecl() {
		return p.parseAssign(dc)
	}
	sp, ok := p.parseSpecifiers(dc)
	if !ok {
		return false
	}
	switch p.peekKind() {
	case token.LSquare, token.Comma, token.RParen:
	default:
		if sp.n > 0 {
			dc.Literal(" ")
		}
	}
	if !p.parsePointers(dc) {
		return false
	}
	if _, ok := p.parseDirect(dc, dc, true); !ok {
		return false
	}
	for p.at(token.KwAttribute) {
		dc.Literal(" ")
		if !p.parseAttribute(dc) {
			return false
		}
	}
	return true
}

// parseTypeName lays out the type of a cast, sizeof or compound literal.
func (p *Parser) parseTypeName(dc *doc.Doc) bool {
	sp, ok := p.parseSpecifiers(dc)
	if !ok {
		return false
	}
	if sp.n > 0 && (p.at(token.Star) || p.at(token.LParen)) {
		dc.Literal(" ")
	}
	if !p.parsePointers(dc) {
		return false
	}
	_, ok = p.parseDirect(dc, dc, true)
	return ok
}

// parseRecord lays out a struct, union or enum specifier.
func (p *Parser) parseRecord(dc *doc.Doc) (body, ok bool) {
	kw, ok := p.next(dc)
	if !ok {
		return false, false
	}
	for p.at(token.KwAttribute) {
		dc.Literal(" ")
		if !p.parseAttribute(dc) {
			return false, false
		}
	}
	if p.at(token.Ident) {
		dc.Literal(" ")
		if _, ok := p.next(dc); !ok {
			return false, false
		}
	}
	if !p.at(token.LBrace) {
		return false, true
	}

	w := p.st.Wrapping()
	wrap := w.AfterStruct
	switch kw.Kind {
	case token.KwUnion:
		wrap = w.AfterUnion
	case token.KwEnum:
		wrap = w.AfterEnum
	}
	if wrap {
		dc.HardLine()
	} else {
		dc.Literal(" ")
	}
	if kw.Kind == token.KwEnum {
		return true, p.parseBraces(dc, p.parseEnumerator)
	}
	return true, p.parseFields(dc)
}

// parseFields lays out the members of a struct or union, one per line, with
// the member names aligned.
func (p *Parser) parseFields(dc *doc.Doc) bool {
	if !p.expect(dc, token.LBrace) {
		return false
	}
	rl := ruler.New(p.st, 0, ruler.Tabs)
	body := dc.Indent(p.st.IndentWidth)
	first := true
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			_, ok := p.lx.Expect(token.RBrace)
			return ok
		}
		if back, ok := p.lx.Back(); ok && !first && back.HasLine(2) {
			body.HardLine()
			rl.Exec()
		}
		body.HardLine()
		if !p.parseDeclaration(body.Concat(), declMember, rl) {
			return false
		}
		first = false
	}
	rl.Exec()
	dc.HardLine()
	return p.expect(dc, token.RBrace)
}

// parseAttribute lays out __attribute__((...)).
func (p *Parser) parseAttribute(dc *doc.Doc) bool {
	if !p.expect(dc, token.KwAttribute) {
		return false
	}
	return p.parseRaw(dc, token.LParen, token.RParen)
}

// parseEnumerator lays out one constant of an enum.
func (p *Parser) parseEnumerator(dc *doc.Doc, _ *ruler.Ruler) bool {
	if !p.expect(dc, token.Ident) {
		return false
	}
	for p.at(token.KwAttribute) {
		dc.Literal(" ")
		if !p.parseAttribute(dc) {
			return false
		}
	}
	if p.at(token.Equal) {
		dc.Literal(" ")
		if !p.expect(dc, token.Equal) {
			return false
		}
		dc.Literal(" ")
		return p.parseAssign(dc)
	}
	return true
}
