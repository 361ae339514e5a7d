package parser

import (
	"cfmt/internal/doc"
	"cfmt/internal/token"
)

// Binary operator precedences, loosest first.
const (
	precNone = iota
	precComma
	precAssignment
	precTernary
	precLogicalOr
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precEquality
	precComparison
	precShift
	precAdditive
	precMultiplicative
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.Comma:
		return precComma
	case token.Equal, token.StarEqual, token.SlashEqual, token.PercentEqual,
		token.PlusEqual, token.MinusEqual, token.LessLessEqual,
		token.GreaterGreaterEqual, token.AmpEqual, token.CaretEqual, token.PipeEqual:
		return precAssignment
	case token.Question:
		return precTernary
	case token.PipePipe:
		return precLogicalOr
	case token.AmpAmp:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqualEqual, token.ExclaimEqual:
		return precEquality
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		return precComparison
	case token.LessLess, token.GreaterGreater:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return precNone
}

// parseExpr lays out a full expression, comma operator included.
func (p *Parser) parseExpr(dc *doc.Doc) bool { return p.parseBinary(dc, precComma) }

// parseAssign lays out an assignment expression, as found in an argument
// list or an initializer.
func (p *Parser) parseAssign(dc *doc.Doc) bool { return p.parseBinary(dc, precAssignment) }

// parseBinary lays out operands joined by operators binding at least as
// tight as minPrec. The line may break after an operator, before the
// right-hand operand.
func (p *Parser) parseBinary(dc *doc.Doc, minPrec int) bool {
	if !p.parseUnary(dc) {
		return false
	}
	for {
		op, ok := p.lx.Peek()
		if !ok {
			return true
		}
		prec := binaryPrec(op.Kind)
		if prec == precNone || prec < minPrec {
			return true
		}
		back, _ := p.lx.Back()
		switch {
		case op.Kind == token.Comma:
			if _, ok := p.next(dc); !ok {
				return false
			}
			rhs := dc.Group()
			rhs.Line()
			if !p.parseBinary(rhs, precComma+1) {
				return false
			}

		case op.Kind == token.Question:
			dc.Literal(" ")
			if _, ok := p.next(dc); !ok {
				return false
			}
			then := dc.Group()
			then.Line()
			if !p.parseExpr(then) {
				return false
			}
			dc.Literal(" ")
			if !p.expect(dc, token.Colon) {
				return false
			}
			els := dc.Group()
			els.Line()
			if !p.parseBinary(els, precTernary) {
				return false
			}

		case prec == precAssignment:
			dc.Literal(" ")
			if _, ok := p.next(dc); !ok {
				return false
			}
			dc.Literal(" ")
			if !p.parseBinary(dc, precAssignment) {
				return false
			}

		case op.Flags&token.FlagSpace != 0 && !spaced(back):
			if _, ok := p.next(dc); !ok {
				return false
			}
			if !p.parseBinary(dc, prec+1) {
				return false
			}

		default:
			dc.Literal(" ")
			if _, ok := p.next(dc); !ok {
				return false
			}
			rhs := dc.Group()
			rhs.Line()
			if !p.parseBinary(rhs, prec+1) {
				return false
			}
		}
	}
}

// parseUnary lays out prefix operators, casts and sizeof.
func (p *Parser) parseUnary(dc *doc.Doc) bool {
	tk, ok := p.lx.Peek()
	if !ok {
		_, ok := p.lx.Expect(token.Ident)
		return ok
	}
	switch tk.Kind {
	case token.Amp, token.Star, token.Plus, token.Minus, token.Tilde,
		token.Exclaim, token.PlusPlus, token.MinusMinus:
		if _, ok := p.next(dc); !ok {
			return false
		}
		if nx, ok := p.lx.Peek(); ok && nx.Text != "" && tk.Text != "" && nx.Text[0] == tk.Text[0] {
			switch tk.Kind {
			case token.Plus, token.Minus, token.Amp:
				dc.Literal(" ")
			}
		}
		return p.parseUnary(dc)

	case token.KwSizeof:
		if _, ok := p.next(dc); !ok {
			return false
		}
		if p.at(token.LParen) && p.castAhead() {
			if !p.expect(dc, token.LParen) || !p.parseTypeName(dc) {
				return false
			}
			return p.expect(dc, token.RParen)
		}
		if !p.at(token.LParen) {
			dc.Literal(" ")
		}
		return p.parseUnary(dc)

	case token.LParen:
		if p.castAhead() {
			return p.parseCast(dc)
		}
	}
	return p.parsePostfix(dc)
}

// parseCast lays out a cast, or a compound literal when braces follow.
func (p *Parser) parseCast(dc *doc.Doc) bool {
	if !p.expect(dc, token.LParen) || !p.parseTypeName(dc) || !p.expect(dc, token.RParen) {
		return false
	}
	if p.at(token.LBrace) {
		if !p.parseBraces(dc, p.parseInitElem) {
			return false
		}
		return p.parseSuffixes(dc)
	}
	return p.parseUnary(dc)
}

// castAhead reports whether the parenthesis ahead holds a type name: a
// type keyword, or an identifier followed by stars and then either a
// closing parenthesis and an operand, or a bare closing parenthesis
// followed by an identifier or a literal.
func (p *Parser) castAhead() bool {
	s := p.lx.PeekEnter()
	defer p.lx.PeekLeave(s)
	if _, ok := p.lx.If(token.LParen); !ok {
		return false
	}
	tk, ok := p.lx.Pop()
	if !ok {
		return false
	}
	if tk.Flags&(token.FlagType|token.FlagQualifier) != 0 && tk.Kind != token.Ellipsis {
		return true
	}
	if tk.Kind != token.Ident {
		return false
	}
	stars := 0
	for {
		tk, ok = p.lx.Pop()
		if !ok {
			return false
		}
		if tk.Kind != token.Star {
			break
		}
		stars++
	}
	if tk.Kind != token.RParen {
		return false
	}
	nx, ok := p.lx.Pop()
	if !ok {
		return false
	}
	if stars > 0 {
		switch nx.Kind {
		case token.Ident, token.Literal, token.String, token.LParen, token.Amp, token.Star:
			return true
		}
		return false
	}
	switch nx.Kind {
	case token.Ident, token.Literal, token.String:
		return true
	}
	return false
}

// parsePostfix lays out a primary expression and its suffixes.
func (p *Parser) parsePostfix(dc *doc.Doc) bool {
	if !p.parsePrimary(dc) {
		return false
	}
	return p.parseSuffixes(dc)
}

func (p *Parser) parseSuffixes(dc *doc.Doc) bool {
	for {
		switch p.peekKind() {
		case token.LParen:
			if !p.parseList(dc, p.parseArg) {
				return false
			}
		case token.LSquare:
			if !p.expect(dc, token.LSquare) || !p.parseExpr(dc) || !p.expect(dc, token.RSquare) {
				return false
			}
		case token.Period, token.Arrow:
			if _, ok := p.next(dc); !ok {
				return false
			}
			if !p.expect(dc, token.Ident) {
				return false
			}
		case token.PlusPlus, token.MinusMinus:
			if _, ok := p.next(dc); !ok {
				return false
			}
		default:
			return true
		}
	}
}

// parseArg lays out one argument of a call. Macros may take type names.
func (p *Parser) parseArg(dc *doc.Doc) bool {
	if tk, ok := p.lx.Peek(); ok && tk.Flags&(token.FlagType|token.FlagQualifier|token.FlagStorage) != 0 && tk.Kind != token.Ellipsis {
		return p.parseTypeName(dc)
	}
	return p.parseAssign(dc)
}

// parsePrimary lays out an identifier, a constant, adjacent string
// literals or a parenthesized expression.
func (p *Parser) parsePrimary(dc *doc.Doc) bool {
	switch p.peekKind() {
	case token.Ident, token.Literal:
		_, ok := p.next(dc)
		return ok
	case token.String:
		if _, ok := p.next(dc); !ok {
			return false
		}
		for p.at(token.String) || p.at(token.Ident) && p.peek2() == token.String {
			more := dc.Group()
			more.Line()
			if _, ok := p.next(more); !ok {
				return false
			}
		}
		return true
	case token.LParen:
		if !p.expect(dc, token.LParen) {
			return false
		}
		if p.at(token.LBrace) {
			if !p.parseCompound(dc) {
				return false
			}
		} else if !p.parseExpr(p.parens(dc, false)) {
			return false
		}
		return p.expect(dc, token.RParen)
	}
	_, ok := p.lx.Expect(token.Ident)
	return ok
}

// parens returns the document holding the content of a parenthesis, which
// lines up with the opening parenthesis when the style aligns brackets.
func (p *Parser) parens(dc *doc.Doc, list bool) *doc.Doc {
	if !p.st.Align() {
		return dc.Concat()
	}
	if list {
		return dc.Minimize(doc.Candidate{Indent: doc.IndentParens}, doc.Candidate{})
	}
	return dc.Indent(doc.IndentParens)
}

// parseList lays out a parenthesized, comma separated list. Elements fill
// the line and wrap as needed. An element may be empty, as in the
// arguments of some macros.
func (p *Parser) parseList(dc *doc.Doc, elem func(*doc.Doc) bool) bool {
	if !p.expect(dc, token.LParen) {
		return false
	}
	if p.at(token.RParen) {
		return p.expect(dc, token.RParen)
	}
	in := p.parens(dc, true)
	cur := in.Concat()
	for {
		if !p.at(token.Comma) && !p.at(token.RParen) && !elem(cur) {
			return false
		}
		if p.at(token.RParen) {
			return p.expect(cur, token.RParen)
		}
		if !p.expect(cur, token.Comma) {
			return false
		}
		cur = in.Group()
		if !p.at(token.Comma) && !p.at(token.RParen) {
			cur.Line()
		}
	}
}
