package lexer

import (
	"strings"

	"cfmt/internal/diag"
	"cfmt/internal/source"
	"cfmt/internal/token"
)

// scanState is the tokenizer position. Restoring a copy backtracks.
type scanState struct {
	off  uint32
	line uint32
	col  uint32
	eof  uint8 // NUL reads past the end
}

// getc returns the next byte. The first read past the end yields NUL
// without advancing; the next one fails.
func (lx *Lexer) getc() (byte, bool) {
	st := &lx.sc
	if st.off >= lx.size {
		if st.eof > 0 {
			return 0, false
		}
		st.eof++
		return 0, true
	}
	ch := lx.src[st.off]
	st.off++
	if ch == '\n' {
		st.line++
		st.col = 1
	} else {
		st.col++
	}
	return ch, true
}

// ungetc pushes back the byte returned by the last getc.
func (lx *Lexer) ungetc() {
	st := &lx.sc
	if st.eof > 0 {
		st.eof = 0
		return
	}
	if st.off == 0 {
		return
	}
	st.off--
	if lx.src[st.off] == '\n' {
		pos := lx.file.Position(st.off)
		st.line, st.col = pos.Line, pos.Col
	} else {
		st.col--
	}
}

// peekc returns the byte under the scanner without consuming it.
func (lx *Lexer) peekc(ahead uint32) (byte, bool) {
	if lx.sc.off+ahead >= lx.size {
		return 0, false
	}
	return lx.src[lx.sc.off+ahead], true
}

func (lx *Lexer) atEOF() bool { return lx.sc.off >= lx.size }

func isBlank(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v' }

func (lx *Lexer) eatSpaces() bool {
	start := lx.sc.off
	for {
		ch, ok := lx.peekc(0)
		if !ok || !isBlank(ch) {
			break
		}
		lx.getc()
	}
	return lx.sc.off > start
}

// eatLines consumes whitespace up to and including the last line break,
// or the threshold-th one when threshold is positive. Blanks following the
// last line break are left for the next token.
func (lx *Lexer) eatLines(threshold int) int {
	oldst := lx.sc
	nlines := 0
	for {
		ch, ok := lx.peekc(0)
		if !ok {
			break
		}
		if ch == '\n' {
			lx.getc()
			nlines++
			oldst = lx.sc
			if threshold > 0 && nlines == threshold {
				break
			}
		} else if isBlank(ch) || ch == '\r' {
			lx.getc()
		} else {
			break
		}
	}
	lx.sc = oldst
	return nlines
}

// eatLinesAndSpaces skips blank lines and indentation, returning the state
// at the start of the line the scanner ends up on.
func (lx *Lexer) eatLinesAndSpaces() scanState {
	lineStart := lx.sc
	for {
		lx.eatSpaces()
		if lx.eatLines(0) == 0 {
			break
		}
		lineStart = lx.sc
	}
	return lineStart
}

func (lx *Lexer) spanFrom(st scanState) source.Span {
	return source.Span{File: lx.file.ID, Start: st.off, End: lx.sc.off}
}

// skipBlockComment consumes up to and including the closing */ of a comment
// whose opening /* was already read.
func (lx *Lexer) skipBlockComment(st scanState) {
	end := strings.Index(lx.src[lx.sc.off:], "*/")
	if end < 0 {
		for !lx.atEOF() {
			lx.getc()
		}
		lx.errLex(diag.LexUnterminatedBlockComment, lx.spanFrom(st), "unterminated block comment")
		return
	}
	for range end + 2 {
		lx.getc()
	}
}

// comment reads a comment. As a prefix it starts at the beginning of its
// line and swallows up to two trailing line breaks; as a suffix it starts
// right after the previous token, leading blanks included.
func (lx *Lexer) comment(prefix bool, list *[]token.Ref) *token.Token {
	oldst := lx.sc
	var st scanState
	if prefix {
		st = lx.eatLinesAndSpaces()
	} else {
		st = lx.sc
		lx.eatSpaces()
	}
	if ch, ok := lx.peekc(0); !ok || ch != '/' {
		lx.sc = oldst
		return nil
	}
	next, _ := lx.peekc(1)
	switch next {
	case '/':
		for {
			ch, ok := lx.peekc(0)
			if !ok || ch == '\n' {
				break
			}
			lx.getc()
		}
	case '*':
		lx.getc()
		lx.getc()
		lx.skipBlockComment(st)
	default:
		lx.sc = oldst
		return nil
	}
	if prefix {
		lx.eatSpaces()
		lx.eatLines(2)
	}
	return lx.emit(list, st, token.Comment, 0)
}

// cpp reads a preprocessor directive, line continuations and embedded
// comments included.
func (lx *Lexer) cpp(list *[]token.Ref) *token.Token {
	oldst := lx.sc
	st := lx.eatLinesAndSpaces()
	if ch, ok := lx.peekc(0); !ok || ch != '#' {
		lx.sc = oldst
		return nil
	}
	lx.getc()
	lx.eatSpaces()
	word := lx.sc.off

	for {
		ch, ok := lx.peekc(0)
		if !ok || ch == '\n' {
			break
		}
		next, _ := lx.peekc(1)
		switch {
		case ch == '\\' && next == '\n':
			lx.getc()
			lx.getc()
		case ch == '/' && next == '*':
			lx.getc()
			lx.getc()
			lx.skipBlockComment(st)
		default:
			lx.getc()
		}
	}
	kind := cppKind(lx.src[word:lx.sc.off])
	lx.eatLines(2)
	return lx.emit(list, st, kind, token.FlagCpp)
}

func cppKind(directive string) token.Kind {
	switch {
	case strings.HasPrefix(directive, "if"):
		return token.CppIf
	case strings.HasPrefix(directive, "else"), strings.HasPrefix(directive, "elif"):
		return token.CppElse
	case strings.HasPrefix(directive, "endif"):
		return token.CppEndif
	case strings.HasPrefix(directive, "include"):
		return token.CppInclude
	}
	return token.Cpp
}

// keyword reads the next ordinary token.
func (lx *Lexer) keyword(prefixes *[]token.Ref) (*token.Token, error) {
	for {
		lx.eatLinesAndSpaces()
		e, st, ok := lx.punctuator()
		if !ok {
			break
		}
		if e.Flags&token.FlagDiscard == 0 {
			return lx.primary(prefixes, st, e.Kind, e.Flags), nil
		}
	}

	st := lx.sc
	ch, ok := lx.getc()
	if !ok || (ch == 0 && lx.atEOF()) {
		lx.sc = st
		lx.sc.eof = 0
		tk := lx.primary(prefixes, st, token.EOF, 0)
		tk.Text = ""
		return tk, nil
	}

	if ch == 'L' {
		if next, _ := lx.peekc(0); next == '"' || next == '\'' {
			ch, _ = lx.getc()
		}
	}
	switch {
	case ch == '"' || ch == '\'':
		return lx.quoted(prefixes, st, ch), nil
	case isDigit(ch):
		lx.number(ch)
		return lx.primary(prefixes, st, token.Literal, 0), nil
	case isIdentStart(ch):
		for {
			ch, ok := lx.peekc(0)
			if !ok || !isIdentContinue(ch) {
				break
			}
			lx.getc()
		}
		if e, ok := lx.table.Lookup(lx.src[st.off:lx.sc.off]); ok && e.Kind.IsKeyword() {
			return lx.primary(prefixes, st, e.Kind, e.Flags), nil
		}
		return lx.primary(prefixes, st, token.Ident, 0), nil
	}
	return nil, lx.unknown(st)
}

// punctuator matches the longest operator at the scanner position. On a
// miss the scanner is left untouched.
func (lx *Lexer) punctuator() (token.Entry, scanState, bool) {
	st := lx.sc
	if _, ok := lx.getc(); !ok {
		lx.sc = st
		return token.Entry{}, st, false
	}
	var pv, tk *token.Entry
	for {
		e, ok := lx.table.Lookup(lx.src[st.off:lx.sc.off])
		if !ok {
			lx.ungetc()
			tk = pv
			break
		}
		if e.Flags&token.FlagAmbiguous == 0 {
			tk = &e
			break
		}
		if e.Kind == token.Period {
			if ell, ok := lx.ellipsis(st); ok {
				tk = &ell
				break
			}
		}
		pv = &e
		if _, ok := lx.getc(); !ok {
			tk = &e
			break
		}
	}
	if tk == nil || tk.Kind.IsKeyword() {
		lx.sc = st
		return token.Entry{}, st, false
	}
	return *tk, st, true
}

func (lx *Lexer) ellipsis(st scanState) (token.Entry, bool) {
	oldst := lx.sc
	for range 2 {
		if ch, ok := lx.peekc(0); !ok || ch != '.' {
			lx.sc = oldst
			return token.Entry{}, false
		}
		lx.getc()
	}
	e, ok := lx.table.Lookup(lx.src[st.off:lx.sc.off])
	if !ok {
		lx.sc = oldst
	}
	return e, ok
}

// quoted reads a string or character literal whose opening delimiter was
// consumed. An unterminated literal runs to the end of the file.
func (lx *Lexer) quoted(prefixes *[]token.Ref, st scanState, delim byte) *token.Token {
	kind := token.String
	if delim == '\'' {
		kind = token.Literal
	}
	for {
		ch, ok := lx.peekc(0)
		if !ok {
			lx.errLex(diag.LexUnterminatedString, lx.spanFrom(st), "unterminated literal")
			break
		}
		lx.getc()
		if ch == '\\' {
			if _, ok := lx.peekc(0); ok {
				lx.getc()
			}
			continue
		}
		if ch == delim {
			break
		}
	}
	return lx.primary(prefixes, st, kind, 0)
}

// number consumes a preprocessing number whose first digit was read.
func (lx *Lexer) number(first byte) {
	pv := first
	for {
		ch, ok := lx.peekc(0)
		if !ok {
			return
		}
		switch {
		case isIdentContinue(ch) || ch == '.':
		case (ch == '+' || ch == '-') && strings.IndexByte("eEpP", pv) >= 0 && !isHexPrefixed(lx.src, lx.sc.off, pv):
		default:
			return
		}
		lx.getc()
		pv = ch
	}
}

// isHexPrefixed reports whether the number ending at off is hexadecimal
// and pv is one of its digits rather than an exponent marker.
func isHexPrefixed(src string, off uint32, pv byte) bool {
	if pv == 'p' || pv == 'P' {
		return false
	}
	start := int(off)
	for start > 0 && (isIdentContinue(src[start-1]) || src[start-1] == '.') {
		start--
	}
	return len(src) > start+1 && src[start] == '0' && (src[start+1] == 'x' || src[start+1] == 'X')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
