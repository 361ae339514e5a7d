package lexer

import (
	"fmt"

	"cfmt/internal/diag"
	"cfmt/internal/logging"
	"cfmt/internal/token"
)

// State is a snapshot of the cursor. PeekEnter hands one out and PeekLeave
// restores it, so any amount of lookahead leaves the cursor where it was.
type State struct {
	tk  *token.Token // last consumed token, nil before the first pop
	err int          // errors emitted since the last rewind
}

// Token returns the last consumed token of the snapshot.
func (s State) Token() *token.Token { return s.tk }

// Errors returns the number of syntax errors emitted since the cursor was
// last rewound by Branch or Recover.
func (lx *Lexer) Errors() int { return lx.st.err }

// Peeking reports whether the cursor is inside PeekEnter/PeekLeave.
func (lx *Lexer) Peeking() bool { return lx.peek > 0 }

// Pop consumes the next token. Outside of peek mode it halts, returning
// false, in front of the first token of an #else/#elif arm; the caller is
// expected to take the branch. While peeking the remaining arms are skipped
// and the cursor lands on the token following the #endif.
func (lx *Lexer) Pop() (*token.Token, bool) {
	st := &lx.st
	switch {
	case st.tk == nil:
		st.tk = lx.tokens.First()
	case st.tk.Kind != token.EOF:
		if lx.peek == 0 && st.tk.IsBranch() {
			return nil, false
		}
		next := st.tk.Next()
		if next == nil {
			return nil, false
		}
		if br := next.BranchOf(); br != nil {
			if lx.peek == 0 {
				st.tk = next
				lx.log.Debug("halt", logging.FieldToken, next)
				return nil, false
			}
			for nx := br.BranchNext(); nx != nil; nx = br.BranchNext() {
				br = nx
			}
			next = br.BranchParent()
		}
		st.tk = next
	}
	return st.tk, st.tk != nil
}

// Back returns the last consumed token.
func (lx *Lexer) Back() (*token.Token, bool) {
	return lx.st.tk, lx.st.tk != nil
}

// PeekEnter starts a lookahead and returns the state to restore.
func (lx *Lexer) PeekEnter() State {
	lx.peek++
	return lx.st
}

// PeekLeave ends the lookahead started by the matching PeekEnter.
func (lx *Lexer) PeekLeave(s State) {
	if lx.peek == 0 {
		panic("lexer: unbalanced PeekLeave")
	}
	lx.peek--
	lx.st = s
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() (*token.Token, bool) {
	s := lx.PeekEnter()
	defer lx.PeekLeave(s)
	return lx.Pop()
}

// PeekIf returns the next token when it has kind k.
func (lx *Lexer) PeekIf(k token.Kind) (*token.Token, bool) {
	tk, ok := lx.Peek()
	if !ok || tk.Kind != k {
		return nil, false
	}
	return tk, true
}

// If consumes the next token when it has kind k.
func (lx *Lexer) If(k token.Kind) (*token.Token, bool) {
	if _, ok := lx.PeekIf(k); !ok {
		return nil, false
	}
	return lx.Pop()
}

// PeekIfFlags returns the next token when it carries any of flags.
func (lx *Lexer) PeekIfFlags(flags token.Flags) (*token.Token, bool) {
	tk, ok := lx.Peek()
	if !ok || tk.Flags&flags == 0 {
		return nil, false
	}
	return tk, true
}

// IfFlags consumes the next token when it carries any of flags.
func (lx *Lexer) IfFlags(flags token.Flags) (*token.Token, bool) {
	if _, ok := lx.PeekIfFlags(flags); !ok {
		return nil, false
	}
	return lx.Pop()
}

// PeekIfPrefixFlags returns the first prefix of the next token carrying
// any of flags.
func (lx *Lexer) PeekIfPrefixFlags(flags token.Flags) (*token.Token, bool) {
	next, ok := lx.Peek()
	if !ok {
		return nil, false
	}
	for i := range next.Prefixes {
		if px := next.Prefix(i); px.Flags&flags != 0 {
			return px, true
		}
	}
	return nil, false
}

// PeekIfPair reports whether the next token opens a balanced lhs/rhs pair
// and returns the closing token.
func (lx *Lexer) PeekIfPair(lhs, rhs token.Kind) (*token.Token, bool) {
	s := lx.PeekEnter()
	defer lx.PeekLeave(s)

	if _, ok := lx.If(lhs); !ok {
		return nil, false
	}
	depth := 1
	for {
		tk, ok := lx.Pop()
		if !ok || tk.Kind == token.EOF {
			return nil, false
		}
		switch tk.Kind {
		case lhs:
			depth++
		case rhs:
			depth--
			if depth == 0 {
				return tk, true
			}
		}
	}
}

// IfPair consumes a balanced lhs/rhs pair.
func (lx *Lexer) IfPair(lhs, rhs token.Kind) (*token.Token, bool) {
	end, ok := lx.PeekIfPair(lhs, rhs)
	if ok {
		lx.st.tk = end
	}
	return end, ok
}

// PeekUntil returns the next token of kind k.
func (lx *Lexer) PeekUntil(k token.Kind) (*token.Token, bool) {
	s := lx.PeekEnter()
	defer lx.PeekLeave(s)
	return lx.until(k)
}

// Until consumes tokens up to and including the next one of kind k.
func (lx *Lexer) Until(k token.Kind) (*token.Token, bool) {
	return lx.until(k)
}

func (lx *Lexer) until(k token.Kind) (*token.Token, bool) {
	for {
		tk, ok := lx.Pop()
		if !ok {
			return nil, false
		}
		if tk.Kind == k {
			return tk, true
		}
		if tk.Kind == token.EOF {
			return nil, false
		}
	}
}

// PeekUntilLoose returns the next token of kind k not nested inside
// parentheses or braces, giving up at stop.
func (lx *Lexer) PeekUntilLoose(k token.Kind, stop *token.Token) (*token.Token, bool) {
	s := lx.PeekEnter()
	defer lx.PeekLeave(s)

	nest := 0
	for {
		tk, ok := lx.Pop()
		if !ok || tk == stop || tk.Kind == token.EOF {
			return nil, false
		}
		if tk.Kind == k && nest == 0 {
			return tk, true
		}
		switch tk.Kind {
		case token.LParen, token.LBrace:
			nest++
		case token.RParen, token.RBrace:
			nest--
		}
	}
}

// Expect consumes a token of kind k, reporting a syntax error otherwise.
func (lx *Lexer) Expect(k token.Kind) (*token.Token, bool) {
	if tk, ok := lx.If(k); ok {
		return tk, true
	}
	lx.emitError(k)
	return nil, false
}

// emitError reports a missing token. Only the first error after a rewind
// is reported, and nothing is reported while peeking or when the cursor
// halted in front of a conditional arm.
func (lx *Lexer) emitError(want token.Kind) {
	if back, ok := lx.Back(); ok && back.IsBranch() {
		return
	}
	lx.st.err++
	if lx.st.err > 1 || lx.peek > 0 {
		return
	}
	got, _ := lx.Peek()
	wantText := want.String()
	if e, ok := lx.table.Canonical(want); ok {
		wantText = fmt.Sprintf("%q", e.Text)
	}
	gotText := "end of file"
	if got != nil && got.Kind != token.EOF {
		gotText = fmt.Sprintf("%q", got.Text)
	}
	diag.ReportError(lx.opts.Reporter, diag.SynUnexpectedToken, lx.Span(got),
		fmt.Sprintf("expected %s, got %s", wantText, gotText)).Emit()
}
