package lexer

import (
	"slices"

	"cfmt/internal/token"
)

func (lx *Lexer) synthesize(mark *token.Token, kind token.Kind, text string) *token.Token {
	flags := token.FlagDirty
	if e, ok := lx.table.Lookup(text); ok && e.Kind == kind {
		flags |= e.Flags
	}
	tk := lx.arena.New(kind, flags, text)
	tk.Off, tk.Line, tk.Col = mark.Off, mark.Line, mark.Col
	return tk
}

// InsertBefore inserts a new token of the given kind and text in front of
// mark. The token inherits the position of mark.
func (lx *Lexer) InsertBefore(mark *token.Token, kind token.Kind, text string) *token.Token {
	tk := lx.synthesize(mark, kind, text)
	lx.tokens.InsertBefore(tk, mark)
	return tk
}

// InsertAfter inserts a new token of the given kind and text after mark.
func (lx *Lexer) InsertAfter(mark *token.Token, kind token.Kind, text string) *token.Token {
	tk := lx.synthesize(mark, kind, text)
	lx.tokens.InsertAfter(tk, mark)
	return tk
}

// CopyAfter inserts a copy of src, without its fixups, after mark.
func (lx *Lexer) CopyAfter(mark, src *token.Token) *token.Token {
	tk := lx.arena.Clone(src)
	lx.tokens.InsertAfter(tk, mark)
	return tk
}

// MoveBefore relocates tk in front of mark. Fixups travel with tk.
func (lx *Lexer) MoveBefore(mark, tk *token.Token) *token.Token {
	lx.tokens.Unlink(tk)
	tk.Line, tk.Col = mark.Line, mark.Col
	lx.tokens.InsertBefore(tk, mark)
	return tk
}

// MoveAfter relocates tk after mark. Fixups travel with tk.
func (lx *Lexer) MoveAfter(mark, tk *token.Token) *token.Token {
	lx.tokens.Unlink(tk)
	tk.Line, tk.Col = mark.Line, mark.Col
	lx.tokens.InsertAfter(tk, mark)
	return tk
}

// Remove drops tk from the stream. With keepFixes its prefixes move to the
// next token and its suffixes to the previous one; otherwise they are
// released along with tk. The EOF token cannot be removed.
func (lx *Lexer) Remove(tk *token.Token, keepFixes bool) {
	if tk.Kind == token.EOF {
		panic("lexer: remove of EOF token")
	}

	if keepFixes {
		nx := tk.Next()
		pv := tk.Prev()
		if pv == nil {
			// Nothing in front, the suffixes end up before next prefixes.
			moveFixes(&tk.Suffixes, &nx.Prefixes, nx, true)
		} else {
			moveFixes(&tk.Suffixes, &pv.Suffixes, pv, false)
		}
		moveFixes(&tk.Prefixes, &nx.Prefixes, nx, true)
	} else {
		for i := range tk.Prefixes {
			token.BranchUnlink(tk.Prefix(i))
		}
	}

	if tk.Flags&token.FlagStamp != 0 {
		tk.Flags &^= token.FlagStamp
		if i := slices.Index(lx.stamps, tk); i >= 0 {
			lx.stamps = slices.Delete(lx.stamps, i, i+1)
		}
		lx.arena.Release(tk)
	}
	if tk.Flags&token.FlagUnmute != 0 {
		lx.disarmUnmute()
	}

	if lx.st.tk == tk {
		lx.st.tk = tk.Prev()
	}
	lx.tokens.Unlink(tk)
	lx.arena.Release(tk)
}

// moveFixes transfers the fixups in src to dst, in front of the existing
// ones when front is set. Moved directives are reparented to owner.
func moveFixes(src, dst *[]token.Ref, owner *token.Token, front bool) {
	if len(*src) == 0 {
		return
	}
	moved := *src
	*src = nil
	for i := range moved {
		fx := owner.Arena().Get(moved[i])
		fx.Flags |= token.FlagDangling
		if fx.Kind.IsCpp() {
			fx.Branch.Parent = owner.ID()
		}
	}
	if front {
		*dst = slices.Insert(*dst, 0, moved...)
	} else {
		*dst = append(*dst, moved...)
	}
}
