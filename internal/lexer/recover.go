package lexer

import (
	"slices"

	"cfmt/internal/logging"
	"cfmt/internal/token"
)

// Stamp marks the last consumed token as a point the cursor can be rewound
// to by Branch and Recover. Stamping the same token twice is a no-op.
func (lx *Lexer) Stamp() {
	tk := lx.st.tk
	if tk == nil || tk.Flags&token.FlagStamp != 0 {
		return
	}
	lx.log.Debug("stamp", logging.FieldToken, tk)
	tk.Flags |= token.FlagStamp
	lx.arena.Retain(tk)
	lx.stamps = append(lx.stamps, tk)
}

// Stamps returns the number of live stamps.
func (lx *Lexer) Stamps() int { return len(lx.stamps) }

// IsBranch reports whether the cursor halted in front of an #else/#elif arm.
func (lx *Lexer) IsBranch() bool {
	back, ok := lx.Back()
	return ok && back.BranchOf() != nil
}

// Branch takes the next arm of the conditional the cursor halted at. The
// tokens of the arm consumed so far are removed and the cursor is rewound
// to the last stamp. It reports false when the cursor is not at a branch.
func (lx *Lexer) Branch() bool {
	back, ok := lx.Back()
	if !ok {
		return false
	}
	br := back.BranchOf()
	if br == nil {
		return false
	}
	nx := br.BranchNext()
	dst := nx.BranchParent()
	lx.log.Debug("branch",
		logging.FieldFrom, br, logging.FieldTo, nx,
		logging.FieldToken, br.BranchParent())

	rm := br.BranchParent()
	token.BranchUnlink(br)
	for rm != nil && rm != dst {
		next := rm.Next()
		lx.log.Debug("remove", logging.FieldToken, rm)
		lx.Remove(rm, false)
		rm = next
	}

	// Tokens emitted before dst are already part of the output, crossing
	// dst while reparsing turns emission back on.
	lx.disarmUnmute()
	lx.armUnmute(dst)

	lx.seek(lx.lastStamp(0))
	return true
}

// Recover folds the conditional closest to the cursor into a single
// verbatim directive and rewinds the cursor to the last stamp preceding it.
// It returns the number of documents produced since that stamp, which the
// caller must discard, or 0 when there is no conditional left to fold.
func (lx *Lexer) Recover() int {
	back, ok := lx.Back()
	if !ok {
		back = lx.tokens.First()
	}
	lx.log.Debug("recover", logging.FieldToken, back)
	br := recoverBranch(back)
	if br == nil {
		return 0
	}
	lx.log.Debug("fold",
		logging.FieldFrom, br, logging.FieldTo, br.BranchNext(),
		logging.FieldToken, br.BranchParent())

	// Stamps may go away with the folded tokens, count them first.
	line := br.Line
	ndocs := 1
	for i := len(lx.stamps) - 1; i >= 0 && lx.stamps[i].Line >= line; i-- {
		ndocs++
	}

	lx.arena.Retain(br)
	lx.fold(br)
	lx.arena.Release(br)

	seek := lx.lastStamp(line)
	lx.log.Debug("rewind", logging.FieldSeek, seek, logging.FieldDocs, ndocs)
	lx.seek(seek)
	return ndocs
}

// lastStamp returns the last stamp located before line, or the last stamp
// at all when line is zero.
func (lx *Lexer) lastStamp(line uint32) *token.Token {
	for i := len(lx.stamps) - 1; i >= 0; i-- {
		if line == 0 || lx.stamps[i].Line < line {
			return lx.stamps[i]
		}
	}
	return nil
}

func (lx *Lexer) seek(tk *token.Token) {
	lx.st.tk = tk
	lx.st.err = 0
}

// fold replaces the conditional starting at src, up to the next directive
// of its chain, with one Cpp prefix covering the same source bytes.
func (lx *Lexer) fold(src *token.Token) {
	dst := src.BranchNext()
	lx.arena.Retain(dst)
	defer lx.arena.Release(dst)

	srcParent := src.BranchParent()
	dstParent := dst.BranchParent()

	prefix := lx.arena.New(token.Cpp, 0, lx.src[src.Off:dst.Off+uint32(len(dst.Text))]) // #nosec G115
	prefix.Off, prefix.Line, prefix.Col = src.Off, src.Line, src.Col

	// Prefixes of the destination up to dst are covered by the new one.
	for len(dstParent.Prefixes) > 0 {
		px := lx.arena.Get(dstParent.Prefixes[0])
		dstParent.Prefixes = dstParent.Prefixes[1:]
		lx.log.Debug("remove prefix", logging.FieldToken, px)
		for token.BranchUnlink(px) == 0 {
		}
		lx.arena.Release(px)
		if px == dst {
			break
		}
	}
	prefix.Branch.Parent = dstParent.ID()
	dstParent.Prefixes = slices.Insert(dstParent.Prefixes, 0, prefix.ID())

	// Prefixes of the source in front of src are not covered, keep them.
	if srcParent != dstParent {
		if i := slices.Index(srcParent.Prefixes, src.ID()); i > 0 {
			kept := slices.Clone(srcParent.Prefixes[:i])
			srcParent.Prefixes = slices.Delete(srcParent.Prefixes, 0, i)
			for _, r := range kept {
				lx.arena.Get(r).Branch.Parent = dstParent.ID()
			}
			dstParent.Prefixes = slices.Insert(dstParent.Prefixes, 0, kept...)
		}
	}

	unmute := false
	for rm := srcParent; rm != nil && rm != dstParent; {
		next := rm.Next()
		lx.log.Debug("remove", logging.FieldToken, rm)
		if rm.Flags&token.FlagUnmute != 0 {
			unmute = true
		}
		lx.Remove(rm, false)
		rm = next
	}
	if unmute {
		lx.armUnmute(dstParent)
	}
}

// Unmute returns the token whose emission ends a muted region, or nil.
func (lx *Lexer) Unmute() *token.Token { return lx.unmute }

func (lx *Lexer) armUnmute(tk *token.Token) {
	if lx.unmute != nil {
		panic("lexer: unmute token already armed")
	}
	tk.Flags |= token.FlagUnmute
	lx.arena.Retain(tk)
	lx.unmute = tk
}

func (lx *Lexer) disarmUnmute() {
	if lx.unmute == nil {
		return
	}
	tk := lx.unmute
	lx.unmute = nil
	tk.Flags &^= token.FlagUnmute
	lx.arena.Release(tk)
}

type recoverFlags uint8

const (
	recoverBackward recoverFlags = 1 << iota
	recoverForward
	recoverIntact
)

// recoverBranch finds the conditional to fold relative to tk. Chains that
// Branch already cut into are only considered once no intact chain is left.
func recoverBranch(tk *token.Token) *token.Token {
	for _, flags := range []recoverFlags{
		recoverBackward | recoverIntact,
		recoverForward | recoverIntact,
		recoverBackward,
		recoverForward,
	} {
		if br := recoverBranchDir(tk, flags); br != nil {
			return br
		}
	}
	return nil
}

func recoverBranchDir(tk *token.Token, flags recoverFlags) *token.Token {
	for tk != nil {
		for i := range tk.Prefixes {
			px := tk.Prefix(i)
			switch px.Kind {
			case token.CppIf:
				return px
			case token.CppEndif:
				pv := px.BranchPrev()
				if flags&recoverIntact != 0 && pv != nil &&
					pv.Kind == token.CppElse && pv.Branch.Pv == 0 {
					return nil
				}
				return pv
			}
		}
		if flags&recoverForward != 0 {
			tk = tk.Next()
		} else {
			tk = tk.Prev()
		}
	}
	return nil
}
