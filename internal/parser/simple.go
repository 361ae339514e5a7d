package parser

import (
	"cfmt/internal/lexer"
	"cfmt/internal/token"
)

// Simplify rewrites the stream of lx ahead of Parse and returns the number
// of edits made. A storage class following other specifiers of a
// declaration is moved in front of them, and a lone signed or unsigned gets
// an explicit int. Specifier runs carrying comments or directives are left
// alone.
func Simplify(lx *lexer.Lexer) int {
	edits := 0
	for tk := lx.First(); tk != nil && tk.Kind != token.EOF; tk = tk.Next() {
		if !declStart(tk) {
			continue
		}
		run := specifierRun(tk)
		if len(run) == 0 {
			continue
		}
		stop := run[len(run)-1].Next()
		edits += storageFirst(lx, run)
		edits += implicitInt(lx, run, stop)
		tk = stop.Prev()
	}
	return edits
}

// declStart reports whether tk may open a declaration: it starts the file
// or follows the end of a statement or block.
func declStart(tk *token.Token) bool {
	pv := tk.Prev()
	if pv == nil {
		return true
	}
	switch pv.Kind {
	case token.Semi, token.LBrace, token.RBrace:
		return true
	}
	return false
}

// specifierRun returns the keywords opening a declaration at tk, or nil
// when a record or enum type is among them or any of them cannot be moved.
func specifierRun(tk *token.Token) []*token.Token {
	var run []*token.Token
	for ; tk != nil; tk = tk.Next() {
		if tk.Kind == token.Ellipsis || tk.Flags&(token.FlagStorage|token.FlagQualifier|token.FlagType) == 0 {
			break
		}
		switch tk.Kind {
		case token.KwStruct, token.KwUnion, token.KwEnum:
			return nil
		}
		if !tk.IsMoveable() {
			return nil
		}
		run = append(run, tk)
	}
	return run
}

func storageFirst(lx *lexer.Lexer, run []*token.Token) int {
	for i, tk := range run {
		if tk.Flags&token.FlagStorage == 0 {
			continue
		}
		if i == 0 || (tk.Kind != token.KwStatic && tk.Kind != token.KwExtern) {
			return 0
		}
		if i == len(run)-1 && tk.HasLine(1) {
			tk.Trim()
			run[i-1].AddOptLine()
		}
		lx.MoveBefore(run[0], tk)
		return 1
	}
	return 0
}

func implicitInt(lx *lexer.Lexer, run []*token.Token, next *token.Token) int {
	var sign *token.Token
	for _, tk := range run {
		if tk.Flags&token.FlagType == 0 || tk.Kind == token.KwTypedef {
			continue
		}
		if sign != nil || (tk.Kind != token.KwSigned && tk.Kind != token.KwUnsigned) {
			return 0
		}
		sign = tk
	}
	if sign == nil {
		return 0
	}
	switch {
	case next.Kind == token.Star:
	case next.Kind == token.Ident && next.Next() != nil && next.Next().Kind != token.Ident:
	default:
		return 0
	}
	lx.InsertBefore(next, token.KwInt, "int")
	return 1
}
