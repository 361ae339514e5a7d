package lexer

import (
	"cfmt/internal/diag"
	"cfmt/internal/token"
)

// linkBranches connects the #if/#elif/#else/#endif prefixes of the stream
// into chains. Every directive of a chain is a prefix of a different token;
// an arm without tokens is dropped from its chain, and unbalanced
// directives degrade to plain Cpp.
func (lx *Lexer) linkBranches() {
	var stack [][]*token.Token
	for tk := lx.tokens.First(); tk != nil; tk = tk.Next() {
		for i := range tk.Prefixes {
			px := tk.Prefix(i)
			switch px.Kind {
			case token.CppIf:
				px.Branch.Parent = tk.ID()
				stack = append(stack, []*token.Token{px})

			case token.CppElse, token.CppEndif:
				if len(stack) == 0 {
					lx.report(diag.LexUnbalancedConditional, diag.SevWarning, lx.Span(px), "conditional directive without #if")
					px.Kind = token.Cpp
					continue
				}
				px.Branch.Parent = tk.ID()
				top := len(stack) - 1
				chain := stack[top]
				tail := chain[len(chain)-1]
				if tail.Branch.Parent == tk.ID() {
					if px.Kind == token.CppElse {
						px.Kind = token.Cpp
						continue
					}
					if tail.Kind == token.CppIf {
						tail.Kind = token.Cpp
						px.Kind = token.Cpp
						stack = stack[:top]
						continue
					}
					tail.Kind = token.Cpp
					chain = chain[:len(chain)-1]
					tail.Branch = token.Branch{Parent: tail.Branch.Parent}
					tail = chain[len(chain)-1]
					tail.Branch.Nx = 0
				}
				tail.Branch.Nx = px.ID()
				px.Branch.Pv = tail.ID()
				if px.Kind == token.CppEndif {
					stack = stack[:top]
				} else {
					stack[top] = append(chain, px)
				}
			}
		}
	}

	for _, chain := range stack {
		head := chain[0]
		lx.report(diag.LexUnbalancedConditional, diag.SevWarning, lx.Span(head), "unterminated conditional")
		for _, px := range chain {
			px.Branch = token.Branch{Parent: px.Branch.Parent}
			px.Kind = token.Cpp
		}
	}
}
