// Package testkit holds checks shared by the tests and fuzz harnesses of
// the formatter pipeline.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cfmt/internal/lexer"
	"cfmt/internal/source"
	"cfmt/internal/token"
)

// CheckTokenInvariants runs the invariants of a freshly lexed file:
// 1) the texts of every token and fixup, in stream order, spell the content
// 2) every text sits at its offset and offsets never go back
// 3) directive chains link both ways and each linked directive is a prefix
// of its parent
func CheckTokenInvariants(lx *lexer.Lexer, sf *source.File) error {
	if lx == nil || sf == nil {
		return fmt.Errorf("nil lexer or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var b strings.Builder
	var last uint32
	check := func(tk *token.Token) error {
		b.WriteString(tk.Text)
		if tk.Flags&token.FlagDirty != 0 {
			return nil
		}
		end := tk.Off + uint32(len(tk.Text)) // #nosec G115 -- bounded by the content size
		if end > size {
			return fmt.Errorf("%s at %d ends beyond content: %d > %d", tk.Kind, tk.Off, end, size)
		}
		if got := string(sf.Content[tk.Off:end]); got != tk.Text {
			return fmt.Errorf("%s at %d: text %q, content %q", tk.Kind, tk.Off, tk.Text, got)
		}
		if tk.Off < last {
			return fmt.Errorf("%s at %d precedes the previous token ending at %d", tk.Kind, tk.Off, last)
		}
		last = end
		return nil
	}

	for _, tk := range lx.Tokens() {
		for i := range tk.Prefixes {
			fx := tk.Prefix(i)
			if err := check(fx); err != nil {
				return fmt.Errorf("prefix: %w", err)
			}
			if err := checkBranch(fx, tk); err != nil {
				return err
			}
		}
		if err := check(tk); err != nil {
			return err
		}
		for i := range tk.Suffixes {
			if err := check(tk.Suffix(i)); err != nil {
				return fmt.Errorf("suffix: %w", err)
			}
		}
	}

	if got := b.String(); got != string(sf.Content) {
		return fmt.Errorf("stream spells %d bytes, content has %d", len(got), len(sf.Content))
	}
	return nil
}

func checkBranch(fx, owner *token.Token) error {
	if !fx.Kind.IsCpp() {
		return nil
	}
	if fx.Branch.Parent != 0 && fx.BranchParent() != owner {
		return fmt.Errorf("%s at %d: parent is not the token it prefixes", fx.Kind, fx.Off)
	}
	if nx := fx.BranchNext(); nx != nil && nx.BranchPrev() != fx {
		return fmt.Errorf("%s at %d: next directive does not link back", fx.Kind, fx.Off)
	}
	if pv := fx.BranchPrev(); pv != nil && pv.BranchNext() != fx {
		return fmt.Errorf("%s at %d: previous directive does not link forward", fx.Kind, fx.Off)
	}
	return nil
}
