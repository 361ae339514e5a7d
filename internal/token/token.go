package token

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cfmt/internal/source"
)

// Ref addresses a token inside an Arena. The zero Ref is nil.
type Ref int32

// Branch links a conditional directive to its neighbours in the same
// #if/#elif/#else/#endif chain. Parent is the ordinary token the directive
// is a prefix of.
type Branch struct {
	Pv     Ref
	Nx     Ref
	Parent Ref
}

// Token is a single lexeme with its fixups. Ordinary tokens live in a List;
// comments, directives and whitespace hang off them as prefixes (before) and
// suffixes (after).
type Token struct {
	Kind  Kind
	Flags Flags
	Off   uint32
	Line  uint32 // 1-based
	Col   uint32 // 1-based
	Text  string

	Prefixes []Ref
	Suffixes []Ref
	Branch   Branch

	arena      *Arena
	id         Ref
	prev, next Ref
	refs       int32
}

// ID returns the handle of t inside its arena.
func (t *Token) ID() Ref { return t.id }

// Arena returns the arena owning t.
func (t *Token) Arena() *Arena { return t.arena }

// Refs returns the number of live references held on t.
func (t *Token) Refs() int32 { return t.refs }

// Span returns the byte range of the token text in file.
func (t *Token) Span(file source.FileID) source.Span {
	n, err := safecast.Conv[uint32](len(t.Text))
	if err != nil || t.Flags&FlagDirty != 0 {
		n = 0
	}
	return source.Span{File: file, Start: t.Off, End: t.Off + n}
}

// Is reports whether t is non-nil and of kind k.
func (t *Token) Is(k Kind) bool { return t != nil && t.Kind == k }

// SetText replaces the token text with an owned string.
func (t *Token) SetText(s string) {
	t.Text = s
	t.Flags |= FlagDirty
}

// Cmp orders tokens by source line only; tokens on the same line compare
// equal.
func (t *Token) Cmp(u *Token) int {
	switch {
	case t.Line < u.Line:
		return -1
	case t.Line > u.Line:
		return 1
	default:
		return 0
	}
}

// Prefix returns the i-th prefix.
func (t *Token) Prefix(i int) *Token { return t.arena.Get(t.Prefixes[i]) }

// Suffix returns the i-th suffix.
func (t *Token) Suffix(i int) *Token { return t.arena.Get(t.Suffixes[i]) }

// Next returns the following token of the stream, or nil.
func (t *Token) Next() *Token { return t.arena.Get(t.next) }

// Prev returns the preceding token of the stream, or nil.
func (t *Token) Prev() *Token { return t.arena.Get(t.prev) }

func (t *Token) eachFix(refs []Ref, fn func(*Token) bool) bool {
	for _, r := range refs {
		if fx := t.arena.Get(r); fx != nil && fn(fx) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether t carries a prefix of kind k.
func (t *Token) HasPrefix(k Kind) bool {
	return t.eachFix(t.Prefixes, func(fx *Token) bool { return fx.Kind == k })
}

// HasSuffix reports whether t carries a suffix of kind k.
func (t *Token) HasSuffix(k Kind) bool {
	return t.eachFix(t.Suffixes, func(fx *Token) bool { return fx.Kind == k })
}

// NewlineCount returns the number of line breaks held by a whitespace fixup.
func (t *Token) NewlineCount() int { return strings.Count(t.Text, "\n") }

// HasLine reports whether t is followed by at least n line breaks in the
// source, n being 1 or 2.
func (t *Token) HasLine(n int) bool {
	skip := FlagOptSpace | FlagDiscard
	if n >= 2 {
		skip |= FlagOptLine
	}
	return t.eachFix(t.Suffixes, func(fx *Token) bool {
		return fx.Kind == Space && fx.Flags&skip == 0
	})
}

// HasSpaces reports whether t is followed by horizontal whitespace.
func (t *Token) HasSpaces() bool {
	return t.eachFix(t.Suffixes, func(fx *Token) bool {
		return fx.Kind == Space && fx.Flags&FlagOptSpace != 0
	})
}

// HasTabs reports whether the whitespace following t holds a tab.
func (t *Token) HasTabs() bool {
	return t.eachFix(t.Suffixes, func(fx *Token) bool {
		return fx.Kind == Space && fx.Flags&FlagOptSpace != 0 && strings.Contains(fx.Text, "\t")
	})
}

// HasIndent reports whether t is preceded by blanks in the source.
func (t *Token) HasIndent() bool {
	if len(t.Prefixes) == 0 {
		return false
	}
	last := t.Prefix(len(t.Prefixes) - 1)
	return last.Kind == Space && (strings.HasSuffix(last.Text, " ") || strings.HasSuffix(last.Text, "\t"))
}

// BranchPrev returns the previous directive of the chain t belongs to.
func (t *Token) BranchPrev() *Token { return t.arena.Get(t.Branch.Pv) }

// BranchNext returns the next directive of the chain t belongs to.
func (t *Token) BranchNext() *Token { return t.arena.Get(t.Branch.Nx) }

// BranchParent returns the ordinary token the directive t is a prefix of.
func (t *Token) BranchParent() *Token { return t.arena.Get(t.Branch.Parent) }

// IsMoveable reports whether t can be relocated without dragging comments
// or directives along.
func (t *Token) IsMoveable() bool {
	if t.eachFix(t.Prefixes, func(fx *Token) bool { return fx.Kind == Comment || fx.Kind.IsCpp() }) {
		return false
	}
	return !t.HasSuffix(Comment)
}

// IsBranch reports whether t starts an #else/#elif arm of a linked chain.
func (t *Token) IsBranch() bool {
	return t.BranchOf() != nil
}

// BranchOf returns the directive preceding the #else/#elif arm that t
// starts, or nil.
func (t *Token) BranchOf() *Token {
	for _, r := range t.Prefixes {
		fx := t.arena.Get(r)
		if fx != nil && fx.Kind == CppElse && fx.Branch.Pv != 0 {
			return t.arena.Get(fx.Branch.Pv)
		}
	}
	return nil
}

// Trim drops the line-break suffixes of t.
func (t *Token) Trim() {
	kept := t.Suffixes[:0]
	for _, r := range t.Suffixes {
		fx := t.arena.Get(r)
		if fx != nil && fx.Kind == Space && fx.Flags&FlagOptSpace == 0 {
			t.arena.Release(fx)
			continue
		}
		kept = append(kept, r)
	}
	t.Suffixes = kept
}

// AddOptLine appends a single line-break suffix to t unless it already
// ends its line.
func (t *Token) AddOptLine() {
	if t.HasLine(1) {
		return
	}
	nl := t.arena.New(Space, FlagOptLine|FlagDirty, "\n")
	nl.Line, nl.Col = t.Line, t.Col
	t.Suffixes = append(t.Suffixes, nl.id)
}

// String serializes t as KIND<line:col>("text").
func (t *Token) String() string {
	if t == nil {
		return "(null)"
	}
	return fmt.Sprintf("%s<%d:%d>(%q)", t.Kind, t.Line, t.Col, t.Text)
}

// Dump writes t and its fixups, one per line, for debugging.
func (t *Token) Dump(b *strings.Builder) {
	for _, r := range t.Prefixes {
		fmt.Fprintf(b, "  prefix %s\n", t.arena.Get(r))
	}
	b.WriteString(t.String())
	if t.Flags != 0 {
		fmt.Fprintf(b, " [%s]", t.Flags)
	}
	b.WriteByte('\n')
	for _, r := range t.Suffixes {
		fmt.Fprintf(b, "  suffix %s\n", t.arena.Get(r))
	}
}
