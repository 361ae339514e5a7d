package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cfmt/internal/token"
)

func TestInsertAndCopy(t *testing.T) {
	lx, _ := newLexer(t, "int x\n")
	x := lx.Tokens()[1]
	semi := lx.InsertAfter(x, token.Semi, ";")
	if semi.Flags&token.FlagDirty == 0 || semi.Line != x.Line {
		t.Errorf("inserted %s flags=%s", semi, semi.Flags)
	}
	star := lx.InsertBefore(x, token.Star, "*")
	if star.Flags&token.FlagBinary == 0 {
		t.Errorf("inserted * lacks table flags: %s", star.Flags)
	}
	lx.CopyAfter(semi, x)
	if diff := cmp.Diff([]string{"int", "*", "x", ";", "x", ""}, texts(lx.Tokens())); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}
}

func TestMove(t *testing.T) {
	lx, _ := newLexer(t, "a b c")
	toks := lx.Tokens()
	lx.MoveAfter(toks[2], toks[0])
	lx.MoveBefore(toks[0], toks[1])
	if diff := cmp.Diff([]string{"c", "b", "a", ""}, texts(lx.Tokens())); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveKeepFixes(t *testing.T) {
	lx, _ := newLexer(t, "a; /* c */\n/* d */\nb;\n")
	toks := lx.Tokens()
	semi, b := toks[1], toks[2]
	lx.Remove(semi, true)
	a := lx.First()
	if !a.HasSuffix(token.Comment) || !a.HasLine(1) {
		t.Errorf("suffixes not moved onto %s", a)
	}
	if !b.HasPrefix(token.Comment) {
		t.Errorf("prefixes of %s lost", b)
	}
	for i := range a.Suffixes {
		if a.Suffix(i).Flags&token.FlagDangling == 0 {
			t.Errorf("moved %s not dangling", a.Suffix(i))
		}
	}
	if got := reassemble(lx); got != "a /* c */\n/* d */\nb;\n" {
		t.Errorf("reassemble() = %q", got)
	}
}

func TestRemoveFirstKeepsSuffixesInFront(t *testing.T) {
	lx, _ := newLexer(t, "/* p */\na /* s */\nb\n")
	lx.Remove(lx.First(), true)
	if got := reassemble(lx); got != "/* p */\n /* s */\nb\n" {
		t.Errorf("reassemble() = %q", got)
	}
}

func TestRemoveReleasesTokens(t *testing.T) {
	lx, _ := newLexer(t, "a /* s */\nb\n")
	live := lx.Arena().Live()
	first := lx.First()
	n := 1 + len(first.Prefixes) + len(first.Suffixes)
	lx.Remove(first, false)
	if got := lx.Arena().Live(); got != live-n {
		t.Errorf("Live() = %d, want %d", got, live-n)
	}
}
