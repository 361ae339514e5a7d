package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cfmt/internal/diag"
	"cfmt/internal/token"
)

func popAll(t *testing.T, pop func() (*token.Token, bool)) []string {
	t.Helper()
	var out []string
	for {
		tk, ok := pop()
		if !ok {
			out = append(out, "<halt>")
			return out
		}
		out = append(out, tk.Text)
		if tk.Kind == token.EOF {
			return out
		}
	}
}

func TestPopPeek(t *testing.T) {
	lx, _ := newLexer(t, "a b c")
	if tk, ok := lx.Peek(); !ok || tk.Text != "a" {
		t.Fatalf("Peek() = %v, %v", tk, ok)
	}
	if _, ok := lx.Back(); ok {
		t.Fatal("Back() before first pop succeeded")
	}
	if tk, _ := lx.Pop(); tk.Text != "a" {
		t.Fatalf("Pop() = %v", tk)
	}
	s := lx.PeekEnter()
	lx.Pop()
	lx.Pop()
	if !lx.Peeking() {
		t.Error("not peeking inside PeekEnter")
	}
	lx.PeekLeave(s)
	if back, _ := lx.Back(); back.Text != "a" {
		t.Errorf("Back() after PeekLeave = %v", back)
	}
	if diff := cmp.Diff([]string{"b", "c", ""}, popAll(t, lx.Pop)); diff != "" {
		t.Errorf("pop mismatch (-want +got):\n%s", diff)
	}
	// EOF is sticky.
	if tk, ok := lx.Pop(); !ok || tk.Kind != token.EOF {
		t.Errorf("Pop() past EOF = %v, %v", tk, ok)
	}
}

func TestIfAndFlags(t *testing.T) {
	lx, _ := newLexer(t, "static int x = 1;")
	if _, ok := lx.If(token.KwInt); ok {
		t.Fatal("If(int) matched static")
	}
	if tk, ok := lx.IfFlags(token.FlagStorage); !ok || tk.Kind != token.KwStatic {
		t.Fatalf("IfFlags(storage) = %v, %v", tk, ok)
	}
	if _, ok := lx.PeekIfFlags(token.FlagType); !ok {
		t.Error("PeekIfFlags(type) missed int")
	}
	if eq, ok := lx.PeekUntil(token.Equal); !ok || eq.Col != 14 {
		t.Errorf("PeekUntil(=) = %v, %v", eq, ok)
	}
	if back, _ := lx.Back(); back.Kind != token.KwStatic {
		t.Errorf("PeekUntil moved the cursor to %v", back)
	}
	if semi, ok := lx.Until(token.Semi); !ok || semi.Kind != token.Semi {
		t.Errorf("Until(;) = %v, %v", semi, ok)
	}
	if _, ok := lx.Until(token.Semi); ok {
		t.Error("Until(;) past the end matched")
	}
}

func TestPairs(t *testing.T) {
	lx, _ := newLexer(t, "(a, (b), c) d")
	end, ok := lx.PeekIfPair(token.LParen, token.RParen)
	if !ok || end.Col != 11 {
		t.Fatalf("PeekIfPair() = %v, %v", end, ok)
	}
	if _, ok := lx.Back(); ok {
		t.Fatal("PeekIfPair moved the cursor")
	}
	if _, ok := lx.IfPair(token.LParen, token.RParen); !ok {
		t.Fatal("IfPair() failed")
	}
	if tk, _ := lx.Pop(); tk.Text != "d" {
		t.Errorf("Pop() after pair = %v", tk)
	}

	lx, _ = newLexer(t, "(a, b")
	if _, ok := lx.PeekIfPair(token.LParen, token.RParen); ok {
		t.Error("PeekIfPair matched an unbalanced pair")
	}
}

func TestPeekUntilLoose(t *testing.T) {
	lx, _ := newLexer(t, "f(a, b), g; }")
	if tk, ok := lx.PeekUntilLoose(token.Comma, nil); !ok || tk.Col != 8 {
		t.Errorf("PeekUntilLoose(,) = %v, %v", tk, ok)
	}
	if _, ok := lx.PeekUntilLoose(token.Equal, nil); ok {
		t.Error("PeekUntilLoose(=) matched a missing token")
	}
	semi, _ := lx.PeekUntil(token.Semi)
	if _, ok := lx.PeekUntilLoose(token.RBrace, semi); ok {
		t.Error("PeekUntilLoose(}) crossed the stop token")
	}
}

func TestPeekIfPrefixFlags(t *testing.T) {
	lx, _ := newLexer(t, "#define X 1\nint x;\n")
	px, ok := lx.PeekIfPrefixFlags(token.FlagCpp)
	if !ok || px.Kind != token.Cpp {
		t.Errorf("PeekIfPrefixFlags(cpp) = %v, %v", px, ok)
	}
}

func TestExpectReportsOnce(t *testing.T) {
	lx, bag := newLexer(t, "int x")
	lx.Pop()
	lx.Pop()
	if _, ok := lx.Expect(token.Semi); ok {
		t.Fatal("Expect(;) matched EOF")
	}
	lx.Expect(token.Semi)
	if lx.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2", lx.Errors())
	}
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynUnexpectedToken || d.Message != `expected ";", got end of file` {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestExpectSilentWhilePeeking(t *testing.T) {
	lx, bag := newLexer(t, "int x")
	s := lx.PeekEnter()
	lx.Expect(token.Semi)
	lx.PeekLeave(s)
	if bag.Len() != 0 {
		t.Errorf("diagnostics while peeking: %+v", bag.Items())
	}
}

func TestPopHaltsAtBranch(t *testing.T) {
	lx, _ := newLexer(t, "#if A\nfoo();\n#else\nbar();\n#endif\nbaz;\n")
	if diff := cmp.Diff([]string{"foo", "(", ")", ";", "<halt>"}, popAll(t, lx.Pop)); diff != "" {
		t.Errorf("pop mismatch (-want +got):\n%s", diff)
	}
	if !lx.IsBranch() {
		t.Error("IsBranch() = false at halt")
	}
	// Halting is sticky until the branch is taken.
	if _, ok := lx.Pop(); ok {
		t.Error("Pop() resumed without Branch()")
	}
}

func TestPeekFollowsLastArm(t *testing.T) {
	lx, _ := newLexer(t, "#if A\nfoo();\n#else\nbar();\n#endif\nbaz;\n")
	lx.Until(token.Semi)
	if tk, ok := lx.Peek(); !ok || tk.Text != "baz" {
		t.Errorf("Peek() at branch = %v, %v", tk, ok)
	}
	if back, _ := lx.Back(); back.Kind != token.Semi {
		t.Errorf("Back() = %v", back)
	}
}
