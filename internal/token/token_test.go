package token_test

import (
	"testing"

	"cfmt/internal/token"
)

func TestLookupKeywordAliases(t *testing.T) {
	cases := map[string]token.Kind{
		"int":          token.KwInt,
		"__asm":        token.KwAsm,
		"__asm__":      token.KwAsm,
		"__attribute":  token.KwAttribute,
		"__restrict":   token.KwRestrict,
		"__volatile":   token.KwVolatile,
		"__volatile__": token.KwVolatile,
	}
	for text, want := range cases {
		got, ok := token.LookupKeyword(text)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v; want %v", text, got, ok, want)
		}
	}
	for _, text := range []string{"Int", "foo", "+", "__volatile_"} {
		if k, ok := token.LookupKeyword(text); ok {
			t.Errorf("LookupKeyword(%q) = %v, want miss", text, k)
		}
	}
}

func TestTableFlags(t *testing.T) {
	tab := token.DefaultTable()
	cases := []struct {
		text  string
		kind  token.Kind
		flags token.Flags
	}{
		{"*", token.Star, token.FlagAmbiguous | token.FlagBinary | token.FlagSpace},
		{"<<=", token.LessLessEqual, token.FlagAssign},
		{"=", token.Equal, token.FlagAmbiguous | token.FlagAssign},
		{"...", token.Ellipsis, token.FlagType},
		{"\\", token.Backslash, token.FlagDiscard},
		{"static", token.KwStatic, token.FlagStorage},
		{"const", token.KwConst, token.FlagQualifier},
	}
	for _, c := range cases {
		e, ok := tab.Lookup(c.text)
		if !ok || e.Kind != c.kind || e.Flags != c.flags {
			t.Errorf("Lookup(%q) = %+v, %v; want %v %v", c.text, e, ok, c.kind, c.flags)
		}
	}
	if e, ok := tab.Canonical(token.KwVolatile); !ok || e.Text != "volatile" {
		t.Errorf("Canonical(volatile) = %+v", e)
	}
}

func TestKindNamesRoundTrip(t *testing.T) {
	for _, k := range []token.Kind{token.Less, token.LessEqual, token.CppElse, token.Ident, token.EOF} {
		got, ok := token.KindByName(k.String())
		if !ok || got != k {
			t.Errorf("KindByName(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if token.Kind(255).String() != "INVALID" {
		t.Error("out of range kind must print INVALID")
	}
}

func TestArenaRecyclesSlots(t *testing.T) {
	a := token.NewArena()
	x := a.New(token.Ident, 0, "x")
	id := x.ID()
	a.Retain(x)
	a.Release(x)
	if a.Get(id) == nil {
		t.Fatal("token released while still referenced")
	}
	a.Release(x)
	if a.Get(id) != nil || a.Live() != 0 {
		t.Fatalf("expected slot %d to be free, live=%d", id, a.Live())
	}
	y := a.New(token.Ident, 0, "y")
	if y.ID() != id {
		t.Errorf("expected slot reuse, got %d want %d", y.ID(), id)
	}
}

func TestListEdits(t *testing.T) {
	a := token.NewArena()
	l := token.NewList(a)
	b := a.New(token.Ident, 0, "b")
	l.PushBack(b)
	l.InsertBefore(a.New(token.Ident, 0, "a"), b)
	l.InsertAfter(a.New(token.Ident, 0, "c"), b)

	var got string
	for _, tk := range l.All() {
		got += tk.Text
	}
	if got != "abc" || l.Len() != 3 {
		t.Fatalf("list = %q (len %d)", got, l.Len())
	}
	l.Unlink(b)
	if l.First().Next() != l.Last() || l.Last().Prev().Text != "a" {
		t.Error("unlink did not rejoin neighbours")
	}
}

// chain builds #if/#else/#endif prefixes on three hosts and links them.
func chain(a *token.Arena) (cif, celse, cendif *token.Token) {
	cif = a.New(token.CppIf, 0, "#if A\n")
	celse = a.New(token.CppElse, 0, "#else\n")
	cendif = a.New(token.CppEndif, 0, "#endif\n")
	cif.Branch.Nx = celse.ID()
	celse.Branch.Pv, celse.Branch.Nx = cif.ID(), cendif.ID()
	cendif.Branch.Pv = celse.ID()
	return cif, celse, cendif
}

func TestBranchUnlink(t *testing.T) {
	a := token.NewArena()

	cif, celse, cendif := chain(a)
	if got := token.BranchUnlink(cif); got != 1 {
		t.Fatalf("unlink #if = %d", got)
	}
	if cif.Kind != token.Cpp || celse.Branch.Pv != 0 || celse.Branch.Nx != cendif.ID() {
		t.Fatalf("unlinking #if must keep the #else/#endif link: %+v", celse.Branch)
	}

	cif, celse, cendif = chain(a)
	if got := token.BranchUnlink(celse); got != 0 {
		t.Fatalf("first unlink of #else = %d, want 0", got)
	}
	if cif.Kind != token.Cpp {
		t.Error("#if left without a successor must degrade to Cpp")
	}
	if got := token.BranchUnlink(celse); got != 1 {
		t.Fatalf("second unlink of #else = %d, want 1", got)
	}
	if celse.Kind != token.Cpp || cendif.Kind != token.Cpp {
		t.Errorf("kinds after full unlink: %v %v", celse.Kind, cendif.Kind)
	}

	plain := a.New(token.Comment, 0, "/* x */")
	if got := token.BranchUnlink(plain); got != -1 {
		t.Errorf("unlink of a comment = %d, want -1", got)
	}
}

func TestReleaseDetachesPrefixChains(t *testing.T) {
	a := token.NewArena()
	host := a.New(token.Ident, 0, "x")
	cif, celse, cendif := chain(a)
	host.Prefixes = append(host.Prefixes, celse.ID())
	a.Release(host)
	if cif.Kind != token.Cpp || cendif.Kind != token.Cpp {
		t.Errorf("chain neighbours of a released directive must degrade: %v %v", cif.Kind, cendif.Kind)
	}
	if cendif.Branch.Pv != 0 {
		t.Error("dangling link to a released directive")
	}
}
