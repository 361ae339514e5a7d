package doc_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cfmt/internal/doc"
	"cfmt/internal/style"
)

func spaces(limit int) *style.Style {
	st := style.Defaults()
	st.UseTab = style.Never
	st.ColumnLimit = limit
	return st
}

func render(root *doc.Doc, st *style.Style) string {
	return string(doc.Render(root, st, doc.Options{}))
}

func TestStrWidth(t *testing.T) {
	tests := []struct {
		s    string
		col  int
		want int
	}{
		{"int", 0, 3},
		{"int\tx", 0, 9},
		{"int\tx", 3, 9},
		{"int\nx", 0, 1},
		{"int\n", 0, 0},
		{"\t", 8, 16},
		{"héllo", 0, 5},
		{"世界", 0, 4},
	}
	for _, tt := range tests {
		if got := doc.StrWidth(tt.s, tt.col); got != tt.want {
			t.Errorf("StrWidth(%q, %d) = %d, want %d", tt.s, tt.col, got, tt.want)
		}
	}
}

func call(root *doc.Doc) {
	g := root.Group()
	g.Literal("foo(")
	in := g.Indent(8)
	in.SoftLine()
	in.Literal("a,")
	in.Line()
	in.Literal("b")
	g.Literal(")")
}

func TestGroupFitOrBreak(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  string
	}{
		{"fits", 80, "foo(a, b)"},
		{"exact", 9, "foo(a, b)"},
		{"breaks", 8, "foo(\n        a,\n        b)"},
		{"unlimited", 0, "foo(a, b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := doc.New(doc.Concat)
			call(root)
			if diff := cmp.Diff(tt.want, render(root, spaces(tt.limit))); diff != "" {
				t.Errorf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupUsesTabs(t *testing.T) {
	root := doc.New(doc.Concat)
	call(root)
	st := style.Defaults()
	st.ColumnLimit = 6
	if diff := cmp.Diff("foo(\n\ta,\n\tb)", render(root, st)); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerGroupDecidesAlone(t *testing.T) {
	root := doc.New(doc.Concat)
	outer := root.Group()
	outer.Literal("aaaa")
	outer.Line()
	inner := outer.Group()
	inner.Literal("b")
	inner.Line()
	inner.Literal("c")
	if diff := cmp.Diff("aaaa\nb c", render(root, spaces(6))); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestScopeEndsMeasurement(t *testing.T) {
	build := func(scoped bool) *doc.Doc {
		root := doc.New(doc.Concat)
		g := root.Group()
		g.Literal("a")
		g.Line()
		body := g
		if scoped {
			body = g.Scope()
		}
		body.Literal("{")
		body.HardLine()
		body.Literal("}")
		return root
	}
	if diff := cmp.Diff("a {\n}", render(build(true), spaces(80))); diff != "" {
		t.Errorf("scoped (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("a\n{\n}", render(build(false), spaces(80))); diff != "" {
		t.Errorf("unscoped (-want +got):\n%s", diff)
	}
}

func TestIndentNewline(t *testing.T) {
	t.Run("pending until break", func(t *testing.T) {
		root := doc.New(doc.Concat)
		in := root.Indent(doc.IndentNewline | 4)
		in.Literal("a")
		in.HardLine()
		in.Literal("b")
		in.HardLine()
		root.Literal("c")
		if diff := cmp.Diff("a\n    b\nc", render(root, spaces(80))); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("nested indent", func(t *testing.T) {
		root := doc.New(doc.Concat)
		in := root.Indent(doc.IndentNewline | 4)
		in.Literal("a")
		nested := in.Indent(2)
		nested.HardLine()
		nested.Literal("b")
		in.HardLine()
		in.Literal("c")
		if diff := cmp.Diff("a\n      b\n    c", render(root, spaces(80))); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("dedent stops propagation", func(t *testing.T) {
		root := doc.New(doc.Concat)
		in := root.Indent(doc.IndentNewline | 4)
		in.Literal("a")
		de := in.Dedent()
		de.HardLine()
		de.Literal("#x")
		in.HardLine()
		in.Literal("b")
		if diff := cmp.Diff("a\n#x\n    b", render(root, spaces(80))); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("never fired", func(t *testing.T) {
		root := doc.New(doc.Concat)
		root.Indent(doc.IndentNewline | 4).Literal("a")
		root.HardLine()
		root.Literal("b")
		if diff := cmp.Diff("a\nb", render(root, spaces(80))); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
}

func TestIndentForceAndParens(t *testing.T) {
	root := doc.New(doc.Concat)
	root.Literal("ab")
	root.Indent(doc.IndentForce | 8).Literal("c")
	if diff := cmp.Diff("ab      c", render(root, spaces(80))); diff != "" {
		t.Errorf("force (-want +got):\n%s", diff)
	}

	parens := func() *doc.Doc {
		root := doc.New(doc.Concat)
		root.Literal("f(")
		p := root.Indent(doc.IndentParens)
		p.Literal("a,")
		p.HardLine()
		p.Literal("b")
		return root
	}
	st := spaces(80)
	st.AlignAfterOpenBracket = style.Align
	if diff := cmp.Diff("f(a,\n  b", render(parens(), st)); diff != "" {
		t.Errorf("aligned parens (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("f(a,\n    b", render(parens(), spaces(80))); diff != "" {
		t.Errorf("continuation parens (-want +got):\n%s", diff)
	}
}

func TestAlignedParensIgnorePendingIndent(t *testing.T) {
	st := spaces(80)
	st.AlignAfterOpenBracket = style.Align
	root := doc.New(doc.Concat)
	stmt := root.Indent(4 | doc.IndentNewline)
	stmt.Literal("x = f(")
	args := stmt.Indent(doc.IndentParens)
	args.Literal("a,")
	args.HardLine()
	args.Literal("b)")
	stmt.HardLine()
	stmt.Literal("y")
	if diff := cmp.Diff("x = f(a,\n      b)\n    y", render(root, st)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMute(t *testing.T) {
	root := doc.New(doc.Concat)
	root.Literal("a")
	root.Mute(true)
	root.Literal("b")
	root.HardLine()
	root.Mute(false)
	root.Literal("c")
	if diff := cmp.Diff("ac", render(root, spaces(80))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestOptionalLine(t *testing.T) {
	build := func() *doc.Doc {
		root := doc.New(doc.Concat)
		g := root.Group()
		g.Literal("aaa")
		opt := g.Optional()
		opt.OptLine()
		opt.Literal("bbb")
		g.OptLine()
		g.Literal("c")
		return root
	}
	if diff := cmp.Diff("aaabbbc", render(build(), spaces(80))); diff != "" {
		t.Errorf("flat (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("aaa\nbbbc", render(build(), spaces(4))); diff != "" {
		t.Errorf("broken (-want +got):\n%s", diff)
	}
}

func TestMinimize(t *testing.T) {
	build := func(force bool) *doc.Doc {
		root := doc.New(doc.Concat)
		root.Literal("xxxxxxxx")
		mz := root.Minimize(doc.Candidate{Indent: 8, Force: force}, doc.Candidate{Indent: 2})
		mz.HardLine()
		mz.Literal("yyyyy")
		return root
	}
	if diff := cmp.Diff("xxxxxxxx\n  yyyyy", render(build(false), spaces(10))); diff != "" {
		t.Errorf("scored (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("xxxxxxxx\n        yyyyy", render(build(true), spaces(10))); diff != "" {
		t.Errorf("forced (-want +got):\n%s", diff)
	}
}

func TestMinimizeNeverPicksWorse(t *testing.T) {
	for limit := 4; limit <= 24; limit++ {
		root := doc.New(doc.Concat)
		root.Literal("int")
		mz := root.Minimize(doc.Candidate{Indent: 16}, doc.Candidate{Indent: 4}, doc.Candidate{Indent: 0})
		g := mz.Group()
		g.Literal("(*fn)(")
		in := g.Indent(4)
		in.SoftLine()
		in.Literal("int a,")
		in.Line()
		in.Literal("int b)")
		got := render(root, spaces(limit))

		best := -1
		for _, indent := range []int{16, 4, 0} {
			alt := doc.New(doc.Concat)
			alt.Literal("int")
			one := alt.Minimize(doc.Candidate{Indent: indent})
			one.Append(cloneGroup())
			if n := exceeding(render(alt, spaces(limit)), limit); best == -1 || n < best {
				best = n
			}
		}
		if n := exceeding(got, limit); n > best {
			t.Errorf("limit %d: chose %d exceeding lines, best is %d\n%s", limit, n, best, got)
		}
	}
}

func cloneGroup() *doc.Doc {
	g := doc.New(doc.Group)
	g.Literal("(*fn)(")
	in := g.Indent(4)
	in.SoftLine()
	in.Literal("int a,")
	in.Line()
	in.Literal("int b)")
	return g
}

func exceeding(out string, limit int) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if doc.StrWidth(line, 0) > limit {
			n++
		}
	}
	return n
}

func TestWidth(t *testing.T) {
	d := doc.New(doc.Concat)
	d.HardLine()
	d.Literal("int\tx")
	if got := doc.Width(d, nil); got != 9 {
		t.Errorf("Width = %d, want 9", got)
	}

	g := doc.New(doc.Group)
	g.Literal("ab")
	g.Line()
	g.Literal("c")
	if got := doc.Width(g, nil); got != 4 {
		t.Errorf("Width = %d, want 4", got)
	}
}

func TestTrimAndAlign(t *testing.T) {
	build := func() *doc.Doc {
		root := doc.New(doc.Concat)
		root.Literal("a")
		root.Align(3)
		root.HardLine()
		root.Literal("b")
		tabs := root.Align(1)
		tabs.SetAlign(doc.AlignSpec{Indent: 2, Spaces: 1, Tabs: true})
		root.Literal("c")
		return root
	}
	if diff := cmp.Diff("a   \nb\t\tc", render(build(), spaces(80))); diff != "" {
		t.Errorf("untrimmed (-want +got):\n%s", diff)
	}
	got := string(doc.Render(build(), spaces(80), doc.Options{Flags: doc.Trim}))
	if diff := cmp.Diff("a\nb\t\tc", got); diff != "" {
		t.Errorf("trimmed (-want +got):\n%s", diff)
	}
}

func TestVerbatimReindents(t *testing.T) {
	root := doc.New(doc.Concat)
	root.Literal("{")
	in := root.Indent(8)
	in.HardLine()
	in.Verbatim("  /* one\n   * two */\n")
	in.Literal("x;")
	if diff := cmp.Diff("{\n        /* one\n   * two */\n        x;", render(root, spaces(80))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEditing(t *testing.T) {
	root := doc.New(doc.Concat)
	a := root.Literal("a")
	c := root.Literal("c")
	root.AppendBefore(doc.New(doc.Literal), c).Annotate("empty")
	b := doc.New(doc.Concat)
	b.Literal("b")
	root.AppendBefore(b, c)
	if got := root.Len(); got != 4 {
		t.Fatalf("Len = %d, want 4", got)
	}
	if b.Parent() != root {
		t.Fatalf("parent not set")
	}
	if diff := cmp.Diff("abc", render(root, nil)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := root.RemoveTail(); got != c {
		t.Errorf("RemoveTail returned %v", got.Kind)
	}
	root.Remove(a)
	if diff := cmp.Diff("b", render(root, nil)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if c.Parent() != nil {
		t.Errorf("removed node keeps its parent")
	}
}

func TestDump(t *testing.T) {
	root := doc.New(doc.Concat)
	g := root.Group()
	g.Literal("x")
	g.Indent(doc.IndentParens | doc.IndentNewline).Line()
	root.Minimize(doc.Candidate{Indent: 4, Force: true}).Mute(true)
	want := `CONCAT {
  GROUP {
    LITERAL("x")
    INDENT(0|PARENS|NEWLINE) {
      LINE
    }
  }
  MINIMIZE(4!) {
    MUTE(true)
  }
}
`
	var sb strings.Builder
	if err := doc.Dump(&sb, root); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestLineEndingVerbatims(t *testing.T) {
	tests := []struct {
		name  string
		build func(root *doc.Doc)
		want  string
	}{
		{"end line absorbs break", func(root *doc.Doc) {
			root.Literal("x; // c")
			root.EndLine()
			root.HardLine()
			root.Literal("y;")
		}, "x; // c\ny;"},
		{"end line at line start", func(root *doc.Doc) {
			root.Literal("x;")
			root.HardLine()
			root.EndLine()
			root.HardLine()
			root.Literal("y;")
		}, "x;\n\ny;"},
		{"directive on fresh line", func(root *doc.Doc) {
			root.Literal("a")
			root.Indent(8).Dedent().Directive("  #if A\n")
			root.Literal("b")
		}, "a\n#if A\nb"},
		{"directive absorbs break", func(root *doc.Doc) {
			root.Directive("#endif\n")
			root.HardLine()
			root.Literal("b")
		}, "#endif\nb"},
		{"comment takes its own line", func(root *doc.Doc) {
			root.Literal("a")
			in := root.Indent(8)
			in.Comment("  /* c */\n")
			in.HardLine()
			in.Literal("b")
		}, "a\n        /* c */\n        b"},
		{"indentation applies from the first line", func(root *doc.Doc) {
			in := root.Indent(8)
			in.Literal("a")
			in.HardLine()
			in.Literal("b")
		}, "        a\n        b"},
		{"comment sharing its line", func(root *doc.Doc) {
			root.Comment("/* c */ ")
			root.Literal("b")
		}, "/* c */ b"},
		{"source keeps blanks", func(root *doc.Doc) {
			root.Indent(8).Source("  keep\n\tthis")
		}, "  keep\n\tthis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := doc.New(doc.Concat)
			tt.build(root)
			if diff := cmp.Diff(tt.want, render(root, spaces(80))); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestDirectiveBreaksGroup(t *testing.T) {
	root := doc.New(doc.Concat)
	g := root.Group()
	g.Literal("a")
	g.Line()
	g.Directive("#x\n")
	g.Literal("b")
	if diff := cmp.Diff("a\n#x\nb", render(root, spaces(80))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
