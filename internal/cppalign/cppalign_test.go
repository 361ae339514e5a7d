package cppalign_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cfmt/internal/cppalign"
	"cfmt/internal/doc"
	"cfmt/internal/style"
)

func TestAlign(t *testing.T) {
	never := func(mode style.Value) *style.Style {
		st := style.Defaults()
		st.UseTab = style.Never
		st.AlignEscapedNewlines = mode
		return st
	}
	tabs := func(mode style.Value) *style.Style {
		st := style.Defaults()
		st.AlignEscapedNewlines = mode
		return st
	}
	tests := []struct {
		name string
		st   *style.Style
		in   string
		want string
	}{
		{
			name: "right",
			st:   never(style.Right),
			in:   "#define F(x) \\\n    x + 1",
			want: "#define F(x)" + strings.Repeat(" ", 60) + "\\\n    x + 1",
		},
		{
			name: "right with tabs",
			st:   tabs(style.Right),
			in:   "#define F(x)\t\t\\\n    x + 1",
			want: "#define F(x)" + strings.Repeat("\t", 8) + "\\\n    x + 1",
		},
		{
			name: "left",
			st:   never(style.Left),
			in:   "#define LONGNAME(a)\t\\\n\tfoo(a); \\\n\tbar",
			want: "#define LONGNAME(a) \\\n\tfoo(a);     \\\n\tbar",
		},
		{
			name: "left with tabs",
			st:   tabs(style.Left),
			in:   "#define LONGNAME(a) \\\n\tfoo(a); \\\n\tbar",
			want: "#define LONGNAME(a)\t\\\n\tfoo(a);\t\t\\\n\tbar",
		},
		{
			name: "dont align",
			st:   never(style.DontAlign),
			in:   "#define A\t\t\\\n\tfoo(a);  \\\n\tbar",
			want: "#define A \\\n\tfoo(a); \\\n\tbar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := cppalign.Align(tt.st, tt.in)
			if !ok {
				t.Fatalf("Align(%q) not applied", tt.in)
			}
			got := string(doc.Render(d, tt.st, doc.Options{}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlignSingleLine(t *testing.T) {
	for _, in := range []string{"#define A 1", "#include <x.h>", "#define A \\ 1"} {
		if _, ok := cppalign.Align(nil, in); ok {
			t.Errorf("Align(%q) applied to a single line", in)
		}
	}
}

func TestAlignIsStable(t *testing.T) {
	st := style.Defaults()
	d, _ := cppalign.Align(st, "#define F(x) \\\n    x + 1")
	once := string(doc.Render(d, st, doc.Options{}))
	d, _ = cppalign.Align(st, once)
	if diff := cmp.Diff(once, string(doc.Render(d, st, doc.Options{}))); diff != "" {
		t.Errorf("second pass differs (-want +got):\n%s", diff)
	}
}
