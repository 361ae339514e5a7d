package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cfmt/internal/doc"
	"cfmt/internal/lexer"
	"cfmt/internal/parser"
	"cfmt/internal/source"
	"cfmt/internal/token"
)

func simplified(t *testing.T, src string) (*lexer.Lexer, int) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(src))
	lx, err := lexer.New(fs.Get(id), lexer.Options{})
	if err != nil {
		t.Fatalf("lexer.New(%q): %v", src, err)
	}
	return lx, parser.Simplify(lx)
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		edits int
	}{
		{"int static x;", "static int x;\n", 1},
		{"const extern int x;", "extern const int x;\n", 1},
		{"unsigned x;", "unsigned int x;\n", 1},
		{"const static unsigned *p;", "static const unsigned int *p;\n", 2},
		{"void f(void){unsigned i;return;}", "void\nf(void)\n{\n\tunsigned int i;\n\treturn;\n}\n", 1},
		{"static int x;", "static int x;\n", 0},
		{"unsigned long x;", "unsigned long x;\n", 0},
		{"inline static int f(void);", "inline static int f(void);\n", 0},
		{"typedef unsigned u;", "typedef unsigned int u;\n", 1},
		{"x = (unsigned)y;", "x = (unsigned)y;\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lx, edits := simplified(t, tt.in)
			if edits != tt.edits {
				t.Errorf("edits = %d, want %d", edits, tt.edits)
			}
			res := parser.Parse(lx, nil, parser.Options{})
			got := string(doc.Render(res.Doc, nil, doc.Options{Flags: doc.Trim}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSimplifyKeepsCommentedSpecifiers(t *testing.T) {
	for _, src := range []string{"int /* c */ static x;", "/* c */\nint static x;", "#if A\nint static x;\n#endif\n"} {
		if _, edits := simplified(t, src); edits != 0 {
			t.Errorf("%q: edits = %d, want 0", src, edits)
		}
	}
}

func TestSimplifyMovesLineBreak(t *testing.T) {
	lx, edits := simplified(t, "int static\nx;\n")
	if edits != 1 {
		t.Fatalf("edits = %d, want 1", edits)
	}
	toks := lx.Tokens()
	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.Text)
	}
	if diff := cmp.Diff([]string{"static", "int", "x", ";", ""}, texts); diff != "" {
		t.Fatalf("stream mismatch (-want +got):\n%s", diff)
	}
	if toks[0].HasLine(1) || !toks[1].HasLine(1) {
		t.Errorf("line break on %s = %t, on %s = %t, want it after int",
			toks[0], toks[0].HasLine(1), toks[1], toks[1].HasLine(1))
	}
	if toks[1].Suffix(len(toks[1].Suffixes)-1).Flags&token.FlagDirty == 0 {
		t.Error("added line break not marked dirty")
	}
}
