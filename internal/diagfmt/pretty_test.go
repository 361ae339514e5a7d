package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.c", []byte("char *s = \"unterminated;\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 10, End: 24}, "Unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.c:1:11: "},
		{"Relative path", PathModeRelative, "src/test.c:1:11: "},
		{"Basename only", PathModeBasename, "test.c:1:11: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()
			for _, want := range []string{tt.contains, "ERROR", "LEX1002", "Unterminated string"} {
				if !strings.Contains(output, want) {
					t.Errorf("output lacks %q:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.c", []byte("int x;\n\tfoo(bar ]);\nint y;\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken,
		source.Span{File: id, Start: 16, End: 17}, "expected ')'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	want := "a.c:2:10: ERROR SYN2001: expected ')'\n" +
		"1 | int x;\n" +
		"2 | \tfoo(bar ]);\n" +
		"  | \t        ^\n" +
		"3 | int y;\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("int x = 1\n")
	fileID := fs.AddVirtual("test.c", content)

	d := diag.New(diag.SevWarning, diag.SynUnexpectedToken,
		source.Span{File: fileID, Start: 4, End: 5}, "missing semicolon")
	d = d.WithNote(source.Span{File: fileID, Start: 8, End: 9}, "declaration ends here")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.Span{File: fileID, Start: 9, End: 9}, NewText: ";"})
	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true, ShowPreview: true})
	output := buf.String()
	for _, want := range []string{
		"test.c:1:5: WARNING SYN2001: missing semicolon",
		"note: test.c:1:9: declaration ends here",
		"fix: insert semicolon",
		"- int x = 1",
		"+ int x = 1;",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output lacks %q:\n%s", want, output)
		}
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") || strings.Contains(buf.String(), "fix:") {
		t.Errorf("notes or fixes shown while disabled:\n%s", buf.String())
	}
}

func TestPrettyWithoutFile(t *testing.T) {
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.IOReadFailed, source.Span{File: 3}, "failed to read x.c"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got, want := buf.String(), "ERROR IO4001: failed to read x.c\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPad(t *testing.T) {
	if got, want := pad("\tab世"), "\t    "; got != want {
		t.Errorf("pad = %q, want %q", got, want)
	}
}
