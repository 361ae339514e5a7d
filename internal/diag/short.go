package diag

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"cfmt/internal/source"
)

// shortLine is one rendered row of the short output.
type shortLine struct {
	path string
	line uint32
	col  uint32
	sev  string
	code string
	msg  string
}

// WriteShort prints diagnostics one per line in the compiler layout
// "path:line:col: severity: message [CODE]" that editors and grep understand.
// Rows are ordered by position; notes follow as "note" rows when withNotes is
// set.
func WriteShort(w io.Writer, diags []Diagnostic, fs *source.FileSet, withNotes bool) error {
	if fs == nil || len(diags) == 0 {
		return nil
	}
	rows := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		if row, ok := shortRow(fs, d.Primary, d.Severity.Label(), d); ok {
			rows = append(rows, row)
		}
		if !withNotes {
			continue
		}
		for _, n := range d.Notes {
			if row, ok := shortRow(fs, n.Span, "note", d); ok {
				row.msg = oneLine(n.Msg)
				rows = append(rows, row)
			}
		}
	}
	slices.SortStableFunc(rows, func(a, b shortLine) int {
		switch {
		case a.path != b.path:
			return strings.Compare(a.path, b.path)
		case a.line != b.line:
			return int(a.line) - int(b.line)
		case a.col != b.col:
			return int(a.col) - int(b.col)
		}
		return 0
	})
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n", r.path, r.line, r.col, r.sev, r.msg, r.code); err != nil {
			return err
		}
	}
	return nil
}

// FormatShort is WriteShort into a string without the final newline.
func FormatShort(diags []Diagnostic, fs *source.FileSet, withNotes bool) string {
	var b strings.Builder
	_ = WriteShort(&b, diags, fs, withNotes)
	return strings.TrimSuffix(b.String(), "\n")
}

func shortRow(fs *source.FileSet, sp source.Span, sev string, d *Diagnostic) (shortLine, bool) {
	if int(sp.File) >= fs.Len() {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(sp)
	path := filepath.ToSlash(fs.Get(sp.File).FormatPath("relative", fs.BaseDir()))
	return shortLine{
		path: strings.TrimPrefix(path, "./"),
		line: start.Line,
		col:  start.Col,
		sev:  sev,
		code: d.Code.ID(),
		msg:  oneLine(d.Message),
	}, true
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
