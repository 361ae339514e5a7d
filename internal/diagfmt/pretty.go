package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	path, gutter, caret   *color.Color
	add, remove           *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgHiBlack),
		caret:  color.New(color.FgRed),
		add:    color.New(color.FgGreen),
		remove: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret, p.add, p.remove} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes the diagnostics of bag in a human readable form, in bag
// order (call bag.Sort first for a stable listing). Each diagnostic is
// printed as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with the span underlined, then its notes and
// fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity)
	fmt.Fprintf(w, "%s%s %s: %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		sev.Sprint(d.Severity.String()),
		sev.Sprint(d.Code.ID()),
		d.Message)

	if f := fileOf(fs, d.Primary); f != nil && len(f.Content) > 0 {
		snippet(w, f, fs, d.Primary, int(opts.Context), p)
	}

	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s%s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for _, fix := range d.Fixes {
		fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("fix:"), fix.Title)
		if !opts.ShowPreview {
			continue
		}
		for _, edit := range fix.Edits {
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			for _, line := range preview.before {
				fmt.Fprintf(w, "    %s\n", p.remove.Sprint("- "+line))
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "    %s\n", p.add.Sprint("+ "+line))
			}
		}
	}
}

// location renders "path:line:col: ", or "path: " for an empty span at the
// start of the file, or nothing when span is outside of fs.
func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fileOf(fs, span)
	if f == nil {
		return ""
	}
	path := formatPath(f, fs, mode)
	if span.Start == 0 && span.End == 0 {
		return path + ": "
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d: ", path, start.Line, start.Col)
}

// snippet prints the lines around span with a gutter of line numbers and
// underlines span on its first line.
func snippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, context int, p palette) {
	start, end := fs.Resolve(span)
	first := uint32(max(1, int(start.Line)-context))
	last := start.Line + uint32(max(0, context)) // #nosec G115 -- context is non-negative
	lines := uint32(len(f.LineIdx) + 1)         // #nosec G115 -- bounded by the file size
	last = min(last, lines)
	width := len(strconv.Itoa(int(last)))

	for n := first; n <= last; n++ {
		text := f.GetLine(n)
		if n != start.Line && strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), text)
		if n != start.Line {
			continue
		}
		col := int(start.Col) - 1
		stop := len(text)
		if end.Line == start.Line {
			stop = min(stop, int(end.Col)-1)
		}
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprint(strings.Repeat(" ", width)+" |"),
			pad(text[:min(col, len(text))]), p.caret.Sprint(underline(text, col, stop)))
	}
}

// pad returns blanks covering the display width of prefix, keeping its tabs.
func pad(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(text string, from, to int) string {
	n := 1
	if from < to && to <= len(text) {
		n = max(1, runewidth.StringWidth(text[from:to]))
	}
	return "^" + strings.Repeat("~", n-1)
}
