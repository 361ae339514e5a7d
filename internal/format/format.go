package format

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"cfmt/internal/diag"
	"cfmt/internal/doc"
	"cfmt/internal/lexer"
	"cfmt/internal/logging"
	"cfmt/internal/parser"
	"cfmt/internal/source"
	"cfmt/internal/style"
)

type Options struct {
	Style    *style.Style  // defaults to style.Defaults()
	Reporter diag.Reporter // may be nil
	Logger   *log.Logger   // defaults to logging.Default()
	Trace    bool          // log layout decisions
	NoVerify bool          // skip the round-trip check
	Simple   bool          // apply parser.Simplify before layout
}

// Result describes the formatting of one file.
type Result struct {
	// Output holds the formatted text with the byte order mark and line
	// endings of the input restored.
	Output   []byte
	Changed  bool
	Branches int
	Recovers int
	Verbatim bool
	// Edits counts the tokens rewritten by Simple.
	Edits int
}

// FormatFile formats sf. Content holds the normalized text of the file and
// Flags tell how to restore the original encoding. On ErrRoundTrip the
// result carries the input unchanged.
func FormatFile(sf *source.File, opts Options) (Result, error) {
	if sf == nil {
		return Result{}, errors.New("format: nil source file")
	}
	if opts.Style == nil {
		opts.Style = style.Defaults()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	lx, err := lexer.New(sf, lexer.Options{Reporter: opts.Reporter, Logger: opts.Logger})
	if err != nil {
		return Result{}, fmt.Errorf("format: %w", err)
	}
	edits := 0
	if opts.Simple {
		edits = parser.Simplify(lx)
	}
	want := signature(lx)

	res := parser.Parse(lx, opts.Style, parser.Options{Reporter: opts.Reporter, Logger: opts.Logger})
	if edits > 0 && res.Verbatim {
		// Part of the file is copied from the source, without the edits.
		opts.Logger.Debug("simplify dropped", logging.FieldPath, sf.Path)
		opts.Simple = false
		return FormatFile(sf, opts)
	}
	flags := doc.Trim
	if opts.Trace {
		flags |= doc.Trace
	}
	out := finish(doc.Render(res.Doc, opts.Style, doc.Options{Flags: flags, Logger: opts.Logger}))

	original := source.Restore(sf.Content, sf.Flags)
	result := Result{
		Output:   source.Restore(out, sf.Flags),
		Branches: res.Branches,
		Recovers: res.Recovers,
		Verbatim: res.Verbatim,
		Edits:    edits,
	}

	if !opts.NoVerify {
		if err := verify(sf, out, want); err != nil {
			diag.ReportError(opts.Reporter, diag.FmtRoundTrip, source.Span{File: sf.ID},
				err.Error()).Emit()
			result.Output = original
			return result, err
		}
	}
	result.Changed = string(result.Output) != string(original)
	opts.Logger.Debug("formatted", logging.FieldPath, sf.Path,
		logging.FieldChanged, result.Changed)
	return result, nil
}

// FormatBytes formats content as if read from a file named path.
func FormatBytes(path string, content []byte, opts Options) (Result, error) {
	fs := source.NewFileSet()
	id := fs.AddNormalized(path, content)
	return FormatFile(fs.Get(id), opts)
}

// finish ends the output with exactly one line break. Empty output stays
// empty.
func finish(out []byte) []byte {
	end := len(out)
	for end > 0 && out[end-1] == '\n' {
		end--
	}
	if end == 0 {
		return out[:0]
	}
	return append(out[:end], '\n')
}
