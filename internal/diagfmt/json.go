package diagfmt

import (
	"encoding/json"
	"io"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

// LocationJSON is a position in a file.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary message.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one edit of a fix.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is a suggested fix.
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	f := fileOf(fs, span)
	if f == nil {
		return loc
	}
	loc.File = formatPath(f, fs, pathMode)
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnostics converts the diagnostics of bag without serializing
// them.
func BuildDiagnostics(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	if bag == nil {
		return nil
	}
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		diagJSON := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}

		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				diagJSON.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}

		if opts.IncludeFixes && len(d.Fixes) > 0 {
			diagJSON.Fixes = make([]FixJSON, len(d.Fixes))
			for j, fix := range d.Fixes {
				fixJSON := FixJSON{Title: fix.Title}
				for _, edit := range fix.Edits {
					editJSON := FixEditJSON{
						Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
						NewText:  edit.NewText,
					}
					if opts.IncludePreviews {
						if preview, err := buildFixEditPreview(fs, edit); err == nil {
							editJSON.BeforeLines = preview.before
							editJSON.AfterLines = preview.after
						}
					}
					fixJSON.Edits = append(fixJSON.Edits, editJSON)
				}
				diagJSON.Fixes[j] = fixJSON
			}
		}
		diagnostics = append(diagnostics, diagJSON)
	}
	return diagnostics
}

// BuildDiagnosticsOutput wraps BuildDiagnostics in the output root.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	diagnostics := BuildDiagnostics(bag, fs, opts)
	if diagnostics == nil {
		diagnostics = []DiagnosticJSON{}
	}
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes the diagnostics of bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
