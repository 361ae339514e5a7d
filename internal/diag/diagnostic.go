package diag

import (
	"cfmt/internal/source"
)

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the source text under Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a titled set of edits addressing a diagnostic.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding about a C source file or the run formatting it.
// Primary points into the FileSet the file was added to.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
