package diag

import "cfmt/internal/source"

// New returns a diagnostic without notes or fixes. Spans outside of any
// file, such as the timings of a run, use the zero source.Span.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError returns an error diagnostic. The driver uses it for failures
// that happen before a Reporter exists, like an unreadable file.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns d with one more secondary location.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix returns d with a fix made of edits.
func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
