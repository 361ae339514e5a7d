package diag

import "cfmt/internal/source"

// Reporter receives the diagnostics of the lexer, the parser, the style
// loader and the driver. BagReporter stores them; DedupReporter and
// NopReporter filter them.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// ReportBuilder collects the notes of a diagnostic until Emit.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder starts a diagnostic for r. A nil r makes Emit a no-op.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Primary:  primary,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// WithFix appends a fix made of edits.
func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithFix(title, edits...)
	return b
}

// Emit hands the diagnostic to the reporter. Later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag.Code, b.diag.Severity, b.diag.Primary, b.diag.Message, b.diag.Notes, b.diag.Fixes)
	}
	b.emitted = true
}

// Diagnostic returns what was collected so far without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter adds every diagnostic to Bag, which may be nil.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note, []Fix) {}
