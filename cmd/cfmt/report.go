package main

import (
	"encoding/json"
	"fmt"
	"io"

	"cfmt/internal/diag"
	"cfmt/internal/diagfmt"
	"cfmt/internal/driver"
	"cfmt/internal/observ"
)

type fmtFileJSON struct {
	Path        string                   `json:"path"`
	Changed     bool                     `json:"changed"`
	Cached      bool                     `json:"cached,omitempty"`
	Verbatim    bool                     `json:"verbatim,omitempty"`
	Formatted   *string                  `json:"formatted,omitempty"`
	Error       string                   `json:"error,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type fmtSummaryJSON struct {
	Files    int `json:"files"`
	Changed  int `json:"changed"`
	Cached   int `json:"cached"`
	Verbatim int `json:"verbatim"`
	Failed   int `json:"failed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

type fmtReportJSON struct {
	Check   bool           `json:"check"`
	Files   []fmtFileJSON  `json:"files"`
	Summary fmtSummaryJSON `json:"summary"`
}

func renderFmtJSON(w io.Writer, results []driver.FormatResult, check bool, s driver.Summary, globals globalOptions) error {
	report := fmtReportJSON{
		Check: check,
		Files: make([]fmtFileJSON, 0, len(results)),
		Summary: fmtSummaryJSON{
			Files:    s.Files,
			Changed:  s.Changed,
			Cached:   s.Cached,
			Verbatim: s.Verbatim,
			Failed:   s.Failed,
			Errors:   s.Errors,
			Warnings: s.Warnings,
		},
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeRelative,
		Max:              globals.maxDiagnostics,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	for i := range results {
		res := &results[i]
		file := fmtFileJSON{
			Path:     res.Path,
			Changed:  res.Changed,
			Cached:   res.Cached,
			Verbatim: res.Verbatim,
		}
		if res.Formatted != nil {
			text := string(res.Formatted)
			file.Formatted = &text
		}
		if res.Err != nil {
			file.Error = res.Err.Error()
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			file.Diagnostics = diagfmt.BuildDiagnostics(res.Bag, res.FileSet, jsonOpts)
		}
		report.Files = append(report.Files, file)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// printTimings writes the phase durations summed over results.
func printTimings(w io.Writer, results []driver.FormatResult) {
	reports := make([]observ.Report, 0, len(results))
	for _, res := range results {
		if res.Timing != nil {
			reports = append(reports, *res.Timing)
		}
	}
	if len(reports) == 0 {
		return
	}
	fmt.Fprint(w, observ.Sum(reports...).String())
}

// visible returns the diagnostics of bag at least as severe as minSev, or
// nil when there are none.
func visible(bag *diag.Bag, minSev diag.Severity) *diag.Bag {
	if bag == nil {
		return nil
	}
	var out *diag.Bag
	for _, d := range bag.Items() {
		if !d.Severity.AtLeast(minSev) {
			continue
		}
		if out == nil {
			out = diag.NewBag(bag.Len())
		}
		out.Add(d)
	}
	return out
}

// minSeverity is the least severe diagnostic printed in text output.
func (g globalOptions) minSeverity() diag.Severity {
	switch {
	case g.quiet:
		return diag.SevError
	case g.verbose:
		return diag.SevInfo
	}
	return diag.SevWarning
}
