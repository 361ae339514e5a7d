// Package diag defines the diagnostic model shared by the formatter phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, the parser, the style loader and the driver.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt; the driver decides which diagnostics
// abort a file.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional edits; the formatter attaches the reformatted region
//     when reporting a check failure.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// parser, for example, constructs a ReportBuilder via ReportError and chains
// WithNote before calling Emit. A lexer cursor that backtracks may report the
// same problem twice; wrap the reporter in a DedupReporter to keep only the
// first occurrence.
//
// When no additional metadata is needed, phases may call Reporter.Report(...)
// directly. diag.BagReporter aggregates diagnostics into a Bag, which supports
// sorting, deduplication and merging of per-file bags.
package diag
