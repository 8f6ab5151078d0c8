// Package diag defines the diagnostic model shared by the checker driver,
// the renderers and the fix engine.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form;
//     the thousands digit encodes the finding category.
//   - Category and RuleID – the classification reported by the checker.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span of the flagged text.
//   - Notes – optional secondary spans/messages.
//   - Fixes – optional Fix records, one per checker suggestion.
//
// # Fix suggestions
//
// Fix carries a Title, an Applicability (AlwaysSafe, SafeWithHeuristics,
// ManualReview), an IsPreferred flag and concrete TextEdits. OldText on an
// edit is a guard: the fix engine refuses edits whose target text changed.
//
// # Emitting diagnostics
//
// Producers report through a Reporter. ReportBuilder chains WithNote,
// WithRule and WithFix before Emit; BagReporter collects into a Bag, which
// supports sorting, deduplication and filtering. FromTypo turns a
// check.Typo into a Diagnostic.
//
// Package diag does not perform formatting or IO: rendering lives in
// internal/diagfmt, applying fixes in internal/fix.
package diag
