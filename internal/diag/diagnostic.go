package diag

import (
	"prosecheck/internal/source"
	"prosecheck/internal/token"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces Span with NewText. A non-empty OldText guards the edit:
// the fix engine refuses to apply it when the file no longer holds OldText.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixApplicability tells how confident a fix is.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Category token.Category
	// RuleID is the checker rule that produced the finding, if any.
	RuleID  string
	Message string
	Primary source.Span
	Notes   []Note
	Fixes   []Fix
}
