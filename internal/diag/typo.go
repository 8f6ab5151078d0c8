package diag

import (
	"fmt"

	"prosecheck/internal/check"
	"prosecheck/internal/token"
)

// FromTypo converts a reconciled finding into a diagnostic with one fix
// per suggestion; the first suggestion is preferred.
func FromTypo(t check.Typo) Diagnostic {
	sev := SevInfo
	if t.Category == token.CategorySpelling || t.Category == token.CategoryGrammar {
		sev = SevWarning
	}
	span := t.Location.Span
	d := New(sev, CodeFor(t.Category, t.RuleID), span, t.Message)
	d.Category = t.Category
	d.RuleID = t.RuleID
	if t.ShouldUseRename {
		d = d.WithNote(span, "identifier: rename it with your editor instead of editing the text")
	}
	// clamped findings have nothing to replace
	if span.Empty() {
		return d
	}
	app := applicabilityFor(t)
	for i, s := range t.Suggestions {
		title := fmt.Sprintf("replace %q with %q", t.Text, s)
		if s == "" {
			title = fmt.Sprintf("remove %q", t.Text)
		}
		opts := []FixOption{WithApplicability(app)}
		if i == 0 {
			opts = append(opts, Preferred())
		}
		d = d.WithFix(ReplaceSpan(title, span, s, t.Text, opts...))
	}
	return d
}

func applicabilityFor(t check.Typo) FixApplicability {
	switch {
	case t.ShouldUseRename:
		return FixApplicabilityManualReview
	case len(t.Suggestions) == 1 && (t.RuleGroup == token.GroupWhitespace || t.Category == token.CategoryPunctuation):
		return FixApplicabilityAlwaysSafe
	default:
		return FixApplicabilitySafeWithHeuristics
	}
}
