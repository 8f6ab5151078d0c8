package diag

import "prosecheck/internal/source"

// FixOption mutates a fix during construction.
type FixOption func(*Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app FixApplicability) FixOption {
	return func(f *Fix) {
		f.Applicability = app
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() FixOption {
	return func(f *Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) FixOption {
	return func(f *Fix) {
		f.ID = id
	}
}

func applyFixOptions(f Fix, opts []FixOption) Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text string, opts ...FixOption) Fix {
	at.End = at.Start
	return applyFixOptions(Fix{
		Title:         title,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         []TextEdit{{Span: at, NewText: text}},
	}, opts)
}

// DeleteSpan removes text covered by span; expect guards the edit.
func DeleteSpan(title string, span source.Span, expect string, opts ...FixOption) Fix {
	return ReplaceSpan(title, span, "", expect, opts...)
}

// ReplaceSpan replaces text covered by span with newText; expect guards the
// edit.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...FixOption) Fix {
	return applyFixOptions(Fix{
		Title:         title,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         []TextEdit{{Span: span, NewText: newText, OldText: expect}},
	}, opts)
}
