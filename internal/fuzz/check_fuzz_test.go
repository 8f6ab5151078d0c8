package fuzztests

import (
	"context"
	"testing"
	"time"
	"unicode"

	"prosecheck/internal/check"
	"prosecheck/internal/driver"
	"prosecheck/internal/source"
	"prosecheck/internal/strategy"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// checkTimeout bounds a single input; hitting it means a hang.
const checkTimeout = 5 * time.Second

// everyWord flags each run of letters in the flat text.
var everyWord = check.CheckerFunc(func(_ context.Context, text string) ([]check.RawSpan, error) {
	var spans []check.RawSpan
	start := -1
	for i, r := range text {
		letter := unicode.IsLetter(r)
		switch {
		case letter && start < 0:
			start = i
		case !letter && start >= 0:
			spans = append(spans, wordSpan(start, i))
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, wordSpan(start, len(text)))
	}
	return spans, nil
})

func wordSpan(start, end int) check.RawSpan {
	return check.RawSpan{
		Range:    token.Range{Start: start, End: end},
		Category: token.CategorySpelling,
		RuleID:   "FUZZ_WORD",
		Message:  "word",
	}
}

// FuzzCheckMarkdown runs markdown through the whole pipeline and checks that
// every finding lands inside the file.
func FuzzCheckMarkdown(f *testing.F) {
	addSeeds(f, markdownSeeds)
	checker := check.New(strategy.Default(), everyWord)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.md", input)

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		tr, err := driver.Parse(ctx, tree.LanguageMarkdown, id, input)
		if err != nil {
			return
		}
		results, err := checker.CheckTree(ctx, tree.LanguageMarkdown, tr)
		if err != nil {
			t.Fatalf("CheckTree: %v", err)
		}
		for _, typo := range check.Typos(results) {
			span := typo.Location.Span
			if span.File != id || span.Start > span.End || int(span.End) > len(input) {
				t.Fatalf("typo %q has span %+v outside %d bytes", typo.Text, span, len(input))
			}
		}
	})
}
