package grammar

import (
	"context"
	"errors"
	"testing"

	"prosecheck/internal/check"
	"prosecheck/internal/token"
)

type want struct {
	start, end int
	suggestion string
}

func runRule(t *testing.T, name string, rule func(string) []check.RawSpan, text string, expected []want) {
	t.Helper()
	got := rule(text)
	if len(got) != len(expected) {
		t.Fatalf("%s(%q): got %d findings %+v, want %d", name, text, len(got), got, len(expected))
	}
	for i, w := range expected {
		s := got[i]
		if s.Range != (token.Range{Start: w.start, End: w.end}) {
			t.Errorf("%s(%q)[%d] range = %v, want [%d,%d)", name, text, i, s.Range, w.start, w.end)
		}
		if len(s.Suggestions) != 1 || s.Suggestions[0] != w.suggestion {
			t.Errorf("%s(%q)[%d] suggestions = %q, want %q", name, text, i, s.Suggestions, w.suggestion)
		}
	}
}

func TestWordRepeat(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"see the the cat", []want{{7, 11, ""}}},
		{"The the cat", []want{{3, 7, ""}}},
		{"the\nthe", []want{{3, 7, ""}}},
		{"the, the", nil},
		{"he had had enough", nil},
		{"10 10", nil},
	}
	for _, tt := range tests {
		runRule(t, "wordRepeat", wordRepeat, tt.text, tt.want)
	}
}

func TestSentenceStartCase(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"This works. then it fails! ok? Fine.", []want{{12, 16, "Then"}, {27, 29, "Ok"}}},
		{"Use e.g. this one.", nil},
		{"Apples etc. and pears", nil},
		{"wait... and see", nil},
		{"Done. fooBar is next", nil},
		{"lowercase start is fine", nil},
		{`He said "stop." then left`, []want{{16, 20, "Then"}}},
	}
	for _, tt := range tests {
		runRule(t, "sentenceStartCase", sentenceStartCase, tt.text, tt.want)
	}
}

func TestSpaceBeforePunct(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"Hello , world .", []want{{5, 6, ""}, {13, 14, ""}}},
		{"visit a .com domain", nil},
		{"wait ...", nil},
		{" .", nil},
		{"fine, thanks.", nil},
	}
	for _, tt := range tests {
		runRule(t, "spaceBeforePunct", spaceBeforePunct, tt.text, tt.want)
	}
}

func TestMultipleSpaces(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"one  two", []want{{3, 5, " "}}},
		{"a   b c", []want{{1, 4, " "}}},
		{"  indented", nil},
		{"trailing  ", nil},
		{"line\n  next", nil},
	}
	for _, tt := range tests {
		runRule(t, "multipleSpaces", multipleSpaces, tt.text, tt.want)
	}
}

func TestAVsAn(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"a apple", []want{{0, 1, "an"}}},
		{"An banana", []want{{0, 2, "A"}}},
		{"a hour", []want{{0, 1, "an"}}},
		{"an hour", nil},
		{"a university", nil},
		{"an university", []want{{0, 2, "a"}}},
		{"a FAQ", nil},
		{"a, apple", nil},
		{"an 8", nil},
	}
	for _, tt := range tests {
		runRule(t, "aVsAn", aVsAn, tt.text, tt.want)
	}
}

func TestCheckerClassifiesAndSorts(t *testing.T) {
	c := New()
	spans, err := c.Check(context.Background(), "a apple  is good. then")
	if err != nil {
		t.Fatal(err)
	}
	wantIDs := []struct {
		id    string
		start int
		group string
		cat   token.Category
	}{
		{RuleAVsAn, 0, token.GroupArticles, token.CategoryGrammar},
		{RuleMultipleSpaces, 7, token.GroupWhitespace, token.CategoryTypography},
		{RuleSentenceStartCase, 18, token.GroupCapitalization, token.CategoryCasing},
	}
	if len(spans) != len(wantIDs) {
		t.Fatalf("got %d spans %+v, want %d", len(spans), spans, len(wantIDs))
	}
	for i, w := range wantIDs {
		s := spans[i]
		if s.RuleID != w.id || s.Range.Start != w.start || s.RuleGroup != w.group || s.Category != w.cat {
			t.Errorf("span %d = %+v, want %s at %d (%s/%v)", i, s, w.id, w.start, w.group, w.cat)
		}
	}
}

func TestDisableRule(t *testing.T) {
	c := New(DisableRule(RuleMultipleSpaces, RuleAVsAn))
	if n := len(c.Rules()); n != 3 {
		t.Fatalf("enabled rules = %d, want 3", n)
	}
	spans, err := c.Check(context.Background(), "a apple  pie")
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 0 {
		t.Fatalf("disabled rules reported: %+v", spans)
	}
}

func TestWithRules(t *testing.T) {
	custom := NewRule("NO_FOO", "style", token.CategoryStyle, "avoid foo", func(text string) []check.RawSpan {
		if text == "foo" {
			return []check.RawSpan{{Range: token.Range{Start: 0, End: 3}}}
		}
		return nil
	})
	c := New(WithRules(custom))
	spans, err := c.Check(context.Background(), "foo")
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 || spans[0].RuleID != "NO_FOO" || spans[0].Category != token.CategoryStyle {
		t.Fatalf("spans = %+v", spans)
	}
}

func TestCheckCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Check(ctx, "the the"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
