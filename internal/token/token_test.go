package token

import "testing"

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(" " + c.String() + " ")
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("poetry"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategorySet(t *testing.T) {
	s := NewCategorySet(CategoryCasing, CategorySpelling, CategoryCasing)
	if s.Len() != 2 || !s.Has(CategoryCasing) || !s.Has(CategorySpelling) || s.Has(CategoryGrammar) {
		t.Fatalf("unexpected set %v", s)
	}
	u := s.Union(NewCategorySet(CategoryGrammar))
	if u.Len() != 3 || s.Len() != 2 {
		t.Fatalf("union must not mutate: s=%v u=%v", s, u)
	}
	if got := u.String(); got != "{casing,spelling,grammar}" {
		t.Errorf("String() = %q", got)
	}
	if !NoCategories.Empty() {
		t.Error("NoCategories must be empty")
	}
}

func TestRuleGroupSet(t *testing.T) {
	s := NewRuleGroupSet("quotes", " ", "articles", "quotes")
	if s.Len() != 2 || !s.Has("quotes") || !s.Has("articles") || s.Has("spelling") {
		t.Fatalf("unexpected set %v", s)
	}
	if !NewRuleGroupSet().Equal(EmptyRuleGroups) {
		t.Error("empty constructor must equal EmptyRuleGroups")
	}
	u := s.Union(NewRuleGroupSet("spelling"))
	if got := u.String(); got != "{articles,quotes,spelling}" {
		t.Errorf("union = %s", got)
	}
	if s.Has("spelling") {
		t.Error("union mutated receiver")
	}
}

func TestTokenInfoIgnores(t *testing.T) {
	ti := TokenInfo{
		IgnoredRuleGroups: NewRuleGroupSet(GroupQuotes),
		IgnoredCategories: NewCategorySet(CategoryCasing),
	}
	tests := []struct {
		cat   Category
		group string
		want  bool
	}{
		{CategoryCasing, "", true},
		{CategorySpelling, GroupQuotes, true},
		{CategorySpelling, GroupSpelling, false},
		{CategoryGrammar, "", false},
	}
	for _, tt := range tests {
		if got := ti.Ignores(tt.cat, tt.group); got != tt.want {
			t.Errorf("Ignores(%v, %q) = %v, want %v", tt.cat, tt.group, got, tt.want)
		}
	}
}

func TestBehaviorElides(t *testing.T) {
	if Text.Elides() || Unspecified.Elides() {
		t.Error("text must not elide")
	}
	if !Absorb.Elides() || !Stealth.Elides() {
		t.Error("absorb and stealth elide")
	}
}
