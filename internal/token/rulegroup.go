package token

import (
	"slices"
	"strings"
)

// Well-known rule groups used by the bundled checkers and strategies.
const (
	GroupSpelling       = "spelling"
	GroupRepetition     = "repetition"
	GroupCapitalization = "capitalization"
	GroupWhitespace     = "whitespace"
	GroupArticles       = "articles"
	GroupQuotes         = "quotes"
)

// RuleGroupSet is an immutable, sorted set of rule-group ids.
// The zero value is the empty set.
type RuleGroupSet struct {
	ids []string
}

// EmptyRuleGroups is the empty set.
var EmptyRuleGroups = RuleGroupSet{}

// NewRuleGroupSet builds a set from ids, dropping blanks and duplicates.
func NewRuleGroupSet(ids ...string) RuleGroupSet {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return EmptyRuleGroups
	}
	return RuleGroupSet{ids: out}
}

func (s RuleGroupSet) Has(id string) bool {
	_, ok := slices.BinarySearch(s.ids, id)
	return ok
}

func (s RuleGroupSet) Empty() bool { return len(s.ids) == 0 }

func (s RuleGroupSet) Len() int { return len(s.ids) }

// Union returns a new set containing members of both.
func (s RuleGroupSet) Union(other RuleGroupSet) RuleGroupSet {
	if other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	return NewRuleGroupSet(append(slices.Clone(s.ids), other.ids...)...)
}

// IDs returns a copy of the members in sorted order.
func (s RuleGroupSet) IDs() []string {
	return slices.Clone(s.ids)
}

// Equal reports set equality.
func (s RuleGroupSet) Equal(other RuleGroupSet) bool {
	return slices.Equal(s.ids, other.ids)
}

func (s RuleGroupSet) String() string {
	return "{" + strings.Join(s.ids, ",") + "}"
}
