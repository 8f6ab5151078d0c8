package token

import (
	"fmt"

	"prosecheck/internal/tree"
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) Empty() bool { return r.End <= r.Start }

// Contains reports whether off lies in [Start, End).
func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

// Overlaps reports whether the ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// TokenInfo records how one visited node was treated.
type TokenInfo struct {
	Node              tree.NodeID
	Range             Range // relative to the checking root's start
	Behavior          Behavior
	IgnoredRuleGroups RuleGroupSet
	IgnoredCategories CategorySet
}

// Ignores reports whether a finding with the given category and rule group is
// excluded at this token.
func (ti TokenInfo) Ignores(c Category, group string) bool {
	if ti.IgnoredCategories.Has(c) {
		return true
	}
	return group != "" && ti.IgnoredRuleGroups.Has(group)
}

// ShiftEntry records that OriginalLength source bytes were elided at
// FlatPosition of the flat text.
type ShiftEntry struct {
	FlatPosition   int
	OriginalLength int
}

func (s ShiftEntry) String() string {
	return fmt.Sprintf("@%d-%d", s.FlatPosition, s.OriginalLength)
}
