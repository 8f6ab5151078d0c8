package token

import (
	"fmt"
	"math/bits"
	"strings"
)

// Category groups findings for presentation and filtering.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryCasing
	CategorySpelling
	CategoryGrammar
	CategoryPunctuation
	CategoryTypography
	CategoryStyle

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryOther:       "other",
	CategoryCasing:      "casing",
	CategorySpelling:    "spelling",
	CategoryGrammar:     "grammar",
	CategoryPunctuation: "punctuation",
	CategoryTypography:  "typography",
	CategoryStyle:       "style",
}

func (c Category) String() string {
	if c < categoryCount {
		return categoryNames[c]
	}
	return "unknown"
}

// ParseCategory converts a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c := Category(0); c < categoryCount; c++ {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return CategoryOther, fmt.Errorf("unknown category %q", s)
}

// AllCategories lists every category in declaration order.
func AllCategories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// CategorySet is an immutable set of categories.
type CategorySet uint16

// NoCategories is the empty set.
const NoCategories CategorySet = 0

// NewCategorySet builds a set from cats.
func NewCategorySet(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s = s.With(c)
	}
	return s
}

// With returns s plus c.
func (s CategorySet) With(c Category) CategorySet {
	if c >= categoryCount {
		return s
	}
	return s | 1<<c
}

// Union returns the union of both sets.
func (s CategorySet) Union(other CategorySet) CategorySet {
	return s | other
}

func (s CategorySet) Has(c Category) bool {
	return c < categoryCount && s&(1<<c) != 0
}

func (s CategorySet) Empty() bool { return s == 0 }

func (s CategorySet) Len() int { return bits.OnesCount16(uint16(s)) }

// Slice returns the members in declaration order.
func (s CategorySet) Slice() []Category {
	out := make([]Category, 0, s.Len())
	for c := Category(0); c < categoryCount; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s CategorySet) String() string {
	parts := make([]string, 0, s.Len())
	for _, c := range s.Slice() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
