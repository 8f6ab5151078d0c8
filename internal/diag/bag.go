package diag

import (
	"cmp"
	"math"
	"slices"
)

// Bag collects the diagnostics of a run up to a limit. Diagnostics over the
// limit are counted, not stored, so summaries stay exact.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means no
// limit.
func NewBag(max int) *Bag {
	if max <= 0 {
		max = math.MaxInt
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add stores d and reports false when the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Dropped counts diagnostics rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the stored diagnostics. The slice is owned by the bag.
func (b *Bag) Items() []Diagnostic { return b.items }

// AtLeast reports whether a stored diagnostic has severity sev or higher.
func (b *Bag) AtLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) HasErrors() bool   { return b.AtLeast(SevError) }
func (b *Bag) HasWarnings() bool { return b.AtLeast(SevWarning) }

// Count returns the number of stored diagnostics with severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends other, raising the limit to fit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.max = max(b.max, len(b.items)+len(other.items))
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders by file and position, then puts the more severe finding
// first; code, rule and message break the remaining ties.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
			cmp.Compare(x.RuleID, y.RuleID),
			cmp.Compare(x.Message, y.Message),
		)
	})
}

// Dedup drops repeats of the same finding, keeping the first.
func (b *Bag) Dedup() {
	seen := make(map[findingKey]struct{}, len(b.items))
	b.Filter(func(d Diagnostic) bool {
		k := keyOf(d)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// Filter keeps the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}
