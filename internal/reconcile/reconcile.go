// Package reconcile maps offsets of flattened text back to the source.
package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"

	"prosecheck/internal/token"
	"prosecheck/internal/trace"
)

// ErrNonMonotonic is reported by Validate.
var ErrNonMonotonic = errors.New("shift ledger is not monotonic")

var strict atomic.Bool

// SetStrict makes inconsistent ranges panic instead of clamping. It is meant
// for tests and development builds and returns a func restoring the previous
// mode.
func SetStrict(on bool) (restore func()) {
	prev := strict.Swap(on)
	return func() { strict.Store(prev) }
}

// ToSourceOffset adds the lengths of every entry at or before flat.
// shifts must be ordered by FlatPosition.
func ToSourceOffset(flat int, shifts []token.ShiftEntry) int {
	delta := 0
	for _, s := range shifts {
		if s.FlatPosition > flat {
			break
		}
		delta += s.OriginalLength
	}
	return flat + delta
}

// Validate reports the first ordering or length violation of a ledger.
func Validate(shifts []token.ShiftEntry) error {
	prev := 0
	for i, s := range shifts {
		if s.FlatPosition < prev {
			return fmt.Errorf("%w: entry %d at %d after %d", ErrNonMonotonic, i, s.FlatPosition, prev)
		}
		if s.OriginalLength < 0 {
			return fmt.Errorf("entry %d has negative length %d", i, s.OriginalLength)
		}
		prev = s.FlatPosition
	}
	return nil
}

// Ledger answers offset queries in O(log n).
type Ledger struct {
	shifts []token.ShiftEntry
	// cum[i] is the elided length of shifts[:i]
	cum    []int
	tracer trace.Tracer
}

// NewLedger indexes shifts. The slice is retained, not copied.
func NewLedger(shifts []token.ShiftEntry) *Ledger {
	cum := make([]int, len(shifts)+1)
	for i, s := range shifts {
		cum[i+1] = cum[i] + s.OriginalLength
	}
	return &Ledger{shifts: shifts, cum: cum, tracer: trace.Nop}
}

// WithTracer sets where clamps are reported.
func (l *Ledger) WithTracer(t trace.Tracer) *Ledger {
	if t == nil {
		t = trace.Nop
	}
	l.tracer = t
	return l
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.shifts) }

// Offset maps a flat offset to a root-relative source offset.
func (l *Ledger) Offset(flat int) int {
	n := sort.Search(len(l.shifts), func(i int) bool {
		return l.shifts[i].FlatPosition > flat
	})
	return flat + l.cum[n]
}

// Range maps a flat range. The end of a non-empty range is mapped from its
// last byte so the range never swallows an elided block that follows it.
// An inconsistent result is clamped to an empty range at its start, traced,
// and reported with ok=false; in strict mode it panics.
func (l *Ledger) Range(r token.Range) (mapped token.Range, ok bool) {
	start := l.Offset(r.Start)
	if r.End == r.Start {
		return token.Range{Start: start, End: start}, true
	}
	end := start - 1
	if r.End > r.Start {
		end = l.Offset(r.End-1) + 1
	}
	if start > end {
		msg := fmt.Sprintf("flat %v reconciled to [%d,%d)", r, start, end)
		if strict.Load() {
			panic("reconcile: " + msg)
		}
		trace.Warn(l.tracer, trace.ScopeRoot, "reconcile.clamp", msg,
			"start", strconv.Itoa(start), "end", strconv.Itoa(end), "shifts", strconv.Itoa(len(l.shifts)))
		return token.Range{Start: start, End: start}, false
	}
	return token.Range{Start: start, End: end}, true
}
