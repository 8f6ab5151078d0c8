package dialect

import "prosecheck/internal/source"

// Hint is a small piece of evidence suggesting a particular dialect.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence aggregates per-file hints.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Reasons returns the distinct reasons supporting k, in first-seen order.
func (e *Evidence) Reasons(k Kind) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range e.Hints() {
		if h.Dialect != k || seen[h.Reason] {
			continue
		}
		seen[h.Reason] = true
		out = append(out, h.Reason)
	}
	return out
}
