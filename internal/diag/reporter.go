package diag

import "prosecheck/internal/source"

// Reporter receives diagnostics from the driver and the checkers.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter stores into Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans diagnostics out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

// findingKey identifies one finding: two checkers flagging the same bytes
// with the same rule and message are one finding.
type findingKey struct {
	code    Code
	sev     Severity
	span    source.Span
	rule    string
	message string
}

func keyOf(d Diagnostic) findingKey {
	return findingKey{code: d.Code, sev: d.Severity, span: d.Primary, rule: d.RuleID, message: d.Message}
}

// DedupReporter forwards each finding once. It is not safe for concurrent
// use.
type DedupReporter struct {
	next Reporter
	seen map[findingKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[findingKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	k := keyOf(d)
	if _, dup := r.seen[k]; dup {
		return
	}
	r.seen[k] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
