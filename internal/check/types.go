// Package check runs context roots through flattening, an external
// natural-language checker and offset reconciliation, and filters the
// findings by the exclusions recorded during flattening.
package check

import (
	"context"

	"prosecheck/internal/flatten"
	"prosecheck/internal/source"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// RawSpan is one finding of an external checker, in flat-text coordinates.
type RawSpan struct {
	Range       token.Range
	Category    token.Category
	RuleGroup   string
	RuleID      string
	Message     string
	Suggestions []string
}

// ExternalChecker is an opaque natural-language checker.
type ExternalChecker interface {
	Check(ctx context.Context, text string) ([]RawSpan, error)
}

// CheckerFunc adapts a function to ExternalChecker.
type CheckerFunc func(ctx context.Context, text string) ([]RawSpan, error)

func (f CheckerFunc) Check(ctx context.Context, text string) ([]RawSpan, error) {
	return f(ctx, text)
}

// Location points a Typo at source bytes and the node covering its start.
type Location struct {
	Span source.Span
	Node tree.NodeID
}

// Typo is a reconciled finding.
type Typo struct {
	Category    token.Category
	RuleID      string
	RuleGroup   string
	Message     string
	Suggestions []string
	Location    Location
	// Text is the flagged source text.
	Text string
	// ShouldUseRename asks for a semantic rename instead of a text edit.
	ShouldUseRename bool
}

// Result is the outcome of checking one context root.
type Result struct {
	Root     tree.NodeID
	Strategy string
	Flat     *flatten.Result
	// Stealth holds the masked flat ranges, sorted and merged.
	Stealth []token.Range
	Typos   []Typo
	// CheckerErr is set when the external checker failed; Typos is empty
	// then.
	CheckerErr error
}
