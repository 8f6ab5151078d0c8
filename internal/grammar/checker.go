// Package grammar is a small rule-based checker for flattened prose:
// repeated words, sentence capitalisation, punctuation spacing and
// indefinite articles.
package grammar

import (
	"cmp"
	"context"
	"slices"

	"prosecheck/internal/check"
)

// Checker runs a fixed set of rules. It is safe for concurrent use.
type Checker struct {
	rules    []Rule
	disabled map[string]bool
}

var _ check.ExternalChecker = (*Checker)(nil)

// Option configures a Checker.
type Option func(*Checker)

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) Option {
	return func(c *Checker) { c.rules = rules }
}

// DisableRule turns off rules by id.
func DisableRule(ids ...string) Option {
	return func(c *Checker) {
		for _, id := range ids {
			c.disabled[id] = true
		}
	}
}

// New returns a checker running DefaultRules unless WithRules is given.
func New(opts ...Option) *Checker {
	c := &Checker{rules: DefaultRules(), disabled: make(map[string]bool)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the enabled rules.
func (c *Checker) Rules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		if !c.disabled[r.ID()] {
			out = append(out, r)
		}
	}
	return out
}

// Check applies every enabled rule to text. Findings are sorted by
// position, then by rule id.
func (c *Checker) Check(ctx context.Context, text string) ([]check.RawSpan, error) {
	var out []check.RawSpan
	for _, r := range c.Rules() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, s := range r.Apply(text) {
			s.RuleID = r.ID()
			s.RuleGroup = r.Group()
			s.Category = r.Category()
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b check.RawSpan) int {
		return cmp.Or(
			cmp.Compare(a.Range.Start, b.Range.Start),
			cmp.Compare(a.Range.End, b.Range.End),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})
	return out, nil
}
