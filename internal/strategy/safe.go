package strategy

import (
	"fmt"

	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// PanicHandler is told about every recovered strategy failure.
type PanicHandler func(method string, node tree.NodeID, recovered any)

// Safe wraps s so a panic in any call degrades instead of unwinding:
// Behavior becomes Absorb, IsContextRoot false, rule groups and categories
// inherit, rules and stealth ranges are dropped. A panicking CharRule leaves
// the rune unchanged.
func Safe(s Strategy, onPanic PanicHandler) Strategy {
	if s == nil {
		return nil
	}
	if inner, ok := s.(*safeStrategy); ok {
		s = inner.inner
	}
	if onPanic == nil {
		onPanic = func(string, tree.NodeID, any) {}
	}
	return &safeStrategy{inner: s, onPanic: onPanic}
}

// Unwrap returns the strategy behind a Safe wrapper, or s itself.
func Unwrap(s Strategy) Strategy {
	if w, ok := s.(*safeStrategy); ok {
		return w.inner
	}
	return s
}

type safeStrategy struct {
	inner   Strategy
	onPanic PanicHandler
}

func (s *safeStrategy) recover(method string, node tree.NodeID) {
	if r := recover(); r != nil {
		s.onPanic(method, node, r)
	}
}

func (s *safeStrategy) Name() (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = fmt.Sprintf("%T", s.inner)
		}
	}()
	return s.inner.Name()
}

func (s *safeStrategy) IsContextRoot(t *tree.Tree, node tree.NodeID) (root bool) {
	defer s.recover("IsContextRoot", node)
	return s.inner.IsContextRoot(t, node)
}

func (s *safeStrategy) Behavior(t *tree.Tree, root, node tree.NodeID) (b token.Behavior) {
	b = token.Absorb
	defer s.recover("Behavior", node)
	return s.inner.Behavior(t, root, node)
}

func (s *safeStrategy) IgnoredRuleGroups(t *tree.Tree, root, node tree.NodeID) (g token.RuleGroupSet, ok bool) {
	defer s.recover("IgnoredRuleGroups", node)
	return s.inner.IgnoredRuleGroups(t, root, node)
}

func (s *safeStrategy) IgnoredCategories(t *tree.Tree, root, node tree.NodeID) (c token.CategorySet, ok bool) {
	defer s.recover("IgnoredCategories", node)
	return s.inner.IgnoredCategories(t, root, node)
}

func (s *safeStrategy) ReplacementRules(t *tree.Tree, root tree.NodeID) (rules []CharRule) {
	defer s.recover("ReplacementRules", root)
	raw := s.inner.ReplacementRules(t, root)
	rules = make([]CharRule, 0, len(raw))
	for _, rule := range raw {
		if rule == nil {
			continue
		}
		rules = append(rules, s.guardRule(rule, root))
	}
	return rules
}

func (s *safeStrategy) guardRule(rule CharRule, root tree.NodeID) CharRule {
	return func(preceding []byte, current rune) (out rune) {
		out = current
		defer s.recover("CharRule", root)
		return rule(preceding, current)
	}
}

func (s *safeStrategy) StealthRanges(t *tree.Tree, root tree.NodeID, flat string) (ranges []token.Range) {
	defer s.recover("StealthRanges", root)
	return s.inner.StealthRanges(t, root, flat)
}

func (s *safeStrategy) UseRename(t *tree.Tree, node tree.NodeID) (rename bool) {
	defer s.recover("UseRename", node)
	return UseRename(s.inner, t, node)
}
