// Package strategy holds the per-language policies that tell the flattening
// engine how every node takes part in the flat text.
package strategy

import (
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// CharRule rewrites one rune while TEXT content is appended. preceding is the
// flat text produced so far. Rules must keep the UTF-8 width of the rune;
// results of another width are discarded by the engine.
type CharRule func(preceding []byte, current rune) rune

// Strategy is the policy for one language.
//
// The ok=false results of IgnoredRuleGroups and IgnoredCategories mean
// "same as parent"; they never mean "no exclusions".
type Strategy interface {
	Name() string
	// IsContextRoot reports whether node is an independent checking unit.
	IsContextRoot(t *tree.Tree, node tree.NodeID) bool
	// Behavior classifies node while checking root. Unspecified lets the
	// engine decide (TEXT for leaves, ABSORB otherwise).
	Behavior(t *tree.Tree, root, node tree.NodeID) token.Behavior
	IgnoredRuleGroups(t *tree.Tree, root, node tree.NodeID) (token.RuleGroupSet, bool)
	IgnoredCategories(t *tree.Tree, root, node tree.NodeID) (token.CategorySet, bool)
	ReplacementRules(t *tree.Tree, root tree.NodeID) []CharRule
	// StealthRanges returns ranges of the flattened text that stay in the
	// text but must not be checked.
	StealthRanges(t *tree.Tree, root tree.NodeID, flat string) []token.Range
}

// RenameAware is implemented by strategies whose findings on some nodes must
// be fixed through a semantic rename instead of a text edit.
type RenameAware interface {
	UseRename(t *tree.Tree, node tree.NodeID) bool
}

// Base answers "no opinion" to everything. Embed it and override.
type Base struct{}

func (Base) IsContextRoot(*tree.Tree, tree.NodeID) bool { return false }

func (Base) Behavior(*tree.Tree, tree.NodeID, tree.NodeID) token.Behavior {
	return token.Unspecified
}

func (Base) IgnoredRuleGroups(*tree.Tree, tree.NodeID, tree.NodeID) (token.RuleGroupSet, bool) {
	return token.EmptyRuleGroups, false
}

func (Base) IgnoredCategories(*tree.Tree, tree.NodeID, tree.NodeID) (token.CategorySet, bool) {
	return token.NoCategories, false
}

func (Base) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule { return nil }

func (Base) StealthRanges(*tree.Tree, tree.NodeID, string) []token.Range { return nil }

// UseRename reports whether findings on node should be fixed by renaming.
func UseRename(s Strategy, t *tree.Tree, node tree.NodeID) bool {
	if ra, ok := s.(RenameAware); ok {
		return ra.UseRename(t, node)
	}
	return false
}

func kindIn(k tree.Kind, kinds ...tree.Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
