package strategy

import (
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// Plain checks plain text paragraph by paragraph.
type Plain struct{ Base }

func (Plain) Name() string { return "plain" }

func (Plain) IsContextRoot(t *tree.Tree, node tree.NodeID) bool {
	return t.Kind(node) == tree.KindParagraph
}

func (Plain) Behavior(t *tree.Tree, _, node tree.NodeID) token.Behavior {
	switch t.Kind(node) {
	case tree.KindDocument, tree.KindParagraph, tree.KindLine, tree.KindNewline:
		return token.Text
	}
	return token.Unspecified
}

func (Plain) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule {
	return []CharRule{replaceRune('\t', ' '), replaceRune('\r', ' ')}
}

func (Plain) StealthRanges(_ *tree.Tree, _ tree.NodeID, flat string) []token.Range {
	return indentAfterNewlines(flat)
}
