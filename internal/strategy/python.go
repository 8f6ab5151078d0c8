package strategy

import (
	"regexp"
	"strings"

	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

const (
	pyComment             tree.Kind = "comment"
	pyString              tree.Kind = "string"
	pyStringStart         tree.Kind = "string_start"
	pyStringContent       tree.Kind = "string_content"
	pyStringEnd           tree.Kind = "string_end"
	pyInterpolation       tree.Kind = "interpolation"
	pyEscapeSequence      tree.Kind = "escape_sequence"
	pyEscapeInterpolation tree.Kind = "escape_interpolation"
	pyQuote               tree.Kind = `"`
	pyExpressionStatement tree.Kind = "expression_statement"
	pyIdentifier          tree.Kind = "identifier"
)

var (
	pyDirectivePrefixes = []string{"#!", "# type:", "# noqa", "# pylint:", "# fmt:", "# mypy:", "# pragma"}
	pyStringOpen        = regexp.MustCompile(`^[rRbBuUfF]{0,2}("""|'''|"|')`)
	pyStringClose       = regexp.MustCompile(`("""|'''|"|')$`)
)

// Python checks comments and strings of Python files.
type Python struct{ Base }

func (Python) Name() string { return "python" }

func (Python) IsContextRoot(t *tree.Tree, node tree.NodeID) bool {
	return kindIn(t.Kind(node), pyComment, pyString)
}

func (Python) Behavior(t *tree.Tree, root, node tree.NodeID) token.Behavior {
	if node == root {
		return token.Text
	}
	switch t.Kind(node) {
	case pyStringStart, pyStringEnd, pyQuote:
		return token.Stealth
	case pyInterpolation, pyEscapeSequence, pyEscapeInterpolation:
		return token.Absorb
	case pyStringContent:
		return token.Text
	}
	return token.Unspecified
}

// Docstrings are prose; other strings ignore casing and typography.
func (Python) IgnoredCategories(t *tree.Tree, _, node tree.NodeID) (token.CategorySet, bool) {
	if t.Kind(node) == pyString && t.Kind(t.Parent(node)) != pyExpressionStatement {
		return token.NewCategorySet(token.CategoryCasing, token.CategoryTypography), true
	}
	return token.NoCategories, false
}

func (Python) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule {
	return []CharRule{replaceRune('\t', ' '), replaceRune('\r', ' ')}
}

func (Python) StealthRanges(t *tree.Tree, root tree.NodeID, flat string) []token.Range {
	switch t.Kind(root) {
	case pyComment:
		for _, p := range pyDirectivePrefixes {
			if strings.HasPrefix(flat, p) {
				return []token.Range{{Start: 0, End: len(flat)}}
			}
		}
		if r, ok := prefixRange(flat, "#"); ok {
			return []token.Range{r}
		}
	case pyString:
		out := indentAfterNewlines(flat)
		// grammars without string_start/string_end leave quotes in the text
		if loc := pyStringOpen.FindStringIndex(flat); loc != nil {
			out = append(out, token.Range{Start: loc[0], End: loc[1]})
			if end := pyStringClose.FindStringIndex(flat[loc[1]:]); end != nil {
				out = append(out, token.Range{Start: loc[1] + end[0], End: loc[1] + end[1]})
			}
		}
		return append(out, formatVerbRanges(flat)...)
	}
	return nil
}

func (Python) UseRename(t *tree.Tree, node tree.NodeID) bool {
	return t.Kind(node) == pyIdentifier
}
