package strategy

import (
	"strings"

	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// Markdown node kinds of the tree-sitter block grammar.
const (
	mdParagraph         tree.Kind = "paragraph"
	mdAtxHeading        tree.Kind = "atx_heading"
	mdSetextHeading     tree.Kind = "setext_heading"
	mdInline            tree.Kind = "inline"
	mdBlockContinuation tree.Kind = "block_continuation"
	mdFencedCodeBlock   tree.Kind = "fenced_code_block"
	mdIndentedCodeBlock tree.Kind = "indented_code_block"
	mdHTMLBlock         tree.Kind = "html_block"
	mdLinkRefDefinition tree.Kind = "link_reference_definition"
	mdSetextH1Underline tree.Kind = "setext_h1_underline"
	mdSetextH2Underline tree.Kind = "setext_h2_underline"
	mdThematicBreak     tree.Kind = "thematic_break"
	mdPipeTable         tree.Kind = "pipe_table"
	mdMinusMetadata     tree.Kind = "minus_metadata"
	mdPlusMetadata      tree.Kind = "plus_metadata"
	mdListMarkerMinus   tree.Kind = "list_marker_minus"
	mdListMarkerPlus    tree.Kind = "list_marker_plus"
	mdListMarkerStar    tree.Kind = "list_marker_star"
	mdListMarkerDot     tree.Kind = "list_marker_dot"
	mdListMarkerParen   tree.Kind = "list_marker_parenthesis"
	mdTaskListUnchecked tree.Kind = "task_list_marker_unchecked"
	mdTaskListChecked   tree.Kind = "task_list_marker_checked"
)

// Markdown checks paragraphs and headings of a markdown document.
type Markdown struct{ Base }

func (Markdown) Name() string { return "markdown" }

func (Markdown) IsContextRoot(t *tree.Tree, node tree.NodeID) bool {
	return kindIn(t.Kind(node), mdParagraph, mdAtxHeading, mdSetextHeading)
}

func (Markdown) Behavior(t *tree.Tree, root, node tree.NodeID) token.Behavior {
	k := t.Kind(node)
	switch {
	case node == root, k == mdInline:
		return token.Text
	case kindIn(k, mdBlockContinuation, mdSetextH1Underline, mdSetextH2Underline,
		mdListMarkerMinus, mdListMarkerPlus, mdListMarkerStar, mdListMarkerDot, mdListMarkerParen,
		mdTaskListChecked, mdTaskListUnchecked):
		return token.Stealth
	case isAtxMarker(k):
		return token.Stealth
	case kindIn(k, mdFencedCodeBlock, mdIndentedCodeBlock, mdHTMLBlock, mdLinkRefDefinition,
		mdThematicBreak, mdPipeTable, mdMinusMetadata, mdPlusMetadata):
		return token.Absorb
	}
	return token.Unspecified
}

func isAtxMarker(k tree.Kind) bool {
	s := string(k)
	return strings.HasPrefix(s, "atx_h") && strings.HasSuffix(s, "_marker")
}

// Headings are usually title case.
func (Markdown) IgnoredRuleGroups(t *tree.Tree, _, node tree.NodeID) (token.RuleGroupSet, bool) {
	if kindIn(t.Kind(node), mdAtxHeading, mdSetextHeading) {
		return token.NewRuleGroupSet(token.GroupCapitalization), true
	}
	return token.EmptyRuleGroups, false
}

func (Markdown) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule {
	return []CharRule{replaceRune('\t', ' '), replaceRune('\r', ' ')}
}

// StealthRanges hides inline code, link destinations, autolinks, emphasis
// markers and line indentation.
func (Markdown) StealthRanges(_ *tree.Tree, _ tree.NodeID, flat string) []token.Range {
	out := indentAfterNewlines(flat)
	out = append(out, enclosed(flat, "`", "`")...)
	out = append(out, enclosed(flat, "](", ")")...)
	out = append(out, enclosed(flat, "<http", ">")...)
	out = append(out, emphasisMarkers(flat)...)
	return out
}

func emphasisMarkers(flat string) []token.Range {
	var out []token.Range
	for i := 0; i < len(flat); {
		c := flat[i]
		if c != '*' && c != '_' && c != '~' {
			i++
			continue
		}
		j := i
		for j < len(flat) && flat[j] == c {
			j++
		}
		// одиночный '_' внутри слова не разметка
		if c == '_' && j-i == 1 && i > 0 && j < len(flat) && isWordByte(flat[i-1]) && isWordByte(flat[j]) {
			i = j
			continue
		}
		out = append(out, token.Range{Start: i, End: j})
		i = j
	}
	return out
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}
