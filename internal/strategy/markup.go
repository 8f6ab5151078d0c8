package strategy

import (
	"strings"

	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

const (
	htmlDocument        tree.Kind = "document"
	htmlElement         tree.Kind = "element"
	htmlText            tree.Kind = "text"
	htmlStartTag        tree.Kind = "start_tag"
	htmlEndTag          tree.Kind = "end_tag"
	htmlSelfClosingTag  tree.Kind = "self_closing_tag"
	htmlTagName         tree.Kind = "tag_name"
	htmlComment         tree.Kind = "comment"
	htmlDoctype         tree.Kind = "doctype"
	htmlScriptElement   tree.Kind = "script_element"
	htmlStyleElement    tree.Kind = "style_element"
	htmlErroneousEndTag tree.Kind = "erroneous_end_tag"
	htmlEntity          tree.Kind = "entity"
)

var (
	// blocks checked as roots of their own
	htmlBlockTags = map[string]bool{
		"p": true, "li": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"td": true, "th": true, "dd": true, "dt": true, "caption": true, "figcaption": true, "title": true,
	}
	htmlCodeTags = map[string]bool{
		"code": true, "pre": true, "kbd": true, "samp": true, "var": true, "svg": true, "math": true, "textarea": true,
	}
	htmlCasingFreeTags = map[string]bool{"abbr": true, "acronym": true}
	htmlQuoteTags      = map[string]bool{"q": true, "blockquote": true, "cite": true}
)

// Markup checks the text of HTML documents.
type Markup struct{ Base }

func (Markup) Name() string { return "markup" }

func (Markup) IsContextRoot(t *tree.Tree, node tree.NodeID) bool {
	switch t.Kind(node) {
	case htmlDocument:
		return t.Parent(node) == tree.NoNode
	case htmlElement:
		return htmlBlockTags[tagName(t, node)]
	}
	return false
}

func (Markup) Behavior(t *tree.Tree, root, node tree.NodeID) token.Behavior {
	if node == root {
		return token.Text
	}
	switch t.Kind(node) {
	case htmlDocument, htmlText:
		return token.Text
	case htmlElement:
		if htmlCodeTags[tagName(t, node)] {
			return token.Absorb
		}
		return token.Text
	case htmlStartTag, htmlEndTag, htmlSelfClosingTag, htmlComment, htmlDoctype,
		htmlScriptElement, htmlStyleElement, htmlErroneousEndTag, htmlEntity:
		return token.Absorb
	}
	return token.Unspecified
}

func (Markup) IgnoredRuleGroups(t *tree.Tree, _, node tree.NodeID) (token.RuleGroupSet, bool) {
	if t.Kind(node) == htmlElement && htmlQuoteTags[tagName(t, node)] {
		return token.NewRuleGroupSet(token.GroupQuotes), true
	}
	return token.EmptyRuleGroups, false
}

func (Markup) IgnoredCategories(t *tree.Tree, _, node tree.NodeID) (token.CategorySet, bool) {
	if t.Kind(node) == htmlElement && htmlCasingFreeTags[tagName(t, node)] {
		return token.NewCategorySet(token.CategoryCasing), true
	}
	return token.NoCategories, false
}

func (Markup) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule {
	return []CharRule{replaceRune('\t', ' '), replaceRune('\r', ' ')}
}

func (Markup) StealthRanges(_ *tree.Tree, _ tree.NodeID, flat string) []token.Range {
	return indentAfterNewlines(flat)
}

// tagName returns the lowercased tag of an element node.
func tagName(t *tree.Tree, element tree.NodeID) string {
	tag := t.FirstChildOfKind(element, htmlStartTag, htmlSelfClosingTag)
	if tag == tree.NoNode {
		return ""
	}
	name := t.FirstChildOfKind(tag, htmlTagName)
	if name == tree.NoNode {
		return ""
	}
	return strings.ToLower(t.Text(name))
}
