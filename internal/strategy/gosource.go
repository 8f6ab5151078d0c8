package strategy

import (
	"regexp"
	"strings"

	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

const (
	goComment                  tree.Kind = "comment"
	goInterpretedString        tree.Kind = "interpreted_string_literal"
	goRawString                tree.Kind = "raw_string_literal"
	goInterpretedStringContent tree.Kind = "interpreted_string_literal_content"
	goRawStringContent         tree.Kind = "raw_string_literal_content"
	goEscapeSequence           tree.Kind = "escape_sequence"
	goDoubleQuote              tree.Kind = `"`
	goBacktick                 tree.Kind = "`"
	goImportSpec               tree.Kind = "import_spec"
	goFieldDeclaration         tree.Kind = "field_declaration"
	goIdentifier               tree.Kind = "identifier"
	goTypeIdentifier           tree.Kind = "type_identifier"
	goFieldIdentifier          tree.Kind = "field_identifier"
	goPackageIdentifier        tree.Kind = "package_identifier"
)

var (
	goDirectivePrefixes = []string{"//go:", "//nolint", "//line ", "//export ", "// +build", "//lint:", "//extern "}
	// fmt verbs: %v, %-8s, %[2]*.3f, %%
	formatVerb = regexp.MustCompile(`%[-+# 0]*(\[\d+\])?(\d+|\*)?(\.(\d+|\*)?)?[a-zA-Z%]`)
)

// GoSource checks comments and string literals of Go files, optionally also
// identifiers.
type GoSource struct {
	Base
	CheckIdentifiers bool
}

func (GoSource) Name() string { return "go" }

func (g GoSource) IsContextRoot(t *tree.Tree, node tree.NodeID) bool {
	switch k := t.Kind(node); k {
	case goComment:
		return true
	case goInterpretedString, goRawString:
		// import paths and struct tags are not prose
		return !kindIn(t.Kind(t.Parent(node)), goImportSpec, goFieldDeclaration)
	case goIdentifier, goTypeIdentifier, goFieldIdentifier:
		return g.CheckIdentifiers
	}
	return false
}

func (GoSource) Behavior(t *tree.Tree, root, node tree.NodeID) token.Behavior {
	if node == root {
		return token.Text
	}
	switch t.Kind(node) {
	case goDoubleQuote, goBacktick:
		return token.Stealth
	case goEscapeSequence:
		return token.Absorb
	case goInterpretedStringContent, goRawStringContent:
		return token.Text
	}
	return token.Unspecified
}

// String literals are messages, keys and formats; casing and typography
// findings there are noise.
func (GoSource) IgnoredCategories(t *tree.Tree, _, node tree.NodeID) (token.CategorySet, bool) {
	if kindIn(t.Kind(node), goInterpretedString, goRawString) {
		return token.NewCategorySet(token.CategoryCasing, token.CategoryTypography), true
	}
	return token.NoCategories, false
}

func (GoSource) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule {
	return []CharRule{replaceRune('\t', ' '), replaceRune('\r', ' ')}
}

func (GoSource) StealthRanges(t *tree.Tree, root tree.NodeID, flat string) []token.Range {
	switch t.Kind(root) {
	case goComment:
		return commentStealth(flat)
	case goInterpretedString, goRawString:
		var out []token.Range
		if r, ok := prefixRange(flat, "`", `"`); ok {
			out = append(out, r)
		}
		if r, ok := suffixRange(flat, "`", `"`); ok {
			out = append(out, r)
		}
		return append(out, formatVerbRanges(flat)...)
	}
	return nil
}

func (GoSource) UseRename(t *tree.Tree, node tree.NodeID) bool {
	return kindIn(t.Kind(node), goIdentifier, goTypeIdentifier, goFieldIdentifier, goPackageIdentifier)
}

func commentStealth(flat string) []token.Range {
	for _, p := range goDirectivePrefixes {
		if strings.HasPrefix(flat, p) {
			return []token.Range{{Start: 0, End: len(flat)}}
		}
	}
	var out []token.Range
	if r, ok := prefixRange(flat, "//", "/*"); ok {
		out = append(out, r)
	}
	if strings.HasPrefix(flat, "/*") {
		if r, ok := suffixRange(flat, "*/"); ok {
			out = append(out, r)
		}
		out = append(out, starGutter(flat)...)
		return out
	}
	return append(out, indentAfterNewlines(flat)...)
}

// starGutter covers "   * " prefixes of block comment lines.
func starGutter(flat string) []token.Range {
	var out []token.Range
	for i := 0; i < len(flat); i++ {
		if flat[i] != '\n' {
			continue
		}
		j := i + 1
		for j < len(flat) && (flat[j] == ' ' || flat[j] == '\t') {
			j++
		}
		if j < len(flat) && flat[j] == '*' && !strings.HasPrefix(flat[j:], "*/") {
			j++
		}
		if j > i+1 {
			out = append(out, token.Range{Start: i + 1, End: j})
		}
	}
	return out
}

func formatVerbRanges(flat string) []token.Range {
	locs := formatVerb.FindAllStringIndex(flat, -1)
	out := make([]token.Range, 0, len(locs))
	for _, loc := range locs {
		out = append(out, token.Range{Start: loc[0], End: loc[1]})
	}
	return out
}
