// Package tree holds the immutable syntax tree the checker walks.
//
// Nodes live in an arena addressed by NodeID; a node carries a Kind tag, an
// absolute byte Span, a parent link and an ordered child list. Leaves carry
// their payload implicitly: the text of a leaf is the source slice under its
// span. Trees are produced by Builder, which guarantees that the children of
// every inner node cover its span exactly (uncovered bytes become KindGap
// leaves). The flattening engine relies on that coverage.
//
// Trees come from two places: ParsePlainText for prose files and the
// tree/sitter adapter for programming and markup languages.
package tree
