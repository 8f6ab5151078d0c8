package driver

import (
	"context"
	"fmt"

	"prosecheck/internal/source"
	"prosecheck/internal/tree"
	"prosecheck/internal/tree/sitter"
)

// Parse builds the tree of content in lang: plain text with the line
// parser, everything else with tree-sitter.
func Parse(ctx context.Context, lang string, file source.FileID, content []byte) (*tree.Tree, error) {
	switch {
	case lang == tree.LanguagePlainText:
		return tree.ParsePlainText(file, content)
	case sitter.Supports(lang):
		return sitter.Parse(ctx, lang, file, content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
}
