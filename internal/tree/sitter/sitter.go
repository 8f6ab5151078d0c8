// Package sitter converts tree-sitter syntax trees into tree.Tree.
//
// Every tree-sitter node, named or anonymous, becomes a tree node whose
// Kind is the grammar symbol. Bytes not covered by any child are filled
// with gap leaves by tree.Builder, so trees produced here satisfy the
// coverage invariant the flattening engine relies on.
package sitter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
	ts "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/python"

	"prosecheck/internal/source"
	"prosecheck/internal/tree"
)

var (
	// ErrFileTooLarge is returned for content above the configured limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
	// ErrInvalidContent is returned for content that is not valid UTF-8.
	ErrInvalidContent = errors.New("content is not valid UTF-8")
	// ErrUnsupportedLanguage is returned for languages without a grammar.
	ErrUnsupportedLanguage = errors.New("no tree-sitter grammar for language")
)

// DefaultMaxFileSize bounds the content handed to tree-sitter.
const DefaultMaxFileSize = 10 * 1024 * 1024

type grammar struct {
	language   func() *ts.Language
	extensions []string
}

var grammars = map[string]grammar{
	tree.LanguageGo:       {golang.GetLanguage, []string{".go"}},
	tree.LanguagePython:   {python.GetLanguage, []string{".py", ".pyi"}},
	tree.LanguageMarkdown: {tree_sitter_markdown.GetLanguage, []string{".md", ".markdown"}},
	tree.LanguageHTML:     {html.GetLanguage, []string{".html", ".htm", ".xhtml"}},
}

// Supports reports whether lang has a grammar.
func Supports(lang string) bool {
	_, ok := grammars[lang]
	return ok
}

// Languages returns the languages with a grammar, sorted.
func Languages() []string {
	out := make([]string, 0, len(grammars))
	for lang := range grammars {
		out = append(out, lang)
	}
	slices.Sort(out)
	return out
}

// Extensions returns the file extensions (with dot) mapped to lang.
func Extensions(lang string) []string {
	return slices.Clone(grammars[lang].extensions)
}

// Parser parses content with tree-sitter. It is safe for concurrent use;
// every Parse call creates its own tree-sitter parser.
type Parser struct {
	maxFileSize int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize sets the largest accepted content size in bytes.
func WithMaxFileSize(n int) Option {
	return func(p *Parser) { p.maxFileSize = n }
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses content with the default parser.
func Parse(ctx context.Context, lang string, file source.FileID, content []byte) (*tree.Tree, error) {
	return NewParser().Parse(ctx, lang, file, content)
}

// Parse builds a tree for content in lang. The root node always spans the
// whole content.
func (p *Parser) Parse(ctx context.Context, lang string, file source.FileID, content []byte) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s parse canceled before start: %w", lang, err)
	}
	g, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if len(content) > p.maxFileSize {
		return nil, ErrFileTooLarge
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidContent
	}
	total, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, ErrFileTooLarge
	}

	parser := ts.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.language())

	st, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer st.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s parse canceled after tree-sitter: %w", lang, err)
	}

	c := converter{ctx: ctx, b: tree.NewBuilder(file, content).SetLanguage(lang)}
	root := st.RootNode()
	c.b.Open(tree.Kind(root.Type()), 0)
	if err := c.children(root, 0, total); err != nil {
		return nil, err
	}
	c.b.Close(total)
	return c.b.Finish()
}

type converter struct {
	ctx     context.Context
	b       *tree.Builder
	visited int
}

// children converts the children of n into [lo, hi). Child spans are
// clamped so siblings never overlap and never escape the parent.
func (c *converter) children(n *ts.Node, lo, hi uint32) error {
	pos := lo
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		end, err := c.node(child, pos, hi)
		if err != nil {
			return err
		}
		pos = end
	}
	return nil
}

// node converts n and returns the end of its clamped span.
func (c *converter) node(n *ts.Node, lo, hi uint32) (uint32, error) {
	c.visited++
	if c.visited%1024 == 0 {
		if err := c.ctx.Err(); err != nil {
			return 0, fmt.Errorf("conversion canceled: %w", err)
		}
	}
	start := min(max(n.StartByte(), lo), hi)
	end := min(max(n.EndByte(), start), hi)
	kind := tree.Kind(n.Type())
	if n.ChildCount() == 0 {
		c.b.Leaf(kind, start, end)
		return end, nil
	}
	c.b.Open(kind, start)
	if err := c.children(n, start, end); err != nil {
		return 0, err
	}
	c.b.Close(end)
	return end, nil
}
