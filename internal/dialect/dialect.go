package dialect

import (
	"fmt"

	"prosecheck/internal/tree"
)

// Kind is a content language the classifier can recognise.
type Kind uint8

const (
	Unknown Kind = iota
	Go
	Python
	Markdown
	HTML

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Go:
		return "go"
	case Python:
		return "python"
	case Markdown:
		return "markdown"
	case HTML:
		return "html"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Language returns the tree language id for k; Unknown maps to plain text.
func (k Kind) Language() string {
	switch k {
	case Go:
		return tree.LanguageGo
	case Python:
		return tree.LanguagePython
	case Markdown:
		return tree.LanguageMarkdown
	case HTML:
		return tree.LanguageHTML
	}
	return tree.LanguagePlainText
}
