package driver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"prosecheck/internal/dialect"
	"prosecheck/internal/source"
	"prosecheck/internal/tree"
	"prosecheck/internal/tree/sitter"
)

// ErrUnknownLanguage is returned when neither the extension nor the content
// identifies a supported language.
var ErrUnknownLanguage = errors.New("unknown language")

var plainExtensions = []string{".txt", ".text", ".rst", ".adoc"}

var byExtension = func() map[string]string {
	m := make(map[string]string)
	for _, lang := range sitter.Languages() {
		for _, ext := range sitter.Extensions(lang) {
			m[ext] = lang
		}
	}
	for _, ext := range plainExtensions {
		m[ext] = tree.LanguagePlainText
	}
	return m
}()

// LanguageForExtension maps a file name to a language by its extension.
func LanguageForExtension(path string) (string, bool) {
	lang, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// DetectLanguage picks the language of a file. A known extension wins;
// files without one are classified by content, and files the classifier
// cannot place are plain text. A file with an unrelated extension
// (".png", ".json") is ErrUnknownLanguage.
func DetectLanguage(path string, content []byte) (string, error) {
	if lang, ok := LanguageForExtension(path); ok {
		return lang, nil
	}
	if filepath.Ext(path) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, path)
	}
	c, _ := dialect.Detect(source.FileID(0), content)
	return c.Kind.Language(), nil
}

