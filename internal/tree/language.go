package tree

// Language ids shared by parsers, strategies and the driver.
const (
	LanguagePlainText = "plaintext"
	LanguageMarkdown  = "markdown"
	LanguageHTML      = "html"
	LanguageGo        = "go"
	LanguagePython    = "python"
)

// Languages lists every supported language id.
func Languages() []string {
	return []string{LanguagePlainText, LanguageMarkdown, LanguageHTML, LanguageGo, LanguagePython}
}
