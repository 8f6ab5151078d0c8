package sitter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"prosecheck/internal/testkit"
	"prosecheck/internal/tree"
)

func parseOK(t *testing.T, lang, src string) *tree.Tree {
	t.Helper()
	tr, err := Parse(context.Background(), lang, 1, []byte(src))
	if err != nil {
		t.Fatalf("Parse(%s): %v", lang, err)
	}
	if err := testkit.CheckTreeSpans(tr); err != nil {
		t.Fatalf("Parse(%s) broke span invariants: %v", lang, err)
	}
	if tr.Language != lang {
		t.Fatalf("Language = %q, want %q", tr.Language, lang)
	}
	return tr
}

func kindsWithText(tr *tree.Tree, kind tree.Kind) []string {
	var out []string
	tr.Walk(tr.Root(), func(id tree.NodeID, _ int) bool {
		if tr.Kind(id) == kind {
			sp := tr.Span(id)
			out = append(out, string(tr.Content[sp.Start:sp.End]))
		}
		return true
	})
	return out
}

func TestParseGo(t *testing.T) {
	src := "\n// Package p says hello.\npackage p\n\nconst msg = \"hi there\\n\"\n"
	tr := parseOK(t, tree.LanguageGo, src)
	if sp := tr.Span(tr.Root()); sp.Start != 0 || int(sp.End) != len(src) {
		t.Fatalf("root span = %v, want whole content", sp)
	}
	comments := kindsWithText(tr, "comment")
	if len(comments) != 1 || comments[0] != "// Package p says hello." {
		t.Fatalf("comments = %q", comments)
	}
	strs := kindsWithText(tr, "interpreted_string_literal")
	if len(strs) != 1 || strs[0] != `"hi there\n"` {
		t.Fatalf("strings = %q", strs)
	}
	if esc := kindsWithText(tr, "escape_sequence"); len(esc) != 1 || esc[0] != `\n` {
		t.Fatalf("escapes = %q", esc)
	}
	// anonymous tokens are kept as nodes
	if quotes := kindsWithText(tr, `"`); len(quotes) != 2 {
		t.Fatalf("quote tokens = %d, want 2", len(quotes))
	}
}

func TestParsePython(t *testing.T) {
	src := "def f():\n    \"\"\"Return teh answer.\"\"\"\n    return 42  # the answer\n"
	tr := parseOK(t, tree.LanguagePython, src)
	if c := kindsWithText(tr, "comment"); len(c) != 1 || c[0] != "# the answer" {
		t.Fatalf("comments = %q", c)
	}
	if s := kindsWithText(tr, "string"); len(s) != 1 || !strings.Contains(s[0], "teh answer") {
		t.Fatalf("strings = %q", s)
	}
}

func TestParseMarkdown(t *testing.T) {
	src := "# Title\n\nSome text here.\n\n```go\ncode()\n```\n"
	tr := parseOK(t, tree.LanguageMarkdown, src)
	if h := kindsWithText(tr, "atx_heading"); len(h) != 1 || !strings.HasPrefix(h[0], "# Title") {
		t.Fatalf("headings = %q", h)
	}
	if p := kindsWithText(tr, "paragraph"); len(p) != 1 || !strings.HasPrefix(p[0], "Some text here.") {
		t.Fatalf("paragraphs = %q", p)
	}
	if c := kindsWithText(tr, "fenced_code_block"); len(c) != 1 {
		t.Fatalf("code blocks = %q", c)
	}
}

func TestParseHTML(t *testing.T) {
	src := "<p>Hello <b>wrold</b>!</p><!-- note -->"
	tr := parseOK(t, tree.LanguageHTML, src)
	if tags := kindsWithText(tr, "tag_name"); len(tags) != 4 {
		t.Fatalf("tag names = %q", tags)
	}
	if c := kindsWithText(tr, "comment"); len(c) != 1 || c[0] != "<!-- note -->" {
		t.Fatalf("comments = %q", c)
	}
}

func TestParseErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Parse(ctx, "cobol", 1, []byte("x")); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
	if _, err := Parse(ctx, tree.LanguageGo, 1, []byte{'p', 0xff}); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("err = %v, want ErrInvalidContent", err)
	}
	small := NewParser(WithMaxFileSize(4))
	if _, err := small.Parse(ctx, tree.LanguageGo, 1, []byte("package p")); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Parse(canceled, tree.LanguageGo, 1, []byte("package p")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEmptyContent(t *testing.T) {
	for _, lang := range Languages() {
		tr := parseOK(t, lang, "")
		if tr.Span(tr.Root()).Len() != 0 {
			t.Errorf("%s: empty content produced a non-empty root", lang)
		}
	}
}

func TestExtensions(t *testing.T) {
	if ext := Extensions(tree.LanguageMarkdown); len(ext) == 0 || ext[0] != ".md" {
		t.Fatalf("Extensions(markdown) = %v", ext)
	}
	if Supports(tree.LanguagePlainText) {
		t.Fatalf("plaintext has no grammar")
	}
	if got := Languages(); len(got) != 4 {
		t.Fatalf("Languages() = %v", got)
	}
}
