package dialect

import (
	"bytes"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"prosecheck/internal/source"
)

// MaxLines bounds how many lines Collect inspects.
const MaxLines = 400

type patternSignal struct {
	Dialect Kind
	Score   int
	Reason  string
	re      *regexp.Regexp
}

// patternSignals match anywhere in a trimmed line.
var patternSignals = []patternSignal{
	{Go, 4, "go short variable declaration `:=`", regexp.MustCompile(`^\w+(, \w+)* := `)},
	{Go, 3, "go error check", regexp.MustCompile(`^if err != nil \{$`)},
	{Python, 2, "python `self.` access", regexp.MustCompile(`\bself\.\w+`)},
	{Python, 2, "python `None`", regexp.MustCompile(`\b(is|is not|=|==|return) None\b`)},
	{Markdown, 3, "markdown link", regexp.MustCompile(`\[[^\]]+\]\([^) ]+\)`)},
	{Markdown, 1, "markdown emphasis", regexp.MustCompile(`\*\*[^*\s][^*]*\*\*`)},
	{HTML, 2, "html closing tag", regexp.MustCompile(`</(p|div|span|a|li|ul|ol|h[1-6]|body|head|table|tr|td|em|strong|b|i|code|pre|section|article)>`)},
	{HTML, 2, "html element", regexp.MustCompile(`<(p|div|span|a|li|ul|ol|h[1-6]|br|img|table|section|article)( [a-z-]+="[^"]*")*\s*/?>`)},
}

var (
	atxHeading  = regexp.MustCompile(`^#{1,6} \S`)
	listItem    = regexp.MustCompile(`^([-*+]|\d+[.)]) \S`)
	setextUnder = regexp.MustCompile(`^(=+|-+)$`)
)

// ObserveLine records evidence for one line. line excludes the newline;
// span covers it in the file. prev is the previous line, trimmed.
func ObserveLine(e *Evidence, line, prev string, span source.Span) {
	if e == nil {
		return
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	add := func(k Kind, score int, reason string) {
		e.Add(Hint{Dialect: k, Score: score, Reason: reason, Span: span})
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "<!doctype html"):
		add(HTML, 10, "html doctype")
	case strings.HasPrefix(lower, "<html"):
		add(HTML, 6, "html root element")
	case strings.HasPrefix(trimmed, "#!") && strings.Contains(trimmed, "python"):
		add(Python, 10, "python shebang")
	case strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~"):
		add(Markdown, 4, "markdown code fence")
	case atxHeading.MatchString(line):
		add(Markdown, 3, "markdown heading")
	case listItem.MatchString(trimmed):
		add(Markdown, 1, "markdown list item")
	case strings.HasPrefix(trimmed, "> "):
		add(Markdown, 1, "markdown block quote")
	case setextUnder.MatchString(trimmed) && prev != "" && len(trimmed) >= 3:
		add(Markdown, 3, "markdown setext heading")
	}

	if word, _, _ := strings.Cut(trimmed, " "); word != "" {
		recordKeyword(e, word, trimmed, span)
	}
	for _, sig := range patternSignals {
		if sig.re.MatchString(trimmed) {
			add(sig.Dialect, sig.Score, sig.Reason)
		}
	}
}

// Collect scans the first MaxLines lines of content.
func Collect(file source.FileID, content []byte) *Evidence {
	e := NewEvidence()
	prev := ""
	start := 0
	for n := 0; n < MaxLines && start < len(content); n++ {
		end := bytes.IndexByte(content[start:], '\n')
		if end < 0 {
			end = len(content)
		} else {
			end += start
		}
		line := string(bytes.TrimSuffix(content[start:end], []byte("\r")))
		s, errS := safecast.Conv[uint32](start)
		en, errE := safecast.Conv[uint32](end)
		if errS != nil || errE != nil {
			break
		}
		ObserveLine(e, line, prev, source.Span{File: file, Start: s, End: en})
		prev = strings.TrimSpace(line)
		start = end + 1
	}
	return e
}
