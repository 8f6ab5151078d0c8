package dialect

import (
	"regexp"

	"prosecheck/internal/source"
)

// keywordSignal fires when a line starts with a language keyword in the
// shape that language uses it. Prose rarely matches: "package delivery is
// late" is not `package ident`.
type keywordSignal struct {
	Dialect Kind
	Score   int
	Reason  string
	re      *regexp.Regexp
}

var keywordSignals = map[string][]keywordSignal{
	// Go-ish
	"package": {{Go, 6, "go package clause", regexp.MustCompile(`^package [a-z_][a-z0-9_]*$`)}},
	"func":    {{Go, 5, "go func declaration", regexp.MustCompile(`^func (\([^)]*\) )?[A-Za-z_]\w*(\[[^\]]*\])?\(.*\).*\{$`)}},
	"import": {
		{Go, 4, "go import", regexp.MustCompile(`^import (\(|"[^"]+"$|\w+ "[^"]+"$)`)},
		{Python, 4, "python import", regexp.MustCompile(`^import [A-Za-z_][\w.]*( as \w+)?(, [A-Za-z_][\w.]*)*$`)},
	},
	"type":  {{Go, 3, "go type declaration", regexp.MustCompile(`^type [A-Za-z_]\w* (struct|interface) \{$`)}},
	"defer": {{Go, 3, "go keyword `defer`", regexp.MustCompile(`^defer [\w.]+\(`)}},

	// Python-ish
	"def":   {{Python, 5, "python def", regexp.MustCompile(`^(async )?def [A-Za-z_]\w*\(.*\).*:$`)}},
	"from":  {{Python, 5, "python from-import", regexp.MustCompile(`^from [\w.]+ import [\w*, ()]+$`)}},
	"class": {{Python, 4, "python class", regexp.MustCompile(`^class [A-Za-z_]\w*(\(.*\))?:$`)}},
	"elif":  {{Python, 5, "python keyword `elif`", regexp.MustCompile(`^elif .+:$`)}},
	"if":    {{Python, 2, "python main guard", regexp.MustCompile(`^if __name__ == ['"]__main__['"]:$`)}},
	"async": {{Python, 5, "python def", regexp.MustCompile(`^async def [A-Za-z_]\w*\(.*\).*:$`)}},
}

// recordKeyword collects keyword evidence for a trimmed line whose first
// word is word.
func recordKeyword(e *Evidence, word, line string, span source.Span) {
	for _, sig := range keywordSignals[word] {
		if sig.re.MatchString(line) {
			e.Add(Hint{Dialect: sig.Dialect, Score: sig.Score, Reason: sig.Reason, Span: span})
		}
	}
}
