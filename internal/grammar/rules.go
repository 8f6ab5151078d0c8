package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"prosecheck/internal/check"
	"prosecheck/internal/token"
)

type word struct {
	start, end int
	text       string
}

// words splits text into runs of letters and digits; an apostrophe
// between letters stays inside the word.
func words(text string) []word {
	var out []word
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			i += size
			continue
		}
		start := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if isWordRune(r) {
				i += size
				continue
			}
			if (r == '\'' || r == '’') && i+size < len(text) {
				if next, _ := utf8.DecodeRuneInString(text[i+size:]); unicode.IsLetter(next) {
					i += size
					continue
				}
			}
			break
		}
		out = append(out, word{start: start, end: i, text: text[start:i]})
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isBlank(s string) bool {
	return s != "" && strings.Trim(s, " \t\r\n") == ""
}

func isIdentifierLike(s string) bool {
	for i, r := range s {
		if unicode.IsDigit(r) || r == '_' || i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// repeats that are usually intentional
var allowedRepeats = map[string]bool{
	"had":  true,
	"that": true,
}

func wordRepeat(text string) []check.RawSpan {
	ws := words(text)
	var out []check.RawSpan
	for i := 1; i < len(ws); i++ {
		a, b := ws[i-1], ws[i]
		if !isBlank(text[a.end:b.start]) || !strings.EqualFold(a.text, b.text) {
			continue
		}
		if !strings.ContainsFunc(a.text, unicode.IsLetter) || allowedRepeats[strings.ToLower(a.text)] {
			continue
		}
		out = append(out, check.RawSpan{
			Range:       token.Range{Start: a.end, End: b.end},
			Message:     fmt.Sprintf("the word %q is repeated", b.text),
			Suggestions: []string{""},
		})
	}
	return out
}

var sentenceGap = regexp.MustCompile(`^[.!?]["')\]”’»]*[ \t\r\n]+$`)

func sentenceStartCase(text string) []check.RawSpan {
	ws := words(text)
	var out []check.RawSpan
	caser := cases.Title(language.Und, cases.NoLower)
	for i := 1; i < len(ws); i++ {
		prev, w := ws[i-1], ws[i]
		if !sentenceGap.MatchString(text[prev.end:w.start]) {
			continue
		}
		// initials and abbreviations such as "e.g." or "i.e."
		if utf8.RuneCountInString(prev.text) == 1 || abbreviations[strings.ToLower(prev.text)] {
			continue
		}
		first, _ := utf8.DecodeRuneInString(w.text)
		if !unicode.IsLower(first) || isIdentifierLike(w.text) {
			continue
		}
		out = append(out, check.RawSpan{
			Range:       token.Range{Start: w.start, End: w.end},
			Message:     "sentence should start with an uppercase letter",
			Suggestions: []string{caser.String(w.text)},
		})
	}
	return out
}

var abbreviations = map[string]bool{
	"etc": true, "vs": true, "cf": true, "approx": true, "fig": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "st": true, "no": true,
}

func spaceBeforePunct(text string) []check.RawSpan {
	var out []check.RawSpan
	for i := 1; i < len(text); i++ {
		p := text[i]
		if !strings.ContainsRune(",;:.!?", rune(p)) || (text[i-1] != ' ' && text[i-1] != '\t') {
			continue
		}
		j := i
		for j > 0 && (text[j-1] == ' ' || text[j-1] == '\t') {
			j--
		}
		if j == 0 {
			continue
		}
		before, _ := utf8.DecodeLastRuneInString(text[:j])
		if !isWordRune(before) && !strings.ContainsRune(`)"'”’`, before) {
			continue
		}
		if i+1 < len(text) {
			next := text[i+1]
			if next == '.' || (next != ' ' && next != '\t' && next != '\n' && next != '\r' && !strings.ContainsRune(`)"'`, rune(next))) {
				continue
			}
		}
		out = append(out, check.RawSpan{
			Range:       token.Range{Start: j, End: i},
			Message:     fmt.Sprintf("remove whitespace before %q", string(p)),
			Suggestions: []string{""},
		})
	}
	return out
}

func multipleSpaces(text string) []check.RawSpan {
	var out []check.RawSpan
	for i := 0; i < len(text); {
		if text[i] != ' ' {
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] == ' ' {
			j++
		}
		if j-i >= 2 && i > 0 && j < len(text) && !isSpaceByte(text[i-1]) && !isSpaceByte(text[j]) {
			out = append(out, check.RawSpan{
				Range:       token.Range{Start: i, End: j},
				Message:     fmt.Sprintf("%d consecutive spaces", j-i),
				Suggestions: []string{" "},
			})
		}
		i = j
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var (
	consonantSoundPrefixes = []string{"uni", "use", "usu", "uti", "ubiq", "eu", "one", "once"}
	vowelSoundPrefixes     = []string{"hour", "honest", "honor", "honour", "heir"}
)

func wantsAn(w string) bool {
	lw := strings.ToLower(w)
	for _, p := range consonantSoundPrefixes {
		if strings.HasPrefix(lw, p) {
			return false
		}
	}
	for _, p := range vowelSoundPrefixes {
		if strings.HasPrefix(lw, p) {
			return true
		}
	}
	return strings.ContainsRune("aeiou", rune(lw[0]))
}

func aVsAn(text string) []check.RawSpan {
	ws := words(text)
	var out []check.RawSpan
	for i := 0; i+1 < len(ws); i++ {
		art, next := ws[i], ws[i+1]
		la := strings.ToLower(art.text)
		if la != "a" && la != "an" {
			continue
		}
		if gap := text[art.end:next.start]; strings.Trim(gap, " ") != "" || gap == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(next.text)
		if first >= utf8.RuneSelf || !unicode.IsLetter(first) || len(next.text) < 2 {
			continue
		}
		if isIdentifierLike(next.text) || strings.ToUpper(next.text) == next.text {
			continue
		}
		var want string
		switch an := wantsAn(next.text); {
		case la == "a" && an:
			want = "an"
		case la == "an" && !an:
			want = "a"
		default:
			continue
		}
		if art.text[0] == 'A' {
			want = strings.ToUpper(want[:1]) + want[1:]
		}
		out = append(out, check.RawSpan{
			Range:       token.Range{Start: art.start, End: art.end},
			Message:     fmt.Sprintf("use %q before %q", want, next.text),
			Suggestions: []string{want},
		})
	}
	return out
}
