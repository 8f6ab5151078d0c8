package strategy

import (
	"strings"

	"prosecheck/internal/token"
)

// indentAfterNewlines returns the blank runs that start lines 2..n of flat.
func indentAfterNewlines(flat string) []token.Range {
	var out []token.Range
	for i := 0; i < len(flat); i++ {
		if flat[i] != '\n' {
			continue
		}
		j := i + 1
		for j < len(flat) && (flat[j] == ' ' || flat[j] == '\t') {
			j++
		}
		if j > i+1 {
			out = append(out, token.Range{Start: i + 1, End: j})
		}
	}
	return out
}

// enclosed returns every open...close occurrence including delimiters.
// An unmatched open is skipped.
func enclosed(flat, open, close string) []token.Range {
	var out []token.Range
	pos := 0
	for pos < len(flat) {
		i := strings.Index(flat[pos:], open)
		if i < 0 {
			break
		}
		start := pos + i
		body := start + len(open)
		end := strings.Index(flat[body:], close)
		if end < 0 {
			pos = body
			continue
		}
		stop := body + end + len(close)
		out = append(out, token.Range{Start: start, End: stop})
		pos = stop
	}
	return out
}

// prefixRange covers a leading prefix of flat when present.
func prefixRange(flat string, prefixes ...string) (token.Range, bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(flat, p) {
			return token.Range{Start: 0, End: len(p)}, true
		}
	}
	return token.Range{}, false
}

// suffixRange covers a trailing suffix of flat when present.
func suffixRange(flat string, suffixes ...string) (token.Range, bool) {
	for _, s := range suffixes {
		if s != "" && len(flat) > len(s) && strings.HasSuffix(flat, s) {
			return token.Range{Start: len(flat) - len(s), End: len(flat)}, true
		}
	}
	return token.Range{}, false
}

// replaceRune builds a width-preserving CharRule mapping from -> to.
func replaceRune(from, to rune) CharRule {
	return func(_ []byte, current rune) rune {
		if current == from {
			return to
		}
		return current
	}
}
