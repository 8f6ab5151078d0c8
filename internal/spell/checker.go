// Package spell is a dictionary-based spelling checker for flattened prose.
//
// Unknown words are reported with suggestions ranked by a log-frequency
// prior and a keyboard-aware Damerau-Levenshtein cost.
package spell

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgraph-io/ristretto/v2"

	"prosecheck/internal/check"
	"prosecheck/internal/token"
)

// RuleUnknownWord identifies spelling findings.
const RuleUnknownWord = "SPELL_UNKNOWN_WORD"

// Checker implements check.ExternalChecker.
type Checker struct {
	dict  *Dictionary
	store WordStore
	cfg   Config
	cache *ristretto.Cache[string, []string]
}

var _ check.ExternalChecker = (*Checker)(nil)

// New builds a checker over dict.
func New(dict *Dictionary, opts ...Option) (*Checker, error) {
	if dict == nil || dict.Len() == 0 {
		return nil, ErrEmptyDictionary
	}
	c := &Checker{dict: dict, cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.TopK <= 0 {
		c.cfg.TopK = 1
	}
	if c.cfg.CacheBytes > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, []string]{
			NumCounters: max(c.cfg.CacheBytes/100*10, 1000),
			MaxCost:     c.cfg.CacheBytes,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("spell: suggestion cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Close releases the suggestion cache.
func (c *Checker) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Store returns the custom word store, or nil.
func (c *Checker) Store() WordStore { return c.store }

// Check reports every unknown word of text.
func (c *Checker) Check(ctx context.Context, text string) ([]check.RawSpan, error) {
	var spans []check.RawSpan
	for i, w := range scanWords(text) {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if c.skip(text, w) {
			continue
		}
		known, err := c.Known(ctx, w.text)
		if err != nil {
			return nil, err
		}
		if known {
			continue
		}
		spans = append(spans, check.RawSpan{
			Range:       token.Range{Start: w.start, End: w.end},
			Category:    token.CategorySpelling,
			RuleGroup:   token.GroupSpelling,
			RuleID:      RuleUnknownWord,
			Message:     fmt.Sprintf("unknown word %q", w.text),
			Suggestions: c.Suggest(w.text),
		})
	}
	return spans, nil
}

// Known reports whether word is in the dictionary or the custom store.
// Possessive forms are accepted when the base word is known.
func (c *Checker) Known(ctx context.Context, word string) (bool, error) {
	n := strings.ReplaceAll(normalize(word), "’", "'")
	if c.dict.Contains(n) {
		return true, nil
	}
	if base, ok := strings.CutSuffix(n, "'s"); ok && c.dict.Contains(base) {
		return true, nil
	}
	if c.store == nil {
		return false, nil
	}
	return c.store.Has(ctx, n)
}

type scored struct {
	term  string
	score float64
	cost  float64
}

// Suggest returns up to TopK corrections for word, best first, with the
// capitalisation of word applied.
func (c *Checker) Suggest(word string) []string {
	key := normalize(word)
	var terms []string
	if cached, ok := c.cacheGet(key); ok {
		terms = cached
	} else {
		terms = c.rank(key)
		c.cacheSet(key, terms)
	}
	if len(terms) == 0 {
		return nil
	}
	out := make([]string, len(terms))
	title := isTitle(word)
	for i, t := range terms {
		if title {
			t = titleCase(t)
		}
		out[i] = t
	}
	return out
}

func (c *Checker) rank(w string) []string {
	cands := c.dict.candidates(w, c.cfg.MaxEditDistance)
	lw := utf8.RuneCountInString(w)
	list := make([]scored, 0, len(cands))
	for _, y := range cands {
		if y == w {
			continue
		}
		cost := c.cfg.Costs.weightedDL(w, y)
		score := c.cfg.Beta*c.dict.logPrior(y, c.cfg.FreqTemperature) - c.cfg.Lambda*cost
		ly := utf8.RuneCountInString(y)
		if ed := unitDL(w, y); ed == 1 {
			switch {
			case ly == lw:
				score += 0.8
			case ly == lw+1:
				score += 0.5
			case ly+1 == lw && lw > 3:
				score += 0.3
			}
		} else {
			score -= 0.6
		}
		if lw <= 3 && ly < lw {
			score -= 0.6 * float64(lw-ly)
		}
		list = append(list, scored{term: y, score: score, cost: cost})
	}
	slices.SortFunc(list, func(a, b scored) int {
		return cmp.Or(
			cmp.Compare(b.score, a.score),
			cmp.Compare(a.cost, b.cost),
			strings.Compare(a.term, b.term),
		)
	})
	if len(list) > c.cfg.TopK {
		list = list[:c.cfg.TopK]
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.term
	}
	return out
}

func (c *Checker) cacheGet(key string) ([]string, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Checker) cacheSet(key string, terms []string) {
	if c.cache == nil {
		return
	}
	cost := int64(len(key))
	for _, t := range terms {
		cost += int64(len(t))
	}
	c.cache.Set(key, terms, cost)
}

// skip filters tokens that are not prose words: short words, numbers,
// acronyms, identifiers and pieces of URLs, paths or addresses.
func (c *Checker) skip(text string, w word) bool {
	if utf8.RuneCountInString(w.text) < c.cfg.MinWordLength {
		return true
	}
	if strings.ContainsFunc(w.text, func(r rune) bool { return r == '_' || unicode.IsDigit(r) }) {
		return true
	}
	if isAllCaps(w.text) || hasInnerUpper(w.text) {
		return true
	}
	return embedded(text, w)
}

type word struct {
	start, end int
	text       string
}

// scanWords splits text into letter runs. Apostrophes between letters,
// digits, underscores and combining marks stay inside a word.
func scanWords(text string) []word {
	var out []word
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) || unicode.Is(unicode.Mn, r) {
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
			if r == '\'' || r == '’' {
				next, _ := utf8.DecodeRuneInString(text[i+size:])
				if i+size < len(text) && unicode.IsLetter(next) {
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
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.Is(unicode.Mn, r)
}

// embedded reports whether w is glued to '.', '/', '@' or ':' followed or
// preceded by another word character, as in hosts, paths and e-mail.
func embedded(text string, w word) bool {
	if w.start > 0 {
		prev, size := utf8.DecodeLastRuneInString(text[:w.start])
		if prev == '/' || prev == '@' || prev == '\\' {
			return true
		}
		if prev == '.' && w.start-size > 0 {
			before, _ := utf8.DecodeLastRuneInString(text[:w.start-size])
			if isWordRune(before) {
				return true
			}
		}
	}
	if w.end < len(text) {
		next, size := utf8.DecodeRuneInString(text[w.end:])
		switch next {
		case '/', '@', '\\':
			return true
		case '.', ':':
			if w.end+size < len(text) {
				after, _ := utf8.DecodeRuneInString(text[w.end+size:])
				if isWordRune(after) || after == '/' {
					return true
				}
			}
		}
	}
	return false
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

func hasInnerUpper(s string) bool {
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isTitle(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
