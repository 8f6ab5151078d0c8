package grammar

import (
	"prosecheck/internal/check"
	"prosecheck/internal/token"
)

// Rule ids.
const (
	RuleWordRepeat        = "WORD_REPEAT"
	RuleSentenceStartCase = "SENTENCE_START_CASE"
	RuleSpaceBeforePunct  = "SPACE_BEFORE_PUNCT"
	RuleMultipleSpaces    = "MULTIPLE_SPACES"
	RuleAVsAn             = "A_VS_AN"
)

// Rule inspects flat text.
type Rule interface {
	// ID returns the unique identifier, e.g. "WORD_REPEAT".
	ID() string
	// Group returns the rule group the finding can be suppressed by.
	Group() string
	Category() token.Category
	Description() string
	// Apply returns findings in text byte coordinates. Only Range, Message
	// and Suggestions are read; the checker fills in the classification.
	Apply(text string) []check.RawSpan
}

type funcRule struct {
	id, group, desc string
	cat             token.Category
	apply           func(text string) []check.RawSpan
}

// NewRule builds a Rule from a function.
func NewRule(id, group string, cat token.Category, desc string, apply func(text string) []check.RawSpan) Rule {
	return &funcRule{id: id, group: group, cat: cat, desc: desc, apply: apply}
}

func (r *funcRule) ID() string                        { return r.id }
func (r *funcRule) Group() string                     { return r.group }
func (r *funcRule) Category() token.Category          { return r.cat }
func (r *funcRule) Description() string               { return r.desc }
func (r *funcRule) Apply(text string) []check.RawSpan { return r.apply(text) }

// DefaultRules returns the built-in rules in a fixed order.
func DefaultRules() []Rule {
	return []Rule{
		NewRule(RuleWordRepeat, token.GroupRepetition, token.CategoryGrammar,
			"a word is immediately repeated", wordRepeat),
		NewRule(RuleSentenceStartCase, token.GroupCapitalization, token.CategoryCasing,
			"a sentence starts with a lowercase letter", sentenceStartCase),
		NewRule(RuleSpaceBeforePunct, token.GroupWhitespace, token.CategoryPunctuation,
			"whitespace before punctuation", spaceBeforePunct),
		NewRule(RuleMultipleSpaces, token.GroupWhitespace, token.CategoryTypography,
			"more than one space between words", multipleSpaces),
		NewRule(RuleAVsAn, token.GroupArticles, token.CategoryGrammar,
			"indefinite article does not match the next word", aVsAn),
	}
}
