package diag

import (
	"fmt"

	"prosecheck/internal/grammar"
	"prosecheck/internal/spell"
	"prosecheck/internal/token"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Орфография
	SpellInfo        Code = 1000
	SpellUnknownWord Code = 1001

	// Грамматика
	GrammarInfo       Code = 2000
	GrammarWordRepeat Code = 2001
	GrammarArticle    Code = 2002
	GrammarOther      Code = 2099

	CasingInfo          Code = 3000
	CasingSentenceStart Code = 3001
	CasingOther         Code = 3099

	PunctInfo        Code = 4000
	PunctSpaceBefore Code = 4001
	PunctOther       Code = 4099

	TypoInfo           Code = 5000
	TypoMultipleSpaces Code = 5001
	TypoOther          Code = 5099

	StyleInfo  Code = 6000
	StyleOther Code = 6001

	// Инфраструктура: ввод-вывод, разбор, внешний checker
	OtherInfo       Code = 9000
	IOLoadFileError Code = 9001
	ParseFailed     Code = 9002
	CheckerFailed   Code = 9003
	UnknownLanguage Code = 9004
	OtherFinding    Code = 9099
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	SpellInfo:           "Spelling information",
	SpellUnknownWord:    "Unknown word",
	GrammarInfo:         "Grammar information",
	GrammarWordRepeat:   "Repeated word",
	GrammarArticle:      "Wrong indefinite article",
	GrammarOther:        "Grammar issue",
	CasingInfo:          "Casing information",
	CasingSentenceStart: "Sentence starts in lowercase",
	CasingOther:         "Casing issue",
	PunctInfo:           "Punctuation information",
	PunctSpaceBefore:    "Whitespace before punctuation",
	PunctOther:          "Punctuation issue",
	TypoInfo:            "Typography information",
	TypoMultipleSpaces:  "Multiple spaces",
	TypoOther:           "Typography issue",
	StyleInfo:           "Style information",
	StyleOther:          "Style issue",
	OtherInfo:           "Information",
	IOLoadFileError:     "I/O load file error",
	ParseFailed:         "Parse failed",
	CheckerFailed:       "External checker failed",
	UnknownLanguage:     "Unknown language",
	OtherFinding:        "Other finding",
}

// rule ids of the built-in checkers with a dedicated code
var ruleCodes = map[string]Code{
	spell.RuleUnknownWord:         SpellUnknownWord,
	grammar.RuleWordRepeat:        GrammarWordRepeat,
	grammar.RuleAVsAn:             GrammarArticle,
	grammar.RuleSentenceStartCase: CasingSentenceStart,
	grammar.RuleSpaceBeforePunct:  PunctSpaceBefore,
	grammar.RuleMultipleSpaces:    TypoMultipleSpaces,
}

// CodeFor maps a finding to its code: a dedicated code for known rules,
// otherwise the catch-all code of the category.
func CodeFor(cat token.Category, ruleID string) Code {
	if c, ok := ruleCodes[ruleID]; ok {
		return c
	}
	switch cat {
	case token.CategorySpelling:
		return SpellUnknownWord
	case token.CategoryGrammar:
		return GrammarOther
	case token.CategoryCasing:
		return CasingOther
	case token.CategoryPunctuation:
		return PunctOther
	case token.CategoryTypography:
		return TypoOther
	case token.CategoryStyle:
		return StyleOther
	}
	return OtherFinding
}

// Category returns the finding category a code belongs to.
func (c Code) Category() token.Category {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return token.CategorySpelling
	case ic >= 2000 && ic < 3000:
		return token.CategoryGrammar
	case ic >= 3000 && ic < 4000:
		return token.CategoryCasing
	case ic >= 4000 && ic < 5000:
		return token.CategoryPunctuation
	case ic >= 5000 && ic < 6000:
		return token.CategoryTypography
	case ic >= 6000 && ic < 7000:
		return token.CategoryStyle
	}
	return token.CategoryOther
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SPL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GRM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CAS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PUN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
