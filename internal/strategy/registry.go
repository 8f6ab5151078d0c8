package strategy

import (
	"slices"

	"prosecheck/internal/tree"
)

// Binding attaches a strategy to a language id.
type Binding struct {
	Language string
	Strategy Strategy
}

// Registry maps language ids to ordered strategies. It is immutable after
// NewRegistry and safe for concurrent use.
type Registry struct {
	byLang map[string][]Strategy
	langs  []string
}

// NewRegistry builds a registry; bindings keep their order per language.
func NewRegistry(bindings ...Binding) *Registry {
	r := &Registry{byLang: make(map[string][]Strategy)}
	for _, b := range bindings {
		if b.Strategy == nil || b.Language == "" {
			continue
		}
		if _, seen := r.byLang[b.Language]; !seen {
			r.langs = append(r.langs, b.Language)
		}
		r.byLang[b.Language] = append(r.byLang[b.Language], b.Strategy)
	}
	slices.Sort(r.langs)
	return r
}

// Default returns the registry of every bundled language strategy.
func Default() *Registry {
	return NewRegistry(
		Binding{Language: tree.LanguagePlainText, Strategy: Plain{}},
		Binding{Language: tree.LanguageMarkdown, Strategy: Markdown{}},
		Binding{Language: tree.LanguageHTML, Strategy: Markup{}},
		Binding{Language: tree.LanguageGo, Strategy: GoSource{}},
		Binding{Language: tree.LanguagePython, Strategy: Python{}},
	)
}

// Languages returns the registered language ids, sorted.
func (r *Registry) Languages() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.langs)
}

// Strategies returns the strategies registered for lang.
func (r *Registry) Strategies(lang string) []Strategy {
	if r == nil {
		return nil
	}
	return slices.Clone(r.byLang[lang])
}

// IsContextRoot reports whether any strategy of lang claims node.
func (r *Registry) IsContextRoot(lang string, t *tree.Tree, node tree.NodeID) bool {
	_, ok := r.ForRoot(lang, t, node)
	return ok
}

// ContextRoots returns IsContextRoot bound to lang.
func (r *Registry) ContextRoots(lang string) func(t *tree.Tree, node tree.NodeID) bool {
	return func(t *tree.Tree, node tree.NodeID) bool { return r.IsContextRoot(lang, t, node) }
}

// ForRoot returns the first strategy of lang that claims node as a context
// root.
func (r *Registry) ForRoot(lang string, t *tree.Tree, node tree.NodeID) (Strategy, bool) {
	if r == nil {
		return nil, false
	}
	for _, s := range r.byLang[lang] {
		if Safe(s, nil).IsContextRoot(t, node) {
			return s, true
		}
	}
	return nil, false
}
