package flatten

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"prosecheck/internal/strategy"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// frame is one pending visit together with the effective exclusions of the
// parent, which is all inheritance needs.
type frame struct {
	node   tree.NodeID
	groups token.RuleGroupSet
	cats   token.CategorySet
}

// pass holds every buffer of one traversal. Nothing outlives it.
type pass struct {
	t         *tree.Tree
	root      tree.NodeID
	rootStart uint32
	s         strategy.Strategy
	opts      options
	rules     []strategy.CharRule
	isRoot    func(t *tree.Tree, node tree.NodeID) bool

	text        []byte
	tokens      []token.TokenInfo
	shifts      []token.ShiftEntry
	pending     int // open correction window, -1 when closed
	corrections int
	visits      int
}

func newPass(t *tree.Tree, root tree.NodeID, s strategy.Strategy, o options) *pass {
	sp := t.Span(root)
	p := &pass{
		t:         t,
		root:      root,
		rootStart: sp.Start,
		s:         s,
		opts:      o,
		rules:     s.ReplacementRules(t, root),
		isRoot:    s.IsContextRoot,
		text:      make([]byte, 0, sp.Len()),
		tokens:    make([]token.TokenInfo, 0, 16),
		pending:   -1,
	}
	if o.isRoot != nil {
		p.isRoot = o.isRoot
	}
	return p
}

func (p *pass) run(ctx context.Context) error {
	stack := []frame{{node: p.root, groups: token.EmptyRuleGroups, cats: token.NoCategories}}
	for len(stack) > 0 {
		if p.visits%p.opts.checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrCanceled, err)
			}
		}
		p.visits++

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		info, descend := p.visit(f)
		if !descend {
			continue
		}
		children := p.t.Children(f.node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], groups: info.IgnoredRuleGroups, cats: info.IgnoredCategories})
		}
	}
	return nil
}

// visit records node and reports whether its children must be visited.
func (p *pass) visit(f frame) (token.TokenInfo, bool) {
	sp := p.t.Span(f.node)
	info := token.TokenInfo{
		Node:  f.node,
		Range: token.Range{Start: int(sp.Start - p.rootStart), End: int(sp.End - p.rootStart)},
	}

	// чужой корень проверяется отдельным проходом
	if f.node != p.root && p.isRoot(p.t, f.node) {
		info.Behavior = token.Absorb
		info.IgnoredRuleGroups = token.EmptyRuleGroups
		info.IgnoredCategories = token.NoCategories
		p.elide(info)
		return info, false
	}

	leaf := p.t.IsLeaf(f.node)
	info.Behavior = p.s.Behavior(p.t, p.root, f.node)
	if info.Behavior == token.Unspecified {
		if leaf {
			info.Behavior = token.Text
		} else {
			info.Behavior = token.Absorb
		}
	}
	info.IgnoredRuleGroups = f.groups
	if g, ok := p.s.IgnoredRuleGroups(p.t, p.root, f.node); ok {
		info.IgnoredRuleGroups = g
	}
	info.IgnoredCategories = f.cats
	if c, ok := p.s.IgnoredCategories(p.t, p.root, f.node); ok {
		info.IgnoredCategories = c
	}

	if info.Behavior != token.Text {
		p.elide(info)
		return info, false
	}
	if !leaf {
		return info, true
	}
	p.tokens = append(p.tokens, info)
	p.appendText(p.t.Content[sp.Start:sp.End])
	return info, false
}

// elide records a non-TEXT token and its ledger entry. Elided nodes meeting
// at one flat position share one entry.
func (p *pass) elide(info token.TokenInfo) {
	p.tokens = append(p.tokens, info)
	n := info.Range.Len()
	if n == 0 {
		return
	}
	if p.pending >= 0 && p.shifts[p.pending].FlatPosition == len(p.text) {
		p.shifts[p.pending].OriginalLength += n
		return
	}
	p.shifts = append(p.shifts, token.ShiftEntry{FlatPosition: len(p.text), OriginalLength: n})
	p.pending = len(p.shifts) - 1
}

// appendText copies payload through the replacement rules. The first
// non-empty append after an elided block closes its correction window.
func (p *pass) appendText(payload []byte) {
	insert := len(p.text)
	for i := 0; i < len(payload); {
		r, w := utf8.DecodeRune(payload[i:])
		if r == utf8.RuneError && w == 1 {
			p.text = append(p.text, payload[i])
			i++
			continue
		}
		out := r
		for _, rule := range p.rules {
			// ширина руны сохраняется, иначе журнал сдвигов разъедется
			if next := rule(p.text[:len(p.text):len(p.text)], out); utf8.RuneLen(next) == w {
				out = next
			}
		}
		p.text = utf8.AppendRune(p.text, out)
		i += w
	}
	if len(p.text) == insert || p.pending < 0 {
		return
	}
	if p.opts.spaceCollapse {
		p.collapse(insert)
	}
	p.pending = -1
}

// collapse merges the space before an elided block into the block when the
// text that follows starts with a space or punctuation.
func (p *pass) collapse(at int) {
	sh := &p.shifts[p.pending]
	if at == 0 || sh.FlatPosition != at || p.text[at-1] != ' ' {
		return
	}
	r, _ := utf8.DecodeRune(p.text[at:])
	if r != ' ' && !unicode.IsPunct(r) {
		return
	}
	p.text = append(p.text[:at-1], p.text[at:]...)
	sh.FlatPosition--
	sh.OriginalLength++
	p.corrections++
}

func (p *pass) result() *Result {
	return &Result{
		Root:        p.root,
		RootSpan:    p.t.Span(p.root),
		Text:        string(p.text),
		Tokens:      p.tokens,
		Shifts:      p.shifts,
		Corrections: p.corrections,
	}
}
