package check

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"fortio.org/safecast"

	"prosecheck/internal/flatten"
	"prosecheck/internal/reconcile"
	"prosecheck/internal/source"
	"prosecheck/internal/strategy"
	"prosecheck/internal/token"
	"prosecheck/internal/trace"
	"prosecheck/internal/tree"
)

var (
	// ErrCanceled is returned when the context ends during a pass; it wraps
	// flatten.ErrCanceled.
	ErrCanceled = fmt.Errorf("check canceled: %w", flatten.ErrCanceled)
	// ErrNoStrategy is returned when no strategy claims the node as a root.
	ErrNoStrategy = errors.New("no strategy for context root")
)

// Checker is the checking façade. It is safe for concurrent use.
type Checker struct {
	registry       *strategy.Registry
	external       ExternalChecker
	disabledCats   token.CategorySet
	disabledGroups token.RuleGroupSet
	timeout        time.Duration
	jobs           int
	flattenOpts    []flatten.Option
}

// Option configures a Checker.
type Option func(*Checker)

// WithDisabledCategories drops findings of the given categories everywhere.
func WithDisabledCategories(cats ...token.Category) Option {
	return func(c *Checker) { c.disabledCats = c.disabledCats.Union(token.NewCategorySet(cats...)) }
}

// WithDisabledRuleGroups drops findings of the given rule groups everywhere.
func WithDisabledRuleGroups(groups ...string) Option {
	return func(c *Checker) { c.disabledGroups = c.disabledGroups.Union(token.NewRuleGroupSet(groups...)) }
}

// WithTimeout bounds every external checker call.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithJobs bounds the number of roots CheckTree checks at once.
func WithJobs(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.jobs = n
		}
	}
}

// WithFlattenOptions passes options to every flattening pass.
func WithFlattenOptions(opts ...flatten.Option) Option {
	return func(c *Checker) { c.flattenOpts = append(c.flattenOpts, opts...) }
}

// New creates a Checker.
func New(registry *strategy.Registry, external ExternalChecker, opts ...Option) *Checker {
	c := &Checker{
		registry:       registry,
		external:       external,
		disabledGroups: token.EmptyRuleGroups,
		jobs:           4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the strategy registry the checker dispatches on.
func (c *Checker) Registry() *strategy.Registry { return c.registry }

// CheckRoot checks one context root of t.
//
// Errors: ErrNoStrategy, ErrCanceled (no result) and flattening errors. A
// failing external checker is not an error: the Result carries CheckerErr
// and no typos.
func (c *Checker) CheckRoot(ctx context.Context, lang string, t *tree.Tree, root tree.NodeID) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	s, ok := c.registry.ForRoot(lang, t, root)
	if !ok {
		return nil, fmt.Errorf("%w: %s node %d (%s)", ErrNoStrategy, lang, root, t.Kind(root))
	}
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeRoot, "check.root", trace.CurrentSpan(ctx)).
		WithExtra("strategy", s.Name()).
		WithExtra("root", strconv.FormatUint(uint64(root), 10))
	ctx = trace.WithSpan(ctx, span)

	opts := append(slices.Clip(c.flattenOpts), flatten.WithContextRoots(c.registry.ContextRoots(lang)))
	flat, err := flatten.Flatten(ctx, t, root, s, opts...)
	if err != nil {
		span.End("flatten failed")
		if errors.Is(err, flatten.ErrCanceled) {
			return nil, fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx))
		}
		return nil, err
	}

	res := &Result{Root: root, Strategy: s.Name(), Flat: flat}
	safe := strategy.Safe(s, func(method string, _ tree.NodeID, recovered any) {
		trace.Point(tr, trace.ScopeRoot, "strategy.panic", fmt.Sprint(recovered), "strategy", s.Name(), "method", method)
	})
	res.Stealth = normalizeRanges(flat.Text, safe.StealthRanges(t, root, flat.Text))

	raws, err := c.callExternal(ctx, mask(flat.Text, res.Stealth))
	if err != nil {
		if ctx.Err() != nil {
			span.End("canceled")
			return nil, fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx))
		}
		trace.Warn(tr, trace.ScopeRoot, "check.external_failed", err.Error(), "root", strconv.FormatUint(uint64(root), 10))
		res.CheckerErr = err
		span.End("external failed")
		return res, nil
	}

	ledger := reconcile.NewLedger(flat.Shifts).WithTracer(tr)
	for _, raw := range raws {
		typo, keep := c.reconcile(t, s, flat, ledger, res.Stealth, raw)
		if keep {
			res.Typos = append(res.Typos, typo)
		}
	}
	res.Typos = sortTypos(res.Typos)
	span.WithExtra("typos", strconv.Itoa(len(res.Typos))).End("")
	return res, nil
}

func (c *Checker) callExternal(ctx context.Context, text string) ([]RawSpan, error) {
	if c.external == nil {
		return nil, nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return guardedCheck(ctx, c.external, text)
}

// guardedCheck calls ext and turns a panic into an error, so a crashing
// checker fails its root like an erroring one.
func guardedCheck(ctx context.Context, ext ExternalChecker, text string) (raws []RawSpan, err error) {
	defer func() {
		if r := recover(); r != nil {
			raws, err = nil, fmt.Errorf("external checker panicked: %v", r)
		}
	}()
	return ext.Check(ctx, text)
}

// reconcile turns one raw span into a Typo, or reports that it is filtered.
func (c *Checker) reconcile(t *tree.Tree, s strategy.Strategy, flat *flatten.Result, ledger *reconcile.Ledger, stealth []token.Range, raw RawSpan) (Typo, bool) {
	r := raw.Range
	if r.Start < 0 || r.End > len(flat.Text) || r.End < r.Start {
		return Typo{}, false
	}
	for _, st := range stealth {
		if st.Overlaps(r) || (r.Empty() && st.Contains(r.Start)) {
			return Typo{}, false
		}
	}
	if c.disabledCats.Has(raw.Category) || (raw.RuleGroup != "" && c.disabledGroups.Has(raw.RuleGroup)) {
		return Typo{}, false
	}

	rel, _ := ledger.Range(r)
	ti, ok := tokenAt(flat.Tokens, rel.Start)
	if !ok || ti.Ignores(raw.Category, raw.RuleGroup) {
		return Typo{}, false
	}

	base := flat.RootSpan.Start
	start, err1 := safecast.Conv[uint32](rel.Start)
	end, err2 := safecast.Conv[uint32](rel.End)
	if err1 != nil || err2 != nil {
		return Typo{}, false
	}
	abs := source.Span{File: flat.RootSpan.File, Start: base + start, End: base + end}
	return Typo{
		Category:        raw.Category,
		RuleID:          raw.RuleID,
		RuleGroup:       raw.RuleGroup,
		Message:         raw.Message,
		Suggestions:     slices.Clone(raw.Suggestions),
		Location:        Location{Span: abs, Node: ti.Node},
		Text:            string(t.Content[abs.Start:abs.End]),
		ShouldUseRename: strategy.UseRename(strategy.Safe(s, nil), t, ti.Node),
	}, true
}

// tokenAt returns the token covering the root-relative offset off. An offset
// at the very end of the root belongs to the last token.
func tokenAt(tokens []token.TokenInfo, off int) (token.TokenInfo, bool) {
	if len(tokens) == 0 {
		return token.TokenInfo{}, false
	}
	i, _ := slices.BinarySearchFunc(tokens, off, func(ti token.TokenInfo, target int) int {
		if ti.Range.End <= target {
			return -1
		}
		return 1
	})
	if i == len(tokens) {
		i--
	}
	return tokens[i], true
}

// normalizeRanges clips ranges to text, widens them to rune boundaries,
// sorts and merges them.
func normalizeRanges(text string, ranges []token.Range) []token.Range {
	out := make([]token.Range, 0, len(ranges))
	for _, r := range ranges {
		r.Start = max(r.Start, 0)
		r.End = min(r.End, len(text))
		if r.Empty() {
			continue
		}
		for r.Start > 0 && !utf8.RuneStart(text[r.Start]) {
			r.Start--
		}
		for r.End < len(text) && !utf8.RuneStart(text[r.End]) {
			r.End++
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b token.Range) int { return a.Start - b.Start })
	merged := out[:0]
	for _, r := range out {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// mask blanks stealth ranges with spaces, keeping line breaks and width.
func mask(text string, ranges []token.Range) string {
	if len(ranges) == 0 {
		return text
	}
	b := []byte(text)
	for _, r := range ranges {
		for i := r.Start; i < r.End; i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

func sortTypos(typos []Typo) []Typo {
	slices.SortStableFunc(typos, compareTypos)
	return slices.CompactFunc(typos, func(a, b Typo) bool {
		return compareTypos(a, b) == 0 && slices.Equal(a.Suggestions, b.Suggestions)
	})
}

func compareTypos(a, b Typo) int {
	return cmp.Or(
		cmp.Compare(a.Location.Span.Start, b.Location.Span.Start),
		cmp.Compare(a.Location.Span.End, b.Location.Span.End),
		cmp.Compare(a.RuleID, b.RuleID),
		cmp.Compare(a.Message, b.Message),
	)
}
