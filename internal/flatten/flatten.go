// Package flatten turns one context root of a tree into a flat string for a
// natural-language checker, together with the token list and the shift
// ledger needed to map flat offsets back to the source.
package flatten

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"prosecheck/internal/source"
	"prosecheck/internal/strategy"
	"prosecheck/internal/token"
	"prosecheck/internal/trace"
	"prosecheck/internal/tree"
)

var (
	// ErrCanceled is returned when the context is done mid-pass. No partial
	// result is returned with it.
	ErrCanceled = errors.New("flatten canceled")
	// ErrInvalidRoot is returned for a root that does not belong to the tree.
	ErrInvalidRoot = errors.New("invalid context root")
)

// Result is the outcome of one pass. It is only valid as a whole.
type Result struct {
	Root     tree.NodeID
	RootSpan source.Span
	Text     string
	// Tokens holds TEXT leaves and elided nodes in pre-order. They do not
	// overlap and cover [0, RootSpan.Len()).
	Tokens []token.TokenInfo
	// Shifts is the ledger, ordered by FlatPosition.
	Shifts []token.ShiftEntry
	// Corrections counts fired space-collapse corrections.
	Corrections int
}

// RootLen is the byte length of the checked root.
func (r *Result) RootLen() int {
	return int(r.RootSpan.Len())
}

type options struct {
	checkEvery    int
	spaceCollapse bool
	isRoot        func(t *tree.Tree, node tree.NodeID) bool
}

// Option configures Flatten.
type Option func(*options)

// WithCheckEvery polls the context every n visited nodes (default 1).
func WithCheckEvery(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.checkEvery = n
		}
	}
}

// WithoutSpaceCollapse disables the space-collapse correction.
func WithoutSpaceCollapse() Option {
	return func(o *options) { o.spaceCollapse = false }
}

// WithContextRoots elides every node isRoot claims instead of asking only
// the pass strategy. Hosts binding several strategies to one language pass
// the registry-wide predicate.
func WithContextRoots(isRoot func(t *tree.Tree, node tree.NodeID) bool) Option {
	return func(o *options) { o.isRoot = isRoot }
}

// Flatten walks the subtree at root once in pre-order and builds its flat
// text. Strategy failures degrade single nodes to ABSORB and are traced.
func Flatten(ctx context.Context, t *tree.Tree, root tree.NodeID, s strategy.Strategy, opts ...Option) (*Result, error) {
	if t.Node(root) == nil {
		return nil, fmt.Errorf("%w: node %d", ErrInvalidRoot, root)
	}
	if s == nil {
		return nil, errors.New("flatten: nil strategy")
	}
	o := options{checkEvery: 1, spaceCollapse: true}
	for _, opt := range opts {
		opt(&o)
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeRoot, "flatten", trace.CurrentSpan(ctx)).
		WithExtra("root", strconv.FormatUint(uint64(root), 10)).
		WithExtra("kind", string(t.Kind(root)))

	safe := strategy.Safe(s, func(method string, node tree.NodeID, recovered any) {
		trace.Point(tr, trace.ScopeRoot, "strategy.panic", fmt.Sprint(recovered),
			"strategy", s.Name(), "method", method, "node", strconv.FormatUint(uint64(node), 10))
	})

	p := newPass(t, root, safe, o)
	if err := p.run(ctx); err != nil {
		trace.Point(tr, trace.ScopeRoot, "flatten.canceled", err.Error())
		span.End("canceled")
		return nil, err
	}
	res := p.result()
	span.WithExtra("flat", strconv.Itoa(len(res.Text))).
		WithExtra("shifts", strconv.Itoa(len(res.Shifts))).
		End("")
	return res, nil
}
