package check

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"prosecheck/internal/strategy"
	"prosecheck/internal/trace"
	"prosecheck/internal/tree"
)

// FindRoots returns every context root of t in pre-order, nested roots
// included; each is checked by its own pass.
func FindRoots(registry *strategy.Registry, lang string, t *tree.Tree) []tree.NodeID {
	var roots []tree.NodeID
	t.Walk(t.Root(), func(id tree.NodeID, _ int) bool {
		if _, ok := registry.ForRoot(lang, t, id); ok {
			roots = append(roots, id)
		}
		return true
	})
	return roots
}

// CheckTree checks every context root of t concurrently and returns the
// results in root order.
func (c *Checker) CheckTree(ctx context.Context, lang string, t *tree.Tree) ([]*Result, error) {
	roots := FindRoots(c.registry, lang, t)
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePass, "check.tree", trace.CurrentSpan(ctx)).
		WithExtra("lang", lang).
		WithExtra("roots", strconv.Itoa(len(roots)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	results := make([]*Result, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)
	for i, root := range roots {
		g.Go(func() error {
			res, err := c.CheckRoot(gctx, lang, t, root)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrCanceled) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx))
		}
		return nil, err
	}
	return results, nil
}

// Typos concatenates the typos of results in order.
func Typos(results []*Result) []Typo {
	var out []Typo
	for _, r := range results {
		if r != nil {
			out = append(out, r.Typos...)
		}
	}
	return out
}
