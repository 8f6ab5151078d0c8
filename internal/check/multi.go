package check

import (
	"context"
	"errors"
	"fmt"

	"prosecheck/internal/trace"
)

type multiChecker []ExternalChecker

// Multi fans text out to every checker and concatenates their findings. It
// fails only when every checker fails; partial failures are traced.
func Multi(checkers ...ExternalChecker) ExternalChecker {
	kept := make(multiChecker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return kept
}

func (m multiChecker) Check(ctx context.Context, text string) ([]RawSpan, error) {
	var (
		out  []RawSpan
		errs []error
	)
	for i, c := range m {
		spans, err := guardedCheck(ctx, c, text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			errs = append(errs, fmt.Errorf("checker %d: %w", i, err))
			continue
		}
		out = append(out, spans...)
	}
	if len(errs) == 0 {
		return out, nil
	}
	if len(errs) == len(m) {
		return nil, errors.Join(errs...)
	}
	trace.Warn(trace.FromContext(ctx), trace.ScopeRoot, "check.external_failed", errors.Join(errs...).Error())
	return out, nil
}
