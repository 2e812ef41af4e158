package probe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach calls fn for indexes [0, n) with at most parallelism calls in
// flight. The error returned is the one with the lowest index, so the outcome
// matches a sequential run. Sequential runs stop at the first failure.
func ForEach(ctx context.Context, n, parallelism int, fn func(ctx context.Context, i int) error) error {
	if parallelism <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}
	for _, err := range ForEachAll(ctx, n, parallelism, fn) {
		if err != nil {
			return err
		}
	}
	return nil
}

// ForEachAll is ForEach returning every call's error, indexed like the input.
func ForEachAll(ctx context.Context, n, parallelism int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if parallelism <= 1 {
		for i := 0; i < n; i++ {
			errs[i] = fn(ctx, i)
		}
		return errs
	}

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
