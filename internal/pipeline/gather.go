package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gather calls fn for every item concurrently and returns the results in
// item order, regardless of completion order.
// If workers is 0, every item gets its own goroutine; otherwise at most
// workers calls run at once.
// The first error cancels the context passed to the remaining calls and is
// returned without any results.
func Gather[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, item := range items {
		i, item := i, item // per-iteration copies (go 1.21 loop semantics)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The parent may have been canceled before any call could fail.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
