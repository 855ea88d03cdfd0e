package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchBoth runs two independent loads concurrently. When either fails the
// other is cancelled and both results are dropped.
func fetchBoth[A, B any](
	ctx context.Context,
	loadA func(context.Context) (A, error),
	loadB func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = loadA(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = loadB(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
		)

		return zeroA, zeroB, err
	}

	return a, b, nil
}

// mapConcurrently applies fn to every item with at most limit calls in
// flight. Results keep the order of items.
func mapConcurrently[In, Out any](
	ctx context.Context,
	limit int,
	items []In,
	fn func(context.Context, In) (Out, error),
) ([]Out, error) {
	out := make([]Out, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			v, err := fn(gctx, item)
			if err != nil {
				return err
			}

			out[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
