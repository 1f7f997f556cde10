package service

import (
	"context"
	"sync"
	"time"
)

type BatchOptions struct {
	Size  int
	Delay time.Duration
}

type batchResult[R any] struct {
	Value R
	Err   error
}

// batchProcess runs fn over items in consecutive batches of opts.Size. Items
// within a batch run concurrently; the next batch starts opts.Delay after the
// previous one finishes. Results line up with items. Per-item errors are
// returned in the result, not as the call's error; only cancellation of ctx
// aborts the run.
func batchProcess[T, R any](ctx context.Context, items []T, opts BatchOptions, fn func(context.Context, T) (R, error)) ([]batchResult[R], error) {
	size := opts.Size
	if size <= 0 {
		size = len(items)
	}
	results := make([]batchResult[R], len(items))

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				value, err := fn(ctx, items[i])
				results[i] = batchResult[R]{Value: value, Err: err}
			}(i)
		}
		wg.Wait()

		if end < len(items) && opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return results, nil
}
