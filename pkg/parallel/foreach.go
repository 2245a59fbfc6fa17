package parallel

import (
	"context"
	"sync"
)

// ForEach calls fn(i) for every i in [0, n) on a pool of workers and waits
// for all of them. Each index is handed to exactly one call, so fn may write
// to index-owned output without locking.
//
// The first error returned by fn (or a recovered panic) is returned; once an
// error is seen the remaining indices are skipped. Cancelling ctx has the same
// effect and returns ctx.Err().
func ForEach(ctx context.Context, workers, n int, fn func(i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if workers > n {
		workers = n
	}

	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

	var (
		errOnce  sync.Once
		firstErr error
		stop     = make(chan struct{})
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			close(stop)
		})
	}

submit:
	for i := 0; i < n; i++ {
		select {
		case <-stop:
			break submit
		case <-ctx.Done():
			fail(ctx.Err())
			break submit
		default:
		}

		idx := i
		pool.Submit(func() {
			select {
			case <-stop:
				return
			default:
			}
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := fn(idx); err != nil {
				fail(err)
			}
		})
	}

	if err := pool.Wait(); err != nil {
		fail(err)
	}
	return firstErr
}
