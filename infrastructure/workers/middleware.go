package workers

import (
	"context"
	"errors"
	"sync"
	"time"
)

// buildMiddlewareChain wraps the base work function. First added runs
// outermost.
func (p *Pool[T]) buildMiddlewareChain() {
	p.workFunc = p.work
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		p.workFunc = p.middlewares[i](p.workFunc)
	}
}

// ConsecutiveErrorShutdown retires a worker after count consecutive failures.
// Empty checkouts do not count; a success resets the counter.
func ConsecutiveErrorShutdown(count int) Middleware {
	errorCounts := make(map[string]int)
	var mu sync.Mutex

	return func(next WorkFunc) WorkFunc {
		return func(ctx context.Context, workerID string) error {
			err := next(ctx, workerID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				errorCounts[workerID] = 0
			case errors.Is(err, ErrNoWorkAvailable), errors.Is(err, ErrWorkerShutdown):
			default:
				errorCounts[workerID]++
				if errorCounts[workerID] >= count {
					return ErrWorkerShutdown
				}
			}
			return err
		}
	}
}

// CycleTimeout bounds one checkout-process-complete cycle.
func CycleTimeout(timeout time.Duration) Middleware {
	return func(next WorkFunc) WorkFunc {
		return func(ctx context.Context, workerID string) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, workerID)
		}
	}
}
