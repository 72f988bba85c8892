package workers

import "context"

// Job is the unit of work a pool processes. Implementations carry whatever
// payload the processor needs; the pool only requires a stable identifier for
// logging and metrics.
type Job interface {
	JobID() string
}

// Processor supplies jobs to the pool and handles their outcomes. Checkout
// must be safe for concurrent workers. A Checkout that returns
// ErrNoWorkAvailable keeps the worker polling at the idle interval; one that
// returns ErrWorkerShutdown retires the worker, which is how draining queues
// end a batch run.
type Processor[T Job] interface {
	Checkout(ctx context.Context, workerID string) (T, error)
	Process(ctx context.Context, job T) (T, error)
	Complete(ctx context.Context, job T, processingTimeMS int) error
	Fail(ctx context.Context, job T, err error) error
}

// WorkFunc runs one checkout-process-complete cycle for a worker.
type WorkFunc func(ctx context.Context, workerID string) error

// Middleware wraps a WorkFunc with additional behavior.
type Middleware func(WorkFunc) WorkFunc

// PreProcessHook runs after Checkout, before Process.
type PreProcessHook[T Job] func(ctx context.Context, job T) error

// PostProcessHook runs after Process with the result or error.
type PostProcessHook[T Job] func(ctx context.Context, job T, err error) error
