// Package workers runs a bounded pool of workers pulling jobs from a
// Processor. The generator's batch command feeds it one job per service
// definition file; the pool handles retry, panic recovery, middleware, and
// metrics so processors stay plain business logic.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pullstream/constructors/sdk/environment"
)

// Sentinel errors processors use to steer the pool.
var (
	// ErrWorkerShutdown retires the worker that received it. Draining
	// processors return it from Checkout once the queue is empty.
	ErrWorkerShutdown = errors.New("worker should shutdown")

	// ErrPoolShutdown retires the worker and surfaces a critical error on
	// the pool's error channel.
	ErrPoolShutdown = errors.New("pool should shutdown")

	// ErrNoWorkAvailable signals an empty checkout; the worker backs off to
	// the idle interval and keeps polling.
	ErrNoWorkAvailable = errors.New("no work available")
)

// Options represents the exportable pool configuration.
type Options struct {
	Name         string        `env:"WORKER_NAME" default:"constructors"`
	WorkerCount  int           `env:"WORKER_COUNT" default:"4"`
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" default:"100ms"`
	IdleInterval time.Duration `env:"WORKER_IDLE_INTERVAL" default:"5s"`
	MaxRetries   int           `env:"WORKER_MAX_RETRIES" default:"3"`
	RetryDelay   time.Duration `env:"WORKER_RETRY_DELAY" default:"1s"`
}

// options holds the internal runtime configuration.
type options struct {
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryDelay   time.Duration
	middlewares  []Middleware
	metrics      PoolMetrics
	logger       *slog.Logger
}

// Option configures the pool.
type Option func(*options)

func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithWorkerCount(count int) Option {
	return func(o *options) { o.workerCount = count }
}

func WithPollInterval(interval time.Duration) Option {
	return func(o *options) { o.pollInterval = interval }
}

func WithIdleInterval(interval time.Duration) Option {
	return func(o *options) { o.idleInterval = interval }
}

func WithMaxRetries(maxRetries int) Option {
	return func(o *options) { o.maxRetries = maxRetries }
}

func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) { o.retryDelay = delay }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, middlewares...) }
}

func WithMetrics(metrics PoolMetrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// Pool runs jobs from a Processor across a fixed set of workers.
type Pool[T Job] struct {
	processor    Processor[T]
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryDelay   time.Duration
	log          *slog.Logger

	workFunc         WorkFunc
	middlewares      []Middleware
	preProcessHooks  []PreProcessHook[T]
	postProcessHooks []PostProcessHook[T]
	metrics          PoolMetrics

	ctx       context.Context
	cancel    context.CancelFunc
	workers   sync.WaitGroup
	stateMu   sync.Mutex
	running   bool
	startTime time.Time
	errors    chan error
}

// NewFromEnv creates a pool configured from prefixed environment variables.
func NewFromEnv[T Job](prefix string, processor Processor[T], opts ...Option) (*Pool[T], error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing worker config: %w", err)
	}
	return newPool(processor, cfg, opts...)
}

// NewPool creates a pool with the given name and worker count.
func NewPool[T Job](name string, workerCount int, processor Processor[T], opts ...Option) (*Pool[T], error) {
	cfg := Options{
		Name:         name,
		WorkerCount:  workerCount,
		PollInterval: 100 * time.Millisecond,
		IdleInterval: 5 * time.Second,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
	return newPool(processor, cfg, opts...)
}

func newPool[T Job](processor Processor[T], cfg Options, opts ...Option) (*Pool[T], error) {
	if processor == nil {
		return nil, errors.New("processor is required")
	}

	internal := &options{
		name:         cfg.Name,
		workerCount:  cfg.WorkerCount,
		pollInterval: cfg.PollInterval,
		idleInterval: cfg.IdleInterval,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		metrics:      NewNoOpMetrics(),
	}
	for _, opt := range opts {
		opt(internal)
	}

	if internal.logger == nil {
		internal.logger = slog.Default()
	}
	if internal.workerCount <= 0 {
		internal.workerCount = 1
	}
	if internal.pollInterval <= 0 {
		internal.pollInterval = 100 * time.Millisecond
	}
	if internal.idleInterval <= 0 {
		internal.idleInterval = 5 * time.Second
	}
	if internal.retryDelay <= 0 {
		internal.retryDelay = time.Second
	}

	p := &Pool[T]{
		processor:    processor,
		name:         internal.name,
		workerCount:  internal.workerCount,
		pollInterval: internal.pollInterval,
		idleInterval: internal.idleInterval,
		maxRetries:   internal.maxRetries,
		retryDelay:   internal.retryDelay,
		log:          internal.logger,
		middlewares:  internal.middlewares,
		metrics:      internal.metrics,
		errors:       make(chan error, internal.workerCount),
	}
	p.buildMiddlewareChain()
	return p, nil
}

// Start runs the workers and blocks until every worker has retired, either
// because the processor drained or the context was canceled.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return errors.New("pool already running")
	}
	p.running = true
	p.startTime = time.Now()
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.stateMu.Unlock()

	p.log.InfoContext(ctx, "starting worker pool",
		"name", p.name,
		"worker_count", p.workerCount,
		"poll_interval", p.pollInterval,
	)
	p.metrics.Start(ctx, p.name)

	for i := 0; i < p.workerCount; i++ {
		workerID := fmt.Sprintf("%s-worker-%d", p.name, i+1)
		p.workers.Add(1)
		go p.worker(workerID)
	}
	p.workers.Wait()

	close(p.errors)
	p.metrics.Stop(ctx)
	p.log.InfoContext(ctx, "worker pool stopped",
		"name", p.name,
		"total_runtime", time.Since(p.startTime),
	)

	p.stateMu.Lock()
	p.running = false
	p.stateMu.Unlock()

	// Report the first critical error, if any worker raised one.
	for err := range p.errors {
		return err
	}
	return nil
}

// Stop cancels the pool's context; Start returns once workers drain.
func (p *Pool[T]) Stop() {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Metrics returns a snapshot of the pool's metrics.
func (p *Pool[T]) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

func (p *Pool[T]) worker(workerID string) {
	defer p.workers.Done()
	defer p.metrics.RecordWorkerStopped()

	p.log.Debug("worker started", "worker_id", workerID, "pool", p.name)
	defer p.log.Debug("worker stopped", "worker_id", workerID, "pool", p.name)
	p.metrics.RecordWorkerStarted()

	interval := p.pollInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return

		case <-ticker.C:
			err := p.workWithPanicRecovery(p.ctx, workerID)

			next := p.pollInterval
			switch {
			case err == nil:

			case errors.Is(err, ErrWorkerShutdown):
				return

			case errors.Is(err, ErrPoolShutdown):
				p.log.ErrorContext(p.ctx, "worker requesting pool shutdown",
					"worker_id", workerID, "error", err)
				select {
				case p.errors <- fmt.Errorf("worker %s: %w", workerID, err):
				default:
				}
				p.cancel()
				return

			case errors.Is(err, ErrNoWorkAvailable):
				next = p.idleInterval

			default:
				p.log.ErrorContext(p.ctx, "job processing error",
					"worker_id", workerID, "error", err)
			}

			if next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// workWithPanicRecovery guards the whole work cycle so a panicking middleware
// or processor never kills the worker goroutine.
func (p *Pool[T]) workWithPanicRecovery(ctx context.Context, workerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("panic recovered in worker",
				"worker_id", workerID,
				"panic", r,
				"stack_trace", string(debug.Stack()),
			)
			p.metrics.RecordWorkerPanic()
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return p.workFunc(ctx, workerID)
}

// work runs one cycle: Checkout -> hooks -> Process (with retry) -> hooks ->
// Complete or Fail.
func (p *Pool[T]) work(ctx context.Context, workerID string) error {
	job, err := p.processor.Checkout(ctx, workerID)
	if err != nil {
		if errors.Is(err, ErrNoWorkAvailable) || errors.Is(err, ErrWorkerShutdown) {
			return err
		}
		p.metrics.RecordCheckoutError()
		return fmt.Errorf("checkout failed: %w", err)
	}
	p.metrics.RecordJobCheckedOut()

	for _, hook := range p.preProcessHooks {
		if err := hook(ctx, job); err != nil {
			p.log.ErrorContext(ctx, "pre-process hook failed",
				"job_id", job.JobID(), "error", err)
		}
	}

	start := time.Now()
	processed, processErr := p.processWithRetry(ctx, job)
	duration := time.Since(start)

	hookJob := processed
	if processErr != nil {
		hookJob = job
	}
	for _, hook := range p.postProcessHooks {
		if err := hook(ctx, hookJob, processErr); err != nil {
			p.log.ErrorContext(ctx, "post-process hook failed",
				"job_id", job.JobID(), "error", err)
		}
	}

	if processErr != nil {
		p.metrics.RecordJobFailed(duration)
		if failErr := p.processor.Fail(ctx, job, processErr); failErr != nil {
			p.log.ErrorContext(ctx, "failed to mark job as failed",
				"job_id", job.JobID(), "error", failErr)
		}
		return fmt.Errorf("job %s: %w", job.JobID(), processErr)
	}

	p.metrics.RecordJobCompleted(duration)
	if completeErr := p.processor.Complete(ctx, processed, int(duration.Milliseconds())); completeErr != nil {
		p.log.ErrorContext(ctx, "failed to mark job as complete",
			"job_id", job.JobID(), "error", completeErr)
	}

	p.log.InfoContext(ctx, "job completed",
		"worker_id", workerID,
		"job_id", job.JobID(),
		"duration_ms", duration.Milliseconds(),
	)
	return nil
}

// processWithRetry retries Process with exponential backoff. Job panics are
// converted to errors here so a poisoned job burns its attempts instead of
// the worker.
func (p *Pool[T]) processWithRetry(ctx context.Context, job T) (T, error) {
	maxAttempts := p.maxRetries
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var processed T
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			p.metrics.RecordRetryAttempt()
			delay := p.retryDelay * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return processed, ctx.Err()
			case <-time.After(delay):
			}
		}

		processed, lastErr = p.processJob(ctx, job)
		if lastErr == nil {
			if attempt > 1 {
				p.metrics.RecordRetrySuccess()
			}
			return processed, nil
		}
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		p.log.ErrorContext(ctx, "job attempt failed",
			"job_id", job.JobID(),
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", lastErr,
		)
	}

	if maxAttempts > 1 {
		p.metrics.RecordRetryExhausted()
	}
	return processed, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

func (p *Pool[T]) processJob(ctx context.Context, job T) (processed T, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("panic recovered in job",
				"job_id", job.JobID(),
				"panic", r,
				"stack_trace", string(debug.Stack()),
			)
			p.metrics.RecordWorkerPanic()
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.processor.Process(ctx, job)
}
