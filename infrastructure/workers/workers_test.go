package workers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pullstream/constructors/infrastructure/workers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testJob struct {
	id string
}

func (j testJob) JobID() string { return j.id }

// queueProcessor serves jobs from a fixed queue and retires workers once it
// drains, mirroring how batch generation feeds the pool.
type queueProcessor struct {
	mu    sync.Mutex
	queue []testJob

	processFn func(ctx context.Context, job testJob) (testJob, error)

	processed atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func (p *queueProcessor) Checkout(ctx context.Context, workerID string) (testJob, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return testJob{}, workers.ErrWorkerShutdown
	}
	job := p.queue[0]
	p.queue = p.queue[1:]
	return job, nil
}

func (p *queueProcessor) Process(ctx context.Context, job testJob) (testJob, error) {
	p.processed.Add(1)
	if p.processFn != nil {
		return p.processFn(ctx, job)
	}
	return job, nil
}

func (p *queueProcessor) Complete(ctx context.Context, job testJob, processingTimeMS int) error {
	p.completed.Add(1)
	return nil
}

func (p *queueProcessor) Fail(ctx context.Context, job testJob, err error) error {
	p.failed.Add(1)
	return nil
}

func newQueueProcessor(n int) *queueProcessor {
	p := &queueProcessor{}
	for i := 0; i < n; i++ {
		p.queue = append(p.queue, testJob{id: string(rune('a' + i))})
	}
	return p
}

func TestPoolDrainsQueue(t *testing.T) {
	processor := newQueueProcessor(8)
	metrics := workers.NewInMemoryMetrics()

	pool, err := workers.NewPool("test", 3, processor,
		workers.WithLogger(testLogger()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMetrics(metrics),
	)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := processor.completed.Load(); got != 8 {
		t.Errorf("completed = %d, want 8", got)
	}
	if got := processor.failed.Load(); got != 0 {
		t.Errorf("failed = %d, want 0", got)
	}

	snap := metrics.Snapshot()
	if snap.JobsCompleted != 8 {
		t.Errorf("metrics JobsCompleted = %d, want 8", snap.JobsCompleted)
	}
	if snap.WorkersStarted != 3 || snap.WorkersStopped != 3 {
		t.Errorf("workers started/stopped = %d/%d, want 3/3", snap.WorkersStarted, snap.WorkersStopped)
	}
}

func TestPoolRetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int64
	processor := newQueueProcessor(1)
	processor.processFn = func(ctx context.Context, job testJob) (testJob, error) {
		if attempts.Add(1) < 3 {
			return job, errors.New("transient")
		}
		return job, nil
	}

	pool, err := workers.NewPool("retry", 1, processor,
		workers.WithLogger(testLogger()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMaxRetries(3),
		workers.WithRetryDelay(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if got := processor.completed.Load(); got != 1 {
		t.Errorf("completed = %d, want 1", got)
	}
	if got := processor.failed.Load(); got != 0 {
		t.Errorf("failed = %d, want 0", got)
	}
}

func TestPoolRetriesExhausted(t *testing.T) {
	processor := newQueueProcessor(1)
	processor.processFn = func(ctx context.Context, job testJob) (testJob, error) {
		return job, errors.New("permanent")
	}
	metrics := workers.NewInMemoryMetrics()

	pool, err := workers.NewPool("exhaust", 1, processor,
		workers.WithLogger(testLogger()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMaxRetries(2),
		workers.WithRetryDelay(time.Millisecond),
		workers.WithMetrics(metrics),
	)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := processor.failed.Load(); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}
	if got := processor.completed.Load(); got != 0 {
		t.Errorf("completed = %d, want 0", got)
	}
	if snap := metrics.Snapshot(); snap.RetriesExhausted != 1 {
		t.Errorf("RetriesExhausted = %d, want 1", snap.RetriesExhausted)
	}
}

func TestPoolRecoversJobPanic(t *testing.T) {
	processor := newQueueProcessor(2)
	processor.processFn = func(ctx context.Context, job testJob) (testJob, error) {
		if job.id == "a" {
			panic("boom")
		}
		return job, nil
	}

	pool, err := workers.NewPool("panic", 1, processor,
		workers.WithLogger(testLogger()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMaxRetries(1),
	)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The panicking job fails, the second job still completes.
	if got := processor.failed.Load(); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}
	if got := processor.completed.Load(); got != 1 {
		t.Errorf("completed = %d, want 1", got)
	}
}

func TestPoolStopCancelsWorkers(t *testing.T) {
	// A processor that never drains.
	processor := &queueProcessor{}
	processor.processFn = func(ctx context.Context, job testJob) (testJob, error) {
		return job, nil
	}
	blocking := &blockingProcessor{inner: processor}

	pool, err := workers.NewPool("stop", 2, blocking,
		workers.WithLogger(testLogger()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithIdleInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- pool.Start(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	pool.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error after Stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop within 2s")
	}
}

// blockingProcessor reports no work forever.
type blockingProcessor struct {
	inner *queueProcessor
}

func (b *blockingProcessor) Checkout(ctx context.Context, workerID string) (testJob, error) {
	return testJob{}, workers.ErrNoWorkAvailable
}

func (b *blockingProcessor) Process(ctx context.Context, job testJob) (testJob, error) {
	return b.inner.Process(ctx, job)
}

func (b *blockingProcessor) Complete(ctx context.Context, job testJob, ms int) error {
	return b.inner.Complete(ctx, job, ms)
}

func (b *blockingProcessor) Fail(ctx context.Context, job testJob, err error) error {
	return b.inner.Fail(ctx, job, err)
}

func TestPoolHooksRun(t *testing.T) {
	processor := newQueueProcessor(3)

	pool, err := workers.NewPool("hooks", 1, processor,
		workers.WithLogger(testLogger()),
		workers.WithPollInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	var pre, post atomic.Int64
	pool.AddPreProcessHooks(func(ctx context.Context, job testJob) error {
		pre.Add(1)
		return nil
	})
	pool.AddPostProcessHooks(func(ctx context.Context, job testJob, err error) error {
		post.Add(1)
		return nil
	})

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if pre.Load() != 3 || post.Load() != 3 {
		t.Errorf("hooks ran pre=%d post=%d, want 3/3", pre.Load(), post.Load())
	}
}
