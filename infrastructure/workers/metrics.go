package workers

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// PoolMetrics collects pool orchestration metrics.
type PoolMetrics interface {
	RecordWorkerStarted()
	RecordWorkerStopped()
	RecordWorkerPanic()

	RecordJobCheckedOut()
	RecordJobCompleted(duration time.Duration)
	RecordJobFailed(duration time.Duration)
	RecordCheckoutError()

	RecordRetryAttempt()
	RecordRetrySuccess()
	RecordRetryExhausted()

	Snapshot() MetricsSnapshot

	Start(ctx context.Context, poolName string)
	Stop(ctx context.Context)
}

// MetricsSnapshot is a point-in-time view of pool metrics.
type MetricsSnapshot struct {
	WorkersStarted int64 `json:"workers_started"`
	WorkersStopped int64 `json:"workers_stopped"`
	WorkersActive  int64 `json:"workers_active"`
	WorkerPanics   int64 `json:"worker_panics"`

	JobsCheckedOut int64 `json:"jobs_checked_out"`
	JobsCompleted  int64 `json:"jobs_completed"`
	JobsFailed     int64 `json:"jobs_failed"`
	CheckoutErrors int64 `json:"checkout_errors"`

	RetryAttempts    int64 `json:"retry_attempts"`
	RetrySuccesses   int64 `json:"retry_successes"`
	RetriesExhausted int64 `json:"retries_exhausted"`

	TotalDuration   time.Duration `json:"total_duration_ms"`
	AverageDuration time.Duration `json:"average_duration_ms"`
	MinDuration     time.Duration `json:"min_duration_ms"`
	MaxDuration     time.Duration `json:"max_duration_ms"`

	CollectedAt time.Time     `json:"collected_at"`
	Uptime      time.Duration `json:"uptime_ms"`
}

// NoOpMetrics discards everything; the default when no collector is wired.
type NoOpMetrics struct{}

func NewNoOpMetrics() PoolMetrics { return &NoOpMetrics{} }

func (n *NoOpMetrics) RecordWorkerStarted()                 {}
func (n *NoOpMetrics) RecordWorkerStopped()                 {}
func (n *NoOpMetrics) RecordWorkerPanic()                   {}
func (n *NoOpMetrics) RecordJobCheckedOut()                 {}
func (n *NoOpMetrics) RecordJobCompleted(time.Duration)     {}
func (n *NoOpMetrics) RecordJobFailed(time.Duration)        {}
func (n *NoOpMetrics) RecordCheckoutError()                 {}
func (n *NoOpMetrics) RecordRetryAttempt()                  {}
func (n *NoOpMetrics) RecordRetrySuccess()                  {}
func (n *NoOpMetrics) RecordRetryExhausted()                {}
func (n *NoOpMetrics) Snapshot() MetricsSnapshot            { return MetricsSnapshot{} }
func (n *NoOpMetrics) Start(context.Context, string)        {}
func (n *NoOpMetrics) Stop(context.Context)                 {}

// InMemoryMetrics tracks counters with atomics; safe for concurrent workers.
type InMemoryMetrics struct {
	poolName  string
	startTime time.Time

	workersStarted atomic.Int64
	workersStopped atomic.Int64
	workerPanics   atomic.Int64

	jobsCheckedOut atomic.Int64
	jobsCompleted  atomic.Int64
	jobsFailed     atomic.Int64
	checkoutErrors atomic.Int64

	retryAttempts    atomic.Int64
	retrySuccesses   atomic.Int64
	retriesExhausted atomic.Int64

	totalDurationNs atomic.Int64

	mu          sync.RWMutex
	minDuration time.Duration
	maxDuration time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{minDuration: time.Duration(1<<63 - 1)}
}

func (m *InMemoryMetrics) Start(ctx context.Context, poolName string) {
	m.poolName = poolName
	m.startTime = time.Now()
}

func (m *InMemoryMetrics) Stop(ctx context.Context) {}

func (m *InMemoryMetrics) RecordWorkerStarted() { m.workersStarted.Add(1) }
func (m *InMemoryMetrics) RecordWorkerStopped() { m.workersStopped.Add(1) }
func (m *InMemoryMetrics) RecordWorkerPanic()   { m.workerPanics.Add(1) }
func (m *InMemoryMetrics) RecordJobCheckedOut() { m.jobsCheckedOut.Add(1) }
func (m *InMemoryMetrics) RecordCheckoutError() { m.checkoutErrors.Add(1) }

func (m *InMemoryMetrics) RecordJobCompleted(duration time.Duration) {
	m.jobsCompleted.Add(1)
	m.recordDuration(duration)
}

func (m *InMemoryMetrics) RecordJobFailed(duration time.Duration) {
	m.jobsFailed.Add(1)
	m.recordDuration(duration)
}

func (m *InMemoryMetrics) RecordRetryAttempt()   { m.retryAttempts.Add(1) }
func (m *InMemoryMetrics) RecordRetrySuccess()   { m.retrySuccesses.Add(1) }
func (m *InMemoryMetrics) RecordRetryExhausted() { m.retriesExhausted.Add(1) }

func (m *InMemoryMetrics) recordDuration(duration time.Duration) {
	m.totalDurationNs.Add(int64(duration))

	m.mu.Lock()
	if duration < m.minDuration {
		m.minDuration = duration
	}
	if duration > m.maxDuration {
		m.maxDuration = duration
	}
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	completed := m.jobsCompleted.Load()
	failed := m.jobsFailed.Load()
	total := time.Duration(m.totalDurationNs.Load())

	var avg time.Duration
	if done := completed + failed; done > 0 {
		avg = total / time.Duration(done)
	}

	m.mu.RLock()
	minD, maxD := m.minDuration, m.maxDuration
	m.mu.RUnlock()
	if minD == time.Duration(1<<63-1) {
		minD = 0
	}

	var uptime time.Duration
	if !m.startTime.IsZero() {
		uptime = time.Since(m.startTime)
	}

	return MetricsSnapshot{
		WorkersStarted: m.workersStarted.Load(),
		WorkersStopped: m.workersStopped.Load(),
		WorkersActive:  m.workersStarted.Load() - m.workersStopped.Load(),
		WorkerPanics:   m.workerPanics.Load(),

		JobsCheckedOut: m.jobsCheckedOut.Load(),
		JobsCompleted:  completed,
		JobsFailed:     failed,
		CheckoutErrors: m.checkoutErrors.Load(),

		RetryAttempts:    m.retryAttempts.Load(),
		RetrySuccesses:   m.retrySuccesses.Load(),
		RetriesExhausted: m.retriesExhausted.Load(),

		TotalDuration:   total,
		AverageDuration: avg,
		MinDuration:     minD,
		MaxDuration:     maxD,

		CollectedAt: time.Now(),
		Uptime:      uptime,
	}
}

// LoggingMetrics wraps InMemoryMetrics and logs a summary when the pool
// stops.
type LoggingMetrics struct {
	*InMemoryMetrics
	log *slog.Logger
}

func NewLoggingMetrics(log *slog.Logger) *LoggingMetrics {
	return &LoggingMetrics{
		InMemoryMetrics: NewInMemoryMetrics(),
		log:             log,
	}
}

func (m *LoggingMetrics) Stop(ctx context.Context) {
	snap := m.Snapshot()
	m.log.InfoContext(ctx, "pool metrics",
		"pool", m.poolName,
		"jobs_completed", snap.JobsCompleted,
		"jobs_failed", snap.JobsFailed,
		"retry_attempts", snap.RetryAttempts,
		"worker_panics", snap.WorkerPanics,
		"average_duration", snap.AverageDuration,
		"uptime", snap.Uptime,
	)
}
