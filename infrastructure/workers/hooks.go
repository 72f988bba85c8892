package workers

import (
	"context"
	"log/slog"
)

// AddPreProcessHooks registers functions that run after Checkout and before
// Process. Hook errors are logged, never fatal.
func (p *Pool[T]) AddPreProcessHooks(hooks ...PreProcessHook[T]) {
	p.preProcessHooks = append(p.preProcessHooks, hooks...)
}

// AddPostProcessHooks registers functions that run after Process and before
// Complete or Fail.
func (p *Pool[T]) AddPostProcessHooks(hooks ...PostProcessHook[T]) {
	p.postProcessHooks = append(p.postProcessHooks, hooks...)
}

// LogStartHook logs each job as it begins processing.
func LogStartHook[T Job](log *slog.Logger) PreProcessHook[T] {
	return func(ctx context.Context, job T) error {
		log.InfoContext(ctx, "job started", "job_id", job.JobID())
		return nil
	}
}

// LogEndHook logs each job's outcome.
func LogEndHook[T Job](log *slog.Logger) PostProcessHook[T] {
	return func(ctx context.Context, job T, err error) error {
		if err != nil {
			log.ErrorContext(ctx, "job failed", "job_id", job.JobID(), "error", err)
			return nil
		}
		log.InfoContext(ctx, "job finished", "job_id", job.JobID())
		return nil
	}
}
