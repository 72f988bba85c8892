package generator

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/infrastructure/workers"
	"github.com/pullstream/constructors/sdk/validation"
)

// BatchJob is one definition file queued for generation.
type BatchJob struct {
	Path   string
	Result *Result
}

func (j BatchJob) JobID() string {
	return filepath.Base(j.Path)
}

// BatchOutcome pairs a definition file with how its run ended.
type BatchOutcome struct {
	Path   string
	Result *Result
	Err    error
}

// BatchProcessor feeds definition files through the generator, one output
// directory per service under OutputRoot. It implements workers.Processor;
// workers retire once the queue drains, and two definition files naming the
// same service must not share a batch (runs per service are serialized by
// construction, not locking).
type BatchProcessor struct {
	gen        *Generator
	baseCfg    Config
	outputRoot string
	log        *slog.Logger

	mu       sync.Mutex
	queue    []BatchJob
	outcomes []BatchOutcome
}

// NewBatchProcessor queues the given definition file paths. baseCfg's
// OutputDir is ignored; each job derives its own from the service name.
func NewBatchProcessor(gen *Generator, paths []string, outputRoot string, baseCfg Config, log *slog.Logger) *BatchProcessor {
	p := &BatchProcessor{
		gen:        gen,
		baseCfg:    baseCfg,
		outputRoot: outputRoot,
		log:        log,
	}
	for _, path := range paths {
		p.queue = append(p.queue, BatchJob{Path: path})
	}
	return p
}

func (p *BatchProcessor) Checkout(ctx context.Context, workerID string) (BatchJob, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return BatchJob{}, workers.ErrWorkerShutdown
	}
	job := p.queue[0]
	p.queue = p.queue[1:]
	return job, nil
}

func (p *BatchProcessor) Process(ctx context.Context, job BatchJob) (BatchJob, error) {
	def, err := models.LoadServiceDefinition(job.Path)
	if err != nil {
		return job, err
	}

	cfg := p.baseCfg
	cfg.OutputDir = filepath.Join(p.outputRoot, validation.Slugify(def.MicroserviceName))

	result, err := p.gen.Run(ctx, def, cfg)
	job.Result = result
	return job, err
}

func (p *BatchProcessor) Complete(ctx context.Context, job BatchJob, processingTimeMS int) error {
	p.record(BatchOutcome{Path: job.Path, Result: job.Result})
	return nil
}

func (p *BatchProcessor) Fail(ctx context.Context, job BatchJob, err error) error {
	p.record(BatchOutcome{Path: job.Path, Result: job.Result, Err: err})
	p.log.Error("batch job failed", "path", job.Path, "error", err)
	return nil
}

func (p *BatchProcessor) record(outcome BatchOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outcomes = append(p.outcomes, outcome)
}

// Outcomes returns every finished job's outcome.
func (p *BatchProcessor) Outcomes() []BatchOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]BatchOutcome, len(p.outcomes))
	copy(out, p.outcomes)
	return out
}
