package generator

import (
	"time"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/manifest"
)

// Config holds the per-run knobs for generating one service.
type Config struct {
	// OutputDir is the service root artifacts are written under.
	OutputDir string

	// Kinds restricts the run to a subset of artifact kinds. Empty means
	// every registered kind.
	Kinds []artifacts.Kind

	// ForceOverwrite rewrites scaffold files that are normally written only
	// once. Protected paths are never overwritten regardless.
	ForceOverwrite bool

	// DryRun renders everything but writes and deletes nothing.
	DryRun bool
}

// Result captures the outcome of one generation run.
type Result struct {
	MicroserviceName string
	OutputDir        string
	ManifestPath     string

	// GeneratedFiles lists the relative paths written this run, in
	// generation order.
	GeneratedFiles []string

	// Skipped lists paths deliberately not written: artifacts under a
	// protected prefix and scaffold files that already exist.
	Skipped []string

	// Pruned lists files from the previous manifest that this run no longer
	// produces and therefore removed.
	Pruned []string

	Models   []manifest.ModelEntry
	Warnings []string
	Errors   []error

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// HasErrors reports whether the run recorded any errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}
