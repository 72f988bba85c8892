package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/generator"
	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/infrastructure/workers"
	"github.com/pullstream/constructors/sdk/logger"
)

// Batch generates every definition in a directory across the worker pool,
// one output directory per service.
func Batch(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "generate artifacts for a directory of service definitions",
		Flags: []cli.Flag{
			envFlag(),
			&cli.StringFlag{
				Name:     "definitions",
				Usage:    "directory of service definition files",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "root directory; each service gets a slugged subdirectory",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "worker count (default from WORKER_COUNT)",
			},
			&cli.StringSliceFlag{
				Name:  "kind",
				Usage: "restrict generation to the given artifact kinds",
			},
			&cli.StringSliceFlag{
				Name:  "protect",
				Usage: "additional protected path prefixes",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite scaffold files that normally survive regeneration",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "report what would be generated without writing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = bootstrap(ctx, cmd)

			paths, err := models.ListDefinitions(cmd.String("definitions"))
			if err != nil {
				return fmt.Errorf("listing definitions: %w", err)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no definition files in %s", cmd.String("definitions"))
			}

			registry := artifacts.DefaultRegistry()
			kinds, err := parseKinds(registry, cmd.StringSlice("kind"))
			if err != nil {
				return err
			}

			gen, err := generator.New(registry, protectedList(cmd.StringSlice("protect")), log.Logger)
			if err != nil {
				return fmt.Errorf("configuring generator: %w", err)
			}

			processor := generator.NewBatchProcessor(gen, paths, cmd.String("output"), generator.Config{
				Kinds:          kinds,
				ForceOverwrite: cmd.Bool("force"),
				DryRun:         cmd.Bool("dry-run"),
			}, log.Logger)

			poolOpts := []workers.Option{
				workers.WithLogger(log.Logger),
				workers.WithMetrics(workers.NewLoggingMetrics(log.Logger)),
			}
			if count := cmd.Int("workers"); count > 0 {
				poolOpts = append(poolOpts, workers.WithWorkerCount(count))
			}

			pool, err := workers.NewFromEnv(EnvPrefix, processor, poolOpts...)
			if err != nil {
				return fmt.Errorf("configuring worker pool: %w", err)
			}
			if err := pool.Start(ctx); err != nil {
				return fmt.Errorf("running batch: %w", err)
			}

			failed := 0
			for _, outcome := range processor.Outcomes() {
				if outcome.Err != nil {
					failed++
					fmt.Printf("FAILED %s: %v\n", outcome.Path, outcome.Err)
					continue
				}
				fmt.Printf("%s: %d generated, %d skipped, %d pruned\n",
					outcome.Result.MicroserviceName,
					len(outcome.Result.GeneratedFiles),
					len(outcome.Result.Skipped),
					len(outcome.Result.Pruned),
				)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d definitions failed", failed, len(paths))
			}
			return nil
		},
	}
}
