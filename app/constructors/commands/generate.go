package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/generator"
	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/sdk/logger"
)

// Generate runs the generator for a single service definition.
func Generate(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate artifacts for one service definition",
		Flags: []cli.Flag{
			envFlag(),
			&cli.StringFlag{
				Name:     "definition",
				Usage:    "path to a service definition file (JSON or YAML)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "service root directory artifacts are written under",
				Required: true,
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

			def, err := models.LoadServiceDefinition(cmd.String("definition"))
			if err != nil {
				return fmt.Errorf("loading definition: %w", err)
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

			result, err := gen.Run(ctx, def, generator.Config{
				OutputDir:      cmd.String("output"),
				Kinds:          kinds,
				ForceOverwrite: cmd.Bool("force"),
				DryRun:         cmd.Bool("dry-run"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("service %s: %d generated, %d skipped, %d pruned in %s\n",
				result.MicroserviceName,
				len(result.GeneratedFiles),
				len(result.Skipped),
				len(result.Pruned),
				result.Duration.Round(timeRounding),
			)
			for _, w := range result.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
			return nil
		},
	}
}
