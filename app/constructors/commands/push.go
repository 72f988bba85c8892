package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/bridge/compute"
	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/sdk/logger"
)

// Push uploads service definitions to the compute API.
func Push(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "upload service definitions to the compute API",
		Flags: definitionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = bootstrap(ctx, cmd)

			paths, err := definitionPaths(cmd)
			if err != nil {
				return err
			}

			client, err := compute.NewFromEnv(EnvPrefix, log.Logger)
			if err != nil {
				return fmt.Errorf("configuring compute client: %w", err)
			}

			for _, path := range paths {
				def, err := models.LoadServiceDefinition(path)
				if err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}
				if errs := models.Validate(def); len(errs) > 0 {
					return fmt.Errorf("%s failed validation: %v", path, errs[0])
				}

				if err := client.Push(ctx, def); err != nil {
					return fmt.Errorf("pushing %s: %w", path, err)
				}
				fmt.Printf("pushed %s: %d models, %d enums\n", def.MicroserviceName, len(def.Models), len(def.Enums))
			}
			return nil
		},
	}
}
