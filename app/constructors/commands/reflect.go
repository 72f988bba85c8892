package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/infrastructure/postgresdb"
	"github.com/pullstream/constructors/schema/reflector"
	"github.com/pullstream/constructors/sdk/logger"
)

// Reflect turns a live PostgreSQL schema into a service definition file.
func Reflect(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "reflect",
		Usage: "reflect a PostgreSQL schema into a service definition file",
		Flags: []cli.Flag{
			envFlag(),
			&cli.StringFlag{
				Name:  "schema",
				Usage: "database schema to reflect",
				Value: "public",
			},
			&cli.StringFlag{
				Name:     "service",
				Usage:    "microservice name stamped into the definition",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "directory the definition file is written to",
				Value: ".",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = bootstrap(ctx, cmd)

			pool, err := postgresdb.NewFromEnv(EnvPrefix,
				postgresdb.WithLogger(log.Logger),
				postgresdb.WithTracer(postgresdb.NewLoggingQueryTracer(log.Logger)),
			)
			if err != nil {
				return fmt.Errorf("configuring postgres support: %w", err)
			}
			defer pool.Close()

			if err := postgresdb.StatusCheck(ctx, pool); err != nil {
				return fmt.Errorf("database not ready: %w", err)
			}

			store := reflector.NewPgxStore(ctx, pool, pool.Config().ConnConfig.Database)
			ref := reflector.NewReflector(store, log.Logger)

			def, err := ref.Reflect(reflector.Config{
				SchemaName:  cmd.String("schema"),
				ServiceName: cmd.String("service"),
				OutputDir:   cmd.String("output"),
			})
			if err != nil {
				return fmt.Errorf("reflecting schema: %w", err)
			}

			path, err := reflector.WriteDefinition(def, cmd.String("output"))
			if err != nil {
				return fmt.Errorf("writing definition: %w", err)
			}

			log.InfoContext(ctx, "schema reflected",
				"schema", cmd.String("schema"),
				"models", len(def.Models),
				"enums", len(def.Enums),
				"path", path,
			)
			fmt.Printf("wrote %s (%d models, %d enums)\n", path, len(def.Models), len(def.Enums))
			return nil
		},
	}
}
