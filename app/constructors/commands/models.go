package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/sdk/logger"
)

// definitionPaths resolves either a single --definition file or every
// definition in a --definitions directory.
func definitionPaths(cmd *cli.Command) ([]string, error) {
	if file := cmd.String("definition"); file != "" {
		return []string{file}, nil
	}
	dir := cmd.String("definitions")
	if dir == "" {
		return nil, fmt.Errorf("either --definition or --definitions is required")
	}
	paths, err := models.ListDefinitions(dir)
	if err != nil {
		return nil, fmt.Errorf("listing definitions: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no definition files in %s", dir)
	}
	return paths, nil
}

func definitionFlags() []cli.Flag {
	return []cli.Flag{
		envFlag(),
		&cli.StringFlag{
			Name:  "definition",
			Usage: "path to a single service definition file",
		},
		&cli.StringFlag{
			Name:  "definitions",
			Usage: "directory of service definition files",
		},
	}
}

// ModelsList prints the models of one or more service definitions.
func ModelsList(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list the models in service definition files",
		Flags: definitionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bootstrap(ctx, cmd)

			paths, err := definitionPaths(cmd)
			if err != nil {
				return err
			}

			for _, path := range paths {
				def, err := models.LoadServiceDefinition(path)
				if err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}

				fmt.Printf("%s (%d models, %d enums)\n", def.MicroserviceName, len(def.Models), len(def.Enums))
				for _, model := range def.Models {
					fmt.Printf("  %-24s %2d fields", model.Name, model.FieldCount())
					if fks := foreignKeyCount(model); fks > 0 {
						fmt.Printf("  %d foreign keys", fks)
					}
					fmt.Println()
				}
			}
			return nil
		},
	}
}

// ModelsValidate loads and validates definitions, reporting every failure.
func ModelsValidate(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate service definition files",
		Flags: definitionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bootstrap(ctx, cmd)

			paths, err := definitionPaths(cmd)
			if err != nil {
				return err
			}

			failures := 0
			for _, path := range paths {
				def, err := models.LoadServiceDefinition(path)
				if err != nil {
					failures++
					fmt.Printf("INVALID %s: %v\n", path, err)
					continue
				}
				if errs := models.Validate(def); len(errs) > 0 {
					failures++
					fmt.Printf("INVALID %s:\n", path)
					for _, e := range errs {
						fmt.Printf("  %v\n", e)
					}
					continue
				}
				fmt.Printf("ok      %s (%s)\n", path, def.MicroserviceName)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d definitions invalid", failures, len(paths))
			}
			return nil
		},
	}
}

func foreignKeyCount(model models.ModelDefinition) int {
	count := 0
	for _, f := range model.Fields {
		if f.IsForeignKey {
			count++
		}
	}
	return count
}
