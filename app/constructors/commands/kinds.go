package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/sdk/logger"
)

// Kinds prints the artifact kind table.
func Kinds(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "kinds",
		Usage: "print the registered artifact kinds and their output targets",
		Flags: []cli.Flag{envFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bootstrap(ctx, cmd)

			registry := artifacts.DefaultRegistry()
			fmt.Printf("%-12s %-20s %-12s %s\n", "KIND", "BASE DIR", "SUFFIX", "EXT")
			for _, kind := range registry.Kinds() {
				target, _ := registry.Lookup(kind)
				fmt.Printf("%-12s %-20s %-12s %s\n", kind, target.BaseDir, target.Suffix, target.Ext)
			}
			return nil
		},
	}
}
