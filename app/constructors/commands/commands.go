// Package commands wires the constructors CLI surface: generation, manifest
// inspection, model tooling, database reflection, and compute API upload.
package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/sdk/logger"
)

// EnvPrefix namespaces every environment variable the CLI reads.
const EnvPrefix = "CONSTRUCTORS"

// envFlag is shared by every command; flags always win over the file.
func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to a .env file loaded before configuration parsing",
		Value: ".env",
	}
}

// Root assembles the command tree.
func Root(build string, log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:    "constructors",
		Usage:   "protected-path-aware service code generation",
		Version: build,
		Commands: []*cli.Command{
			Generate(log),
			Batch(log),
			{
				Name:  "manifest",
				Usage: "inspect generation manifests",
				Commands: []*cli.Command{
					ManifestShow(log),
					ManifestCheck(log),
				},
			},
			{
				Name:  "models",
				Usage: "inspect service definition files",
				Commands: []*cli.Command{
					ModelsList(log),
					ModelsValidate(log),
				},
			},
			Kinds(log),
			Reflect(log),
			Push(log),
		},
	}
}
