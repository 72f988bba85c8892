package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/manifest"
	"github.com/pullstream/constructors/core/protected"
	"github.com/pullstream/constructors/sdk/logger"
)

func outputDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "output",
		Usage:    "service root directory holding the manifest",
		Required: true,
	}
}

// ManifestShow prints the manifest of a generated service.
func ManifestShow(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the generation manifest of a service directory",
		Flags: []cli.Flag{envFlag(), outputDirFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bootstrap(ctx, cmd)

			dir := cmd.String("output")
			m, found, err := manifest.Read(dir)
			if err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}
			if !found {
				return fmt.Errorf("no manifest in %s", dir)
			}

			fmt.Printf("service:   %s (%s)\n", m.MicroserviceName, m.MicroserviceID)
			fmt.Printf("generated: %s by constructors v%s\n", m.GeneratedAt.Format("2006-01-02 15:04:05 MST"), m.GeneratorVersion)
			fmt.Printf("models:    %d\n", len(m.Models))
			for _, model := range m.Models {
				fmt.Printf("  %-24s %d fields\n", model.Name, model.FieldCount)
			}
			fmt.Printf("protected paths:\n")
			for _, p := range m.ProtectedPaths {
				fmt.Printf("  %s\n", p)
			}
			fmt.Printf("generated files: %d\n", len(m.GeneratedFiles))
			for _, f := range m.GeneratedFiles {
				fmt.Printf("  %s\n", f)
			}
			return nil
		},
	}
}

// ManifestCheck verifies the manifest against the directory: every tracked
// file must exist, and machine-marked files on disk should be tracked.
func ManifestCheck(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "verify tracked files exist and report untracked generated files",
		Flags: []cli.Flag{envFlag(), outputDirFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bootstrap(ctx, cmd)

			dir := cmd.String("output")
			m, found, err := manifest.Read(dir)
			if err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}
			if !found {
				return fmt.Errorf("no manifest in %s", dir)
			}

			missing := missingFiles(dir, m)
			orphans, err := orphanFiles(dir, m)
			if err != nil {
				return fmt.Errorf("scanning for orphans: %w", err)
			}

			for _, f := range missing {
				fmt.Printf("MISSING  %s\n", f)
			}
			for _, f := range orphans {
				fmt.Printf("ORPHAN   %s\n", f)
			}
			if len(missing) == 0 && len(orphans) == 0 {
				fmt.Printf("manifest clean: %d files tracked\n", len(m.GeneratedFiles))
				return nil
			}
			return fmt.Errorf("manifest check failed: %d missing, %d orphaned", len(missing), len(orphans))
		},
	}
}

func missingFiles(dir string, m manifest.Manifest) []string {
	var missing []string
	for _, relPath := range m.GeneratedFiles {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(relPath))); err != nil {
			missing = append(missing, relPath)
		}
	}
	return missing
}

// orphanFiles walks the registry's base directories for machine-marked files
// (".core." infix) the manifest does not track. Files under the manifest's
// own protected paths are hand-owned and never orphans.
func orphanFiles(dir string, m manifest.Manifest) ([]string, error) {
	tracked := make(map[string]struct{}, len(m.GeneratedFiles))
	for _, f := range m.GeneratedFiles {
		tracked[f] = struct{}{}
	}
	prot := protected.NewList(m.ProtectedPaths...)

	var orphans []string
	registry := artifacts.DefaultRegistry()
	for _, kind := range registry.Kinds() {
		baseDir, err := registry.BaseDir(kind)
		if err != nil {
			return nil, err
		}

		root := filepath.Join(dir, filepath.FromSlash(baseDir))
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return filepath.SkipAll
				}
				return err
			}
			if d.IsDir() || !strings.Contains(d.Name(), ".core.") {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			relPath := filepath.ToSlash(rel)
			if _, ok := tracked[relPath]; ok {
				return nil
			}
			if prot.Covers(relPath) {
				return nil
			}
			orphans = append(orphans, relPath)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return orphans, nil
}
