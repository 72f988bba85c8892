// Package generator renders artifact templates for every model of a service
// definition, tracks what it wrote in a generation manifest, and reconciles
// the output directory against the previous manifest so stale generated
// files are pruned and hand-authored paths are never touched.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/manifest"
	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/core/protected"
)

// templateSources maps artifact kinds to their per-model template text.
// Registering a new kind without a template here fails the run instead of
// writing an empty file.
var templateSources = map[artifacts.Kind]string{
	artifacts.KindController: ControllerTemplate,
	artifacts.KindSchema:     SchemaTemplate,
	artifacts.KindRoutes:     RoutesTemplate,
	artifacts.KindQueue:      QueueTemplate,
	artifacts.KindPage:       PageTemplate,
}

// Relative paths of the service-level outputs.
const (
	indexRoutesPath = "core/routes/v1/index.routes.core.js"
	packageJSONPath = "package.json"
)

// ModelData is the render context for per-model templates.
type ModelData struct {
	Service *models.ServiceDefinition
	Model   models.ModelDefinition
	Version string
}

// ServiceData is the render context for service-level templates.
type ServiceData struct {
	Service *models.ServiceDefinition
	Version string
}

// Generator renders one service at a time. Concurrent runs against the same
// output directory are not coordinated; callers serialize per service.
type Generator struct {
	registry  *artifacts.Registry
	protected *protected.List
	log       *slog.Logger

	templates   map[artifacts.Kind]*template.Template
	indexRoutes *template.Template
	packageJSON *template.Template
}

// New builds a generator over the given kind registry and protected-path
// configuration. Template parse failures surface here, not mid-run.
func New(registry *artifacts.Registry, prot *protected.List, log *slog.Logger) (*Generator, error) {
	if registry == nil {
		registry = artifacts.DefaultRegistry()
	}
	if prot == nil {
		prot = protected.Default()
	}

	funcs := FuncMap()
	templates := make(map[artifacts.Kind]*template.Template, len(templateSources))
	for kind, src := range templateSources {
		tmpl, err := template.New(string(kind)).Funcs(funcs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		templates[kind] = tmpl
	}

	indexRoutes, err := template.New("index.routes").Funcs(funcs).Parse(IndexRoutesTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse index routes template: %w", err)
	}
	packageJSON, err := template.New("package.json").Funcs(funcs).Parse(PackageJSONTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse package.json template: %w", err)
	}

	return &Generator{
		registry:    registry,
		protected:   prot,
		log:         log,
		templates:   templates,
		indexRoutes: indexRoutes,
		packageJSON: packageJSON,
	}, nil
}

// Registry returns the generator's kind table.
func (g *Generator) Registry() *artifacts.Registry {
	return g.registry
}

// Run generates every artifact for the definition into cfg.OutputDir, writes
// the manifest, and prunes files the previous manifest tracked that this run
// no longer produces. A corrupt previous manifest aborts the run before
// anything is written.
func (g *Generator) Run(ctx context.Context, def *models.ServiceDefinition, cfg Config) (*Result, error) {
	result := &Result{
		MicroserviceName: def.MicroserviceName,
		OutputDir:        cfg.OutputDir,
		ManifestPath:     manifest.PathFor(cfg.OutputDir),
		StartTime:        time.Now(),
	}
	defer func() {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
	}()

	if errs := models.Validate(def); len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result, fmt.Errorf("definition validation failed: %w", errors.Join(errs...))
	}

	// Read the previous manifest up front: corruption means the directory
	// needs operator attention, and generating on top of it would make the
	// mess worse.
	prev, prevFound, err := manifest.Read(cfg.OutputDir)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, fmt.Errorf("previous manifest: %w", err)
	}

	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds = g.registry.Kinds()
	}
	for _, kind := range kinds {
		if _, ok := g.registry.Lookup(kind); !ok {
			err := fmt.Errorf("%w: %q", artifacts.ErrUnknownKind, kind)
			result.Errors = append(result.Errors, err)
			return result, err
		}
		if _, ok := g.templates[kind]; !ok {
			err := fmt.Errorf("kind %q has no template", kind)
			result.Errors = append(result.Errors, err)
			return result, err
		}
	}

	g.log.InfoContext(ctx, "generation run started",
		"service", def.MicroserviceName,
		"models", len(def.Models),
		"kinds", len(kinds),
		"output_dir", cfg.OutputDir,
		"dry_run", cfg.DryRun,
	)

	for _, model := range def.Models {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err)
			return result, err
		}

		for _, kind := range kinds {
			relPath, err := g.registry.ResolvePath(kind, models.ToCamelCase(model.Name))
			if err != nil {
				result.Errors = append(result.Errors, err)
				return result, err
			}

			if g.protected.Covers(relPath) {
				warning := fmt.Sprintf("skipping %s: under a protected path", relPath)
				result.Warnings = append(result.Warnings, warning)
				result.Skipped = append(result.Skipped, relPath)
				g.log.WarnContext(ctx, "artifact path is protected", "path", relPath)
				continue
			}

			data := ModelData{Service: def, Model: model, Version: manifest.GeneratorVersion}
			if err := g.render(cfg, relPath, g.templates[kind], data); err != nil {
				result.Errors = append(result.Errors, err)
				return result, fmt.Errorf("generate %s for %s: %w", kind, model.Name, err)
			}
			result.GeneratedFiles = append(result.GeneratedFiles, relPath)
		}

		result.Models = append(result.Models, manifest.ModelEntry{
			Name:       model.Name,
			ID:         model.ID,
			FieldCount: model.FieldCount(),
		})
	}

	if err := g.writeServiceOutputs(ctx, def, cfg, result); err != nil {
		result.Errors = append(result.Errors, err)
		return result, err
	}

	m := manifest.Build(def.MicroserviceID, def.MicroserviceName, result.Models, result.GeneratedFiles, g.protected)
	if !cfg.DryRun {
		if err := manifest.Write(cfg.OutputDir, m); err != nil {
			result.Errors = append(result.Errors, err)
			return result, err
		}
	}

	if prevFound {
		g.reconcile(ctx, prev, cfg, kinds, result)
	}

	g.log.InfoContext(ctx, "generation run finished",
		"service", def.MicroserviceName,
		"generated", len(result.GeneratedFiles),
		"skipped", len(result.Skipped),
		"pruned", len(result.Pruned),
	)
	return result, nil
}

// writeServiceOutputs renders the service-level files: the route aggregator
// every run, the package.json scaffold only when absent.
func (g *Generator) writeServiceOutputs(ctx context.Context, def *models.ServiceDefinition, cfg Config, result *Result) error {
	data := ServiceData{Service: def, Version: manifest.GeneratorVersion}

	if g.protected.Covers(indexRoutesPath) {
		result.Skipped = append(result.Skipped, indexRoutesPath)
	} else {
		if err := g.render(cfg, indexRoutesPath, g.indexRoutes, data); err != nil {
			return fmt.Errorf("generate route aggregator: %w", err)
		}
		result.GeneratedFiles = append(result.GeneratedFiles, indexRoutesPath)
	}

	// Scaffold-once: the service owns its package.json after first
	// generation. Not manifest-tracked, so reconciliation never prunes it.
	target := filepath.Join(cfg.OutputDir, packageJSONPath)
	if fileExists(target) && !cfg.ForceOverwrite {
		result.Skipped = append(result.Skipped, packageJSONPath)
		g.log.DebugContext(ctx, "package.json exists, not overwriting")
		return nil
	}
	if err := g.render(cfg, packageJSONPath, g.packageJSON, data); err != nil {
		return fmt.Errorf("generate package.json: %w", err)
	}
	return nil
}

// render writes one template to its relative path under the output dir. Dry
// runs still execute the template so render errors surface either way.
func (g *Generator) render(cfg Config, relPath string, tmpl *template.Template, data any) error {
	if cfg.DryRun {
		return tmpl.Execute(io.Discard, data)
	}

	target := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	// A failed execute leaves a truncated file no manifest tracks; remove it
	// rather than strand it.
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("execute template: %w", err)
	}
	return f.Close()
}

// reconcile prunes files the previous manifest produced that this run did
// not: renamed models, removed models, retired kinds. Pruning is scoped to
// the base directories of the kinds this run actually generated, so a
// kind-subset run never deletes the other kinds' files. Protected paths and
// files already gone are left alone.
func (g *Generator) reconcile(ctx context.Context, prev manifest.Manifest, cfg Config, kinds []artifacts.Kind, result *Result) {
	current := make(map[string]struct{}, len(result.GeneratedFiles))
	for _, f := range result.GeneratedFiles {
		current[f] = struct{}{}
	}

	scope := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		baseDir, err := g.registry.BaseDir(kind)
		if err != nil {
			continue
		}
		scope = append(scope, baseDir+"/")
	}

	for _, relPath := range prev.GeneratedFiles {
		if _, stillGenerated := current[relPath]; stillGenerated {
			continue
		}
		if !inScope(scope, relPath) {
			continue
		}
		if g.protected.Covers(relPath) {
			continue
		}

		target := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
		if !fileExists(target) {
			continue
		}

		if cfg.DryRun {
			result.Pruned = append(result.Pruned, relPath)
			continue
		}
		if err := os.Remove(target); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("prune %s: %v", relPath, err))
			g.log.WarnContext(ctx, "failed to prune stale file", "path", relPath, "error", err)
			continue
		}
		result.Pruned = append(result.Pruned, relPath)
		g.log.InfoContext(ctx, "pruned stale generated file", "path", relPath)
	}
}

func inScope(scope []string, relPath string) bool {
	for _, prefix := range scope {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
