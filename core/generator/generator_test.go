package generator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/generator"
	"github.com/pullstream/constructors/core/manifest"
	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/core/protected"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDefinition(modelNames ...string) *models.ServiceDefinition {
	def := &models.ServiceDefinition{
		MicroserviceID:   uuid.NewString(),
		MicroserviceName: "crm-backend",
	}
	for _, name := range modelNames {
		def.Models = append(def.Models, models.ModelDefinition{
			ID:    uuid.NewString(),
			Name:  name,
			Label: models.TitleCase(name),
			Fields: []models.FieldDefinition{
				{ID: uuid.NewString(), Order: 1, Name: "firstName", Label: "First Name", DataType: models.TypeString, ShowInTable: true},
				{ID: uuid.NewString(), Order: 2, Name: "age", Label: "Age", DataType: models.TypeInt, IsOptional: true},
			},
		})
	}
	return def
}

func newGenerator(t *testing.T, prot *protected.List) *generator.Generator {
	t.Helper()
	gen, err := generator.New(artifacts.DefaultRegistry(), prot, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return gen
}

func TestRunGeneratesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	gen := newGenerator(t, nil)
	def := testDefinition("Employee", "Department")

	result, err := gen.Run(context.Background(), def, generator.Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 2 models x 5 kinds + the route aggregator.
	if got := len(result.GeneratedFiles); got != 11 {
		t.Errorf("generated %d files, want 11: %v", got, result.GeneratedFiles)
	}

	for _, relPath := range []string{
		"core/controllers/employee.controller.core.js",
		"core/schemas/employee.schema.core.js",
		"core/routes/v1/employee.routes.core.js",
		"core/queues/employee.queue.core.js",
		"frontend/pages/employee.page.core.tsx",
		"core/routes/v1/index.routes.core.js",
		"package.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, relPath)); err != nil {
			t.Errorf("expected %s: %v", relPath, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "core/controllers/employee.controller.core.js"))
	if err != nil {
		t.Fatalf("read controller: %v", err)
	}
	for _, want := range []string{"createEmployee", "listEmployees", "prisma.employee"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("controller missing %q", want)
		}
	}

	m, found, err := manifest.Read(dir)
	if err != nil || !found {
		t.Fatalf("manifest read: found=%v err=%v", found, err)
	}
	if len(m.Models) != 2 {
		t.Errorf("manifest models = %d, want 2", len(m.Models))
	}
	if len(m.GeneratedFiles) != len(result.GeneratedFiles) {
		t.Errorf("manifest files = %d, want %d", len(m.GeneratedFiles), len(result.GeneratedFiles))
	}
	if m.Models[0].FieldCount != 2 {
		t.Errorf("FieldCount = %d, want 2", m.Models[0].FieldCount)
	}
}

func TestRunSkipsProtectedPaths(t *testing.T) {
	dir := t.TempDir()
	prot := protected.NewList("core/controllers")
	gen := newGenerator(t, prot)

	result, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "core/controllers/employee.controller.core.js")); err == nil {
		t.Error("controller written under a protected path")
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the protected skip")
	}

	m, _, err := manifest.Read(dir)
	if err != nil {
		t.Fatalf("manifest read: %v", err)
	}
	for _, f := range m.GeneratedFiles {
		if strings.HasPrefix(f, "core/controllers/") {
			t.Errorf("manifest tracks protected path %s", f)
		}
	}
}

func TestRunScaffoldsPackageJSONOnce(t *testing.T) {
	dir := t.TempDir()
	gen := newGenerator(t, nil)
	def := testDefinition("Employee")

	if _, err := gen.Run(context.Background(), def, generator.Config{OutputDir: dir}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	custom := []byte(`{"name": "hand-tuned"}`)
	pkgPath := filepath.Join(dir, "package.json")
	if err := os.WriteFile(pkgPath, custom, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := gen.Run(context.Background(), def, generator.Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	data, _ := os.ReadFile(pkgPath)
	if string(data) != string(custom) {
		t.Error("second run overwrote the existing package.json")
	}
	found := false
	for _, s := range result.Skipped {
		if s == "package.json" {
			found = true
		}
	}
	if !found {
		t.Error("package.json skip not reported")
	}

	if _, err := gen.Run(context.Background(), def, generator.Config{OutputDir: dir, ForceOverwrite: true}); err != nil {
		t.Fatalf("force run: %v", err)
	}
	data, _ = os.ReadFile(pkgPath)
	if string(data) == string(custom) {
		t.Error("force overwrite left the old package.json")
	}
}

func TestRunPrunesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	gen := newGenerator(t, nil)

	if _, err := gen.Run(context.Background(), testDefinition("Employee", "Invoice"), generator.Config{OutputDir: dir}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	result, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(result.Pruned) != 5 {
		t.Errorf("pruned %d files, want 5: %v", len(result.Pruned), result.Pruned)
	}
	if _, err := os.Stat(filepath.Join(dir, "core/controllers/invoice.controller.core.js")); err == nil {
		t.Error("stale invoice controller still on disk")
	}
	if _, err := os.Stat(filepath.Join(dir, "core/controllers/employee.controller.core.js")); err != nil {
		t.Error("surviving employee controller was pruned")
	}
}

func TestRunNeverPrunesProtectedFiles(t *testing.T) {
	dir := t.TempDir()

	// First run with an unrestricted generator tracks the controller.
	gen := newGenerator(t, protected.NewList())
	if _, err := gen.Run(context.Background(), testDefinition("Employee", "Invoice"), generator.Config{OutputDir: dir}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Second run protects controllers; the stale invoice controller is now
	// hand-owned and must survive reconciliation.
	gen = newGenerator(t, protected.NewList("core/controllers"))
	if _, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{OutputDir: dir}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "core/controllers/invoice.controller.core.js")); err != nil {
		t.Error("protected file was pruned")
	}
}

func TestRunAbortsOnCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(manifest.PathFor(dir), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	gen := newGenerator(t, nil)
	_, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{OutputDir: dir})
	if !errors.Is(err, manifest.ErrCorrupt) {
		t.Errorf("got %v, want ErrCorrupt", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "core/controllers/employee.controller.core.js")); err == nil {
		t.Error("run generated files despite corrupt manifest")
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	gen := newGenerator(t, nil)

	result, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{OutputDir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.GeneratedFiles) == 0 {
		t.Error("dry run reported no files")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries", len(entries))
	}
}

func TestRunUnknownKindFails(t *testing.T) {
	gen := newGenerator(t, nil)
	_, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{
		OutputDir: t.TempDir(),
		Kinds:     []artifacts.Kind{"hologram"},
	})
	if !errors.Is(err, artifacts.ErrUnknownKind) {
		t.Errorf("got %v, want ErrUnknownKind", err)
	}
}

func TestRunKindSubset(t *testing.T) {
	dir := t.TempDir()
	gen := newGenerator(t, nil)

	result, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{
		OutputDir: dir,
		Kinds:     []artifacts.Kind{artifacts.KindSchema},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// One schema plus the route aggregator.
	if len(result.GeneratedFiles) != 2 {
		t.Errorf("generated %v, want schema + aggregator", result.GeneratedFiles)
	}
	if _, err := os.Stat(filepath.Join(dir, "core/controllers/employee.controller.core.js")); err == nil {
		t.Error("controller generated outside requested kinds")
	}
}

func TestRunKindSubsetDoesNotPruneOtherKinds(t *testing.T) {
	dir := t.TempDir()
	gen := newGenerator(t, nil)

	if _, err := gen.Run(context.Background(), testDefinition("Employee", "Invoice"), generator.Config{OutputDir: dir}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Schema-only run for a definition that dropped Invoice: only the stale
	// schema is in scope for pruning.
	result, err := gen.Run(context.Background(), testDefinition("Employee"), generator.Config{
		OutputDir: dir,
		Kinds:     []artifacts.Kind{artifacts.KindSchema},
	})
	if err != nil {
		t.Fatalf("subset run: %v", err)
	}

	if len(result.Pruned) != 1 || result.Pruned[0] != "core/schemas/invoice.schema.core.js" {
		t.Errorf("pruned = %v, want only the invoice schema", result.Pruned)
	}
	if _, err := os.Stat(filepath.Join(dir, "core/schemas/invoice.schema.core.js")); err == nil {
		t.Error("stale invoice schema still on disk")
	}

	for _, rel := range []string{
		"core/controllers/employee.controller.core.js",
		"core/controllers/invoice.controller.core.js",
		"core/routes/v1/invoice.routes.core.js",
		"core/queues/invoice.queue.core.js",
		"frontend/pages/invoice.page.core.tsx",
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("subset run pruned out-of-scope file %s: %v", rel, err)
		}
	}
}

func TestRunRejectsInvalidDefinition(t *testing.T) {
	gen := newGenerator(t, nil)
	def := &models.ServiceDefinition{MicroserviceName: "broken"}
	if _, err := gen.Run(context.Background(), def, generator.Config{OutputDir: t.TempDir()}); err == nil {
		t.Error("invalid definition accepted")
	}
}
