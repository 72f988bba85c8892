package manifest

import (
	"strings"
	"testing"
	"time"

	"github.com/pullstream/constructors/core/protected"
)

func TestBuildStampsVersionAndTime(t *testing.T) {
	before := time.Now().UTC()
	m := Build("4eef25cf-c340-49bf-8ecf-eef40ff8b647", "pm-rapi", nil, nil, protected.Default())
	after := time.Now().UTC()

	if m.GeneratorVersion != GeneratorVersion {
		t.Errorf("GeneratorVersion = %q, want %q", m.GeneratorVersion, GeneratorVersion)
	}
	if m.GeneratedAt.Before(before) || m.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt %v outside [%v, %v]", m.GeneratedAt, before, after)
	}
	if m.MicroserviceID != "4eef25cf-c340-49bf-8ecf-eef40ff8b647" {
		t.Errorf("MicroserviceID = %q", m.MicroserviceID)
	}
	if m.MicroserviceName != "pm-rapi" {
		t.Errorf("MicroserviceName = %q", m.MicroserviceName)
	}
}

func TestBuildSnapshotsProtectedPaths(t *testing.T) {
	prot := protected.NewList("custom")
	m := Build("id", "svc", nil, nil, prot)

	// Later mutation of the live configuration must not alter the manifest.
	prot.Add("config")

	if len(m.ProtectedPaths) != 1 || m.ProtectedPaths[0] != "custom" {
		t.Errorf("ProtectedPaths = %v, want [custom]", m.ProtectedPaths)
	}

	m.ProtectedPaths[0] = "tampered"
	if prot.Covers("tampered/x") {
		t.Error("mutating manifest ProtectedPaths leaked into the live list")
	}
}

func TestBuildExcludesProtectedFiles(t *testing.T) {
	prot := protected.NewList("custom")
	files := []string{
		"core/controllers/employee.controller.core.js",
		"custom/controllers/employee.controller.js",
		"core/schemas/employee.schema.core.js",
	}

	m := Build("id", "svc", nil, files, prot)

	if len(m.GeneratedFiles) != 2 {
		t.Fatalf("GeneratedFiles = %v, want 2 entries", m.GeneratedFiles)
	}
	for _, f := range m.GeneratedFiles {
		if strings.HasPrefix(f, "custom/") {
			t.Errorf("protected path %q leaked into GeneratedFiles", f)
		}
	}
}

func TestBuildCopiesModels(t *testing.T) {
	models := []ModelEntry{
		{Name: "Employee", ID: "a2b9e7de-8d21-4f8e-9f6e-2f1a9c1d0001", FieldCount: 12},
		{Name: "Opportunity", ID: "a2b9e7de-8d21-4f8e-9f6e-2f1a9c1d0002", FieldCount: 7},
	}

	m := Build("id", "svc", models, nil, protected.Default())

	models[0].Name = "Tampered"
	if m.Models[0].Name != "Employee" {
		t.Errorf("mutating the input slice altered the manifest: %q", m.Models[0].Name)
	}
	if m.Models[1].FieldCount != 7 {
		t.Errorf("FieldCount = %d, want 7", m.Models[1].FieldCount)
	}
}

func TestBuildNilProtectedList(t *testing.T) {
	m := Build("id", "svc", nil, []string{"core/schemas/a.schema.core.js"}, nil)

	if len(m.ProtectedPaths) != 0 {
		t.Errorf("ProtectedPaths = %v, want empty", m.ProtectedPaths)
	}
	if len(m.GeneratedFiles) != 1 {
		t.Errorf("GeneratedFiles = %v, want 1 entry", m.GeneratedFiles)
	}
}
