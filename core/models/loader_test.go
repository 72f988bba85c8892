package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const jsonDefinition = `{
  "microserviceId": "4eef25cf-c340-49bf-8ecf-eef40ff8b647",
  "microserviceName": "pm-rapi",
  "models": [
    {
      "name": "Employee",
      "fields": [
        {"name": "first_name", "dataType": "CharField"},
        {"name": "id", "dataType": "AutoField"},
        {"name": "created_at", "dataType": "DateTimeField"},
        {"name": "salary", "dataType": "Decimal"}
      ]
    },
    {
      "name": "LogEntry",
      "fields": [{"name": "message", "dataType": "String"}]
    }
  ]
}`

const yamlDefinition = `microserviceId: 4eef25cf-c340-49bf-8ecf-eef40ff8b647
microserviceName: pm-rapi
models:
  - name: Employee
    fields:
      - name: first_name
        dataType: String
      - name: manager
        dataType: UUID
`

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing definition fixture: %v", err)
	}
	return path
}

func TestLoadServiceDefinitionJSON(t *testing.T) {
	def, err := LoadServiceDefinition(writeDefinition(t, "service.json", jsonDefinition))
	if err != nil {
		t.Fatalf("LoadServiceDefinition: %v", err)
	}

	if def.MicroserviceName != "pm-rapi" {
		t.Errorf("MicroserviceName = %q", def.MicroserviceName)
	}
	if len(def.Models) != 1 {
		t.Fatalf("expected ignored model dropped, got %d models", len(def.Models))
	}

	employee := def.Models[0]
	if employee.Name != "Employee" {
		t.Errorf("model name = %q", employee.Name)
	}
	if employee.FieldCount() != 2 {
		t.Fatalf("expected ignored fields dropped, got %d fields", employee.FieldCount())
	}
	if _, err := uuid.Parse(employee.ID); err != nil {
		t.Errorf("expected minted model id, got %q", employee.ID)
	}
	if employee.Label != "Employee" {
		t.Errorf("label = %q, want Employee", employee.Label)
	}

	first := employee.Fields[0]
	if first.Name != "firstName" {
		t.Errorf("field name = %q, want firstName", first.Name)
	}
	if first.DataType != TypeString {
		t.Errorf("CharField mapped to %s, want String", first.DataType)
	}
	if first.Label != "First Name" {
		t.Errorf("field label = %q, want First Name", first.Label)
	}
	if first.Order != 1 || employee.Fields[1].Order != 2 {
		t.Errorf("field order not resequenced: %d, %d", first.Order, employee.Fields[1].Order)
	}
}

func TestLoadServiceDefinitionYAML(t *testing.T) {
	def, err := LoadServiceDefinition(writeDefinition(t, "service.yaml", yamlDefinition))
	if err != nil {
		t.Fatalf("LoadServiceDefinition: %v", err)
	}

	if len(def.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(def.Models))
	}
	fields := def.Models[0].Fields
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Name != "firstName" || fields[0].DataType != TypeString {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	if fields[1].DataType != TypeUUID {
		t.Errorf("manager dataType = %s, want UUID", fields[1].DataType)
	}
}

func TestNormalizePreservesCamelCaseFieldNames(t *testing.T) {
	// Definitions written by earlier runs already carry camelCase names;
	// normalizing again must not change them.
	def := &ServiceDefinition{
		MicroserviceID:   "4eef25cf-c340-49bf-8ecf-eef40ff8b647",
		MicroserviceName: "pm-rapi",
		Models: []ModelDefinition{{
			Name: "TaskStatus",
			Fields: []FieldDefinition{
				{Name: "firstName", DataType: TypeString},
				{Name: "dueDate", DataType: TypeDateTime},
			},
		}},
	}

	Normalize(def)

	if got := def.Models[0].Name; got != "TaskStatus" {
		t.Errorf("model name = %q, want TaskStatus", got)
	}
	if got := def.Models[0].Fields[0].Name; got != "firstName" {
		t.Errorf("field name = %q, want firstName", got)
	}
	if got := def.Models[0].Fields[1].Name; got != "dueDate" {
		t.Errorf("field name = %q, want dueDate", got)
	}
}

func TestLoadServiceDefinitionUnsupportedFormat(t *testing.T) {
	_, err := LoadServiceDefinition(writeDefinition(t, "service.toml", "x = 1"))
	if err == nil || !strings.Contains(err.Error(), "unsupported definition format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestListDefinitions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", ".hidden.json", "notes.txt", "c.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("seeding %s: %v", name, err)
		}
	}

	paths, err := ListDefinitions(dir)
	if err != nil {
		t.Fatalf("ListDefinitions: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("expected 3 definition files, got %v", paths)
	}
	for _, p := range paths {
		base := filepath.Base(p)
		if base == ".hidden.json" || base == "notes.txt" {
			t.Errorf("unexpected file listed: %s", base)
		}
	}
}

func TestValidate(t *testing.T) {
	def := &ServiceDefinition{
		MicroserviceID:   "4eef25cf-c340-49bf-8ecf-eef40ff8b647",
		MicroserviceName: "pm-rapi",
		Models: []ModelDefinition{
			{
				ID:   "a2b9e7de-8d21-4f8e-9f6e-2f1a9c1d0001",
				Name: "Employee",
				Fields: []FieldDefinition{
					{ID: "f1", Name: "firstName", DataType: TypeString},
				},
			},
		},
	}

	if errs := Validate(def); len(errs) != 0 {
		t.Errorf("expected valid definition, got %v", errs)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	def := &ServiceDefinition{
		MicroserviceID: "not-a-uuid",
		Models: []ModelDefinition{
			{
				ID:   "also-not-a-uuid",
				Name: "Bug",
				Fields: []FieldDefinition{
					{Name: "status", DataType: TypeEnum},
					{Name: "assignee", DataType: TypeUUID, IsForeignKey: true, ForeignKeyModelID: "missing"},
					{Name: "weird", DataType: DataType("Whatever")},
				},
			},
			{ID: "x", Name: "Bug", Fields: []FieldDefinition{{Name: "a", DataType: TypeString}}},
		},
	}

	errs := Validate(def)
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}

	wantFragments := []string{
		"not a valid UUID",
		"microserviceName is required",
		"duplicate model name",
		"no enumDefnId",
		"references unknown model",
		"unknown data type",
	}
	joined := make([]string, len(errs))
	for i, e := range errs {
		joined[i] = e.Error()
	}
	all := strings.Join(joined, "\n")
	for _, frag := range wantFragments {
		if !strings.Contains(all, frag) {
			t.Errorf("expected an error containing %q in:\n%s", frag, all)
		}
	}
}
