package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// LoadServiceDefinition reads one service definition file, JSON or YAML by
// extension, and normalizes it for generation.
func LoadServiceDefinition(path string) (*ServiceDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}

	var def ServiceDefinition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parse JSON definition %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parse YAML definition %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q (want .json, .yaml, or .yml)", ext)
	}

	Normalize(&def)
	return &def, nil
}

// ListDefinitions returns the definition file paths in a directory, sorted by
// name. Dotfiles and unrelated extensions are skipped.
func ListDefinitions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read definitions dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// Normalize applies the ignore lists and naming conventions in place: ignored
// models and fields are dropped, field names become camelCase, missing labels
// derive from names, missing ids are minted, raw source types map to
// canonical data types, and field order is resequenced.
func Normalize(def *ServiceDefinition) {
	if def.MicroserviceID == "" {
		def.MicroserviceID = uuid.NewString()
	}

	kept := def.Models[:0]
	for _, model := range def.Models {
		if IsIgnoredModel(model.Name) {
			continue
		}
		normalizeModel(&model, def.MicroserviceID)
		kept = append(kept, model)
	}
	def.Models = kept
	for i := range def.Models {
		def.Models[i].Order = i + 1
	}

	for i := range def.Enums {
		enum := &def.Enums[i]
		if enum.ID == "" {
			enum.ID = uuid.NewString()
		}
		if enum.MicroserviceID == "" {
			enum.MicroserviceID = def.MicroserviceID
		}
	}
}

func normalizeModel(model *ModelDefinition, microserviceID string) {
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if model.MicroserviceID == "" {
		model.MicroserviceID = microserviceID
	}
	if model.Label == "" {
		model.Label = TitleCase(model.Name)
	}

	kept := model.Fields[:0]
	for _, field := range model.Fields {
		if IsIgnoredField(field.Name) {
			continue
		}
		normalizeField(&field)
		kept = append(kept, field)
	}
	model.Fields = kept
	for i := range model.Fields {
		model.Fields[i].Order = i + 1
	}
}

func normalizeField(field *FieldDefinition) {
	if field.ID == "" {
		field.ID = uuid.NewString()
	}
	field.Name = ToCamelCase(field.Name)
	if field.Label == "" {
		field.Label = TitleCase(field.Name)
	}
	if field.OnDelete == "" && field.IsForeignKey {
		field.OnDelete = "Cascade"
	}

	// Definitions exported straight from an upstream framework carry raw
	// source types; map them onto the canonical vocabulary.
	if !field.DataType.Valid() {
		mapped, _ := MapSourceType(string(field.DataType))
		field.DataType = mapped
	}
}

// Validate checks a normalized definition and returns every problem found.
func Validate(def *ServiceDefinition) []error {
	var errs []error

	if def.MicroserviceID == "" {
		errs = append(errs, fmt.Errorf("microserviceId is required"))
	} else if _, err := uuid.Parse(def.MicroserviceID); err != nil {
		errs = append(errs, fmt.Errorf("microserviceId %q is not a valid UUID", def.MicroserviceID))
	}
	if def.MicroserviceName == "" {
		errs = append(errs, fmt.Errorf("microserviceName is required"))
	}
	if len(def.Models) == 0 {
		errs = append(errs, fmt.Errorf("definition has no models"))
	}

	seen := make(map[string]struct{}, len(def.Models))
	for i := range def.Models {
		model := &def.Models[i]
		if model.Name == "" {
			errs = append(errs, fmt.Errorf("model %d has no name", i))
			continue
		}
		if _, dup := seen[model.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate model name %q", model.Name))
		}
		seen[model.Name] = struct{}{}

		errs = append(errs, validateModel(def, model)...)
	}

	return errs
}

func validateModel(def *ServiceDefinition, model *ModelDefinition) []error {
	var errs []error

	if _, err := uuid.Parse(model.ID); err != nil {
		errs = append(errs, fmt.Errorf("model %s: id %q is not a valid UUID", model.Name, model.ID))
	}
	if len(model.Fields) == 0 {
		errs = append(errs, fmt.Errorf("model %s has no fields", model.Name))
	}

	for _, field := range model.Fields {
		if field.Name == "" {
			errs = append(errs, fmt.Errorf("model %s: field with empty name", model.Name))
			continue
		}
		if !field.DataType.Valid() {
			errs = append(errs, fmt.Errorf("model %s: field %s has unknown data type %q", model.Name, field.Name, field.DataType))
		}
		if field.IsForeignKey {
			if field.ForeignKeyModelID == "" {
				errs = append(errs, fmt.Errorf("model %s: foreign key field %s has no foreignKeyModelId", model.Name, field.Name))
			} else if _, ok := def.ModelByID(field.ForeignKeyModelID); !ok {
				errs = append(errs, fmt.Errorf("model %s: field %s references unknown model %s", model.Name, field.Name, field.ForeignKeyModelID))
			}
		}
		if field.DataType == TypeEnum {
			if field.EnumDefnID == "" {
				errs = append(errs, fmt.Errorf("model %s: enum field %s has no enumDefnId", model.Name, field.Name))
			} else if _, ok := def.EnumByID(field.EnumDefnID); !ok {
				errs = append(errs, fmt.Errorf("model %s: field %s references unknown enum %s", model.Name, field.Name, field.EnumDefnID))
			}
		}
	}

	return errs
}
