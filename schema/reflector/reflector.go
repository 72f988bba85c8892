// Package reflector turns a live PostgreSQL schema into a service definition
// file the generator can consume: tables become models, columns become
// fields, enum types become enum definitions, and foreign keys become model
// references.
package reflector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/sdk/validation"
)

// Reflector orchestrates schema reflection through an injected Store.
type Reflector struct {
	store Store
	log   *slog.Logger
}

func NewReflector(store Store, log *slog.Logger) *Reflector {
	return &Reflector{store: store, log: log}
}

// Reflect queries the store and assembles a normalized service definition.
// Tables on the generator's ignore list are skipped, as are bookkeeping
// columns; the primary key column is implicit in generated output and never
// becomes a field.
func (r *Reflector) Reflect(cfg Config) (*models.ServiceDefinition, error) {
	schemaName := cfg.SchemaName
	if schemaName == "" {
		schemaName = "public"
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = r.store.DatabaseName()
	}

	def := &models.ServiceDefinition{
		MicroserviceID:   uuid.NewString(),
		MicroserviceName: serviceName,
	}

	enumTypes, err := r.store.EnumTypes(schemaName)
	if err != nil {
		return nil, fmt.Errorf("get enum types: %w", err)
	}

	tables, err := r.store.Tables(schemaName)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}

	// Table name to minted model id, for resolving foreign keys after every
	// model exists.
	modelIDs := make(map[string]string, len(tables))
	// pg enum type name to enum definition id, deduplicated across tables.
	enumIDs := make(map[string]string)

	for _, table := range tables {
		modelName := models.ToPascalCase(models.Singularize(table.Name))
		if models.IsIgnoredModel(modelName) {
			r.log.Debug("skipping ignored table", "table", table.Name)
			continue
		}
		modelIDs[table.Name] = uuid.NewString()
	}

	for _, table := range tables {
		modelID, ok := modelIDs[table.Name]
		if !ok {
			continue
		}

		model, err := r.reflectTable(schemaName, table, modelID, def, enumTypes, enumIDs)
		if err != nil {
			return nil, fmt.Errorf("reflect table %s: %w", table.Name, err)
		}
		model.Order = len(def.Models) + 1
		def.Models = append(def.Models, *model)

		r.log.Info("reflected table",
			"table", table.Name,
			"model", model.Name,
			"fields", len(model.Fields),
		)
	}

	// Resolve foreign key references now that every model has an id.
	for i := range def.Models {
		for j := range def.Models[i].Fields {
			field := &def.Models[i].Fields[j]
			if field.IsForeignKey && field.ForeignKeyModelID != "" {
				if id, ok := modelIDs[field.ForeignKeyModelID]; ok {
					field.ForeignKeyModelID = id
				} else {
					r.log.Warn("foreign key references unreflected table",
						"model", def.Models[i].Name,
						"field", field.Name,
						"table", field.ForeignKeyModelID,
					)
					field.IsForeignKey = false
					field.ForeignKeyModelID = ""
					field.OnDelete = ""
				}
			}
		}
	}

	return def, nil
}

func (r *Reflector) reflectTable(schemaName string, table Table, modelID string, def *models.ServiceDefinition, enumTypes map[string]EnumType, enumIDs map[string]string) (*models.ModelDefinition, error) {
	modelName := models.ToPascalCase(models.Singularize(table.Name))

	model := &models.ModelDefinition{
		ID:             modelID,
		Name:           modelName,
		Label:          models.TitleCase(modelName),
		Description:    table.Comment,
		MicroserviceID: def.MicroserviceID,
	}

	columns, err := r.store.Columns(schemaName, table.Name)
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	pkColumn, err := r.store.PrimaryKey(schemaName, table.Name)
	if err != nil {
		r.log.Warn("no primary key", "table", table.Name, "error", err)
	}

	fks, err := r.store.ForeignKeys(schemaName, table.Name)
	if err != nil {
		return nil, fmt.Errorf("get foreign keys: %w", err)
	}
	fkByColumn := make(map[string]ForeignKey, len(fks))
	for _, fk := range fks {
		fkByColumn[fk.ColumnName] = fk
	}

	uniques, err := r.store.UniqueColumns(schemaName, table.Name)
	if err != nil {
		return nil, fmt.Errorf("get unique columns: %w", err)
	}
	uniqueSet := make(map[string]struct{}, len(uniques))
	for _, name := range uniques {
		uniqueSet[name] = struct{}{}
	}

	for _, col := range columns {
		if col.Name == pkColumn || models.IsIgnoredField(col.Name) {
			continue
		}

		field := models.FieldDefinition{
			ID:          uuid.NewString(),
			Order:       len(model.Fields) + 1,
			Name:        models.ToCamelCase(col.Name),
			Label:       models.TitleCase(col.Name),
			Description: col.Comment,
			ShowInTable: true,
			IsEditable:  true,
			IsOptional:  col.IsNullable,
		}
		if _, ok := uniqueSet[col.Name]; ok {
			field.IsUnique = true
		}
		if col.HasDefault && col.DefaultValue != "" {
			field.DefaultValue = validation.StringPtrIfNotEmpty(col.DefaultValue)
		}

		dataType, maxLength, known := models.MapPostgresType(col.DBType)
		if !known {
			r.log.Warn("unknown column type, defaulting to String",
				"table", table.Name, "column", col.Name, "db_type", col.DBType)
		}
		field.DataType = dataType
		if maxLength == 0 {
			maxLength = col.MaxLength
		}
		if maxLength > 0 {
			field.MaxLength = validation.IntPtr(maxLength)
		}

		if dataType == models.TypeEnum {
			enumID, err := r.resolveEnum(def, enumTypes, enumIDs, model.Name, col)
			if err != nil {
				return nil, err
			}
			field.EnumDefnID = enumID
		}

		if fk, ok := fkByColumn[col.Name]; ok {
			field.DataType = models.TypeUUID
			field.IsForeignKey = true
			// Carries the referenced table name until all model ids exist.
			field.ForeignKeyModelID = fk.RefTable
			field.OnDelete = onDeleteAction(fk.OnDelete)
		}

		model.Fields = append(model.Fields, field)
	}

	return model, nil
}

// resolveEnum returns the definition id for a column's enum type, creating
// the EnumDefinition on first sight. The definition name derives from the
// model and field, matching the naming the templates emit.
func (r *Reflector) resolveEnum(def *models.ServiceDefinition, enumTypes map[string]EnumType, enumIDs map[string]string, modelName string, col Column) (string, error) {
	et, ok := enumTypes[col.UDTName]
	if !ok {
		return "", fmt.Errorf("column %s has user-defined type %q with no enum labels", col.Name, col.UDTName)
	}

	if id, seen := enumIDs[col.UDTName]; seen {
		return id, nil
	}

	enum := models.EnumDefinition{
		ID:             uuid.NewString(),
		Name:           models.EnumName(modelName, col.Name),
		MicroserviceID: def.MicroserviceID,
	}
	for _, v := range et.Values {
		enum.Values = append(enum.Values, models.EnumValue{Value: v})
	}
	def.Enums = append(def.Enums, enum)
	enumIDs[col.UDTName] = enum.ID
	return enum.ID, nil
}

// onDeleteAction maps referential actions onto the definition vocabulary.
func onDeleteAction(action string) string {
	switch strings.ToUpper(strings.ReplaceAll(action, "_", " ")) {
	case "SET NULL":
		return "SetNull"
	case "SET DEFAULT":
		return "SetDefault"
	case "RESTRICT":
		return "Restrict"
	case "NO ACTION":
		return "NoAction"
	default:
		return "Cascade"
	}
}

// WriteDefinition writes the definition as a pretty JSON file named after the
// service, and returns the path written.
func WriteDefinition(def *models.ServiceDefinition, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outputDir, validation.Slugify(def.MicroserviceName)+".definition.json")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create definition file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(def); err != nil {
		return "", fmt.Errorf("encode definition %s: %w", path, err)
	}
	return path, nil
}
