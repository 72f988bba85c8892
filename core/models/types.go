// Package models defines the service/model/field definition documents the
// generator consumes, the canonical data type vocabulary, loading from JSON
// and YAML files, and the naming transforms applied to identifiers.
package models

// DataType is the canonical field type vocabulary shared by definition files,
// templates, and the compute API.
type DataType string

const (
	TypeInt      DataType = "Int"
	TypeFloat    DataType = "Float"
	TypeDecimal  DataType = "Decimal"
	TypeString   DataType = "String"
	TypeBoolean  DataType = "Boolean"
	TypeDateTime DataType = "DateTime"
	TypeUUID     DataType = "UUID"
	TypeJSON     DataType = "Json"
	TypeBytes    DataType = "Bytes"
	TypeEnum     DataType = "Enum"
)

// Valid reports whether d is one of the canonical data types.
func (d DataType) Valid() bool {
	switch d {
	case TypeInt, TypeFloat, TypeDecimal, TypeString, TypeBoolean,
		TypeDateTime, TypeUUID, TypeJSON, TypeBytes, TypeEnum:
		return true
	}
	return false
}

// FieldDefinition describes one field of a domain model.
type FieldDefinition struct {
	ID                string   `json:"id" yaml:"id"`
	Order             int      `json:"order" yaml:"order"`
	Name              string   `json:"name" yaml:"name"`
	Label             string   `json:"label" yaml:"label"`
	Description       string   `json:"description" yaml:"description"`
	OnDelete          string   `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	DataType          DataType `json:"dataType" yaml:"dataType"`
	ShowInTable       bool     `json:"showInTable" yaml:"showInTable"`
	ShowInDetailCard  bool     `json:"showInDetailCard" yaml:"showInDetailCard"`
	IsEditable        bool     `json:"isEditable" yaml:"isEditable"`
	IsMultiline       bool     `json:"isMultiline" yaml:"isMultiline"`
	IsOptional        bool     `json:"isOptional" yaml:"isOptional"`
	IsUnique          bool     `json:"isUnique" yaml:"isUnique"`
	DefaultValue      *string  `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	IsForeignKey      bool     `json:"isForeignKey" yaml:"isForeignKey"`
	ForeignKeyModelID string   `json:"foreignKeyModelId,omitempty" yaml:"foreignKeyModelId,omitempty"`
	EnumDefnID        string   `json:"enumDefnId,omitempty" yaml:"enumDefnId,omitempty"`
	MaxLength         *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// ModelDefinition describes one domain model of a microservice.
type ModelDefinition struct {
	ID             string            `json:"id" yaml:"id"`
	Order          int               `json:"order" yaml:"order"`
	Name           string            `json:"name" yaml:"name"`
	Label          string            `json:"label" yaml:"label"`
	Description    string            `json:"description" yaml:"description"`
	MicroserviceID string            `json:"microserviceId" yaml:"microserviceId"`
	Fields         []FieldDefinition `json:"fields" yaml:"fields"`
}

// FieldCount returns the number of fields after normalization; this is the
// count recorded in generation manifests.
func (m *ModelDefinition) FieldCount() int {
	return len(m.Fields)
}

// Field returns the field with the given name.
func (m *ModelDefinition) Field(name string) (FieldDefinition, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// EnumValue is one option of an enum definition.
type EnumValue struct {
	Value string `json:"value" yaml:"value"`
}

// EnumDefinition describes an enumerated type referenced by Enum fields.
type EnumDefinition struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	MicroserviceID string      `json:"microserviceId" yaml:"microserviceId"`
	Values         []EnumValue `json:"values" yaml:"values"`
}

// ServiceDefinition is the top-level definition document: one microservice,
// its models, and the enums those models reference.
type ServiceDefinition struct {
	MicroserviceID   string            `json:"microserviceId" yaml:"microserviceId"`
	MicroserviceName string            `json:"microserviceName" yaml:"microserviceName"`
	Models           []ModelDefinition `json:"models" yaml:"models"`
	Enums            []EnumDefinition  `json:"enums,omitempty" yaml:"enums,omitempty"`
}

// Model returns the model with the given name.
func (s *ServiceDefinition) Model(name string) (*ModelDefinition, bool) {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// ModelByID returns the model with the given id.
func (s *ServiceDefinition) ModelByID(id string) (*ModelDefinition, bool) {
	for i := range s.Models {
		if s.Models[i].ID == id {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// EnumByID returns the enum definition with the given id.
func (s *ServiceDefinition) EnumByID(id string) (*EnumDefinition, bool) {
	for i := range s.Enums {
		if s.Enums[i].ID == id {
			return &s.Enums[i], true
		}
	}
	return nil, false
}
