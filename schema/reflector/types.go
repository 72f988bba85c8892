package reflector

// Table is one base table discovered in the reflected schema.
type Table struct {
	Name    string
	Comment string
}

// Column is one column's metadata as reported by information_schema.
type Column struct {
	Name         string
	DBType       string // e.g. "uuid", "character varying(255)"
	UDTName      string // underlying type name; names the pg enum type for USER-DEFINED columns
	IsNullable   bool
	HasDefault   bool
	DefaultValue string
	MaxLength    int
	Comment      string
}

// ForeignKey is one outbound reference from a table.
type ForeignKey struct {
	ColumnName string
	RefTable   string
	RefColumn  string
	OnDelete   string // CASCADE, SET NULL, RESTRICT, NO ACTION
}

// EnumType is a PostgreSQL enum type and its labels in sort order.
type EnumType struct {
	Name   string
	Values []string
}

// Store is the database access layer the reflector queries. Implementations
// exist per database engine; the reflector itself never touches SQL.
type Store interface {
	Tables(schemaName string) ([]Table, error)
	Columns(schemaName, tableName string) ([]Column, error)
	PrimaryKey(schemaName, tableName string) (string, error)
	ForeignKeys(schemaName, tableName string) ([]ForeignKey, error)
	UniqueColumns(schemaName, tableName string) ([]string, error)
	EnumTypes(schemaName string) (map[string]EnumType, error)
	DatabaseName() string
}

// Config holds the reflection run parameters.
type Config struct {
	SchemaName  string // schema to reflect, default "public"
	ServiceName string // microserviceName stamped into the definition
	OutputDir   string // where the definition file is written
}
