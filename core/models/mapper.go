package models

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// sourceTypeMap maps upstream exporter field types to canonical data types.
// Unknown source types fall back to String.
var sourceTypeMap = map[string]DataType{
	// Numerics
	"AutoField":                 TypeInt,
	"BigAutoField":              TypeInt,
	"BigIntegerField":           TypeInt,
	"IntegerField":              TypeInt,
	"PositiveBigIntegerField":   TypeInt,
	"PositiveIntegerField":      TypeInt,
	"PositiveSmallIntegerField": TypeInt,
	"SmallAutoField":            TypeInt,
	"SmallIntegerField":         TypeInt,
	"FloatField":                TypeFloat,
	"DecimalField":              TypeDecimal,

	// Strings
	"CharField":             TypeString,
	"TextField":             TypeString,
	"EmailField":            TypeString,
	"SlugField":             TypeString,
	"URLField":              TypeString,
	"FileField":             TypeString,
	"FilePathField":         TypeString,
	"ImageField":            TypeString,
	"DurationField":         TypeString,
	"TimeField":             TypeString,
	"IPAddressField":        TypeString,
	"GenericIPAddressField": TypeString,

	// Dates
	"DateField":     TypeDateTime,
	"DateTimeField": TypeDateTime,

	// Other scalars
	"BooleanField": TypeBoolean,
	"BinaryField":  TypeBytes,
	"JSONField":    TypeJSON,

	// References
	"ForeignKey": TypeUUID,
	"UUIDField":  TypeUUID,
}

// ignoredFields are bookkeeping and access-control columns stripped from
// every model during normalization; the runtime owns them, not the generated
// CRUD surface.
var ignoredFields = []string{
	"id", "tags", "_template", "everyone_can_see_it", "anonymous_can_see_it",
	"everyone_in_object_company_can_see_it", "only_these_roles_can_see_it",
	"only_these_users_can_see_it", "updated_by", "created_by", "client",
	"created_at", "updated_at", "_tags", "is_deleted", "deleted_at",
}

// ignoredModels are framework bookkeeping models never exported or generated.
var ignoredModels = []string{
	"LogEntry", "Permission", "Group_permissions", "Group",
	"ContentType", "Session", "CUser_groups", "CUser_user_permissions", "CUser",
}

// MapSourceType converts an upstream field type to its canonical data type.
// The second return reports whether the source type was recognized; callers
// get String either way, matching the exporter's fallback.
func MapSourceType(sourceType string) (DataType, bool) {
	if dt, ok := sourceTypeMap[sourceType]; ok {
		return dt, true
	}
	return TypeString, false
}

// IsIgnoredField reports whether a source field name is excluded from
// generation.
func IsIgnoredField(name string) bool {
	return slices.Contains(ignoredFields, name)
}

// IsIgnoredModel reports whether a source model is excluded from generation.
func IsIgnoredModel(name string) bool {
	return slices.Contains(ignoredModels, name)
}

// postgresTypeMap maps PostgreSQL column types to canonical data types.
var postgresTypeMap = map[string]DataType{
	// Identifiers
	"uuid": TypeUUID,

	// Strings
	"text":              TypeString,
	"varchar":           TypeString,
	"character varying": TypeString,
	"char":              TypeString,
	"character":         TypeString,
	"time":              TypeString,

	// Integers
	"integer":  TypeInt,
	"int":      TypeInt,
	"int2":     TypeInt,
	"int4":     TypeInt,
	"int8":     TypeInt,
	"smallint": TypeInt,
	"bigint":   TypeInt,

	// Floating point
	"real":             TypeFloat,
	"float4":           TypeFloat,
	"float8":           TypeFloat,
	"double precision": TypeFloat,
	"numeric":          TypeDecimal,
	"decimal":          TypeDecimal,

	// Booleans
	"boolean": TypeBoolean,
	"bool":    TypeBoolean,

	// Dates
	"timestamp":                   TypeDateTime,
	"timestamp without time zone": TypeDateTime,
	"timestamp with time zone":    TypeDateTime,
	"timestamptz":                 TypeDateTime,
	"date":                        TypeDateTime,

	// JSON and binary
	"json":  TypeJSON,
	"jsonb": TypeJSON,
	"bytea": TypeBytes,

	// Enum columns surface as user-defined types
	"user-defined": TypeEnum,
}

var maxLengthPattern = regexp.MustCompile(`\((\d+)\)`)

// MapPostgresType converts a PostgreSQL column type to its canonical data
// type plus any max length carried in the type parameters, e.g.
// "varchar(100)" -> (String, 100). Unknown types fall back to String with
// ok=false.
func MapPostgresType(dbType string) (dt DataType, maxLength int, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(dbType))

	base := normalized
	if idx := strings.Index(normalized, "("); idx != -1 {
		base = strings.TrimSpace(normalized[:idx])
		if m := maxLengthPattern.FindStringSubmatch(normalized); len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				maxLength = n
			}
		}
	}

	if mapped, found := postgresTypeMap[base]; found {
		return mapped, maxLength, true
	}
	return TypeString, maxLength, false
}
