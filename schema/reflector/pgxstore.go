package reflector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore implements Store for PostgreSQL using a pgx connection pool.
type PgxStore struct {
	pool   *pgxpool.Pool
	dbName string
	ctx    context.Context
}

func NewPgxStore(ctx context.Context, pool *pgxpool.Pool, dbName string) *PgxStore {
	return &PgxStore{
		pool:   pool,
		dbName: dbName,
		ctx:    ctx,
	}
}

func (s *PgxStore) DatabaseName() string {
	return s.dbName
}

// Tables returns the base tables of the schema with their comments.
func (s *PgxStore) Tables(schemaName string) ([]Table, error) {
	query := `
		SELECT
			t.table_name,
			COALESCE(obj_description(pc.oid), '')
		FROM information_schema.tables t
		LEFT JOIN pg_catalog.pg_class pc
			ON pc.relname = t.table_name
			AND pc.relnamespace = (SELECT oid FROM pg_catalog.pg_namespace WHERE nspname = t.table_schema)
		WHERE t.table_schema = $1
		  AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name
	`

	rows, err := s.pool.Query(s.ctx, query, schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Name, &t.Comment); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// Columns returns column metadata in ordinal order.
func (s *PgxStore) Columns(schemaName, tableName string) ([]Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			pgd.description
		FROM information_schema.columns c
		LEFT JOIN pg_catalog.pg_statio_all_tables pst
			ON c.table_schema = pst.schemaname
			AND c.table_name = pst.relname
		LEFT JOIN pg_catalog.pg_description pgd
			ON pgd.objoid = pst.relid
			AND pgd.objsubid = c.ordinal_position
		WHERE c.table_schema = $1
		  AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := s.pool.Query(s.ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var isNullable string
		var defaultValue *string
		var maxLength *int64
		var comment *string

		err := rows.Scan(
			&col.Name,
			&col.DBType,
			&col.UDTName,
			&isNullable,
			&defaultValue,
			&maxLength,
			&comment,
		)
		if err != nil {
			return nil, err
		}

		col.IsNullable = isNullable == "YES"
		if defaultValue != nil {
			col.HasDefault = true
			col.DefaultValue = cleanDefaultValue(*defaultValue)
		}
		if maxLength != nil {
			col.MaxLength = int(*maxLength)
		}
		if comment != nil {
			col.Comment = *comment
		}

		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// PrimaryKey returns the primary key column name, or an error when the table
// has none.
func (s *PgxStore) PrimaryKey(schemaName, tableName string) (string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
		LIMIT 1
	`

	var columnName string
	err := s.pool.QueryRow(s.ctx, query, schemaName, tableName).Scan(&columnName)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("table %s has no primary key", tableName)
	}
	if err != nil {
		return "", err
	}
	return columnName, nil
}

// ForeignKeys returns the table's outbound references.
func (s *PgxStore) ForeignKeys(schemaName, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			ccu.table_name,
			ccu.column_name,
			rc.delete_rule
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
			AND tc.table_schema = ccu.table_schema
		JOIN information_schema.referential_constraints rc
			ON tc.constraint_name = rc.constraint_name
			AND tc.table_schema = rc.constraint_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := s.pool.Query(s.ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.ColumnName, &fk.RefTable, &fk.RefColumn, &fk.OnDelete); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// UniqueColumns returns the names of columns covered by a single-column
// unique constraint.
func (s *PgxStore) UniqueColumns(schemaName, tableName string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'UNIQUE'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		  AND (
			SELECT COUNT(*)
			FROM information_schema.key_column_usage k2
			WHERE k2.constraint_name = tc.constraint_name
			  AND k2.table_schema = tc.table_schema
		  ) = 1
	`

	rows, err := s.pool.Query(s.ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// EnumTypes returns every enum type in the schema keyed by its udt name,
// labels in sort order.
func (s *PgxStore) EnumTypes(schemaName string) (map[string]EnumType, error) {
	query := `
		SELECT t.typname, e.enumlabel
		FROM pg_catalog.pg_type t
		JOIN pg_catalog.pg_enum e ON e.enumtypid = t.oid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`

	rows, err := s.pool.Query(s.ctx, query, schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enums := make(map[string]EnumType)
	for rows.Next() {
		var typeName, label string
		if err := rows.Scan(&typeName, &label); err != nil {
			return nil, err
		}
		et := enums[typeName]
		et.Name = typeName
		et.Values = append(et.Values, label)
		enums[typeName] = et
	}
	return enums, rows.Err()
}

// cleanDefaultValue strips the cast suffix and quoting PostgreSQL attaches
// to column defaults: "'active'::status_type" -> "active".
func cleanDefaultValue(def string) string {
	if idx := strings.Index(def, "::"); idx != -1 {
		def = def[:idx]
	}
	def = strings.TrimSpace(def)

	// Function defaults like gen_random_uuid() or now() are not literal
	// values the definition can carry.
	if strings.HasSuffix(def, ")") {
		return ""
	}
	return strings.Trim(def, "'")
}
