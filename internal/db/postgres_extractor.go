package db

import (
	"context"
	"fmt"

	"github.com/tordrt/pgtots/internal/schema"
)

// Extractor handles schema extraction from PostgreSQL
type Extractor struct {
	client *PostgresClient
	schema string
	types  TypeOptions
}

// NewExtractor creates a new schema extractor
func NewExtractor(client *PostgresClient, schemaName string, types TypeOptions) *Extractor {
	return &Extractor{
		client: client,
		schema: schemaName,
		types:  types,
	}
}

// ExtractSchema extracts the enums and the specified tables of the schema.
// If tables is empty, extracts all tables and views in the schema.
func (e *Extractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	enums, err := e.extractEnums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract enums: %w", err)
	}
	enumNames := make(map[string]bool, len(enums))
	for _, en := range enums {
		enumNames[en.Name] = true
	}

	infos, err := e.getTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	infos, err = selectTables(infos, tables, e.schema)
	if err != nil {
		return nil, err
	}

	extractedTables := make([]schema.Table, 0, len(infos))
	for _, info := range infos {
		table, err := e.extractTable(ctx, info, enumNames)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", info.name, err)
		}
		e.types.logger().Debug("extracted table", "schema", e.schema, "table", info.name, "columns", len(table.Columns))
		extractedTables = append(extractedTables, *table)
	}

	return &schema.Schema{Name: e.schema, Tables: extractedTables, Enums: enums}, nil
}

// getTables lists the tables and views of the schema
func (e *Extractor) getTables(ctx context.Context) ([]tableInfo, error) {
	query := `
		SELECT
			t.table_name,
			t.table_type = 'VIEW' AS is_view,
			t.is_insertable_into = 'YES' AS is_updatable,
			obj_description(format('%I.%I', t.table_schema, t.table_name)::regclass, 'pg_class') AS comment
		FROM information_schema.tables t
		WHERE t.table_schema = $1 AND t.table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY t.table_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []tableInfo
	for rows.Next() {
		var info tableInfo
		if err := rows.Scan(&info.name, &info.isView, &info.isUpdatable, &info.comment); err != nil {
			return nil, err
		}
		tables = append(tables, info)
	}

	return tables, rows.Err()
}

// extractEnums extracts the enum types of the schema, values in sort order
func (e *Extractor) extractEnums(ctx context.Context) ([]schema.Enum, error) {
	query := `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enums []schema.Enum
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		if n := len(enums); n > 0 && enums[n-1].Name == name {
			enums[n-1].Values = append(enums[n-1].Values, value)
			continue
		}
		enums = append(enums, schema.Enum{Name: name, Values: []string{value}})
	}

	return enums, rows.Err()
}

// extractTable extracts all information for a single table
func (e *Extractor) extractTable(ctx context.Context, info tableInfo, enums map[string]bool) (*schema.Table, error) {
	table := &schema.Table{
		Name:        info.name,
		IsView:      info.isView,
		IsUpdatable: info.isUpdatable,
		Comment:     info.comment,
	}

	// Extract columns
	columns, err := e.extractColumns(ctx, info.name, enums)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	// Extract primary key
	pk, err := e.extractPrimaryKey(ctx, info.name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = singleColumn(pk)

	// Extract foreign keys
	fks, err := e.extractForeignKeys(ctx, info.name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	attachForeignKeys(table.Columns, fks)

	return table, nil
}

// extractColumns extracts column information for a table
func (e *Extractor) extractColumns(ctx context.Context, tableName string, enums map[string]bool) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.udt_name,
			c.is_nullable = 'YES' AS nullable,
			(c.column_default IS NOT NULL OR c.is_identity = 'YES' OR c.is_generated = 'ALWAYS') AS has_default,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int) AS comment
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		if err := rows.Scan(&col.Name, &col.UDTName, &col.Nullable, &col.HasDefault, &col.Comment); err != nil {
			return nil, err
		}
		col.TSType = e.types.postgresType(tableName, col.Name, col.UDTName, enums)
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractPrimaryKey extracts primary key columns
func (e *Extractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = $1
			AND table_name = $2
			AND constraint_name IN (
				SELECT constraint_name
				FROM information_schema.table_constraints
				WHERE table_schema = $1
					AND table_name = $2
					AND constraint_type = 'PRIMARY KEY'
			)
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		pk = append(pk, colName)
	}

	return pk, rows.Err()
}

// extractForeignKeys extracts single-column foreign keys
func (e *Extractor) extractForeignKeys(ctx context.Context, tableName string) ([]columnForeignKey, error) {
	query := `
		SELECT
			a.attname AS column_name,
			rt.relname AS foreign_table_name,
			ra.attname AS foreign_column_name
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_class rt ON rt.oid = con.confrelid
		JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = con.conkey[1]
		JOIN pg_attribute ra ON ra.attrelid = con.confrelid AND ra.attnum = con.confkey[1]
		WHERE con.contype = 'f'
			AND n.nspname = $1
			AND t.relname = $2
			AND array_length(con.conkey, 1) = 1
		ORDER BY con.conname
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []columnForeignKey
	for rows.Next() {
		var fk columnForeignKey
		if err := rows.Scan(&fk.column, &fk.ref.Table, &fk.ref.Column); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}
