package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/pgtots/internal/schema"
)

// MySQLExtractor handles schema extraction from MySQL
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
	types      TypeOptions
}

// NewMySQLExtractor creates a new MySQL schema extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string, types TypeOptions) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
		types:      types,
	}
}

// ExtractSchema extracts the complete schema for specified tables.
// If tables is empty, extracts all tables and views in the schema.
// Enum columns produce one enum per column, named <table>_<column>.
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	infos, err := e.getTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	infos, err = selectTables(infos, tables, e.schemaName)
	if err != nil {
		return nil, err
	}

	s := &schema.Schema{Name: e.schemaName}
	for _, info := range infos {
		table, enums, err := e.extractTable(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", info.name, err)
		}
		e.types.logger().Debug("extracted table", "schema", e.schemaName, "table", info.name, "columns", len(table.Columns))
		s.Tables = append(s.Tables, *table)
		s.Enums = append(s.Enums, enums...)
	}

	return s, nil
}

// getTables lists the tables and views of the schema. Views are treated as
// read-only.
func (e *MySQLExtractor) getTables(ctx context.Context) ([]tableInfo, error) {
	query := `
		SELECT table_name, table_type, table_comment
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []tableInfo
	for rows.Next() {
		var info tableInfo
		var tableType string
		var comment sql.NullString
		if err := rows.Scan(&info.name, &tableType, &comment); err != nil {
			return nil, err
		}
		info.isView = tableType == "VIEW"
		info.isUpdatable = !info.isView
		info.comment = nonEmpty(comment)
		tables = append(tables, info)
	}

	return tables, rows.Err()
}

// extractTable extracts all information for a single table
func (e *MySQLExtractor) extractTable(ctx context.Context, info tableInfo) (*schema.Table, []schema.Enum, error) {
	table := &schema.Table{
		Name:        info.name,
		IsView:      info.isView,
		IsUpdatable: info.isUpdatable,
		Comment:     info.comment,
	}

	// Extract columns
	columns, pk, enums, err := e.extractColumns(ctx, info.name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns
	table.PrimaryKey = singleColumn(pk)

	// Extract foreign keys
	fks, err := e.extractForeignKeys(ctx, info.name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	attachForeignKeys(table.Columns, fks)

	return table, enums, nil
}

// extractColumns extracts column information for a table, along with its
// primary key columns and the enums declared inline by its enum columns
func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, []string, []schema.Enum, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable,
			c.column_default IS NOT NULL OR c.extra LIKE '%auto_increment%' AS has_default,
			c.column_comment,
			c.column_key
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	var pk []string
	var enums []schema.Enum

	for rows.Next() {
		var col schema.Column
		var dataType, columnType, nullable, columnKey string
		var comment sql.NullString

		if err := rows.Scan(&col.Name, &dataType, &columnType, &nullable, &col.HasDefault, &comment, &columnKey); err != nil {
			return nil, nil, nil, err
		}

		col.UDTName = columnType
		col.Nullable = nullable == "YES"
		col.Comment = nonEmpty(comment)

		// Check if this is an ENUM column
		if strings.EqualFold(dataType, "enum") {
			enumName := tableName + "_" + col.Name
			enums = append(enums, schema.Enum{Name: enumName, Values: parseEnumValues(columnType)})
			col.TSType = e.types.typeName(enumName)
		} else {
			col.TSType = e.types.mysqlType(tableName, col.Name, dataType)
		}

		if columnKey == "PRI" {
			pk = append(pk, col.Name)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}
	return columns, pk, enums, nil
}

// extractForeignKeys extracts foreign key relationships
func (e *MySQLExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]columnForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
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

func nonEmpty(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	return &s.String
}
