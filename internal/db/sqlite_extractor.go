package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/pgtots/internal/schema"
)

// sqliteSchemaName is the name SQLite gives the primary database.
const sqliteSchemaName = "main"

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
	types  TypeOptions
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient, types TypeOptions) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
		types:  types,
	}
}

// ExtractSchema extracts the complete schema for specified tables.
// If tables is empty, extracts all tables and views in the database.
// SQLite has neither enums nor comments.
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	infos, err := e.getTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	infos, err = selectTables(infos, tables, sqliteSchemaName)
	if err != nil {
		return nil, err
	}

	extractedTables := make([]schema.Table, 0, len(infos))
	for _, info := range infos {
		table, err := e.extractTable(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", info.name, err)
		}
		e.types.logger().Debug("extracted table", "table", info.name, "columns", len(table.Columns))
		extractedTables = append(extractedTables, *table)
	}

	return &schema.Schema{Name: sqliteSchemaName, Tables: extractedTables}, nil
}

// getTables returns the tables and views of the database
func (e *SQLiteExtractor) getTables(ctx context.Context) ([]tableInfo, error) {
	query := `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []tableInfo
	for rows.Next() {
		var info tableInfo
		var kind string
		if err := rows.Scan(&info.name, &kind); err != nil {
			return nil, err
		}
		info.isView = kind == "view"
		info.isUpdatable = !info.isView
		tableList = append(tableList, info)
	}

	return tableList, rows.Err()
}

// extractTable extracts all information for a single table
func (e *SQLiteExtractor) extractTable(ctx context.Context, info tableInfo) (*schema.Table, error) {
	table := &schema.Table{
		Name:        info.name,
		IsView:      info.isView,
		IsUpdatable: info.isUpdatable,
	}

	// Extract columns and primary key
	columns, pk, err := e.extractColumns(ctx, info.name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns
	table.PrimaryKey = singleColumn(pk)

	// Extract foreign keys
	fks, err := e.extractForeignKeys(ctx, info.name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	attachForeignKeys(table.Columns, fks)

	return table, nil
}

// extractColumns extracts column information and primary key columns
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	query := `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`

	rows, err := e.client.GetDB().QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	var pkColumns []string
	rowidAlias := -1

	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		col := schema.Column{
			Name:       name,
			UDTName:    colType,
			TSType:     e.types.sqliteType(colType),
			Nullable:   notNull == 0 && pk == 0,
			HasDefault: defaultValue.Valid,
		}

		// Track primary key columns
		if pk > 0 {
			pkColumns = append(pkColumns, name)
			if strings.EqualFold(colType, "INTEGER") {
				rowidAlias = len(columns)
			}
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	// A lone INTEGER PRIMARY KEY aliases the rowid and is assigned on insert.
	if len(pkColumns) == 1 && rowidAlias >= 0 {
		columns[rowidAlias].HasDefault = true
	}

	return columns, pkColumns, nil
}

// extractForeignKeys extracts foreign key relationships. A reference that
// omits the column targets the referenced table's primary key.
func (e *SQLiteExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]columnForeignKey, error) {
	query := `SELECT "from", "table", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`

	rows, err := e.client.GetDB().QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}

	var fks []columnForeignKey
	var implicit []int
	for rows.Next() {
		var fk columnForeignKey
		var to sql.NullString
		if err := rows.Scan(&fk.column, &fk.ref.Table, &to); err != nil {
			rows.Close()
			return nil, err
		}
		if to.Valid {
			fk.ref.Column = to.String
		} else {
			implicit = append(implicit, len(fks))
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, i := range implicit {
		_, pk, err := e.extractColumns(ctx, fks[i].ref.Table)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve primary key of %s: %w", fks[i].ref.Table, err)
		}
		if len(pk) > 0 {
			fks[i].ref.Column = pk[0]
		}
	}

	return fks, nil
}
