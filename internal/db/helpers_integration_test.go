//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/pgtots/internal/schema"
)

// requireTables checks that the schema holds exactly the expected tables
func requireTables(t *testing.T, s *schema.Schema, expected ...string) {
	t.Helper()

	names := make([]string, 0, len(s.Tables))
	for _, table := range s.Tables {
		names = append(names, table.Name)
	}
	require.ElementsMatch(t, expected, names)
}

// requireTable looks up a table by name
func requireTable(t *testing.T, s *schema.Schema, name string) *schema.Table {
	t.Helper()

	table := s.FindTable(name)
	require.NotNil(t, table, "table %s not found", name)
	return table
}

// requireColumn looks up a column of a table by name
func requireColumn(t *testing.T, table *schema.Table, name string) schema.Column {
	t.Helper()

	for _, col := range table.Columns {
		if col.Name == name {
			return col
		}
	}
	require.Failf(t, "column not found", "column %s not found in %s", name, table.Name)
	return schema.Column{}
}

// assertForeignKey checks that a column references the given table and column
func assertForeignKey(t *testing.T, table *schema.Table, column, refTable, refColumn string) {
	t.Helper()

	col := requireColumn(t, table, column)
	if assert.NotNil(t, col.ForeignKey, "%s.%s has no foreign key", table.Name, column) {
		assert.Equal(t, schema.ForeignKey{Table: refTable, Column: refColumn}, *col.ForeignKey)
	}
}

// assertPrimaryKey checks a table's single-column primary key
func assertPrimaryKey(t *testing.T, table *schema.Table, want string) {
	t.Helper()

	if assert.NotNil(t, table.PrimaryKey, "%s has no primary key", table.Name) {
		assert.Equal(t, want, *table.PrimaryKey)
	}
}
