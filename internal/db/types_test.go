package db

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/pgtots/internal/naming"
)

func quietTypes() TypeOptions {
	return TypeOptions{
		TypeName: naming.PascalCase,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestPostgresType(t *testing.T) {
	enums := map[string]bool{"mood": true}
	tests := []struct {
		udt            string
		datesAsStrings bool
		want           string
	}{
		{"varchar", false, "string"},
		{"uuid", false, "string"},
		{"int4", false, "number"},
		{"numeric", false, "number"},
		{"bool", false, "boolean"},
		{"jsonb", false, "Json"},
		{"timestamptz", false, "Date"},
		{"timestamptz", true, "string"},
		{"date", true, "string"},
		{"point", false, "{ x: number; y: number }"},
		{"_int4", false, "number[]"},
		{"_text", false, "string[]"},
		{"_jsonb", false, "Json[]"},
		{"_timestamptz", false, "Date[]"},
		{"mood", false, "Mood"},
		{"_mood", false, "Mood[]"},
		{"hstore", false, "any"},
	}

	for _, tt := range tests {
		t.Run(tt.udt, func(t *testing.T) {
			opts := quietTypes()
			opts.DatesAsStrings = tt.datesAsStrings
			assert.Equal(t, tt.want, opts.postgresType("t", "c", tt.udt, enums))
		})
	}
}

func TestPostgresTypeWarnsOnUnmapped(t *testing.T) {
	var buf bytes.Buffer
	opts := TypeOptions{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	assert.Equal(t, "any", opts.postgresType("users", "tags", "hstore", nil))
	assert.True(t, strings.Contains(buf.String(), "unmapped column type"))
	assert.True(t, strings.Contains(buf.String(), "type=hstore"))
}

func TestEnumTypeNameDefaultsToIdentity(t *testing.T) {
	opts := TypeOptions{}
	assert.Equal(t, "order_status", opts.postgresType("t", "c", "order_status", map[string]bool{"order_status": true}))
}

func TestMySQLType(t *testing.T) {
	tests := []struct {
		dataType string
		want     string
	}{
		{"varchar", "string"},
		{"TEXT", "string"},
		{"bigint", "number"},
		{"decimal", "number"},
		{"tinyint", "boolean"},
		{"json", "Json"},
		{"datetime", "Date"},
		{"blob", "Buffer"},
		{"polygon", "any"},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, quietTypes().mysqlType("t", "c", tt.dataType))
		})
	}
}

func TestSQLiteType(t *testing.T) {
	tests := []struct {
		declared string
		want     string
	}{
		{"INTEGER", "number"},
		{"bigint", "number"},
		{"VARCHAR(255)", "string"},
		{"TEXT", "string"},
		{"BLOB", "Buffer"},
		{"REAL", "number"},
		{"DECIMAL(10,2)", "number"},
		{"BOOLEAN", "boolean"},
		{"DATETIME", "Date"},
		{"JSON", "Json"},
		{"", "any"},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			assert.Equal(t, tt.want, quietTypes().sqliteType(tt.declared))
		})
	}

	assert.Equal(t, "string", TypeOptions{DatesAsStrings: true}.sqliteType("TIMESTAMP"))
}

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		name       string
		columnType string
		want       []string
	}{
		{"simple", "enum('active','inactive','pending')", []string{"active", "inactive", "pending"}},
		{"commas in values", "enum('a,b','c')", []string{"a,b", "c"}},
		{"doubled quote", "enum('it''s','x')", []string{"it's", "x"}},
		{"backslash escape", `enum('a\'b')`, []string{"a'b"}},
		{"empty value", "enum('','x')", []string{"", "x"}},
		{"not an enum", "varchar(10)", nil},
		{"malformed", "enum", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEnumValues(tt.columnType))
		})
	}
}

func TestSelectTables(t *testing.T) {
	infos := []tableInfo{{name: "a"}, {name: "b", isView: true}, {name: "c"}}

	all, err := selectTables(infos, nil, "public")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	picked, err := selectTables(infos, []string{"c", "b"}, "public")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "c", picked[0].name)
	assert.True(t, picked[1].isView)

	_, err = selectTables(infos, []string{"missing"}, "public")
	assert.EqualError(t, err, "table missing not found in schema public")
}

func TestSingleColumn(t *testing.T) {
	assert.Nil(t, singleColumn(nil))
	assert.Nil(t, singleColumn([]string{"a", "b"}))
	require.NotNil(t, singleColumn([]string{"id"}))
	assert.Equal(t, "id", *singleColumn([]string{"id"}))
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("user:pass@tcp(localhost:3306)/shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	_, err = ParseDatabaseName("user:pass@tcp(localhost:3306)/")
	assert.Error(t, err)
}
