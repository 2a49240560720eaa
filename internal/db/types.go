package db

import (
	"log/slog"
	"strings"
)

// jsonType is the TypeScript type dynamic JSON columns map to. It must match
// formatter.JSONType, which recognizes it for comment overrides.
const jsonType = "Json"

// TypeOptions controls how store-native column types map to TypeScript.
type TypeOptions struct {
	// DatesAsStrings maps date and timestamp types to string instead of Date.
	DatesAsStrings bool

	// TypeName converts an enum name into the TypeScript type name that the
	// enum is emitted under. Defaults to the identity.
	TypeName func(string) string

	// Logger receives warnings about unmapped types. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o TypeOptions) typeName(name string) string {
	if o.TypeName == nil {
		return name
	}
	return o.TypeName(name)
}

func (o TypeOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o TypeOptions) dateType() string {
	if o.DatesAsStrings {
		return "string"
	}
	return "Date"
}

func (o TypeOptions) unmapped(dialect, table, column, nativeType string) string {
	o.logger().Warn("unmapped column type, using any",
		"dialect", dialect, "table", table, "column", column, "type", nativeType)
	return "any"
}

// postgresType maps a PostgreSQL udt_name. Names with a leading underscore
// are arrays of the element type.
func (o TypeOptions) postgresType(table, column, udtName string, enums map[string]bool) string {
	if elem, ok := strings.CutPrefix(udtName, "_"); ok {
		return o.postgresType(table, column, elem, enums) + "[]"
	}

	switch udtName {
	case "bpchar", "char", "varchar", "text", "citext", "uuid", "bytea", "inet", "cidr", "macaddr",
		"time", "timetz", "interval", "name", "tsvector", "xml":
		return "string"
	case "int2", "int4", "int8", "float4", "float8", "numeric", "money", "oid":
		return "number"
	case "bool":
		return "boolean"
	case "json", "jsonb":
		return jsonType
	case "date", "timestamp", "timestamptz":
		return o.dateType()
	case "point":
		return "{ x: number; y: number }"
	}

	if enums[udtName] {
		return o.typeName(udtName)
	}
	return o.unmapped("postgres", table, column, udtName)
}

// mysqlType maps a MySQL information_schema data_type.
func (o TypeOptions) mysqlType(table, column, dataType string) string {
	switch strings.ToLower(dataType) {
	case "char", "varchar", "text", "tinytext", "mediumtext", "longtext", "time", "geometry", "set":
		return "string"
	case "integer", "int", "smallint", "mediumint", "bigint", "double", "decimal", "numeric", "float", "year":
		return "number"
	case "tinyint", "bool", "boolean":
		return "boolean"
	case "json":
		return jsonType
	case "date", "datetime", "timestamp":
		return o.dateType()
	case "tinyblob", "mediumblob", "longblob", "blob", "binary", "varbinary", "bit":
		return "Buffer"
	}
	return o.unmapped("mysql", table, column, dataType)
}

// sqliteType maps a declared SQLite column type using its affinity rules,
// with a few well-known declared names checked first.
func (o TypeOptions) sqliteType(declared string) string {
	t := strings.ToUpper(declared)
	switch {
	case t == "":
		return "any"
	case strings.Contains(t, "JSON"):
		return jsonType
	case strings.Contains(t, "BOOL"):
		return "boolean"
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return o.dateType()
	case strings.Contains(t, "INT"):
		return "number"
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return "string"
	case strings.Contains(t, "BLOB"):
		return "Buffer"
	default:
		// REAL and NUMERIC affinity
		return "number"
	}
}

// parseEnumValues parses the value list of a MySQL column type such as
// "enum('a','b','it''s')".
func parseEnumValues(columnType string) []string {
	start := strings.Index(columnType, "(")
	end := strings.LastIndex(columnType, ")")
	if start == -1 || end == -1 || start >= end {
		return nil
	}
	list := columnType[start+1 : end]

	var values []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(list) && list[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\\' && inQuote && i+1 < len(list):
			cur.WriteByte(list[i+1])
			i++
		case c == '\'':
			if inQuote {
				values = append(values, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			cur.WriteByte(c)
		}
	}
	return values
}
