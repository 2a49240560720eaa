package formatter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tordrt/pgtots/internal/naming"
	"github.com/tordrt/pgtots/internal/schema"
)

// TableResult is the output of GenerateTable for one table.
type TableResult struct {
	// Code is the table's declaration block, starting and ending with a newline.
	Code  string
	Names TableNames
	// TypesToImport lists overridden column types, sorted.
	TypesToImport []string
	IsUpdatable   bool
}

type foreignKeyEntry struct {
	column string
	key    schema.ForeignKey
}

// GenerateTable emits the select interface, the input interface and the
// runtime descriptor of one table. References to other tables are left as
// join markers; see AttachJoinTypes.
func GenerateTable(t schema.Table, schemaName string, opts *Options) TableResult {
	var selectable, insertable strings.Builder
	columns := make([]string, 0, len(t.Columns))
	requiredForInsert := make([]string, 0, len(t.Columns))
	imports := make(map[string]struct{})
	var foreignKeys []foreignKeyEntry

	for _, col := range t.Columns {
		name := opts.TransformColumnName(col.Name)
		tsType, importType := opts.columnType(col)
		if importType != "" {
			imports[importType] = struct{}{}
		}

		doc := jsdoc(col.Comment, "  ")
		typ := nullableType(tsType, col.Nullable)
		optional := ""
		if col.Nullable || col.HasDefault {
			optional = "?"
		}
		fmt.Fprintf(&selectable, "%s  %s: %s;\n", doc, propertyName(name), typ)
		fmt.Fprintf(&insertable, "%s  %s%s: %s;\n", doc, propertyName(name), optional, typ)

		columns = append(columns, name)
		if !col.Nullable && !col.HasDefault {
			requiredForInsert = append(requiredForInsert, name)
		}
		if col.ForeignKey != nil {
			foreignKeys = setForeignKey(foreignKeys, name, *col.ForeignKey)
		}
	}

	sqlName, identBase := naming.Qualify(schemaName, t.Name, opts.prefixWithSchemaNames())
	typeName := opts.TransformTypeName(identBase)
	names := TableNames{
		Var:   opts.symbols().SafeSymbolName(identBase),
		Type:  typeName,
		Input: typeName + "Input",
	}

	kind, nameKey := "Table", "tableName"
	if t.IsView {
		kind, nameKey = "View", "viewName"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s %s\n", kind, sqlName)
	b.WriteString(jsdoc(t.Comment, ""))
	fmt.Fprintf(&b, "export interface %s %s\n", names.Type, block(selectable.String()))
	if t.IsUpdatable {
		fmt.Fprintf(&b, "export interface %s %s\n", names.Input, block(insertable.String()))
	}
	fmt.Fprintf(&b, "const %s = {\n", names.Var)
	fmt.Fprintf(&b, "  %s: %s,\n", nameKey, quote(sqlName))
	fmt.Fprintf(&b, "  columns: %s,\n", quotedArray(columns))
	if t.IsUpdatable {
		fmt.Fprintf(&b, "  requiredForInsert: %s,\n", quotedArray(requiredForInsert))
		fmt.Fprintf(&b, "  primaryKey: %s,\n", quoteNullable(t.PrimaryKey))
		fmt.Fprintf(&b, "  foreignKeys: %s,\n", foreignKeyMap(foreignKeys))
	}
	fmt.Fprintf(&b, "  $type: null as unknown as %s,\n", names.Type)
	if t.IsUpdatable {
		fmt.Fprintf(&b, "  $input: null as unknown as %s,\n", names.Input)
	}
	b.WriteString("};\n")

	return TableResult{
		Code:          "\n" + b.String(),
		Names:         names,
		TypesToImport: sortedKeys(imports),
		IsUpdatable:   t.IsUpdatable,
	}
}

// setForeignKey behaves like assigning an object key: a repeated column keeps
// its first position and takes the last value.
func setForeignKey(entries []foreignKeyEntry, column string, fk schema.ForeignKey) []foreignKeyEntry {
	for i := range entries {
		if entries[i].column == column {
			entries[i].key = fk
			return entries
		}
	}
	return append(entries, foreignKeyEntry{column: column, key: fk})
}

func foreignKeyMap(entries []foreignKeyEntry) string {
	if len(entries) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "    %s: { table: %s, column: %s, %s },\n",
			propertyName(e.column), quote(e.key.Table), quote(e.key.Column), joinMarker(e.key.Table))
	}
	b.WriteString("  }")
	return b.String()
}

func block(members string) string {
	if members == "" {
		return "{}"
	}
	return "{\n" + members + "}"
}

func jsdoc(comment *string, indent string) string {
	if comment == nil || *comment == "" {
		return ""
	}
	return indent + "/** " + strings.ReplaceAll(*comment, "*/", `*\/`) + " */\n"
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// propertyName quotes names that are not valid bare property keys.
func propertyName(name string) string {
	if identifierRE.MatchString(name) {
		return name
	}
	return quote(name)
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}

func quoteNullable(s *string) string {
	if s == nil {
		return "null"
	}
	return quote(*s)
}

func quotedArray(xs []string) string {
	quoted := make([]string, len(xs))
	for i, x := range xs {
		quoted[i] = quote(x)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
