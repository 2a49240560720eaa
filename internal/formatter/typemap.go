package formatter

import (
	"regexp"
	"strings"

	"github.com/tordrt/pgtots/internal/schema"
)

// JSONType is the TypeScript type that dynamic JSON columns map to.
const JSONType = "Json"

// TypeOverrideFunc inspects a column's mapped type and comment and returns
// a replacement type name, if the comment asks for one.
type TypeOverrideFunc func(tsType, comment string) (string, bool)

var jsdocTypeRE = regexp.MustCompile(`@type \{([^}]+)\}`)

// JSDocTypeOverride recognizes a JSDoc-style "@type {Name}" tag in the
// comment of a Json column.
func JSDocTypeOverride(tsType, comment string) (string, bool) {
	if tsType != JSONType {
		return "", false
	}
	m := jsdocTypeRE.FindStringSubmatch(comment)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

// columnType returns the type emitted for col, without nullability, and
// the type that has to be imported for it ("" if none). Overrides only
// apply when a JSON types file is configured to import them from.
func (o *Options) columnType(col schema.Column) (tsType, importType string) {
	tsType = col.TSType
	if o.jsonTypesFile() == "" || col.Comment == nil {
		return tsType, ""
	}
	if override, ok := o.typeOverride()(tsType, *col.Comment); ok {
		return override, override
	}
	return tsType, ""
}

func nullableType(tsType string, nullable bool) string {
	if nullable {
		return tsType + " | null"
	}
	return tsType
}
