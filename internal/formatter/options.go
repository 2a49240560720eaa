package formatter

import (
	"log/slog"

	"github.com/tordrt/pgtots/internal/naming"
)

// Options configures TypeScript generation.
//
// The zero value generates unprefixed, non-singularized names with raw
// column names and no header.
type Options struct {
	// CamelCase converts column names to lowerCamelCase (user_id -> userId).
	CamelCase bool

	// Singularize singularizes generated type names (Companies -> Company).
	Singularize bool

	// PrefixWithSchemaNames qualifies every table with its schema name:
	// "schema.table" in SQL names and "schema_table" in identifiers.
	PrefixWithSchemaNames bool

	// JSONTypesFile enables "@type {Name}" comment overrides on Json columns.
	// Overridden types are imported from this path.
	JSONTypesFile string

	// DatesAsStrings maps date and timestamp columns to string. It is read
	// by the type mapping in internal/db, not by the emitters.
	DatesAsStrings bool

	// WriteHeader prepends the AUTO-GENERATED banner.
	WriteHeader bool

	// Symbols decides which names are escaped. Defaults to naming.DefaultSymbolPolicy().
	Symbols *naming.SymbolPolicy

	// TypeOverride resolves comment annotations on Json columns.
	// Defaults to JSDocTypeOverride.
	TypeOverride TypeOverrideFunc

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// TransformColumnName applies the column naming rule.
func (o *Options) TransformColumnName(name string) string {
	return naming.ColumnName(name, o != nil && o.CamelCase)
}

// TransformTypeName applies the type naming rule.
func (o *Options) TransformTypeName(name string) string {
	return naming.TypeName(name, o != nil && o.Singularize)
}

// TransformEnumName names an enum's type: the raw name unless CamelCase is set.
func (o *Options) TransformEnumName(name string) string {
	return naming.EnumName(name, o != nil && o.CamelCase)
}

func (o *Options) symbols() *naming.SymbolPolicy {
	if o == nil || o.Symbols == nil {
		return naming.DefaultSymbolPolicy()
	}
	return o.Symbols
}

func (o *Options) typeOverride() TypeOverrideFunc {
	if o == nil || o.TypeOverride == nil {
		return JSDocTypeOverride
	}
	return o.TypeOverride
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) prefixWithSchemaNames() bool {
	return o != nil && o.PrefixWithSchemaNames
}

func (o *Options) jsonTypesFile() string {
	if o == nil {
		return ""
	}
	return o.JSONTypesFile
}
