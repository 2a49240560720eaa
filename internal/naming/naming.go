// Package naming implements the identifier rules used when turning database
// names into TypeScript symbols: word splitting, camel/pascal casing,
// singularization and reserved-word escaping.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultReserved lists the names that cannot be used verbatim as a
// top-level TypeScript binding in generated code.
var DefaultReserved = []string{"string", "number", "package", "public"}

// SymbolPolicy decides which names are reserved and how they are escaped.
type SymbolPolicy struct {
	reserved map[string]struct{}
	suffix   string
}

// NewSymbolPolicy creates a policy that escapes the given reserved words by
// appending suffix.
func NewSymbolPolicy(suffix string, reserved ...string) *SymbolPolicy {
	p := &SymbolPolicy{
		reserved: make(map[string]struct{}, len(reserved)),
		suffix:   suffix,
	}
	for _, w := range reserved {
		p.reserved[w] = struct{}{}
	}
	return p
}

var defaultPolicy = NewSymbolPolicy("_", DefaultReserved...)

// DefaultSymbolPolicy returns the policy used when none is configured.
func DefaultSymbolPolicy() *SymbolPolicy {
	return defaultPolicy
}

// IsReserved reports whether name is in the policy's reserved set.
func (p *SymbolPolicy) IsReserved(name string) bool {
	_, ok := p.reserved[name]
	return ok
}

// SafeSymbolName returns a version of name that can be used as a symbol,
// e.g. "number" -> "number_".
func (p *SymbolPolicy) SafeSymbolName(name string) string {
	if p.IsReserved(name) {
		return name + p.suffix
	}
	return name
}

// IsReserved reports whether name is reserved under the default policy.
func IsReserved(name string) bool { return defaultPolicy.IsReserved(name) }

// SafeSymbolName escapes name under the default policy.
func SafeSymbolName(name string) string { return defaultPolicy.SafeSymbolName(name) }

// Words splits s into words. Any character that is not a letter or digit
// separates words; within a run, a word also ends at a lower-to-upper
// transition ("tableName"), before the last capital of an acronym followed by
// a lowercase letter ("HTTPServer") and between letters and digits.
func Words(s string) []string {
	var words []string
	rs := []rune(s)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(rs[start:end]))
		}
		start = -1
	}

	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := rs[i-1]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			flush(i)
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
			flush(i)
		case unicode.IsDigit(prev) != unicode.IsDigit(r):
			flush(i)
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(rs))
	return words
}

// PascalCase joins the words of s, each capitalized, with no separator:
// "testschemaname_table_name" -> "TestschemanameTableName".
func PascalCase(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// CamelCase is PascalCase with the first word lowercased: "user_id" -> "userId".
func CamelCase(s string) string {
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)
	var b strings.Builder
	for i, w := range Words(s) {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Singular returns the singular form of a single word. Inflection rules are
// written for lowercase words, so the word is lowercased first.
func Singular(word string) string {
	if word == "" {
		return word
	}
	return inflect.Singularize(strings.ToLower(word))
}

// ColumnName applies the column transform: identity unless camel is set.
func ColumnName(name string, camel bool) string {
	if !camel {
		return name
	}
	return CamelCase(name)
}

// TypeName converts name to a pascal-cased type name. With singularize set
// the last word is singularized before casing: "user_statuses" -> "UserStatus".
func TypeName(name string, singularize bool) string {
	words := Words(name)
	if singularize && len(words) > 0 {
		last := len(words) - 1
		words[last] = Singular(words[last])
	}

	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// EnumName converts an enum name to its type name: unchanged unless camel is
// set, in which case it is pascal-cased.
func EnumName(name string, camel bool) string {
	if !camel {
		return name
	}
	return PascalCase(name)
}

// Qualify returns the SQL-visible name and the identifier base of a table.
// With prefix set these are "schema.table" and "schema_table".
func Qualify(schemaName, table string, prefix bool) (sqlName, identBase string) {
	if !prefix {
		return table, table
	}
	return schemaName + "." + table, schemaName + "_" + table
}
