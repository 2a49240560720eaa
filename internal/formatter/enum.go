package formatter

import (
	"strings"

	"github.com/tordrt/pgtots/internal/schema"
)

// GenerateEnumType emits one string-literal union per enum, in the given
// order. Values keep their order and duplicates; an enum without values
// becomes never.
func GenerateEnumType(enums []schema.Enum, opts *Options) string {
	var b strings.Builder
	for _, e := range enums {
		b.WriteString("export type ")
		b.WriteString(opts.TransformEnumName(e.Name))
		b.WriteString(" = ")
		if len(e.Values) == 0 {
			b.WriteString("never")
		} else {
			for i, v := range e.Values {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(quote(v))
			}
		}
		b.WriteString(";\n")
	}
	return b.String()
}
