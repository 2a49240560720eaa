package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tordrt/pgtots/internal/schema"
)

func TestGenerateEnumType(t *testing.T) {
	tests := []struct {
		name  string
		enums []schema.Enum
		opts  *Options
		want  string
	}{
		{
			name:  "empty",
			enums: nil,
			opts:  &Options{},
			want:  "",
		},
		{
			name: "with enumerations",
			enums: []schema.Enum{
				{Name: "enum1", Values: []string{"val1", "val2", "val3", "val4"}},
				{Name: "enum2", Values: []string{"val5", "val6", "val7", "val8"}},
			},
			opts: &Options{},
			want: "export type enum1 = 'val1' | 'val2' | 'val3' | 'val4';\n" +
				"export type enum2 = 'val5' | 'val6' | 'val7' | 'val8';\n",
		},
		{
			name:  "duplicates kept in order",
			enums: []schema.Enum{{Name: "mood", Values: []string{"sad", "happy", "sad"}}},
			opts:  &Options{},
			want:  "export type mood = 'sad' | 'happy' | 'sad';\n",
		},
		{
			name:  "no values",
			enums: []schema.Enum{{Name: "nothing"}},
			opts:  &Options{},
			want:  "export type nothing = never;\n",
		},
		{
			name:  "camel case and quoted",
			enums: []schema.Enum{{Name: "order_types", Values: []string{"it's", "done"}}},
			opts:  &Options{CamelCase: true},
			want:  "export type OrderTypes = 'it\\'s' | 'done';\n",
		},
		{
			name:  "not singularized",
			enums: []schema.Enum{{Name: "order_types", Values: []string{"new"}}},
			opts:  &Options{Singularize: true},
			want:  "export type order_types = 'new';\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateEnumType(tt.enums, tt.opts))
		})
	}
}
