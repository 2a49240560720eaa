package schema

// Schema represents the introspected contents of one database schema
type Schema struct {
	// Name is the schema the tables were read from (e.g. "public").
	Name   string
	Tables []Table
	Enums  []Enum
}

// Table represents a database table or view.
// Columns keep the database's declaration order.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  *string
	IsView      bool
	IsUpdatable bool
	Comment     *string
}

// Column represents a table column
type Column struct {
	Name string
	// UDTName is the store-native type name as reported by the catalog.
	UDTName string
	// TSType is the TypeScript type the column maps to, without nullability.
	TSType     string
	Nullable   bool
	HasDefault bool
	Comment    *string
	ForeignKey *ForeignKey
}

// ForeignKey references a column of another (or the same) table by raw name
type ForeignKey struct {
	Table  string
	Column string
}

// Enum is a named set of string values, in declaration order
type Enum struct {
	Name   string
	Values []string
}

// FindTable returns the table with the given raw name, or nil.
func (s *Schema) FindTable(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}
