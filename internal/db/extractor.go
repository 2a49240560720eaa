package db

import (
	"fmt"

	"github.com/tordrt/pgtots/internal/schema"
)

// tableInfo describes a table or view as listed by the catalog
type tableInfo struct {
	name        string
	isView      bool
	isUpdatable bool
	comment     *string
}

type columnForeignKey struct {
	column string
	ref    schema.ForeignKey
}

// selectTables keeps the requested tables, in request order. An empty request
// keeps everything.
func selectTables(infos []tableInfo, requested []string, schemaName string) ([]tableInfo, error) {
	if len(requested) == 0 {
		return infos, nil
	}

	byName := make(map[string]tableInfo, len(infos))
	for _, info := range infos {
		byName[info.name] = info
	}

	selected := make([]tableInfo, 0, len(requested))
	for _, name := range requested {
		info, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("table %s not found in schema %s", name, schemaName)
		}
		selected = append(selected, info)
	}
	return selected, nil
}

// singleColumn returns the key column when the key has exactly one.
func singleColumn(key []string) *string {
	if len(key) != 1 {
		return nil
	}
	return &key[0]
}

// attachForeignKeys sets each column's foreign key; a column referenced by
// several constraints keeps the last one.
func attachForeignKeys(columns []schema.Column, fks []columnForeignKey) {
	for _, fk := range fks {
		for i := range columns {
			if columns[i].Name == fk.column {
				ref := fk.ref
				columns[i].ForeignKey = &ref
			}
		}
	}
}
