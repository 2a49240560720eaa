package formatter

import (
	"errors"
	"fmt"
	"maps"
	"sync"
)

var (
	// ErrRegistrySealed is returned when a table is registered after resolution began.
	ErrRegistrySealed = errors.New("name registry is sealed")
	// ErrDuplicateTable is returned when a table is registered twice.
	ErrDuplicateTable = errors.New("table already registered")
)

// TableNames holds the identifiers generated for one table.
type TableNames struct {
	Var   string
	Type  string
	Input string
}

// NameMap maps raw table names to their generated identifiers.
type NameMap map[string]TableNames

// NameRegistry accumulates TableNames over one generation run.
//
// Tables register concurrently while they are emitted; Seal ends the
// population phase and hands out the completed map for join resolution.
type NameRegistry struct {
	mu     sync.Mutex
	names  NameMap
	sealed bool
}

// NewNameRegistry creates an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{names: make(NameMap)}
}

// Register records the names generated for table.
func (r *NameRegistry) Register(table string, names TableNames) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("register %s: %w", table, ErrRegistrySealed)
	}
	if _, ok := r.names[table]; ok {
		return fmt.Errorf("register %s: %w", table, ErrDuplicateTable)
	}
	r.names[table] = names
	return nil
}

// Seal stops further registration and returns a copy of the completed map.
func (r *NameRegistry) Seal() NameMap {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
	return maps.Clone(r.names)
}

// Resolve seals the registry and rewrites the join markers in ts.
func (r *NameRegistry) Resolve(ts string) string {
	return AttachJoinTypes(ts, r.Seal())
}
