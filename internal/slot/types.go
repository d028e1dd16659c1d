package slot

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Types maps object type names used in type expressions to Go types.
//
// Register all names before the table is shared; lookups take a read lock
// so a populated table is safe for concurrent readers.
type Types struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
}

// NewTypes creates an empty type table.
func NewTypes() *Types {
	return &Types{byName: make(map[string]reflect.Type)}
}

// DefaultTypes returns a table seeded with commonly declared value types:
// time.Time, time.Duration, uuid.UUID and error.
func DefaultTypes() *Types {
	t := NewTypes()
	Register[time.Time](t, "time.Time")
	Register[time.Duration](t, "time.Duration")
	Register[uuid.UUID](t, "uuid.UUID")
	Register[error](t, "error")
	return t
}

// Register associates name with the Go type T. Interface types match any
// value implementing them.
func Register[T any](t *Types, name string) {
	t.Add(name, reflect.TypeFor[T]())
}

// Add associates name with typ, replacing any previous association.
func (t *Types) Add(name string, typ reflect.Type) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.byName == nil {
		t.byName = make(map[string]reflect.Type)
	}
	t.byName[name] = typ
}

// Lookup returns the Go type registered for name.
func (t *Types) Lookup(name string) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	typ, ok := t.byName[name]
	return typ, ok
}

// Names returns the registered names in sorted order.
func (t *Types) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := slices.Collect(maps.Keys(t.byName))
	slices.Sort(names)
	return names
}

// Clone copies the table so it can be extended without affecting t.
func (t *Types) Clone() *Types {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &Types{byName: maps.Clone(t.byName)}
}

// instanceOf reports whether a value of dynamic type dyn is an instance of
// the type called name. Registered types match by identity, by pointer to
// the type, or by interface implementation. Unregistered names fall back to
// the Go type string of dyn or its pointee, e.g. "model.Person".
func (t *Types) instanceOf(dyn reflect.Type, name string) bool {
	if dyn == nil {
		return false
	}
	if target, ok := t.Lookup(name); ok {
		if dyn == target {
			return true
		}
		if target.Kind() == reflect.Interface {
			return dyn.Implements(target)
		}
		return dyn.Kind() == reflect.Pointer && dyn.Elem() == target
	}
	if dyn.String() == name {
		return true
	}
	return dyn.Kind() == reflect.Pointer && dyn.Elem().String() == name
}

func (t *Types) String() string {
	return fmt.Sprintf("Types%v", t.Names())
}
