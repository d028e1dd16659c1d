package model

import (
	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/slot"
	"github.com/roach88/propkit/internal/value"
)

// Entity is a container whose properties may change after creation. The
// first value ever assigned to each property is kept as its baseline, and
// IsPropertyChanged compares the current value against it.
type Entity struct {
	*Container
	original map[string]value.Value
	cmp      Comparer
}

// NewEntity creates an entity container. host nil means the entity itself.
func NewEntity(host any, class *registry.Class, opts ...Option) (*Entity, error) {
	o := buildOptions(opts)
	e := &Entity{
		original: make(map[string]value.Value),
		cmp:      o.comparer,
	}
	c, err := newContainer(host, class, o, e)
	if err != nil {
		return nil, err
	}
	if c.host == nil {
		c.host = e
	}
	e.Container = c
	return e, nil
}

// MustNewEntity is like NewEntity but panics on error.
func MustNewEntity(host any, class *registry.Class, opts ...Option) *Entity {
	e, err := NewEntity(host, class, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// IsPropertyChanged reports whether name holds a value that differs from
// its baseline. It is false for properties that hold nothing or were never
// assigned, and for undeclared names.
func (e *Entity) IsPropertyChanged(name string) bool {
	base, ok := e.baseline(name)
	if !ok {
		return false
	}
	cell, ok := e.cells[name]
	if !ok || !cell.IsSet() {
		return false
	}
	return !e.cmp(base, cell.Peek())
}

// ChangedProperties returns the changed property names in declaration
// order.
func (e *Entity) ChangedProperties() []string {
	var changed []string
	for _, name := range e.Names() {
		if e.IsPropertyChanged(name) {
			changed = append(changed, name)
		}
	}
	return changed
}

// OriginalValue returns the baseline of name, if one was captured.
func (e *Entity) OriginalValue(name string) (value.Value, bool) {
	base, ok := e.baseline(name)
	return value.Clone(base), ok
}

// baseline returns the captured first value. A baseline that is a pending
// computation is replaced by its result once the slot has resolved it.
func (e *Entity) baseline(name string) (value.Value, bool) {
	base, ok := e.original[name]
	if !ok {
		return nil, false
	}
	if d, pending := base.(*value.Deferred); pending {
		if lazy, ok := e.cells[name].(*slot.Lazy); ok && lazy.IsSet() && lazy.ResolvedFrom() == d {
			base = value.Clone(lazy.Peek())
			e.original[name] = base
		}
	}
	return base, true
}

func (e *Entity) admit(string, slot.Cell) error { return nil }

// written captures the baseline on the first write that leaves a value.
func (e *Entity) written(name string, cell slot.Cell) {
	if _, ok := e.original[name]; ok || !cell.IsSet() {
		return
	}
	e.original[name] = value.Clone(cell.Peek())
}

func (e *Entity) removable(string) error { return nil }

func (e *Entity) writeable(slot.Cell) bool { return true }
