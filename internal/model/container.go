package model

import (
	"fmt"

	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/slot"
	"github.com/roach88/propkit/internal/spec"
	"github.com/roach88/propkit/internal/value"
)

// policy customizes how a container admits writes and removals.
// Entity and ValueObject install their own; a plain Container uses
// noPolicy.
type policy interface {
	// admit runs before any write to name; cell may be nil.
	admit(name string, cell slot.Cell) error
	// written runs after every successful write to name.
	written(name string, cell slot.Cell)
	// removable runs before a removal of a known property.
	removable(name string) error
	// writeable refines the access-mode check for IsWriteable.
	writeable(cell slot.Cell) bool
}

type noPolicy struct{}

func (noPolicy) admit(string, slot.Cell) error { return nil }
func (noPolicy) written(string, slot.Cell)     {}
func (noPolicy) removable(string) error        { return nil }
func (noPolicy) writeable(slot.Cell) bool      { return true }

// Container stores the property values of one model object and enforces
// the class's declared access modes and types.
//
// Not safe for concurrent use.
type Container struct {
	host   any
	specs  *registry.Specs
	cells  map[string]slot.Cell
	policy policy
}

// New creates a plain container for host, an instance of class. host is
// what override capabilities receive; nil means the container itself.
// The class registry is resolved here, so a bad class fails construction.
func New(host any, class *registry.Class, opts ...Option) (*Container, error) {
	o := buildOptions(opts)
	c, err := newContainer(host, class, o, noPolicy{})
	if err != nil {
		return nil, err
	}
	if c.host == nil {
		c.host = c
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(host any, class *registry.Class, opts ...Option) *Container {
	c, err := New(host, class, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func newContainer(host any, class *registry.Class, o options, p policy) (*Container, error) {
	specs, err := o.registry.Resolve(class)
	if err != nil {
		return nil, fmt.Errorf("resolve class %s: %w", class, err)
	}
	return &Container{
		host:   host,
		specs:  specs,
		cells:  make(map[string]slot.Cell),
		policy: p,
	}, nil
}

// Class returns the container's class descriptor.
func (c *Container) Class() *registry.Class { return c.specs.Class() }

// Specs returns the resolved property table.
func (c *Container) Specs() *registry.Specs { return c.specs }

// Names returns declared property names in declaration order.
func (c *Container) Names() []string { return c.specs.Names() }

// Has reports whether name is a declared property.
func (c *Container) Has(name string) bool {
	return c.specs.Has(name)
}

// IsReadable reports whether name may be read.
func (c *Container) IsReadable(name string) (bool, error) {
	ps, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	return ps.Access().Readable(), nil
}

// IsWriteable reports whether name may be written now.
func (c *Container) IsWriteable(name string) (bool, error) {
	ps, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	return ps.Access().Writeable() && c.policy.writeable(c.cells[name]), nil
}

// Get returns the value of name. A read override, if installed, replaces
// slot storage for the read. Otherwise the held value is returned,
// resolving a pending computation on lazy properties.
func (c *Container) Get(name string) (value.Value, error) {
	ps, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if !ps.Access().Readable() {
		return nil, c.fail(CodeNotReadable, name, "property is write-only")
	}
	if get, ok := c.specs.Getter(name); ok {
		return get(c.host, storage{c})
	}
	return c.load(name)
}

// Set assigns v to name. A write override, if installed, receives v
// instead of slot storage and is trusted to validate it.
func (c *Container) Set(name string, v value.Value) error {
	ps, err := c.lookup(name)
	if err != nil {
		return err
	}
	if err := c.policy.admit(name, c.cells[name]); err != nil {
		return err
	}
	if !ps.Access().Writeable() {
		return c.fail(CodeNotWriteable, name, "property is read-only")
	}
	if set, ok := c.specs.Setter(name); ok {
		if err := set(c.host, storage{c}, v); err != nil {
			return err
		}
		if cell, ok := c.cells[name]; ok {
			c.policy.written(name, cell)
		}
		return nil
	}
	return c.store(name, ps, v)
}

// Contains reports whether name currently holds a value. A pending lazy
// computation counts as a value.
func (c *Container) Contains(name string) (bool, error) {
	if _, err := c.lookup(name); err != nil {
		return false, err
	}
	cell, ok := c.cells[name]
	return ok && cell.IsSet(), nil
}

// Remove clears name. Removing an unset property succeeds.
func (c *Container) Remove(name string) error {
	ps, err := c.lookup(name)
	if err != nil {
		return err
	}
	if err := c.policy.removable(name); err != nil {
		return err
	}
	if !ps.Access().Writeable() {
		return c.fail(CodeNotWriteable, name, "property is read-only")
	}
	if cell, ok := c.cells[name]; ok {
		cell.Unset()
	}
	return nil
}

// Storage returns raw slot access for the owning model's own code, such
// as a constructor initializing read-only properties. It skips access
// modes but keeps validation and the write policy.
func (c *Container) Storage() registry.Storage {
	return storage{c}
}

// Snapshot returns the held values of readable properties without
// invoking overrides or resolving pending computations.
func (c *Container) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value)
	for _, name := range c.specs.Names() {
		ps, _ := c.specs.Lookup(name)
		cell, ok := c.cells[name]
		if !ok || !cell.IsSet() || !ps.Access().Readable() {
			continue
		}
		out[name] = value.Clone(cell.Peek())
	}
	return out
}

func (c *Container) lookup(name string) (*spec.Spec, error) {
	ps, ok := c.specs.Lookup(name)
	if !ok {
		return nil, c.fail(CodeUnknownProperty, name, "property is not declared")
	}
	return ps, nil
}

// cell returns the slot for a known property, creating it on first touch.
func (c *Container) cell(ps *spec.Spec) slot.Cell {
	cell, ok := c.cells[ps.Name()]
	if !ok {
		cell = slot.New(ps, c.specs.Env())
		c.cells[ps.Name()] = cell
	}
	return cell
}

func (c *Container) load(name string) (value.Value, error) {
	cell, ok := c.cells[name]
	if !ok || !cell.IsSet() {
		return nil, c.fail(CodeNotYetSet, name, "property has no value")
	}
	return cell.Value()
}

func (c *Container) store(name string, ps *spec.Spec, v value.Value) error {
	cell := c.cell(ps)
	if err := cell.Set(v); err != nil {
		return err
	}
	c.policy.written(name, cell)
	return nil
}

func (c *Container) fail(code Code, name, msg string) *PropertyError {
	return &PropertyError{
		Code:     code,
		Class:    c.specs.Class().Name,
		Property: name,
		Message:  msg,
	}
}

// storage is the registry.Storage handed to overrides. It skips access
// modes but keeps validation and the container's write policy.
type storage struct {
	c *Container
}

func (s storage) Load(name string) (value.Value, error) {
	if _, err := s.c.lookup(name); err != nil {
		return nil, err
	}
	return s.c.load(name)
}

func (s storage) Store(name string, v value.Value) error {
	ps, err := s.c.lookup(name)
	if err != nil {
		return err
	}
	if err := s.c.policy.admit(name, s.c.cells[name]); err != nil {
		return err
	}
	return s.c.store(name, ps, v)
}
