package registry

import (
	"fmt"
	"reflect"

	"github.com/roach88/propkit/internal/spec"
	"github.com/roach88/propkit/internal/value"
)

// Storage gives override accessors raw access to a container's slots.
// Load and Store skip access-mode checks but keep type validation and the
// container's write policy.
type Storage interface {
	// Load returns the held value, resolving a pending computation.
	// It fails with NOT_YET_SET when nothing is held.
	Load(name string) (value.Value, error)

	// Store validates and stores v.
	Store(name string, v value.Value) error
}

// Getter is an override read capability for one property.
type Getter func(host any, st Storage) (value.Value, error)

// Setter is an override write capability for one property.
type Setter func(host any, st Storage, v value.Value) error

// HostTypeError reports an override invoked with a host of the wrong type.
type HostTypeError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e *HostTypeError) Error() string {
	return fmt.Sprintf("override expects host %v, got %v", e.Want, e.Got)
}

// Get adapts a typed read function into a Getter. The host type H is
// checked when the override runs.
func Get[H any](fn func(h H, st Storage) (value.Value, error)) Getter {
	return func(host any, st Storage) (value.Value, error) {
		h, ok := host.(H)
		if !ok {
			return nil, &HostTypeError{Want: reflect.TypeFor[H](), Got: reflect.TypeOf(host)}
		}
		return fn(h, st)
	}
}

// Set adapts a typed write function into a Setter.
func Set[H any](fn func(h H, st Storage, v value.Value) error) Setter {
	return func(host any, st Storage, v value.Value) error {
		h, ok := host.(H)
		if !ok {
			return &HostTypeError{Want: reflect.TypeFor[H](), Got: reflect.TypeOf(host)}
		}
		return fn(h, st, v)
	}
}

// Class describes one model class: its parent, the property candidates it
// declares itself and its override capabilities.
//
// Build a Class once (typically as a package-level variable) and treat it
// as read-only afterwards; registries cache resolved specs by *Class.
type Class struct {
	Name     string
	Parent   *Class
	Declared []spec.Candidate

	getters map[string]Getter
	setters map[string]Setter
}

// NewClass creates a class descriptor. parent may be nil.
func NewClass(name string, parent *Class, declared ...spec.Candidate) *Class {
	return &Class{Name: name, Parent: parent, Declared: declared}
}

// WithGetter installs a read override for the named property.
func (c *Class) WithGetter(name string, g Getter) *Class {
	if c.getters == nil {
		c.getters = make(map[string]Getter)
	}
	c.getters[spec.NormalizeName(name)] = g
	return c
}

// WithSetter installs a write override for the named property.
func (c *Class) WithSetter(name string, s Setter) *Class {
	if c.setters == nil {
		c.setters = make(map[string]Setter)
	}
	c.setters[spec.NormalizeName(name)] = s
	return c
}

// Chain returns the class and its ancestors, root first.
func (c *Class) Chain() ([]*Class, error) {
	var chain []*Class
	seen := make(map[*Class]bool)
	for cur := c; cur != nil; cur = cur.Parent {
		if seen[cur] {
			return nil, &CycleError{Class: c.Name, At: cur.Name}
		}
		seen[cur] = true
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (c *Class) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}

// Provider supplies the raw property candidates declared at one level of a
// class hierarchy.
type Provider interface {
	Candidates(c *Class) ([]spec.Candidate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(c *Class) ([]spec.Candidate, error)

func (f ProviderFunc) Candidates(c *Class) ([]spec.Candidate, error) { return f(c) }

// Static is the provider that reads Class.Declared.
var Static Provider = ProviderFunc(func(c *Class) ([]spec.Candidate, error) {
	return c.Declared, nil
})
