package slot

import (
	"github.com/roach88/propkit/internal/metrics"
	"github.com/roach88/propkit/internal/spec"
	"github.com/roach88/propkit/internal/value"
)

// Env is the shared environment slots validate against. One Env is built
// per registry and shared by every slot created from it.
type Env struct {
	Types   *Types
	Metrics *metrics.Collector
}

// DefaultEnv uses DefaultTypes and the process-wide metrics collector.
func DefaultEnv() *Env {
	return &Env{Types: DefaultTypes(), Metrics: metrics.Default}
}

func (e *Env) types() *Types {
	if e == nil {
		return nil
	}
	return e.Types
}

func (e *Env) metrics() *metrics.Collector {
	if e == nil {
		return nil
	}
	return e.Metrics
}

// Cell is the storage cell a container keeps per property.
// *Slot and *Lazy implement it.
type Cell interface {
	Spec() *spec.Spec
	// Set validates and stores v.
	Set(v value.Value) error
	// Value returns the held value. It does not check IsSet.
	Value() (value.Value, error)
	// Peek returns the raw held content without resolving anything.
	Peek() value.Value
	Unset()
	IsSet() bool
}

// New creates the cell appropriate for s: a *Lazy for lazy specs, a *Slot
// otherwise.
func New(s *spec.Spec, env *Env) Cell {
	if s.Lazy() {
		return NewLazy(s, env)
	}
	return NewSlot(s, env)
}

// Slot holds the current value of one property and enforces its type
// contract on every write.
//
// INVARIANT: set is true iff val passed the spec's type contract (or the
// spec is untyped).
type Slot struct {
	spec *spec.Spec
	env  *Env
	val  value.Value
	set  bool
}

// NewSlot creates an empty slot for s.
func NewSlot(s *spec.Spec, env *Env) *Slot {
	return &Slot{spec: s, env: env}
}

// Spec returns the slot's property spec.
func (s *Slot) Spec() *spec.Spec { return s.spec }

// Set stores a copy of v if it satisfies the spec. On failure the slot is
// unchanged and an *InvalidValueError is returned. The copy is what gets
// validated, so later changes to the caller's collections never reach the
// slot.
func (s *Slot) Set(v value.Value) error {
	v = value.Clone(v)
	if err := Validate(s.env.types(), s.spec, v); err != nil {
		s.env.metrics().Rejected()
		return err
	}
	s.val = v
	s.set = true
	return nil
}

// Value returns a copy of the held value; nil when nothing is held.
func (s *Slot) Value() (value.Value, error) {
	return value.Clone(s.val), nil
}

// Peek returns the held value itself. Callers must not modify it.
func (s *Slot) Peek() value.Value {
	return s.val
}

// Unset clears the slot. Always succeeds.
func (s *Slot) Unset() {
	s.val = nil
	s.set = false
}

// IsSet reports whether a value is held.
func (s *Slot) IsSet() bool {
	return s.set
}
