package slot

import (
	"github.com/roach88/propkit/internal/spec"
	"github.com/roach88/propkit/internal/value"
)

// LazyState is the resolution state of a lazy slot.
type LazyState int

const (
	// StateEmpty holds nothing.
	StateEmpty LazyState = iota
	// StatePending holds an unresolved deferred computation.
	StatePending
	// StateResolved holds an ordinary value.
	StateResolved
)

func (s LazyState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return "empty"
	}
}

// Lazy is a slot that may hold a deferred computation instead of a value.
// The computation runs at most once, on the first read.
//
// State machine: Empty -> Pending -> Resolved. A pending computation counts
// as a held value for IsSet.
type Lazy struct {
	Slot
	pending      *value.Deferred
	resolvedFrom *value.Deferred
}

// NewLazy creates an empty lazy slot for s.
func NewLazy(s *spec.Spec, env *Env) *Lazy {
	return &Lazy{Slot: Slot{spec: s, env: env}}
}

// State reports the slot's resolution state.
func (l *Lazy) State() LazyState {
	switch {
	case l.pending != nil:
		return StatePending
	case l.set:
		return StateResolved
	default:
		return StateEmpty
	}
}

// Set stores v. A deferred computation assigned to an empty slot becomes
// pending without validation; assigning another while one is pending fails
// with *AlreadyPendingError. Every other assignment is validated as for an
// ordinary slot and replaces any pending computation.
func (l *Lazy) Set(v value.Value) error {
	if d, ok := v.(*value.Deferred); ok {
		if l.pending != nil {
			return &AlreadyPendingError{Property: l.spec.Name()}
		}
		if !l.set {
			l.pending = d
			l.resolvedFrom = nil
			l.val = nil
			l.set = true
			return nil
		}
	}
	if err := l.Slot.Set(v); err != nil {
		return err
	}
	l.pending = nil
	l.resolvedFrom = nil
	return nil
}

// Value resolves a pending computation, validates its result and returns
// it. The handle is discarded before it runs, so it is never invoked again
// even if it fails. A failed resolution leaves the slot empty and returns a
// *LazyResolutionError.
func (l *Lazy) Value() (value.Value, error) {
	if l.pending == nil {
		return value.Clone(l.val), nil
	}

	d := l.pending
	l.pending = nil
	l.val = nil
	l.set = false

	result, err := d.Resolve()
	if err != nil {
		l.env.metrics().LazyResolved(false)
		return nil, &LazyResolutionError{Property: l.spec.Name(), Cause: err}
	}
	if err := l.Slot.Set(result); err != nil {
		l.env.metrics().LazyResolved(false)
		return nil, &LazyResolutionError{Property: l.spec.Name(), Cause: err}
	}

	l.resolvedFrom = d
	l.env.metrics().LazyResolved(true)
	return value.Clone(l.val), nil
}

// Peek returns the pending handle while pending, otherwise the held value.
func (l *Lazy) Peek() value.Value {
	if l.pending != nil {
		return l.pending
	}
	return l.val
}

// ResolvedFrom returns the handle whose result the slot currently holds,
// or nil if the value was assigned directly.
func (l *Lazy) ResolvedFrom() *value.Deferred {
	return l.resolvedFrom
}

// Unset clears the slot and drops any pending computation.
func (l *Lazy) Unset() {
	l.Slot.Unset()
	l.pending = nil
	l.resolvedFrom = nil
}
