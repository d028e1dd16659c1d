package value

import "fmt"

// Deferred is an opaque resolve-once source of a property's eventual value.
// The value it produces is unconstrained; the slot that receives it
// validates the result.
//
// Deferred is always used by pointer so that identity is the handle itself.
type Deferred struct {
	fn func() (Value, error)
}

func (*Deferred) value() {}

// NewDeferred creates a deferred computation around fn.
func NewDeferred(fn func() (Value, error)) *Deferred {
	return &Deferred{fn: fn}
}

// DeferCall binds a callable and its arguments into a deferred computation.
func DeferCall(c Callable, args ...Value) *Deferred {
	bound := append([]Value(nil), args...)
	return NewDeferred(func() (Value, error) {
		return c.Call(bound...)
	})
}

// Resolve runs the computation. Resolve itself does not memoize; slots are
// responsible for calling it at most once.
func (d *Deferred) Resolve() (Value, error) {
	if d == nil || d.fn == nil {
		return nil, fmt.Errorf("resolve of empty deferred computation")
	}
	return d.fn()
}
