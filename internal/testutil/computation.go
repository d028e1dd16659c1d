// Package testutil holds helpers shared by the engine's tests.
package testutil

import (
	"sync"

	"github.com/roach88/propkit/internal/value"
)

// Computation is a deferred computation that counts how often it runs.
// It always produces the same result, so tests can assert that a lazy
// slot resolved it exactly once.
//
// Safe for concurrent use.
type Computation struct {
	mu     sync.Mutex
	calls  int
	result value.Value
	err    error
}

// NewComputation returns a computation producing result and err.
func NewComputation(result value.Value, err error) *Computation {
	return &Computation{result: result, err: err}
}

// Counted is a shorthand returning a fresh handle for a new computation
// together with the computation itself.
func Counted(result value.Value, err error) (*value.Deferred, *Computation) {
	c := NewComputation(result, err)
	return c.Deferred(), c
}

// Deferred returns a new handle that runs the computation when resolved.
// Every call returns a distinct handle.
func (c *Computation) Deferred() *value.Deferred {
	return value.NewDeferred(c.run)
}

// Calls returns how many times the computation ran.
func (c *Computation) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset zeroes the run count.
func (c *Computation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}

func (c *Computation) run() (value.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.result, c.err
}
