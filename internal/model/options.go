package model

import (
	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/value"
)

// Comparer reports whether two values are the same for change tracking.
type Comparer func(a, b value.Value) bool

type options struct {
	registry *registry.Registry
	comparer Comparer
}

// Option configures a container.
type Option func(*options)

// WithRegistry resolves the class through r instead of registry.Default.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithComparer sets the change-tracking comparison of an Entity.
// Default: value.Identical. Other containers ignore it.
func WithComparer(cmp Comparer) Option {
	return func(o *options) {
		o.comparer = cmp
	}
}

func buildOptions(opts []Option) options {
	o := options{
		registry: registry.Default,
		comparer: value.Identical,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = registry.Default
	}
	if o.comparer == nil {
		o.comparer = value.Identical
	}
	return o
}
