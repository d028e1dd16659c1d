package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/roach88/propkit/internal/metrics"
	"github.com/roach88/propkit/internal/slot"
	"github.com/roach88/propkit/internal/spec"
)

// Registry resolves class descriptors into merged property specs and
// caches the result per class.
type Registry struct {
	provider Provider
	types    *slot.Types
	sink     DiagnosticSink
	logger   *slog.Logger
	metrics  *metrics.Collector

	env   *slot.Env
	cache sync.Map // *Class -> *entry
}

type entry struct {
	once  sync.Once
	specs *Specs
	err   error
}

// Option configures a Registry.
type Option func(*Registry)

// WithProvider sets the metadata provider. Default: Static.
func WithProvider(p Provider) Option {
	return func(r *Registry) {
		r.provider = p
	}
}

// WithTypes sets the object type table slots validate against.
// Default: slot.DefaultTypes().
func WithTypes(t *slot.Types) Option {
	return func(r *Registry) {
		r.types = t
	}
}

// WithSink sets where advisory diagnostics go. Default: SlogSink on the
// registry's logger.
func WithSink(s DiagnosticSink) Option {
	return func(r *Registry) {
		r.sink = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMetrics sets the metrics collector. Default: metrics.Default.
// Pass nil to disable metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New creates a Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		provider: Static,
		metrics:  metrics.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.types == nil {
		r.types = slot.DefaultTypes()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.sink == nil {
		r.sink = SlogSink{Logger: r.logger}
	}
	r.env = &slot.Env{Types: r.types, Metrics: r.metrics}
	return r
}

// Default is the process-wide registry used by containers constructed
// without an explicit one.
var Default = New()

// Env returns the slot environment shared by every class this registry
// resolves.
func (r *Registry) Env() *slot.Env {
	return r.env
}

// Resolve returns the merged specs for c, building them on first use.
// Concurrent callers for the same class block until the single build
// finishes and then share its result, including a build error.
func (r *Registry) Resolve(c *Class) (*Specs, error) {
	if c == nil {
		return nil, ErrNilClass
	}
	e, _ := r.cache.LoadOrStore(c, &entry{})
	ent := e.(*entry)
	ent.once.Do(func() {
		ent.specs, ent.err = r.build(c)
	})
	return ent.specs, ent.err
}

// MustResolve is like Resolve but panics on error.
func (r *Registry) MustResolve(c *Class) *Specs {
	s, err := r.Resolve(c)
	if err != nil {
		panic(err)
	}
	return s
}

// build merges root to leaf. Ancestors win on name collision.
func (r *Registry) build(c *Class) (*Specs, error) {
	chain, err := c.Chain()
	if err != nil {
		return nil, err
	}

	s := &Specs{
		class:      c,
		env:        r.env,
		byName:     make(map[string]*spec.Spec),
		declaredIn: make(map[string]string),
		getters:    make(map[string]Getter),
		setters:    make(map[string]Setter),
	}

	for _, level := range chain {
		candidates, err := r.provider.Candidates(level)
		if err != nil {
			return nil, &ProviderError{Class: c.Name, Level: level.Name, Err: err}
		}
		for i, cand := range candidates {
			ps, err := spec.FromCandidate(level.Name, i, cand)
			if err != nil {
				return nil, err
			}
			if owner, dup := s.declaredIn[ps.Name()]; dup {
				r.report(Diagnostic{
					Kind:     DiagnosticCollision,
					Class:    c.Name,
					Level:    level.Name,
					Property: ps.Name(),
					Message:  fmt.Sprintf("already declared by %q; re-declaration ignored", owner),
				})
				continue
			}
			s.order = append(s.order, ps.Name())
			s.byName[ps.Name()] = ps
			s.declaredIn[ps.Name()] = level.Name
		}
		// Descendant overrides replace ancestor ones.
		for name, g := range level.getters {
			s.getters[name] = g
		}
		for name, st := range level.setters {
			s.setters[name] = st
		}
	}

	dropOrphans(r, s, s.getters, "getter")
	dropOrphans(r, s, s.setters, "setter")

	if len(s.order) == 0 {
		r.report(Diagnostic{
			Kind:    DiagnosticNoProperties,
			Class:   c.Name,
			Level:   c.Name,
			Message: "class declares no typed properties",
		})
	}

	r.metrics.RegistryBuilt()
	r.logger.Debug("class registry built",
		"class", c.Name,
		"levels", len(chain),
		"properties", len(s.order),
	)
	return s, nil
}

// dropOrphans removes overrides for undeclared names, reporting each.
func dropOrphans[F any](r *Registry, s *Specs, overrides map[string]F, kind string) {
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if _, ok := s.byName[name]; !ok {
			delete(overrides, name)
			r.report(Diagnostic{
				Kind:     DiagnosticOrphanOverride,
				Class:    s.class.Name,
				Level:    s.class.Name,
				Property: name,
				Message:  kind + " override for undeclared property",
			})
		}
	}
}

func (r *Registry) report(d Diagnostic) {
	r.metrics.Diagnostic(string(d.Kind))
	r.sink.Report(d)
}

// Specs is the resolved, read-only property registry of one class.
type Specs struct {
	class      *Class
	env        *slot.Env
	order      []string
	byName     map[string]*spec.Spec
	declaredIn map[string]string
	getters    map[string]Getter
	setters    map[string]Setter
}

// Class returns the class the specs were resolved for.
func (s *Specs) Class() *Class { return s.class }

// Env returns the slot environment for this class.
func (s *Specs) Env() *slot.Env { return s.env }

// Lookup returns the spec for name.
func (s *Specs) Lookup(name string) (*spec.Spec, bool) {
	ps, ok := s.byName[name]
	return ps, ok
}

// Has reports whether name is a declared property.
func (s *Specs) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns property names in declaration order, ancestors first.
func (s *Specs) Names() []string {
	return slices.Clone(s.order)
}

// Len returns the number of properties.
func (s *Specs) Len() int { return len(s.order) }

// DeclaredIn returns the name of the class level that declared name.
func (s *Specs) DeclaredIn(name string) string {
	return s.declaredIn[name]
}

// Getter returns the read override for name, if any.
func (s *Specs) Getter(name string) (Getter, bool) {
	g, ok := s.getters[name]
	return g, ok
}

// Setter returns the write override for name, if any.
func (s *Specs) Setter(name string) (Setter, bool) {
	st, ok := s.setters[name]
	return st, ok
}
