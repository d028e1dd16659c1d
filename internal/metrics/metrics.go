// Package metrics exposes Prometheus counters for the property engine.
//
// Collectors are registered on a private registry by default so importing
// the engine never pollutes prometheus.DefaultRegisterer. Hosts that want
// the counters on their own registry call New with it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "propkit"

// Lazy resolution outcomes.
const (
	OutcomeResolved = "resolved"
	OutcomeFailed   = "failed"
)

// Collector groups the engine's counters. A nil *Collector is valid and
// records nothing.
type Collector struct {
	RegistryBuilds      prometheus.Counter
	RegistryDiagnostics *prometheus.CounterVec
	SlotRejections      prometheus.Counter
	LazyResolutions     *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		RegistryBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_builds_total",
			Help:      "Class registries built (once per concrete class).",
		}),
		RegistryDiagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_diagnostics_total",
			Help:      "Advisory diagnostics reported while building class registries.",
		}, []string{"kind"}),
		SlotRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_rejections_total",
			Help:      "Values rejected by a slot's type contract.",
		}),
		LazyResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lazy_resolutions_total",
			Help:      "Deferred computations resolved by lazy slots, by outcome.",
		}, []string{"outcome"}),
	}

	for _, col := range []prometheus.Collector{
		c.RegistryBuilds, c.RegistryDiagnostics, c.SlotRejections, c.LazyResolutions,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registry is the private registry backing Default.
var Registry = prometheus.NewRegistry()

// Default is the process-wide collector used when none is configured.
var Default = mustNew(Registry)

func mustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

// RegistryBuilt counts one registry build.
func (c *Collector) RegistryBuilt() {
	if c == nil {
		return
	}
	c.RegistryBuilds.Inc()
}

// Diagnostic counts one advisory diagnostic of the given kind.
func (c *Collector) Diagnostic(kind string) {
	if c == nil {
		return
	}
	c.RegistryDiagnostics.WithLabelValues(kind).Inc()
}

// Rejected counts one value rejected by a slot.
func (c *Collector) Rejected() {
	if c == nil {
		return
	}
	c.SlotRejections.Inc()
}

// LazyResolved counts one deferred computation resolution.
func (c *Collector) LazyResolved(ok bool) {
	if c == nil {
		return
	}
	outcome := OutcomeResolved
	if !ok {
		outcome = OutcomeFailed
	}
	c.LazyResolutions.WithLabelValues(outcome).Inc()
}
