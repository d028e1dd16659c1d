package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	c.RegistryBuilt()
	c.Diagnostic("collision")
	c.Diagnostic("collision")
	c.Rejected()
	c.LazyResolved(true)
	c.LazyResolved(false)
	c.LazyResolved(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.RegistryBuilds))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.RegistryDiagnostics.WithLabelValues("collision")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SlotRejections))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LazyResolutions.WithLabelValues(OutcomeResolved)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.LazyResolutions.WithLabelValues(OutcomeFailed)))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RegistryBuilt()
		c.Diagnostic("collision")
		c.Rejected()
		c.LazyResolved(true)
	})
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}

func TestDefaultRegisteredOnPrivateRegistry(t *testing.T) {
	families, err := Registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	// Counters without label values are always gathered.
	assert.Contains(t, names, "propkit_registry_builds_total")
	assert.Contains(t, names, "propkit_slot_rejections_total")
}
