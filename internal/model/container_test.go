package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propkit/internal/metrics"
	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/slot"
	"github.com/roach88/propkit/internal/spec"
	"github.com/roach88/propkit/internal/testutil"
	"github.com/roach88/propkit/internal/value"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return registry.New(registry.WithSink(&registry.Recorder{}), registry.WithMetrics(m))
}

var personClass = registry.NewClass("Person", nil,
	spec.Candidate{Name: "id", Type: "int", Access: "read"},
	spec.Candidate{Name: "name", Type: "string"},
	spec.Candidate{Name: "age", Type: "int"},
	spec.Candidate{Name: "tags", Type: "string[]"},
	spec.Candidate{Name: "password", Type: "string", Access: "write"},
	spec.Candidate{Name: "note"},
)

func newPerson(t *testing.T) *Container {
	t.Helper()
	c, err := New(nil, personClass, WithRegistry(testRegistry(t)))
	require.NoError(t, err)
	return c
}

func TestContainerRoundTrip(t *testing.T) {
	c := newPerson(t)

	values := map[string]value.Value{
		"name": value.String("Ada"),
		"age":  value.Int(36),
		"tags": value.NewList(value.String("math")),
		"note": value.NewObject(struct{ X int }{1}),
	}
	for name, v := range values {
		require.NoError(t, c.Set(name, v), name)
		got, err := c.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, v, got, name)
	}
}

func TestContainerAgeScenario(t *testing.T) {
	c := newPerson(t)

	require.NoError(t, c.Set("age", value.Int(5)))
	got, err := c.Get("age")
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), got)

	err = c.Set("age", value.String("five"))
	var ive *slot.InvalidValueError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, []string{"int"}, ive.Allowed)
	assert.Equal(t, "string", ive.Actual)

	got, err = c.Get("age")
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), got, "rejected write leaves the value in place")
}

func TestContainerTagsScenario(t *testing.T) {
	c := newPerson(t)

	require.NoError(t, c.Set("tags", value.NewList()))
	err := c.Set("tags", value.NewList(value.String("a"), value.Int(2)))
	assert.True(t, slot.IsInvalidValue(err))
}

func TestContainerRejectedWriteKeepsContains(t *testing.T) {
	c := newPerson(t)

	require.Error(t, c.Set("age", value.Null{}))
	ok, err := c.Contains("age")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainerUnknownProperty(t *testing.T) {
	c := newPerson(t)

	assert.False(t, c.Has("missing"))

	_, err := c.Get("missing")
	assert.True(t, IsUnknownProperty(err))
	assert.True(t, IsUnknownProperty(c.Set("missing", value.Int(1))))
	assert.True(t, IsUnknownProperty(c.Remove("missing")))
	_, err = c.Contains("missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)
	_, err = c.IsReadable("missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)
	_, err = c.IsWriteable("missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	var pe *PropertyError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Person", pe.Class)
	assert.Equal(t, "missing", pe.Property)
	assert.Equal(t, "UNKNOWN_PROPERTY: Person.missing: property is not declared", err.Error())
}

func TestContainerAccessModes(t *testing.T) {
	c := newPerson(t)

	readable, err := c.IsReadable("password")
	require.NoError(t, err)
	assert.False(t, readable)
	writeable, err := c.IsWriteable("id")
	require.NoError(t, err)
	assert.False(t, writeable)

	require.NoError(t, c.Set("password", value.String("secret")))
	_, err = c.Get("password")
	assert.True(t, IsNotReadable(err))

	err = c.Set("id", value.Int(1))
	assert.True(t, IsNotWriteable(err))
	assert.True(t, IsNotWriteable(c.Remove("id")))

	require.NoError(t, c.Storage().Store("id", value.Int(1)), "raw storage skips access modes")
	got, err := c.Get("id")
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), got)
}

func TestContainerNotYetSet(t *testing.T) {
	c := newPerson(t)

	_, err := c.Get("name")
	assert.ErrorIs(t, err, ErrNotYetSet)
	assert.False(t, errors.Is(err, ErrUnknownProperty))
}

func TestContainerUnsetIdempotent(t *testing.T) {
	c := newPerson(t)
	require.NoError(t, c.Set("name", value.String("Ada")))

	require.NoError(t, c.Remove("name"))
	require.NoError(t, c.Remove("name"))
	ok, err := c.Contains("name")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Remove("age"), "removing a never-touched property succeeds")
}

func TestContainerSnapshotAndNames(t *testing.T) {
	c := newPerson(t)
	require.NoError(t, c.Set("name", value.String("Ada")))
	require.NoError(t, c.Set("password", value.String("secret")))

	assert.Equal(t, map[string]value.Value{"name": value.String("Ada")}, c.Snapshot())
	assert.Equal(t, []string{"id", "name", "age", "tags", "password", "note"}, c.Names())
	assert.Same(t, personClass, c.Class())
}

func TestContainerBadClass(t *testing.T) {
	bad := registry.NewClass("Bad", nil, spec.Candidate{Type: "int"})

	_, err := New(nil, bad, WithRegistry(testRegistry(t)))
	var mne *spec.MissingNameError
	assert.ErrorAs(t, err, &mne)

	assert.Panics(t, func() { MustNew(nil, bad, WithRegistry(testRegistry(t))) })
}

// upperPerson stores names upper-cased and exposes a computed greeting.
type upperPerson struct {
	*Container
	reads int
}

var upperClass = registry.NewClass("UpperPerson", nil,
	spec.Candidate{Name: "name", Type: "string"},
	spec.Candidate{Name: "greeting", Type: "string", Access: "read"},
).
	WithSetter("name", registry.Set(func(p *upperPerson, st registry.Storage, v value.Value) error {
		s, ok := v.(value.String)
		if !ok {
			return st.Store("name", v)
		}
		return st.Store("name", value.String(strings.ToUpper(string(s))))
	})).
	WithGetter("greeting", registry.Get(func(p *upperPerson, st registry.Storage) (value.Value, error) {
		p.reads++
		name, err := st.Load("name")
		if err != nil {
			return nil, err
		}
		return value.String("hello " + string(name.(value.String))), nil
	}))

func TestContainerOverrides(t *testing.T) {
	p := &upperPerson{}
	p.Container = MustNew(p, upperClass, WithRegistry(testRegistry(t)))

	require.NoError(t, p.Set("name", value.String("ada")))
	got, err := p.Get("name")
	require.NoError(t, err)
	assert.Equal(t, value.String("ADA"), got)

	greeting, err := p.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, value.String("hello ADA"), greeting)
	assert.Equal(t, 1, p.reads)

	ok, err := p.Contains("greeting")
	require.NoError(t, err)
	assert.False(t, ok, "computed reads bypass storage")

	err = p.Set("name", value.Int(1))
	assert.True(t, slot.IsInvalidValue(err), "override delegating to storage keeps validation")
}

func TestContainerOverrideNotYetSet(t *testing.T) {
	p := &upperPerson{}
	p.Container = MustNew(p, upperClass, WithRegistry(testRegistry(t)))

	_, err := p.Get("greeting")
	assert.True(t, IsNotYetSet(err))
}

func TestContainerOverrideWrongHost(t *testing.T) {
	c := MustNew(nil, upperClass, WithRegistry(testRegistry(t)))

	err := c.Set("name", value.String("x"))
	var hte *registry.HostTypeError
	assert.ErrorAs(t, err, &hte)
}

var lazyClass = registry.NewClass("Report", nil,
	spec.Candidate{Name: "total", Type: "int", Lazy: true},
)

func TestContainerCollectionsAreCopied(t *testing.T) {
	c := MustNew(nil, personClass, WithRegistry(testRegistry(t)))
	tags := value.NewList(value.String("a"))
	require.NoError(t, c.Set("tags", tags))

	tags[0] = value.Int(2)

	got, err := c.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, value.NewList(value.String("a")), got)

	got.(value.List)[0] = value.Int(3)
	assert.Equal(t, value.NewList(value.String("a")), c.Snapshot()["tags"])
}

func TestContainerLazyProperty(t *testing.T) {
	c := MustNew(nil, lazyClass, WithRegistry(testRegistry(t)))
	d, calls := testutil.Counted(value.Int(10), nil)

	require.NoError(t, c.Set("total", d))
	ok, err := c.Contains("total")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]value.Value{"total": d}, c.Snapshot(), "snapshot does not resolve")

	for range 2 {
		got, err := c.Get("total")
		require.NoError(t, err)
		assert.Equal(t, value.Int(10), got)
	}
	assert.Equal(t, 1, calls.Calls())

	var ape *slot.AlreadyPendingError
	require.NoError(t, c.Remove("total"))
	require.NoError(t, c.Set("total", d))
	assert.ErrorAs(t, c.Set("total", d), &ape)
}
