package schema

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/spec"
)

func errCode(t *testing.T, err error) string {
	t.Helper()
	var se *Error
	require.True(t, errors.As(err, &se), "want *schema.Error, got %v", err)
	return se.Code
}

func assertPeople(t *testing.T, s *Schema) {
	t.Helper()

	assert.ElementsMatch(t, []string{"Person", "Employee"}, s.Names())

	emp, ok := s.Class("Employee")
	require.True(t, ok)
	person, ok := s.Class("Person")
	require.True(t, ok)
	assert.Same(t, person, emp.Parent)

	rec := &registry.Recorder{}
	reg := registry.New(registry.WithSink(rec), registry.WithMetrics(nil))
	specs, err := reg.Resolve(emp)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "tags", "score", "salary", "manager"}, specs.Names())

	id, _ := specs.Lookup("id")
	assert.Equal(t, spec.ReadOnly, id.Access())
	assert.Equal(t, "Stable identifier", id.Description())

	score, _ := specs.Lookup("score")
	assert.True(t, score.Lazy())

	name, _ := specs.Lookup("name")
	assert.Equal(t, []string{"string"}, name.TypeStrings())

	collisions := rec.OfKind(registry.DiagnosticCollision)
	require.Len(t, collisions, 1)
	assert.Equal(t, "name", collisions[0].Property)
}

func TestLoadYAML(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Employee", "Person"}, s.Names(), "file order is kept")
	assertPeople(t, s)
}

func TestLoadCUE(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "people.cue"))
	require.NoError(t, err)
	assertPeople(t, s)
}

func TestParseYAMLRejectsUnknownFields(t *testing.T) {
	_, err := ParseYAML([]byte("classes:\n  - name: A\n    propertes: []\n"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeParse, errCode(t, err))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		defs []ClassDef
		code string
	}{
		{"empty", nil, ErrCodeNoClasses},
		{"missing name", []ClassDef{{Name: ""}}, ErrCodeMissingName},
		{"duplicate", []ClassDef{{Name: "A"}, {Name: "A"}}, ErrCodeDuplicateClass},
		{"unknown parent", []ClassDef{{Name: "A", Extends: "Ghost"}}, ErrCodeUnknownParent},
		{"self cycle", []ClassDef{{Name: "A", Extends: "A"}}, ErrCodeCycle},
		{"cycle", []ClassDef{{Name: "A", Extends: "B"}, {Name: "B", Extends: "C"}, {Name: "C", Extends: "A"}}, ErrCodeCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.defs)
			require.Error(t, err)
			assert.Equal(t, tt.code, errCode(t, err))
		})
	}
}

func TestBuildSharedAncestor(t *testing.T) {
	s, err := Build([]ClassDef{
		{Name: "B", Extends: "A"},
		{Name: "C", Extends: "A"},
		{Name: "A", Properties: []spec.Candidate{{Name: "x"}}},
	})
	require.NoError(t, err)

	b, _ := s.Class("B")
	c, _ := s.Class("C")
	assert.Same(t, b.Parent, c.Parent)
	assert.Len(t, s.Classes(), 3)
}

func TestSchemaAsProvider(t *testing.T) {
	s, err := ParseYAML([]byte(`
classes:
  - name: Point
    properties:
      - {name: x, type: int}
      - {name: y, type: int}
`))
	require.NoError(t, err)

	// A class built elsewhere with no declared candidates resolves through
	// the schema by name.
	reg := registry.New(registry.WithProvider(s), registry.WithSink(&registry.Recorder{}), registry.WithMetrics(nil))
	specs, err := reg.Resolve(registry.NewClass("Point", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, specs.Names())

	_, err = reg.Resolve(registry.NewClass("Other", nil))
	var pe *registry.ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestParseCUEErrors(t *testing.T) {
	_, err := ParseCUE([]byte(`foo: 1`), "x.cue")
	assert.Equal(t, ErrCodeNoClasses, errCode(t, err))

	_, err = ParseCUE([]byte(`class: A: { extends: 3 }`), "x.cue")
	assert.Equal(t, ErrCodeInvalidField, errCode(t, err))

	_, err = ParseCUE([]byte(`class: A: property: p: { lazy: "yes" }`), "x.cue")
	assert.Equal(t, ErrCodeInvalidField, errCode(t, err))
	assert.Contains(t, err.Error(), "x.cue")

	_, err = ParseCUE([]byte(`class: A: {`), "broken.cue")
	assert.Equal(t, ErrCodeParse, errCode(t, err))
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.Equal(t, ErrCodeRead, errCode(t, err))

	_, err = Load(filepath.Join("schema_test.go"))
	assert.Equal(t, ErrCodeUnknownFormat, errCode(t, err))
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	data, err := MarshalYAML(s)
	require.NoError(t, err)

	again, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, s.Defs(), again.Defs())
}
