package schema

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue/token"

	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/spec"
)

// ClassDef is one class as written in a schema file.
type ClassDef struct {
	// Name identifies the class within the schema.
	Name string `yaml:"name" json:"name"`

	// Extends names the parent class, if any.
	Extends string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Properties are the candidates this class declares itself, in order.
	Properties []spec.Candidate `yaml:"properties,omitempty" json:"properties,omitempty"`

	// Pos is the source position for CUE schemas.
	Pos token.Pos `yaml:"-" json:"-"`
}

// Document is the top level of a YAML schema.
type Document struct {
	Classes []ClassDef `yaml:"classes"`
}

// Error codes.
const (
	ErrCodeRead           = "READ_FAILED"
	ErrCodeParse          = "PARSE_FAILED"
	ErrCodeNoClasses      = "NO_CLASSES"
	ErrCodeMissingName    = "MISSING_NAME"
	ErrCodeDuplicateClass = "DUPLICATE_CLASS"
	ErrCodeUnknownParent  = "UNKNOWN_PARENT"
	ErrCodeCycle          = "INHERITANCE_CYCLE"
	ErrCodeInvalidField   = "INVALID_FIELD"
	ErrCodeUnknownFormat  = "UNKNOWN_FORMAT"
)

// Error is a schema load or validation failure.
type Error struct {
	Code    string
	Class   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Class != "" {
		msg = fmt.Sprintf("class %q: %s", e.Class, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Schema is a validated set of class definitions turned into linked
// registry class descriptors. It also serves as a registry.Provider.
type Schema struct {
	defs    map[string]*ClassDef
	classes map[string]*registry.Class
	order   []string
}

// Build validates defs and links them into class descriptors. Classes may
// appear in any order; every Extends must name a class in defs.
func Build(defs []ClassDef) (*Schema, error) {
	if len(defs) == 0 {
		return nil, &Error{Code: ErrCodeNoClasses, Message: "schema declares no classes"}
	}

	s := &Schema{
		defs:    make(map[string]*ClassDef, len(defs)),
		classes: make(map[string]*registry.Class, len(defs)),
	}
	for i := range defs {
		def := &defs[i]
		if def.Name == "" {
			return nil, &Error{Code: ErrCodeMissingName, Message: fmt.Sprintf("class %d has no name", i), Pos: def.Pos}
		}
		if _, dup := s.defs[def.Name]; dup {
			return nil, &Error{Code: ErrCodeDuplicateClass, Class: def.Name, Message: "declared more than once", Pos: def.Pos}
		}
		s.defs[def.Name] = def
		s.order = append(s.order, def.Name)
	}
	for _, name := range s.order {
		if _, err := s.link(name, nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// link creates the class for name after its ancestors. path holds the
// classes currently being linked, for cycle detection.
func (s *Schema) link(name string, path []string) (*registry.Class, error) {
	if c, ok := s.classes[name]; ok {
		return c, nil
	}
	def := s.defs[name]
	if slices.Contains(path, name) {
		return nil, &Error{
			Code:    ErrCodeCycle,
			Class:   name,
			Message: fmt.Sprintf("inheritance cycle %v", append(path, name)),
			Pos:     def.Pos,
		}
	}

	var parent *registry.Class
	if def.Extends != "" {
		if _, ok := s.defs[def.Extends]; !ok {
			return nil, &Error{
				Code:    ErrCodeUnknownParent,
				Class:   name,
				Message: fmt.Sprintf("extends unknown class %q", def.Extends),
				Pos:     def.Pos,
			}
		}
		var err error
		parent, err = s.link(def.Extends, append(path, name))
		if err != nil {
			return nil, err
		}
	}

	c := registry.NewClass(def.Name, parent, def.Properties...)
	s.classes[name] = c
	return c, nil
}

// Class returns the descriptor for name.
func (s *Schema) Class(name string) (*registry.Class, bool) {
	c, ok := s.classes[name]
	return c, ok
}

// Classes returns every class in schema order.
func (s *Schema) Classes() []*registry.Class {
	out := make([]*registry.Class, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.classes[name])
	}
	return out
}

// Names returns class names in schema order.
func (s *Schema) Names() []string {
	return slices.Clone(s.order)
}

// Defs returns the class definitions in schema order.
func (s *Schema) Defs() []ClassDef {
	out := make([]ClassDef, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.defs[name])
	}
	return out
}

// Candidates implements registry.Provider by class name, so classes built
// elsewhere with the same names resolve against this schema.
func (s *Schema) Candidates(c *registry.Class) ([]spec.Candidate, error) {
	def, ok := s.defs[c.Name]
	if !ok {
		return nil, fmt.Errorf("class %q is not in the schema", c.Name)
	}
	return def.Properties, nil
}
