package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/propkit/internal/spec"
)

// ParseCUE compiles a CUE schema source. filename is used for positions.
func ParseCUE(data []byte, filename string) (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	return CompileCUE(v)
}

// CompileCUE extracts class definitions from a built CUE value of the form
//
//	class: Person: {
//		extends: "Base"
//		property: age: {access: "read", type: "int|null"}
//		property: nick: "string"
//	}
//
// A property given as a bare string is shorthand for its type.
func CompileCUE(v cue.Value) (*Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	classesVal := v.LookupPath(cue.ParsePath("class"))
	if !classesVal.Exists() {
		return nil, &Error{Code: ErrCodeNoClasses, Message: "no class field in schema", Pos: v.Pos()}
	}
	iter, err := classesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []ClassDef
	for iter.Next() {
		def, err := compileClass(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return Build(defs)
}

func compileClass(name string, v cue.Value) (ClassDef, error) {
	def := ClassDef{Name: name, Pos: v.Pos()}

	if ext := v.LookupPath(cue.ParsePath("extends")); ext.Exists() {
		s, err := ext.String()
		if err != nil {
			return def, &Error{Code: ErrCodeInvalidField, Class: name, Message: "extends must be a string", Pos: ext.Pos()}
		}
		def.Extends = s
	}

	props := v.LookupPath(cue.ParsePath("property"))
	if !props.Exists() {
		return def, nil
	}
	iter, err := props.Fields()
	if err != nil {
		return def, formatCUEError(err)
	}
	for iter.Next() {
		c, err := compileProperty(name, iter.Label(), iter.Value())
		if err != nil {
			return def, err
		}
		def.Properties = append(def.Properties, c)
	}
	return def, nil
}

func compileProperty(class, name string, v cue.Value) (spec.Candidate, error) {
	c := spec.Candidate{Name: spec.NormalizeName(name)}

	// Shorthand: property: nick: "string"
	if typ, err := v.String(); err == nil {
		c.Type = typ
		return c, nil
	}

	fields := []struct {
		name string
		dst  *string
	}{
		{"access", &c.Access},
		{"type", &c.Type},
		{"description", &c.Description},
	}
	for _, f := range fields {
		field, dst := f.name, f.dst
		fv := v.LookupPath(cue.ParsePath(field))
		if !fv.Exists() {
			continue
		}
		s, err := fv.String()
		if err != nil {
			return c, &Error{
				Code:    ErrCodeInvalidField,
				Class:   class,
				Message: fmt.Sprintf("property %q: %s must be a string", name, field),
				Pos:     fv.Pos(),
			}
		}
		*dst = s
	}

	if lv := v.LookupPath(cue.ParsePath("lazy")); lv.Exists() {
		b, err := lv.Bool()
		if err != nil {
			return c, &Error{
				Code:    ErrCodeInvalidField,
				Class:   class,
				Message: fmt.Sprintf("property %q: lazy must be a bool", name),
				Pos:     lv.Pos(),
			}
		}
		c.Lazy = b
	}
	return c, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: ErrCodeParse, Message: err.Error()}
	}
	first := errs[0]
	out := &Error{Code: ErrCodeParse, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
