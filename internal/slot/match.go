package slot

import (
	"github.com/roach88/propkit/internal/spec"
	"github.com/roach88/propkit/internal/value"
)

// Matches reports whether v satisfies the type expression.
//
//   - scalar tag: v's runtime kind equals the tag exactly
//   - object type: v is an Object whose dynamic type is an instance of it
//   - collection: v is a List or Map and every member satisfies the element
//     rule; an empty collection always matches
func Matches(types *Types, expr spec.TypeExpr, v value.Value) bool {
	if !expr.Collection {
		return matchElement(types, expr.Name, v)
	}
	elems, ok := value.Elements(v)
	if !ok {
		return false
	}
	for _, elem := range elems {
		if !matchElement(types, expr.Name, elem) {
			return false
		}
	}
	return true
}

func matchElement(types *Types, name string, v value.Value) bool {
	if tag, ok := spec.LookupScalar(name); ok {
		return matchScalar(tag, v)
	}
	return types.instanceOf(value.TypeOf(v), name)
}

func matchScalar(tag spec.ScalarTag, v value.Value) bool {
	switch tag {
	case spec.TagBool:
		_, ok := v.(value.Bool)
		return ok
	case spec.TagInt:
		_, ok := v.(value.Int)
		return ok
	case spec.TagFloat:
		_, ok := v.(value.Float)
		return ok
	case spec.TagString:
		_, ok := v.(value.String)
		return ok
	case spec.TagNull:
		_, ok := v.(value.Null)
		return ok
	case spec.TagCallable:
		_, ok := v.(value.Callable)
		return ok
	case spec.TagArray, spec.TagIterable:
		_, ok := value.Elements(v)
		return ok
	case spec.TagObject:
		o, ok := v.(value.Object)
		return ok && o.V != nil
	case spec.TagScalar:
		switch v.(type) {
		case value.Bool, value.Int, value.Float, value.String:
			return true
		}
		return false
	case spec.TagNumeric:
		switch val := v.(type) {
		case value.Int, value.Float:
			return true
		case value.String:
			return value.IsNumericString(val)
		}
		return false
	default:
		return false
	}
}

// Validate checks v against a spec's type contract without storing it.
// Untyped specs accept everything.
func Validate(types *Types, s *spec.Spec, v value.Value) error {
	if s.Untyped() {
		return nil
	}
	for _, expr := range s.Types() {
		if Matches(types, expr, v) {
			return nil
		}
	}
	return &InvalidValueError{
		Property: s.Name(),
		Allowed:  s.TypeStrings(),
		Actual:   value.KindOf(v),
	}
}
