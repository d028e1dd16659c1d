package value

import (
	"fmt"
	"reflect"
	"slices"
)

// Value is a sealed interface over every value a property slot can hold.
// Only Null, Bool, Int, Float, String, List, Map, Callable, Object and
// *Deferred implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents the absence of a value that was explicitly assigned.
// It is distinct from an empty slot: a slot holding Null is set.
type Null struct{}

func (Null) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) value() {}

// Float represents a floating point value. Never matches an integer type.
type Float float64

func (Float) value() {}

// String represents a string value.
type String string

func (String) value() {}

// List represents an ordered, finite sequence of values.
type List []Value

func (List) value() {}

// Map represents a keyed collection of values.
// Use SortedKeys() for deterministic iteration.
type Map map[string]Value

func (Map) value() {}

// Callable wraps a Go function so it can be stored and type-matched as
// the "callable" scalar kind.
type Callable struct {
	Fn func(args ...Value) (Value, error)
}

func (Callable) value() {}

// Call invokes the wrapped function.
func (c Callable) Call(args ...Value) (Value, error) {
	if c.Fn == nil {
		return nil, fmt.Errorf("call of nil callable")
	}
	return c.Fn(args...)
}

// Object holds a reference to an arbitrary Go value. Object types are
// matched by the dynamic Go type of V.
type Object struct {
	V any
}

func (Object) value() {}

// NewObject wraps v as an Object value.
func NewObject(v any) Object {
	return Object{V: v}
}

// NewList creates a List from values.
func NewList(vals ...Value) List {
	return List(vals)
}

// Pair is a key-value pair for Map construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: NewMap(P("name", String("cart")), P("count", Int(5)))
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// NewMap creates a Map from pairs.
func NewMap(pairs ...Pair) Map {
	m := make(Map, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// SortedKeys returns the map keys in byte order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Elements returns the members of a collection value in iteration order:
// List in index order, Map in key order. ok is false for non-collections.
func Elements(v Value) (elems []Value, ok bool) {
	switch val := v.(type) {
	case List:
		return val, true
	case Map:
		elems = make([]Value, 0, len(val))
		for _, k := range val.SortedKeys() {
			elems = append(elems, val[k])
		}
		return elems, true
	default:
		return nil, false
	}
}

// Kind names reported for runtime values.
const (
	KindNull     = "null"
	KindBool     = "boolean"
	KindInt      = "integer"
	KindFloat    = "float"
	KindString   = "string"
	KindArray    = "array"
	KindCallable = "callable"
	KindDeferred = "deferred"
	KindNil      = "nil"
)

// KindOf returns the runtime type name of v. Objects report the concrete Go
// type of the wrapped value.
func KindOf(v Value) string {
	switch val := v.(type) {
	case nil:
		return KindNil
	case Null:
		return KindNull
	case Bool:
		return KindBool
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case String:
		return KindString
	case List, Map:
		return KindArray
	case Callable:
		return KindCallable
	case *Deferred:
		return KindDeferred
	case Object:
		if val.V == nil {
			return KindNil
		}
		return reflect.TypeOf(val.V).String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
