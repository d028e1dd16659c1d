package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// FromGo converts plain Go data into a Value.
//
// nil becomes Null, numeric types become Int or Float, []any and
// map[string]any convert recursively, func(...Value) (Value, error) becomes a
// Callable, and existing Values pass through. Anything else is wrapped as an
// Object.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return fromUint(val)
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = converted
		}
		return list, nil
	case map[string]any:
		m := make(Map, len(val))
		for k, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m[k] = converted
		}
		return m, nil
	case func(args ...Value) (Value, error):
		return Callable{Fn: val}, nil
	default:
		return Object{V: v}, nil
	}
}

// MustFromGo is like FromGo but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFromGo(v any) Value {
	converted, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return converted
}

func fromUint(n uint64) (Value, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("number out of int64 range: %d", n)
	}
	return Int(n), nil
}

// ToGo converts a Value back into plain Go data. Objects unwrap to the held
// value; callables and deferred handles are returned as-is.
func ToGo(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	case Map:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToGo(elem)
		}
		return out
	case Object:
		return val.V
	default:
		return val
	}
}

// IsNumericString reports whether s is a decimal integer or float literal,
// optionally surrounded by whitespace. Hex, infinities and NaN are rejected.
func IsNumericString(s String) bool {
	trimmed := strings.TrimSpace(string(s))
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-':
		default:
			return false
		}
	}
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}

// typeOfObject returns the dynamic type held by an Object, or nil.
func typeOfObject(o Object) reflect.Type {
	if o.V == nil {
		return nil
	}
	return reflect.TypeOf(o.V)
}

// TypeOf returns the Go type wrapped by an Object value, or nil for any
// other variant.
func TypeOf(v Value) reflect.Type {
	o, ok := v.(Object)
	if !ok {
		return nil
	}
	return typeOfObject(o)
}
