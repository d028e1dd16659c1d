package value

import "reflect"

// Identical reports whether a and b are the same value.
//
// Scalars and strings compare by variant and value, so Int(1) and Float(1)
// are not identical. Lists compare elementwise in order and maps by key set
// and member identity. Objects compare with Go == when the wrapped type is
// comparable (pointer identity for pointers) and with reflect.DeepEqual
// otherwise. Callables compare by function pointer, deferred handles by
// handle pointer.
func Identical(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Identical(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, exists := bv[k]
			if !exists || !Identical(elem, other) {
				return false
			}
		}
		return true
	case Callable:
		bv, ok := b.(Callable)
		if !ok {
			return false
		}
		if av.Fn == nil || bv.Fn == nil {
			return av.Fn == nil && bv.Fn == nil
		}
		return reflect.ValueOf(av.Fn).Pointer() == reflect.ValueOf(bv.Fn).Pointer()
	case *Deferred:
		bv, ok := b.(*Deferred)
		return ok && av == bv
	case Object:
		bv, ok := b.(Object)
		if !ok {
			return false
		}
		return sameObject(av.V, bv.V)
	default:
		return false
	}
}

func sameObject(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	// Value.Comparable also rejects interface fields holding slices or maps.
	if reflect.ValueOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
