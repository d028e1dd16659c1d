package value

// Clone returns a deep copy of the List and Map structure of v so the copy
// shares no collection memory with v. Other variants are returned as-is:
// scalars are immutable, and Objects, Callables and deferred handles are
// references by definition.
func Clone(v Value) Value {
	switch val := v.(type) {
	case List:
		if val == nil {
			return val
		}
		out := make(List, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case Map:
		if val == nil {
			return val
		}
		out := make(Map, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	default:
		return v
	}
}
