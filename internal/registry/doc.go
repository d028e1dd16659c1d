// Package registry merges per-class property candidates into resolved,
// shared spec tables.
//
// A Class names its parent and carries a static candidate table plus
// optional override capabilities. Resolve walks the parent chain root
// first, asks the Provider for each level's candidates and merges them so
// that an ancestor's declaration always wins. Re-declarations are reported
// as diagnostics, never as errors; a candidate without a name aborts the
// build.
//
// Each class is built once per Registry. The resulting *Specs is shared
// by every container of that class and must not be modified.
//
// Override capabilities are typed with the generic adapters Get and Set:
//
//	var Person = registry.NewClass("Person", nil,
//		spec.Candidate{Name: "name", Type: "string"},
//	).WithGetter("name", registry.Get(func(p *PersonModel, st registry.Storage) (value.Value, error) {
//		return st.Load("name")
//	}))
package registry
