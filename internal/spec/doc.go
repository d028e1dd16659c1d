// Package spec describes declared properties.
//
// A metadata provider supplies raw Candidate records per class level; the
// registry turns each into an immutable Spec. A Spec carries the property
// name, its allowed type expressions (nil means untyped), its access mode
// and an optional description.
//
// Type expressions are parsed from pipe-delimited strings such as
// "int|string[]|null". A "[]" suffix means "homogeneous collection of".
// Names that are not scalar tags are object type names.
package spec
