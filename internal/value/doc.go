// Package value defines the closed set of values a property slot can hold.
//
// Value is a sealed interface: type matching against declared property
// types is a type switch over the variants in this package, never runtime
// inspection of arbitrary Go values. Arbitrary Go values enter only through
// the Object variant, which is matched by its dynamic Go type.
//
// This package imports nothing internal. All other internal packages build
// on it.
package value
