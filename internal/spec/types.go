package spec

import "strings"

// CollectionSuffix marks a "homogeneous collection of" type expression.
const CollectionSuffix = "[]"

// ScalarTag names a runtime value kind that type expressions can require.
type ScalarTag string

// Scalar tags. Aliases normalize to the first form listed in scalarAliases.
const (
	TagBool     ScalarTag = "bool"
	TagInt      ScalarTag = "int"
	TagFloat    ScalarTag = "float"
	TagString   ScalarTag = "string"
	TagArray    ScalarTag = "array"
	TagCallable ScalarTag = "callable"
	TagNull     ScalarTag = "null"
	TagNumeric  ScalarTag = "numeric"
	TagScalar   ScalarTag = "scalar"
	TagIterable ScalarTag = "iterable"
	TagObject   ScalarTag = "object"
)

var scalarAliases = map[string]ScalarTag{
	"bool":     TagBool,
	"boolean":  TagBool,
	"int":      TagInt,
	"integer":  TagInt,
	"long":     TagInt,
	"float":    TagFloat,
	"double":   TagFloat,
	"real":     TagFloat,
	"string":   TagString,
	"array":    TagArray,
	"callable": TagCallable,
	"null":     TagNull,
	"numeric":  TagNumeric,
	"scalar":   TagScalar,
	"iterable": TagIterable,
	"object":   TagObject,
}

// LookupScalar resolves a type name to a scalar tag.
func LookupScalar(name string) (ScalarTag, bool) {
	tag, ok := scalarAliases[strings.ToLower(name)]
	return tag, ok
}

// TypeExpr is one allowed type of a property: a scalar tag or an object
// type name, optionally as a homogeneous collection.
type TypeExpr struct {
	Name       string // as declared, without the collection suffix
	Collection bool
}

// Scalar returns the scalar tag of the expression's element type.
func (t TypeExpr) Scalar() (ScalarTag, bool) {
	return LookupScalar(t.Name)
}

// String renders the expression as declared.
func (t TypeExpr) String() string {
	if t.Collection {
		return t.Name + CollectionSuffix
	}
	return t.Name
}

// ParseType parses a single type expression. Only one collection suffix is
// stripped; "int[][]" is a collection of the object type "int[]".
func ParseType(s string) TypeExpr {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutSuffix(s, CollectionSuffix); ok && name != "" {
		return TypeExpr{Name: name, Collection: true}
	}
	return TypeExpr{Name: s}
}

// ParseTypes parses a pipe-delimited type string. An empty string yields
// nil, which means untyped.
func ParseTypes(s string) []TypeExpr {
	var out []TypeExpr
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, ParseType(part))
	}
	return out
}
