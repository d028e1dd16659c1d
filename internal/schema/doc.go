// Package schema loads class declarations from YAML or CUE files and links
// them into registry class descriptors.
//
// A schema replaces source-level property annotations: each class lists
// its parent and the property candidates it declares itself. Build checks
// that class names are unique, that every parent exists and that no
// inheritance chain loops. Property-level checks (missing names,
// collisions) are left to the registry, which reports them when a class
// is resolved.
package schema
