// Package slot implements per-property storage cells with runtime type
// enforcement.
//
// A Slot validates every write against its spec's allowed type expressions
// in declaration order; the first match wins. A Lazy slot additionally
// accepts a deferred computation, resolves it exactly once on first read
// and validates the result like any other write.
//
// Slots are owned by a single container and are not safe for concurrent
// use. The Env they share (object type table, metrics) is read-only once
// built.
package slot
