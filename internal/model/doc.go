// Package model provides the property containers model objects embed.
//
// A Container implements the dynamic access protocol over a class's
// resolved specs: Has, IsReadable, IsWriteable, Get, Set, Contains and
// Remove. Reads and writes consult the class's override capabilities
// before falling back to slot storage.
//
// Two policies layer on top:
//
//	Entity       mutable; remembers the first value assigned to each
//	             property and reports which properties changed since
//	ValueObject  write-once; a set property can not be set again and
//	             nothing can be removed
//
// Typical use embeds the container in the model type and passes the model
// as host so override capabilities receive it:
//
//	type Person struct{ *model.Entity }
//
//	func NewPerson() *Person {
//		p := &Person{}
//		p.Entity = model.MustNewEntity(p, PersonClass)
//		return p
//	}
//
// Access-protocol failures are *PropertyError values; type failures are
// *slot.InvalidValueError.
package model
