package model

import (
	"errors"
	"fmt"
)

// Code categorizes container access failures.
type Code string

const (
	// CodeUnknownProperty: the name is not declared by the class.
	CodeUnknownProperty Code = "UNKNOWN_PROPERTY"

	// CodeNotReadable: the property is write-only.
	CodeNotReadable Code = "NOT_READABLE"

	// CodeNotWriteable: the property is read-only.
	CodeNotWriteable Code = "NOT_WRITEABLE"

	// CodeNotYetSet: read of a property that holds no value and has no
	// read override.
	CodeNotYetSet Code = "NOT_YET_SET"

	// CodeAlreadySet: second write to a value object's property.
	CodeAlreadySet Code = "ALREADY_SET"

	// CodeImmutable: removal from a value object.
	CodeImmutable Code = "IMMUTABLE"
)

// PropertyError is returned by container operations for access-protocol
// violations. Type validation failures surface as *slot.InvalidValueError
// instead.
type PropertyError struct {
	// Code identifies the error category.
	Code Code

	// Class is the concrete class of the container.
	Class string

	// Property is the requested property name.
	Property string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	if e.Class == "" && e.Property == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s.%s: %s", e.Code, e.Class, e.Property, e.Message)
}

// Is matches sentinel errors by code, so errors.Is(err, ErrNotYetSet)
// works for any property.
func (e *PropertyError) Is(target error) bool {
	t, ok := target.(*PropertyError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Class == "" && t.Property == ""
}

// Sentinels for errors.Is.
var (
	ErrUnknownProperty = &PropertyError{Code: CodeUnknownProperty}
	ErrNotReadable     = &PropertyError{Code: CodeNotReadable}
	ErrNotWriteable    = &PropertyError{Code: CodeNotWriteable}
	ErrNotYetSet       = &PropertyError{Code: CodeNotYetSet}
	ErrAlreadySet      = &PropertyError{Code: CodeAlreadySet}
	ErrImmutable       = &PropertyError{Code: CodeImmutable}
)

func codeOf(err error) Code {
	var pe *PropertyError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsUnknownProperty returns true if err is an UNKNOWN_PROPERTY error.
func IsUnknownProperty(err error) bool { return codeOf(err) == CodeUnknownProperty }

// IsNotReadable returns true if err is a NOT_READABLE error.
func IsNotReadable(err error) bool { return codeOf(err) == CodeNotReadable }

// IsNotWriteable returns true if err is a NOT_WRITEABLE error.
func IsNotWriteable(err error) bool { return codeOf(err) == CodeNotWriteable }

// IsNotYetSet returns true if err is a NOT_YET_SET error.
func IsNotYetSet(err error) bool { return codeOf(err) == CodeNotYetSet }

// IsAlreadySet returns true if err is an ALREADY_SET error.
func IsAlreadySet(err error) bool { return codeOf(err) == CodeAlreadySet }

// IsImmutable returns true if err is an IMMUTABLE error.
func IsImmutable(err error) bool { return codeOf(err) == CodeImmutable }
