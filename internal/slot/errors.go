package slot

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidValueError reports a value that matched none of a property's
// allowed type expressions.
type InvalidValueError struct {
	Property string
	Allowed  []string // declared type expressions, in order
	Actual   string   // runtime kind, or concrete type name for objects
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("unable to set value of %q property: value is supposed to be '%s', but actually is '%s'",
		e.Property, strings.Join(e.Allowed, "' or '"), e.Actual)
}

// AlreadyPendingError reports a second deferred computation assigned to a
// lazy slot before the first one resolved.
type AlreadyPendingError struct {
	Property string
}

func (e *AlreadyPendingError) Error() string {
	return fmt.Sprintf("unable to set deferred computation for %q property: a computation is already pending", e.Property)
}

// LazyResolutionError reports a deferred computation whose result could not
// be stored. Cause is the *InvalidValueError or the computation's own error.
type LazyResolutionError struct {
	Property string
	Cause    error
}

func (e *LazyResolutionError) Error() string {
	return fmt.Sprintf("unable to get value of %q property: deferred computation was evaluated, but its result can not be set: %v",
		e.Property, e.Cause)
}

func (e *LazyResolutionError) Unwrap() error {
	return e.Cause
}

// IsInvalidValue reports whether err is or wraps an *InvalidValueError.
func IsInvalidValue(err error) bool {
	var ive *InvalidValueError
	return errors.As(err, &ive)
}
