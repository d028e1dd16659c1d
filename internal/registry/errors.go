package registry

import (
	"errors"
	"fmt"
)

// CycleError reports a class whose parent chain loops.
type CycleError struct {
	Class string
	At    string // first class seen twice
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("class %q: inheritance cycle at %q", e.Class, e.At)
}

// ProviderError wraps a metadata provider failure for one class level.
type ProviderError struct {
	Class string
	Level string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("class %q: candidates for %q: %v", e.Class, e.Level, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrNilClass is returned when resolving a nil class descriptor.
var ErrNilClass = errors.New("nil class descriptor")

// IsCycle reports whether err is or wraps a *CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
