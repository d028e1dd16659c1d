package model

import (
	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/slot"
)

// ValueObject is a write-once container: each property may be assigned
// once and nothing is ever removed.
type ValueObject struct {
	*Container
}

// NewValueObject creates a value object container. host nil means the
// value object itself.
func NewValueObject(host any, class *registry.Class, opts ...Option) (*ValueObject, error) {
	vo := &ValueObject{}
	c, err := newContainer(host, class, buildOptions(opts), vo)
	if err != nil {
		return nil, err
	}
	if c.host == nil {
		c.host = vo
	}
	vo.Container = c
	return vo, nil
}

// MustNewValueObject is like NewValueObject but panics on error.
func MustNewValueObject(host any, class *registry.Class, opts ...Option) *ValueObject {
	vo, err := NewValueObject(host, class, opts...)
	if err != nil {
		panic(err)
	}
	return vo
}

func (vo *ValueObject) admit(name string, cell slot.Cell) error {
	if cell != nil && cell.IsSet() {
		return vo.fail(CodeAlreadySet, name, "value object property is already set")
	}
	return nil
}

func (vo *ValueObject) written(string, slot.Cell) {}

func (vo *ValueObject) removable(name string) error {
	return vo.fail(CodeImmutable, name, "value object properties can not be removed")
}

func (vo *ValueObject) writeable(cell slot.Cell) bool {
	return cell == nil || !cell.IsSet()
}
