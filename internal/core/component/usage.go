package component

import (
	"fmt"
	"reflect"
)

// Usage pairs a phantom tag U with a value T. Usage[Position, Vec3] and
// Usage[Scale, Vec3] are distinct types, so they live in distinct stores and
// never satisfy each other's queries.
type Usage[U, T any] struct {
	Data T
}

// NewUsage wraps v under tag U.
func NewUsage[U, T any](v T) *Usage[U, T] {
	return &Usage[U, T]{Data: v}
}

func (u *Usage[U, T]) Get() T      { return u.Data }
func (u *Usage[U, T]) Ptr() *T     { return &u.Data }
func (u *Usage[U, T]) Set(v T)     { u.Data = v }
func (u *Usage[U, T]) Tag() string { return reflect.TypeFor[U]().Name() }

// Unwrap exposes the next wrapper layer for WithChanged.
func (u *Usage[U, T]) Unwrap() any { return unwrapLayer(&u.Data) }

func (u *Usage[U, T]) String() string {
	return fmt.Sprintf("Usage[%s](%v)", u.Tag(), u.Data)
}
