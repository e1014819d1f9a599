package component

import (
	"fmt"
	"sync/atomic"
)

// ChangedFlag is implemented by values carrying a dirty flag.
type ChangedFlag interface {
	GetChanged() bool
	SetChanged(changed bool)
}

// Changed pairs a value with a dirty flag. A set flag means consumers have not
// yet reacted to the current value; a consumer that reacts clears it. Writing
// the value never touches the flag.
//
// The flag is atomic so it can be tested and cleared without exclusive access
// to the value. Changed must not be copied after first use; hold it by pointer.
type Changed[T any] struct {
	Data T
	flag atomic.Bool
}

// NewChanged wraps v with an explicit initial flag.
func NewChanged[T any](v T, changed bool) *Changed[T] {
	c := &Changed[T]{Data: v}
	c.flag.Store(changed)
	return c
}

func (c *Changed[T]) GetChanged() bool        { return c.flag.Load() }
func (c *Changed[T]) SetChanged(changed bool) { c.flag.Store(changed) }

func (c *Changed[T]) Get() T  { return c.Data }
func (c *Changed[T]) Ptr() *T { return &c.Data }
func (c *Changed[T]) Set(v T) { c.Data = v }

// Clone snapshots the value (shallow) together with the current flag.
func (c *Changed[T]) Clone() *Changed[T] {
	return NewChanged(c.Data, c.GetChanged())
}

// Unwrap exposes the next wrapper layer for WithChanged.
func (c *Changed[T]) Unwrap() any { return unwrapLayer(&c.Data) }

func (c *Changed[T]) String() string {
	return fmt.Sprintf("Changed(%v, %t)", c.Data, c.GetChanged())
}
