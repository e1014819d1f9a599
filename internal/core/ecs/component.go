package ecs

import "reflect"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on despawn.
type Removable interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	Type() reflect.Type
}

// PtrComponentStore is a generic typed map store for one component type.
// Components are held by pointer so wrappers carrying atomics are never copied.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
	typ  reflect.Type
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 64),
		typ:  reflect.TypeFor[T](),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

// Take removes and returns the component for id.
func (s *PtrComponentStore[T]) Take(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	if ok {
		delete(s.data, id)
	}
	return c, ok
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

func (s *PtrComponentStore[T]) Type() reflect.Type { return s.typ }

func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}
