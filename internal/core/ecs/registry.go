package ecs

import "reflect"

// Registry tracks one component store per Go type and supports bulk cleanup
// on despawn. The exact type is the key: Usage[A, T] and Usage[B, T] land in
// different stores.
type Registry struct {
	byType map[reflect.Type]Removable
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]Removable, 16),
		stores: make([]Removable, 0, 16),
	}
}

// Register adds a component store to the registry. A second store for the
// same type replaces the lookup entry but both receive RemoveAll.
func (r *Registry) Register(store Removable) {
	r.byType[store.Type()] = store
	r.stores = append(r.stores, store)
}

// Lookup returns the store registered for t.
func (r *Registry) Lookup(t reflect.Type) (Removable, bool) {
	s, ok := r.byType[t]
	return s, ok
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Types lists the component types attached to id.
func (r *Registry) Types(id EntityID) []reflect.Type {
	var out []reflect.Type
	for _, s := range r.stores {
		if s.Has(id) {
			out = append(out, s.Type())
		}
	}
	return out
}

// StoreOf returns the store for T, creating and registering it on first use.
func StoreOf[T any](w *World) *PtrComponentStore[T] {
	t := reflect.TypeFor[T]()
	if s, ok := w.registry.Lookup(t); ok {
		return s.(*PtrComponentStore[T])
	}
	s := NewPtrComponentStore[T]()
	w.registry.Register(s)
	return s
}
