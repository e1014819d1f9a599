package ecs

// Filter narrows a query to entities that pass it.
type Filter func(EntityID) bool

// With keeps entities that also carry a T component (marker filter).
func With[T any](w *World) Filter {
	s := StoreOf[T](w)
	return s.Has
}

// Without keeps entities that do not carry a T component.
func Without[T any](w *World) Filter {
	s := StoreOf[T](w)
	return func(id EntityID) bool { return !s.Has(id) }
}

func pass(id EntityID, filters []Filter) bool {
	for _, f := range filters {
		if !f(id) {
			return false
		}
	}
	return true
}

// Each iterates over entities that have component A.
func Each[A any](w *World, fn func(EntityID, *A), filters ...Filter) {
	for id, a := range StoreOf[A](w).data {
		if pass(id, filters) {
			fn(id, a)
		}
	}
}

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller store and checks the larger one.
func Each2[A, B any](w *World, fn func(EntityID, *A, *B), filters ...Filter) {
	sa, sb := StoreOf[A](w), StoreOf[B](w)
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok && pass(id, filters) {
				fn(id, a, b)
			}
		}
	} else {
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok && pass(id, filters) {
				fn(id, a, b)
			}
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](w *World, fn func(EntityID, *A, *B, *C), filters ...Filter) {
	sa, sb, sc := StoreOf[A](w), StoreOf[B](w), StoreOf[C](w)

	// Iterate the smallest store
	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				if c, ok := sc.data[id]; ok && pass(id, filters) {
					fn(id, a, b, c)
				}
			}
		}
	case 1:
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				if c, ok := sc.data[id]; ok && pass(id, filters) {
					fn(id, a, b, c)
				}
			}
		}
	case 2:
		for id, c := range sc.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok && pass(id, filters) {
					fn(id, a, b, c)
				}
			}
		}
	}
}

// First returns any entity carrying T. Used for singleton components such
// as backend handles or index maps.
func First[T any](w *World) (EntityID, *T, bool) {
	for id, c := range StoreOf[T](w).data {
		return id, c, true
	}
	return 0, nil, false
}

// Count returns the number of entities carrying T that pass filters.
func Count[T any](w *World, filters ...Filter) int {
	n := 0
	for id := range StoreOf[T](w).data {
		if pass(id, filters) {
			n++
		}
	}
	return n
}
