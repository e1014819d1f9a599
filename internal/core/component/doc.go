// Package component holds the generic wrappers every world is built from.
//
// Usage gives one value type several queryable identities. Changed pairs a
// value with a lock-free dirty flag. LazyComponent models a resource that is
// Pending, Ready or Dropped. Indirect names a component on another entity.
//
// Systems compose them into the create-or-recreate pattern:
//
//	if lazy.IsPending() || desc.GetChanged() {
//		lazy.SetReady(create(desc.Get()))
//		desc.SetChanged(false)
//	}
package component

// Unit is the payload of lazy states that carry no data.
type Unit = struct{}
