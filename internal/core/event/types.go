package event

import "github.com/antigen-go/antigen/internal/core/ecs"

// ResourceReady is emitted when a lazy resource moves to Ready, either on
// first creation or on recreation after its descriptor changed.
type ResourceReady struct {
	Entity   ecs.EntityID
	Kind     string
	Usage    string
	Recreate bool
}

// ResourceDropped is emitted when a Ready resource is invalidated.
type ResourceDropped struct {
	Entity ecs.EntityID
	Kind   string
	Usage  string
}

// ResourceFailed is emitted when the backend rejects a creation; the slot
// keeps its previous state and is retried next tick.
type ResourceFailed struct {
	Entity ecs.EntityID
	Kind   string
	Usage  string
	Err    error
}
