package component

import "fmt"

// LazyState is the active variant of a LazyComponent.
type LazyState uint8

const (
	Pending LazyState = iota
	Ready
	Dropped
)

func (s LazyState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Dropped:
		return "dropped"
	}
	return fmt.Sprintf("LazyState(%d)", uint8(s))
}

// LazyComponent is a resource slot that is Pending(P), Ready(R) or Dropped(D).
// Exactly one variant is active. Every transition replaces the whole value;
// the payloads of inactive variants are zeroed so they release references.
//
// The zero value is Pending with a zero payload.
type LazyComponent[R, P, D any] struct {
	state   LazyState
	ready   R
	pending P
	dropped D
}

// NewLazy returns a Pending slot whose states carry no payload.
func NewLazy[R any]() *LazyComponent[R, Unit, Unit] {
	return &LazyComponent[R, Unit, Unit]{}
}

// NewLazyPending returns a slot that is Pending with payload p.
func NewLazyPending[R, P, D any](p P) *LazyComponent[R, P, D] {
	return &LazyComponent[R, P, D]{state: Pending, pending: p}
}

func (l *LazyComponent[R, P, D]) State() LazyState { return l.state }
func (l *LazyComponent[R, P, D]) IsPending() bool  { return l.state == Pending }
func (l *LazyComponent[R, P, D]) IsReady() bool    { return l.state == Ready }
func (l *LazyComponent[R, P, D]) IsDropped() bool  { return l.state == Dropped }

// SetPending discards the current state. Any resource held by a Ready payload
// must be released by the caller first.
func (l *LazyComponent[R, P, D]) SetPending() {
	var p P
	l.SetPendingWith(p)
}

func (l *LazyComponent[R, P, D]) SetPendingWith(p P) {
	*l = LazyComponent[R, P, D]{state: Pending, pending: p}
}

func (l *LazyComponent[R, P, D]) SetReady(r R) {
	*l = LazyComponent[R, P, D]{state: Ready, ready: r}
}

func (l *LazyComponent[R, P, D]) SetDropped() {
	var d D
	l.SetDroppedWith(d)
}

func (l *LazyComponent[R, P, D]) SetDroppedWith(d D) {
	*l = LazyComponent[R, P, D]{state: Dropped, dropped: d}
}

// Take moves the current state out, leaving Dropped with a zero payload.
func (l *LazyComponent[R, P, D]) Take() LazyComponent[R, P, D] {
	prev := *l
	l.SetDropped()
	return prev
}

// Get returns the Ready payload.
func (l *LazyComponent[R, P, D]) Get() (R, bool) {
	if l.state != Ready {
		var zero R
		return zero, false
	}
	return l.ready, true
}

// GetMut returns a pointer to the Ready payload, or nil in any other state.
func (l *LazyComponent[R, P, D]) GetMut() *R {
	if l.state != Ready {
		return nil
	}
	return &l.ready
}

// MustGet returns the Ready payload and panics otherwise. Call sites use it
// where an earlier system guarantees readiness; reaching it in another state
// is an ordering bug.
func (l *LazyComponent[R, P, D]) MustGet() R {
	if l.state != Ready {
		panic(fmt.Sprintf("component: MustGet on %s lazy component of %T", l.state, l.ready))
	}
	return l.ready
}

func (l *LazyComponent[R, P, D]) PendingPayload() (P, bool) {
	if l.state != Pending {
		var zero P
		return zero, false
	}
	return l.pending, true
}

func (l *LazyComponent[R, P, D]) DroppedPayload() (D, bool) {
	if l.state != Dropped {
		var zero D
		return zero, false
	}
	return l.dropped, true
}

func (l *LazyComponent[R, P, D]) String() string {
	switch l.state {
	case Ready:
		return fmt.Sprintf("Ready(%v)", l.ready)
	case Pending:
		return fmt.Sprintf("Pending(%v)", l.pending)
	default:
		return fmt.Sprintf("Dropped(%v)", l.dropped)
	}
}

// LazyEqual compares two slots by active variant and its payload.
func LazyEqual[R, P, D comparable](a, b LazyComponent[R, P, D]) bool {
	if a.state != b.state {
		return false
	}
	switch a.state {
	case Ready:
		return a.ready == b.ready
	case Pending:
		return a.pending == b.pending
	default:
		return a.dropped == b.dropped
	}
}
