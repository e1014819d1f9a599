package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct{ ID int }

func exclusive(t *testing.T, l *LazyComponent[handle, string, int]) {
	t.Helper()
	n := 0
	for _, b := range []bool{l.IsPending(), l.IsReady(), l.IsDropped()} {
		if b {
			n++
		}
	}
	require.Equal(t, 1, n, "exactly one state must be active, got %s", l)
}

func TestLazyDefaultIsPending(t *testing.T) {
	var l LazyComponent[handle, Unit, Unit]
	assert.True(t, l.IsPending())
	assert.True(t, NewLazy[handle]().IsPending())

	p := NewLazyPending[handle, string, int]("waiting on device")
	payload, ok := p.PendingPayload()
	assert.True(t, ok)
	assert.Equal(t, "waiting on device", payload)
}

func TestLazyTransitions(t *testing.T) {
	ops := map[string]func(l *LazyComponent[handle, string, int]){
		"pending":      func(l *LazyComponent[handle, string, int]) { l.SetPending() },
		"pending-with": func(l *LazyComponent[handle, string, int]) { l.SetPendingWith("p") },
		"ready":        func(l *LazyComponent[handle, string, int]) { l.SetReady(handle{ID: 7}) },
		"dropped":      func(l *LazyComponent[handle, string, int]) { l.SetDropped() },
		"dropped-with": func(l *LazyComponent[handle, string, int]) { l.SetDroppedWith(3) },
		"take":         func(l *LazyComponent[handle, string, int]) { l.Take() },
	}
	names := []string{"pending", "pending-with", "ready", "dropped", "dropped-with", "take"}

	for _, first := range names {
		for _, second := range names {
			for _, third := range names {
				l := &LazyComponent[handle, string, int]{}
				exclusive(t, l)
				for _, op := range []string{first, second, third} {
					ops[op](l)
					exclusive(t, l)
				}
			}
		}
	}
}

func TestLazyTakeFromReady(t *testing.T) {
	l := &LazyComponent[handle, string, int]{}
	l.SetReady(handle{ID: 42})

	prev := l.Take()
	assert.True(t, prev.IsReady())
	r, ok := prev.Get()
	require.True(t, ok)
	assert.Equal(t, handle{ID: 42}, r)

	assert.True(t, l.IsDropped())
	d, ok := l.DroppedPayload()
	assert.True(t, ok)
	assert.Zero(t, d)

	var want LazyComponent[handle, string, int]
	want.SetReady(handle{ID: 42})
	assert.True(t, LazyEqual(want, prev))
	assert.False(t, LazyEqual(want, *l))
}

func TestLazyGetOnlyWhenReady(t *testing.T) {
	l := NewLazy[handle]()
	_, ok := l.Get()
	assert.False(t, ok)
	assert.Nil(t, l.GetMut())
	assert.Panics(t, func() { l.MustGet() })

	l.SetReady(handle{ID: 1})
	l.GetMut().ID = 2
	assert.Equal(t, handle{ID: 2}, l.MustGet())

	l.SetDropped()
	assert.Nil(t, l.GetMut())
	_, ok = l.PendingPayload()
	assert.False(t, ok)
}

func TestLazyStateString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "dropped", Dropped.String())
}
