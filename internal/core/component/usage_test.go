package component

import (
	"testing"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec3 struct{ X, Y, Z float32 }

type position struct{}
type scale struct{}

func TestUsageTagsAreDistinctStores(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Spawn()
	require.NoError(t, ecs.Insert(w, e, NewUsage[position](vec3{1, 2, 3})))
	require.NoError(t, ecs.Insert(w, e, NewUsage[scale](vec3{2, 2, 2})))

	pos, ok := ecs.Get[Usage[position, vec3]](w, e)
	require.True(t, ok)
	scl, ok := ecs.Get[Usage[scale, vec3]](w, e)
	require.True(t, ok)

	assert.Equal(t, vec3{1, 2, 3}, pos.Get())
	assert.Equal(t, vec3{2, 2, 2}, scl.Get())

	pos.Ptr().X = 10
	assert.Equal(t, float32(2), scl.Get().X, "writing one usage must not touch the other")

	_, removed := ecs.Remove[Usage[position, vec3]](w, e)
	require.True(t, removed)
	assert.False(t, ecs.Has[Usage[position, vec3]](w, e))
	assert.True(t, ecs.Has[Usage[scale, vec3]](w, e), "removing one tag leaves the other")

	n := 0
	ecs.Each(w, func(ecs.EntityID, *Usage[position, vec3]) { n++ })
	assert.Zero(t, n)
}

func TestUsageTypeIdentity(t *testing.T) {
	var a any = NewUsage[position](vec3{})
	_, isScale := a.(*Usage[scale, vec3])
	assert.False(t, isScale)
	assert.Equal(t, "position", NewUsage[position](vec3{}).Tag())
}
