package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type health struct{ HP int }
type mana struct{ MP int }
type frozen struct{}

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero(), "first entity must not be the zero id")
	assert.True(t, p.Alive(a))

	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "stale id must not destroy twice")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index is recycled")
	assert.NotEqual(t, a.Generation(), b.Generation())
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Len())
}

func TestInsertGetRemove(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	require.NoError(t, Insert(w, e, &health{HP: 10}))
	h, ok := Get[health](w, e)
	require.True(t, ok)
	assert.Equal(t, 10, h.HP)
	assert.False(t, Has[mana](w, e))

	removed, ok := Remove[health](w, e)
	require.True(t, ok)
	assert.Same(t, h, removed)
	assert.False(t, Has[health](w, e))
}

func TestInsertOnDeadEntity(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	require.True(t, w.Despawn(e))

	err := Insert(w, e, &health{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntityNotAlive))
}

func TestDespawnRemovesComponents(t *testing.T) {
	w := NewWorld()
	e := Spawn(w, &health{HP: 1})
	require.NoError(t, Insert(w, e, &mana{MP: 2}))
	assert.Len(t, w.Registry().Types(e), 2)

	w.MarkForDestruction(e)
	assert.True(t, w.Alive(e), "destruction is deferred until flush")
	w.FlushDestroyQueue()

	assert.False(t, w.Alive(e))
	assert.Equal(t, 0, StoreOf[health](w).Len())
	assert.Equal(t, 0, StoreOf[mana](w).Len())
	assert.Equal(t, 0, w.Len())
}

func TestQueries(t *testing.T) {
	w := NewWorld()
	both := Spawn(w, &health{HP: 5})
	require.NoError(t, Insert(w, both, &mana{MP: 7}))
	onlyHealth := Spawn(w, &health{HP: 3})
	frozenBoth := Spawn(w, &health{HP: 9})
	require.NoError(t, Insert(w, frozenBoth, &mana{MP: 1}))
	require.NoError(t, Insert(w, frozenBoth, &frozen{}))

	tests := []struct {
		name    string
		filters func() []Filter
		want    []EntityID
	}{
		{"no filter", func() []Filter { return nil }, []EntityID{both, frozenBoth}},
		{"with marker", func() []Filter { return []Filter{With[frozen](w)} }, []EntityID{frozenBoth}},
		{"without marker", func() []Filter { return []Filter{Without[frozen](w)} }, []EntityID{both}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []EntityID
			Each2(w, func(id EntityID, _ *health, _ *mana) {
				got = append(got, id)
			}, tt.filters()...)
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	var singles []EntityID
	Each(w, func(id EntityID, _ *health) { singles = append(singles, id) })
	assert.ElementsMatch(t, []EntityID{both, onlyHealth, frozenBoth}, singles)

	var triples []EntityID
	Each3(w, func(id EntityID, _ *health, _ *mana, _ *frozen) { triples = append(triples, id) })
	assert.Equal(t, []EntityID{frozenBoth}, triples)

	assert.Equal(t, 2, Count[mana](w))
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	_, _, ok := First[health](w)
	assert.False(t, ok)

	e := Spawn(w, &health{HP: 4})
	id, h, ok := First[health](w)
	require.True(t, ok)
	assert.Equal(t, e, id)
	assert.Equal(t, 4, h.HP)
}
