package component

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/antigen-go/antigen/internal/core/ecs"
)

// TaggedEntities is the singleton map from a tag type to the entity standing
// for it, used to refer to singletons by type.
type TaggedEntities struct {
	byTag map[reflect.Type]ecs.EntityID
}

func SpawnTaggedEntities(w *ecs.World) ecs.EntityID {
	return ecs.Spawn(w, &TaggedEntities{byTag: make(map[reflect.Type]ecs.EntityID)})
}

func taggedEntities(w *ecs.World) (*TaggedEntities, error) {
	_, idx, ok := ecs.First[TaggedEntities](w)
	if !ok {
		return nil, eris.Wrap(ErrNoIndex, "tagged entities")
	}
	return idx, nil
}

// InsertTaggedEntity makes id the entity for tag T, replacing any previous one.
func InsertTaggedEntity[T any](w *ecs.World, id ecs.EntityID) error {
	idx, err := taggedEntities(w)
	if err != nil {
		return err
	}
	idx.byTag[reflect.TypeFor[T]()] = id
	return nil
}

// InsertTaggedEntityByQuery tags the first entity carrying component C as T.
// It reports false when no entity carries C.
func InsertTaggedEntityByQuery[C, T any](w *ecs.World) (bool, error) {
	id, _, ok := ecs.First[C](w)
	if !ok {
		return false, nil
	}
	return true, InsertTaggedEntity[T](w, id)
}

// TaggedEntity returns the entity recorded for tag T.
func TaggedEntity[T any](w *ecs.World) (ecs.EntityID, bool) {
	idx, err := taggedEntities(w)
	if err != nil {
		return 0, false
	}
	id, ok := idx.byTag[reflect.TypeFor[T]()]
	return id, ok
}
