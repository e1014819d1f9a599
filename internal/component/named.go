package component

import (
	"sort"

	"github.com/rotisserie/eris"

	core "github.com/antigen-go/antigen/internal/core/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
)

// ErrNoIndex is returned when a world has no NamedEntities or TaggedEntities
// singleton.
var ErrNoIndex = eris.New("entity index singleton missing")

type NamedEntity struct{}

// NamedEntityComponent gives an entity a name. Names need not be unique.
type NamedEntityComponent = core.Usage[NamedEntity, string]

func NewNamedEntity(name string) *NamedEntityComponent {
	return core.NewUsage[NamedEntity](name)
}

// NamedEntities is the singleton index from name to the entities carrying it.
type NamedEntities struct {
	byName map[string]map[ecs.EntityID]struct{}
}

// SpawnNamedEntities adds an empty index to w and returns its entity.
func SpawnNamedEntities(w *ecs.World) ecs.EntityID {
	return ecs.Spawn(w, &NamedEntities{byName: make(map[string]map[ecs.EntityID]struct{})})
}

func (n *NamedEntities) insert(name string, id ecs.EntityID) {
	set, ok := n.byName[name]
	if !ok {
		set = make(map[ecs.EntityID]struct{})
		n.byName[name] = set
	}
	set[id] = struct{}{}
}

// Entities returns the entities named name in ascending id order.
func (n *NamedEntities) Entities(name string) []ecs.EntityID {
	set := n.byName[name]
	out := make([]ecs.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func namedEntities(w *ecs.World) (*NamedEntities, error) {
	_, idx, ok := ecs.First[NamedEntities](w)
	if !ok {
		return nil, eris.Wrap(ErrNoIndex, "named entities")
	}
	return idx, nil
}

// InsertNamedEntity records id under name in the world's index.
func InsertNamedEntity(w *ecs.World, name string, id ecs.EntityID) error {
	idx, err := namedEntities(w)
	if err != nil {
		return err
	}
	idx.insert(name, id)
	return nil
}

// NamedEntitiesFor returns the entities recorded under name.
func NamedEntitiesFor(w *ecs.World, name string) ([]ecs.EntityID, error) {
	idx, err := namedEntities(w)
	if err != nil {
		return nil, err
	}
	return idx.Entities(name), nil
}

// InsertNamedEntitiesSystem indexes every entity carrying a NamedEntityComponent.
func InsertNamedEntitiesSystem(w *ecs.World) error {
	idx, err := namedEntities(w)
	if err != nil {
		return err
	}
	ecs.Each(w, func(id ecs.EntityID, name *NamedEntityComponent) {
		idx.insert(name.Get(), id)
	})
	return nil
}
