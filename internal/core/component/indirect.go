package component

import (
	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/rotisserie/eris"
)

var (
	// ErrNoSuchEntity is returned when an Indirect target was despawned.
	ErrNoSuchEntity = eris.New("no such entity")
	// ErrMissingComponent is returned when an Indirect target lacks the component.
	ErrMissingComponent = eris.New("missing component")
)

// Indirect names the T component of another entity. It owns nothing and keeps
// no back-pointer; every Get resolves against the live world.
type Indirect[T any] struct {
	entity ecs.EntityID
}

// NewIndirect does not check that entity exists yet.
func NewIndirect[T any](entity ecs.EntityID) *Indirect[T] {
	return &Indirect[T]{entity: entity}
}

func (i *Indirect[T]) Entity() ecs.EntityID { return i.entity }

// Get looks the component up in w.
func (i *Indirect[T]) Get(w *ecs.World) (*T, error) {
	if !w.Alive(i.entity) {
		return nil, eris.Wrapf(ErrNoSuchEntity, "indirect %T -> entity %d", (*T)(nil), i.entity)
	}
	c, ok := ecs.Get[T](w, i.entity)
	if !ok {
		return nil, eris.Wrapf(ErrMissingComponent, "indirect %T -> entity %d", (*T)(nil), i.entity)
	}
	return c, nil
}
