package ecs

import "github.com/rotisserie/eris"

// ErrEntityNotAlive is returned when inserting onto a despawned or unknown entity.
var ErrEntityNotAlive = eris.New("entity is not alive")

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
// A World is owned by exactly one goroutine and is not safe for concurrent use.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// Spawn creates an empty entity.
func (w *World) Spawn() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// Despawn destroys id immediately together with all of its components.
func (w *World) Despawn(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.Despawn(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// Insert attaches c to id, replacing any existing component of type T.
func Insert[T any](w *World, id EntityID, c *T) error {
	if !w.pool.Alive(id) {
		return eris.Wrapf(ErrEntityNotAlive, "insert %T on entity %d", c, id)
	}
	StoreOf[T](w).Set(id, c)
	return nil
}

// Spawn creates an entity carrying c.
func Spawn[T any](w *World, c *T) EntityID {
	id := w.Spawn()
	StoreOf[T](w).Set(id, c)
	return id
}

func Get[T any](w *World, id EntityID) (*T, bool) {
	return StoreOf[T](w).Get(id)
}

func Has[T any](w *World, id EntityID) bool {
	return StoreOf[T](w).Has(id)
}

// Remove detaches and returns the T component of id.
func Remove[T any](w *World, id EntityID) (*T, bool) {
	return StoreOf[T](w).Take(id)
}
