package component

import (
	"go.uber.org/zap"

	core "github.com/antigen-go/antigen/internal/core/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
)

// SwapWith marks an entity whose T is exchanged with the T of another entity
// every time SwapWithSystem runs. Double-buffered resources use it to flip
// front and back.
type SwapWith[T any] struct{}

// SwapTarget is the usage-tagged pointer to the other side of the swap.
type SwapTarget[T any] = core.Usage[SwapWith[T], *core.Indirect[T]]

// SwapWithBuilder adds the swap marker and target pointer to id, which must
// itself carry a T.
func SwapWithBuilder[T any](w *ecs.World, id, target ecs.EntityID) error {
	if err := ecs.Insert(w, id, &SwapWith[T]{}); err != nil {
		return err
	}
	return ecs.Insert(w, id, core.NewUsage[SwapWith[T]](core.NewIndirect[T](target)))
}

// SwapWithSystem exchanges the values of every swapper and its target.
// Swappers whose target is gone are logged and skipped.
func SwapWithSystem[T any](w *ecs.World, log *zap.Logger) {
	ecs.Each2(w, func(id ecs.EntityID, value *T, target *SwapTarget[T]) {
		other, err := target.Get().Get(w)
		if err != nil {
			log.Warn("swap target unavailable", zap.Uint64("entity", uint64(id)), zap.Error(err))
			return
		}
		*value, *other = *other, *value
	}, ecs.With[SwapWith[T]](w))
}
