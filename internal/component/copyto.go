package component

import (
	"go.uber.org/zap"

	core "github.com/antigen-go/antigen/internal/core/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
)

// CopyTo lists the entities whose Changed[T] mirrors this entity's T under
// usage U.
type CopyTo[U, T any] struct {
	Targets []ecs.EntityID
}

func NewCopyTo[U, T any](targets ...ecs.EntityID) *CopyTo[U, T] {
	return &CopyTo[U, T]{Targets: targets}
}

// CopyToSystem writes each source T into its targets' Changed[T], raising the
// flag only when the stored value differs. Missing targets are logged.
func CopyToSystem[U any, T comparable](w *ecs.World, log *zap.Logger) {
	ecs.Each2(w, func(id ecs.EntityID, value *T, copyTo *CopyTo[U, T]) {
		for _, target := range copyTo.Targets {
			dst, ok := ecs.Get[core.Changed[T]](w, target)
			if !ok {
				log.Debug("copy target missing",
					zap.Uint64("source", uint64(id)),
					zap.Uint64("target", uint64(target)),
				)
				continue
			}
			if dst.Get() != *value {
				dst.Set(*value)
				dst.SetChanged(true)
			}
		}
	})
}
