package exchange

import (
	"reflect"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoSuchComponent is returned when a send helper finds nothing to send.
var ErrNoSuchComponent = eris.New("no such component")

func typeName[C any]() string { return reflect.TypeFor[C]().String() }

// SpawnComponent returns a MessageFunc that spawns an entity carrying c.
func SpawnComponent[C any](c *C) MessageFunc {
	return func(ctx MessageContext) (MessageContext, error) {
		id := ecs.Spawn(ctx.World, c)
		ctx.Channel.Logger().Debug("spawned component",
			zap.String("component", typeName[C]()),
			zap.Uint64("entity", uint64(id)),
		)
		return ctx, nil
	}
}

// InsertComponent returns a MessageFunc that attaches c to entity.
func InsertComponent[C any](entity ecs.EntityID, c *C) MessageFunc {
	return func(ctx MessageContext) (MessageContext, error) {
		if err := ecs.Insert(ctx.World, entity, c); err != nil {
			return ctx, err
		}
		ctx.Channel.Logger().Debug("inserted component",
			zap.String("component", typeName[C]()),
			zap.Uint64("entity", uint64(entity)),
		)
		return ctx, nil
	}
}

// SendCopyComponent copies the singleton C of the running world and spawns
// the copy in world to.
func SendCopyComponent[C any](to Identity) MessageFunc {
	return func(ctx MessageContext) (MessageContext, error) {
		_, c, ok := ecs.First[C](ctx.World)
		if !ok {
			return ctx, eris.Wrapf(ErrNoSuchComponent, "copy %s", typeName[C]())
		}
		cp := new(C)
		*cp = *c
		return ctx, ctx.Channel.SendTo(to, SpawnComponent(cp))
	}
}

// SendCloneComponent is SendCopyComponent for components that must be cloned,
// such as Changed values.
func SendCloneComponent[C any, PC interface {
	*C
	Clone() *C
}](to Identity) MessageFunc {
	return func(ctx MessageContext) (MessageContext, error) {
		_, c, ok := ecs.First[C](ctx.World)
		if !ok {
			return ctx, eris.Wrapf(ErrNoSuchComponent, "clone %s", typeName[C]())
		}
		ctx.Channel.Logger().Debug("sending clone",
			zap.String("component", typeName[C]()),
			zap.String("to", string(to)),
		)
		return ctx, ctx.Channel.SendTo(to, SpawnComponent(PC(c).Clone()))
	}
}

// SendComponent moves C off every entity whose K component equals key and
// inserts it on target in world to.
func SendComponent[C any, K comparable](key K, target ecs.EntityID, to Identity) MessageFunc {
	return func(ctx MessageContext) (MessageContext, error) {
		var ids []ecs.EntityID
		ecs.Each2(ctx.World, func(id ecs.EntityID, k *K, _ *C) {
			if *k == key {
				ids = append(ids, id)
			}
		})
		for _, id := range ids {
			c, _ := ecs.Remove[C](ctx.World, id)
			ctx.Channel.Logger().Debug("moving component",
				zap.String("component", typeName[C]()),
				zap.String("to", string(to)),
			)
			if err := ctx.Channel.SendTo(to, InsertComponent(target, c)); err != nil {
				return ctx, err
			}
		}
		return ctx, nil
	}
}
