package main

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/antigen-go/antigen/internal/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/event"
	"github.com/antigen-go/antigen/internal/core/exchange"
	coresys "github.com/antigen-go/antigen/internal/core/system"
	"github.com/antigen-go/antigen/internal/gpu"
	"github.com/antigen-go/antigen/internal/scripting"
	"github.com/antigen-go/antigen/internal/system"
	"github.com/antigen-go/antigen/internal/worlds"
)

// ── Filesystem world ───────────────────────────────────────────────

// filesystemWorld owns disk access. It sleeps in a blocking receive and runs
// whatever load requests arrive.
type filesystemWorld struct {
	world   *ecs.World
	channel *exchange.WorldChannel
	log     *zap.Logger
}

func newFilesystemWorld(ch *exchange.WorldChannel, log *zap.Logger) *filesystemWorld {
	return &filesystemWorld{world: ecs.NewWorld(), channel: ch, log: log.Named(string(worlds.Filesystem))}
}

func (f *filesystemWorld) run() error {
	for {
		err := exchange.ReceiveMessages(f.world, f.channel)
		switch {
		case err == nil:
		case errors.Is(err, exchange.ErrDisconnected):
			return nil
		default:
			f.log.Error("load failed", zap.Error(err))
		}
	}
}

// ── Game world ─────────────────────────────────────────────────────

// Counter doubles every tick while Doubling is set, saturating at MaxInt32.
type Counter struct {
	N        int32
	Doubling bool
}

func doubleCounters(w *ecs.World) {
	ecs.Each(w, func(_ ecs.EntityID, c *Counter) {
		if !c.Doubling {
			return
		}
		switch {
		case c.N > math.MaxInt32/2:
			c.N = math.MaxInt32
		case c.N < math.MinInt32/2:
			c.N = math.MinInt32
		default:
			c.N *= 2
		}
	})
}

// statsInterval is how many game ticks pass between render stats requests.
const statsInterval = 60

type gameWorld struct {
	world   *ecs.World
	channel *exchange.WorldChannel
	runner  *coresys.Runner
	log     *zap.Logger
	pending []exchange.MessageFunc
	ticks   int
}

func newGameWorld(ch *exchange.WorldChannel, log *zap.Logger) *gameWorld {
	g := &gameWorld{
		world:   ecs.NewWorld(),
		channel: ch,
		runner:  coresys.NewRunner(),
		log:     log.Named(string(worlds.Game)),
	}
	ecs.Spawn(g.world, &Counter{N: 123, Doubling: true})
	ecs.Spawn(g.world, &Counter{N: 42})

	g.runner.Register(
		system.NewMessageSystem(g.world, ch, g.log),
		coresys.Func{P: coresys.PhaseUpdate, Fn: func(time.Duration) { doubleCounters(g.world) }},
		system.NewCleanupSystem(g.world),
	)
	return g
}

// request queues fn for the filesystem world; it is sent on the first tick.
func (g *gameWorld) request(fn exchange.MessageFunc) {
	g.pending = append(g.pending, fn)
}

func (g *gameWorld) run(ctx context.Context, tick time.Duration) error {
	for _, fn := range g.pending {
		if err := g.channel.SendTo(worlds.Filesystem, fn); err != nil {
			return err
		}
	}
	g.pending = nil

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			g.runner.Tick(tick)
			g.ticks++
			if g.ticks%statsInterval == 0 {
				if err := g.channel.TrySendTo(worlds.Render, renderStats); err != nil && !errors.Is(err, exchange.ErrFull) {
					g.log.Debug("stats request not sent", zap.Error(err))
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// renderStats runs on the render world and replies to the game world with
// the backend's counters.
func renderStats(ctx exchange.MessageContext) (exchange.MessageContext, error) {
	_, dev, ok := ecs.First[gpu.Device](ctx.World)
	if !ok {
		return ctx, nil
	}
	h, ok := dev.Backend.(*gpu.Headless)
	if !ok {
		return ctx, nil
	}
	live, writes, entities := h.Live(), h.Writes(), ctx.World.Len()
	return ctx, ctx.Reply(func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
		ctx.Channel.Logger().Info("render stats",
			zap.Int("live_handles", live),
			zap.Int("buffer_writes", writes),
			zap.Int("entities", entities),
		)
		return ctx, nil
	})
}

// ── Render world ───────────────────────────────────────────────────

type renderWorld struct {
	world    *ecs.World
	bus      *event.Bus
	runner   *coresys.Runner
	messages *system.MessageSystem
	log      *zap.Logger
	frames   int
	ready    int
}

func newRenderWorld(ch *exchange.WorldChannel, engine *scripting.Engine, log *zap.Logger) *renderWorld {
	r := &renderWorld{
		world:  ecs.NewWorld(),
		bus:    event.NewBus(),
		runner: coresys.NewRunner(),
		log:    log.Named(string(worlds.Render)),
	}
	component.SpawnNamedEntities(r.world)
	component.SpawnTaggedEntities(r.world)
	dev := gpu.SetDevice(r.world, gpu.NewHeadless())
	_ = component.InsertTaggedEntity[gpu.Device](r.world, dev)

	event.Subscribe(r.bus, func(ev event.ResourceReady) {
		r.ready++
		r.log.Debug("resource ready", zap.String("kind", ev.Kind), zap.String("usage", ev.Usage), zap.Bool("recreate", ev.Recreate))
	})
	event.Subscribe(r.bus, func(ev event.ResourceFailed) {
		r.log.Warn("resource failed", zap.String("kind", ev.Kind), zap.String("usage", ev.Usage), zap.Error(ev.Err))
	})

	p := gpu.NewPipeline(r.world, r.bus, r.log)
	r.messages = system.NewMessageSystem(r.world, ch, r.log)
	r.runner.Register(
		r.messages,
		gpu.CreateBuffers[gpu.Uniform](p),
		gpu.CreateBuffers[gpu.Vertex](p),
		gpu.CreateBuffers[gpu.Index](p),
		gpu.CreateBuffers[gpu.Storage](p),
		gpu.CreateTextures[gpu.Framebuffer](p),
		gpu.CreateTextures[gpu.Depth](p),
		gpu.CreateTextureViews[gpu.Framebuffer](p),
		gpu.CreateTextureViews[gpu.Depth](p),
		gpu.CreateShaderModules[gpu.Shader](p),
		gpu.CreateSamplers[gpu.Linear](p),
		gpu.CreateSamplers[gpu.Nearest](p),
		coresys.Func{P: coresys.PhaseUpdate, Fn: func(time.Duration) {
			component.CopyToSystem[component.Position, component.PositionComponent](r.world, r.log)
			component.SwapWithSystem[gpu.Slot[gpu.Framebuffer, gpu.TextureView]](r.world, r.log)
		}},
		scripting.UniformSystem[gpu.Uniform](r.world, engine),
		gpu.WriteBuffers[gpu.Uniform](p),
		gpu.WriteBuffers[gpu.Vertex](p),
		gpu.WriteBuffers[gpu.Index](p),
		gpu.WriteBuffers[gpu.Storage](p),
		gpu.DropBuffers[gpu.Uniform](p),
		gpu.DropTextures[gpu.Framebuffer](p),
		gpu.DropTextureViews[gpu.Framebuffer](p),
		system.NewCleanupSystem(r.world),
	)
	return r
}

func (r *renderWorld) frame(dt time.Duration) {
	r.bus.SwapBuffers()
	r.bus.DispatchAll()
	r.runner.Tick(dt)
	r.frames++
}

func (r *renderWorld) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.frame(interval)
			if r.messages.Err() != nil {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
