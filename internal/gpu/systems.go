package gpu

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/event"
	"github.com/antigen-go/antigen/internal/core/system"
)

// Pipeline holds what the resource systems share: the render world, its
// event bus and a logger.
type Pipeline struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger
}

func NewPipeline(w *ecs.World, bus *event.Bus, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{world: w, bus: bus, log: log.Named("gpu")}
}

func (p *Pipeline) World() *ecs.World { return p.world }

func (p *Pipeline) backend() (Backend, bool) {
	_, dev, ok := ecs.First[Device](p.world)
	if !ok || dev.Backend == nil {
		return nil, false
	}
	return dev.Backend, true
}

func usageName[U any]() string { return reflect.TypeFor[U]().Name() }

type prepareStep[U, D any, R Resource] struct {
	kind   string
	create func(b Backend, id ecs.EntityID, desc D) (R, error)
	skip   func(id ecs.EntityID, desc D) bool
	ready  func(id ecs.EntityID)
}

// run creates the resource of every slot that is Pending or whose descriptor
// is dirty. A replaced resource is released only after its successor exists.
func (s prepareStep[U, D, R]) run(p *Pipeline) {
	b, ok := p.backend()
	if !ok {
		return
	}
	usage := usageName[U]()
	ecs.Each2(p.world, func(id ecs.EntityID, desc *Descriptor[U, D], slot *Slot[U, R]) {
		lazy, d := slot.Data, desc.Data
		if !lazy.IsPending() && !d.GetChanged() {
			return
		}
		if s.skip != nil && s.skip(id, d.Get()) {
			return
		}
		res, err := s.create(b, id, d.Get())
		if err != nil {
			p.log.Warn("create resource failed",
				zap.String("kind", s.kind),
				zap.String("usage", usage),
				zap.Uint64("entity", uint64(id)),
				zap.Error(err),
			)
			event.Emit(p.bus, event.ResourceFailed{Entity: id, Kind: s.kind, Usage: usage, Err: err})
			return
		}
		old, recreate := lazy.Get()
		lazy.SetReady(res)
		if recreate {
			b.Release(old.ID())
		}
		d.SetChanged(false)
		p.log.Debug("resource ready",
			zap.String("kind", s.kind),
			zap.String("usage", usage),
			zap.Uint64("entity", uint64(id)),
			zap.Uint64("handle", uint64(res.ID())),
			zap.Bool("recreate", recreate),
		)
		event.Emit(p.bus, event.ResourceReady{Entity: id, Kind: s.kind, Usage: usage, Recreate: recreate})
		if s.ready != nil {
			s.ready(id)
		}
	})
}

func prepare[U, D any, R Resource](p *Pipeline, s prepareStep[U, D, R]) system.System {
	return system.Func{P: system.PhasePrepare, Fn: func(time.Duration) { s.run(p) }}
}

func CreateBuffers[U any](p *Pipeline) system.System {
	return prepare(p, prepareStep[U, BufferDescriptor, Buffer]{
		kind: KindBuffer,
		create: func(b Backend, _ ecs.EntityID, d BufferDescriptor) (Buffer, error) {
			return b.CreateBuffer(d)
		},
	})
}

// CreateTextures skips zero-sized descriptors, which happen while a surface
// is minimised. A recreated texture dirties the view descriptor of the same
// usage so the view follows it.
func CreateTextures[U any](p *Pipeline) system.System {
	return prepare(p, prepareStep[U, TextureDescriptor, Texture]{
		kind: KindTexture,
		create: func(b Backend, _ ecs.EntityID, d TextureDescriptor) (Texture, error) {
			return b.CreateTexture(d)
		},
		skip: func(_ ecs.EntityID, d TextureDescriptor) bool { return d.Size.Empty() },
		ready: func(id ecs.EntityID) {
			if view, ok := ecs.Get[Descriptor[U, TextureViewDescriptor]](p.world, id); ok {
				view.Data.SetChanged(true)
			}
		},
	})
}

// CreateTextureViews waits for the texture of the same usage to be Ready.
func CreateTextureViews[U any](p *Pipeline) system.System {
	return prepare(p, prepareStep[U, TextureViewDescriptor, TextureView]{
		kind: KindTextureView,
		create: func(b Backend, id ecs.EntityID, d TextureViewDescriptor) (TextureView, error) {
			tex, _ := ecs.Get[Slot[U, Texture]](p.world, id)
			return b.CreateTextureView(tex.Data.MustGet(), d)
		},
		skip: func(id ecs.EntityID, _ TextureViewDescriptor) bool {
			tex, ok := ecs.Get[Slot[U, Texture]](p.world, id)
			return !ok || !tex.Data.IsReady()
		},
	})
}

func CreateShaderModules[U any](p *Pipeline) system.System {
	return prepare(p, prepareStep[U, ShaderModuleDescriptor, ShaderModule]{
		kind: KindShaderModule,
		create: func(b Backend, _ ecs.EntityID, d ShaderModuleDescriptor) (ShaderModule, error) {
			return b.CreateShaderModule(d)
		},
	})
}

func CreateSamplers[U any](p *Pipeline) system.System {
	return prepare(p, prepareStep[U, SamplerDescriptor, Sampler]{
		kind: KindSampler,
		create: func(b Backend, _ ecs.EntityID, d SamplerDescriptor) (Sampler, error) {
			return b.CreateSampler(d)
		},
	})
}

// WriteBuffers uploads dirty BufferData into its target buffer. Writes whose
// target is missing or not yet Ready stay dirty and are retried.
func WriteBuffers[U any](p *Pipeline) system.System {
	return system.Func{P: system.PhaseRender, Fn: func(time.Duration) {
		b, ok := p.backend()
		if !ok {
			return
		}
		ecs.Each3(p.world, func(id ecs.EntityID, wr *BufferWrite[U], data *BufferData[U], target *BufferTarget[U]) {
			if !data.Data.GetChanged() {
				return
			}
			slot, err := target.Get(p.world)
			if err != nil {
				p.log.Debug("buffer write target unavailable", zap.Uint64("entity", uint64(id)), zap.Error(err))
				return
			}
			buf, ready := slot.Data.Get()
			if !ready {
				return
			}
			if err := b.WriteBuffer(buf, wr.Offset, data.Data.Get()); err != nil {
				p.log.Warn("buffer write failed",
					zap.String("usage", usageName[U]()),
					zap.Uint64("entity", uint64(id)),
					zap.Error(err),
				)
				return
			}
			data.Data.SetChanged(false)
		})
	}}
}

func drop[U any, R Resource](p *Pipeline, kind string) system.System {
	return system.Func{P: system.PhaseCleanup, Fn: func(time.Duration) {
		var done []ecs.EntityID
		ecs.Each2(p.world, func(id ecs.EntityID, _ *Invalidated[U, R], slot *Slot[U, R]) {
			done = append(done, id)
			res, ready := slot.Data.Get()
			if !ready {
				return
			}
			if b, ok := p.backend(); ok {
				b.Release(res.ID())
			}
			slot.Data.SetDropped()
			event.Emit(p.bus, event.ResourceDropped{Entity: id, Kind: kind, Usage: usageName[U]()})
		})
		for _, id := range done {
			ecs.Remove[Invalidated[U, R]](p.world, id)
		}
	}}
}

// DropBuffers releases invalidated Ready buffers and leaves their slots Dropped.
func DropBuffers[U any](p *Pipeline) system.System  { return drop[U, Buffer](p, KindBuffer) }
func DropTextures[U any](p *Pipeline) system.System { return drop[U, Texture](p, KindTexture) }
func DropTextureViews[U any](p *Pipeline) system.System {
	return drop[U, TextureView](p, KindTextureView)
}
