package gpu

import (
	"github.com/antigen-go/antigen/internal/core/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
)

// Usage tags. A tag distinguishes resources of the same kind on one entity.
type (
	Uniform     struct{}
	Vertex      struct{}
	Index       struct{}
	Storage     struct{}
	Framebuffer struct{}
	Depth       struct{}
	Shader      struct{}
	Linear      struct{}
	Nearest     struct{}
)

type (
	BufferDescriptorComponent       = component.Changed[BufferDescriptor]
	TextureDescriptorComponent      = component.Changed[TextureDescriptor]
	TextureViewDescriptorComponent  = component.Changed[TextureViewDescriptor]
	ShaderModuleDescriptorComponent = component.Changed[ShaderModuleDescriptor]
	SamplerDescriptorComponent      = component.Changed[SamplerDescriptor]

	BufferComponent       = component.LazyComponent[Buffer, component.Unit, component.Unit]
	TextureComponent      = component.LazyComponent[Texture, component.Unit, component.Unit]
	TextureViewComponent  = component.LazyComponent[TextureView, component.Unit, component.Unit]
	ShaderModuleComponent = component.LazyComponent[ShaderModule, component.Unit, component.Unit]
	SamplerComponent      = component.LazyComponent[Sampler, component.Unit, component.Unit]
)

// Descriptor is the usage-tagged dirty descriptor of a resource kind.
type Descriptor[U, D any] = component.Usage[U, *component.Changed[D]]

// Slot is the usage-tagged lazy slot holding a created resource.
type Slot[U, R any] = component.Usage[U, *component.LazyComponent[R, component.Unit, component.Unit]]

// BufferData is the usage-tagged byte payload uploaded by WriteBuffers.
type BufferData[U any] = component.Usage[U, *component.Changed[[]byte]]

// BufferTarget points a write entity at the buffer slot it fills.
type BufferTarget[U any] = component.Indirect[Slot[U, Buffer]]

// BufferWrite marks an entity whose BufferData is copied into the target
// buffer at Offset.
type BufferWrite[U any] struct {
	Offset uint64
}

// Invalidated requests that the Ready resource R of usage U on the entity be
// released and its slot moved to Dropped.
type Invalidated[U, R any] struct{}

// SetDevice installs the backend as the world's Device singleton, replacing
// any previous one.
func SetDevice(w *ecs.World, b Backend) ecs.EntityID {
	if id, dev, ok := ecs.First[Device](w); ok {
		dev.Backend = b
		return id
	}
	return ecs.Spawn(w, &Device{Backend: b})
}

func addResource[U, D, R any](w *ecs.World, id ecs.EntityID, desc D) error {
	if err := ecs.Insert(w, id, component.NewUsageChanged[U](desc, true)); err != nil {
		return err
	}
	return ecs.Insert(w, id, component.NewUsageLazy[U, R]())
}

// AddBuffer attaches a dirty descriptor and a Pending slot for a buffer.
func AddBuffer[U any](w *ecs.World, id ecs.EntityID, desc BufferDescriptor) error {
	return addResource[U, BufferDescriptor, Buffer](w, id, desc)
}

// AddTexture attaches a texture and, when view is non-nil, a view of it under
// the same usage.
func AddTexture[U any](w *ecs.World, id ecs.EntityID, desc TextureDescriptor, view *TextureViewDescriptor) error {
	if err := addResource[U, TextureDescriptor, Texture](w, id, desc); err != nil {
		return err
	}
	if view == nil {
		return nil
	}
	return addResource[U, TextureViewDescriptor, TextureView](w, id, *view)
}

func AddShaderModule[U any](w *ecs.World, id ecs.EntityID, desc ShaderModuleDescriptor) error {
	return addResource[U, ShaderModuleDescriptor, ShaderModule](w, id, desc)
}

func AddSampler[U any](w *ecs.World, id ecs.EntityID, desc SamplerDescriptor) error {
	return addResource[U, SamplerDescriptor, Sampler](w, id, desc)
}

// AddBufferWrite spawns a write entity that uploads data into the buffer of
// usage U on target. The data starts dirty so the first tick uploads it.
func AddBufferWrite[U any](w *ecs.World, target ecs.EntityID, offset uint64, data []byte) ecs.EntityID {
	id := ecs.Spawn(w, &BufferWrite[U]{Offset: offset})
	_ = ecs.Insert(w, id, component.NewUsageChanged[U](data, true))
	_ = ecs.Insert(w, id, component.NewIndirect[Slot[U, Buffer]](target))
	return id
}

// Invalidate marks the resource R of usage U on id for dropping.
func Invalidate[U, R any](w *ecs.World, id ecs.EntityID) error {
	return ecs.Insert(w, id, &Invalidated[U, R]{})
}

// RequestRebuild moves a Dropped slot back to Pending so the next prepare
// pass recreates it. It reports whether the slot was Dropped.
func RequestRebuild[U, R any](w *ecs.World, id ecs.EntityID) bool {
	slot, ok := ecs.Get[Slot[U, R]](w, id)
	if !ok || !slot.Data.IsDropped() {
		return false
	}
	slot.Data.SetPending()
	return true
}
