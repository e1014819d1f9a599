package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/antigen-go/antigen/internal/core/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/event"
	"github.com/antigen-go/antigen/internal/core/system"
)

type fixture struct {
	world   *ecs.World
	bus     *event.Bus
	backend *Headless
	runner  *system.Runner
}

func newFixture(t *testing.T, systems ...func(*Pipeline) system.System) *fixture {
	t.Helper()
	f := &fixture{
		world:   ecs.NewWorld(),
		bus:     event.NewBus(),
		backend: NewHeadless(),
		runner:  system.NewRunner(),
	}
	SetDevice(f.world, f.backend)
	p := NewPipeline(f.world, f.bus, zaptest.NewLogger(t))
	for _, s := range systems {
		f.runner.Register(s(p))
	}
	return f
}

func (f *fixture) tick() {
	f.bus.SwapBuffers()
	f.runner.Tick(0)
}

func TestCreateBuffersPendingToReady(t *testing.T) {
	f := newFixture(t, CreateBuffers[Uniform])
	id := f.world.Spawn()
	require.NoError(t, AddBuffer[Uniform](f.world, id, BufferDescriptor{Label: "u", Size: 64, Usage: BufferUsageUniform}))

	f.runner.Tick(0)

	slot, ok := ecs.Get[Slot[Uniform, Buffer]](f.world, id)
	require.True(t, ok)
	buf, ready := slot.Data.Get()
	require.True(t, ready)
	assert.Equal(t, uint64(64), buf.Size)

	desc, _ := ecs.Get[Descriptor[Uniform, BufferDescriptor]](f.world, id)
	assert.False(t, desc.Data.GetChanged())
	assert.Equal(t, 1, event.Pending[event.ResourceReady](f.bus))

	f.tick()
	assert.Equal(t, 1, f.backend.Created(KindBuffer), "idle slot must not be recreated")
}

func TestCreateBuffersRecreatesOnDirtyDescriptor(t *testing.T) {
	f := newFixture(t, CreateBuffers[Vertex])
	id := f.world.Spawn()
	require.NoError(t, AddBuffer[Vertex](f.world, id, BufferDescriptor{Size: 16}))
	f.tick()

	var got []event.ResourceReady
	event.Subscribe(f.bus, func(ev event.ResourceReady) { got = append(got, ev) })

	desc, _ := ecs.Get[Descriptor[Vertex, BufferDescriptor]](f.world, id)
	desc.Data.Ptr().Size = 32
	desc.Data.SetChanged(true)
	f.tick()

	slot, _ := ecs.Get[Slot[Vertex, Buffer]](f.world, id)
	assert.Equal(t, uint64(32), slot.Data.MustGet().Size)
	assert.Equal(t, 2, f.backend.Created(KindBuffer))
	assert.Equal(t, 1, f.backend.Live(), "old buffer is released")

	f.bus.SwapBuffers()
	f.bus.DispatchAll()
	require.Len(t, got, 1)
	assert.True(t, got[0].Recreate)
	assert.Equal(t, "Vertex", got[0].Usage)
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, CreateBuffers[Uniform])
	id := f.world.Spawn()
	require.NoError(t, AddBuffer[Uniform](f.world, id, BufferDescriptor{Size: 8}))
	f.backend.FailNext(KindBuffer, 1)

	f.tick()
	slot, _ := ecs.Get[Slot[Uniform, Buffer]](f.world, id)
	desc, _ := ecs.Get[Descriptor[Uniform, BufferDescriptor]](f.world, id)
	assert.Equal(t, component.Pending, slot.Data.State())
	assert.True(t, desc.Data.GetChanged())
	assert.Equal(t, 1, event.Pending[event.ResourceFailed](f.bus))

	f.tick()
	assert.True(t, slot.Data.IsReady())
	assert.False(t, desc.Data.GetChanged())
}

func TestCreateTexturesSkipsEmptyAndViewsFollow(t *testing.T) {
	f := newFixture(t, CreateTextures[Framebuffer], CreateTextureViews[Framebuffer])
	id := f.world.Spawn()
	require.NoError(t, AddTexture[Framebuffer](f.world, id,
		TextureDescriptor{Format: FormatRGBA8Unorm},
		&TextureViewDescriptor{Label: "fb"},
	))

	f.tick()
	tex, _ := ecs.Get[Slot[Framebuffer, Texture]](f.world, id)
	view, _ := ecs.Get[Slot[Framebuffer, TextureView]](f.world, id)
	assert.True(t, tex.Data.IsPending(), "zero-sized texture is skipped")
	assert.True(t, view.Data.IsPending(), "view waits for its texture")
	assert.Zero(t, f.backend.Created(KindTextureView))

	desc, _ := ecs.Get[Descriptor[Framebuffer, TextureDescriptor]](f.world, id)
	desc.Data.Set(TextureDescriptor{Size: Extent3D{Width: 640, Height: 480, DepthOrArrayLayers: 1}, Format: FormatRGBA8Unorm})
	desc.Data.SetChanged(true)
	f.tick()
	first := view.Data.MustGet()
	assert.Equal(t, tex.Data.MustGet().Handle, first.Texture)

	desc.Data.Ptr().Size.Width = 800
	desc.Data.SetChanged(true)
	f.tick()
	second := view.Data.MustGet()
	assert.NotEqual(t, first.Handle, second.Handle)
	assert.Equal(t, tex.Data.MustGet().Handle, second.Texture)
	assert.Equal(t, 2, f.backend.Live())
}

func TestWriteBuffersOnlyWhenChanged(t *testing.T) {
	f := newFixture(t, CreateBuffers[Uniform], WriteBuffers[Uniform])
	target := f.world.Spawn()
	require.NoError(t, AddBuffer[Uniform](f.world, target, BufferDescriptor{Size: 4}))
	w := AddBufferWrite[Uniform](f.world, target, 0, []byte{1, 2, 3, 4})

	f.tick()
	slot, _ := ecs.Get[Slot[Uniform, Buffer]](f.world, target)
	got, ok := f.backend.Contents(slot.Data.MustGet())
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
	assert.Equal(t, 1, f.backend.Writes())

	f.tick()
	assert.Equal(t, 1, f.backend.Writes(), "clean data is not rewritten")

	data, _ := ecs.Get[BufferData[Uniform]](f.world, w)
	data.Data.Set([]byte{9, 9})
	data.Data.SetChanged(true)
	f.tick()
	got, _ = f.backend.Contents(slot.Data.MustGet())
	assert.Equal(t, []byte{9, 9, 3, 4}, got)
	assert.False(t, data.Data.GetChanged())
}

func TestWriteBuffersRetriesUntilTargetReady(t *testing.T) {
	f := newFixture(t, WriteBuffers[Uniform])
	target := f.world.Spawn()
	require.NoError(t, AddBuffer[Uniform](f.world, target, BufferDescriptor{Size: 4}))
	w := AddBufferWrite[Uniform](f.world, target, 0, []byte{7})

	f.tick()
	data, _ := ecs.Get[BufferData[Uniform]](f.world, w)
	assert.True(t, data.Data.GetChanged())
	assert.Zero(t, f.backend.Writes())

	f.runner.Register(CreateBuffers[Uniform](NewPipeline(f.world, f.bus, nil)))
	f.tick()
	assert.False(t, data.Data.GetChanged())
	assert.Equal(t, 1, f.backend.Writes())
}

func TestDropAndRebuild(t *testing.T) {
	f := newFixture(t, CreateBuffers[Uniform], DropBuffers[Uniform])
	id := f.world.Spawn()
	require.NoError(t, AddBuffer[Uniform](f.world, id, BufferDescriptor{Size: 4}))
	f.tick()
	require.Equal(t, 1, f.backend.Live())

	require.NoError(t, Invalidate[Uniform, Buffer](f.world, id))
	f.tick()
	slot, _ := ecs.Get[Slot[Uniform, Buffer]](f.world, id)
	assert.True(t, slot.Data.IsDropped())
	assert.Zero(t, f.backend.Live())
	assert.False(t, ecs.Has[Invalidated[Uniform, Buffer]](f.world, id))
	assert.Equal(t, 1, event.Pending[event.ResourceDropped](f.bus))

	f.tick()
	assert.True(t, slot.Data.IsDropped(), "dropped slot stays dropped until rebuilt")

	assert.True(t, RequestRebuild[Uniform, Buffer](f.world, id))
	assert.False(t, RequestRebuild[Uniform, Buffer](f.world, id))
	f.tick()
	assert.True(t, slot.Data.IsReady())
}

func TestNoDeviceIsIdle(t *testing.T) {
	w := ecs.NewWorld()
	id := w.Spawn()
	require.NoError(t, AddShaderModule[Shader](w, id, ShaderModuleDescriptor{Source: "void main() {}"}))
	CreateShaderModules[Shader](NewPipeline(w, event.NewBus(), nil)).Update(0)

	slot, _ := ecs.Get[Slot[Shader, ShaderModule]](w, id)
	assert.True(t, slot.Data.IsPending())
}

func TestHeadlessWriteBounds(t *testing.T) {
	h := NewHeadless()
	buf, err := h.CreateBuffer(BufferDescriptor{Contents: []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), buf.Size)
	assert.ErrorIs(t, h.WriteBuffer(buf, 2, []byte("xy")), ErrOutOfBounds)

	h.Release(buf.Handle)
	assert.ErrorIs(t, h.WriteBuffer(buf, 0, []byte("a")), ErrInvalidHandle)
}
