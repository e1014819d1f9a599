package fs

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antigen-go/antigen/internal/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/exchange"
	"github.com/antigen-go/antigen/internal/data"
	"github.com/antigen-go/antigen/internal/gpu"
	"github.com/antigen-go/antigen/internal/scripting"
)

// SceneEntities lists the entities a scene assembled into a world, in
// descriptor order.
type SceneEntities struct {
	Scene    string
	Entities []ecs.EntityID
}

// LoadScene parses the scene descriptor at path in the receiving world and
// sends world to a message that assembles it. The descriptor text is kept in
// the receiving world as a loaded file.
func LoadScene(path string, to exchange.Identity) exchange.MessageFunc {
	return func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
		scene, err := data.LoadScene(path)
		if err != nil {
			return ctx, eris.Wrapf(err, "load scene %s", path)
		}
		ctx.Channel.Logger().Info("scene loaded",
			zap.String("path", path),
			zap.String("scene", scene.Name),
			zap.Int("entities", len(scene.Entities)),
			zap.Int("resources", scene.Resources()),
		)
		return ctx, ctx.Channel.SendTo(to, AssembleScene(scene))
	}
}

// AssembleScene spawns the scene's entities into the receiving world with
// Pending resources and dirty descriptors, then records them in a
// SceneEntities component.
func AssembleScene(scene *data.Scene) exchange.MessageFunc {
	return func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
		ids := make([]ecs.EntityID, 0, len(scene.Entities))
		for i := range scene.Entities {
			id, err := assembleEntity(ctx.World, &scene.Entities[i])
			if err != nil {
				return ctx, eris.Wrapf(err, "assemble scene %q entity %d", scene.Name, i)
			}
			ids = append(ids, id)
		}
		ecs.Spawn(ctx.World, &SceneEntities{Scene: scene.Name, Entities: ids})
		ctx.Channel.Logger().Debug("scene assembled",
			zap.String("scene", scene.Name),
			zap.Int("entities", len(ids)),
		)
		return ctx, nil
	}
}

func assembleEntity(w *ecs.World, e *data.EntitySpec) (ecs.EntityID, error) {
	id := w.Spawn()
	if e.Name != "" {
		_ = ecs.Insert(w, id, component.NewNamedEntity(e.Name))
		// Worlds without an index only keep the component.
		_ = component.InsertNamedEntity(w, e.Name, id)
	}
	if e.Position != nil {
		_ = ecs.Insert(w, id, component.NewPosition(component.V3(e.Position[0], e.Position[1], e.Position[2])))
	}
	if e.Scale != nil {
		_ = ecs.Insert(w, id, component.NewScale(component.V3(e.Scale[0], e.Scale[1], e.Scale[2])))
	}
	for _, b := range e.Buffers {
		if err := addBuffer(w, id, b); err != nil {
			return id, err
		}
	}
	for _, t := range e.Textures {
		if err := addTexture(w, id, t); err != nil {
			return id, err
		}
	}
	for _, sh := range e.Shaders {
		desc := gpu.ShaderModuleDescriptor{Label: sh.Label, Source: sh.Source}
		if err := gpu.AddShaderModule[gpu.Shader](w, id, desc); err != nil {
			return id, err
		}
	}
	for _, sm := range e.Samplers {
		if err := addSampler(w, id, sm); err != nil {
			return id, err
		}
	}
	return id, nil
}

var errUnknownUsage = eris.New("unknown usage")

func addBuffer(w *ecs.World, id ecs.EntityID, b data.BufferSpec) error {
	desc := gpu.BufferDescriptor{Label: b.Label, Size: b.Size}
	switch b.Usage {
	case "uniform":
		desc.Usage = gpu.BufferUsageUniform | gpu.BufferUsageCopyDst
		return addBufferAs[gpu.Uniform](w, id, desc, b)
	case "vertex":
		desc.Usage = gpu.BufferUsageVertex | gpu.BufferUsageCopyDst
		return addBufferAs[gpu.Vertex](w, id, desc, b)
	case "index":
		desc.Usage = gpu.BufferUsageIndex | gpu.BufferUsageCopyDst
		return addBufferAs[gpu.Index](w, id, desc, b)
	case "storage":
		desc.Usage = gpu.BufferUsageStorage | gpu.BufferUsageCopyDst
		return addBufferAs[gpu.Storage](w, id, desc, b)
	}
	return eris.Wrapf(errUnknownUsage, "buffer %q usage %q", b.Label, b.Usage)
}

// addBufferAs attaches the buffer and, when it has initial floats or a
// script, a write entity feeding it.
func addBufferAs[U any](w *ecs.World, id ecs.EntityID, desc gpu.BufferDescriptor, b data.BufferSpec) error {
	if err := gpu.AddBuffer[U](w, id, desc); err != nil {
		return err
	}
	if len(b.Floats) == 0 && b.Script == "" {
		return nil
	}
	wid := gpu.AddBufferWrite[U](w, id, b.Offset, scripting.EncodeFloats(b.Floats))
	if b.Script != "" {
		return ecs.Insert(w, wid, &scripting.Script{Func: b.Script})
	}
	return nil
}

func addTexture(w *ecs.World, id ecs.EntityID, t data.TextureSpec) error {
	desc := gpu.TextureDescriptor{
		Label:         t.Label,
		Size:          gpu.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
		Format:        gpu.TextureFormat(t.Format),
		MipLevelCount: 1,
		SampleCount:   1,
	}
	var view *gpu.TextureViewDescriptor
	if t.View {
		view = &gpu.TextureViewDescriptor{Label: t.Label}
	}
	switch t.Usage {
	case "framebuffer":
		if desc.Format == "" {
			desc.Format = gpu.FormatRGBA8Unorm
		}
		return gpu.AddTexture[gpu.Framebuffer](w, id, desc, view)
	case "depth":
		if desc.Format == "" {
			desc.Format = gpu.FormatDepth32Float
		}
		return gpu.AddTexture[gpu.Depth](w, id, desc, view)
	}
	return eris.Wrapf(errUnknownUsage, "texture %q usage %q", t.Label, t.Usage)
}

func addSampler(w *ecs.World, id ecs.EntityID, s data.SamplerSpec) error {
	if s.Filter == "linear" {
		desc := gpu.SamplerDescriptor{Label: s.Label, MagFilter: gpu.FilterLinear, MinFilter: gpu.FilterLinear}
		return gpu.AddSampler[gpu.Linear](w, id, desc)
	}
	desc := gpu.SamplerDescriptor{Label: s.Label, MagFilter: gpu.FilterNearest, MinFilter: gpu.FilterNearest}
	return gpu.AddSampler[gpu.Nearest](w, id, desc)
}

// Assembled returns the entities scene spawned into w.
func Assembled(w *ecs.World, scene string) ([]ecs.EntityID, bool) {
	var (
		out   []ecs.EntityID
		found bool
	)
	ecs.Each(w, func(_ ecs.EntityID, s *SceneEntities) {
		if !found && s.Scene == scene {
			out, found = s.Entities, true
		}
	})
	return out, found
}
