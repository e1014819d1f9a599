// Package gpu drives GPU resources through the lazy create/recreate pattern.
// The graphics API itself sits behind Backend; Headless is an in-memory
// implementation for tests and the sandbox.
package gpu

import "fmt"

// Handle identifies a backend object. Zero is never issued.
type Handle uint64

func (h Handle) ID() Handle { return h }

// Resource kinds, as reported in events and Headless counters.
const (
	KindBuffer       = "buffer"
	KindTexture      = "texture"
	KindTextureView  = "texture_view"
	KindShaderModule = "shader_module"
	KindSampler      = "sampler"
)

// Resource is any backend object a LazyComponent can hold.
type Resource interface {
	ID() Handle
}

type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageCopySrc
	BufferUsageCopyDst
)

type BufferDescriptor struct {
	Label    string
	Size     uint64
	Usage    BufferUsage
	Contents []byte // initial contents; Size is taken from it when non-empty
}

type Extent3D struct {
	Width, Height, DepthOrArrayLayers uint32
}

func (e Extent3D) Empty() bool {
	return e.Width == 0 || e.Height == 0 || e.DepthOrArrayLayers == 0
}

func (e Extent3D) String() string {
	return fmt.Sprintf("%dx%dx%d", e.Width, e.Height, e.DepthOrArrayLayers)
}

type TextureFormat string

const (
	FormatRGBA8Unorm   TextureFormat = "rgba8unorm"
	FormatRGBA16Float  TextureFormat = "rgba16float"
	FormatDepth32Float TextureFormat = "depth32float"
)

type TextureDescriptor struct {
	Label         string
	Size          Extent3D
	Format        TextureFormat
	MipLevelCount uint32
	SampleCount   uint32
}

type TextureViewDescriptor struct {
	Label         string
	Format        TextureFormat // empty inherits the texture format
	BaseMipLevel  uint32
	MipLevelCount uint32
}

type ShaderModuleDescriptor struct {
	Label  string
	Source string
}

type FilterMode string

const (
	FilterNearest FilterMode = "nearest"
	FilterLinear  FilterMode = "linear"
)

type SamplerDescriptor struct {
	Label     string
	MagFilter FilterMode
	MinFilter FilterMode
}

type Buffer struct {
	Handle
	Size uint64
}

type Texture struct {
	Handle
	Size   Extent3D
	Format TextureFormat
}

type TextureView struct {
	Handle
	Texture Handle
}

type ShaderModule struct{ Handle }

type Sampler struct{ Handle }
