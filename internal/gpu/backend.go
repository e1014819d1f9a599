package gpu

// Backend is the graphics capability the pipeline consumes. Implementations
// wrap a real device; calls are made only from the render world's goroutine.
type Backend interface {
	CreateBuffer(desc BufferDescriptor) (Buffer, error)
	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateTextureView(tex Texture, desc TextureViewDescriptor) (TextureView, error)
	CreateShaderModule(desc ShaderModuleDescriptor) (ShaderModule, error)
	CreateSampler(desc SamplerDescriptor) (Sampler, error)
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
	// Release frees a handle. Releasing an unknown handle is a no-op.
	Release(h Handle)
}

// Device is the singleton component giving systems access to the backend.
type Device struct {
	Backend Backend
}
