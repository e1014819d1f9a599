package gpu

import (
	"sync"

	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidHandle is returned for writes to released or unknown buffers.
	ErrInvalidHandle = eris.New("invalid handle")
	// ErrOutOfBounds is returned when a write does not fit its buffer.
	ErrOutOfBounds = eris.New("write out of bounds")
	// ErrInjected is the failure produced by Headless.FailNext.
	ErrInjected = eris.New("injected backend failure")
)

// Headless is an in-memory Backend. Buffers keep their bytes so writes can be
// inspected; every other object is just a live handle.
type Headless struct {
	mu      sync.Mutex
	next    Handle
	live    map[Handle]string
	buffers map[Handle][]byte
	created map[string]int
	writes  int
	fail    map[string]int
}

func NewHeadless() *Headless {
	return &Headless{
		live:    make(map[Handle]string),
		buffers: make(map[Handle][]byte),
		created: make(map[string]int),
		fail:    make(map[string]int),
	}
}

// FailNext makes the next n creations of kind fail with ErrInjected.
func (h *Headless) FailNext(kind string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail[kind] += n
}

// Created returns how many objects of kind were ever created.
func (h *Headless) Created(kind string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created[kind]
}

// Live returns how many objects are currently not released.
func (h *Headless) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// Writes returns how many buffer writes succeeded.
func (h *Headless) Writes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes
}

// Contents returns a copy of a buffer's bytes.
func (h *Headless) Contents(b Buffer) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, ok := h.buffers[b.Handle]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (h *Headless) alloc(kind string) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail[kind] > 0 {
		h.fail[kind]--
		return 0, eris.Wrapf(ErrInjected, "create %s", kind)
	}
	h.next++
	h.live[h.next] = kind
	h.created[kind]++
	return h.next, nil
}

func (h *Headless) CreateBuffer(desc BufferDescriptor) (Buffer, error) {
	size := desc.Size
	if len(desc.Contents) > 0 {
		size = uint64(len(desc.Contents))
	}
	id, err := h.alloc(KindBuffer)
	if err != nil {
		return Buffer{}, err
	}
	data := make([]byte, size)
	copy(data, desc.Contents)
	h.mu.Lock()
	h.buffers[id] = data
	h.mu.Unlock()
	return Buffer{Handle: id, Size: size}, nil
}

func (h *Headless) CreateTexture(desc TextureDescriptor) (Texture, error) {
	id, err := h.alloc(KindTexture)
	if err != nil {
		return Texture{}, err
	}
	return Texture{Handle: id, Size: desc.Size, Format: desc.Format}, nil
}

func (h *Headless) CreateTextureView(tex Texture, _ TextureViewDescriptor) (TextureView, error) {
	h.mu.Lock()
	_, ok := h.live[tex.Handle]
	h.mu.Unlock()
	if !ok {
		return TextureView{}, eris.Wrapf(ErrInvalidHandle, "view of texture %d", tex.Handle)
	}
	id, err := h.alloc(KindTextureView)
	if err != nil {
		return TextureView{}, err
	}
	return TextureView{Handle: id, Texture: tex.Handle}, nil
}

func (h *Headless) CreateShaderModule(ShaderModuleDescriptor) (ShaderModule, error) {
	id, err := h.alloc(KindShaderModule)
	return ShaderModule{Handle: id}, err
}

func (h *Headless) CreateSampler(SamplerDescriptor) (Sampler, error) {
	id, err := h.alloc(KindSampler)
	return Sampler{Handle: id}, err
}

func (h *Headless) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	dst, ok := h.buffers[buf.Handle]
	if !ok {
		return eris.Wrapf(ErrInvalidHandle, "write buffer %d", buf.Handle)
	}
	if offset+uint64(len(data)) > uint64(len(dst)) {
		return eris.Wrapf(ErrOutOfBounds, "write %d bytes at %d into %d", len(data), offset, len(dst))
	}
	copy(dst[offset:], data)
	h.writes++
	return nil
}

func (h *Headless) Release(id Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.live, id)
	delete(h.buffers, id)
}
