package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BufferSpec describes one buffer an entity owns.
type BufferSpec struct {
	Usage  string    `yaml:"usage"` // uniform, vertex, index, storage
	Label  string    `yaml:"label"`
	Size   uint64    `yaml:"size"`
	Floats []float32 `yaml:"floats"` // initial contents, little-endian f32
	Script string    `yaml:"script"` // Lua function feeding the buffer each tick
	Offset uint64    `yaml:"offset"`
}

// TextureSpec describes a texture and optionally a view of it.
type TextureSpec struct {
	Usage  string `yaml:"usage"` // framebuffer, depth
	Label  string `yaml:"label"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	Format string `yaml:"format"`
	View   bool   `yaml:"view"`
}

type ShaderSpec struct {
	Label  string `yaml:"label"`
	Source string `yaml:"source"`
}

type SamplerSpec struct {
	Label  string `yaml:"label"`
	Filter string `yaml:"filter"` // nearest (default) or linear
}

// EntitySpec is one entity of a scene. Every field is optional.
type EntitySpec struct {
	Name     string        `yaml:"name"`
	Position *[3]float32   `yaml:"position"`
	Scale    *[3]float32   `yaml:"scale"`
	Buffers  []BufferSpec  `yaml:"buffers"`
	Textures []TextureSpec `yaml:"textures"`
	Shaders  []ShaderSpec  `yaml:"shaders"`
	Samplers []SamplerSpec `yaml:"samplers"`
}

// Scene is a parsed scene descriptor.
type Scene struct {
	Name     string
	Entities []EntitySpec
}

// Resources counts the GPU resources the scene declares.
func (s *Scene) Resources() int {
	n := 0
	for _, e := range s.Entities {
		n += len(e.Buffers) + len(e.Shaders) + len(e.Samplers)
		for _, t := range e.Textures {
			n++
			if t.View {
				n++
			}
		}
	}
	return n
}

type sceneFile struct {
	Scene struct {
		Name     string       `yaml:"name"`
		Entities []EntitySpec `yaml:"entities"`
	} `yaml:"scene"`
}

var (
	bufferUsages  = map[string]bool{"uniform": true, "vertex": true, "index": true, "storage": true}
	textureUsages = map[string]bool{"framebuffer": true, "depth": true}
	formats       = map[string]bool{"": true, "rgba8unorm": true, "rgba16float": true, "depth32float": true}
	filters       = map[string]bool{"": true, "nearest": true, "linear": true}
)

// ParseScene decodes and validates a scene descriptor.
func ParseScene(raw []byte) (*Scene, error) {
	var f sceneFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	s := &Scene{Name: f.Scene.Name, Entities: f.Scene.Entities}
	for i := range s.Entities {
		if err := validateEntity(&s.Entities[i]); err != nil {
			return nil, fmt.Errorf("scene %q entity %d: %w", s.Name, i, err)
		}
	}
	return s, nil
}

func validateEntity(e *EntitySpec) error {
	for i := range e.Buffers {
		b := &e.Buffers[i]
		if !bufferUsages[b.Usage] {
			return fmt.Errorf("buffer %q: unknown usage %q", b.Label, b.Usage)
		}
		if b.Size == 0 {
			b.Size = b.Offset + uint64(len(b.Floats))*4
		}
		if b.Size == 0 {
			return fmt.Errorf("buffer %q: size or floats required", b.Label)
		}
		if b.Offset+uint64(len(b.Floats))*4 > b.Size {
			return fmt.Errorf("buffer %q: %d floats at offset %d overflow size %d", b.Label, len(b.Floats), b.Offset, b.Size)
		}
	}
	for _, t := range e.Textures {
		if !textureUsages[t.Usage] {
			return fmt.Errorf("texture %q: unknown usage %q", t.Label, t.Usage)
		}
		if !formats[t.Format] {
			return fmt.Errorf("texture %q: unknown format %q", t.Label, t.Format)
		}
	}
	for _, sh := range e.Shaders {
		if sh.Source == "" {
			return fmt.Errorf("shader %q: empty source", sh.Label)
		}
	}
	for _, sm := range e.Samplers {
		if !filters[sm.Filter] {
			return fmt.Errorf("sampler %q: unknown filter %q", sm.Label, sm.Filter)
		}
	}
	return nil
}

// LoadScene reads and parses a scene descriptor file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	return ParseScene(raw)
}
