package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangle = `
scene:
  name: triangle
  entities:
    - name: camera
      position: [0, 0, 5]
      buffers:
        - usage: uniform
          label: camera
          floats: [1, 0, 0, 1]
          script: pulse
    - name: target
      textures:
        - usage: framebuffer
          label: hdr
          width: 640
          height: 480
          format: rgba16float
          view: true
      shaders:
        - label: tri
          source: "@vertex fn vs_main() {}"
      samplers:
        - label: linear
          filter: linear
`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(triangle))
	require.NoError(t, err)
	assert.Equal(t, "triangle", s.Name)
	require.Len(t, s.Entities, 2)

	cam := s.Entities[0]
	assert.Equal(t, &[3]float32{0, 0, 5}, cam.Position)
	assert.Nil(t, cam.Scale)
	assert.Equal(t, uint64(16), cam.Buffers[0].Size, "size derived from floats")
	assert.Equal(t, "pulse", cam.Buffers[0].Script)
	assert.Equal(t, 5, s.Resources())
}

func TestParseSceneRejects(t *testing.T) {
	cases := map[string]string{
		"unknown buffer usage": `
scene:
  entities:
    - buffers: [{usage: texel, size: 4}]`,
		"empty buffer": `
scene:
  entities:
    - buffers: [{usage: uniform}]`,
		"overflow": `
scene:
  entities:
    - buffers: [{usage: uniform, size: 4, floats: [1, 2]}]`,
		"bad format": `
scene:
  entities:
    - textures: [{usage: depth, format: bgra}]`,
		"empty shader": `
scene:
  entities:
    - shaders: [{label: x}]`,
		"bad filter": `
scene:
  entities:
    - samplers: [{filter: cubic}]`,
		"not yaml": "scene: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScene([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(triangle), 0o644))

	s, err := LoadScene(path)
	require.NoError(t, err)
	assert.Equal(t, "triangle", s.Name)

	_, err = LoadScene(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
