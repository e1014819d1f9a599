package scripting

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/system"
	"github.com/antigen-go/antigen/internal/gpu"
)

// Script binds a buffer write entity to the Lua function producing its data.
type Script struct {
	Func string
}

// EncodeFloats packs values as little-endian f32, the layout uniform buffers
// expect.
func EncodeFloats(values []float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// UniformSystem evaluates each Script every tick and stores the encoded
// result in the entity's BufferData. The dirty flag is raised only when the
// bytes differ, so WriteBuffers uploads nothing for a static script.
func UniformSystem[U any](w *ecs.World, e *Engine) system.System {
	var elapsed time.Duration
	return system.Func{P: system.PhaseUpdate, Fn: func(dt time.Duration) {
		elapsed += dt
		t := elapsed.Seconds()
		ecs.Each2(w, func(id ecs.EntityID, s *Script, data *gpu.BufferData[U]) {
			values, err := e.Eval(s.Func, t)
			if err != nil {
				e.log.Warn("uniform script failed",
					zap.String("func", s.Func),
					zap.Uint64("entity", uint64(id)),
					zap.Error(err),
				)
				return
			}
			encoded := EncodeFloats(values)
			if bytes.Equal(encoded, data.Data.Get()) {
				return
			}
			data.Data.Set(encoded)
			data.Data.SetChanged(true)
		})
	}}
}
