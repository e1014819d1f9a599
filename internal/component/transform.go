// Package component holds the world-level bookkeeping components shared by
// every world: transforms, named and tagged entities, and the swap and copy
// helpers built on Indirect.
package component

import (
	"encoding/binary"
	"math"

	core "github.com/antigen-go/antigen/internal/core/component"
)

// Vec3 is a 3D vector in world units.
type Vec3 struct {
	X, Y, Z float32
}

func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Mul(o Vec3) Vec3      { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) AppendBytes(b []byte) []byte {
	for _, f := range [3]float32{v.X, v.Y, v.Z} {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// Quat is a unit quaternion.
type Quat struct {
	X, Y, Z, W float32
}

func QuatIdentity() Quat { return Quat{W: 1} }

// QuatAxisAngle returns the rotation of angle radians around axis. The axis
// must be normalised.
func QuatAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math.Sincos(float64(angle) / 2)
	return Quat{axis.X * float32(s), axis.Y * float32(s), axis.Z * float32(s), float32(c)}
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quat) AppendBytes(b []byte) []byte {
	for _, f := range [4]float32{q.X, q.Y, q.Z, q.W} {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

type (
	Position struct{}
	Rotation struct{}
	Scale    struct{}
)

type (
	PositionComponent = core.Usage[Position, Vec3]
	RotationComponent = core.Usage[Rotation, Quat]
	ScaleComponent    = core.Usage[Scale, Vec3]
)

func NewPosition(v Vec3) *PositionComponent { return core.NewUsage[Position](v) }
func NewRotation(q Quat) *RotationComponent { return core.NewUsage[Rotation](q) }
func NewScale(v Vec3) *ScaleComponent       { return core.NewUsage[Scale](v) }
