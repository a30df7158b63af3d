// Package vmath holds the value types lazytween can animate and the
// interpolation functions for them. All arithmetic is float32; vector and
// quaternion math is delegated to mgl32.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Lerp interpolates between a and b. t is not clamped, so overshooting eases
// extrapolate past the end points.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpAngle interpolates between two angles in radians along the shorter arc.
func LerpAngle(a, b, t float32) float32 {
	return a + DeltaAngle(a, b)*t
}

// DeltaAngle returns the signed shortest difference b-a, in [-π, π).
func DeltaAngle(a, b float32) float32 {
	d := math.Mod(float64(b-a), 2*math.Pi)
	if d < -math.Pi {
		d += 2 * math.Pi
	} else if d >= math.Pi {
		d -= 2 * math.Pi
	}
	return float32(d)
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Vec2Of converts an mgl32 vector.
func Vec2Of(v mgl32.Vec2) Vec2 { return Vec2{v[0], v[1]} }

// Mgl returns v as an mgl32 vector.
func (v Vec2) Mgl() mgl32.Vec2 { return mgl32.Vec2{v.X, v.Y} }

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2Of(v.Mgl().Add(o.Mgl())) }

// Scale returns v*s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2Of(v.Mgl().Mul(s)) }

// Lerp interpolates component-wise toward o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	a := v.Mgl()
	return Vec2Of(a.Add(o.Mgl().Sub(a).Mul(t)))
}

// LerpAngle treats each component as an angle in radians.
func (v Vec2) LerpAngle(o Vec2, t float32) Vec2 {
	return Vec2{LerpAngle(v.X, o.X, t), LerpAngle(v.Y, o.Y, t)}
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3Of converts an mgl32 vector.
func Vec3Of(v mgl32.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Mgl returns v as an mgl32 vector.
func (v Vec3) Mgl() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3Of(v.Mgl().Add(o.Mgl())) }

// Scale returns v*s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3Of(v.Mgl().Mul(s)) }

// Lerp interpolates component-wise toward o.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	a := v.Mgl()
	return Vec3Of(a.Add(o.Mgl().Sub(a).Mul(t)))
}

// LerpAngle treats each component as an Euler angle in radians.
func (v Vec3) LerpAngle(o Vec3, t float32) Vec3 {
	return Vec3{LerpAngle(v.X, o.X, t), LerpAngle(v.Y, o.Y, t), LerpAngle(v.Z, o.Z, t)}
}

// Vec4 is a 4D vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec4Of converts an mgl32 vector.
func Vec4Of(v mgl32.Vec4) Vec4 { return Vec4{v[0], v[1], v[2], v[3]} }

// Mgl returns v as an mgl32 vector.
func (v Vec4) Mgl() mgl32.Vec4 { return mgl32.Vec4{v.X, v.Y, v.Z, v.W} }

// Add returns v+o.
func (v Vec4) Add(o Vec4) Vec4 { return Vec4Of(v.Mgl().Add(o.Mgl())) }

// Scale returns v*s.
func (v Vec4) Scale(s float32) Vec4 { return Vec4Of(v.Mgl().Mul(s)) }

// Lerp interpolates component-wise toward o.
func (v Vec4) Lerp(o Vec4, t float32) Vec4 {
	a := v.Mgl()
	return Vec4Of(a.Add(o.Mgl().Sub(a).Mul(t)))
}

// LerpAngle treats each component as an angle in radians.
func (v Vec4) LerpAngle(o Vec4, t float32) Vec4 {
	return Vec4{LerpAngle(v.X, o.X, t), LerpAngle(v.Y, o.Y, t), LerpAngle(v.Z, o.Z, t), LerpAngle(v.W, o.W, t)}
}
