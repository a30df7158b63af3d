package vmath

import "github.com/go-gl/mathgl/mgl32"

// Quat is a rotation quaternion. The zero value is not a rotation; use
// QuatIdentity.
type Quat struct {
	X, Y, Z, W float32
}

// QuatOf converts an mgl32 quaternion.
func QuatOf(q mgl32.Quat) Quat {
	return Quat{q.V[0], q.V[1], q.V[2], q.W}
}

// Mgl returns q as an mgl32 quaternion.
func (q Quat) Mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return QuatOf(mgl32.QuatIdent())
}

// QuatFromAxisAngle builds a rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	a := axis.Mgl()
	if a.Len() == 0 {
		return QuatIdentity()
	}
	return QuatOf(mgl32.QuatRotate(angle, a.Normalize()))
}

// Dot returns the 4D dot product.
func (q Quat) Dot(o Quat) float32 {
	return q.Mgl().Dot(o.Mgl())
}

// Len returns the quaternion norm.
func (q Quat) Len() float32 {
	return q.Mgl().Len()
}

// Normalize returns q scaled to unit length, or the identity for a zero q.
func (q Quat) Normalize() Quat {
	return QuatOf(q.Mgl().Normalize())
}

// shorter returns o or -o, whichever lies on the same hemisphere as q.
func (q Quat) shorter(o Quat) mgl32.Quat {
	m := o.Mgl()
	if q.Dot(o) < 0 {
		m = m.Scale(-1)
	}
	return m
}

// Nlerp interpolates linearly along the shorter arc and renormalizes.
func (q Quat) Nlerp(o Quat, t float32) Quat {
	return QuatOf(mgl32.QuatNlerp(q.Mgl(), q.shorter(o), t))
}

// Slerp interpolates at constant angular speed along the shorter arc. Nearly
// parallel inputs fall back to Nlerp.
func (q Quat) Slerp(o Quat, t float32) Quat {
	return QuatOf(mgl32.QuatSlerp(q.Mgl(), q.shorter(o), t))
}
