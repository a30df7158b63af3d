package lazytween

import (
	"math"
	"math/rand/v2"

	"github.com/edwinsyarief/lazytween/vmath"
	"github.com/pkg/errors"
)

// shakeNoise is a seeded random walk sampled frequency times over the
// tween. Its amplitude decays to zero so the tween still lands on its end
// value.
type shakeNoise struct {
	samples [4][]float32
	freq    float32
}

func newShakeNoise(frequency float32, seed uint64) *shakeNoise {
	n := &shakeNoise{freq: frequency}
	count := int(math.Ceil(float64(frequency))) + 2
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for c := range n.samples {
		n.samples[c] = make([]float32, count)
		// first sample stays 0 so the tween starts on its start value
		for i := 1; i < count; i++ {
			n.samples[c][i] = r.Float32()*2 - 1
		}
	}
	return n
}

func (n *shakeNoise) at(t float32, c int) float32 {
	t = vmath.Clamp01(t)
	s := n.samples[c]
	x := t * n.freq
	i := int(x)
	if i >= len(s)-1 {
		return 0
	}
	return vmath.Lerp(s[i], s[i+1], x-float32(i)) * (1 - t)
}

// Shake adds decaying seeded noise of the given strength on top of the
// normal interpolation. frequency is the number of noise samples over the
// whole tween. Only float32 and vector tweens can shake.
func (t Tween) Shake(strength, frequency float32, seed uint64) (Tween, error) {
	if !t.resolve("Shake") {
		return t, t.staleErr("Shake")
	}
	if strength < 0 || !finite(strength) || !(frequency > 0) || !finite(frequency) {
		return t, errors.Wrapf(ErrInvalidArgument, "Shake: strength %v, frequency %v", strength, frequency)
	}
	n := newShakeNoise(frequency, seed)
	vs := &t.s.values
	switch {
	case vs.floats.has(t.e):
		vs.floats.overrides.Add(t.e, OverrideLerp[float32]{Fn: func(a, b, p float32) float32 {
			return vmath.Lerp(a, b, p) + n.at(p, 0)*strength
		}})
	case vs.vec2s.has(t.e):
		vs.vec2s.overrides.Add(t.e, OverrideLerp[vmath.Vec2]{Fn: func(a, b vmath.Vec2, p float32) vmath.Vec2 {
			return a.Lerp(b, p).Add(vmath.Vec2{X: n.at(p, 0), Y: n.at(p, 1)}.Scale(strength))
		}})
	case vs.vec3s.has(t.e):
		vs.vec3s.overrides.Add(t.e, OverrideLerp[vmath.Vec3]{Fn: func(a, b vmath.Vec3, p float32) vmath.Vec3 {
			return a.Lerp(b, p).Add(vmath.Vec3{X: n.at(p, 0), Y: n.at(p, 1), Z: n.at(p, 2)}.Scale(strength))
		}})
	case vs.vec4s.has(t.e):
		vs.vec4s.overrides.Add(t.e, OverrideLerp[vmath.Vec4]{Fn: func(a, b vmath.Vec4, p float32) vmath.Vec4 {
			return a.Lerp(b, p).Add(vmath.Vec4{X: n.at(p, 0), Y: n.at(p, 1), Z: n.at(p, 2), W: n.at(p, 3)}.Scale(strength))
		}})
	default:
		return t, &TypeMismatchError{Op: "Shake", Want: "float32 or vector", Have: vs.kindOf(t.e)}
	}
	return t, nil
}

// Punch swings around the start value toward the end value and settles
// back on the start. vibrato is the number of extra swings; elasticity in
// [0, 1] slows the decay.
func (t Tween) Punch(vibrato int, elasticity float32) (Tween, error) {
	if vibrato < 0 || !(elasticity >= 0 && elasticity <= 1) {
		return t, errors.Wrapf(ErrInvalidArgument, "Punch: vibrato %d, elasticity %v", vibrato, elasticity)
	}
	return t.setEase("Punch", punch(vibrato, elasticity))
}
