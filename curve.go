package lazytween

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// Keyframe is one control point of a Curve. Tangents are slopes in value
// units per time unit.
type Keyframe struct {
	Time       float32 `yaml:"time"`
	Value      float32 `yaml:"value"`
	InTangent  float32 `yaml:"inTangent"`
	OutTangent float32 `yaml:"outTangent"`
}

// Curve is a piecewise cubic Hermite spline used as a custom ease.
type Curve struct {
	keys []Keyframe
}

// NewCurve builds a curve from keyframes in any order. At least one key is
// required and every field must be finite.
func NewCurve(keys ...Keyframe) (*Curve, error) {
	if len(keys) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "curve has no keyframes")
	}
	for i, k := range keys {
		if !finite(k.Time) || !finite(k.Value) || !finite(k.InTangent) || !finite(k.OutTangent) {
			return nil, errors.Wrapf(ErrInvalidArgument, "keyframe %d is not finite", i)
		}
	}
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b Keyframe) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return &Curve{keys: sorted}, nil
}

// Keys returns a copy of the sorted keyframes.
func (c *Curve) Keys() []Keyframe {
	return slices.Clone(c.keys)
}

// Evaluate samples the curve at t. Outside the key range the nearest end
// value is held.
func (c *Curve) Evaluate(t float32) float32 {
	first, last := c.keys[0], c.keys[len(c.keys)-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}
	// index of the first key strictly after t
	i, _ := slices.BinarySearchFunc(c.keys, t, func(k Keyframe, t float32) int {
		if k.Time <= t {
			return -1
		}
		return 1
	})
	k0, k1 := c.keys[i-1], c.keys[i]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	u := (t - k0.Time) / dt
	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// Ease exposes the curve as an EaseFunc.
func (c *Curve) Ease() EaseFunc {
	return c.Evaluate
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
