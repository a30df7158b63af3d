package lazytween

import (
	"math"
	"slices"

	"github.com/tanema/gween/ease"
)

// EaseFunc remaps normalized progress. Results may leave [0, 1] for
// overshooting curves.
type EaseFunc func(t float32) float32

// FromGween adapts a gween easing function, which maps (t, begin, change,
// duration), to a normalized EaseFunc.
func FromGween(fn ease.TweenFunc) EaseFunc {
	if fn == nil {
		return nil
	}
	return func(t float32) float32 {
		return fn(t, 0, 1, 1)
	}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inQuint":      ease.InQuint,
	"outQuint":     ease.OutQuint,
	"inOutQuint":   ease.InOutQuint,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
}

// EaseByName looks up a catalogue easing by its camel-case name, e.g.
// "outBounce".
func EaseByName(name string) (EaseFunc, bool) {
	fn, ok := easings[name]
	if !ok {
		return nil, false
	}
	return FromGween(fn), true
}

// EaseNames lists the catalogue names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// punch oscillates around the start value and settles back on it. vibrato
// is the number of extra half swings; elasticity in [0, 1] slows the decay.
func punch(vibrato int, elasticity float32) EaseFunc {
	freq := float64(2*vibrato+1) * math.Pi
	exp := float64(1 - elasticity)
	return func(t float32) float32 {
		if t <= 0 || t >= 1 {
			return 0
		}
		decay := math.Pow(1-float64(t), exp)
		return float32(math.Sin(freq*float64(t)) * decay)
	}
}
