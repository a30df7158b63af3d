package lazytween

import (
	"math"

	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/edwinsyarief/lazytween/vmath"
	"github.com/pkg/errors"
)

// NewTween schedules a tween from from to to over duration seconds on the
// default channel. onChange may be nil. Negative or NaN durations count as
// zero: the tween completes on its first pass.
func NewTween[T Value](s *Scheduler, from, to T, duration float32, onChange func(T)) Tween {
	if s.world == nil {
		s.logger.Printf("NewTween: scheduler is not initialized")
		return Tween{}
	}
	e := s.spawn(duration)
	cfg := systemFor[T](s).configs.Add(e, Config[T]{From: from, To: to})
	if onChange != nil {
		cfg.OnChange.add(onChange, s.nextSubscription())
	}
	if s.defaultEase != nil {
		s.eased.Add(e, Eased{Fn: s.defaultEase})
	}
	return s.handle(e)
}

// Float schedules a float32 tween.
func (s *Scheduler) Float(from, to, duration float32, onChange func(float32)) Tween {
	return NewTween(s, from, to, duration, onChange)
}

// Vec2 schedules a 2D vector tween.
func (s *Scheduler) Vec2(from, to vmath.Vec2, duration float32, onChange func(vmath.Vec2)) Tween {
	return NewTween(s, from, to, duration, onChange)
}

// Vec3 schedules a 3D vector tween.
func (s *Scheduler) Vec3(from, to vmath.Vec3, duration float32, onChange func(vmath.Vec3)) Tween {
	return NewTween(s, from, to, duration, onChange)
}

// Vec4 schedules a 4D vector tween.
func (s *Scheduler) Vec4(from, to vmath.Vec4, duration float32, onChange func(vmath.Vec4)) Tween {
	return NewTween(s, from, to, duration, onChange)
}

// Quat schedules a rotation tween. It uses nlerp unless ShortestAngle
// selects slerp.
func (s *Scheduler) Quat(from, to vmath.Quat, duration float32, onChange func(vmath.Quat)) Tween {
	return NewTween(s, from, to, duration, onChange)
}

// Color schedules a color tween. It blends RGBA channels unless
// ShortestAngle selects HCL blending.
func (s *Scheduler) Color(from, to vmath.Color, duration float32, onChange func(vmath.Color)) Tween {
	return NewTween(s, from, to, duration, onChange)
}

// spawn creates a bare tween entity on the default channel.
func (s *Scheduler) spawn(duration float32) ecs.Entity {
	if duration < 0 || math.IsNaN(float64(duration)) {
		duration = 0
	}
	return s.spawner.NewEntity(Status{}, TweenState{Duration: duration})
}

// typed resolves tw and checks that it animates T.
func typed[T Value](op string, tw Tween) (*changeSystem[T], error) {
	if !tw.resolve(op) {
		return nil, tw.staleErr(op)
	}
	sys := systemFor[T](tw.s)
	if !sys.has(tw.e) {
		return nil, &TypeMismatchError{Op: op, Want: sys.name(), Have: tw.s.values.kindOf(tw.e)}
	}
	return sys, nil
}

// Lerp overrides the interpolation of a tween animating T. A nil fn restores
// the default. Calling it on a tween of another value type returns a
// *TypeMismatchError.
func Lerp[T Value](tw Tween, fn LerpFunc[T]) (Tween, error) {
	sys, err := typed[T]("Lerp", tw)
	if err != nil {
		return tw, err
	}
	if fn == nil {
		sys.overrides.Remove(tw.e)
		return tw, nil
	}
	sys.overrides.Add(tw.e, OverrideLerp[T]{Fn: fn})
	return tw, nil
}

// BlendLab makes a color tween blend in CIE L*a*b* space, which keeps
// perceived lightness even between distant hues.
func BlendLab(tw Tween) (Tween, error) {
	return Lerp[vmath.Color](tw, vmath.Color.LerpLab)
}

// OnChange adds a value subscriber to a tween animating T.
func OnChange[T Value](tw Tween, fn func(T)) (Subscription, error) {
	sys, err := typed[T]("OnChange", tw)
	if err != nil {
		return Subscription{}, err
	}
	if fn == nil {
		return Subscription{}, errors.Wrap(ErrInvalidArgument, "OnChange: nil function")
	}
	id := tw.s.nextSubscription()
	slot := sys.configs.Get(tw.e).OnChange.add(fn, id)
	return Subscription{Kind: KindChange, Entity: tw.e, id: id, slot: slot}, nil
}

// Values returns the end points of a tween animating T.
func Values[T Value](tw Tween) (from, to T, ok bool) {
	if !tw.valid() {
		return from, to, false
	}
	cfg := systemFor[T](tw.s).configs.Get(tw.e)
	if cfg == nil {
		return from, to, false
	}
	return cfg.From, cfg.To, true
}

// SetValues replaces the end points of a tween animating T. The new values
// are delivered by the next pass.
func SetValues[T Value](tw Tween, from, to T) (Tween, error) {
	sys, err := typed[T]("SetValues", tw)
	if err != nil {
		return tw, err
	}
	cfg := sys.configs.Get(tw.e)
	cfg.From, cfg.To = from, to
	return tw, nil
}
