package lazytween

import (
	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/edwinsyarief/lazytween/vmath"
)

// Value is the closed set of types a tween can animate.
type Value interface {
	float32 | vmath.Vec2 | vmath.Vec3 | vmath.Vec4 | vmath.Quat | vmath.Color
}

// valueSystem is the type-erased face of a changeSystem, used where the
// pipeline walks every value type.
type valueSystem interface {
	name() string
	has(e ecs.Entity) bool
	apply(s *Scheduler, e ecs.Entity, progress float32, alt bool) bool
	unsubscribe(e ecs.Entity, sub Subscription) bool
}

// changeSystem interpolates and publishes values of one type. lerp is the
// default interpolation; alt is selected by the ShortestAngle flag.
type changeSystem[T Value] struct {
	configs   *ecs.Pool[Config[T]]
	overrides *ecs.Pool[OverrideLerp[T]]
	lerp      LerpFunc[T]
	alt       LerpFunc[T]
	typeName  string
}

func newChangeSystem[T Value](w *ecs.World, typeName string, lerp, alt LerpFunc[T]) *changeSystem[T] {
	return &changeSystem[T]{
		configs:   ecs.NewPool[Config[T]](w),
		overrides: ecs.NewPool[OverrideLerp[T]](w),
		lerp:      lerp,
		alt:       alt,
		typeName:  typeName,
	}
}

func (cs *changeSystem[T]) name() string { return cs.typeName }

func (cs *changeSystem[T]) has(e ecs.Entity) bool { return cs.configs.Has(e) }

func (cs *changeSystem[T]) value(s *Scheduler, e ecs.Entity, progress float32, alt bool) (T, bool) {
	var v T
	cfg := cs.configs.Get(e)
	if cfg == nil {
		return v, false
	}
	from, to := cfg.From, cfg.To
	switch o := cs.overrides.Get(e); {
	case o != nil && o.Fn != nil:
		fn := o.Fn
		v = guard(s, "Lerp", e, cs.lerp(from, to, progress), func() T {
			return fn(from, to, progress)
		})
	case alt:
		v = cs.alt(from, to, progress)
	default:
		v = cs.lerp(from, to, progress)
	}
	return v, true
}

func (cs *changeSystem[T]) apply(s *Scheduler, e ecs.Entity, progress float32, alt bool) bool {
	v, ok := cs.value(s, e, progress, alt)
	if !ok {
		return false
	}
	// The config may move while subscribers run; iterate a copy of the header.
	subs := cs.configs.Get(e).OnChange.entries
	for i := range subs {
		if fn := subs[i].fn; fn != nil {
			invoke(s, KindChange, e, fn, v)
		}
	}
	return true
}

func (cs *changeSystem[T]) unsubscribe(e ecs.Entity, sub Subscription) bool {
	cfg := cs.configs.Get(e)
	if cfg == nil {
		return false
	}
	return cfg.OnChange.remove(sub.id, sub.slot)
}

// valueSystems owns one changeSystem per Value type.
type valueSystems struct {
	floats *changeSystem[float32]
	vec2s  *changeSystem[vmath.Vec2]
	vec3s  *changeSystem[vmath.Vec3]
	vec4s  *changeSystem[vmath.Vec4]
	quats  *changeSystem[vmath.Quat]
	colors *changeSystem[vmath.Color]
	all    []valueSystem
}

func newValueSystems(w *ecs.World) valueSystems {
	vs := valueSystems{
		floats: newChangeSystem[float32](w, "float32", vmath.Lerp, vmath.LerpAngle),
		vec2s:  newChangeSystem[vmath.Vec2](w, "Vec2", vmath.Vec2.Lerp, vmath.Vec2.LerpAngle),
		vec3s:  newChangeSystem[vmath.Vec3](w, "Vec3", vmath.Vec3.Lerp, vmath.Vec3.LerpAngle),
		vec4s:  newChangeSystem[vmath.Vec4](w, "Vec4", vmath.Vec4.Lerp, vmath.Vec4.LerpAngle),
		quats:  newChangeSystem[vmath.Quat](w, "Quat", vmath.Quat.Nlerp, vmath.Quat.Slerp),
		colors: newChangeSystem[vmath.Color](w, "Color", vmath.Color.Lerp, vmath.Color.LerpHcl),
	}
	vs.all = []valueSystem{vs.floats, vs.vec2s, vs.vec3s, vs.vec4s, vs.quats, vs.colors}
	return vs
}

// kindOf returns the value type name of e, or "none" for sequences and
// callback placeholders.
func (vs *valueSystems) kindOf(e ecs.Entity) string {
	for _, sys := range vs.all {
		if sys.has(e) {
			return sys.name()
		}
	}
	return "none"
}

// systemFor picks the changeSystem for T with a type switch instead of a
// reflection lookup.
func systemFor[T Value](s *Scheduler) *changeSystem[T] {
	var zero T
	var sys any
	switch any(zero).(type) {
	case float32:
		sys = s.values.floats
	case vmath.Vec2:
		sys = s.values.vec2s
	case vmath.Vec3:
		sys = s.values.vec3s
	case vmath.Vec4:
		sys = s.values.vec4s
	case vmath.Quat:
		sys = s.values.quats
	case vmath.Color:
		sys = s.values.colors
	}
	return sys.(*changeSystem[T])
}
