package lazytween

import (
	"weak"
)

// SetTarget associates the tween with obj for KillAllWithTarget. The
// scheduler holds only a weak pointer. A nil obj clears the association.
func SetTarget[T any](tw Tween, obj *T) Tween {
	if !tw.resolve("SetTarget") {
		return tw
	}
	if obj == nil {
		tw.s.targets.Remove(tw.e)
		return tw
	}
	tw.s.targets.Add(tw.e, Target{ref: weak.Make(obj)})
	return tw
}

// TryGetTarget returns the associated object if it is a *T and still
// reachable.
func TryGetTarget[T any](tw Tween) (*T, bool) {
	if !tw.valid() {
		return nil, false
	}
	tg := tw.s.targets.Get(tw.e)
	if tg == nil {
		return nil, false
	}
	wp, ok := tg.ref.(weak.Pointer[T])
	if !ok {
		return nil, false
	}
	p := wp.Value()
	return p, p != nil
}

// KillAllWithTarget kills every tween associated with obj and returns how
// many were newly marked. Removal happens on each tween's next pass.
func KillAllWithTarget[T any](s *Scheduler, obj *T, complete bool) int {
	if s.world == nil || obj == nil {
		return 0
	}
	ref := any(weak.Make(obj))
	matches := append(s.scratch.matches[:0], s.targets.Entities()...)
	n := 0
	for _, e := range matches {
		if tg := s.targets.Get(e); tg != nil && tg.ref == ref && s.kill(e, complete) {
			n++
		}
	}
	s.scratch.matches = matches[:0]
	return n
}
