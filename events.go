package lazytween

import (
	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/pkg/errors"
)

// StaleHandle is published when a call is made through a handle whose tween
// is gone.
type StaleHandle struct {
	Op     string
	Entity ecs.Entity
}

// SubscriberPanic is published when a callback panics. The pass goes on with
// the next subscriber.
type SubscriberPanic struct {
	Kind   CallbackKind
	Entity ecs.Entity
	Err    error
}

// FuncPanic is published when a custom easing or interpolation function
// panics. The pass uses the plain value for that tween instead.
type FuncPanic struct {
	Func   string
	Entity ecs.Entity
	Err    error
}

// IntegrityWarning is published when the pipeline finds and repairs a state
// the public API cannot produce.
type IntegrityWarning struct {
	Entity ecs.Entity
	Reason string
}

// Events returns the diagnostics bus. Subscriptions survive Initialize and
// Destroy.
func (s *Scheduler) Events() *ecs.EventBus {
	return &s.events
}

func (s *Scheduler) stale(op string, e ecs.Entity) {
	if s.settings.WarnStaleHandles {
		s.logger.Printf("%s: stale tween handle %s ignored", op, e)
	}
	ecs.Publish(&s.events, StaleHandle{Op: op, Entity: e})
}

func (s *Scheduler) integrity(e ecs.Entity, reason string) {
	s.logger.Printf("integrity warning on tween %s: %s", e, reason)
	ecs.Publish(&s.events, IntegrityWarning{Entity: e, Reason: reason})
}

// invoke runs one subscriber and turns a panic into a logged, published
// error.
func invoke[A any](s *Scheduler, kind CallbackKind, e ecs.Entity, fn func(A), arg A) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("%s subscriber of tween %s panicked: %v", kind, e, r)
			s.logger.Printf("%+v", err)
			ecs.Publish(&s.events, SubscriberPanic{Kind: kind, Entity: e, Err: err})
		}
	}()
	fn(arg)
}

// fire runs the subscribers of one callback pool for e.
func (s *Scheduler) fire(kind CallbackKind, e ecs.Entity) {
	mc := s.callbacks[kind].Get(e)
	if mc == nil || mc.len() == 0 {
		return
	}
	subs := mc.entries
	tw := s.handle(e)
	for i := range subs {
		if fn := subs[i].fn; fn != nil {
			invoke(s, kind, e, fn, tw)
		}
	}
}

// guard runs a custom easing or interpolation function and returns fallback
// if it panics.
func guard[R any](s *Scheduler, what string, e ecs.Entity, fallback R, fn func() R) (r R) {
	defer func() {
		if rec := recover(); rec != nil {
			err := errors.Errorf("%s function of tween %s panicked: %v", what, e, rec)
			s.logger.Printf("%+v", err)
			ecs.Publish(&s.events, FuncPanic{Func: what, Entity: e, Err: err})
			r = fallback
		}
	}()
	return fn()
}
