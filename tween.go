package lazytween

import (
	"math"

	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
)

// Tween is a handle to a scheduled tween, sequence or callback. Handles are
// plain values; copy them freely. Every call resolves the handle first. Once
// the tween is gone chaining calls do nothing, queries return zero values
// and fallible calls return ErrStaleHandle.
type Tween struct {
	s     *Scheduler
	epoch uint32
	e     ecs.Entity
}

// Entity returns the underlying entity handle.
func (t Tween) Entity() ecs.Entity {
	return t.e
}

// Scheduler returns the scheduler the tween belongs to.
func (t Tween) Scheduler() *Scheduler {
	return t.s
}

func (t Tween) valid() bool {
	return t.s != nil && t.s.world != nil && t.epoch == t.s.epoch && t.s.world.IsValid(t.e)
}

func (t Tween) resolve(op string) bool {
	if t.valid() {
		return true
	}
	if t.s != nil {
		t.s.stale(op, t.e)
	}
	return false
}

func (t Tween) staleErr(op string) error {
	return errors.Wrapf(ErrStaleHandle, "%s on %s", op, t.e)
}

// IsAlive reports whether the handle still resolves.
func (t Tween) IsAlive() bool {
	return t.valid()
}

// IsActive reports whether the tween is alive, not complete and not killed.
// Paused tweens are active.
func (t Tween) IsActive() bool {
	return t.valid() && t.s.status.Get(t.e).State == StateRunning
}

// IsPaused reports whether the tween is paused.
func (t Tween) IsPaused() bool {
	return t.valid() && t.s.status.Get(t.e).has(FlagPaused)
}

// IsComplete reports whether the tween reached its end and is kept alive by
// Preserve.
func (t Tween) IsComplete() bool {
	return t.valid() && t.s.status.Get(t.e).State == StateComplete
}

// IsReversed reports whether the tween runs backward.
func (t Tween) IsReversed() bool {
	return t.valid() && t.s.status.Get(t.e).has(FlagReverse)
}

// IsPreserved reports whether the tween survives completion.
func (t Tween) IsPreserved() bool {
	return t.valid() && t.s.status.Get(t.e).has(FlagPreserve)
}

// Elapsed returns the time the tween has run, in seconds.
func (t Tween) Elapsed() float64 {
	if !t.valid() {
		return 0
	}
	return t.s.states.Get(t.e).Elapsed
}

// Duration returns the total duration including loops. It is +Inf for
// tweens that loop forever.
func (t Tween) Duration() float32 {
	if !t.valid() {
		return 0
	}
	return t.s.states.Get(t.e).Duration
}

// Group returns the channel driving the tween. Sequence members and tweens
// removed from every channel report false.
func (t Tween) Group() (Group, bool) {
	if !t.valid() {
		return 0, false
	}
	return t.s.groupOf(t.e)
}

func (t Tween) setFlag(op string, f Flags, on bool) Tween {
	if t.resolve(op) {
		t.s.status.Get(t.e).set(f, on)
	}
	return t
}

// Pause stops the tween from advancing.
func (t Tween) Pause() Tween { return t.setFlag("Pause", FlagPaused, true) }

// Resume lets a paused tween advance again.
func (t Tween) Resume() Tween { return t.setFlag("Resume", FlagPaused, false) }

// Preserve keeps the tween alive after it completes.
func (t Tween) Preserve() Tween { return t.setFlag("Preserve", FlagPreserve, true) }

// ClearPreserve lets a completed tween be removed. A tween that already
// completed is removed by the next pass that reaches it.
func (t Tween) ClearPreserve() Tween {
	if !t.resolve("ClearPreserve") {
		return t
	}
	st := t.s.status.Get(t.e)
	st.set(FlagPreserve, false)
	if st.State == StateComplete && !t.s.members.Has(t.e) {
		t.s.kill(t.e, false)
	}
	return t
}

// PingPong alternates the direction on every loop. The loop machine owns
// the Reverse flag while both are set.
func (t Tween) PingPong() Tween { return t.setFlag("PingPong", FlagPingPong, true) }

// ClearPingPong stops alternating. The current direction is kept.
func (t Tween) ClearPingPong() Tween { return t.setFlag("ClearPingPong", FlagPingPong, false) }

// ShortestAngle selects the alternate interpolation: shortest arc for
// angles, slerp for rotations, HCL blending for colors.
func (t Tween) ShortestAngle() Tween { return t.setFlag("ShortestAngle", FlagShortestAngle, true) }

// ClearShortestAngle restores the default interpolation.
func (t Tween) ClearShortestAngle() Tween {
	return t.setFlag("ClearShortestAngle", FlagShortestAngle, false)
}

// From toggles the direction without moving the elapsed time, so the tween
// runs back from where it is.
func (t Tween) From() Tween {
	if t.resolve("From") {
		t.s.status.Get(t.e).Flags ^= FlagReverse
	}
	return t
}

// GoTo seeks to time seconds, clamped to the duration, and clears
// completion. Loop callbacks for skipped cycles do not fire. Killed tweens
// stay killed.
func (t Tween) GoTo(time float32) Tween {
	if !t.resolve("GoTo") {
		return t
	}
	st := t.s.status.Get(t.e)
	if st.State == StateMarkedForRemoval {
		return t
	}
	ts := t.s.states.Get(t.e)
	v := float64(time)
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	v = min(v, float64(ts.Duration))
	ts.Elapsed = v
	ts.undoValid = false
	st.State = StateRunning
	if lp := t.s.loops.Get(t.e); lp != nil {
		alignLoop(lp, v)
	}
	if t.s.sequencers.Has(t.e) {
		t.s.realign(t.e, t.s.cyclePosition(t.e))
	}
	return t
}

// Restart is GoTo(0).
func (t Tween) Restart() Tween {
	return t.GoTo(0)
}

// Complete jumps to the end. An infinite loop is cancelled and shortened to
// one cycle; finite loops keep their record so the next pass fires the
// remaining OnLoop boundaries and lands on the direction of the last cycle.
func (t Tween) Complete() Tween {
	if !t.resolve("Complete") {
		return t
	}
	if t.s.status.Get(t.e).State == StateRunning {
		t.s.forceEnd(t.e)
	}
	return t
}

// Reverse flips the direction and mirrors the elapsed time, so the value
// does not jump. Reversing twice without a pass in between restores the
// elapsed time exactly.
func (t Tween) Reverse() Tween {
	if !t.resolve("Reverse") {
		return t
	}
	t.s.status.Get(t.e).Flags ^= FlagReverse
	ts := t.s.states.Get(t.e)
	if math.IsInf(float64(ts.Duration), 1) {
		return t
	}
	if ts.undoValid && ts.Elapsed == ts.undoAt {
		ts.Elapsed = ts.undo
		ts.undoValid = false
	} else {
		prev := ts.Elapsed
		ts.Elapsed = float64(ts.Duration) - prev
		ts.undo, ts.undoAt, ts.undoValid = prev, ts.Elapsed, true
	}
	if lp := t.s.loops.Get(t.e); lp != nil {
		alignLoop(lp, ts.Elapsed)
	}
	return t
}

// Kill marks the tween for removal by the next pass that reaches it. With
// complete the tween first jumps to its end, and that pass delivers the
// final value and OnComplete before OnKill.
func (t Tween) Kill(complete bool) Tween {
	if t.resolve("Kill") {
		t.s.kill(t.e, complete)
	}
	return t
}

// KillSync kills the tween and runs a zero-delta pass over it at once, so
// the callbacks have fired when it returns.
func (t Tween) KillSync(complete bool) (Tween, error) {
	if !t.resolve("KillSync") {
		return t, t.staleErr("KillSync")
	}
	if t.s.running {
		return t, errors.Wrap(ErrInvalidOperation, "KillSync: pipeline already running")
	}
	t.s.kill(t.e, complete)
	t.s.scratch.roots = append(t.s.scratch.roots[:0], t.e)
	t.s.pass(t.s.scratch.roots, 0)
	return t, nil
}

// ManualUpdate runs the pipeline for this tween alone, whatever its
// channel. Sequence members are driven by their sequence and fail with
// ErrInvalidOperation.
func (t Tween) ManualUpdate(dt float32) (Tween, error) {
	return t.manualUpdate("ManualUpdate", dt)
}

// Sync is ManualUpdate(0): it delivers the current value and any pending
// completion or kill.
func (t Tween) Sync() (Tween, error) {
	return t.manualUpdate("Sync", 0)
}

func (t Tween) manualUpdate(op string, dt float32) (Tween, error) {
	if !t.resolve(op) {
		return t, t.staleErr(op)
	}
	if err := checkDelta(dt); err != nil {
		return t, errors.WithMessage(err, op)
	}
	if t.s.running {
		return t, errors.Wrapf(ErrInvalidOperation, "%s: pipeline already running", op)
	}
	if t.s.members.Has(t.e) {
		return t, errors.Wrapf(ErrInvalidOperation, "%s: %s is driven by its sequence", op, t.e)
	}
	t.s.scratch.roots = append(t.s.scratch.roots[:0], t.e)
	t.s.pass(t.s.scratch.roots, dt)
	return t, nil
}

// SetGroup moves the tween to channel g.
func (t Tween) SetGroup(g Group) (Tween, error) {
	if !t.resolve("SetGroup") {
		return t, t.staleErr("SetGroup")
	}
	if int(g) >= len(t.s.groups) {
		return t, errors.Wrapf(ErrInvalidArgument, "SetGroup: unknown group %d", g)
	}
	if t.s.members.Has(t.e) {
		return t, errors.Wrap(ErrInvalidOperation, "SetGroup: sequence members are driven by their sequence")
	}
	t.s.leaveGroups(t.e)
	t.s.groupTag(g).Add(t.e)
	return t, nil
}

// ClearGroup removes the tween from every channel. It then only advances
// through ManualUpdate.
func (t Tween) ClearGroup() Tween {
	if t.resolve("ClearGroup") {
		t.s.leaveGroups(t.e)
	}
	return t
}

// Loop repeats the current cycle n times; the total duration becomes n
// cycles. Loop(0) removes looping and restores a single cycle.
func (t Tween) Loop(n int) (Tween, error) {
	if !t.resolve("Loop") {
		return t, t.staleErr("Loop")
	}
	if n < 0 || n > math.MaxInt32 {
		return t, errors.Wrapf(ErrInvalidArgument, "Loop: count %d", n)
	}
	s := t.s
	ts := s.states.Get(t.e)
	lp := s.loops.Get(t.e)
	cycle := ts.Duration
	if lp != nil {
		cycle = lp.Duration
	}
	if n == 0 {
		if lp != nil {
			s.loops.Remove(t.e)
			ts.Duration = cycle
		}
		s.resizeInParent(t.e)
		return t, nil
	}
	if math.IsInf(float64(cycle), 0) {
		return t, errors.Wrap(ErrInvalidArgument, "Loop: tween has no finite cycle")
	}
	lp = s.loops.Add(t.e, Loop{Count: int32(n), Duration: cycle})
	ts.Duration = float32(n) * cycle
	alignLoop(lp, ts.Elapsed)
	s.resizeInParent(t.e)
	return t, nil
}

// LoopForever repeats the current cycle until the tween is completed or
// killed. Sequence members cannot loop forever; the call is ignored for them.
func (t Tween) LoopForever() Tween {
	if !t.resolve("LoopForever") {
		return t
	}
	s := t.s
	if s.members.Has(t.e) {
		s.logger.Printf("LoopForever: %s is a sequence member, ignored", t.e)
		return t
	}
	ts := s.states.Get(t.e)
	cycle := ts.Duration
	if lp := s.loops.Get(t.e); lp != nil {
		cycle = lp.Duration
	}
	if !(cycle > 0) || math.IsInf(float64(cycle), 0) {
		s.logger.Printf("LoopForever: %s has no positive finite cycle, ignored", t.e)
		return t
	}
	lp := s.loops.Add(t.e, Loop{Count: -1, Duration: cycle})
	ts.Duration = float32(math.Inf(1))
	alignLoop(lp, ts.Elapsed)
	return t
}

// Ease installs a gween easing function.
func (t Tween) Ease(fn ease.TweenFunc) (Tween, error) {
	if fn == nil {
		return t, errors.Wrap(ErrInvalidArgument, "Ease: nil function")
	}
	return t.setEase("Ease", FromGween(fn))
}

// EaseFunc installs a normalized easing function.
func (t Tween) EaseFunc(fn EaseFunc) (Tween, error) {
	if fn == nil {
		return t, errors.Wrap(ErrInvalidArgument, "EaseFunc: nil function")
	}
	return t.setEase("EaseFunc", fn)
}

// EaseCurve eases along a keyframe curve.
func (t Tween) EaseCurve(c *Curve) (Tween, error) {
	if c == nil {
		return t, errors.Wrap(ErrInvalidArgument, "EaseCurve: nil curve")
	}
	return t.setEase("EaseCurve", c.Ease())
}

// EaseNamed installs a catalogue easing or a curve from the settings.
func (t Tween) EaseNamed(name string) (Tween, error) {
	if t.s == nil {
		return t, t.staleErr("EaseNamed")
	}
	fn, ok := t.s.easeByName(name)
	if !ok {
		return t, errors.Wrapf(ErrInvalidArgument, "EaseNamed: unknown ease %q", name)
	}
	return t.setEase("EaseNamed", fn)
}

func (t Tween) setEase(op string, fn EaseFunc) (Tween, error) {
	if !t.resolve(op) {
		return t, t.staleErr(op)
	}
	t.s.eased.Add(t.e, Eased{Fn: fn})
	return t, nil
}

// ClearEase removes any easing, including the default one.
func (t Tween) ClearEase() Tween {
	if t.resolve("ClearEase") {
		t.s.eased.Remove(t.e)
	}
	return t
}

// Subscribe adds fn to the callback list kind and returns its subscription.
// KindChange subscribers are typed; use OnChange for them.
func (t Tween) Subscribe(kind CallbackKind, fn func(Tween)) Subscription {
	if fn == nil || int(kind) >= callbackPools || !t.resolve("Subscribe") {
		return Subscription{}
	}
	pool := t.s.callbacks[kind]
	mc := pool.Get(t.e)
	if mc == nil {
		mc = pool.Add(t.e, multicast[Tween]{})
	}
	id := t.s.nextSubscription()
	slot := mc.add(fn, id)
	return Subscription{Kind: kind, Entity: t.e, id: id, slot: slot}
}

// OnUpdate runs fn after every pass that moved the tween.
func (t Tween) OnUpdate(fn func(Tween)) Tween {
	t.Subscribe(KindUpdate, fn)
	return t
}

// OnLoop runs fn once per loop boundary crossed.
func (t Tween) OnLoop(fn func(Tween)) Tween {
	t.Subscribe(KindLoop, fn)
	return t
}

// OnComplete runs fn when the tween completes.
func (t Tween) OnComplete(fn func(Tween)) Tween {
	t.Subscribe(KindComplete, fn)
	return t
}

// OnKill runs fn right before the tween is destroyed.
func (t Tween) OnKill(fn func(Tween)) Tween {
	t.Subscribe(KindKill, fn)
	return t
}

// RemoveOnUpdate removes an OnUpdate subscription.
func (t Tween) RemoveOnUpdate(sub Subscription) Tween { return t.remove(KindUpdate, sub) }

// RemoveOnLoop removes an OnLoop subscription.
func (t Tween) RemoveOnLoop(sub Subscription) Tween { return t.remove(KindLoop, sub) }

// RemoveOnComplete removes an OnComplete subscription.
func (t Tween) RemoveOnComplete(sub Subscription) Tween { return t.remove(KindComplete, sub) }

// RemoveOnKill removes an OnKill subscription.
func (t Tween) RemoveOnKill(sub Subscription) Tween { return t.remove(KindKill, sub) }

func (t Tween) remove(kind CallbackKind, sub Subscription) Tween {
	if sub.Kind != kind {
		if t.s != nil {
			t.s.logger.Printf("Remove%s: subscription belongs to %s", kind, sub.Kind)
		}
		return t
	}
	t.Unsubscribe(sub)
	return t
}

// Unsubscribe removes any subscription of this tween, including OnChange
// ones. It reports whether a subscriber was removed.
func (t Tween) Unsubscribe(sub Subscription) bool {
	if sub.IsZero() || sub.Entity != t.e || !t.resolve("Unsubscribe") {
		return false
	}
	if sub.Kind == KindChange {
		for _, sys := range t.s.values.all {
			if sys.has(t.e) {
				return sys.unsubscribe(t.e, sub)
			}
		}
		return false
	}
	if int(sub.Kind) >= callbackPools {
		return false
	}
	mc := t.s.callbacks[sub.Kind].Get(t.e)
	return mc != nil && mc.remove(sub.id, sub.slot)
}

// forceEnd moves elapsed to the end of the timeline, cancelling an
// infinite loop first.
func (s *Scheduler) forceEnd(e ecs.Entity) {
	ts := s.states.Get(e)
	if lp := s.loops.Get(e); lp != nil && lp.Count < 0 {
		ts.Duration = lp.Duration
		s.loops.Remove(e)
	}
	ts.Elapsed = float64(ts.Duration)
	ts.undoValid = false
}

// kill moves e to MarkedForRemoval. It reports false when e was already
// marked.
func (s *Scheduler) kill(e ecs.Entity, complete bool) bool {
	st := s.status.Get(e)
	if st.State == StateMarkedForRemoval {
		return false
	}
	if complete && st.State == StateRunning {
		s.forceEnd(e)
		st.set(flagCompleteOnKill, true)
	}
	st.State = StateMarkedForRemoval
	if s.running && !st.has(flagCompleteOnKill) {
		s.scratch.pending = append(s.scratch.pending, e)
	}
	return true
}

// alignLoop sets Current to the cycle containing elapsed so the next pass
// fires no callbacks for cycles skipped by a seek.
func alignLoop(lp *Loop, elapsed float64) {
	if !(lp.Duration > 0) {
		return
	}
	f := math.Floor(elapsed / float64(lp.Duration))
	switch {
	case f < 0:
		lp.Current, lp.HasCurrent = 0, false
	case lp.Count > 0 && f >= float64(lp.Count):
		// at the very end: every boundary counts as crossed
		lp.Current, lp.HasCurrent = lp.Count-1, true
	default:
		lp.Current, lp.HasCurrent = int32(min(f, math.MaxInt32)), true
	}
}
