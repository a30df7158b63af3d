package lazytween

import (
	"math"
	"slices"

	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/pkg/errors"
)

// Sequence is a tween whose timeline drives child tweens. It supports every
// Tween call; looping, reversing and easing a sequence remaps the timeline
// its children see.
type Sequence struct {
	Tween
}

// NewSequence schedules an empty sequence on the default channel.
func (s *Scheduler) NewSequence() Sequence {
	if s.world == nil {
		s.logger.Printf("NewSequence: scheduler is not initialized")
		return Sequence{}
	}
	e := s.spawn(0)
	s.sequencers.Add(e, Sequencer{})
	return Sequence{s.handle(e)}
}

// AsSequence converts a handle back to a Sequence when it is one.
func AsSequence(tw Tween) (Sequence, bool) {
	if !tw.valid() || !tw.s.sequencers.Has(tw.e) {
		return Sequence{}, false
	}
	return Sequence{tw}, true
}

// Members returns handles to the children in insertion order.
func (q Sequence) Members() []Tween {
	if !q.valid() {
		return nil
	}
	sq := q.s.sequencers.Get(q.e)
	if sq == nil {
		return nil
	}
	out := make([]Tween, len(sq.Members))
	for i, m := range sq.Members {
		out[i] = q.s.handle(m)
	}
	return out
}

// Append places child at the end of the timeline and moves both cursors
// past it.
func (q Sequence) Append(child Tween) (Sequence, error) {
	return q.add("Append", child, func(sq *Sequencer, dur float32) float32 {
		at := sq.AppendTime
		sq.JoinTime = at
		sq.AppendTime = at + dur
		return at
	})
}

// Join places child alongside the most recently appended one. The cursors
// do not move.
func (q Sequence) Join(child Tween) (Sequence, error) {
	return q.add("Join", child, func(sq *Sequencer, _ float32) float32 {
		return sq.JoinTime
	})
}

// Insert places child at an explicit time.
func (q Sequence) Insert(at float32, child Tween) (Sequence, error) {
	if err := checkTime("Insert", at); err != nil {
		return q, err
	}
	return q.add("Insert", child, func(*Sequencer, float32) float32 {
		return at
	})
}

// AppendInterval leaves a gap of d seconds at the end of the timeline.
func (q Sequence) AppendInterval(d float32) (Sequence, error) {
	if _, err := q.editable("AppendInterval"); err != nil {
		return q, err
	}
	if err := checkTime("AppendInterval", d); err != nil {
		return q, err
	}
	sq := q.s.sequencers.Get(q.e)
	sq.JoinTime = sq.AppendTime
	sq.AppendTime += d
	q.s.extend(q.e, sq.AppendTime)
	return q, nil
}

// AppendCallback runs fn when the timeline reaches its current end.
func (q Sequence) AppendCallback(fn func(Tween)) (Sequence, error) {
	return q.addCallback("AppendCallback", fn, q.Append)
}

// InsertCallback runs fn when the timeline reaches at.
func (q Sequence) InsertCallback(at float32, fn func(Tween)) (Sequence, error) {
	if err := checkTime("InsertCallback", at); err != nil {
		return q, err
	}
	return q.addCallback("InsertCallback", fn, func(child Tween) (Sequence, error) {
		return q.Insert(at, child)
	})
}

// addCallback creates a zero-duration placeholder whose OnComplete is fn.
func (q Sequence) addCallback(op string, fn func(Tween), place func(Tween) (Sequence, error)) (Sequence, error) {
	if _, err := q.editable(op); err != nil {
		return q, err
	}
	if fn == nil {
		return q, errors.Wrapf(ErrInvalidArgument, "%s: nil function", op)
	}
	child := q.s.handle(q.s.spawn(0)).OnComplete(fn)
	if _, err := place(child); err != nil {
		q.s.world.RemoveEntity(child.e)
		return q, err
	}
	return q, nil
}

func (q Sequence) add(op string, child Tween, place func(*Sequencer, float32) float32) (Sequence, error) {
	if _, err := q.editable(op); err != nil {
		return q, err
	}
	dur, err := q.checkChild(op, child)
	if err != nil {
		return q, err
	}
	s := q.s
	at := place(s.sequencers.Get(q.e), dur)

	s.leaveGroups(child.e)
	s.members.Add(child.e, SequenceMember{Sequence: q.e, Start: at})
	sq := s.sequencers.Get(q.e)
	sq.Members = append(sq.Members, child.e)
	s.extend(q.e, at+dur)
	return q, nil
}

// editable checks that q can take new children.
func (q Sequence) editable(op string) (*Sequencer, error) {
	if !q.resolve(op) {
		return nil, q.staleErr(op)
	}
	sq := q.s.sequencers.Get(q.e)
	if sq == nil {
		return nil, errors.Wrapf(ErrInvalidOperation, "%s: %s is not a sequence", op, q.e)
	}
	if q.s.members.Has(q.e) {
		return nil, errors.Wrapf(ErrInvalidOperation, "%s: sequence %s is nested in another sequence", op, q.e)
	}
	return sq, nil
}

// checkChild validates child and returns its duration.
func (q Sequence) checkChild(op string, child Tween) (float32, error) {
	if !child.valid() {
		return 0, errors.Wrapf(ErrStaleHandle, "%s: child %s", op, child.e)
	}
	if child.s != q.s {
		return 0, errors.Wrapf(ErrInvalidArgument, "%s: child belongs to another scheduler", op)
	}
	if child.e == q.e {
		return 0, errors.Wrapf(ErrInvalidOperation, "%s: a sequence cannot contain itself", op)
	}
	if sm := q.s.members.Get(child.e); sm != nil {
		return 0, errors.Wrapf(ErrInvalidOperation, "%s: %s already belongs to sequence %s", op, child.e, sm.Sequence)
	}
	dur := q.s.states.Get(child.e).Duration
	if math.IsInf(float64(dur), 0) {
		return 0, errors.Wrapf(ErrInvalidArgument, "%s: %s has no finite duration", op, child.e)
	}
	return dur, nil
}

func checkTime(op string, t float32) error {
	if t < 0 || math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
		return errors.Wrapf(ErrInvalidArgument, "%s: time %v", op, t)
	}
	return nil
}

// extend grows the cycle of seq to cover end. A looping sequence keeps its
// loop count over the longer cycle.
func (s *Scheduler) extend(seq ecs.Entity, end float32) {
	ts := s.states.Get(seq)
	if ts == nil {
		return
	}
	if lp := s.loops.Get(seq); lp != nil {
		if end <= lp.Duration {
			return
		}
		lp.Duration = end
		if lp.Count > 0 {
			ts.Duration = float32(lp.Count) * end
		}
	} else {
		if end <= ts.Duration {
			return
		}
		ts.Duration = end
	}
	s.resizeInParent(seq)
}

// resizeInParent lets the sequence containing e grow with it.
func (s *Scheduler) resizeInParent(e ecs.Entity) {
	sm := s.members.Get(e)
	if sm == nil {
		return
	}
	s.extend(sm.Sequence, sm.Start+s.states.Get(e).Duration)
}

// detach removes member m from sequence seq.
func (s *Scheduler) detach(seq, m ecs.Entity) {
	sq := s.sequencers.Get(seq)
	if sq == nil {
		return
	}
	if i := slices.Index(sq.Members, m); i >= 0 {
		sq.Members = slices.Delete(sq.Members, i, i+1)
	}
}

// realign puts every member of seq in the state it would have at pos
// without firing callbacks. Members ending exactly at pos stay armed.
func (s *Scheduler) realign(seq ecs.Entity, pos float64) {
	sq := s.sequencers.Get(seq)
	if sq == nil {
		return
	}
	cycle := int64(0)
	if lp := s.loops.Get(seq); lp != nil && lp.HasCurrent {
		cycle = int64(lp.Current)
	}
	for _, m := range sq.Members {
		st := s.status.Get(m)
		ts := s.states.Get(m)
		sm := s.members.Get(m)
		if st == nil || ts == nil || sm == nil || st.State == StateMarkedForRemoval {
			continue
		}
		local := pos - float64(sm.Start)
		dur := float64(ts.Duration)
		if local > 0 && local >= dur {
			st.State = StateComplete
			ts.Elapsed = dur
			sm.done = cycle + 1
		} else {
			st.State = StateRunning
			ts.Elapsed = max(local, 0)
			sm.done = 0
		}
		ts.undoValid = false
		if lp := s.loops.Get(m); lp != nil {
			alignLoop(lp, ts.Elapsed)
		}
		if s.sequencers.Has(m) {
			s.realign(m, s.cyclePosition(m))
		}
	}
}

// cyclePosition returns the time of e within its current cycle.
func (s *Scheduler) cyclePosition(e ecs.Entity) float64 {
	ts := s.states.Get(e)
	if lp := s.loops.Get(e); lp != nil && lp.Duration > 0 {
		cycle := float64(lp.Duration)
		if lp.Count > 0 && ts.Elapsed >= float64(lp.Count)*cycle {
			return cycle
		}
		return math.Mod(max(ts.Elapsed, 0), cycle)
	}
	return clampTime(ts.Elapsed, float64(ts.Duration))
}
