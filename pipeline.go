package lazytween

import (
	"math"

	"github.com/edwinsyarief/lazytween/ecs"
)

// pass runs the pipeline over roots. Roots are tweens and sequences that are
// not sequence members; members are reached through their sequence.
//
// Stage order per entity:
//
//	0  classify: pending kills, skipped (complete or paused), live
//	1  advance elapsed time, detect completion, attach Active
//	2  base progress
//	3  reverse
//	4  loop and ping-pong, firing OnLoop per crossed boundary
//	5  ease
//	   sequences drive their members, which then run 2-5 themselves
//	6  interpolate, OnChange, OnUpdate
//	7  OnComplete
//	8  mark completed roots for removal
//	9  OnKill and destroy
//	10 strip Active
func (s *Scheduler) pass(roots []ecs.Entity, dt float32) {
	s.running = true
	defer func() { s.running = false }()

	sc := &s.scratch
	sc.live = sc.live[:0]
	sc.kills = sc.kills[:0]
	sc.pending = sc.pending[:0]

	for _, e := range roots {
		st := s.status.Get(e)
		if st == nil {
			continue
		}
		switch {
		case st.State == StateMarkedForRemoval && !st.has(flagCompleteOnKill):
			sc.kills = append(sc.kills, e)
		case st.State == StateMarkedForRemoval:
			sc.live = append(sc.live, e)
		case st.State == StateComplete, st.has(FlagPaused):
		default:
			sc.live = append(sc.live, e)
		}
	}

	for _, e := range sc.live {
		s.advance(e, dt)
	}

	// sc.live grows while sequences append the members they drive.
	for i := 0; i < len(sc.live); i++ {
		e := sc.live[i]
		s.resolveProgress(e)
		if s.sequencers.Has(e) {
			s.propagate(e)
		}
	}

	for _, e := range sc.live {
		s.interpolate(e)
	}

	// Members sit after their sequence in sc.live. Plain tweens complete in
	// order, then sequences backwards so children precede their parent.
	for _, e := range sc.live {
		if !s.sequencers.Has(e) {
			s.completeOne(e)
		}
	}
	for i := len(sc.live) - 1; i >= 0; i-- {
		if e := sc.live[i]; s.sequencers.Has(e) {
			s.completeOne(e)
		}
	}

	for _, e := range sc.live {
		s.markForRemoval(e)
	}
	// Tweens outside this pass carry no Active and wait for their own channel.
	for _, e := range sc.pending {
		if !s.active.Has(e) {
			continue
		}
		if st := s.status.Get(e); st != nil && st.State == StateMarkedForRemoval && !st.has(flagCompleteOnKill) {
			sc.kills = append(sc.kills, e)
		}
	}

	for i := 0; i < len(sc.kills); i++ {
		s.destroy(sc.kills[i])
	}

	for _, e := range sc.live {
		s.active.Remove(e)
	}
}

func (s *Scheduler) advance(e ecs.Entity, dt float32) {
	st := s.status.Get(e)
	ts := s.states.Get(e)
	if !s.members.Has(e) {
		ts.Elapsed += float64(dt)
	}
	a := Active{}
	switch {
	case st.has(flagCompleteOnKill):
		st.set(flagCompleteOnKill, false)
		a.Completed, a.viaKill = true, true
	case st.State == StateRunning && ts.Elapsed >= float64(ts.Duration):
		st.State = StateComplete
		a.Completed = true
	}
	s.active.Add(e, a)
}

// resolveProgress runs stages 2 to 5 and stores the result in Active. Time
// is kept in float64 seconds within the current cycle until the final
// normalization so sequences place their members without rounding drift.
func (s *Scheduler) resolveProgress(e ecs.Entity) {
	ts := s.states.Get(e)
	cycle := float64(ts.Duration)
	t := clampTime(ts.Elapsed, cycle)
	if s.loops.Has(e) {
		// may run OnLoop subscribers
		t, cycle = s.resolveLoop(e, t, cycle)
	}

	p := fraction(t, cycle)
	if s.status.Get(e).has(FlagReverse) {
		p = 1 - p
		t = cycle - t
	}
	if ea := s.eased.Get(e); ea != nil && ea.Fn != nil {
		fn, raw := ea.Fn, float32(p)
		p = float64(guard(s, "Ease", e, raw, func() float32 { return fn(raw) }))
		t = p * cycle
	}
	if a := s.active.Get(e); a != nil {
		a.Progress = float32(p)
		a.position = t
	}
}

// resolveLoop maps the timeline onto the current cycle. It returns the time
// within the cycle and the cycle length, updates Loop.Current, applies the
// ping-pong direction and fires OnLoop once per boundary crossed.
func (s *Scheduler) resolveLoop(e ecs.Entity, t, cycle float64) (float64, float64) {
	lp := s.loops.Get(e)
	if lp.Count == 0 {
		s.loops.Remove(e)
		s.integrity(e, "loop record with zero count removed")
		return t, cycle
	}
	if !(lp.Duration > 0) {
		return t, cycle
	}
	ts := s.states.Get(e)
	st := s.status.Get(e)
	loopCycle := float64(lp.Duration)
	count := int64(lp.Count)

	f := math.Floor(ts.Elapsed / loopCycle)
	switch {
	case f < -1:
		f = -1
	case count > 0 && f > float64(count):
		f = float64(count)
	case f > math.MaxInt32:
		f = math.MaxInt32
	}
	next := int64(f)
	prev := int64(0)
	if lp.HasCurrent {
		prev = int64(lp.Current)
	}
	first, last := max(prev+1, 1), next
	if count > 0 {
		last = min(last, count-1)
	}

	var within float64
	switch {
	case next >= 0 && (count < 0 || next < count):
		lp.Current, lp.HasCurrent = int32(next), true
		within = math.Mod(ts.Elapsed, loopCycle)
	case next < 0:
		lp.Current, lp.HasCurrent = 0, false
	default:
		lp.Current, lp.HasCurrent = 0, false
		within = loopCycle
	}
	if st.has(FlagPingPong) {
		st.set(FlagReverse, next%2 != 0)
	}
	cur := next
	switch {
	case next < 0:
		cur = 0
	case count > 0 && next >= count:
		cur = count - 1
	}
	if a := s.active.Get(e); a != nil {
		a.cycle, a.prevCycle = cur, prev
		a.wrapped = cur > prev
	}

	for k := first; k <= last; k++ {
		s.fire(KindLoop, e)
	}
	return within, loopCycle
}

// propagate places the members of sequence seq on its timeline.
func (s *Scheduler) propagate(seq ecs.Entity) {
	a := s.active.Get(seq)
	sq := s.sequencers.Get(seq)
	if a == nil || sq == nil {
		return
	}
	// drive adds to the Active pool, which may move a
	parent := *a
	for _, m := range sq.Members {
		s.drive(m, parent)
	}
}

// drive derives a member's elapsed time from its sequence's position. A
// member is processed while it is inside its window, once more when it
// completes, and once when the timeline steps back before its start. When
// the sequence wrapped into a new cycle, members that never finished the
// old cycle complete now and the others start over.
func (s *Scheduler) drive(m ecs.Entity, parent Active) {
	st := s.status.Get(m)
	ts := s.states.Get(m)
	sm := s.members.Get(m)
	if st == nil || ts == nil || sm == nil {
		return
	}
	sc := &s.scratch
	if st.State == StateMarkedForRemoval {
		if !st.has(flagCompleteOnKill) {
			sc.kills = append(sc.kills, m)
			return
		}
		st.set(flagCompleteOnKill, false)
		s.active.Add(m, Active{Completed: true, viaKill: true})
		sc.live = append(sc.live, m)
		return
	}
	if st.has(FlagPaused) {
		return
	}

	dur := float64(ts.Duration)
	if parent.wrapped && sm.done != parent.prevCycle+1 {
		st.State = StateComplete
		sm.done = parent.prevCycle + 1
		ts.Elapsed = dur
		ts.undoValid = false
		s.active.Add(m, Active{Completed: true})
		sc.live = append(sc.live, m)
		return
	}

	local := parent.position - float64(sm.Start)
	elapsed := min(max(local, 0), dur)
	if st.State == StateComplete && (sm.done != parent.cycle+1 || elapsed < dur || (dur == 0 && local < 0)) {
		st.State = StateRunning
		if parent.wrapped {
			// starting over, not stepping back
			ts.Elapsed = 0
			if s.sequencers.Has(m) {
				s.realign(m, 0)
			}
		}
	}

	var process, completed bool
	switch {
	case st.State == StateRunning && local >= dur:
		st.State = StateComplete
		sm.done = parent.cycle + 1
		process, completed = true, true
	case local > 0 && local <= dur:
		process = true
	case local <= 0 && ts.Elapsed > 0:
		process = true
	}
	ts.Elapsed = elapsed
	ts.undoValid = false
	if !process {
		return
	}
	s.active.Add(m, Active{Completed: completed})
	sc.live = append(sc.live, m)
}

func (s *Scheduler) interpolate(e ecs.Entity) {
	a := s.active.Get(e)
	if a == nil {
		return
	}
	st := s.status.Get(e)
	if st == nil || st.State == StateMarkedForRemoval && !a.viaKill {
		// killed by a subscriber earlier in this pass
		return
	}
	alt := st.has(FlagShortestAngle)
	p := a.Progress
	for _, sys := range s.values.all {
		if sys.apply(s, e, p, alt) {
			break
		}
	}
	s.fire(KindUpdate, e)
}

func (s *Scheduler) completeOne(e ecs.Entity) {
	a := s.active.Get(e)
	if a == nil || !a.Completed {
		return
	}
	if st := s.status.Get(e); st == nil || st.State == StateMarkedForRemoval && !a.viaKill {
		return
	}
	s.fire(KindComplete, e)
}

func (s *Scheduler) markForRemoval(e ecs.Entity) {
	st := s.status.Get(e)
	if st == nil {
		return
	}
	pending := st.State == StateMarkedForRemoval && !st.has(flagCompleteOnKill)
	if s.members.Has(e) {
		// members live as long as their sequence unless killed directly
		if pending {
			s.scratch.kills = append(s.scratch.kills, e)
		}
		return
	}
	switch {
	case st.State == StateComplete && !st.has(FlagPreserve):
		st.State = StateMarkedForRemoval
		s.scratch.kills = append(s.scratch.kills, e)
	case pending:
		s.scratch.kills = append(s.scratch.kills, e)
	}
}

// destroy fires OnKill and removes e. A sequence queues its members; a
// member leaves its sequence.
func (s *Scheduler) destroy(e ecs.Entity) {
	if !s.world.IsValid(e) {
		return
	}
	s.fire(KindKill, e)
	if sq := s.sequencers.Get(e); sq != nil {
		s.scratch.kills = append(s.scratch.kills, sq.Members...)
	}
	if sm := s.members.Get(e); sm != nil {
		s.detach(sm.Sequence, e)
	}
	s.world.RemoveEntity(e)
}

func clampTime(t, dur float64) float64 {
	return min(max(t, 0), dur)
}

func fraction(t, cycle float64) float64 {
	switch {
	case cycle <= 0:
		return 1
	case math.IsInf(cycle, 1):
		return 0
	}
	return min(max(t/cycle, 0), 1)
}
