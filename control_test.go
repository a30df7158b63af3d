package lazytween

import (
	"math"
	"testing"

	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/edwinsyarief/lazytween/vmath"
	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

// go test -run ^TestPauseResume$ . -count 1
func TestPauseResume(t *testing.T) {
	s := newTestScheduler(t)
	tw := s.Float(0, 1, 1, nil).Pause()

	mustRun(t, s, GroupUpdate, 0.5)
	if tw.Elapsed() != 0 {
		t.Errorf("Expected paused tween not to advance, got %v", tw.Elapsed())
	}
	if !tw.IsPaused() || !tw.IsActive() {
		t.Error("Expected paused tween to stay active")
	}

	tw.Resume()
	mustRun(t, s, GroupUpdate, 0.5)
	if tw.Elapsed() != 0.5 {
		t.Errorf("Expected elapsed 0.5 after resume, got %v", tw.Elapsed())
	}
}

// go test -run ^TestGoToSkipsLoopCallbacks$ . -count 1
func TestGoToSkipsLoopCallbacks(t *testing.T) {
	s := newTestScheduler(t)
	loops := 0
	var last float32
	tw := s.Float(0, 1, 1, func(v float32) { last = v }).OnLoop(func(Tween) { loops++ })
	if _, err := tw.Loop(4); err != nil {
		t.Fatal(err)
	}

	tw.GoTo(2.5)
	mustRun(t, s, GroupUpdate, 0.25)
	if loops != 0 {
		t.Errorf("Expected no OnLoop for skipped cycles, got %d", loops)
	}
	if last != 0.75 {
		t.Errorf("Expected value 0.75, got %v", last)
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if loops != 1 {
		t.Errorf("Expected OnLoop once after crossing 3, got %d", loops)
	}
}

// go test -run ^TestGoToClamps$ . -count 1
func TestGoToClamps(t *testing.T) {
	s := newTestScheduler(t)
	tw := s.Float(0, 1, 2, nil)
	tw.GoTo(5)
	if tw.Elapsed() != 2 {
		t.Errorf("Expected elapsed clamped to 2, got %v", tw.Elapsed())
	}
	tw.GoTo(-1)
	if tw.Elapsed() != 0 {
		t.Errorf("Expected elapsed clamped to 0, got %v", tw.Elapsed())
	}
}

// go test -run ^TestGoToKeepsKill$ . -count 1
func TestGoToKeepsKill(t *testing.T) {
	s := newTestScheduler(t)
	tw := s.Float(0, 1, 1, nil)
	tw.Kill(false)
	tw.GoTo(0.5)
	if tw.Elapsed() != 0 {
		t.Errorf("Expected GoTo on a killed tween to do nothing, got %v", tw.Elapsed())
	}
	if _, err := tw.Sync(); err != nil {
		t.Fatal(err)
	}
	if tw.IsAlive() {
		t.Error("Expected killed tween to be destroyed")
	}
}

// go test -run ^TestRestartPreserved$ . -count 1
func TestRestartPreserved(t *testing.T) {
	s := newTestScheduler(t)
	var last float32
	completes := 0
	tw := s.Float(0, 1, 1, func(v float32) { last = v }).
		Preserve().
		OnComplete(func(Tween) { completes++ })

	mustRun(t, s, GroupUpdate, 1)
	if !tw.IsComplete() {
		t.Fatal("Expected preserved tween to be complete")
	}
	tw.Restart()
	if !tw.IsActive() || tw.Elapsed() != 0 {
		t.Fatalf("Expected restart to rewind, got active=%v elapsed=%v", tw.IsActive(), tw.Elapsed())
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if last != 0.5 {
		t.Errorf("Expected value 0.5 after restart, got %v", last)
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if completes != 2 {
		t.Errorf("Expected OnComplete twice, got %d", completes)
	}

	tw.ClearPreserve()
	mustRun(t, s, GroupUpdate, 0)
	if tw.IsAlive() {
		t.Error("Expected ClearPreserve on a complete tween to remove it")
	}
}

// go test -run ^TestCompleteJumpsToEnd$ . -count 1
func TestCompleteJumpsToEnd(t *testing.T) {
	s := newTestScheduler(t)
	var last float32
	completes := 0
	tw := s.Float(2, 4, 10, func(v float32) { last = v }).OnComplete(func(Tween) { completes++ })
	mustRun(t, s, GroupUpdate, 1)
	tw.Complete()
	mustRun(t, s, GroupUpdate, 0)
	if last != 4 || completes != 1 {
		t.Errorf("Expected end value 4 and one completion, got %v and %d", last, completes)
	}
}

// go test -run ^TestLoopArguments$ . -count 1
func TestLoopArguments(t *testing.T) {
	s := newTestScheduler(t)
	tw := s.Float(0, 1, 1.5, nil)

	if _, err := tw.Loop(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for a negative count, got %v", err)
	}
	if _, err := tw.Loop(2); err != nil {
		t.Fatal(err)
	}
	if tw.Duration() != 3 {
		t.Errorf("Expected duration 3, got %v", tw.Duration())
	}
	if _, err := tw.Loop(0); err != nil {
		t.Fatal(err)
	}
	if tw.Duration() != 1.5 {
		t.Errorf("Expected Loop(0) to restore 1.5, got %v", tw.Duration())
	}

	tw.LoopForever()
	if !math.IsInf(float64(tw.Duration()), 1) {
		t.Errorf("Expected infinite duration, got %v", tw.Duration())
	}
	if _, err := tw.Loop(2); err != nil {
		t.Fatal(err)
	}
	if tw.Duration() != 3 {
		t.Errorf("Expected Loop(2) after LoopForever to give 3, got %v", tw.Duration())
	}

	zero := s.Float(0, 1, 0, nil).LoopForever()
	if zero.Duration() != 0 {
		t.Errorf("Expected LoopForever on a zero cycle to be ignored, got %v", zero.Duration())
	}
}

// go test -run ^TestTypeMismatch$ . -count 1
func TestTypeMismatch(t *testing.T) {
	s := newTestScheduler(t)
	tw := s.Float(0, 1, 1, nil)

	_, err := Lerp[vmath.Vec2](tw, vmath.Vec2.Lerp)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Expected the mismatch to match both sentinels, got %v", err)
	}
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("Expected *TypeMismatchError, got %T", err)
	}
	if tm.Want != "Vec2" || tm.Have != "float32" {
		t.Errorf("Expected Vec2 wanted on float32, got %+v", tm)
	}

	if _, err := OnChange(s.NewSequence().Tween, func(float32) {}); !errors.As(err, &tm) || tm.Have != "none" {
		t.Errorf("Expected mismatch on a sequence, got %v", err)
	}
}

// go test -run ^TestLerpOverride$ . -count 1
func TestLerpOverride(t *testing.T) {
	s := newTestScheduler(t)
	var last float32
	tw := s.Float(0, 1, 2, func(v float32) { last = v })

	if _, err := Lerp[float32](tw, func(a, b, p float32) float32 { return 42 }); err != nil {
		t.Fatal(err)
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if last != 42 {
		t.Errorf("Expected override value 42, got %v", last)
	}

	if _, err := Lerp[float32](tw, nil); err != nil {
		t.Fatal(err)
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if last != 0.5 {
		t.Errorf("Expected default interpolation 0.5, got %v", last)
	}
}

// go test -run ^TestValues$ . -count 1
func TestValues(t *testing.T) {
	s := newTestScheduler(t)
	var last vmath.Vec2
	tw := s.Vec2(vmath.Vec2{}, vmath.Vec2{X: 4, Y: 8}, 1, func(v vmath.Vec2) { last = v })

	from, to, ok := Values[vmath.Vec2](tw)
	if !ok || from != (vmath.Vec2{}) || to != (vmath.Vec2{X: 4, Y: 8}) {
		t.Fatalf("Unexpected values %v %v %v", from, to, ok)
	}
	if _, _, ok := Values[float32](tw); ok {
		t.Error("Expected no float32 values on a Vec2 tween")
	}

	if _, err := SetValues(tw, vmath.Vec2{X: 2}, vmath.Vec2{X: 6}); err != nil {
		t.Fatal(err)
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if last != (vmath.Vec2{X: 4}) {
		t.Errorf("Expected {4 0} with new end points, got %v", last)
	}
}

// go test -run ^TestShake$ . -count 1
func TestShake(t *testing.T) {
	sample := func() []vmath.Vec2 {
		s := newTestScheduler(t)
		var got []vmath.Vec2
		tw := s.Vec2(vmath.Vec2{}, vmath.Vec2{X: 10, Y: 10}, 1, func(v vmath.Vec2) { got = append(got, v) })
		if _, err := tw.Shake(1, 8, 7); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 4; i++ {
			mustRun(t, s, GroupUpdate, 0.25)
		}
		return got
	}
	a, b := sample(), sample()
	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("Expected 4 samples each, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Expected the same seed to shake the same way at %d: %v vs %v", i, a[i], b[i])
		}
	}
	if a[3] != (vmath.Vec2{X: 10, Y: 10}) {
		t.Errorf("Expected shake to land on the end value, got %v", a[3])
	}

	s := newTestScheduler(t)
	c := s.Color(vmath.Color{}, vmath.Color{R: 1, A: 1}, 1, nil)
	var tm *TypeMismatchError
	if _, err := c.Shake(1, 8, 7); !errors.As(err, &tm) {
		t.Errorf("Expected a color shake to fail with a type mismatch, got %v", err)
	}
	if _, err := s.Float(0, 1, 1, nil).Shake(1, 0, 7); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero frequency, got %v", err)
	}
}

// go test -run ^TestPunch$ . -count 1
func TestPunch(t *testing.T) {
	s := newTestScheduler(t)
	var got []float32
	tw := s.Float(0, 10, 1, func(v float32) { got = append(got, v) })
	if _, err := tw.Punch(3, 0.5); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		mustRun(t, s, GroupUpdate, 0.25)
	}
	if got[0] == 0 {
		t.Error("Expected punch to move away from the start value")
	}
	if got[len(got)-1] != 0 {
		t.Errorf("Expected punch to settle on the start value, got %v", got[len(got)-1])
	}
	if _, err := tw.Punch(1, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for elasticity 2, got %v", err)
	}
}

// go test -run ^TestEasing$ . -count 1
func TestEasing(t *testing.T) {
	s := newTestScheduler(t)
	var last float32
	tw := s.Float(0, 1, 2, func(v float32) { last = v })
	if _, err := tw.Ease(ease.InQuad); err != nil {
		t.Fatal(err)
	}
	mustRun(t, s, GroupUpdate, 1)
	if !near(last, 0.25, 1e-6) {
		t.Errorf("Expected inQuad at half to give 0.25, got %v", last)
	}

	if _, err := tw.EaseNamed("noSuchEase"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if _, err := tw.Ease(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nil ease, got %v", err)
	}
	if _, err := tw.EaseNamed("outQuad"); err != nil {
		t.Fatal(err)
	}
	tw.ClearEase()
	mustRun(t, s, GroupUpdate, 0.5)
	if last != 0.75 {
		t.Errorf("Expected linear 0.75 after ClearEase, got %v", last)
	}
}

// go test -run ^TestSubscribeRemove$ . -count 1
func TestSubscribeRemove(t *testing.T) {
	s := newTestScheduler(t)
	calls := 0
	tw := s.Float(0, 1, 4, nil)
	sub := tw.Subscribe(KindUpdate, func(Tween) { calls++ })
	if sub.IsZero() {
		t.Fatal("Expected a subscription")
	}

	tw.RemoveOnLoop(sub)
	mustRun(t, s, GroupUpdate, 1)
	if calls != 1 {
		t.Errorf("Expected removal with the wrong kind to be ignored, got %d calls", calls)
	}

	tw.RemoveOnUpdate(sub)
	mustRun(t, s, GroupUpdate, 1)
	if calls != 1 {
		t.Errorf("Expected no calls after removal, got %d", calls)
	}
	if tw.Unsubscribe(sub) {
		t.Error("Expected a second removal to report false")
	}
	if !tw.Subscribe(KindChange, func(Tween) {}).IsZero() {
		t.Error("Expected Subscribe to reject KindChange")
	}
}

// go test -run ^TestRemoveDuringDispatch$ . -count 1
func TestRemoveDuringDispatch(t *testing.T) {
	s := newTestScheduler(t)
	tw := s.Float(0, 1, 4, nil)
	var second Subscription
	firstCalls, secondCalls := 0, 0
	tw.Subscribe(KindUpdate, func(tw Tween) {
		firstCalls++
		tw.RemoveOnUpdate(second)
	})
	second = tw.Subscribe(KindUpdate, func(Tween) { secondCalls++ })

	mustRun(t, s, GroupUpdate, 1)
	mustRun(t, s, GroupUpdate, 1)
	if firstCalls != 2 {
		t.Errorf("Expected first subscriber twice, got %d", firstCalls)
	}
	if secondCalls != 0 {
		t.Errorf("Expected removed subscriber to be skipped in the same dispatch, got %d", secondCalls)
	}
}

// go test -run ^TestOnChangeUnsubscribe$ . -count 1
func TestOnChangeUnsubscribe(t *testing.T) {
	s := newTestScheduler(t)
	var a, b []float32
	tw := s.Float(0, 1, 1, func(v float32) { a = append(a, v) })
	sub, err := OnChange(tw, func(v float32) { b = append(b, v) })
	if err != nil {
		t.Fatal(err)
	}

	mustRun(t, s, GroupUpdate, 0.5)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("Expected both subscribers once, got %d and %d", len(a), len(b))
	}
	if !tw.Unsubscribe(sub) {
		t.Fatal("Expected Unsubscribe to succeed")
	}
	mustRun(t, s, GroupUpdate, 0.25)
	if len(a) != 2 || len(b) != 1 {
		t.Errorf("Expected only the first subscriber, got %d and %d", len(a), len(b))
	}
	if _, err := OnChange[vmath.Vec2](tw, func(vmath.Vec2) {}); err == nil {
		t.Error("Expected OnChange with the wrong type to fail")
	}
}

// go test -run ^TestShortestAngle$ . -count 1
func TestShortestAngle(t *testing.T) {
	const deg = math.Pi / 180
	s := newTestScheduler(t)
	var plain, short float32
	s.Float(350*deg, 10*deg, 1, func(v float32) { plain = v })
	s.Float(350*deg, 10*deg, 1, func(v float32) { short = v }).ShortestAngle()
	mustRun(t, s, GroupUpdate, 0.5)

	if !near(plain, 180*deg, 1e-4) {
		t.Errorf("Expected plain lerp to pass 180°, got %v", plain/deg)
	}
	if !near(short, 360*deg, 1e-4) {
		t.Errorf("Expected shortest arc to pass 360°, got %v", short/deg)
	}
}

// go test -run ^TestGroupsAndTimeScale$ . -count 1
func TestGroupsAndTimeScale(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.SetTimeScale(2); err != nil {
		t.Fatal(err)
	}
	a := s.Float(0, 1, 8, nil)
	b := s.Float(0, 1, 8, nil)
	if _, err := b.SetGroup(GroupUnscaledUpdate); err != nil {
		t.Fatal(err)
	}

	mustRun(t, s, GroupUpdate, 1)
	mustRun(t, s, GroupUnscaledUpdate, 1)
	if a.Elapsed() != 2 {
		t.Errorf("Expected scaled elapsed 2, got %v", a.Elapsed())
	}
	if b.Elapsed() != 1 {
		t.Errorf("Expected unscaled elapsed 1, got %v", b.Elapsed())
	}
	if g, ok := b.Group(); !ok || g != GroupUnscaledUpdate {
		t.Errorf("Expected unscaledUpdate, got %v (%v)", s.GroupName(g), ok)
	}

	if err := s.SetTimeScale(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for a negative scale, got %v", err)
	}
	if s.TimeScale() != 2 {
		t.Errorf("Expected scale to stay 2, got %v", s.TimeScale())
	}

	a.ClearGroup()
	mustRun(t, s, GroupUpdate, 1)
	if a.Elapsed() != 2 {
		t.Errorf("Expected a tween without group not to advance, got %v", a.Elapsed())
	}
	if _, err := a.ManualUpdate(1); err != nil {
		t.Fatal(err)
	}
	if a.Elapsed() != 3 {
		t.Errorf("Expected ManualUpdate to advance unscaled, got %v", a.Elapsed())
	}
}

// go test -run ^TestRegisterGroup$ . -count 1
func TestRegisterGroup(t *testing.T) {
	s := newTestScheduler(t)
	g, err := s.RegisterGroup("ui", false)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := s.GroupByName("ui"); !ok || got != g {
		t.Errorf("Expected GroupByName to find %d, got %d (%v)", g, got, ok)
	}
	if s.GroupName(g) != "ui" {
		t.Errorf("Expected name ui, got %q", s.GroupName(g))
	}
	if _, err := s.RegisterGroup("ui", true); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected duplicate name to fail, got %v", err)
	}
	if err := s.Run(g, 1); err != nil {
		t.Errorf("Expected an unused group to be a no-op, got %v", err)
	}

	tw := s.Float(0, 1, 4, nil)
	if _, err := tw.SetGroup(g); err != nil {
		t.Fatal(err)
	}
	mustRun(t, s, g, 1)
	if tw.Elapsed() != 1 {
		t.Errorf("Expected custom group to drive the tween, got %v", tw.Elapsed())
	}
	if _, err := tw.SetGroup(Group(200)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected unknown group to fail, got %v", err)
	}
}

// go test -run ^TestRunArguments$ . -count 1
func TestRunArguments(t *testing.T) {
	s := newTestScheduler(t)
	cases := []struct {
		name string
		g    Group
		dt   float32
	}{
		{"negative", GroupUpdate, -1},
		{"nan", GroupUpdate, float32(math.NaN())},
		{"inf", GroupUpdate, float32(math.Inf(1))},
		{"unknown group", Group(99), 1},
	}
	for _, c := range cases {
		if err := s.Run(c.g, c.dt); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: Expected ErrInvalidArgument, got %v", c.name, err)
		}
	}
}

// go test -run ^TestStaleHandle$ . -count 1
func TestStaleHandle(t *testing.T) {
	s := newTestScheduler(t)
	var stale []StaleHandle
	ecs.Subscribe(s.Events(), func(ev StaleHandle) { stale = append(stale, ev) })

	tw := s.Float(0, 1, 1, nil)
	tw.Kill(false)
	mustRun(t, s, GroupUpdate, 0)

	tw.Pause()
	if len(stale) != 1 || stale[0].Op != "Pause" {
		t.Fatalf("Expected one stale Pause event, got %+v", stale)
	}
	if _, err := tw.Loop(2); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle, got %v", err)
	}
	if tw.IsActive() || tw.Elapsed() != 0 || tw.Duration() != 0 {
		t.Error("Expected zero values from a stale handle")
	}
	var zero Tween
	if zero.IsAlive() {
		t.Error("Expected the zero handle never to resolve")
	}
	zero.Pause()
}

// go test -run ^TestDestroyInitialize$ . -count 1
func TestDestroyInitialize(t *testing.T) {
	s := newTestScheduler(t)
	old := s.Float(0, 1, 1, nil)

	if err := s.Destroy(); err != nil {
		t.Fatal(err)
	}
	if s.Initialized() || old.IsAlive() {
		t.Fatal("Expected Destroy to drop every tween")
	}
	if err := s.Run(GroupUpdate, 1); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Expected Run on a destroyed scheduler to fail, got %v", err)
	}
	if s.Float(0, 1, 1, nil).IsAlive() {
		t.Error("Expected no tween without a store")
	}

	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	fresh := s.Float(0, 1, 1, nil)
	if fresh.Entity() != old.Entity() {
		t.Fatalf("Expected the slot to be reused, got %v and %v", fresh.Entity(), old.Entity())
	}
	if old.IsAlive() {
		t.Error("Expected the old handle to stay dead after Initialize")
	}
	if !fresh.IsAlive() || s.Len() != 1 {
		t.Errorf("Expected one live tween, got %d", s.Len())
	}
}

// go test -run ^TestFromKeepsElapsed$ . -count 1
func TestFromKeepsElapsed(t *testing.T) {
	s := newTestScheduler(t)
	var last float32 = -1
	tw := s.Float(0, 1, 2, func(v float32) { last = v })
	if _, err := tw.ManualUpdate(0.5); err != nil {
		t.Fatal(err)
	}
	if last != 0.25 {
		t.Fatalf("Expected 0.25 before From, got %v", last)
	}
	tw.From()
	if _, err := tw.ManualUpdate(0.5); err != nil {
		t.Fatal(err)
	}
	if last != 0.5 {
		t.Errorf("Expected 0.5, got %v", last)
	}
	if tw.Elapsed() != 1 {
		t.Errorf("Expected elapsed 1, got %v", tw.Elapsed())
	}
	if !tw.IsReversed() {
		t.Error("Expected From to set the reverse flag")
	}
	tw.From()
	if tw.IsReversed() || tw.Elapsed() != 1 {
		t.Errorf("Expected a second From to clear the flag only, got reversed=%v elapsed=%v", tw.IsReversed(), tw.Elapsed())
	}
}

// go test -run ^TestBlendLab$ . -count 1
func TestBlendLab(t *testing.T) {
	s := newTestScheduler(t)
	from, to := vmath.Color{R: 1, A: 1}, vmath.Color{B: 1, A: 0}
	var last vmath.Color
	tw := s.Color(from, to, 1, func(c vmath.Color) { last = c })
	if _, err := BlendLab(tw); err != nil {
		t.Fatal(err)
	}
	mustRun(t, s, GroupUpdate, 0.5)
	if want := from.LerpLab(to, 0.5); last != want {
		t.Errorf("Expected %v, got %v", want, last)
	}
	if last == from.Lerp(to, 0.5) {
		t.Error("Expected Lab blending to differ from RGB blending")
	}
	if _, err := BlendLab(s.Float(0, 1, 1, nil)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected a type mismatch for a float tween, got %v", err)
	}
}
