package lazytween

import (
	"math"

	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/pkg/errors"
)

// Group is an update channel. The host runs each channel it uses once per
// tick with that channel's delta.
type Group uint16

// Built-in channels. Scaled channels multiply their delta by the time scale.
const (
	GroupUpdate Group = iota
	GroupLateUpdate
	GroupFixedUpdate
	GroupUnscaledUpdate
	GroupUnscaledLateUpdate
	GroupUnscaledFixedUpdate
)

const maxGroups = 128

var builtinGroups = []GroupSettings{
	{Name: "update", Scaled: true},
	{Name: "lateUpdate", Scaled: true},
	{Name: "fixedUpdate", Scaled: true},
	{Name: "unscaledUpdate"},
	{Name: "unscaledLateUpdate"},
	{Name: "unscaledFixedUpdate"},
}

// groupInfo is one channel. tag and filter are created on first use and
// dropped with the world.
type groupInfo struct {
	name   string
	scaled bool
	tag    *ecs.Tag
	filter *ecs.Filter
}

// RegisterGroup adds a custom channel. Names are unique.
func (s *Scheduler) RegisterGroup(name string, scaled bool) (Group, error) {
	if name == "" {
		return 0, errors.Wrap(ErrInvalidArgument, "register group: empty name")
	}
	if _, ok := s.groupNames[name]; ok {
		return 0, errors.Wrapf(ErrInvalidArgument, "register group: %q already exists", name)
	}
	if len(s.groups) >= maxGroups {
		return 0, errors.Wrapf(ErrInvalidOperation, "register group: limit of %d reached", maxGroups)
	}
	g := Group(len(s.groups))
	s.groups = append(s.groups, groupInfo{name: name, scaled: scaled})
	s.groupNames[name] = g
	return g, nil
}

// GroupByName resolves a channel name.
func (s *Scheduler) GroupByName(name string) (Group, bool) {
	g, ok := s.groupNames[name]
	return g, ok
}

// GroupName returns the registered name of g, or "" when g is unknown.
func (s *Scheduler) GroupName(g Group) string {
	if int(g) >= len(s.groups) {
		return ""
	}
	return s.groups[g].name
}

// groupTag returns the tag of g, creating it with its filter on first use.
func (s *Scheduler) groupTag(g Group) *ecs.Tag {
	info := &s.groups[g]
	if info.tag == nil {
		info.tag = ecs.NewTag(s.world, "group:"+info.name)
		info.filter = ecs.NewFilter(s.world, info.tag)
	}
	return info.tag
}

func (s *Scheduler) groupOf(e ecs.Entity) (Group, bool) {
	for i := range s.groups {
		if t := s.groups[i].tag; t != nil && t.Has(e) {
			return Group(i), true
		}
	}
	return 0, false
}

func (s *Scheduler) leaveGroups(e ecs.Entity) {
	for i := range s.groups {
		if t := s.groups[i].tag; t != nil {
			t.Remove(e)
		}
	}
}

// SetTimeScale changes the multiplier applied to scaled channels.
func (s *Scheduler) SetTimeScale(scale float32) error {
	if scale < 0 || math.IsNaN(float64(scale)) || math.IsInf(float64(scale), 0) {
		return errors.Wrapf(ErrInvalidArgument, "time scale %v", scale)
	}
	s.settings.TimeScale = scale
	return nil
}

// TimeScale returns the multiplier applied to scaled channels.
func (s *Scheduler) TimeScale() float32 {
	return s.settings.TimeScale
}

// Run advances every tween of channel g by dt and runs the full pipeline
// over them. A channel no tween ever joined is a no-op. Run fails when
// called from inside a pass, for an unknown channel, or with a negative or
// non-finite delta.
func (s *Scheduler) Run(g Group, dt float32) error {
	if s.running {
		return errors.Wrap(ErrInvalidOperation, "run: pipeline already running")
	}
	if err := checkDelta(dt); err != nil {
		return errors.WithMessage(err, "run")
	}
	if int(g) >= len(s.groups) {
		return errors.Wrapf(ErrInvalidArgument, "run: unknown group %d", g)
	}
	if s.world == nil {
		return errors.Wrap(ErrInvalidOperation, "run: scheduler is not initialized")
	}
	info := &s.groups[g]
	if info.filter == nil {
		return nil
	}
	if info.scaled {
		dt *= s.settings.TimeScale
	}
	s.scratch.roots = append(s.scratch.roots[:0], info.filter.Entities()...)
	s.pass(s.scratch.roots, dt)
	return nil
}

func checkDelta(dt float32) error {
	if dt < 0 || math.IsNaN(float64(dt)) || math.IsInf(float64(dt), 0) {
		return errors.Wrapf(ErrInvalidArgument, "delta %v is not a finite non-negative number", dt)
	}
	return nil
}
