package lazytween

import (
	"log"
	"os"

	"github.com/edwinsyarief/lazytween/ecs"
	"github.com/pkg/errors"
)

// Scheduler drives tweens. It is single-threaded: every method must be
// called from the goroutine that runs the host loop.
type Scheduler struct {
	settings Settings
	logger   *log.Logger
	events   ecs.EventBus

	world      *ecs.World
	epoch      uint32
	status     *ecs.Pool[Status]
	states     *ecs.Pool[TweenState]
	active     *ecs.Pool[Active]
	loops      *ecs.Pool[Loop]
	eased      *ecs.Pool[Eased]
	targets    *ecs.Pool[Target]
	members    *ecs.Pool[SequenceMember]
	sequencers *ecs.Pool[Sequencer]
	callbacks  [callbackPools]*ecs.Pool[multicast[Tween]]
	values     valueSystems
	spawner    *ecs.Builder2[Status, TweenState]

	groups       []groupInfo
	groupNames   map[string]Group
	defaultGroup Group
	defaultEase  EaseFunc
	curves       map[string]*Curve

	nextSub uint32
	running bool
	scratch passScratch
}

// passScratch holds the buffers a pass reuses between runs.
type passScratch struct {
	roots   []ecs.Entity
	live    []ecs.Entity
	kills   []ecs.Entity
	pending []ecs.Entity // killed by subscribers during the pass
	matches []ecs.Entity
}

// New creates a scheduler and initializes it.
//
// Example:
//
//	s, err := lazytween.New(lazytween.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	s.Float(0, 1, 0.5, func(v float32) { sprite.Alpha = v })
//	// once per frame:
//	s.Run(lazytween.GroupUpdate, dt)
func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		settings:   DefaultSettings(),
		logger:     log.New(os.Stderr, "[lazytween] ", log.LstdFlags),
		groupNames: make(map[string]Group),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.settings.Validate(); err != nil {
		return nil, errors.WithMessage(err, "new scheduler")
	}
	for _, g := range builtinGroups {
		if _, err := s.RegisterGroup(g.Name, g.Scaled); err != nil {
			return nil, err
		}
	}
	for _, g := range s.settings.Groups {
		if _, err := s.RegisterGroup(g.Name, g.Scaled); err != nil {
			return nil, errors.WithMessage(err, "new scheduler")
		}
	}
	s.defaultGroup = s.groupNames[s.settings.DefaultGroup]
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize creates a fresh entity store. Any previous tweens are dropped
// without callbacks and their handles stop resolving.
func (s *Scheduler) Initialize() error {
	if s.running {
		return errors.Wrap(ErrInvalidOperation, "initialize: pipeline is running")
	}
	curves := make(map[string]*Curve, len(s.settings.Curves))
	for name, keys := range s.settings.Curves {
		c, err := NewCurve(keys...)
		if err != nil {
			return errors.Wrapf(err, "initialize: curve %q", name)
		}
		curves[name] = c
	}
	s.curves = curves
	s.defaultEase = nil
	if s.settings.DefaultEase != "linear" {
		fn, ok := s.easeByName(s.settings.DefaultEase)
		if !ok {
			return errors.Wrapf(ErrInvalidArgument, "initialize: unknown default ease %q", s.settings.DefaultEase)
		}
		s.defaultEase = fn
	}

	s.epoch++
	w := ecs.NewWorld(s.settings.InitialCapacity)
	s.world = w
	s.status = ecs.NewPool[Status](w)
	s.states = ecs.NewPool[TweenState](w)
	s.active = ecs.NewPool[Active](w)
	s.loops = ecs.NewPool[Loop](w)
	s.eased = ecs.NewPool[Eased](w)
	s.targets = ecs.NewPool[Target](w)
	s.members = ecs.NewPool[SequenceMember](w)
	s.sequencers = ecs.NewPool[Sequencer](w)
	for k := range s.callbacks {
		s.callbacks[k] = ecs.NewPool[multicast[Tween]](w)
	}
	s.values = newValueSystems(w)
	for i := range s.groups {
		s.groups[i].tag, s.groups[i].filter = nil, nil
	}
	s.spawner = ecs.NewBuilder2(w, s.status, s.states, s.groupTag(s.defaultGroup))
	return nil
}

// Destroy releases the entity store. Handles stop resolving; calls through
// them are ignored until Initialize runs again.
func (s *Scheduler) Destroy() error {
	if s.running {
		return errors.Wrap(ErrInvalidOperation, "destroy: pipeline is running")
	}
	s.epoch++
	s.world = nil
	s.status, s.states, s.active = nil, nil, nil
	s.loops, s.eased, s.targets = nil, nil, nil
	s.members, s.sequencers = nil, nil
	s.callbacks = [callbackPools]*ecs.Pool[multicast[Tween]]{}
	s.values = valueSystems{}
	s.spawner = nil
	for i := range s.groups {
		s.groups[i].tag, s.groups[i].filter = nil, nil
	}
	s.scratch = passScratch{}
	return nil
}

// Initialized reports whether the scheduler holds an entity store.
func (s *Scheduler) Initialized() bool {
	return s.world != nil
}

// Len returns the number of live tweens, sequences and callback
// placeholders.
func (s *Scheduler) Len() int {
	if s.world == nil {
		return 0
	}
	return s.world.Len()
}

// Settings returns the active settings.
func (s *Scheduler) Settings() Settings {
	return s.settings
}

func (s *Scheduler) handle(e ecs.Entity) Tween {
	return Tween{s: s, epoch: s.epoch, e: e}
}

func (s *Scheduler) easeByName(name string) (EaseFunc, bool) {
	if c, ok := s.curves[name]; ok {
		return c.Ease(), true
	}
	return EaseByName(name)
}

func (s *Scheduler) nextSubscription() uint32 {
	s.nextSub++
	if s.nextSub == 0 {
		s.nextSub = 1
	}
	return s.nextSub
}
