package lazytween

import (
	"github.com/edwinsyarief/lazytween/ecs"
)

// State is the lifecycle position of a tween. Removal itself is not a state:
// a removed tween's handle simply stops resolving.
type State uint8

const (
	// StateRunning tweens advance with every pass of their group.
	StateRunning State = iota
	// StateComplete tweens reached their duration. Unless preserved they are
	// removed in the same pass.
	StateComplete
	// StateMarkedForRemoval tweens are destroyed by the next pass that
	// reaches them.
	StateMarkedForRemoval
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateMarkedForRemoval:
		return "marked-for-removal"
	}
	return "unknown"
}

// Flags are the orthogonal modifiers of a tween.
type Flags uint8

const (
	FlagPaused Flags = 1 << iota
	FlagPreserve
	FlagReverse
	FlagPingPong
	FlagShortestAngle
	flagCompleteOnKill
)

// Status replaces a set of marker components with one record.
type Status struct {
	State State
	Flags Flags
}

func (s *Status) has(f Flags) bool { return s.Flags&f != 0 }

func (s *Status) set(f Flags, on bool) {
	if on {
		s.Flags |= f
	} else {
		s.Flags &^= f
	}
}

// TweenState is the timeline of a tween. Duration is +Inf for tweens that
// loop forever.
type TweenState struct {
	Elapsed  float64
	Duration float32

	// undo lets a second Reverse restore the elapsed time the first one
	// replaced, as long as nothing moved it in between.
	undo      float64
	undoAt    float64
	undoValid bool
}

// Active exists only while a pass runs.
type Active struct {
	Progress  float32
	Completed bool    // completed during this pass
	viaKill   bool    // completed by Kill(true)
	position  float64 // time within the cycle after reverse and ease
	cycle     int64   // loop cycle the position belongs to
	prevCycle int64   // loop cycle before this pass
	wrapped   bool    // a loop boundary was crossed forward during this pass
}

// Loop repeats the base cycle Count times, or forever when Count is -1.
type Loop struct {
	Count      int32
	Duration   float32 // one cycle
	Current    int32
	HasCurrent bool
}

// Eased remaps progress before interpolation.
type Eased struct {
	Fn EaseFunc
}

// LerpFunc interpolates between from and to. t may leave [0, 1] when an
// overshooting ease is installed.
type LerpFunc[T Value] func(from, to T, t float32) T

// OverrideLerp replaces the value type's interpolation for one tween.
type OverrideLerp[T Value] struct {
	Fn LerpFunc[T]
}

// Config is the value description of a tween animating T.
type Config[T Value] struct {
	From     T
	To       T
	OnChange multicast[T]
}

// SequenceMember points back at the sequence driving a tween.
type SequenceMember struct {
	Sequence ecs.Entity
	Start    float32
	done     int64 // sequence cycle this member last completed in, plus one
}

// Sequencer holds the build cursors and children of a sequence.
type Sequencer struct {
	JoinTime   float32
	AppendTime float32
	Members    []ecs.Entity
}

// Target associates a tween with a host object for bulk cancellation. It
// holds a weak.Pointer and never keeps the object alive.
type Target struct {
	ref any
}
