package lazytween

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when a control call receives a value it
	// cannot accept: a negative loop count, a nil easing function, a negative
	// or NaN delta.
	ErrInvalidArgument = errors.New("lazytween: invalid argument")
	// ErrInvalidOperation is returned when a call is not allowed in the
	// current state: re-entrant driving, editing a nested sequence, adding a
	// tween that already belongs to a sequence.
	ErrInvalidOperation = errors.New("lazytween: invalid operation")
	// ErrStaleHandle is returned by fallible calls on a handle whose tween no
	// longer exists.
	ErrStaleHandle = errors.New("lazytween: stale handle")
)

// TypeMismatchError reports a typed call made on a tween animating a
// different value type. It matches both ErrInvalidArgument and
// ErrInvalidOperation with errors.Is.
type TypeMismatchError struct {
	Op   string
	Want string
	Have string
}

func (e *TypeMismatchError) Error() string {
	return "lazytween: " + e.Op + ": tween animates " + e.Have + ", not " + e.Want
}

// Is makes the error match either sentinel.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrInvalidArgument || target == ErrInvalidOperation
}
