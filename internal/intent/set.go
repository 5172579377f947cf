package intent

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIntention is returned when a Set already holds an intention of the same type.
	ErrDuplicateIntention = errors.New("duplicate intention type")
	// ErrInvalidIntention is returned for intentions carrying non-finite or negative values.
	ErrInvalidIntention = errors.New("invalid intention")
)

// Set holds at most one intention of each type for a single tick.
// The zero Set is empty and ready to use.
type Set struct {
	slots [len(Types)]Intention
}

// NewSet builds a Set from intentions, failing on the first duplicate type.
func NewSet(intentions ...Intention) (Set, error) {
	var s Set
	for _, in := range intentions {
		if err := s.Add(in); err != nil {
			return Set{}, err
		}
	}
	return s, nil
}

// MustSet is NewSet for fixed literals; it panics on error.
func MustSet(intentions ...Intention) Set {
	s, err := NewSet(intentions...)
	if err != nil {
		panic(err)
	}
	return s
}

// Add stores in in its slot. A second intention of an occupied type is rejected.
func (s *Set) Add(in Intention) error {
	if in == nil {
		return fmt.Errorf("%w: nil intention", ErrInvalidIntention)
	}
	i, ok := in.Type().slot()
	if !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidIntention, in.Type())
	}
	if s.slots[i] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateIntention, in.Type())
	}
	if err := in.validate(); err != nil {
		return err
	}
	s.slots[i] = in
	return nil
}

// Merge adds every intention of other to s. On a duplicate s is left unchanged.
func (s *Set) Merge(other Set) error {
	merged := *s
	for _, in := range other.Intentions() {
		if err := merged.Add(in); err != nil {
			return err
		}
	}
	*s = merged
	return nil
}

// Has reports whether an intention of type t is present.
func (s Set) Has(t Type) bool {
	i, ok := t.slot()
	return ok && s.slots[i] != nil
}

// Len returns the number of intentions held.
func (s Set) Len() int {
	n := 0
	for _, in := range s.slots {
		if in != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the Set holds no intentions.
func (s Set) IsEmpty() bool { return s.Len() == 0 }

// Intentions returns the held intentions in slot order.
func (s Set) Intentions() []Intention {
	var out []Intention
	for _, in := range s.slots {
		if in != nil {
			out = append(out, in)
		}
	}
	return out
}

func (s Set) get(t Type) Intention {
	i, _ := t.slot()
	return s.slots[i]
}

// Startup reports whether the set holds a STARTUP.
func (s Set) Startup() bool { return s.Has(TypeStartup) }

// Shutdown reports whether the set holds a SHUTDOWN.
func (s Set) Shutdown() bool { return s.Has(TypeShutdown) }

// Done reports whether the set holds a DONE.
func (s Set) Done() bool { return s.Has(TypeDone) }

// Stop reports whether the set holds a STOP.
func (s Set) Stop() bool { return s.Has(TypeStop) }

// Activate returns the set's ACTIVATE intention, if any.
func (s Set) Activate() (Activate, bool) {
	in, ok := s.get(TypeActivate).(Activate)
	return in, ok
}

// Deactivate returns the set's DEACTIVATE intention, if any.
func (s Set) Deactivate() (Deactivate, bool) {
	in, ok := s.get(TypeDeactivate).(Deactivate)
	return in, ok
}

// GoTo returns the set's GOTO intention, if any.
func (s Set) GoTo() (GoTo, bool) {
	in, ok := s.get(TypeGoTo).(GoTo)
	return in, ok
}

// Move returns the set's MOVE intention, if any.
func (s Set) Move() (Move, bool) {
	in, ok := s.get(TypeMove).(Move)
	return in, ok
}

// Steer returns the set's STEER intention, if any.
func (s Set) Steer() (Steer, bool) {
	in, ok := s.get(TypeSteer).(Steer)
	return in, ok
}

// Push returns the set's PUSH intention, if any.
func (s Set) Push() (Push, bool) {
	in, ok := s.get(TypePush).(Push)
	return in, ok
}
