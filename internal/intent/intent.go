// Package intent defines the per-tick commands a Remote accepts and the Set that
// carries at most one command of each type into a single update.
package intent

import (
	"fmt"
	"math"

	"github.com/cxd309/remotesim/internal/opt"
	"github.com/cxd309/remotesim/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Type names an intention in scenario files and snapshots.
type Type string

const (
	TypeStartup    Type = "startup"
	TypeShutdown   Type = "shutdown"
	TypeDone       Type = "done"
	TypeActivate   Type = "activate"
	TypeDeactivate Type = "deactivate"
	TypeGoTo       Type = "goto"
	TypeMove       Type = "move"
	TypeSteer      Type = "steer"
	TypePush       Type = "push"
	TypeStop       Type = "stop"
)

// Types lists every intention type in Set slot order.
var Types = [...]Type{
	TypeStartup, TypeShutdown, TypeDone,
	TypeActivate, TypeDeactivate,
	TypeGoTo, TypeMove, TypeSteer, TypePush, TypeStop,
}

func (t Type) slot() (int, bool) {
	for i, typ := range Types {
		if typ == t {
			return i, true
		}
	}
	return 0, false
}

// Intention is a single-tick command. The concrete types below are the only
// implementations.
type Intention interface {
	Type() Type
	validate() error
}

// Startup switches a Remote to Active.
type Startup struct{}

// Shutdown switches a Remote to Inactive.
type Shutdown struct{}

// Done retires a Remote permanently.
type Done struct{}

// Stop halts a Remote in place and drops its outstanding destination.
type Stop struct{}

// Activate switches on the listed sensors, or all of them when SensorIDs is empty.
type Activate struct {
	SensorIDs []string
}

// Deactivate switches off the listed sensors, or all of them when SensorIDs is empty.
type Deactivate struct {
	SensorIDs []string
}

// GoTo sets a new destination. Without a location the Remote returns home;
// the caps may only tighten the Remote's own limits.
type GoTo struct {
	Location        opt.Option[mgl64.Vec3]
	MaxVelocity     opt.Option[float64]
	MaxAcceleration opt.Option[float64]
}

// Move commits an explicit acceleration, or keeps seeking the live destination
// when Acceleration is empty.
type Move struct {
	Acceleration opt.Option[mgl64.Vec3]
}

// Steer turns the velocity onto Direction at the current speed, or toward
// the live destination when Direction is empty.
type Steer struct {
	Direction opt.Option[mgl64.Vec3]
}

// Push applies Force as a one-step impulse. It stacks with the motion intention
// evaluated after it.
type Push struct {
	Force mgl64.Vec3
}

func (Startup) Type() Type    { return TypeStartup }
func (Shutdown) Type() Type   { return TypeShutdown }
func (Done) Type() Type       { return TypeDone }
func (Stop) Type() Type       { return TypeStop }
func (Activate) Type() Type   { return TypeActivate }
func (Deactivate) Type() Type { return TypeDeactivate }
func (GoTo) Type() Type       { return TypeGoTo }
func (Move) Type() Type       { return TypeMove }
func (Steer) Type() Type      { return TypeSteer }
func (Push) Type() Type       { return TypePush }

func (Startup) validate() error    { return nil }
func (Shutdown) validate() error   { return nil }
func (Done) validate() error       { return nil }
func (Stop) validate() error       { return nil }
func (Activate) validate() error   { return nil }
func (Deactivate) validate() error { return nil }

func (g GoTo) validate() error {
	if loc, ok := g.Location.Get(); ok && !physics.IsFinite(loc) {
		return fmt.Errorf("%w: goto location %v", ErrInvalidIntention, loc)
	}
	if v, ok := g.MaxVelocity.Get(); ok && (v < 0 || math.IsNaN(v)) {
		return fmt.Errorf("%w: goto max velocity %g", ErrInvalidIntention, v)
	}
	if v, ok := g.MaxAcceleration.Get(); ok && (v < 0 || math.IsNaN(v)) {
		return fmt.Errorf("%w: goto max acceleration %g", ErrInvalidIntention, v)
	}
	return nil
}

func (m Move) validate() error {
	if a, ok := m.Acceleration.Get(); ok && !physics.IsFinite(a) {
		return fmt.Errorf("%w: move acceleration %v", ErrInvalidIntention, a)
	}
	return nil
}

func (s Steer) validate() error {
	if d, ok := s.Direction.Get(); ok && !physics.IsFinite(d) {
		return fmt.Errorf("%w: steer direction %v", ErrInvalidIntention, d)
	}
	return nil
}

func (p Push) validate() error {
	if !physics.IsFinite(p.Force) {
		return fmt.Errorf("%w: push force %v", ErrInvalidIntention, p.Force)
	}
	return nil
}

// GoToLocation returns a GoTo toward loc with no extra caps.
func GoToLocation(loc mgl64.Vec3) GoTo {
	return GoTo{Location: opt.Some(loc)}
}

// MoveBy returns a Move committing accel.
func MoveBy(accel mgl64.Vec3) Move {
	return Move{Acceleration: opt.Some(accel)}
}

// SteerTo returns a Steer onto direction.
func SteerTo(direction mgl64.Vec3) Steer {
	return Steer{Direction: opt.Some(direction)}
}
