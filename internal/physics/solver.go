// Package physics provides the pure motion-profile solver used by remotes to
// estimate how long a leg to a destination takes, and how that time splits into
// accelerating, cruising and braking phases.
//
// All distances are in scenario units, velocities in units/s and time in seconds.
// Caps may be +Inf, meaning unconstrained.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is a momentary physical snapshot used only as solver input.
type State struct {
	Location        mgl64.Vec3
	Velocity        mgl64.Vec3
	MaxSpeed        float64
	MaxAcceleration float64
}

// NewState returns a State. NaN caps are treated as unconstrained.
func NewState(location, velocity mgl64.Vec3, maxSpeed, maxAcceleration float64) State {
	if math.IsNaN(maxSpeed) {
		maxSpeed = math.Inf(1)
	}
	if math.IsNaN(maxAcceleration) {
		maxAcceleration = math.Inf(1)
	}
	return State{
		Location:        location,
		Velocity:        velocity,
		MaxSpeed:        maxSpeed,
		MaxAcceleration: maxAcceleration,
	}
}

// Speed returns the magnitude of the state's velocity.
func (s State) Speed() float64 { return s.Velocity.Len() }

// BrakeDistance returns the distance needed to stop from speed at a constant
// deceleration of accel. Unbounded deceleration stops immediately.
func BrakeDistance(speed, accel float64) float64 {
	if speed <= 0 || math.IsInf(accel, 1) || accel <= 0 {
		return 0
	}
	return 0.5 * speed * speed / accel
}

// LegKind names which motion profile a leg follows.
type LegKind string

const (
	// LegInstant: acceleration is unconstrained, arrival is treated as immediate.
	LegInstant LegKind = "instant"
	// LegBraking: the current braking distance already covers the leg.
	LegBraking LegKind = "braking"
	// LegAtCap: already at the cruise cap; cruise, then brake.
	LegAtCap LegKind = "at_cap"
	// LegTriangular: accelerate partway, then brake, never reaching the cap.
	LegTriangular LegKind = "triangular"
	// LegCruise: accelerate to the cap, cruise, then brake.
	LegCruise LegKind = "cruise"
	// LegUnreachable: zero acceleration or speed cap with distance left to cover.
	LegUnreachable LegKind = "unreachable"
)

// Leg is the phase breakdown of a minimum-time leg ending at rest.
type Leg struct {
	Kind       LegKind
	Accelerate float64 // seconds spent accelerating at MaxAcceleration
	Cruise     float64 // seconds spent at constant speed
	Brake      float64 // seconds spent decelerating at MaxAcceleration
}

// Duration returns the total time of the leg.
func (l Leg) Duration() float64 {
	if l.Kind == LegUnreachable {
		return math.Inf(1)
	}
	return l.Accelerate + l.Cruise + l.Brake
}

// Thrusting returns the seconds spent under full acceleration or deceleration.
func (l Leg) Thrusting() float64 {
	if l.Kind == LegUnreachable {
		return 0
	}
	return l.Accelerate + l.Brake
}

// TimeToReachDest returns the minimum non-negative time for state to reach dest
// and be at rest there, never exceeding MaxSpeed or MaxAcceleration.
//
// Unbounded acceleration returns 0 regardless of MaxSpeed.
func TimeToReachDest(state State, dest mgl64.Vec3) float64 {
	a := state.MaxAcceleration
	if math.IsInf(a, 1) {
		return 0
	}
	speed := state.Speed()
	totalDist := dest.Sub(state.Location).Len()
	if a <= 0 {
		if totalDist == 0 && speed == 0 {
			return 0
		}
		return math.Inf(1)
	}

	timeToBrake := 0.
	if speed > 0 {
		timeToBrake = speed / a
	}
	distToBrake := speed*timeToBrake - 0.5*a*timeToBrake*timeToBrake
	if distToBrake >= totalDist {
		return timeToBrake
	}

	if math.IsInf(state.MaxSpeed, 1) {
		return 2*timeToCover(a, speed, totalDist, distToBrake) + timeToBrake
	}

	maxSpeed := state.MaxSpeed
	if maxSpeed <= 0 {
		return math.Inf(1)
	}
	timeToTopSpeed := 0.
	if speed < maxSpeed {
		timeToTopSpeed = (maxSpeed - speed) / a
	}
	distToTopSpeed := speed*timeToTopSpeed + 0.5*a*timeToTopSpeed*timeToTopSpeed
	maxTimeToBrake := maxSpeed / a
	maxDistToBrake := maxSpeed*maxTimeToBrake - 0.5*a*maxTimeToBrake*maxTimeToBrake
	if distToTopSpeed+maxDistToBrake > totalDist {
		return 2*timeToCover(a, speed, totalDist, distToBrake) + timeToBrake
	}
	cruise := (totalDist - distToTopSpeed - maxDistToBrake) / maxSpeed
	return timeToTopSpeed + cruise + maxTimeToBrake
}

// PlanLeg splits the leg from state to dest into its phases, following the same
// branches as TimeToReachDest. The returned Leg's Duration matches it.
func PlanLeg(state State, dest mgl64.Vec3) Leg {
	a := state.MaxAcceleration
	if math.IsInf(a, 1) {
		return Leg{Kind: LegInstant}
	}
	speed := state.Speed()
	totalDist := dest.Sub(state.Location).Len()
	if a <= 0 {
		if totalDist == 0 && speed == 0 {
			return Leg{Kind: LegBraking}
		}
		return Leg{Kind: LegUnreachable}
	}

	timeToBrake := 0.
	if speed > 0 {
		timeToBrake = speed / a
	}
	distToBrake := speed*timeToBrake - 0.5*a*timeToBrake*timeToBrake
	if distToBrake >= totalDist {
		return Leg{Kind: LegBraking, Brake: timeToBrake}
	}

	triangular := func() Leg {
		tc := timeToCover(a, speed, totalDist, distToBrake)
		return Leg{Kind: LegTriangular, Accelerate: tc, Brake: tc + timeToBrake}
	}
	if math.IsInf(state.MaxSpeed, 1) {
		return triangular()
	}

	maxSpeed := state.MaxSpeed
	if maxSpeed <= 0 {
		return Leg{Kind: LegUnreachable}
	}
	timeToTopSpeed := 0.
	if speed < maxSpeed {
		timeToTopSpeed = (maxSpeed - speed) / a
	}
	distToTopSpeed := speed*timeToTopSpeed + 0.5*a*timeToTopSpeed*timeToTopSpeed
	maxTimeToBrake := maxSpeed / a
	maxDistToBrake := maxSpeed*maxTimeToBrake - 0.5*a*maxTimeToBrake*maxTimeToBrake
	if distToTopSpeed+maxDistToBrake > totalDist {
		return triangular()
	}
	kind := LegCruise
	if timeToTopSpeed == 0 {
		kind = LegAtCap
	}
	return Leg{
		Kind:       kind,
		Accelerate: timeToTopSpeed,
		Cruise:     (totalDist - distToTopSpeed - maxDistToBrake) / maxSpeed,
		Brake:      maxTimeToBrake,
	}
}

// timeToCover is the half-duration of a symmetric accelerate-then-brake profile
// over the distance left beyond the current braking distance.
func timeToCover(a, speed, totalDist, distToBrake float64) float64 {
	return (math.Sqrt(4*a*(totalDist-distToBrake)/2+speed*speed) - speed) / (2 * a)
}
