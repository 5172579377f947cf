package remote

import (
	"math"

	"github.com/cxd309/remotesim/internal/opt"
	"github.com/go-gl/mathgl/mgl64"
)

// Destination is an outstanding travel order. It is never mutated after creation.
type Destination struct {
	location        mgl64.Vec3
	maxVelocity     float64
	maxAcceleration float64
}

// NewDestination creates a Destination. Missing caps are unconstrained.
func NewDestination(location mgl64.Vec3, maxVelocity, maxAcceleration opt.Option[float64]) Destination {
	return Destination{
		location:        location,
		maxVelocity:     maxVelocity.OrElse(math.Inf(1)),
		maxAcceleration: maxAcceleration.OrElse(math.Inf(1)),
	}
}

// Location returns the target point.
func (d Destination) Location() mgl64.Vec3 { return d.location }

// MaxVelocity returns the velocity cap for the leg, +Inf when unconstrained.
func (d Destination) MaxVelocity() float64 { return d.maxVelocity }

// MaxAcceleration returns the acceleration cap for the leg, +Inf when unconstrained.
func (d Destination) MaxAcceleration() float64 { return d.maxAcceleration }

// caps combines the leg caps with a Remote's own. The result never exceeds either.
func (d Destination) caps(maxVelocity, maxAcceleration float64) (float64, float64) {
	return math.Min(maxVelocity, d.maxVelocity), math.Min(maxAcceleration, d.maxAcceleration)
}
