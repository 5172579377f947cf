package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Config is the JSON-serialisable description of a Remote's physical component.
// Every part is optional: a Remote without a location is non-physical, one
// without motion is stationary, and one without fuel never runs dry.
type Config struct {
	Location *mgl64.Vec3   `json:"location,omitempty"`
	Motion   *MotionConfig `json:"motion,omitempty"`
	Fuel     *FuelConfig   `json:"fuel,omitempty"`
}

// MotionConfig holds initial velocity and the velocity/acceleration caps.
// A missing cap means unconstrained.
type MotionConfig struct {
	InitialVelocity mgl64.Vec3 `json:"initial_velocity"`
	MaxVelocity     *float64   `json:"max_velocity,omitempty"`     // units/s
	MaxAcceleration *float64   `json:"max_acceleration,omitempty"` // units/s²
}

// FuelConfig holds the fuel tank and its per-second usage rates.
// Initial defaults to Max when omitted.
type FuelConfig struct {
	Initial *float64 `json:"initial,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Usage   Rates    `json:"usage"`
}

// Rates are the per-second fuel draw coefficients fed to a variant's usage formula.
type Rates struct {
	Static     float64 `json:"static"`     // drawn every tick regardless of motion
	Horizontal float64 `json:"horizontal"` // per unit of horizontal acceleration
	Vertical   float64 `json:"vertical"`   // per unit of vertical acceleration
}

// UsageFunc computes the per-second fuel draw for a committed acceleration.
// Remote variants supply their own formula.
type UsageFunc func(r Rates, accel mgl64.Vec3) float64

// StaticUsage draws only the static rate.
func StaticUsage(r Rates, _ mgl64.Vec3) float64 {
	return r.Static
}
