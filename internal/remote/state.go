package remote

import (
	"slices"

	"github.com/cxd309/remotesim/internal/sensor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// State is the serialisable per-tick snapshot of a Remote. Optional fields are
// present only when the Remote and its variant carry them.
type State struct {
	RemoteID       string         `json:"remote_id"`
	Variant        string         `json:"variant"`
	Team           string         `json:"team,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Location       *mgl64.Vec3    `json:"location,omitempty"`
	Velocity       *mgl64.Vec3    `json:"velocity,omitempty"`
	Acceleration   *mgl64.Vec3    `json:"acceleration,omitempty"`
	Altitude       *float64       `json:"altitude,omitempty"`
	GroundPosition *orb.Point     `json:"ground_position,omitempty"`
	Fuel           *float64       `json:"fuel,omitempty"`
	Sensors        []sensor.State `json:"sensors,omitempty"`
	Active         bool           `json:"active"`
	Done           bool           `json:"done"`
}

// State returns a point-in-time snapshot of the Remote.
func (r *Remote) State() State {
	s := State{
		RemoteID: r.id,
		Variant:  r.variant.Name,
		Team:     r.team,
		Tags:     slices.Clone(r.tags),
		Active:   r.IsActive(),
		Done:     r.done,
	}
	if k, ok := r.kinematics.Get(); ok {
		if loc, ok := k.Location(); ok {
			s.Location = &loc
		}
		if k.HasFuel() {
			fuel := k.FuelAmount()
			s.Fuel = &fuel
		}
		r.variant.project(k, &s)
	}
	if sc, ok := r.sensors.Get(); ok {
		s.Sensors = sc.SensorStates()
	}
	return s
}
