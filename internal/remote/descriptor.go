package remote

import (
	"github.com/cxd309/remotesim/internal/kinematics"
	"github.com/cxd309/remotesim/internal/sensor"
)

// Descriptor is the capability description a Remote is created from.
// A nil Kinematics makes the Remote non-physical; it then only runs sensors.
type Descriptor struct {
	RemoteID   string             `json:"remote_id"`
	Variant    string             `json:"variant"`
	Team       string             `json:"team,omitempty"`
	Tags       []string           `json:"tags,omitempty"`
	Active     bool               `json:"active"`
	Kinematics *kinematics.Config `json:"kinematics,omitempty"`
	Sensors    []sensor.Config    `json:"sensors,omitempty"`
}
