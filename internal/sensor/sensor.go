// Package sensor implements the sensor controller carried by a Remote: the set of
// sensors it owns, which of them are active, and their aggregate fuel draw.
//
// Sensing itself (range checks, subject detection) is not modelled here; a
// sensor only contributes its activation state and its per-second fuel cost.
package sensor

import (
	"fmt"
	"math"
	"slices"
)

// Config describes a group of identical sensors mounted on a Remote.
// Count sensors are created; the first len(IDs) take the listed ids and the
// rest are named "<model>:(<n>)" from a counter shared by the whole controller.
type Config struct {
	Model     string   `json:"model"`
	Tags      []string `json:"tags,omitempty"`
	Count     int      `json:"count"`
	IDs       []string `json:"ids,omitempty"`
	Active    bool     `json:"active"`
	FuelUsage float64  `json:"fuel_usage"` // per second while active
}

// validate checks a Config before any sensor is built from it.
func (c Config) validate() error {
	if c.Model == "" {
		return fmt.Errorf("sensor config: missing model")
	}
	if c.Count < 0 {
		return fmt.Errorf("sensor %q: negative count %d", c.Model, c.Count)
	}
	if len(c.IDs) > c.Count {
		return fmt.Errorf("sensor %q: %d ids listed for %d sensors", c.Model, len(c.IDs), c.Count)
	}
	if c.FuelUsage < 0 || math.IsNaN(c.FuelUsage) || math.IsInf(c.FuelUsage, 0) {
		return fmt.Errorf("sensor %q: invalid fuel usage %g", c.Model, c.FuelUsage)
	}
	return nil
}

// Sensor is a single mounted sensor.
type Sensor struct {
	id        string
	model     string
	tags      []string
	fuelUsage float64
	active    bool
}

// ID returns the sensor id, unique within its controller.
func (s *Sensor) ID() string { return s.id }

// Model returns the sensor model name.
func (s *Sensor) Model() string { return s.model }

// IsActive reports whether the sensor is switched on.
func (s *Sensor) IsActive() bool { return s.active }

// HasMatch reports whether any matcher names the sensor's model or one of its tags.
func (s *Sensor) HasMatch(matchers []string) bool {
	for _, m := range matchers {
		if m == s.model || slices.Contains(s.tags, m) {
			return true
		}
	}
	return false
}

// State is the serialisable snapshot of one sensor.
type State struct {
	SensorID string   `json:"sensor_id"`
	Model    string   `json:"model"`
	Tags     []string `json:"tags,omitempty"`
	Active   bool     `json:"active"`
}

// State returns a snapshot of the sensor.
func (s *Sensor) State() State {
	return State{
		SensorID: s.id,
		Model:    s.model,
		Tags:     slices.Clone(s.tags),
		Active:   s.active,
	}
}
