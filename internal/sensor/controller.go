package sensor

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Controller owns a Remote's sensors in declaration order.
type Controller struct {
	sensors *orderedmap.OrderedMap[string, *Sensor]
}

// NewController builds the sensors described by configs.
func NewController(configs []Config) (*Controller, error) {
	c := &Controller{sensors: orderedmap.NewOrderedMap[string, *Sensor]()}
	count := 0
	for _, cfg := range configs {
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		for i := 0; i < cfg.Count; i++ {
			id := fmt.Sprintf("%s:(%d)", cfg.Model, count)
			if i < len(cfg.IDs) {
				id = cfg.IDs[i]
			}
			count++
			if _, dup := c.sensors.Get(id); dup {
				return nil, fmt.Errorf("duplicate sensor id %q", id)
			}
			c.sensors.Set(id, &Sensor{
				id:        id,
				model:     cfg.Model,
				tags:      cfg.Tags,
				fuelUsage: cfg.FuelUsage,
				active:    cfg.Active,
			})
		}
	}
	return c, nil
}

// Len returns the number of sensors.
func (c *Controller) Len() int { return c.sensors.Len() }

// Sensor returns the sensor with the given id.
func (c *Controller) Sensor(id string) (*Sensor, bool) {
	return c.sensors.Get(id)
}

// ActivateSensors switches on the listed sensors. Unknown ids are ignored.
func (c *Controller) ActivateSensors(ids ...string) {
	c.setActive(ids, true)
}

// ActivateAll switches on every sensor.
func (c *Controller) ActivateAll() {
	c.setActive(c.sensors.Keys(), true)
}

// DeactivateSensors switches off the listed sensors. Unknown ids are ignored.
func (c *Controller) DeactivateSensors(ids ...string) {
	c.setActive(ids, false)
}

// DeactivateAll switches off every sensor.
func (c *Controller) DeactivateAll() {
	c.setActive(c.sensors.Keys(), false)
}

func (c *Controller) setActive(ids []string, active bool) {
	for _, id := range ids {
		if s, ok := c.sensors.Get(id); ok {
			s.active = active
		}
	}
}

// ActiveSensorIDs returns the ids of the active sensors in declaration order.
func (c *Controller) ActiveSensorIDs() []string {
	var ids []string
	for el := c.sensors.Front(); el != nil; el = el.Next() {
		if el.Value.active {
			ids = append(ids, el.Key)
		}
	}
	return ids
}

// SensorFuelUsage returns the per-second draw of all active sensors.
func (c *Controller) SensorFuelUsage() float64 {
	total := 0.0
	for el := c.sensors.Front(); el != nil; el = el.Next() {
		if el.Value.active {
			total += el.Value.fuelUsage
		}
	}
	return total
}

// SensorStates returns a snapshot of every sensor in declaration order.
func (c *Controller) SensorStates() []State {
	states := make([]State, 0, c.sensors.Len())
	for el := c.sensors.Front(); el != nil; el = el.Next() {
		states = append(states, el.Value.State())
	}
	return states
}

// HasSensorWithMatch reports whether any sensor's model or tags match one of matchers.
func (c *Controller) HasSensorWithMatch(matchers []string) bool {
	for el := c.sensors.Front(); el != nil; el = el.Next() {
		if el.Value.HasMatch(matchers) {
			return true
		}
	}
	return false
}
