package sensor

import (
	"slices"
	"testing"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController([]Config{
		{Model: "camera", Tags: []string{"vision"}, Count: 2, IDs: []string{"cam-front"}, Active: true, FuelUsage: 0.5},
		{Model: "radio", Tags: []string{"comms"}, Count: 1, FuelUsage: 0.25},
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func TestNewControllerGeneratesIDs(t *testing.T) {
	c := newTestController(t)
	var got []string
	for _, s := range c.SensorStates() {
		got = append(got, s.SensorID)
	}
	want := []string{"cam-front", "camera:(1)", "radio:(2)"}
	if !slices.Equal(got, want) {
		t.Errorf("sensor ids = %v, want %v", got, want)
	}
}

func TestNewControllerRejects(t *testing.T) {
	tests := []struct {
		name    string
		configs []Config
	}{
		{"missing model", []Config{{Count: 1}}},
		{"too many ids", []Config{{Model: "cam", Count: 1, IDs: []string{"a", "b"}}}},
		{"negative usage", []Config{{Model: "cam", Count: 1, FuelUsage: -1}}},
		{"duplicate id", []Config{{Model: "cam", Count: 1, IDs: []string{"x"}}, {Model: "gps", Count: 1, IDs: []string{"x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewController(tt.configs); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestActivation(t *testing.T) {
	c := newTestController(t)

	if got := c.SensorFuelUsage(); got != 1.0 {
		t.Errorf("initial SensorFuelUsage() = %g, want 1", got)
	}

	c.DeactivateSensors("cam-front", "no-such-sensor")
	if got := c.ActiveSensorIDs(); !slices.Equal(got, []string{"camera:(1)"}) {
		t.Errorf("ActiveSensorIDs() = %v", got)
	}

	c.ActivateAll()
	if got := c.SensorFuelUsage(); got != 1.25 {
		t.Errorf("SensorFuelUsage() = %g, want 1.25", got)
	}

	c.DeactivateAll()
	if len(c.ActiveSensorIDs()) != 0 || c.SensorFuelUsage() != 0 {
		t.Error("DeactivateAll left sensors active")
	}

	c.ActivateSensors("radio:(2)")
	if s, _ := c.Sensor("radio:(2)"); !s.IsActive() {
		t.Error("radio should be active")
	}
}

func TestHasSensorWithMatch(t *testing.T) {
	c := newTestController(t)
	tests := []struct {
		matchers []string
		want     bool
	}{
		{[]string{"camera"}, true},
		{[]string{"comms"}, true},
		{[]string{"lidar", "vision"}, true},
		{[]string{"lidar"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := c.HasSensorWithMatch(tt.matchers); got != tt.want {
			t.Errorf("HasSensorWithMatch(%v) = %v, want %v", tt.matchers, got, tt.want)
		}
	}
}
