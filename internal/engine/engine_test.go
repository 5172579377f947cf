package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cxd309/remotesim/internal/logging"
	"github.com/cxd309/remotesim/internal/remote"
	"github.com/go-gl/mathgl/mgl64"
)

const scenarioJSON = `{
  "simulation_meta": {"simulation_id": "sortie", "run_time": 4, "time_step": 1},
  "remotes": [
    {
      "remote_id": "drone-1",
      "variant": "aerial",
      "team": "blue",
      "active": true,
      "kinematics": {
        "location": [0, 0, 0],
        "motion": {"max_velocity": 10, "max_acceleration": 1}
      }
    },
    {
      "remote_id": "mast",
      "variant": "stationary",
      "active": true,
      "kinematics": {"location": [5, 5, 0]},
      "sensors": [{"model": "radar", "count": 1, "active": true}]
    }
  ],
  "script": [
    {
      "remote_id": "drone-1",
      "tick": 0,
      "until_tick": 2,
      "intentions": [{"intention_type": "push", "force": [1, 0, 0]}]
    }
  ]
}`

const scenarioYAML = `
simulation_meta:
  simulation_id: sortie
  run_time: 4
  time_step: 1
remotes:
  - remote_id: drone-1
    variant: aerial
    team: blue
    active: true
    kinematics:
      location: [0, 0, 0]
      motion:
        max_velocity: 10
        max_acceleration: 1
  - remote_id: mast
    variant: stationary
    active: true
    kinematics:
      location: [5, 5, 0]
    sensors:
      - model: radar
        count: 1
        active: true
script:
  - remote_id: drone-1
    tick: 0
    until_tick: 2
    intentions:
      - intention_type: push
        force: [1, 0, 0]
`

func parseScenario(t *testing.T) SimulationInput {
	t.Helper()
	input, err := ParseJSON([]byte(scenarioJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	return input
}

func run(t *testing.T, input SimulationInput) SimulationLog {
	t.Helper()
	eng, err := NewEngine(input)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	simLog, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return simLog
}

func intp(i int) *int { return &i }

func TestNewEngineRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *SimulationInput)
	}{
		{"zero time step", func(in *SimulationInput) { in.Meta.TimeStep = 0 }},
		{"NaN time step", func(in *SimulationInput) { in.Meta.TimeStep = math.NaN() }},
		{"negative run time", func(in *SimulationInput) { in.Meta.RunTime = -1 }},
		{"duplicate remote", func(in *SimulationInput) { in.Remotes = append(in.Remotes, in.Remotes[0]) }},
		{"unknown variant", func(in *SimulationInput) { in.Remotes[0].Variant = "submarine" }},
		{"unknown scripted remote", func(in *SimulationInput) { in.Script[0].RemoteID = "ghost" }},
		{"negative tick", func(in *SimulationInput) { in.Script[0].Tick = -1 }},
		{"reversed range", func(in *SimulationInput) { in.Script[0].Tick = 3; in.Script[0].UntilTick = intp(1) }},
		{"duplicate intention on one tick", func(in *SimulationInput) {
			in.Script = append(in.Script, ScriptEntry{RemoteID: "drone-1", Tick: 1, Intentions: in.Script[0].Intentions})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := parseScenario(t)
			tt.mutate(&input)
			if _, err := NewEngine(input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		runTime, timeStep float64
		want              int
	}{
		{4, 1, 4},
		{1, 0.1, 10},
		{30, 0.1, 300},
		{0.95, 0.1, 9},
		{0, 1, 0},
	}
	for _, tt := range tests {
		input := parseScenario(t)
		input.Meta.RunTime, input.Meta.TimeStep = tt.runTime, tt.timeStep
		eng, err := NewEngine(input)
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		if got := eng.Ticks(); got != tt.want {
			t.Errorf("Ticks(%g/%g) = %d, want %d", tt.runTime, tt.timeStep, got, tt.want)
		}
	}
}

func TestRunLogsEveryTick(t *testing.T) {
	simLog := run(t, parseScenario(t))

	if simLog.Meta.SimulationID != "sortie" {
		t.Errorf("SimulationID = %q", simLog.Meta.SimulationID)
	}
	if len(simLog.Output) != 4 {
		t.Fatalf("len(Output) = %d, want 4", len(simLog.Output))
	}
	for i, row := range simLog.Output {
		if row.Tick != i || row.Timestamp != float64(i+1) {
			t.Errorf("row %d: tick %d timestamp %g", i, row.Tick, row.Timestamp)
		}
		if len(row.RemoteStates) != 2 || row.RemoteStates[0].RemoteID != "drone-1" || row.RemoteStates[1].RemoteID != "mast" {
			t.Errorf("row %d: remote states out of declaration order", i)
		}
		if len(row.Digest) != 16 {
			t.Errorf("row %d: digest %q", i, row.Digest)
		}
	}
}

func TestScriptRangeIsInclusive(t *testing.T) {
	simLog := run(t, parseScenario(t))

	// Pushed on ticks 0-2, coasting on tick 3.
	wantVelocity := []float64{1, 2, 3, 3}
	wantX := []float64{1, 3, 6, 9}
	for i, row := range simLog.Output {
		s := row.RemoteStates[0]
		if s.Velocity == nil || *s.Velocity != (mgl64.Vec3{wantVelocity[i], 0, 0}) {
			t.Errorf("tick %d: velocity = %v, want %g", i, s.Velocity, wantVelocity[i])
		}
		if s.Location == nil || s.Location.X() != wantX[i] {
			t.Errorf("tick %d: location = %v, want x=%g", i, s.Location, wantX[i])
		}
	}

	mast := simLog.Output[3].RemoteStates[1]
	if mast.Velocity != nil || mast.Location == nil || *mast.Location != (mgl64.Vec3{5, 5, 0}) {
		t.Errorf("stationary remote moved or projected motion: %+v", mast)
	}
	if len(mast.Sensors) != 1 || !mast.Sensors[0].Active {
		t.Errorf("mast sensors = %+v", mast.Sensors)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a := run(t, parseScenario(t))
	b := run(t, parseScenario(t))
	for i := range a.Output {
		if a.Output[i].Digest != b.Output[i].Digest {
			t.Fatalf("tick %d: digests differ %s != %s", i, a.Output[i].Digest, b.Output[i].Digest)
		}
	}
	if a.Output[0].Digest == a.Output[1].Digest {
		t.Error("digest did not change while the drone moved")
	}
}

func TestDigestMatchesStates(t *testing.T) {
	simLog := run(t, parseScenario(t))
	row := simLog.Output[2]
	got, err := Digest(row.RemoteStates)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if got != row.Digest {
		t.Errorf("Digest() = %s, row digest %s", got, row.Digest)
	}
	other, _ := Digest([]remote.State{})
	if other == got {
		t.Error("different states hashed equal")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	eng, err := NewEngine(parseScenario(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunJSON(t *testing.T) {
	out, err := RunJSON(scenarioJSON)
	if err != nil {
		t.Fatalf("RunJSON: %v", err)
	}
	var simLog SimulationLog
	if err := json.Unmarshal([]byte(out), &simLog); err != nil {
		t.Fatalf("output is not a SimulationLog: %v", err)
	}
	if len(simLog.Output) != 4 {
		t.Errorf("len(Output) = %d, want 4", len(simLog.Output))
	}

	if _, err := RunJSON(`{"simulation_meta":`); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("RunJSON(truncated) error = %v, want ErrInvalidInput", err)
	}
	if _, err := RunJSON(strings.Replace(scenarioJSON, `"push"`, `"warp"`, 1)); err == nil {
		t.Error("RunJSON accepted an unknown intention type")
	}
}

func TestLoadInputYAMLMatchesJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "sortie.json")
	yamlPath := filepath.Join(dir, "sortie.yaml")
	if err := os.WriteFile(jsonPath, []byte(scenarioJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := LoadInput(jsonPath)
	if err != nil {
		t.Fatalf("LoadInput(json): %v", err)
	}
	fromYAML, err := LoadInput(yamlPath)
	if err != nil {
		t.Fatalf("LoadInput(yaml): %v", err)
	}
	a, b := run(t, fromJSON), run(t, fromYAML)
	for i := range a.Output {
		if a.Output[i].Digest != b.Output[i].Digest {
			t.Fatalf("tick %d: yaml and json scenarios diverge", i)
		}
	}

	if _, err := LoadInput(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadInput(missing) succeeded")
	}
	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(bad, []byte("remotes: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInput(bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("LoadInput(bad yaml) error = %v, want ErrInvalidInput", err)
	}
}

func TestRunLogsTicksAtTrace(t *testing.T) {
	var buf bytes.Buffer
	eng, err := NewEngine(parseScenario(t), WithLogger(logging.NewLogger("trace", &buf)))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "level=TRACE msg=tick"); got != 4 {
		t.Errorf("logged %d tick lines, want 4:\n%s", got, out)
	}
	if !strings.Contains(out, "simulation_id=sortie") || !strings.Contains(out, "msg=\"simulation finished\"") {
		t.Errorf("missing run summary:\n%s", out)
	}
}
