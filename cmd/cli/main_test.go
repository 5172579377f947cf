package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cxd309/remotesim/internal/engine"
	"github.com/paulmach/orb/geojson"
)

const scenario = `{
  "simulation_meta": {"simulation_id": "cli", "run_time": 2, "time_step": 0.5},
  "remotes": [{
    "remote_id": "rover", "variant": "ground", "active": true,
    "kinematics": {"location": [0, 0, 0], "motion": {"max_velocity": 1, "max_acceleration": 1}}
  }],
  "script": [{"remote_id": "rover", "tick": 0, "until_tick": 3,
    "intentions": [{"intention_type": "goto", "location": [1, 0, 0]}]}]
}`

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REMOTESIM_LOG_LEVEL", "")
	t.Setenv("REMOTESIM_REPLAY_PATH", "")
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeScenario(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.json")
	if err := os.WriteFile(path, []byte(scenario), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFromStdin(t *testing.T) {
	out, err := execute(t, scenario, "run")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	var simLog engine.SimulationLog
	if err := json.Unmarshal([]byte(out), &simLog); err != nil {
		t.Fatalf("stdout is not a simulation log: %v", err)
	}
	if len(simLog.Output) != 4 {
		t.Errorf("len(Output) = %d, want 4", len(simLog.Output))
	}
}

func TestRunPretty(t *testing.T) {
	out, err := execute(t, scenario, "run", "--pretty")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "\n  \"simulation_meta\"") {
		t.Errorf("output not indented: %.80s", out)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if _, err := execute(t, "{", "run"); !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("run error = %v, want ErrInvalidInput", err)
	}
	if _, err := execute(t, scenario, "run", "--log-level", "loud"); err == nil {
		t.Error("invalid --log-level accepted")
	}
}

func TestRunWritesGeoJSON(t *testing.T) {
	dir := t.TempDir()
	geo := filepath.Join(dir, "tracks.geojson")
	if _, err := execute(t, "", "run", writeScenario(t, dir), "--geojson", geo); err != nil {
		t.Fatalf("run error = %v", err)
	}
	data, err := os.ReadFile(geo)
	if err != nil {
		t.Fatalf("geojson not written: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("invalid geojson: %v", err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Properties["remote_id"] != "rover" {
		t.Errorf("features = %v", fc.Features)
	}
}

func TestRecordThenVerify(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir)
	db := filepath.Join(dir, "replay.db")

	if _, err := execute(t, "", "run", path, "--record", db); err != nil {
		t.Fatalf("run --record error = %v", err)
	}
	out, err := execute(t, "", "verify", path, "--db", db)
	if err != nil {
		t.Fatalf("verify error = %v", err)
	}
	if !strings.Contains(out, "cli: 4 ticks match") {
		t.Errorf("verify output = %q", out)
	}

	changed := strings.Replace(scenario, `"location": [1, 0, 0]`, `"location": [2, 0, 0]`, 1)
	if _, err := execute(t, changed, "verify", "--db", db); !errors.Is(err, errDiverged) {
		t.Errorf("verify of changed scenario error = %v, want errDiverged", err)
	}
}

func TestVerifyNeedsDatabase(t *testing.T) {
	if _, err := execute(t, scenario, "verify"); err == nil {
		t.Error("verify without --db succeeded")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("version --json output %q: %v", out, err)
	}
	if v["version"] != version {
		t.Errorf("version = %q, want %q", v["version"], version)
	}
}
