// Package engine implements the scenario loop.
//
// The simulation advances in fixed ticks of time_step seconds until run_time is
// reached. On each tick every remote is updated once, in declaration order, with
// the intentions the script assigns it for that tick; a remote with no scripted
// intentions receives an empty set and coasts. After the tick every remote is
// snapshotted into a log row whose digest identifies the row for replay checks.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/cxd309/remotesim/internal/intent"
	"github.com/cxd309/remotesim/internal/logging"
	"github.com/cxd309/remotesim/internal/remote"
	"github.com/zeebo/xxh3"
)

// tickEpsilon absorbs float error when run_time is a multiple of time_step.
const tickEpsilon = 1e-9

// NewEngine constructs an Engine from a SimulationInput, building every remote and
// resolving the script into per-tick intention sets.
func NewEngine(input SimulationInput, opts ...Option) (*Engine, error) {
	meta := input.Meta
	if meta.TimeStep <= 0 || math.IsNaN(meta.TimeStep) || math.IsInf(meta.TimeStep, 0) {
		return nil, fmt.Errorf("invalid time_step %g", meta.TimeStep)
	}
	if meta.RunTime < 0 || math.IsNaN(meta.RunTime) || math.IsInf(meta.RunTime, 0) {
		return nil, fmt.Errorf("invalid run_time %g", meta.RunTime)
	}

	e := &Engine{
		meta:   meta,
		ticks:  int(math.Floor(meta.RunTime/meta.TimeStep + tickEpsilon)),
		logger: logging.Discard(),
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With("simulation_id", meta.SimulationID)

	seen := make(map[string]bool, len(input.Remotes))
	e.remotes = make([]*remote.Remote, 0, len(input.Remotes))
	for _, d := range input.Remotes {
		if seen[d.RemoteID] {
			return nil, fmt.Errorf("duplicate remote %q", d.RemoteID)
		}
		seen[d.RemoteID] = true
		r, err := remote.New(d, remote.WithLogger(e.logger))
		if err != nil {
			return nil, fmt.Errorf("creating remote: %w", err)
		}
		e.remotes = append(e.remotes, r)
	}

	script, err := buildScript(input.Script, seen, e.ticks)
	if err != nil {
		return nil, err
	}
	e.script = script
	return e, nil
}

// buildScript merges script entries into one intention set per remote per tick.
// Ticks past the end of the run are dropped.
func buildScript(entries []ScriptEntry, remotes map[string]bool, ticks int) (map[int]map[string]intent.Set, error) {
	script := make(map[int]map[string]intent.Set)
	for i, entry := range entries {
		if !remotes[entry.RemoteID] {
			return nil, fmt.Errorf("script entry %d: unknown remote %q", i, entry.RemoteID)
		}
		last := entry.Tick
		if entry.UntilTick != nil {
			last = *entry.UntilTick
		}
		if entry.Tick < 0 || last < entry.Tick {
			return nil, fmt.Errorf("script entry %d: invalid tick range [%d, %d]", i, entry.Tick, last)
		}
		for tick := entry.Tick; tick <= last && tick < ticks; tick++ {
			byRemote, ok := script[tick]
			if !ok {
				byRemote = make(map[string]intent.Set)
				script[tick] = byRemote
			}
			set := byRemote[entry.RemoteID]
			if err := set.Merge(entry.Intentions); err != nil {
				return nil, fmt.Errorf("script entry %d, remote %q, tick %d: %w", i, entry.RemoteID, tick, err)
			}
			byRemote[entry.RemoteID] = set
		}
	}
	return script, nil
}

// Ticks returns the number of ticks the run will execute.
func (e *Engine) Ticks() int { return e.ticks }

// Run executes the full simulation and returns the log. Cancellation is checked
// between ticks; a tick in progress always completes.
func (e *Engine) Run(ctx context.Context) (SimulationLog, error) {
	e.logger.Info("simulation started", "remotes", len(e.remotes), "ticks", e.ticks)
	log := SimulationLog{Meta: e.meta, Output: make([]SimulationLogRow, 0, e.ticks)}
	for e.tick < e.ticks {
		if err := ctx.Err(); err != nil {
			return SimulationLog{}, fmt.Errorf("at tick %d: %w", e.tick, err)
		}
		row, err := e.step()
		if err != nil {
			return SimulationLog{}, fmt.Errorf("at tick %d: %w", e.tick, err)
		}
		log.Output = append(log.Output, row)
		e.tick++
	}
	e.logger.Info("simulation finished", "ticks", e.ticks)
	return log, nil
}

// step advances every remote by one tick and returns the resulting log row.
func (e *Engine) step() (SimulationLogRow, error) {
	dt := e.meta.TimeStep
	scripted := e.script[e.tick]

	active := 0
	for _, r := range e.remotes {
		if err := r.Update(scripted[r.ID()], dt); err != nil {
			return SimulationLogRow{}, err
		}
		if r.IsActive() {
			active++
		}
	}

	states := make([]remote.State, len(e.remotes))
	for i, r := range e.remotes {
		states[i] = r.State()
	}
	digest, err := Digest(states)
	if err != nil {
		return SimulationLogRow{}, err
	}
	e.logger.Log(context.Background(), logging.LevelTrace, "tick",
		"tick", e.tick, "active", active, "digest", digest)

	return SimulationLogRow{
		Tick:         e.tick,
		Timestamp:    float64(e.tick+1) * dt,
		RemoteStates: states,
		Digest:       digest,
	}, nil
}

// Digest returns the xxh3 hash of the canonical JSON encoding of states as 16 hex digits.
func Digest(states []remote.State) (string, error) {
	b, err := json.Marshal(states)
	if err != nil {
		return "", fmt.Errorf("encoding remote states: %w", err)
	}
	return fmt.Sprintf("%016x", xxh3.Hash(b)), nil
}

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	input, err := ParseJSON([]byte(jsonInput))
	if err != nil {
		return "", err
	}

	eng, err := NewEngine(input)
	if err != nil {
		return "", err
	}

	simLog, err := eng.Run(context.Background())
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
