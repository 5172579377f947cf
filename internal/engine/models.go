package engine

import (
	"log/slog"

	"github.com/cxd309/remotesim/internal/intent"
	"github.com/cxd309/remotesim/internal/remote"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id"`
	RunTime      float64 `json:"run_time"`  // seconds
	TimeStep     float64 `json:"time_step"` // seconds
}

// ScriptEntry delivers a set of intentions to one remote on tick Tick, or on every
// tick from Tick to UntilTick inclusive.
type ScriptEntry struct {
	RemoteID   string     `json:"remote_id"`
	Tick       int        `json:"tick"`
	UntilTick  *int       `json:"until_tick,omitempty"`
	Intentions intent.Set `json:"intentions"`
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta    SimulationMeta      `json:"simulation_meta"`
	Remotes []remote.Descriptor `json:"remotes"`
	Script  []ScriptEntry       `json:"script,omitempty"`
}

// SimulationLogRow is the state of all remotes after a single tick.
type SimulationLogRow struct {
	Tick         int            `json:"tick"`
	Timestamp    float64        `json:"timestamp"` // seconds elapsed after the tick
	RemoteStates []remote.State `json:"remote_states"`
	Digest       string         `json:"digest"` // xxh3 of the row's remote states
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta   SimulationMeta     `json:"simulation_meta"`
	Output []SimulationLogRow `json:"output"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for run progress and, through them, every remote.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine is the scenario loop state. script[tick][remoteID] is the merged
// intention set delivered on that tick.
type Engine struct {
	meta    SimulationMeta
	remotes []*remote.Remote
	script  map[int]map[string]intent.Set
	ticks   int
	tick    int
	logger  *slog.Logger
}
