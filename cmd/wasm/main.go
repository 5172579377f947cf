//go:build js && wasm

// Command wasm exposes the remote simulator to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	runSimulation(scenarioJSON) -> simulationLogJSON
//	simulationTrajectories(scenarioJSON) -> featureCollectionJSON
//
// runSimulation follows the same contract as `remotesim run`. Failures are returned
// as an {error: message} object instead of a string.
package main

import (
	"bytes"
	"context"
	"syscall/js"

	"github.com/cxd309/remotesim/internal/engine"
	"github.com/cxd309/remotesim/internal/export"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(jsFunc(engine.RunJSON)))
	js.Global().Set("simulationTrajectories", js.FuncOf(jsFunc(trajectories)))
	select {} // keep the WASM module alive until the page is closed
}

// jsFunc adapts a string-to-string Go function to the syscall/js calling convention.
func jsFunc(fn func(string) (string, error)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		if len(args) < 1 {
			return map[string]any{"error": "no input provided"}
		}
		result, err := fn(args[0].String())
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		return result
	}
}

func trajectories(scenario string) (string, error) {
	input, err := engine.ParseJSON([]byte(scenario))
	if err != nil {
		return "", err
	}
	eng, err := engine.NewEngine(input)
	if err != nil {
		return "", err
	}
	simLog, err := eng.Run(context.Background())
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := export.WriteGeoJSON(&buf, simLog); err != nil {
		return "", err
	}
	return buf.String(), nil
}
