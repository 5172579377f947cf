package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidInput wraps every failure to decode a SimulationInput.
var ErrInvalidInput = errors.New("invalid input")

// LoadInput reads a SimulationInput from path. Files ending in .yaml or .yml are
// parsed as YAML; anything else as JSON.
func LoadInput(path string) (SimulationInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SimulationInput{}, fmt.Errorf("reading scenario: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a JSON scenario.
func ParseJSON(data []byte) (SimulationInput, error) {
	var input SimulationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return SimulationInput{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return input, nil
}

// ParseYAML decodes a YAML scenario. The document is converted to JSON first so
// YAML and JSON scenarios share one schema and one set of decoders.
func ParseYAML(data []byte) (SimulationInput, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return SimulationInput{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return SimulationInput{}, fmt.Errorf("%w: converting yaml: %w", ErrInvalidInput, err)
	}
	return ParseJSON(b)
}
