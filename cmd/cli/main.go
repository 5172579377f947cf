// Command remotesim runs remote simulation scenarios.
//
//	remotesim run [scenario]       run a JSON or YAML scenario (stdin when omitted)
//	remotesim verify [scenario]    rerun a scenario and compare it with a recorded run
//	remotesim version              print version information
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cxd309/remotesim/internal/config"
	"github.com/cxd309/remotesim/internal/engine"
	"github.com/cxd309/remotesim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "remotesim",
		Short: "Fixed-timestep simulator for remotely operated agents",
		Long: `remotesim advances a set of remotes (drones, ground vehicles, masts) through
a scripted scenario in fixed ticks and writes the per-tick simulation log as JSON.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: warn, info, debug or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newVerifyCmd(),
	)
	return rootCmd
}

// loadSettings resolves the config file, environment and flags for cmd and returns
// the config together with a logger writing to cmd's stderr.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}

// readScenario loads the scenario named by args, or reads JSON from stdin.
func readScenario(cmd *cobra.Command, args []string) (engine.SimulationInput, error) {
	if len(args) > 0 && args[0] != "-" {
		return engine.LoadInput(args[0])
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return engine.SimulationInput{}, fmt.Errorf("error reading input: %w", err)
	}
	return engine.ParseJSON(data)
}
