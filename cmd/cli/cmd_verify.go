package main

import (
	"errors"
	"fmt"

	"github.com/cxd309/remotesim/internal/engine"
	"github.com/cxd309/remotesim/internal/replay"
	"github.com/spf13/cobra"
)

// errDiverged is returned by verify when the rerun does not match the recording.
var errDiverged = errors.New("run diverged from recording")

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [scenario]",
		Short: "Rerun a scenario and compare it with the latest recorded run",
		Long: `Rerun a scenario and compare every tick digest with the latest run recorded
under the same simulation_id. Exits non-zero at the first diverging tick.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = cfg.Replay.Path
			}
			if dbPath == "" {
				return fmt.Errorf("no replay database: pass --db or set replay.path")
			}

			input, err := readScenario(cmd, args)
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(input, engine.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("simulation error: %w", err)
			}
			simLog, err := eng.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("simulation error: %w", err)
			}

			store, err := replay.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			mismatch, err := store.Compare(cmd.Context(), simLog)
			if err != nil {
				return err
			}
			if mismatch != nil {
				return fmt.Errorf("%w: %s", errDiverged, mismatch)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ticks match\n", input.Meta.SimulationID, len(simLog.Output))
			return nil
		},
	}
	cmd.Flags().String("db", "", "Replay database to compare against")
	return cmd
}
