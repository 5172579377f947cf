package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cxd309/remotesim/internal/engine"
	"github.com/cxd309/remotesim/internal/export"
	"github.com/cxd309/remotesim/internal/replay"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run a scenario and write the simulation log to stdout",
		Long: `Run a JSON or YAML scenario file, or a JSON scenario read from stdin, and write
the resulting simulation log as JSON to stdout.

With --record the per-tick digests are stored in a replay database for later
verification. With --geojson the remote trajectories are also written as a
GeoJSON FeatureCollection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
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

			pretty, _ := cmd.Flags().GetBool("pretty")
			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty || cfg.Output.Pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(simLog); err != nil {
				return fmt.Errorf("marshaling output: %w", err)
			}

			if geoPath, _ := cmd.Flags().GetString("geojson"); geoPath != "" {
				if err := writeGeoJSON(geoPath, simLog); err != nil {
					return err
				}
				logger.Info("trajectories written", "path", geoPath)
			}

			dbPath, _ := cmd.Flags().GetString("record")
			if dbPath == "" {
				dbPath = cfg.Replay.Path
			}
			if dbPath != "" {
				store, err := replay.Open(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				runID, err := store.RecordRun(cmd.Context(), simLog)
				if err != nil {
					return err
				}
				logger.Info("run recorded", "path", dbPath, "run_id", runID)
			}
			return nil
		},
	}

	cmd.Flags().String("record", "", "Record per-tick digests to this replay database")
	cmd.Flags().String("geojson", "", "Write remote trajectories as GeoJSON to this file")
	cmd.Flags().Bool("pretty", false, "Indent the JSON output")
	return cmd
}

func writeGeoJSON(path string, simLog engine.SimulationLog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create geojson file: %w", err)
	}
	if err := export.WriteGeoJSON(f, simLog); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
