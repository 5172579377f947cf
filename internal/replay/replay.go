// Package replay records the per-tick digests of simulation runs in SQLite and
// checks later runs of the same scenario against them.
package replay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cxd309/remotesim/internal/engine"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNoRun is returned when no run has been recorded for a simulation id.
var ErrNoRun = errors.New("no recorded run")

// Store is a replay database.
type Store struct {
	db *sql.DB
}

// Run describes one recorded run.
type Run struct {
	ID           int64
	SimulationID string
	Ticks        int
	RecordedAt   time.Time
}

// Mismatch is the first tick at which a run diverges from the recording.
// An empty digest means the tick is missing on that side.
type Mismatch struct {
	Tick     int
	Recorded string
	Got      string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("tick %d: recorded %q, got %q", m.Tick, m.Recorded, m.Got)
}

// Open opens or creates the replay database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create replay directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores every row digest of simLog as a new run and returns its id.
func (s *Store) RecordRun(ctx context.Context, simLog engine.SimulationLog) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meta := simLog.Meta
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (simulation_id, run_time, time_step, ticks, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		meta.SimulationID, meta.RunTime, meta.TimeStep, len(simLog.Output), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ticks (run_id, tick, timestamp, digest) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare tick insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range simLog.Output {
		if _, err := stmt.ExecContext(ctx, runID, row.Tick, row.Timestamp, row.Digest); err != nil {
			return 0, fmt.Errorf("failed to insert tick %d: %w", row.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recently recorded run of simulationID.
func (s *Store) LatestRun(ctx context.Context, simulationID string) (Run, error) {
	var (
		run        Run
		recordedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, simulation_id, ticks, recorded_at FROM runs WHERE simulation_id = ? ORDER BY id DESC LIMIT 1`,
		simulationID).Scan(&run.ID, &run.SimulationID, &run.Ticks, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w for simulation %q", ErrNoRun, simulationID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to query run: %w", err)
	}
	if run.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		return Run{}, fmt.Errorf("failed to parse recorded_at: %w", err)
	}
	return run, nil
}

// Digests returns the per-tick digests of the latest run of simulationID in tick order.
func (s *Store) Digests(ctx context.Context, simulationID string) ([]string, error) {
	run, err := s.LatestRun(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	return s.runDigests(ctx, run.ID)
}

func (s *Store) runDigests(ctx context.Context, runID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT digest FROM ticks WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticks: %w", err)
	}
	defer rows.Close()

	var digests []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan tick: %w", err)
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// Compare checks simLog against the latest recorded run of the same simulation id.
// It returns nil when every tick matches.
func (s *Store) Compare(ctx context.Context, simLog engine.SimulationLog) (*Mismatch, error) {
	recorded, err := s.Digests(ctx, simLog.Meta.SimulationID)
	if err != nil {
		return nil, err
	}

	n := max(len(recorded), len(simLog.Output))
	for i := 0; i < n; i++ {
		var want, got string
		if i < len(recorded) {
			want = recorded[i]
		}
		if i < len(simLog.Output) {
			got = simLog.Output[i].Digest
		}
		if want != got {
			return &Mismatch{Tick: i, Recorded: want, Got: got}, nil
		}
	}
	return nil, nil
}
