package bench

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on runs(scenario, started_at)
const currentSchemaVersion = 1

// ResultStore persists benchmark runs to SQLite so runs can be
// compared across time and machines.
type ResultStore struct {
	db *sql.DB
}

// OpenResultStore creates or opens the benchmark database at path.
// Applies required pragmas and migrations; safe to call repeatedly.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open benchmark database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to benchmark database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	// to avoid SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

// Close closes the database connection.
func (s *ResultStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores a run and all its measurement iterations in one
// transaction.
func (s *ResultStore) SaveRun(result *RunResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, scenario, obligations, status_events, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		result.RunID, result.Config.Name, result.Config.Obligations,
		result.Config.StatusEvents, result.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, m := range result.Metrics {
		_, err = tx.Exec(
			`INSERT INTO measurements
			   (run_id, iteration, duration_ms, throughput, memory_mb, gc_time_ms, peak_entities)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, i+1, m.DurationMS, m.ThroughputOpsPerSec,
			m.MemoryUsedMB, m.GCTimeMS, m.PeakEntities,
		)
		if err != nil {
			return fmt.Errorf("insert measurement %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// StoredRun is one persisted benchmark run with its measurements.
type StoredRun struct {
	RunID        string
	Scenario     string
	Obligations  int
	StatusEvents int
	StartedAt    time.Time
	Metrics      []Metrics
}

// LatestRuns returns the most recent stored run per scenario, ordered
// by obligation count ascending.
func (s *ResultStore) LatestRuns() ([]StoredRun, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario, obligations, status_events, MAX(started_at)
		 FROM runs
		 GROUP BY scenario
		 ORDER BY obligations ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest runs: %w", err)
	}
	defer rows.Close()

	var runs []StoredRun
	for rows.Next() {
		var run StoredRun
		var startedAt string
		if err := rows.Scan(&run.RunID, &run.Scenario, &run.Obligations, &run.StatusEvents, &startedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		metrics, err := s.runMeasurements(runs[i].RunID, runs[i].Scenario, runs[i].Obligations, runs[i].StatusEvents)
		if err != nil {
			return nil, err
		}
		runs[i].Metrics = metrics
	}
	return runs, nil
}

// runMeasurements loads all measurement iterations of one run.
func (s *ResultStore) runMeasurements(runID, scenario string, obligations, statusEvents int) ([]Metrics, error) {
	rows, err := s.db.Query(
		`SELECT duration_ms, throughput, memory_mb, gc_time_ms, peak_entities
		 FROM measurements
		 WHERE run_id = ?
		 ORDER BY iteration ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query measurements for %s: %w", runID, err)
	}
	defer rows.Close()

	var metrics []Metrics
	for rows.Next() {
		m := Metrics{
			ScenarioName: scenario,
			Obligations:  obligations,
			StatusEvents: statusEvents,
		}
		if err := rows.Scan(&m.DurationMS, &m.ThroughputOpsPerSec, &m.MemoryUsedMB, &m.GCTimeMS, &m.PeakEntities); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return metrics, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies incremental schema migrations based on
// user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		// New databases get this from schema.sql; databases created
		// before v1 need the index added explicitly.
		_, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_runs_scenario
			ON runs(scenario, started_at)
		`)
		if err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
