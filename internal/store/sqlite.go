package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bess-degradation/internal/lifetime"

	_ "modernc.org/sqlite"
)

const timeFormat = "2006-01-02 15:04:05.000"

// SQLiteStore persists runs in a SQLite database. Results are stored as
// JSON next to the summary columns used for listing.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS simulations (
			id             TEXT PRIMARY KEY,
			system_name    TEXT NOT NULL,
			operation_mode TEXT NOT NULL,
			years_to_eol   INTEGER NOT NULL,
			eol_reached    INTEGER NOT NULL,
			result_json    TEXT NOT NULL,
			created_at     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_simulations_created ON simulations(created_at);
	`)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, run Run) error {
	if run.Result == nil {
		return errors.New("run has no result")
	}
	payload, err := json.Marshal(run.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO simulations (id, system_name, operation_mode, years_to_eol, eol_reached, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			system_name    = excluded.system_name,
			operation_mode = excluded.operation_mode,
			years_to_eol   = excluded.years_to_eol,
			eol_reached    = excluded.eol_reached,
			result_json    = excluded.result_json
	`, run.ID, run.Result.Config.Name, string(run.Result.OperationMode), run.Result.YearsToEOL,
		run.Result.EOLReached, string(payload), run.CreatedAt.UTC().Format(timeFormat))
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, result_json, created_at FROM simulations WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, result_json, created_at FROM simulations
		ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		payload string
		created string
	)
	if err := sc.Scan(&run.ID, &payload, &created); err != nil {
		return Run{}, err
	}
	var res lifetime.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return Run{}, fmt.Errorf("corrupt result for %s: %w", run.ID, err)
	}
	run.Result = &res
	ts, err := time.Parse(timeFormat, created)
	if err != nil {
		return Run{}, fmt.Errorf("corrupt created_at for %s: %w", run.ID, err)
	}
	run.CreatedAt = ts
	return run, nil
}
