// Package sqlite keeps run history in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"

	_ "modernc.org/sqlite"
)

var _ output.RunStore = (*Store)(nil)

const defaultListLimit = 20

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			city          TEXT NOT NULL,
			event         TEXT NOT NULL,
			requirements  TEXT NOT NULL DEFAULT '',
			transport     TEXT NOT NULL,
			status        TEXT NOT NULL,
			outputs       TEXT,
			report        TEXT NOT NULL DEFAULT '',
			error         TEXT NOT NULL DEFAULT '',
			started_at    DATETIME NOT NULL,
			completed_at  DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun inserts a run or replaces an earlier save of the same ID.
func (s *Store) SaveRun(ctx context.Context, run *entity.RunRecord) error {
	var outputs *string
	if len(run.Outputs) > 0 {
		data, err := json.Marshal(run.Outputs)
		if err != nil {
			return fmt.Errorf("marshal outputs: %w", err)
		}
		str := string(data)
		outputs = &str
	}

	var completedAt *time.Time
	if run.CompletedAt != nil {
		t := run.CompletedAt.UTC()
		completedAt = &t
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, city, event, requirements, transport, status, outputs, report, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			outputs = excluded.outputs,
			report = excluded.report,
			error = excluded.error,
			completed_at = excluded.completed_at`,
		run.ID, string(run.Request.City), string(run.Request.Event), run.Request.Requirements,
		string(run.Request.Transport), string(run.Status), outputs, run.Report, run.Error,
		run.StartedAt.UTC(), completedAt)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// GetRun returns nil, nil when no run has the ID.
func (s *Store) GetRun(ctx context.Context, id string) (*entity.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, city, event, requirements, transport, status, outputs, report, error, started_at, completed_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]entity.RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, event, requirements, transport, status, outputs, report, error, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []entity.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*entity.RunRecord, error) {
	var (
		r           entity.RunRecord
		city        string
		event       string
		transport   string
		status      string
		outputs     sql.NullString
		completedAt sql.NullTime
	)
	if err := sc.Scan(&r.ID, &city, &event, &r.Request.Requirements, &transport, &status,
		&outputs, &r.Report, &r.Error, &r.StartedAt, &completedAt); err != nil {
		return nil, err
	}

	r.Request.City = entity.City(city)
	r.Request.Event = entity.EventType(event)
	r.Request.Transport = entity.TransportMode(transport)
	r.Status = entity.RunStatus(status)

	if outputs.Valid {
		if err := json.Unmarshal([]byte(outputs.String), &r.Outputs); err != nil {
			return nil, fmt.Errorf("unmarshal outputs: %w", err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
