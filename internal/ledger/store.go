package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reelforge/internal/config"
)

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database in the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// StartRun inserts a new running run and returns it.
func (s *Store) StartRun(ctx context.Context, sceneCount int) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		Status:     RunStatusRunning,
		StartedAt:  time.Now().UTC(),
		SceneCount: sceneCount,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at, scene_count) VALUES (?, ?, ?, ?)`,
		run.ID, run.Status, run.StartedAt.Format(time.RFC3339Nano), run.SceneCount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordScene upserts one scene outcome for a run.
func (s *Store) RecordScene(ctx context.Context, record SceneRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_scenes (run_id, scene_id, outcome, composed_path, clip_count, detail)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(run_id, scene_id) DO UPDATE SET
             outcome = excluded.outcome,
             composed_path = excluded.composed_path,
             clip_count = excluded.clip_count,
             detail = excluded.detail`,
		record.RunID, record.SceneID, record.Outcome, record.ComposedPath, record.ClipCount, record.Detail,
	)
	if err != nil {
		return fmt.Errorf("record scene %d: %w", record.SceneID, err)
	}
	return nil
}

// CompleteRun marks a run merged with its reel path and probed duration.
func (s *Store) CompleteRun(ctx context.Context, runID, reelPath string, durationSeconds float64) error {
	return s.finishRun(ctx, runID, RunStatusMerged, reelPath, durationSeconds, "")
}

// FailRun marks a run failed with an error message.
func (s *Store) FailRun(ctx context.Context, runID, message string) error {
	return s.finishRun(ctx, runID, RunStatusFailed, "", 0, message)
}

func (s *Store) finishRun(ctx context.Context, runID string, status RunStatus, reelPath string, durationSeconds float64, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, reel_path = ?, reel_duration_seconds = ?, error_message = ?
         WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), reelPath, durationSeconds, message, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, started_at, finished_at, scene_count, reel_path, reel_duration_seconds, error_message
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ScenesForRun returns a run's scene records ordered by scene ID.
func (s *Store) ScenesForRun(ctx context.Context, runID string) ([]SceneRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, scene_id, outcome, composed_path, clip_count, detail
         FROM run_scenes WHERE run_id = ? ORDER BY scene_id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run scenes: %w", err)
	}
	defer rows.Close()

	var records []SceneRecord
	for rows.Next() {
		var record SceneRecord
		var outcome string
		if err := rows.Scan(&record.RunID, &record.SceneID, &outcome, &record.ComposedPath, &record.ClipCount, &record.Detail); err != nil {
			return nil, fmt.Errorf("scan scene record: %w", err)
		}
		record.Outcome = SceneOutcome(outcome)
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var status, startedAt string
	var finishedAt sql.NullString
	if err := rows.Scan(&run.ID, &status, &startedAt, &finishedAt, &run.SceneCount,
		&run.ReelPath, &run.ReelDurationSeconds, &run.ErrorMessage); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)

	parsedStart, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = parsedStart

	if finishedAt.Valid && finishedAt.String != "" {
		parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &parsed
	}
	return run, nil
}
