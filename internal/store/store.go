// Package store persists scan runs and their results: one run per
// invocation, one detection per book spine, one variant per processed
// orientation, and the catalog lookups that resolved them.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps the run-tracking database.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes if needed) the run database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			start_time DATETIME NOT NULL,
			end_time DATETIME,
			spines_detected INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			created TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES runs (id)
		)`,
		`CREATE TABLE IF NOT EXISTS detection_variants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			detection_id INTEGER NOT NULL,
			image_path TEXT NOT NULL,
			best_title TEXT,
			created TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (detection_id) REFERENCES detections (id)
		)`,
		`CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant_id INTEGER NOT NULL,
			source TEXT NOT NULL,
			details TEXT NOT NULL,
			created TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (variant_id) REFERENCES detection_variants (id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init run store: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a scan run and returns its ID.
func (s *Store) BeginRun(start time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs (id, start_time) VALUES (?, ?)`, id, start)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// FinishRun records the end of a run and how many spines it detected.
func (s *Store) FinishRun(runID string, end time.Time, spinesDetected int) error {
	_, err := s.db.Exec(`UPDATE runs SET end_time = ?, spines_detected = ? WHERE id = ?`,
		end, spinesDetected, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// LogDetection records a detected spine and returns its ID.
func (s *Store) LogDetection(runID string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO detections (run_id) VALUES (?)`, runID)
	if err != nil {
		return 0, fmt.Errorf("log detection: %w", err)
	}
	return res.LastInsertId()
}

// LogVariant records one processed orientation of a spine and returns
// its ID.
func (s *Store) LogVariant(detectionID int64, imagePath, bestTitle string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO detection_variants (detection_id, image_path, best_title) VALUES (?, ?, ?)`,
		detectionID, imagePath, bestTitle)
	if err != nil {
		return 0, fmt.Errorf("log variant: %w", err)
	}
	return res.LastInsertId()
}

// LogLookup records a successful catalog lookup for a variant. Details
// are stored as JSON.
func (s *Store) LogLookup(variantID int64, source string, details any) (int64, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return 0, fmt.Errorf("encode lookup details: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO lookups (variant_id, source, details) VALUES (?, ?, ?)`,
		variantID, source, string(payload))
	if err != nil {
		return 0, fmt.Errorf("log lookup: %w", err)
	}
	return res.LastInsertId()
}

// RunSummary describes one recorded run.
type RunSummary struct {
	ID             string     `json:"id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	SpinesDetected int        `json:"spines_detected"`
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, start_time, end_time, spines_detected FROM runs ORDER BY start_time DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var end sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartTime, &end, &r.SpinesDetected); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if end.Valid {
			r.EndTime = &end.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
