// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of pipeline runs: what was
// published, from which PDF, and how the URL rewrite went.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// Image is one published image of a run.
type Image struct {
	Index      int    `json:"index" yaml:"index"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Page       int    `json:"page" yaml:"page"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
}

// Outcome is the rewrite result for one target file.
type Outcome struct {
	Path   string `json:"path" yaml:"path"`
	Status string `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Run is one pipeline execution.
type Run struct {
	ID          int64          `json:"id" yaml:"id"`
	Source      string         `json:"source" yaml:"source"`
	StartedAt   time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time      `json:"finished_at" yaml:"finished_at"`
	State       types.RunState `json:"state" yaml:"state"`
	Placeholder string         `json:"placeholder" yaml:"placeholder"`
	TargetURL   string         `json:"target_url,omitempty" yaml:"target_url,omitempty"`
	Tiles       int            `json:"tiles" yaml:"tiles"`
	Images      []Image        `json:"images,omitempty" yaml:"images,omitempty"`
	Outcomes    []Outcome      `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// RunSummary is a Run without its child rows, as listed by List.
type RunSummary struct {
	ID         int64          `json:"id" yaml:"id"`
	Source     string         `json:"source" yaml:"source"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	State      types.RunState `json:"state" yaml:"state"`
	TargetURL  string         `json:"target_url,omitempty" yaml:"target_url,omitempty"`
	Images     int            `json:"images" yaml:"images"`
	Updated    int            `json:"updated" yaml:"updated"`
	Problems   int            `json:"problems" yaml:"problems"`
}

// Store is the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			state TEXT NOT NULL,
			placeholder TEXT NOT NULL,
			target_url TEXT,
			tiles INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			identifier TEXT NOT NULL,
			page INTEGER,
			width INTEGER,
			height INTEGER,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts run with its images and outcomes in one transaction and
// returns the new run ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, started_at, finished_at, state, placeholder, target_url, tiles)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Source, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		string(run.State), run.Placeholder, run.TargetURL, run.Tiles)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	imgStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO images (run_id, idx, identifier, page, width, height) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing image insert: %w", err)
	}
	defer imgStmt.Close()
	for _, img := range run.Images {
		if _, err := imgStmt.ExecContext(ctx, id, img.Index, img.Identifier, img.Page, img.Width, img.Height); err != nil {
			return 0, fmt.Errorf("inserting image %d: %w", img.Index, err)
		}
	}

	outStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, seq, path, status, reason) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer outStmt.Close()
	for i, o := range run.Outcomes {
		if _, err := outStmt.ExecContext(ctx, id, i, o.Path, o.Status, o.Reason); err != nil {
			return 0, fmt.Errorf("inserting outcome %s: %w", o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// List returns up to limit runs, newest first. A limit of 0 or less lists
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.finished_at, r.state, COALESCE(r.target_url, ''),
			(SELECT count(*) FROM images i WHERE i.run_id = r.id),
			(SELECT count(*) FROM outcomes o WHERE o.run_id = r.id AND o.status = 'updated'),
			(SELECT count(*) FROM outcomes o WHERE o.run_id = r.id AND o.status IN ('skipped', 'failed'))
		FROM runs r
		ORDER BY r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs       RunSummary
			finished string
			state    string
		)
		if err := rows.Scan(&rs.ID, &rs.Source, &finished, &state, &rs.TargetURL,
			&rs.Images, &rs.Updated, &rs.Problems); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rs.FinishedAt = parseTime(finished)
		rs.State = types.RunState(state)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Get returns the run with the given ID including its images and outcomes.
func (s *Store) Get(ctx context.Context, id int64) (Run, error) {
	var (
		run               Run
		started, finished string
		state             string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, started_at, finished_at, state, placeholder, COALESCE(target_url, ''), tiles
		 FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Source, &started, &finished, &state, &run.Placeholder, &run.TargetURL, &run.Tiles)
	if err != nil {
		return Run{}, fmt.Errorf("reading run %d: %w", id, err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.State = types.RunState(state)

	imgRows, err := s.db.QueryContext(ctx,
		`SELECT idx, identifier, page, width, height FROM images WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return Run{}, fmt.Errorf("querying images: %w", err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img Image
		if err := imgRows.Scan(&img.Index, &img.Identifier, &img.Page, &img.Width, &img.Height); err != nil {
			return Run{}, fmt.Errorf("scanning image: %w", err)
		}
		run.Images = append(run.Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return Run{}, err
	}

	outRows, err := s.db.QueryContext(ctx,
		`SELECT path, status, COALESCE(reason, '') FROM outcomes WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return Run{}, fmt.Errorf("querying outcomes: %w", err)
	}
	defer outRows.Close()
	for outRows.Next() {
		var o Outcome
		if err := outRows.Scan(&o.Path, &o.Status, &o.Reason); err != nil {
			return Run{}, fmt.Errorf("scanning outcome: %w", err)
		}
		run.Outcomes = append(run.Outcomes, o)
	}
	return run, outRows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
