// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deep-research/internal/stream"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "session.db"
)

// Store journals stream updates for one research run in a SQLite
// database: an append-only log of every frame, plus a coalesced table
// holding the latest frame per step id.
type Store struct {
	db *sql.DB
}

// Open opens or creates the session database at
// sessionDir/index/session.db, creating the schema if needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.SessionDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS updates (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			step_id TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			overwrite INTEGER NOT NULL,
			payload TEXT NOT NULL,
			received_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_updates_step_id ON updates(step_id)`,
		`CREATE TABLE IF NOT EXISTS steps (
			step_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append validates a frame and journals it: the log always grows, and the
// coalesced steps table keeps the latest frame per step id.
func (s *Store) Append(ctx context.Context, u types.StreamUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshaling update: %w", err)
	}
	receivedAt := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	overwrite := 0
	if u.Data.Overwrite {
		overwrite = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO updates (step_id, type, status, overwrite, payload, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Data.ID, u.Data.Type, string(u.Data.Status), overwrite, string(payload), receivedAt,
	); err != nil {
		return fmt.Errorf("appending update: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO steps (step_id, type, status, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(step_id) DO UPDATE SET
			type=excluded.type, status=excluded.status,
			payload=excluded.payload, updated_at=excluded.updated_at`,
		u.Data.ID, u.Data.Type, string(u.Data.Status), string(payload), receivedAt,
	); err != nil {
		return fmt.Errorf("upserting step state: %w", err)
	}

	return tx.Commit()
}

// Replay returns every journaled frame in insertion order.
func (s *Store) Replay(ctx context.Context) ([]types.StreamUpdate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM updates ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying update log: %w", err)
	}
	defer rows.Close()

	var updates []types.StreamUpdate
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning update: %w", err)
		}
		u, err := types.Decode[types.StreamUpdate]([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decoding journaled update: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// Snapshot replays the log through a stream journal and returns the
// coalesced view: arrival order preserved, overwritten frames replaced.
func (s *Store) Snapshot(ctx context.Context) ([]types.StreamUpdateData, error) {
	updates, err := s.Replay(ctx)
	if err != nil {
		return nil, err
	}
	j := stream.NewJournal()
	for _, u := range updates {
		if err := j.Apply(u); err != nil {
			return nil, err
		}
	}
	return j.Snapshot(), nil
}

// StepState is the coalesced latest state of one step.
type StepState struct {
	StepID    string
	Type      string
	Status    types.UpdateStatus
	UpdatedAt time.Time
}

// Steps returns the latest state of every step, ordered by last update
// time.
func (s *Store) Steps(ctx context.Context) ([]StepState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step_id, type, status, updated_at FROM steps ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("querying step states: %w", err)
	}
	defer rows.Close()

	var states []StepState
	for rows.Next() {
		var st StepState
		var status, updatedAt string
		if err := rows.Scan(&st.StepID, &st.Type, &status, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning step state: %w", err)
		}
		st.Status = types.UpdateStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			st.UpdatedAt = t
		}
		states = append(states, st)
	}
	return states, rows.Err()
}
