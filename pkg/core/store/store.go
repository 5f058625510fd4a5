// ============================================================================
// Plankton - Property-Map Combinators
// ============================================================================
//
// Package:     store
// Description: SQLite persistence for named property maps
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/pkg/core/logging"
)

// Snapshot describes a stored property map
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Entries   int       `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for property map persistence
type Store interface {
	Save(ctx context.Context, name string, subject *objx.Object) (*Snapshot, error)
	Load(ctx context.Context, name string) (*objx.Object, error)
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// SQLiteStore implements Store using SQLite. Entry order is kept in an
// ordinal column.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *logging.Logger
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path   string
	Logger *logging.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/plankton.db",
	}
}

// NewSQLiteStore opens or creates the database at cfg.Path
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	const op = "store.NewSQLiteStore"

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, mdwerror.Wrap(err, "failed to create directory").
				WithCode(mdwerror.CodeDatabaseError).
				WithOperation(op).
				WithDetail("path", cfg.Path)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation(op).
			WithDetail("path", cfg.Path)
	}
	db.SetMaxOpenConns(1)

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("store")
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize schema").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation(op)
	}

	s.logger.Debug("store opened", "path", cfg.Path)
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		snapshot_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, ordinal)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_snapshot ON entries(snapshot_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save stores the own entries of subject under name, replacing a previous
// snapshot of the same name. Values are stored as JSON.
func (s *SQLiteStore) Save(ctx context.Context, name string, subject *objx.Object) (*Snapshot, error) {
	const op = "store.Save"

	if err := validateName(name); err != nil {
		return nil, err.WithOperation(op)
	}

	rows := make([][2]string, 0, objx.Count(subject))
	var encErr error
	objx.ForEachPair(subject, func(key string, value any) objx.Step {
		data, err := json.Marshal(value)
		if err != nil {
			encErr = mdwerror.Wrap(err, "failed to encode value").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation(op).
				WithDetail("key", key)
			return objx.Stop
		}
		rows = append(rows, [2]string{key, string(data)})
		return objx.Continue
	})
	if encErr != nil {
		return nil, encErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer := s.logger.StartTimer(op).WithField("name", name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		timer.StopWithError(err)
		return nil, dbError(err, op, "failed to begin transaction")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	snap := &Snapshot{Name: name, Entries: len(rows), UpdatedAt: now}

	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM snapshots WHERE name = ?`, name,
	).Scan(&snap.ID, &snap.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		snap.ID = uuid.NewString()
		snap.CreatedAt = now
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			snap.ID, name, now, now,
		); err != nil {
			timer.StopWithError(err)
			return nil, dbError(err, op, "failed to insert snapshot")
		}
	case err != nil:
		timer.StopWithError(err)
		return nil, dbError(err, op, "failed to look up snapshot")
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE snapshots SET updated_at = ? WHERE id = ?`, now, snap.ID,
		); err != nil {
			timer.StopWithError(err)
			return nil, dbError(err, op, "failed to update snapshot")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE snapshot_id = ?`, snap.ID); err != nil {
			timer.StopWithError(err)
			return nil, dbError(err, op, "failed to clear entries")
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (snapshot_id, ordinal, key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		timer.StopWithError(err)
		return nil, dbError(err, op, "failed to prepare insert")
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, row[0], row[1]); err != nil {
			timer.StopWithError(err)
			return nil, dbError(err, op, "failed to insert entry").WithDetail("key", row[0])
		}
	}

	if err := tx.Commit(); err != nil {
		timer.StopWithError(err)
		return nil, dbError(err, op, "failed to commit")
	}

	timer.WithField("entries", len(rows)).Stop()
	return snap, nil
}

// Load returns the snapshot stored under name with its original key order
func (s *SQLiteStore) Load(ctx context.Context, name string) (*objx.Object, error) {
	const op = "store.Load"

	if err := validateName(name); err != nil {
		return nil, err.WithOperation(op)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(op, name)
	}
	if err != nil {
		return nil, dbError(err, op, "failed to look up snapshot")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM entries WHERE snapshot_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return nil, dbError(err, op, "failed to query entries")
	}
	defer rows.Close()

	result := objx.NewObject()
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, dbError(err, op, "failed to scan entry")
		}
		value, err := codec.DecodeJSONValue(strings.NewReader(raw))
		if err != nil {
			return nil, mdwerror.Wrap(err, "stored value is corrupt").
				WithCode(mdwerror.CodeDataCorruption).
				WithOperation(op).
				WithDetail("name", name).
				WithDetail("key", key)
		}
		result.Set(key, value)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op, "failed to read entries")
	}

	s.logger.Debug("snapshot loaded", "name", name, "entries", objx.Count(result))
	return result, nil
}

// List returns all snapshots ordered by name
func (s *SQLiteStore) List(ctx context.Context) ([]*Snapshot, error) {
	const op = "store.List"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, s.updated_at, COUNT(e.ordinal)
		FROM snapshots s
		LEFT JOIN entries e ON e.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.name`)
	if err != nil {
		return nil, dbError(err, op, "failed to list snapshots")
	}
	defer rows.Close()

	snapshots := []*Snapshot{}
	for rows.Next() {
		snap := &Snapshot{}
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.CreatedAt, &snap.UpdatedAt, &snap.Entries); err != nil {
			return nil, dbError(err, op, "failed to scan snapshot")
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op, "failed to read snapshots")
	}
	return snapshots, nil
}

// Delete removes the snapshot stored under name
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	const op = "store.Delete"

	if err := validateName(name); err != nil {
		return err.WithOperation(op)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, op, "failed to begin transaction")
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(op, name)
	}
	if err != nil {
		return dbError(err, op, "failed to look up snapshot")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE snapshot_id = ?`, id); err != nil {
		return dbError(err, op, "failed to delete entries")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return dbError(err, op, "failed to delete snapshot")
	}
	if err := tx.Commit(); err != nil {
		return dbError(err, op, "failed to commit")
	}

	s.logger.Info("snapshot deleted", "name", name)
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func validateName(name string) *mdwerror.Error {
	if strings.TrimSpace(name) == "" {
		return mdwerror.New("snapshot name cannot be empty").WithCode(mdwerror.CodeInvalidInput)
	}
	return nil
}

func notFound(op, name string) *mdwerror.Error {
	return mdwerror.Newf("snapshot %q not found", name).
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("name", name)
}

func dbError(err error, op, message string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}

var _ Store = (*SQLiteStore)(nil)

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
