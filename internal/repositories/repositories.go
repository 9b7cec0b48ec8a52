// package repositories provides persistence layer implementations for all model types.
//
// Every collection is one JSON document in the kv table, so each repository
// loads and saves its whole sequence at once.
package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Keys of the local store. Names are shared with the browser build of the app so exported data stays portable.
const (
	KeyShifts        = "prima_shifts"
	KeyActiveShiftID = "prima_active_shift_id"
	KeyTasks         = "prima_tasks"
	KeySchedules     = "prima_schedules"
	KeyGuides        = "prima_guides"
	KeyCredentials   = "prima_credentials"
	KeyUserRole      = "prima_user_role"
)

// Store is a key to JSON document store backed by the kv table.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// NewStore creates a Store over an already migrated database.
func NewStore(db *sql.DB, logger *log.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Get returns the raw value stored under key. The boolean is false when the key is absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key string, value []byte) error {
	return s.Update(func(tx *Tx) error { return tx.Put(key, value) })
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.Update(func(tx *Tx) error { return tx.Delete(key) })
}

// Keys lists the stored keys in lexical order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return keys, nil
}

// Update runs fn inside a single transaction; every write it makes is committed together or not at all.
func (s *Store) Update(fn func(tx *Tx) error) error {
	sqlTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Tx is a write handle scoped to [Store.Update].
type Tx struct {
	tx *sql.Tx
}

// Get reads key inside the transaction. The boolean is false when the key is absent.
func (t *Tx) Get(key string) ([]byte, bool, error) {
	var value string
	err := t.tx.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put upserts key.
func (t *Tx) Put(key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := t.tx.Exec(query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and upserts it under key.
func (t *Tx) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return t.Put(key, data)
}

// Delete removes key.
func (t *Tx) Delete(key string) error {
	if _, err := t.tx.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and stores it under key.
func (s *Store) PutJSON(key string, v any) error {
	return s.Update(func(tx *Tx) error { return tx.PutJSON(key, v) })
}

// loadJSON decodes the value under key into a T.
//
// Absent keys yield fallback() silently. Undecodable values yield fallback() with a warning;
// only database failures are returned as errors.
func loadJSON[T any](s *Store, key string, fallback func() T) (T, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return fallback(), nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.warn("discarding unreadable value", "key", key, "error", err)
		return fallback(), nil
	}
	return out, nil
}

// loadText returns the value under key as a string. Values are normally JSON strings, but bare
// text (as written by localStorage) is accepted as-is.
func loadText(s *Store, key string) (string, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", err
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return strings.TrimSpace(string(raw)), nil
	}
	return text, nil
}

func (s *Store) warn(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, kv...)
	}
}
