package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Persisted keys. The names match the slots a browser build of the app
// used, so exported data stays interchangeable.
const (
	KeySavedConfigurations = "savedConfigurations"
	KeyActiveSession       = "activeSession"
	KeyCustomFoodHistory   = "customFoodHistory"
	KeyLastRespondentID    = "lastRespondentId"
)

var allKeys = []string{
	KeySavedConfigurations,
	KeyActiveSession,
	KeyCustomFoodHistory,
	KeyLastRespondentID,
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Entry is a raw key/value row.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

func getRaw(q execer, key string) (string, bool, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "read", Err: err}
	}
	return value, true, nil
}

func (s *Store) setRaw(q execer, key, value string) error {
	_, err := q.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &StorageError{Key: key, Op: "write", Err: err}
	}
	return nil
}

func deleteRaw(q execer, key string) error {
	if _, err := q.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// getJSON decodes the value under key into dst. found is false when the key
// is absent. A value that fails to decode is reported as a StorageError with
// Op "decode" so callers can degrade instead of failing.
func getJSON(q execer, key string, dst any) (bool, error) {
	raw, ok, err := getRaw(q, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, &StorageError{Key: key, Op: "decode", Err: err}
	}
	return true, nil
}

func (s *Store) putJSON(q execer, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Key: key, Op: "encode", Err: err}
	}
	return s.setRaw(q, key, string(data))
}

// update runs fn inside a transaction.
func (s *Store) update(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Entries lists every persisted key, for diagnostics.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT key, value, updated_at FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updatedAt string
		if err := rows.Scan(&e.Key, &e.Value, &updatedAt); err != nil {
			return nil, err
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearAll removes every persisted record. The default configuration is
// re-seeded on the next read.
func (s *Store) ClearAll() error {
	return s.update(func(tx *sql.Tx) error {
		for _, k := range allKeys {
			if err := deleteRaw(tx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
