// Package settings stores application configuration as key/value pairs.
package settings

import (
	"fmt"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Store reads and writes configuration values.
type Store struct {
	db db.Backend
}

// NewStore creates a settings store.
func NewStore(b db.Backend) *Store {
	return &Store{db: b}
}

// Get returns the value stored under key, or fallback when the key is unset.
func (s *Store) Get(key, fallback string) (string, error) {
	rows, err := s.db.Query("SELECT value FROM settings WHERE key = ?", key)
	if err != nil {
		return "", fmt.Errorf("reading setting %q: %w", key, err)
	}
	if len(rows) == 0 {
		return fallback, nil
	}
	v := rows[0].NullString("value")
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}

// Set creates or overwrites the value stored under key.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}

// All returns every stored setting.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.String("key")] = row.String("value")
	}
	return out, nil
}

// Delete removes key. Deleting an unset key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	return nil
}
