package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SettingsStore is a small key-value table for host preferences.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value of name, or ok=false when it was never set.
func (s *SettingsStore) Get(name string) (value string, ok bool, err error) {
	err = s.db.conn.QueryRow(s.db.rebind(`SELECT value FROM app_settings WHERE name = ?`), name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", name, err)
	}
	return value, true, nil
}

// Set stores value under name. Delete then insert keeps it portable across
// the three dialects.
func (s *SettingsStore) Set(name, value string) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(s.db.rebind(`DELETE FROM app_settings WHERE name = ?`), name); err != nil {
		return fmt.Errorf("set setting %s: %w", name, err)
	}
	if _, err := tx.Exec(s.db.rebind(`INSERT INTO app_settings (name, value) VALUES (?, ?)`), name, value); err != nil {
		return fmt.Errorf("set setting %s: %w", name, err)
	}
	return tx.Commit()
}
