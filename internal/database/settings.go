package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Setting is one row of the settings table.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings are seeded by InitializeDefaults when a key is missing.
var DefaultSettings = map[string]string{
	"site.name":            "Deniz Hukuk Bürosu",
	"site.welcome_message": "Deniz Hukuk Bürosu API'sine hoş geldiniz.",
	"log.level":            "info",
	"log.max_size_mb":      "50",
	"log.max_backups":      "5",
	"log.max_age_days":     "30",
	"log.compress":         "true",
	"maintenance.schedule": "@daily", // empty disables the optimize job
}

// GetSetting retrieves a setting value by key; a missing key yields "".
func (s *Session) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.queryRow(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value
func (s *Session) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// ListSettings returns every setting ordered by key.
func (s *Session) ListSettings(ctx context.Context) ([]*Setting, error) {
	rows, err := s.query(ctx, "SELECT key, value, updated_at FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	var settings []*Setting
	for rows.Next() {
		setting := &Setting{}
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

// GetSetting reads one setting in its own unit of work. It satisfies
// config.SettingsGetter.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.ReadTransaction(ctx, func(ctx context.Context, s *Session) error {
		var err error
		value, err = s.GetSetting(ctx, key)
		return err
	})
	return value, err
}

// SetSetting writes one setting in its own unit of work.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	return db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		return s.SetSetting(ctx, key, value)
	})
}

// ListSettings reads every setting in its own unit of work.
func (db *DB) ListSettings(ctx context.Context) ([]*Setting, error) {
	var settings []*Setting
	err := db.ReadTransaction(ctx, func(ctx context.Context, s *Session) error {
		var err error
		settings, err = s.ListSettings(ctx)
		return err
	})
	return settings, err
}

// InitializeDefaults sets default values for settings that don't exist
func (db *DB) InitializeDefaults(ctx context.Context) error {
	now := time.Now().UTC()
	return db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		for key, value := range DefaultSettings {
			if _, err := s.exec(ctx, `
				INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO NOTHING
			`, key, value, now); err != nil {
				return fmt.Errorf("failed to seed setting %s: %w", key, err)
			}
		}
		return nil
	})
}
