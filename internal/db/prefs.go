package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"bigtrip/internal/model"
)

const (
	keyFilter   = "filter"
	keyPictures = "pictures"
)

// Prefs are the UI settings restored on start.
type Prefs struct {
	Filter   model.FilterType
	Pictures bool
}

// PrefsStore reads and writes Prefs.
type PrefsStore struct {
	db *sql.DB
}

func NewPrefsStore(db *sql.DB) *PrefsStore {
	return &PrefsStore{db: db}
}

// Load returns defaults overridden by every stored value that parses.
func (s *PrefsStore) Load(ctx context.Context, defaults Prefs) (Prefs, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return defaults, fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()

	prefs := defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return defaults, fmt.Errorf("failed to scan preference row: %w", err)
		}

		switch key {
		case keyFilter:
			if f := model.FilterType(value); f.Valid() {
				prefs.Filter = f
			}
		case keyPictures:
			if on, err := strconv.ParseBool(value); err == nil {
				prefs.Pictures = on
			}
		}
	}

	if err := rows.Err(); err != nil {
		return defaults, fmt.Errorf("error iterating preference rows: %w", err)
	}

	return prefs, nil
}

func (s *PrefsStore) SaveFilter(ctx context.Context, f model.FilterType) error {
	if !f.Valid() {
		return fmt.Errorf("invalid filter %q", f)
	}
	return s.set(ctx, keyFilter, string(f))
}

func (s *PrefsStore) SavePictures(ctx context.Context, on bool) error {
	return s.set(ctx, keyPictures, strconv.FormatBool(on))
}

func (s *PrefsStore) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}
