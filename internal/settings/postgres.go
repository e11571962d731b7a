package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"woo-admin/internal/store"
)

const undefinedTable = "42P01"

// PostgresSettingsStore keeps the record in the app_settings key/value table.
type PostgresSettingsStore struct {
	db *sqlx.DB
}

// OpenPostgres connects, pings and makes sure the table exists.
func OpenPostgres(ctx context.Context, connectionString string) (*PostgresSettingsStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := NewPostgresStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing connection.
func NewPostgresStore(db *sqlx.DB) *PostgresSettingsStore {
	return &PostgresSettingsStore{db: db}
}

// Migrate creates the settings table when missing.
func (s *PostgresSettingsStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS app_settings (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create app_settings table: %w", err)
	}
	return nil
}

func (s *PostgresSettingsStore) Load(ctx context.Context) (store.StoreSettings, error) {
	var out store.StoreSettings
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM app_settings WHERE key = $1`, Key)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to parse settings: %w", err)
	}
	return out, nil
}

func (s *PostgresSettingsStore) Save(ctx context.Context, rec store.StoreSettings) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		Key, value)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *PostgresSettingsStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_settings WHERE key = $1`, Key); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}

func (s *PostgresSettingsStore) Close() error {
	return s.db.Close()
}
