// Package settings persists the store connection record under one
// well-known key.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"woo-admin/internal/store"
)

// Key names the persisted record in every backend.
const Key = "woo_admin.settings"

// ErrNotFound is returned by Load when nothing has been persisted yet.
var ErrNotFound = errors.New("no store settings persisted")

// Store defines the persistence operations for StoreSettings.
type Store interface {
	Load(ctx context.Context) (store.StoreSettings, error)
	Save(ctx context.Context, s store.StoreSettings) error
	Clear(ctx context.Context) error
	Close() error
}

// Type represents the kind of settings store to use
type Type string

const (
	// FileStore keeps the record as a JSON file.
	FileStore Type = "file"
	// PostgresStore keeps the record in a key/value table.
	PostgresStore Type = "postgres"
	// MemoryStore keeps the record for the life of the process.
	MemoryStore Type = "memory"
)

// Config holds configuration for settings store creation
type Config struct {
	Type             Type
	Dir              string
	ConnectionString string
}

// New creates a settings store based on configuration
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case FileStore, "":
		return NewFileStore(cfg.Dir)
	case PostgresStore:
		pg, err := OpenPostgres(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case MemoryStore:
		return NewMemoryStore(), nil
	default:
		return nil, &UnsupportedStoreTypeError{Type: string(cfg.Type)}
	}
}

// UnsupportedStoreTypeError is returned for unknown store types.
type UnsupportedStoreTypeError struct {
	Type string
}

func (e *UnsupportedStoreTypeError) Error() string {
	return fmt.Sprintf("unsupported settings store type: %s", e.Type)
}

type memoryStore struct {
	mu  sync.Mutex
	rec *store.StoreSettings
}

// NewMemoryStore returns a process-local Store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Load(context.Context) (store.StoreSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return store.StoreSettings{}, ErrNotFound
	}
	return *m.rec, nil
}

func (m *memoryStore) Save(_ context.Context, s store.StoreSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &s
	return nil
}

func (m *memoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

func (m *memoryStore) Close() error { return nil }
