package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"woo-admin/internal/store"
)

type fileStore struct {
	path string
}

// NewFileStore keeps the record in dir/<Key>.json, creating dir on demand.
func NewFileStore(dir string) (Store, error) {
	if dir == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		dir = filepath.Join(cfgDir, "woo-admin")
	}
	return &fileStore{path: filepath.Join(dir, Key+".json")}, nil
}

func (f *fileStore) Load(context.Context) (store.StoreSettings, error) {
	var s store.StoreSettings
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, ErrNotFound
	}
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings %s: %w", f.path, err)
	}
	return s, nil
}

func (f *fileStore) Save(_ context.Context, s store.StoreSettings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	// Write then rename so a crash never leaves a truncated record.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

func (f *fileStore) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing settings: %w", err)
	}
	return nil
}

func (f *fileStore) Close() error { return nil }
