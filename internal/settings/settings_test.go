package settings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woo-admin/internal/store"
)

var sample = store.StoreSettings{
	StoreURL:  "https://shop.test",
	APIKey:    "ck_123",
	APISecret: "cs_456",
	DemoMode:  false,
}

func TestFileStoreLifecycle(t *testing.T) {
	dir := t.TempDir()
	s, err := New(context.Background(), Config{Type: FileStore, Dir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, sample))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	info, err := os.Stat(filepath.Join(dir, Key+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Clear(ctx), "clearing twice is fine")
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key+".json"), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Save(ctx, sample))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnsupportedType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "redis"})
	var unsupported *UnsupportedStoreTypeError
	assert.ErrorAs(t, err, &unsupported)
}

func newMockPostgres(t *testing.T) (*PostgresSettingsStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresLoad(t *testing.T) {
	s, mock := newMockPostgres(t)
	value, err := json.Marshal(sample)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM app_settings WHERE key = $1`)).
		WithArgs(Key).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(value))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadMissing(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM app_settings WHERE key = $1`)).
		WithArgs(Key).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM app_settings WHERE key = $1`)).
		WithArgs(Key).
		WillReturnError(&pq.Error{Code: undefinedTable, Message: `relation "app_settings" does not exist`})
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveUpserts(t *testing.T) {
	s, mock := newMockPostgres(t)
	value, err := json.Marshal(sample)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO app_settings \(key, value, updated_at\)\s+VALUES \(\$1, \$2, now\(\)\)\s+ON CONFLICT \(key\) DO UPDATE`).
		WithArgs(Key, value).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), sample))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClearAndMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS app_settings`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM app_settings WHERE key = $1`)).
		WithArgs(Key).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
