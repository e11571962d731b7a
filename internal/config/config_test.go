package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woo-admin/internal/settings"
	"woo-admin/internal/woo"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"WOO_ADMIN_ADDR", "LOG_LEVEL", "WOO_AUTH_SCHEME", "SETTINGS_STORE_TYPE",
		"SETTINGS_DIR", "DB_CONN_STRING", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"GEMINI_MODEL", "WOO_PAGE_SIZE", "WOO_HTTP_TIMEOUT", "WOO_DEMO_LATENCY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	opts, err := cfg.ConnectorOptions()
	require.NoError(t, err)
	assert.Equal(t, woo.AuthQuery, opts.Auth)
	assert.Equal(t, settings.FileStore, cfg.SettingsStore().Type)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "woo-admin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9000"
log_level: debug
store:
  auth_scheme: header
  timeout: 5s
settings:
  type: postgres
  dsn: postgres://file/db
`), 0o644))

	t.Setenv("DB_CONN_STRING", "postgres://env/db")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("WOO_DEMO_LATENCY", "0s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, "header", cfg.Store.AuthScheme)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, woo.DefaultPageSize, cfg.Store.PageSize, "unset keys keep defaults")
	assert.Equal(t, "postgres://env/db", cfg.Settings.DSN, "environment wins over file")
	assert.Equal(t, settings.PostgresStore, cfg.SettingsStore().Type)
	assert.Equal(t, "g-key", cfg.Agent().APIKey)
	assert.Zero(t, cfg.Store.DemoLatency, "explicit zero overrides the default")

	opts, err := cfg.ConnectorOptions()
	require.NoError(t, err)
	assert.Equal(t, woo.AuthHeader, opts.Auth)
}

func TestGeminiKeyPreferred(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("GOOGLE_API_KEY", "goo")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gem", cfg.AI.APIKey)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("WOO_AUTH_SCHEME", "oauth1")
	_, err := Load("")
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("WOO_PAGE_SIZE", "twenty")
	_, err = Load("")
	assert.Error(t, err)

	clearEnv(t)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
