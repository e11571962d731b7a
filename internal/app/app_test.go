package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woo-admin/internal/config"
	"woo-admin/internal/settings"
	"woo-admin/internal/store"
)

func TestNewWiresDemoController(t *testing.T) {
	cfg := config.Defaults()
	cfg.Settings.Type = string(settings.MemoryStore)
	cfg.Store.DemoLatency = 0

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Assistant.Available())
	require.NoError(t, a.Settings.Save(context.Background(), store.StoreSettings{DemoMode: true}))
	require.NoError(t, a.Controller.Start(context.Background()))
	assert.Len(t, a.Controller.Snapshot().Products, 3)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Settings.Type = "redis"
	_, err := New(context.Background(), cfg)
	var unsupported *settings.UnsupportedStoreTypeError
	assert.ErrorAs(t, err, &unsupported)

	cfg = config.Defaults()
	cfg.Store.AuthScheme = "oauth1"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
