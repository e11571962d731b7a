// Package app assembles the controller and its collaborators from config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"woo-admin/internal/agent"
	"woo-admin/internal/config"
	"woo-admin/internal/dashboard"
	"woo-admin/internal/settings"
	"woo-admin/internal/woo"
)

// App owns the long-lived resources shared by the web server and the CLI.
type App struct {
	Config     config.Config
	Settings   settings.Store
	Assistant  *agent.Assistant
	Controller *dashboard.Controller
}

// New builds an App. Nothing talks to the store until the controller starts.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log.SetLevel(cfg.Level())

	connOpts, err := cfg.ConnectorOptions()
	if err != nil {
		return nil, err
	}

	ss, err := settings.New(ctx, cfg.SettingsStore())
	if err != nil {
		return nil, fmt.Errorf("opening settings store: %w", err)
	}

	assistant, err := agent.New(ctx, cfg.Agent())
	if err != nil {
		_ = ss.Close()
		return nil, fmt.Errorf("initializing AI assistant: %w", err)
	}

	ctrl := dashboard.New(ss, woo.Factory(connOpts), assistant, dashboard.Options{
		PageSize: cfg.Store.PageSize,
	})

	return &App{
		Config:     cfg,
		Settings:   ss,
		Assistant:  assistant,
		Controller: ctrl,
	}, nil
}

// Load reads .env and the layered config, then builds the App.
func Load(ctx context.Context, path string) (*App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// Close releases the settings store and the model client.
func (a *App) Close() error {
	return errors.Join(a.Assistant.Close(), a.Settings.Close())
}
