package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"woo-admin/internal/agent"
	"woo-admin/internal/settings"
	"woo-admin/internal/woo"
)

// Config is the deployment configuration. Store credentials are not part of
// it; they live in the settings store and are edited by the operator.
type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	LogLevel   string         `yaml:"log_level"`
	Store      StoreConfig    `yaml:"store"`
	Settings   SettingsConfig `yaml:"settings"`
	AI         AIConfig       `yaml:"ai"`
}

type StoreConfig struct {
	AuthScheme  string        `yaml:"auth_scheme"`
	PageSize    int           `yaml:"page_size"`
	Timeout     time.Duration `yaml:"timeout"`
	DemoLatency time.Duration `yaml:"demo_latency"`
}

type SettingsConfig struct {
	Type string `yaml:"type"`
	Dir  string `yaml:"dir"`
	DSN  string `yaml:"dsn"`
}

type AIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		ListenAddr: ":8181",
		LogLevel:   "info",
		Store: StoreConfig{
			AuthScheme:  string(woo.AuthQuery),
			PageSize:    woo.DefaultPageSize,
			Timeout:     30 * time.Second,
			DemoLatency: 400 * time.Millisecond,
		},
		Settings: SettingsConfig{Type: string(settings.FileStore)},
		AI:       AIConfig{Model: agent.DefaultModel},
	}
}

// LoadDotEnv loads .env from the working directory when present.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Path returns the config file named by WOO_ADMIN_CONFIG, if any.
func Path() string {
	return os.Getenv("WOO_ADMIN_CONFIG")
}

// Load layers defaults, the YAML file at path (optional) and the environment,
// later layers winning.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return cfg, fmt.Errorf("merging config %s: %w", path, err)
		}
	}

	envCfg, err := fromEnv()
	if err != nil {
		return cfg, err
	}
	if err := mergo.Merge(&cfg, envCfg, mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("merging environment: %w", err)
	}
	// mergo skips zero values; an explicit zero latency disables the delay.
	if os.Getenv("WOO_DEMO_LATENCY") != "" && envCfg.Store.DemoLatency == 0 {
		cfg.Store.DemoLatency = 0
	}

	if _, err := woo.ParseAuthScheme(cfg.Store.AuthScheme); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// fromEnv reads the environment; unset variables stay zero so they do not
// override earlier layers.
func fromEnv() (Config, error) {
	var cfg Config
	cfg.ListenAddr = os.Getenv("WOO_ADMIN_ADDR")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.Store.AuthScheme = os.Getenv("WOO_AUTH_SCHEME")
	cfg.Settings.Type = strings.ToLower(os.Getenv("SETTINGS_STORE_TYPE"))
	cfg.Settings.Dir = os.Getenv("SETTINGS_DIR")
	cfg.Settings.DSN = os.Getenv("DB_CONN_STRING")
	cfg.AI.APIKey = getAPIKey()
	cfg.AI.Model = os.Getenv("GEMINI_MODEL")

	if v := os.Getenv("WOO_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("WOO_PAGE_SIZE: %w", err)
		}
		cfg.Store.PageSize = n
	}
	var err error
	if cfg.Store.Timeout, err = durationEnv("WOO_HTTP_TIMEOUT"); err != nil {
		return cfg, err
	}
	if cfg.Store.DemoLatency, err = durationEnv("WOO_DEMO_LATENCY"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func durationEnv(name string) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// getAPIKey looks for GEMINI_API_KEY first, then falls back to GOOGLE_API_KEY
func getAPIKey() string {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		return apiKey
	}
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		log.Info("Using GOOGLE_API_KEY for Gemini API (consider setting GEMINI_API_KEY)")
		return apiKey
	}
	return ""
}

// ConnectorOptions translates the store section for the connector.
func (c Config) ConnectorOptions() (woo.Options, error) {
	scheme, err := woo.ParseAuthScheme(c.Store.AuthScheme)
	if err != nil {
		return woo.Options{}, err
	}
	return woo.Options{
		Auth:    scheme,
		Timeout: c.Store.Timeout,
		Latency: c.Store.DemoLatency,
	}, nil
}

// SettingsStore translates the settings section for settings.New.
func (c Config) SettingsStore() settings.Config {
	return settings.Config{
		Type:             settings.Type(c.Settings.Type),
		Dir:              c.Settings.Dir,
		ConnectionString: c.Settings.DSN,
	}
}

// Agent translates the ai section for agent.New.
func (c Config) Agent() agent.Config {
	return agent.Config{APIKey: c.AI.APIKey, Model: c.AI.Model}
}

// Level parses LogLevel, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
