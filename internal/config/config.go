package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the client
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	Polling PollingConfig `yaml:"polling"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Log     LogConfig     `yaml:"log"`
}

// BackendConfig points the client at the REST backend
type BackendConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst int           `yaml:"rate_burst"`
}

// StorageConfig selects the credential store
type StorageConfig struct {
	Driver string `yaml:"driver"` // file or memory
	Path   string `yaml:"path"`
}

// PollingConfig holds background refresh intervals
type PollingConfig struct {
	UnreadInterval time.Duration `yaml:"unread_interval"`
	ChatInterval   time.Duration `yaml:"chat_interval"`
}

// SandboxConfig configures the local fake backend
type SandboxConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:       "http://localhost:8001",
			Timeout:   15 * time.Second,
			RateBurst: 1,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   defaultStoragePath(),
		},
		Polling: PollingConfig{
			UnreadInterval: 30 * time.Second,
			ChatInterval:   3 * time.Second,
		},
		Sandbox: SandboxConfig{
			Host:      "127.0.0.1",
			Port:      8001,
			JWTSecret: "sandbox-secret",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file on top of the defaults, then
// applies .env and environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("BACKEND_URL"); ok && v != "" {
		c.Backend.URL = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("STORAGE_DRIVER"); ok && v != "" {
		c.Storage.Driver = v
	}
	if v, ok := os.LookupEnv("STORAGE_PATH"); ok && v != "" {
		c.Storage.Path = v
	}
}

// Validate checks the values the client cannot run without
func (c *Config) Validate() error {
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url must be set")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend.url must be an http(s) URL, got %q", c.Backend.URL)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("backend.rate_limit must not be negative")
	}
	if c.Polling.UnreadInterval <= 0 || c.Polling.ChatInterval <= 0 {
		return fmt.Errorf("polling intervals must be positive")
	}
	return nil
}

// APIURL returns the base URL all endpoints hang off
func (c *BackendConfig) APIURL() string {
	return c.URL + "/api"
}

// Addr returns the sandbox listen address
func (c *SandboxConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".mealcircle"
	}
	return filepath.Join(dir, "mealcircle")
}
