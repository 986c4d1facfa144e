// Package config loads hsncheck settings from defaults, an optional YAML
// file and HSNCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/hsncheck/internal/importer"
	"github.com/dshills/hsncheck/internal/storage"
)

// Environment variables consulted by applyEnvOverrides
const (
	EnvConfig     = "HSNCHECK_CONFIG"
	EnvBackend    = "HSNCHECK_BACKEND"
	EnvStorePath  = "HSNCHECK_STORE_PATH"
	EnvRawCSV     = "HSNCHECK_RAW_CSV"
	EnvCleanedCSV = "HSNCHECK_CLEANED_CSV"
	EnvWorkers    = "HSNCHECK_WORKERS"
	EnvLogLevel   = "HSNCHECK_LOG_LEVEL"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all hsncheck settings
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Data    DataConfig    `yaml:"data"`
	Workers int           `yaml:"workers"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects the code store backend
type StoreConfig struct {
	Backend string `yaml:"backend"` // sqlite, csv, json, badger
	Path    string `yaml:"path"`    // Empty selects the backend default
}

// DataConfig locates the CSV sources used by setup
type DataConfig struct {
	RawCSV     string `yaml:"raw_csv"`
	CleanedCSV string `yaml:"cleaned_csv"`
	BatchSize  int    `yaml:"batch_size"`
}

// LoggingConfig configures the slog handler
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: string(storage.BackendSQLite),
		},
		Data: DataConfig{
			RawCSV:     importer.DefaultRawPath,
			CleanedCSV: importer.DefaultCleanedPath,
			BatchSize:  importer.DefaultBatchSize,
		},
		Workers: runtime.NumCPU(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path falls back to HSNCHECK_CONFIG; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// Defaults apply
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if backend := os.Getenv(EnvBackend); backend != "" {
		c.Store.Backend = backend
	}
	if path := os.Getenv(EnvStorePath); path != "" {
		c.Store.Path = path
	}
	if path := os.Getenv(EnvRawCSV); path != "" {
		c.Data.RawCSV = path
	}
	if path := os.Getenv(EnvCleanedCSV); path != "" {
		c.Data.CleanedCSV = path
	}
	if workers := os.Getenv(EnvWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvWorkers, workers)
		}
		c.Workers = n
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// Backend returns the parsed store backend
func (c *Config) Backend() (storage.Backend, error) {
	return storage.ParseBackend(c.Store.Backend)
}

// StorePath returns the configured path or the backend default. The csv
// backend reads the cleaned CSV by default.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	backend, err := c.Backend()
	if err != nil {
		return ""
	}
	if backend == storage.BackendCSV && c.Data.CleanedCSV != "" {
		return c.Data.CleanedCSV
	}
	return storage.DefaultPath(backend)
}

// ImportConfig builds the importer settings
func (c *Config) ImportConfig() *importer.Config {
	return &importer.Config{
		RawPath:     c.Data.RawCSV,
		CleanedPath: c.Data.CleanedCSV,
		BatchSize:   c.Data.BatchSize,
	}
}

// LogLevel parses Logging.Level
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, err := c.Backend(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Data.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative, got %d", ErrInvalidConfig, c.Data.BatchSize)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}
