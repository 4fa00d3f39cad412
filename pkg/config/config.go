// Package config loads tasker settings from defaults, an optional TOML file,
// a .env file and TASKER_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `toml:"app_env"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Storage
	StorageDriver string `toml:"storage_driver"`
	DataDir       string `toml:"data_dir"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisURL      string `toml:"redis_url"`
	StorageKey    string `toml:"storage_key"`

	// Due dates
	DueSoonWindow time.Duration `toml:"due_soon_window"`
	WatchInterval time.Duration `toml:"watch_interval"`

	// Web widget
	WebAddr string `toml:"web_addr"`

	// File is the config file that was read, empty when none was found.
	File string `toml:"-"`
}

var storageDrivers = []string{"file", "sqlite", "redis", "memory"}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AppEnv:        "local",
		LogLevel:      "warn",
		LogFormat:     "text",
		StorageDriver: "file",
		DataDir:       defaultDataDir(),
		RedisURL:      "redis://localhost:6379/0",
		StorageKey:    "tasks",
		DueSoonWindow: 24 * time.Hour,
		WatchInterval: time.Minute,
		WebAddr:       "127.0.0.1:8765",
	}
}

// Load builds the configuration.
func Load() (*Config, error) {
	cfg := Default()

	path, explicit := Path()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || explicit {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else {
			cfg.File = path
		}
	}

	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg.AppEnv = getEnv("TASKER_APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("TASKER_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("TASKER_LOG_FORMAT", cfg.LogFormat)
	cfg.StorageDriver = strings.ToLower(getEnv("TASKER_STORAGE_DRIVER", cfg.StorageDriver))
	cfg.DataDir = getEnv("TASKER_DATA_DIR", cfg.DataDir)
	cfg.SQLitePath = getEnv("TASKER_SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisURL = getEnv("TASKER_REDIS_URL", cfg.RedisURL)
	cfg.StorageKey = getEnv("TASKER_STORAGE_KEY", cfg.StorageKey)
	cfg.DueSoonWindow = getDurationEnv("TASKER_DUE_SOON_WINDOW", cfg.DueSoonWindow)
	cfg.WatchInterval = getDurationEnv("TASKER_WATCH_INTERVAL", cfg.WatchInterval)
	cfg.WebAddr = getEnv("TASKER_WEB_ADDR", cfg.WebAddr)

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "tasker.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location and whether it was set explicitly
// through TASKER_CONFIG.
func Path() (string, bool) {
	if p := os.Getenv("TASKER_CONFIG"); p != "" {
		return p, true
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tasker", "config.toml"), false
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "tasker", "config.toml"), false
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	valid := false
	for _, d := range storageDrivers {
		if c.StorageDriver == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid storage_driver %q: want one of %s", c.StorageDriver, strings.Join(storageDrivers, ", "))
	}
	if c.StorageKey == "" {
		return errors.New("storage_key cannot be empty")
	}
	if c.DueSoonWindow <= 0 {
		return fmt.Errorf("due_soon_window must be positive, got %s", c.DueSoonWindow)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval must be positive, got %s", c.WatchInterval)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// EffectiveLogLevel is LogLevel, raised to debug in development.
func (c *Config) EffectiveLogLevel() string {
	if c.IsDevelopment() {
		return "debug"
	}
	return c.LogLevel
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tasker")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasker"
	}
	return filepath.Join(home, ".local", "share", "tasker")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Bare numbers are seconds.
		if s, err := strconv.Atoi(value); err == nil {
			return time.Duration(s) * time.Second
		}
	}
	return defaultValue
}
