package kv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Driver names a storage backend.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
	DriverMemory Driver = "memory"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverFile, DriverSQLite, DriverRedis, DriverMemory:
		return true
	default:
		return false
	}
}

// ParseDriver parses a driver name. Empty input means DriverFile.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DriverFile, nil
	}
	if !d.IsValid() {
		return DriverFile, fmt.Errorf("%w: %s", ErrUnknownDriver, s)
	}
	return d, nil
}

// Config selects and configures a backend.
type Config struct {
	Driver Driver

	// DataDir is the directory of the file driver.
	DataDir string

	// SQLitePath is the database file of the sqlite driver.
	SQLitePath string

	// RedisURL is the connection string of the redis driver.
	// Example: "redis://localhost:6379/0"
	RedisURL string

	// Namespace prefixes redis keys.
	Namespace string
}

// Open creates the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	var (
		store Store
		err   error
	)
	switch driver {
	case DriverFile:
		store, err = NewFileStore(cfg.DataDir)
	case DriverSQLite:
		store, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	case DriverRedis:
		store, err = OpenRedis(ctx, cfg.RedisURL, cfg.Namespace, logger)
	case DriverMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("storage opened", "driver", driver.String())
	return store, nil
}
