// Package config reads service settings from the environment.
//
// Every setting has a default, so an empty environment gives a working local
// server on :3000 backed by data/postboard.db. Malformed values are errors,
// not silent fallbacks: a typo in PORT should stop startup, not move the
// server to the default port.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverSQLite     = "sqlite"      // database/sql + modernc.org/sqlite
	DriverPostgres   = "postgres"    // gorm + PostgreSQL
	DriverGormSQLite = "gorm-sqlite" // gorm + SQLite
)

// Config holds everything the server needs to start.
type Config struct {
	Port            int
	Driver          string
	DBPath          string
	DatabaseURL     string
	RateLimitRPS    float64
	RateLimitBurst  int
	SeedDemoData    bool
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:            3000,
		Driver:          DriverSQLite,
		DBPath:          "data/postboard.db",
		RateLimitBurst:  20,
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load starts from Default and applies the environment on top of it.
// It does not call Validate; flags may still override the result.
func Load() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.Port = envInt("PORT", cfg.Port, &errs)
	cfg.Driver = envString("STORE_DRIVER", cfg.Driver)
	cfg.DBPath = envString("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.RateLimitRPS = envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS, &errs)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", cfg.RateLimitBurst, &errs)
	cfg.SeedDemoData = envBool("SEED_DEMO_DATA", cfg.SeedDemoData, &errs)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.ShutdownTimeout = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, &errs)

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}

	switch c.Driver {
	case DriverSQLite, DriverGormSQLite:
		if c.DBPath == "" {
			errs = append(errs, fmt.Errorf("driver %q needs DB_PATH", c.Driver))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("driver \"postgres\" needs DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (want %s, %s or %s)",
			c.Driver, DriverSQLite, DriverPostgres, DriverGormSQLite))
	}

	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("rate limit %v must not be negative", c.RateLimitRPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("rate limit burst %d must be at least 1", c.RateLimitBurst))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout %v must be positive", c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

// ParseLevel maps debug|info|warn|error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// UsesMemory reports whether the SQLite database lives only in memory.
func (c Config) UsesMemory() bool {
	return c.Driver != DriverPostgres && c.DBPath == ":memory:"
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s=%q is not an integer", key, v))
		return def
	}
	return n
}

func envFloat(key string, def float64, errs *[]error) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s=%q is not a number", key, v))
		return def
	}
	return f
}

func envBool(key string, def bool, errs *[]error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s=%q is not a boolean", key, v))
		return def
	}
	return b
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s=%q is not a duration", key, v))
		return def
	}
	return d
}
