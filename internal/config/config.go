// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Backends selectable with DRIVEPATHFS_BACKEND.
const (
	BackendDrive  = "drive"
	BackendMemory = "memory"
)

// Config holds the command configuration.
type Config struct {
	// Remote store
	Backend         string
	CredentialsFile string
	Corpora         string
	PageSize        int64
	MoveToTrash     bool

	// Downloads
	TempDir string

	// Logging
	LogLevel  string
	LogFormat string

	// Metrics (optional, empty disables the endpoint)
	MetricsAddr string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Backend:         envOr("DRIVEPATHFS_BACKEND", BackendDrive),
		CredentialsFile: envOr("DRIVEPATHFS_CREDENTIALS", ""),
		Corpora:         envOr("DRIVEPATHFS_CORPORA", ""),
		TempDir:         envOr("DRIVEPATHFS_TEMP_DIR", ""),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "console"),
		MetricsAddr:     envOr("METRICS_ADDR", ""),
	}

	var err error
	if cfg.PageSize, err = envInt64("DRIVEPATHFS_PAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.PageSize < 1 || cfg.PageSize > 1000 {
		return nil, fmt.Errorf("DRIVEPATHFS_PAGE_SIZE must be between 1 and 1000, got %d", cfg.PageSize)
	}
	if cfg.MoveToTrash, err = envBool("DRIVEPATHFS_TRASH", false); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendDrive, BackendMemory:
	default:
		return nil, fmt.Errorf("DRIVEPATHFS_BACKEND must be %q or %q, got %q", BackendDrive, BackendMemory, cfg.Backend)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}
