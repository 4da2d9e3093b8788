// Package config loads and validates runtime configuration for the
// maestro process. Process-level settings (Config) are resolved once at
// startup from the environment; the gesture tuning surface (Tuning) is
// loaded from a YAML file and may be swapped at runtime between frames.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Backend names accepted for the MAESTRO_ACTUATOR setting.
const (
	BackendSystem = "system"
	BackendNoop   = "noop"
)

// Config holds process-level settings. These require a restart to
// change, unlike Tuning which can be applied live.
type Config struct {
	HTTPAddr    string
	DBPath      string
	TuningPath  string
	CameraIndex int
	Actuator    string
	MaxHands    int
	Headless    bool
	Debug       bool
}

// FromEnv builds a Config from environment variables, falling back to
// defaults rooted in the user's home directory. It does not validate;
// call Validate before use.
func FromEnv() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, ".maestro")

	cfg := &Config{
		HTTPAddr:    getenv("MAESTRO_HTTP_ADDR", ":8080"),
		DBPath:      getenv("MAESTRO_DB_PATH", filepath.Join(dataDir, "maestro.db")),
		TuningPath:  getenv("MAESTRO_TUNING_PATH", filepath.Join(dataDir, "tuning.yaml")),
		Actuator:    getenv("MAESTRO_ACTUATOR", BackendSystem),
		CameraIndex: 0,
		MaxHands:    1,
	}

	if v := os.Getenv("MAESTRO_CAMERA_INDEX"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MAESTRO_CAMERA_INDEX: %w", err)
		}
		cfg.CameraIndex = idx
	}
	if v := os.Getenv("MAESTRO_MAX_HANDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MAESTRO_MAX_HANDS: %w", err)
		}
		cfg.MaxHands = n
	}
	cfg.Headless = boolenv("MAESTRO_HEADLESS")
	cfg.Debug = boolenv("MAESTRO_DEBUG")

	return cfg, nil
}

// Validate checks the process-level settings. It returns the first
// problem found; the process must not open any device before this
// passes.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http addr must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path must not be empty")
	}
	if c.CameraIndex < 0 {
		return fmt.Errorf("camera index must be >= 0, got %d", c.CameraIndex)
	}
	if c.MaxHands < 1 || c.MaxHands > 4 {
		return fmt.Errorf("max hands must be in [1,4], got %d", c.MaxHands)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolenv(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true" || v == "yes"
}
