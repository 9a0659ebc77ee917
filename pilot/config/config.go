// Package config builds the orchestrator configuration once at startup.
// Everything comes from GBPILOT_* environment variables, with CLI flags
// overriding on top; components never read the environment themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is threaded through every component at construction time.
type Config struct {
	// Emulator
	ROMPath     string
	EmulatorCmd string

	// Remote decision endpoint
	Endpoint   string
	APIKey     string
	Model      string
	MaxRetries int
	RetryDelay time.Duration

	// Loop
	MaxSteps    int // 0 means unbounded
	HistorySize int
	ImageScale  int

	// Output
	LogDir           string
	Headless         bool
	SnapshotInterval int // save a PNG every N iterations in headless mode, 0 disables
	SnapshotDir      string
}

// FromEnv reads the environment and fills in defaults.
func FromEnv() Config {
	return Config{
		ROMPath:          os.Getenv("GBPILOT_ROM"),
		EmulatorCmd:      envOr("GBPILOT_EMULATOR_CMD", "gbworker"),
		Endpoint:         os.Getenv("GBPILOT_ENDPOINT"),
		APIKey:           os.Getenv("GBPILOT_API_KEY"),
		Model:            envOr("GBPILOT_MODEL", "gpt-4o"),
		MaxRetries:       envInt("GBPILOT_MAX_RETRIES", 3),
		RetryDelay:       envDuration("GBPILOT_RETRY_DELAY", 2*time.Second),
		MaxSteps:         envInt("GBPILOT_MAX_STEPS", 0),
		HistorySize:      envInt("GBPILOT_HISTORY_SIZE", 10),
		ImageScale:       envInt("GBPILOT_IMAGE_SCALE", 2),
		LogDir:           envOr("GBPILOT_LOG_DIR", "logs"),
		SnapshotInterval: envInt("GBPILOT_SNAPSHOT_INTERVAL", 0),
		SnapshotDir:      os.Getenv("GBPILOT_SNAPSHOT_DIR"),
	}
}

// Validate checks that everything needed to start the loop is present.
func (c Config) Validate() error {
	if c.ROMPath == "" {
		return fmt.Errorf("ROM path is not set (GBPILOT_ROM or --rom)")
	}
	if _, err := os.Stat(c.ROMPath); err != nil {
		return fmt.Errorf("ROM file not found: %s", c.ROMPath)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("decision endpoint is not set (GBPILOT_ENDPOINT)")
	}
	if c.APIKey == "" {
		return fmt.Errorf("API key is not set (GBPILOT_API_KEY)")
	}
	return nil
}

// HistoryPath is where the decision history persists between sessions.
func (c Config) HistoryPath() string {
	return filepath.Join(c.LogDir, "history.json")
}

// LogPath is the plain-text iteration log.
func (c Config) LogPath() string {
	return filepath.Join(c.LogDir, "gbpilot.log")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
