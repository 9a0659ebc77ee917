package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"GBPILOT_ROM", "GBPILOT_EMULATOR_CMD", "GBPILOT_ENDPOINT", "GBPILOT_API_KEY",
		"GBPILOT_MODEL", "GBPILOT_MAX_RETRIES", "GBPILOT_RETRY_DELAY", "GBPILOT_MAX_STEPS",
		"GBPILOT_HISTORY_SIZE", "GBPILOT_IMAGE_SCALE", "GBPILOT_LOG_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "gbworker", cfg.EmulatorCmd)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 0, cfg.MaxSteps)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 2, cfg.ImageScale)
	assert.Equal(t, "logs", cfg.LogDir)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GBPILOT_MODEL", "pixtral")
	t.Setenv("GBPILOT_MAX_STEPS", "500")
	t.Setenv("GBPILOT_RETRY_DELAY", "250ms")
	t.Setenv("GBPILOT_IMAGE_SCALE", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "pixtral", cfg.Model)
	assert.Equal(t, 500, cfg.MaxSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 2, cfg.ImageScale, "unparseable values fall back to the default")
}

func TestValidate(t *testing.T) {
	romPath := filepath.Join(t.TempDir(), "game.gb")
	require.NoError(t, os.WriteFile(romPath, []byte{0x00}, 0644))

	valid := Config{ROMPath: romPath, Endpoint: "https://example.test/v1/chat/completions", APIKey: "k"}
	assert.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing rom path", func(c *Config) { c.ROMPath = "" }},
		{"rom does not exist", func(c *Config) { c.ROMPath = filepath.Join(t.TempDir(), "nope.gb") }},
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }},
		{"missing api key", func(c *Config) { c.APIKey = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{LogDir: "out"}
	assert.Equal(t, filepath.Join("out", "history.json"), cfg.HistoryPath())
	assert.Equal(t, filepath.Join("out", "gbpilot.log"), cfg.LogPath())
}
