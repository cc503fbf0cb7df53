package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Run.MaxInteger != 1_000_000_000 {
		t.Errorf("expected MaxInteger=1000000000, got %d", cfg.Run.MaxInteger)
	}
	if cfg.Run.DecimalPlaces != 6 {
		t.Errorf("expected DecimalPlaces=6, got %d", cfg.Run.DecimalPlaces)
	}
	if cfg.Run.BatchSize != 10_000_000 {
		t.Errorf("expected BatchSize=10000000, got %d", cfg.Run.BatchSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Run.MaxInteger = 1000
	cfg.Run.Workers = 8

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), loaded.Run.MaxInteger)
	assert.Equal(t, 8, loaded.Run.Workers)
	assert.Equal(t, 6, loaded.Run.DecimalPlaces)
}

func TestConfig_LoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Run, cfg.Run)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DECPROBE_MAX_INTEGER", "500")
	t.Setenv("DECPROBE_DECIMAL_PLACES", "3")
	t.Setenv("DECPROBE_WORKERS", "2")
	t.Setenv("DECPROBE_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(500), cfg.Run.MaxInteger)
	assert.Equal(t, 3, cfg.Run.DecimalPlaces)
	assert.Equal(t, 2, cfg.Run.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_Tick(t *testing.T) {
	cfg := DefaultConfig()
	d, err := cfg.Tick()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	cfg.Run.TickInterval = "250ms"
	d, err = cfg.Tick()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	cfg.Run.TickInterval = "soon"
	_, err = cfg.Tick()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.DecimalPlaces = 7 // 1e9 * 1e7 leaves the exact float64 range
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Run.TickInterval = "abc"
	assert.Error(t, cfg.Validate())
}
