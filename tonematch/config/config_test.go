package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-tonematch/tonematch/timing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tonematch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Game.StrikeThreshold)
	assert.Equal(t, time.Second, cfg.Game.RoundDuration)
	assert.Equal(t, 250*time.Millisecond, cfg.Game.DemoDuration)
	assert.Equal(t, uint32(2_000_000), cfg.Board.TickClockHz)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
game:
  strike_threshold: 4
  round_duration: 1500ms
  skip_demo: true
  seed: 7
audio:
  mute: true
panel:
  port: /dev/ttyUSB0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Game.StrikeThreshold)
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.RoundDuration)
	assert.True(t, cfg.Game.SkipDemo)
	assert.Equal(t, uint64(7), cfg.Game.Seed)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Panel.Port)

	// untouched keys keep defaults
	assert.Equal(t, 250*time.Millisecond, cfg.Game.DemoDuration)
	assert.Equal(t, 115200, cfg.Panel.Baud)

	assert.Equal(t, 0, cfg.BoardSettings().SampleRate, "muted boards render no audio")
	assert.Equal(t, 4, cfg.Settings().StrikeThreshold)
	assert.True(t, cfg.Settings().SkipDemo)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "game:\n  strikes: 3\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero clock", func(c *Config) { c.Board.TickClockHz = 0 }},
		{"zero idle", func(c *Config) { c.Board.IdleTicks = 0 }},
		{"zero threshold", func(c *Config) { c.Game.StrikeThreshold = 0 }},
		{"zero round", func(c *Config) { c.Game.RoundDuration = 0 }},
		{"negative pause", func(c *Config) { c.Game.Pause = -time.Millisecond }},
		{"alarm start below floor", func(c *Config) { c.Game.AlarmStart = time.Millisecond }},
		{"negative sample rate", func(c *Config) { c.Audio.SampleRate = -1 }},
		{"panel without baud", func(c *Config) { c.Panel.Port = "/dev/ttyS0"; c.Panel.Baud = 0 }},
		{"unknown pacing", func(c *Config) { c.Board.Pacing = "vsync" }},
		{"clock too slow for the scale", func(c *Config) { c.Board.TickClockHz = 10_000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLimiter(t *testing.T) {
	cfg := Default()
	assert.IsType(t, &timing.AdaptiveLimiter{}, cfg.Limiter())

	cfg.Board.Pacing = PacingTicker
	l := cfg.Limiter()
	assert.IsType(t, &timing.TickerLimiter{}, l)
	l.(*timing.TickerLimiter).Stop()

	cfg.Board.Pacing = PacingNone
	assert.Equal(t, timing.NewNoOpLimiter(), cfg.Limiter())
}
