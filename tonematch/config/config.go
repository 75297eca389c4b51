package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/game"
	"github.com/valerio/go-tonematch/tonematch/hw"
	"github.com/valerio/go-tonematch/tonematch/timing"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds everything the binary can be tuned with. Zero values in a
// loaded file keep their defaults.
type Config struct {
	Board BoardConfig `yaml:"board"`
	Game  GameConfig  `yaml:"game"`
	Audio AudioConfig `yaml:"audio"`
	Panel PanelConfig `yaml:"panel"`
}

// BoardConfig describes the simulated board.
type BoardConfig struct {
	TickClockHz uint32 `yaml:"tick_clock_hz"`
	IdleTicks   int    `yaml:"idle_ticks"`
	Pacing      string `yaml:"pacing"` // adaptive, ticker or none
}

// Pacing modes for interactive play.
const (
	PacingAdaptive = "adaptive"
	PacingTicker   = "ticker"
	PacingNone     = "none"
)

// GameConfig tunes rounds and the alarm.
type GameConfig struct {
	RoundDuration   time.Duration `yaml:"round_duration"`
	DemoDuration    time.Duration `yaml:"demo_duration"`
	Pause           time.Duration `yaml:"pause"`
	StrikeThreshold int           `yaml:"strike_threshold"`
	AlarmStart      time.Duration `yaml:"alarm_start"`
	AlarmFloor      time.Duration `yaml:"alarm_floor"`
	SkipDemo        bool          `yaml:"skip_demo"`
	Seed            uint64        `yaml:"seed"` // 0 seeds from the clock
}

// AudioConfig controls host playback.
type AudioConfig struct {
	SampleRate int  `yaml:"sample_rate"`
	Mute       bool `yaml:"mute"`
}

// PanelConfig points at an optional serial LED panel.
type PanelConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Default returns the configuration the board ships with.
func Default() Config {
	settings := game.DefaultSettings()
	return Config{
		Board: BoardConfig{
			TickClockHz: audio.DefaultTickClockHz,
			IdleTicks:   hw.DefaultIdleTicks,
			Pacing:      PacingAdaptive,
		},
		Game: GameConfig{
			RoundDuration:   settings.RoundDuration,
			DemoDuration:    settings.DemoDuration,
			Pause:           settings.Pause,
			StrikeThreshold: settings.StrikeThreshold,
			AlarmStart:      settings.AlarmStart,
			AlarmFloor:      settings.AlarmFloor,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
		},
		Panel: PanelConfig{
			Baud: 115200,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration can drive a playable game.
func (c Config) Validate() error {
	if c.Board.TickClockHz == 0 {
		return fmt.Errorf("%w: tick_clock_hz must be positive", ErrInvalid)
	}
	if c.Board.IdleTicks <= 0 {
		return fmt.Errorf("%w: idle_ticks must be positive", ErrInvalid)
	}
	switch c.Board.Pacing {
	case PacingAdaptive, PacingTicker, PacingNone:
	default:
		return fmt.Errorf("%w: unknown pacing %q", ErrInvalid, c.Board.Pacing)
	}
	if c.Game.StrikeThreshold < 1 {
		return fmt.Errorf("%w: strike_threshold must be at least 1", ErrInvalid)
	}
	if c.Game.RoundDuration <= 0 || c.Game.DemoDuration <= 0 {
		return fmt.Errorf("%w: tone durations must be positive", ErrInvalid)
	}
	if c.Game.Pause < 0 {
		return fmt.Errorf("%w: pause cannot be negative", ErrInvalid)
	}
	if c.Game.AlarmFloor <= 0 || c.Game.AlarmStart < c.Game.AlarmFloor {
		return fmt.Errorf("%w: alarm_start must be at least alarm_floor, and both positive", ErrInvalid)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("%w: sample_rate cannot be negative", ErrInvalid)
	}
	if c.Panel.Port != "" && c.Panel.Baud <= 0 {
		return fmt.Errorf("%w: panel baud must be positive", ErrInvalid)
	}

	// every scale note must be playable on this clock
	for _, p := range audio.Scale {
		for _, d := range []time.Duration{c.Game.RoundDuration, c.Game.DemoDuration, c.Game.AlarmFloor} {
			if _, err := audio.ComputeTone(p.Hz(), d, c.Board.TickClockHz, audio.SamplesPerCycle); err != nil {
				return fmt.Errorf("%w: %s for %v: %v", ErrInvalid, p, d, err)
			}
		}
	}
	return nil
}

// Settings converts the game section for the state machine.
func (c Config) Settings() game.Settings {
	return game.Settings{
		TickClockHz:     c.Board.TickClockHz,
		RoundDuration:   c.Game.RoundDuration,
		DemoDuration:    c.Game.DemoDuration,
		Pause:           c.Game.Pause,
		StrikeThreshold: c.Game.StrikeThreshold,
		AlarmStart:      c.Game.AlarmStart,
		AlarmFloor:      c.Game.AlarmFloor,
		SkipDemo:        c.Game.SkipDemo,
	}
}

// Limiter returns the frame limiter for the configured pacing.
func (c Config) Limiter() timing.Limiter {
	switch c.Board.Pacing {
	case PacingTicker:
		return timing.NewTickerLimiter()
	case PacingNone:
		return timing.NewNoOpLimiter()
	default:
		return timing.NewAdaptiveLimiter()
	}
}

// BoardSettings converts the board section, disabling audio rendering when muted.
func (c Config) BoardSettings() hw.BoardConfig {
	rate := c.Audio.SampleRate
	if c.Audio.Mute {
		rate = 0
	}
	return hw.BoardConfig{
		TickClockHz: c.Board.TickClockHz,
		IdleTicks:   c.Board.IdleTicks,
		SampleRate:  rate,
	}
}
