package audio

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrInvalidTone indicates a zero or out of range frequency, duration or clock.
	ErrInvalidTone = errors.New("audio: invalid tone parameters")
	// ErrPitchTooHigh indicates the frequency needs less than one clock tick per sample.
	ErrPitchTooHigh = errors.New("audio: frequency too high for tick clock")
)

// ToneTiming is the per-tone record handed to the sequencer.
type ToneTiming struct {
	// InterSampleTicks is the timer reload value, clock ticks between table steps.
	InterSampleTicks uint32
	// TotalTicks is the number of sequencer ticks that cover the tone's duration.
	TotalTicks uint32
}

// ComputeTone converts a frequency and a duration into sequencer timing.
//
// The period is floor(clock / (freq * samplesPerCycle)), so the realised
// frequency is always at or above the target. The error grows with the ratio
// of freq to clock; ActualHz reports what will actually be heard. A period
// that floors to zero cannot be played and yields ErrPitchTooHigh.
//
// The tick count is round(duration * freq * samplesPerCycle), counted in
// sequencer ticks at the target rate.
func ComputeTone(freqHz uint32, duration time.Duration, tickClockHz uint32, samplesPerCycle int) (ToneTiming, error) {
	if freqHz == 0 || tickClockHz == 0 || samplesPerCycle <= 0 || duration <= 0 {
		return ToneTiming{}, ErrInvalidTone
	}

	stepsPerSecond := uint64(freqHz) * uint64(samplesPerCycle)
	period := uint64(tickClockHz) / stepsPerSecond
	if period == 0 {
		return ToneTiming{}, ErrPitchTooHigh
	}

	total := math.Round(duration.Seconds() * float64(stepsPerSecond))
	if total < 1 || total > math.MaxUint32 {
		return ToneTiming{}, ErrInvalidTone
	}

	return ToneTiming{
		InterSampleTicks: uint32(period),
		TotalTicks:       uint32(total),
	}, nil
}

// ActualHz returns the frequency the timing really produces on a given clock.
func (t ToneTiming) ActualHz(tickClockHz uint32, samplesPerCycle int) float64 {
	if t.InterSampleTicks == 0 || samplesPerCycle <= 0 {
		return 0
	}
	return float64(tickClockHz) / (float64(t.InterSampleTicks) * float64(samplesPerCycle))
}

// Elapsed returns how long the tone actually sounds on a given clock.
func (t ToneTiming) Elapsed(tickClockHz uint32) time.Duration {
	if tickClockHz == 0 {
		return 0
	}
	ticks := uint64(t.TotalTicks) * uint64(t.InterSampleTicks)
	return time.Duration(ticks * uint64(time.Second) / uint64(tickClockHz))
}

// ErrorCents returns the pitch error of actual relative to target in cents.
func ErrorCents(targetHz, actualHz float64) float64 {
	if targetHz <= 0 || actualHz <= 0 {
		return 0
	}
	return 1200 * math.Log2(actualHz/targetHz)
}
