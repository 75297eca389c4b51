package audio

// Timing constants
const (
	// DefaultTickClockHz is the periodic timer input clock. The timer reload
	// value is expressed in ticks of this clock.
	DefaultTickClockHz = 2_000_000
)

// Waveform constants
const (
	// WaveTableSize is the number of entries in the sample table.
	WaveTableSize = 16

	// SamplesPerCycle is the number of sequencer ticks in one full waveform
	// cycle. Swing playback visits 0..15 then 14..1 before starting over.
	SamplesPerCycle = 2 * (WaveTableSize - 1)

	// MaxAmplitude is the full scale of the 12-bit converter.
	MaxAmplitude = 0xFFF

	// MidAmplitude is the converter's mid-rail level, the zero of the AC signal.
	MidAmplitude = 0x800
)
