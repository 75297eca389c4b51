package pins

import (
	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/bit"
)

// NoLine marks a pitch that has no output line wired to it.
const NoLine uint8 = 0xFF

// LED output lines (port B)
const (
	LEDC uint8 = 11
	LEDD uint8 = 10
	LEDE uint8 = 3
	LEDF uint8 = 2
	LEDG uint8 = 20
	LEDA uint8 = 18
	LEDB uint8 = 19
)

// Button input lines (port C). Buttons pull their line low when pressed.
const (
	ButtonC uint8 = 10
	ButtonD uint8 = 11
	ButtonE uint8 = 16
	ButtonF uint8 = 17
	ButtonG uint8 = 1
	ButtonA uint8 = 8
	ButtonB uint8 = 9
)

// PitchToLine translates a pitch to the output line of its LED.
// Pitches outside the scale have no LED.
var PitchToLine = [audio.PitchCount]uint8{
	audio.C:      LEDC,
	audio.CSharp: NoLine,
	audio.D:      LEDD,
	audio.DSharp: NoLine,
	audio.E:      LEDE,
	audio.F:      LEDF,
	audio.FSharp: NoLine,
	audio.G:      LEDG,
	audio.GSharp: NoLine,
	audio.A:      LEDA,
	audio.ASharp: NoLine,
	audio.B:      LEDB,
}

// LineToPitch translates a button input line to the pitch it answers.
var LineToPitch = map[uint8]audio.Pitch{
	ButtonC: audio.C,
	ButtonD: audio.D,
	ButtonE: audio.E,
	ButtonF: audio.F,
	ButtonG: audio.G,
	ButtonA: audio.A,
	ButtonB: audio.B,
}

// Port masks covering exactly the wired lines.
var (
	LEDMask    = bit.Mask(LEDC, LEDD, LEDE, LEDF, LEDG, LEDA, LEDB)
	ButtonMask = bit.Mask(ButtonC, ButtonD, ButtonE, ButtonF, ButtonG, ButtonA, ButtonB)
)

// LineFor returns the output line for p, or false when p has no LED.
func LineFor(p audio.Pitch) (uint8, bool) {
	if !p.Valid() {
		return NoLine, false
	}
	line := PitchToLine[p]
	return line, line != NoLine
}

// ButtonFor returns the input line whose button answers p.
func ButtonFor(p audio.Pitch) (uint8, bool) {
	for line, pitch := range LineToPitch {
		if pitch == p {
			return line, true
		}
	}
	return 0, false
}
