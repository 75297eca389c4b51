package input

import (
	"errors"
	"fmt"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/bit"
)

// ErrUnmappedLine indicates an active line with no pitch assigned.
var ErrUnmappedLine = errors.New("input: active line has no pitch mapping")

// Status classifies a decoded port snapshot.
type Status int

const (
	// NoSignal means no button is down; keep polling.
	NoSignal Status = iota
	// Pressed means exactly one button is down.
	Pressed
	// Ambiguous means several buttons are down. The lowest numbered line wins.
	Ambiguous
)

func (s Status) String() string {
	switch s {
	case NoSignal:
		return "no-signal"
	case Pressed:
		return "pressed"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reading is the result of decoding one snapshot.
type Reading struct {
	Status Status
	Line   uint8
	Pitch  audio.Pitch
}

// Decoder turns button port snapshots into pitches.
type Decoder struct {
	lines  map[uint8]audio.Pitch
	mapped uint32
}

// NewDecoder creates a decoder for the given line to pitch wiring.
func NewDecoder(lines map[uint8]audio.Pitch) *Decoder {
	d := &Decoder{lines: lines}
	for line := range lines {
		d.mapped = bit.Set(line, d.mapped)
	}
	return d
}

// Validate checks that every line in activeMask has a pitch.
func (d *Decoder) Validate(activeMask uint32) error {
	if extra := activeMask &^ d.mapped; extra != 0 {
		line, _ := bit.Lowest(extra)
		return fmt.Errorf("%w: line %d", ErrUnmappedLine, line)
	}
	return nil
}

// Decode inverts the raw snapshot, since pressed buttons read low, masks it
// to the active lines and resolves the asserted line to a pitch. When more
// than one line is asserted the lowest numbered one is reported with status
// Ambiguous.
func (d *Decoder) Decode(raw, activeMask uint32) Reading {
	asserted := bit.ActiveLow(raw, activeMask&d.mapped)

	line, ok := bit.Lowest(asserted)
	if !ok {
		return Reading{Status: NoSignal}
	}

	status := Pressed
	if bit.Count(asserted) > 1 {
		status = Ambiguous
	}
	return Reading{
		Status: status,
		Line:   line,
		Pitch:  d.lines[line],
	}
}
