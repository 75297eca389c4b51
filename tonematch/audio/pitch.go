package audio

import "fmt"

// Pitch indexes the chromatic catalog, C4 through B4.
type Pitch uint8

const (
	C Pitch = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// PitchCount is the size of the chromatic catalog.
const PitchCount = 12

var frequencies = [PitchCount]uint32{262, 277, 294, 311, 330, 349, 370, 392, 415, 440, 466, 494}

var names = [PitchCount]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Scale is the major scale over C, the only pitches the game plays.
var Scale = [7]Pitch{C, D, E, F, G, A, B}

// Valid reports whether p is inside the catalog.
func (p Pitch) Valid() bool {
	return p < PitchCount
}

// Hz returns the base frequency of p, or 0 for an invalid pitch.
func (p Pitch) Hz() uint32 {
	if !p.Valid() {
		return 0
	}
	return frequencies[p]
}

func (p Pitch) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pitch(%d)", uint8(p))
	}
	return names[p]
}

// InScale reports whether p is one of the playable scale pitches.
func (p Pitch) InScale() bool {
	for _, s := range Scale {
		if s == p {
			return true
		}
	}
	return false
}
