package audio

// WaveTable holds one half cycle of a raised cosine: 0x800*(1-cos(pi*i/15)).
// Played in swing order it reconstructs a full sinusoid.
type WaveTable [WaveTableSize]uint16

// Sine is the only table the converter is loaded with.
var Sine = WaveTable{
	0x000, 0x02D, 0x0B1, 0x187, 0x2A6, 0x400, 0x587, 0x72A,
	0x8D6, 0xA79, 0xC00, 0xD54, 0xE79, 0xF4F, 0xFD3, 0xFFF,
}

// Last returns the index of the final table entry, the swing turning point.
func (w *WaveTable) Last() uint8 {
	return WaveTableSize - 1
}
