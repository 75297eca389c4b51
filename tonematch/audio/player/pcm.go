package player

import (
	"encoding/binary"

	"github.com/valerio/go-tonematch/tonematch/audio"
)

// bytesPerSample is the size of one mono signed 16-bit little-endian frame
const bytesPerSample = 2

// fill encodes provider samples into p as signed 16-bit little-endian PCM and
// returns the number of bytes written. A trailing odd byte is left as silence.
func fill(p []byte, provider audio.Provider) int {
	count := len(p) / bytesPerSample
	if provider == nil || count == 0 {
		clear(p)
		return len(p)
	}

	samples := provider.GetSamples(count)
	for i := 0; i < count; i++ {
		var s int16
		if i < len(samples) {
			s = samples[i]
		}
		binary.LittleEndian.PutUint16(p[i*bytesPerSample:], uint16(s))
	}
	if len(p)%bytesPerSample != 0 {
		p[len(p)-1] = 0
	}
	return len(p)
}
