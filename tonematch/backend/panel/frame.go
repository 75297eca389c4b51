package panel

import (
	"errors"
	"fmt"

	"github.com/sigurn/crc16"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/pins"
)

const (
	// FrameStart opens every frame on the wire.
	FrameStart = 0xA5
	// FrameSize is start byte, LED bitmap and a big-endian CRC.
	FrameSize = 4
)

var (
	// ErrBadFrame indicates a frame with a wrong size or start byte.
	ErrBadFrame = errors.New("panel: malformed frame")
	// ErrChecksum indicates a frame whose CRC does not match its payload.
	ErrChecksum = errors.New("panel: checksum mismatch")
)

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Bitmap packs the LED port into one byte, bit i set when the LED of the
// i-th scale note is lit.
func Bitmap(leds uint32) uint8 {
	var bitmap uint8
	for i, p := range audio.Scale {
		if line, ok := pins.LineFor(p); ok && leds&(1<<line) != 0 {
			bitmap |= 1 << i
		}
	}
	return bitmap
}

// Encode builds the frame for an LED port snapshot.
func Encode(leds uint32) []byte {
	bitmap := Bitmap(leds)
	sum := crc16.Checksum([]byte{bitmap}, crcTable)
	return []byte{FrameStart, bitmap, byte(sum >> 8), byte(sum)}
}

// Decode checks a frame and returns its bitmap.
func Decode(frame []byte) (uint8, error) {
	if len(frame) != FrameSize || frame[0] != FrameStart {
		return 0, fmt.Errorf("%w: % x", ErrBadFrame, frame)
	}
	want := uint16(frame[2])<<8 | uint16(frame[3])
	if got := crc16.Checksum(frame[1:2], crcTable); got != want {
		return 0, fmt.Errorf("%w: got %04x, frame says %04x", ErrChecksum, got, want)
	}
	return frame[1], nil
}
