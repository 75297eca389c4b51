package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-tonematch/tonematch/audio"
)

func TestDACHoldsLevel(t *testing.T) {
	dac := NewDAC(audio.DefaultTickClockHz, 0)
	dac.PushSample(0x400)
	assert.Equal(t, uint16(0x400), dac.Level())

	dac.PushSample(0xFFFF)
	assert.Equal(t, uint16(audio.MaxAmplitude), dac.Level(), "levels are 12-bit")
	assert.Equal(t, uint64(2), dac.Pushes())

	dac.Tick(1_000_000)
	assert.Equal(t, 0, dac.Buffered(), "no rendering without a sample rate")
}

func TestDACRenderRate(t *testing.T) {
	dac := NewDAC(2_000_000, 44_100)

	// half a second in uneven steps
	for range 1000 {
		dac.Tick(1000)
	}

	assert.Equal(t, 44_100/2, dac.Buffered())
}

func TestDACRendersSquareAroundZero(t *testing.T) {
	dac := NewDAC(1000, 100)

	for i := range 80 {
		if i%10 < 5 {
			dac.PushSample(audio.MaxAmplitude)
		} else {
			dac.PushSample(0)
		}
		dac.Tick(10)
	}

	samples := dac.GetSamples(80)
	require.Len(t, samples, 80)

	var positive, negative int
	for _, s := range samples[40:] {
		if s > 0 {
			positive++
		} else if s < 0 {
			negative++
		}
	}
	assert.Greater(t, positive, 0)
	assert.Greater(t, negative, 0)
	assert.Equal(t, 0, dac.Buffered())
}

func TestDACGetSamplesPadsWithSilence(t *testing.T) {
	dac := NewDAC(1000, 100)
	dac.PushSample(audio.MaxAmplitude)
	dac.Tick(30) // 3 samples

	samples := dac.GetSamples(5)
	require.Len(t, samples, 5)
	assert.NotZero(t, samples[0])
	assert.Zero(t, samples[3])
	assert.Zero(t, samples[4])
}

func TestDACBufferIsBounded(t *testing.T) {
	dac := NewDAC(1000, 100)
	dac.Tick(1000 * 10) // ten seconds unconsumed

	assert.LessOrEqual(t, dac.Buffered(), 100)
}
