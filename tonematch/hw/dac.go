package hw

import (
	"sync"

	"github.com/valerio/go-tonematch/tonematch/audio"
)

const (
	// dcBlockPole is the feedback coefficient of the output high-pass.
	dcBlockPole = 0.995
	// pcmGain scales a mid-centered 12-bit level to 16-bit PCM.
	pcmGain = 8

	initialBufferCapacity = 4096
	maxBufferSeconds      = 1
)

// DAC is a 12-bit zero-order-hold converter. Each pushed amplitude is held
// until the next one arrives.
//
// When rendering is enabled the held level is sampled at a host rate and
// buffered as 16-bit PCM for an audio player running on another goroutine.
type DAC struct {
	level  uint16
	pushes uint64

	clockHz    uint32
	sampleRate int
	phase      uint64

	prevIn, prevOut float64

	sampleBuffer   []int16
	maxBuffered    int
	sampleBufferMu sync.Mutex
}

// NewDAC creates a converter resting at zero. A sampleRate of 0 disables
// host rendering.
func NewDAC(clockHz uint32, sampleRate int) *DAC {
	d := &DAC{
		clockHz:    clockHz,
		sampleRate: sampleRate,
	}
	if sampleRate > 0 {
		d.sampleBuffer = make([]int16, 0, initialBufferCapacity)
		d.maxBuffered = sampleRate * maxBufferSeconds
	}
	return d
}

var _ audio.Sink = (*DAC)(nil)
var _ audio.Provider = (*DAC)(nil)

// PushSample latches a new output level.
func (d *DAC) PushSample(amplitude uint16) {
	d.level = amplitude & audio.MaxAmplitude
	d.pushes++
}

// Level returns the held output level.
func (d *DAC) Level() uint16 {
	return d.level
}

// Pushes returns how many levels have been latched.
func (d *DAC) Pushes() uint64 {
	return d.pushes
}

// Tick advances host rendering by the given number of clock ticks.
func (d *DAC) Tick(ticks int) {
	if d.sampleRate <= 0 || d.clockHz == 0 {
		return
	}

	d.phase += uint64(ticks) * uint64(d.sampleRate)
	for d.phase >= uint64(d.clockHz) {
		d.phase -= uint64(d.clockHz)
		d.generateSample()
	}
}

func (d *DAC) generateSample() {
	x := float64(d.level) - audio.MidAmplitude
	y := x - d.prevIn + dcBlockPole*d.prevOut
	d.prevIn, d.prevOut = x, y

	scaled := y * pcmGain
	switch {
	case scaled > 32767:
		scaled = 32767
	case scaled < -32768:
		scaled = -32768
	}

	d.sampleBufferMu.Lock()
	d.sampleBuffer = append(d.sampleBuffer, int16(scaled))
	if len(d.sampleBuffer) > d.maxBuffered {
		d.sampleBuffer = d.sampleBuffer[len(d.sampleBuffer)-d.maxBuffered/2:]
	}
	d.sampleBufferMu.Unlock()
}

// GetSamples returns up to count rendered samples, padding with silence.
func (d *DAC) GetSamples(count int) []int16 {
	d.sampleBufferMu.Lock()
	defer d.sampleBufferMu.Unlock()

	samples := make([]int16, count)
	n := copy(samples, d.sampleBuffer)
	d.sampleBuffer = d.sampleBuffer[:copy(d.sampleBuffer, d.sampleBuffer[n:])]
	return samples
}

// Buffered returns the number of rendered samples waiting to be played.
func (d *DAC) Buffered() int {
	d.sampleBufferMu.Lock()
	defer d.sampleBufferMu.Unlock()
	return len(d.sampleBuffer)
}

// SampleRate returns the host rendering rate.
func (d *DAC) SampleRate() int {
	return d.sampleRate
}
