package hw

import (
	"time"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/pins"
	"github.com/valerio/go-tonematch/tonematch/timing"
)

// DefaultIdleTicks is how far one foreground spin advances the clock, 250µs
// at the default tick clock.
const DefaultIdleTicks = 500

// BoardConfig describes the simulated board.
type BoardConfig struct {
	TickClockHz uint32
	IdleTicks   int
	SampleRate  int // host audio rate, 0 renders no audio
}

// Board wires the simulated peripherals to one tick clock. The foreground
// program spins on Idle, which advances the clock and lets the timer
// interrupt fire, much as the real core keeps counting while it busy-waits.
type Board struct {
	Timer   *Timer
	DAC     *DAC
	Buttons *InputPort
	LEDs    *OutputPort

	clockHz   uint32
	idleTicks int
	chunk     int

	ticks         uint64
	frameTicks    int
	ticksPerFrame int
	frames        uint64

	onFrame func() error
	limiter timing.Limiter
}

// NewBoard creates a board with its timer started and all lines idle.
func NewBoard(cfg BoardConfig) *Board {
	if cfg.TickClockHz == 0 {
		cfg.TickClockHz = audio.DefaultTickClockHz
	}
	if cfg.IdleTicks <= 0 {
		cfg.IdleTicks = DefaultIdleTicks
	}

	b := &Board{
		Timer:         NewTimer(),
		DAC:           NewDAC(cfg.TickClockHz, cfg.SampleRate),
		Buttons:       NewInputPort(),
		LEDs:          NewOutputPort(pins.LEDMask),
		clockHz:       cfg.TickClockHz,
		idleTicks:     cfg.IdleTicks,
		chunk:         cfg.IdleTicks,
		ticksPerFrame: timing.TicksPerFrame(cfg.TickClockHz),
		limiter:       timing.NewNoOpLimiter(),
	}

	// keep the converter's hold steps finer than one host sample
	if cfg.SampleRate > 0 {
		b.chunk = max(1, int(cfg.TickClockHz)/cfg.SampleRate)
	}

	b.Timer.Start()
	return b
}

// SetFrameHook registers the callback run once per frame of simulated time.
// A hook error stops the foreground program.
func (b *Board) SetFrameHook(hook func() error) {
	b.onFrame = hook
}

// SetLimiter paces frames against the wall clock.
func (b *Board) SetLimiter(l timing.Limiter) {
	b.limiter = l
}

// Idle is one spin of a foreground wait loop.
func (b *Board) Idle() error {
	b.Advance(b.idleTicks)

	if b.frameTicks < b.ticksPerFrame {
		return nil
	}
	b.frameTicks -= b.ticksPerFrame
	b.frames++

	if b.onFrame != nil {
		if err := b.onFrame(); err != nil {
			return err
		}
	}
	b.limiter.WaitForNextFrame()
	return nil
}

// Advance runs the clock forward, delivering timer interrupts on the way.
func (b *Board) Advance(ticks int) {
	for ticks > 0 {
		n := min(ticks, b.chunk)
		b.Timer.Tick(n)
		b.DAC.Tick(n)
		ticks -= n
		b.ticks += uint64(n)
		b.frameTicks += n
	}
}

// Elapsed returns the simulated time since power on.
func (b *Board) Elapsed() time.Duration {
	clock := uint64(b.clockHz)
	secs, rem := b.ticks/clock, b.ticks%clock
	return time.Duration(secs)*time.Second + time.Duration(rem*uint64(time.Second)/clock)
}

// ReadSnapshot reads the button port.
func (b *Board) ReadSnapshot() uint32 {
	return b.Buttons.ReadSnapshot()
}

// SetLine drives an LED line.
func (b *Board) SetLine(line uint8, level bool) {
	b.LEDs.SetLine(line, level)
}

// ClearLines turns every LED off.
func (b *Board) ClearLines() {
	b.LEDs.ClearLines()
}

// Frames returns the number of completed frames.
func (b *Board) Frames() uint64 {
	return b.frames
}

// ClockHz returns the tick clock rate.
func (b *Board) ClockHz() uint32 {
	return b.clockHz
}
