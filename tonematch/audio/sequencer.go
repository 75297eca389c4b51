package audio

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrAlreadyArmed indicates an attempt to start a tone while another is playing.
	ErrAlreadyArmed = errors.New("audio: sequencer already armed")
	// ErrTickUnderflow indicates a timer tick arrived with no ticks remaining.
	ErrTickUnderflow = errors.New("audio: tick counter underflow")
)

// Timer is the periodic interrupt source that paces the sequencer.
type Timer interface {
	SetReload(ticks uint32)
	EnableInterrupt()
	DisableInterrupt()
	ClearPending()
}

// Sink receives successive converter amplitudes.
type Sink interface {
	PushSample(amplitude uint16)
}

// Sequencer steps through the wave table once per timer interrupt until the
// tone's tick budget is spent, then disarms itself.
//
// Between Arm and the automatic disarm only OnTick mutates the sequencer.
// The foreground may read Armed and Remaining at any time.
type Sequencer struct {
	timer Timer
	sink  Sink
	table *WaveTable

	period     uint32
	index      uint8
	descending bool

	remaining atomic.Uint32
	armed     atomic.Bool
	ticks     atomic.Uint64
}

// NewSequencer creates a disarmed sequencer playing table through sink.
func NewSequencer(timer Timer, sink Sink, table *WaveTable) *Sequencer {
	return &Sequencer{
		timer: timer,
		sink:  sink,
		table: table,
	}
}

// Arm starts a tone. It fails if a tone is already playing.
func (s *Sequencer) Arm(t ToneTiming) error {
	if s.armed.Load() {
		return ErrAlreadyArmed
	}
	if t.InterSampleTicks == 0 || t.TotalTicks == 0 {
		return ErrInvalidTone
	}

	s.period = t.InterSampleTicks
	s.index = 0
	s.descending = false
	s.remaining.Store(t.TotalTicks)

	s.sink.PushSample(s.table[s.index])

	s.timer.ClearPending()
	s.timer.SetReload(s.period)
	s.armed.Store(true)
	s.timer.EnableInterrupt()
	return nil
}

// OnTick is the timer interrupt handler.
func (s *Sequencer) OnTick() {
	s.timer.ClearPending()
	if !s.armed.Load() {
		// late interrupt after a foreground disarm
		return
	}
	s.timer.SetReload(s.period)

	remaining := s.remaining.Load()
	if remaining == 0 {
		panic(ErrTickUnderflow)
	}
	remaining--
	s.remaining.Store(remaining)
	s.ticks.Add(1)

	s.step()
	s.sink.PushSample(s.table[s.index])

	if remaining == 0 {
		s.timer.DisableInterrupt()
		s.armed.Store(false)
	}
}

// step advances the index in swing order: up to the last entry, then back down.
func (s *Sequencer) step() {
	last := s.table.Last()
	if s.descending {
		if s.index == 0 {
			s.descending = false
			s.index++
			return
		}
		s.index--
		return
	}

	if s.index == last {
		s.descending = true
		s.index--
		return
	}
	s.index++
}

// Disarm cancels the current tone, if any. The interrupt is disabled before
// any shared state is touched so no tick can run concurrently.
func (s *Sequencer) Disarm() {
	s.timer.DisableInterrupt()
	s.timer.ClearPending()
	s.remaining.Store(0)
	s.armed.Store(false)
}

// Wait spins until the current tone completes, calling idle on every spin.
// An idle error cancels the tone and is returned.
func (s *Sequencer) Wait(idle func() error) error {
	for s.armed.Load() {
		if err := idle(); err != nil {
			s.Disarm()
			return err
		}
	}
	return nil
}

// Armed reports whether a tone is playing.
func (s *Sequencer) Armed() bool {
	return s.armed.Load()
}

// Remaining returns the ticks left in the current tone.
func (s *Sequencer) Remaining() uint32 {
	return s.remaining.Load()
}

// Index returns the current wave table position.
func (s *Sequencer) Index() uint8 {
	return s.index
}

// Ticks returns the number of interrupts handled since creation.
func (s *Sequencer) Ticks() uint64 {
	return s.ticks.Load()
}
