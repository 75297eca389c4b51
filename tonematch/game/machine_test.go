package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/hw"
	"github.com/valerio/go-tonematch/tonematch/pins"
)

type fixedSource struct {
	draws []int
	calls int
}

func (f *fixedSource) Draw(n int) int {
	v := f.draws[f.calls%len(f.draws)]
	f.calls++
	return v
}

func testSettings() Settings {
	s := DefaultSettings()
	s.RoundDuration = 20 * time.Millisecond
	s.DemoDuration = 10 * time.Millisecond
	s.Pause = 5 * time.Millisecond
	s.AlarmStart = 20 * time.Millisecond
	s.AlarmFloor = 5 * time.Millisecond
	return s
}

func newTestMachine(t *testing.T, settings Settings, draws ...int) (*Machine, *hw.Board, *audio.Sequencer) {
	t.Helper()
	if len(draws) == 0 {
		draws = []int{0}
	}

	board := hw.NewBoard(hw.BoardConfig{})
	seq := audio.NewSequencer(board.Timer, board.DAC, &audio.Sine)
	board.Timer.InterruptHandler = seq.OnTick

	m, err := NewMachine(settings, seq, board, board, board, &fixedSource{draws: draws})
	require.NoError(t, err)
	return m, board, seq
}

// wrong returns a scale pitch different from p.
func wrong(p audio.Pitch) audio.Pitch {
	if p == audio.C {
		return audio.D
	}
	return audio.C
}

func TestFreshSession(t *testing.T) {
	m, _, _ := newTestMachine(t, testSettings())
	s := m.Session()
	assert.Equal(t, AwaitingNextRound, s.State)
	assert.Equal(t, 0, s.Strikes)
}

func TestTwoMissesKeepPlaying(t *testing.T) {
	m, _, _ := newTestMachine(t, testSettings(), 2, 5)

	for range 2 {
		p, err := m.NextRound()
		require.NoError(t, err)
		v, err := m.SubmitResponse(wrong(p))
		require.NoError(t, err)
		assert.False(t, v.Correct)
	}

	assert.Equal(t, 2, m.Session().Strikes)
	assert.Equal(t, AwaitingNextRound, m.Session().State)
}

func TestThresholdEndsGame(t *testing.T) {
	m, board, _ := newTestMachine(t, testSettings(), 1, 4, 6)

	var last Verdict
	for range 3 {
		p, err := m.NextRound()
		require.NoError(t, err)
		last, err = m.SubmitResponse(wrong(p))
		require.NoError(t, err)
	}

	assert.True(t, last.GameOver)
	assert.Equal(t, GameOver, m.Session().State)
	assert.Equal(t, pins.LEDMask, board.LEDs.Snapshot(), "every LED lights at game over")

	// terminal under further input
	for _, p := range audio.Scale {
		_, err := m.SubmitResponse(p)
		assert.ErrorIs(t, err, ErrGameOver)
	}
	_, err := m.NextRound()
	assert.ErrorIs(t, err, ErrGameOver)

	assert.Equal(t, GameOver, m.Session().State)
	assert.Equal(t, 3, m.Session().Strikes)
}

func TestConfiguredThreshold(t *testing.T) {
	settings := testSettings()
	settings.StrikeThreshold = 4
	m, _, _ := newTestMachine(t, settings, 3)

	for i := 1; i <= 4; i++ {
		p, err := m.NextRound()
		require.NoError(t, err)
		v, err := m.SubmitResponse(wrong(p))
		require.NoError(t, err)
		assert.Equal(t, i == 4, v.GameOver, "strike %d", i)
	}
}

func TestForcedPitchScenario(t *testing.T) {
	m, _, _ := newTestMachine(t, testSettings())
	m.pick = func() (audio.Pitch, error) { return audio.Pitch(3), nil }

	p, err := m.NextRound()
	require.NoError(t, err)
	require.Equal(t, audio.Pitch(3), p)

	v, err := m.SubmitResponse(audio.Pitch(3))
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.Equal(t, 0, m.Session().Strikes)
	assert.Equal(t, AwaitingNextRound, m.Session().State)

	_, err = m.NextRound()
	require.NoError(t, err)
	v, err = m.SubmitResponse(audio.Pitch(5))
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, audio.Pitch(3), v.Expected)
	assert.Equal(t, 1, m.Session().Strikes)
}

func TestRoundDrawsFromScale(t *testing.T) {
	draws := []int{0, 1, 2, 3, 4, 5, 6}
	m, _, _ := newTestMachine(t, testSettings(), draws...)

	for _, d := range draws {
		p, err := m.NextRound()
		require.NoError(t, err)
		assert.Equal(t, audio.Scale[d], p)
		assert.Equal(t, p, m.Session().LastPitch)

		v, err := m.SubmitResponse(p)
		require.NoError(t, err)
		assert.True(t, v.Correct)
	}
	assert.Equal(t, 7, m.Session().Hits)
	assert.Equal(t, 7, m.Session().Rounds)
}

func TestRoundPlaysFullTone(t *testing.T) {
	m, board, seq := newTestMachine(t, testSettings(), 5)

	start := board.Elapsed()
	p, err := m.NextRound()
	require.NoError(t, err)

	timing, err := audio.ComputeTone(p.Hz(), 20*time.Millisecond, audio.DefaultTickClockHz, audio.SamplesPerCycle)
	require.NoError(t, err)

	assert.False(t, seq.Armed(), "NextRound returns only after the tone")
	assert.Equal(t, uint64(timing.TotalTicks), seq.Ticks())
	assert.GreaterOrEqual(t, board.Elapsed()-start, timing.Elapsed(audio.DefaultTickClockHz))
	assert.Equal(t, uint32(0), board.LEDs.Snapshot(), "rounds do not reveal the answer")
}

func TestStateGuards(t *testing.T) {
	m, _, _ := newTestMachine(t, testSettings())

	_, err := m.SubmitResponse(audio.C)
	assert.ErrorIs(t, err, ErrNoPendingRound)

	_, err = m.NextRound()
	require.NoError(t, err)
	_, err = m.NextRound()
	assert.ErrorIs(t, err, ErrResponsePending)
	assert.Equal(t, 1, m.Session().Rounds)
}

func TestBadDraw(t *testing.T) {
	m, _, _ := newTestMachine(t, testSettings(), 7)
	_, err := m.NextRound()
	assert.ErrorIs(t, err, ErrBadDraw)
	assert.Equal(t, AwaitingNextRound, m.Session().State)
}

func TestNewMachineRejectsZeroThreshold(t *testing.T) {
	settings := testSettings()
	settings.StrikeThreshold = 0
	board := hw.NewBoard(hw.BoardConfig{})
	seq := audio.NewSequencer(board.Timer, board.DAC, &audio.Sine)

	_, err := NewMachine(settings, seq, board, board, board, &fixedSource{draws: []int{0}})
	assert.Error(t, err)
}

func TestOverlappingToneIsFatal(t *testing.T) {
	m, _, seq := newTestMachine(t, testSettings())
	require.NoError(t, seq.Arm(audio.ToneTiming{InterSampleTicks: 100, TotalTicks: 1000}))

	_, err := m.NextRound()
	assert.ErrorIs(t, err, audio.ErrAlreadyArmed)
}

func TestMissBlinksExpectedLED(t *testing.T) {
	m, board, _ := newTestMachine(t, testSettings(), 4) // G
	var changes []uint32
	board.LEDs.OnChange(func(data uint32) { changes = append(changes, data) })

	_, err := m.NextRound()
	require.NoError(t, err)
	_, err = m.SubmitResponse(audio.A)
	require.NoError(t, err)

	assert.Equal(t, []uint32{1 << pins.LEDG, 0}, changes)
}

func TestHitPauses(t *testing.T) {
	m, board, _ := newTestMachine(t, testSettings(), 4)
	_, err := m.NextRound()
	require.NoError(t, err)

	start := board.Elapsed()
	_, err = m.SubmitResponse(audio.G)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, board.Elapsed()-start, 5*time.Millisecond)
	assert.Equal(t, uint32(0), board.LEDs.Snapshot())
}

func TestDemo(t *testing.T) {
	m, board, seq := newTestMachine(t, testSettings())
	var lit []uint32
	board.LEDs.OnChange(func(data uint32) {
		if data != 0 {
			lit = append(lit, data)
		}
	})

	require.NoError(t, m.StartDemo())

	order := []audio.Pitch{
		audio.C, audio.D, audio.E, audio.F, audio.G, audio.A, audio.B,
		audio.A, audio.G, audio.F, audio.E, audio.D, audio.C,
	}
	var expected []uint32
	var ticks uint64
	for _, p := range order {
		line, ok := pins.LineFor(p)
		require.True(t, ok)
		expected = append(expected, 1<<line)

		timing, err := audio.ComputeTone(p.Hz(), 10*time.Millisecond, audio.DefaultTickClockHz, audio.SamplesPerCycle)
		require.NoError(t, err)
		ticks += uint64(timing.TotalTicks)
	}

	assert.Equal(t, expected, lit)
	assert.Equal(t, ticks, seq.Ticks())
	assert.Equal(t, uint32(0), board.LEDs.Snapshot())
	assert.True(t, m.Session().DemoPlayed)
	assert.Equal(t, AwaitingNextRound, m.Session().State, "the demo is not scored")
}

func TestAwaitResponse(t *testing.T) {
	m, board, _ := newTestMachine(t, testSettings())

	frames := 0
	board.SetFrameHook(func() error {
		frames++
		switch frames {
		case 2:
			board.Buttons.Press(pins.ButtonE)
		case 4:
			board.Buttons.Release(pins.ButtonE)
		}
		return nil
	})

	p, err := m.AwaitResponse()
	require.NoError(t, err)
	assert.Equal(t, audio.E, p)
	assert.Equal(t, 4, frames, "returns only after the button is released")
}

func TestAwaitResponseAmbiguous(t *testing.T) {
	m, board, _ := newTestMachine(t, testSettings())
	board.Buttons.Press(pins.ButtonF)
	board.Buttons.Press(pins.ButtonA)
	board.SetFrameHook(func() error {
		board.Buttons.ReleaseAll()
		return nil
	})

	p, err := m.AwaitResponse()
	require.NoError(t, err)
	assert.Equal(t, audio.A, p, "lowest line wins")
}

func TestQuitDuringTone(t *testing.T) {
	m, board, seq := newTestMachine(t, testSettings())
	board.SetFrameHook(func() error { return ErrQuit })

	settings := testSettings()
	settings.RoundDuration = time.Second
	m.settings = settings

	_, err := m.NextRound()
	assert.ErrorIs(t, err, ErrQuit)
	assert.False(t, seq.Armed(), "quitting cancels the tone")
	assert.False(t, board.Timer.InterruptEnabled())
}

func TestAlarmDuration(t *testing.T) {
	m, _, _ := newTestMachine(t, DefaultSettings())

	assert.Equal(t, 400*time.Millisecond, m.AlarmDuration(0))
	assert.Equal(t, 300*time.Millisecond, m.AlarmDuration(1))
	assert.Equal(t, 225*time.Millisecond, m.AlarmDuration(2))
	assert.Equal(t, 60*time.Millisecond, m.AlarmDuration(50))

	prev := m.AlarmDuration(0)
	for i := 1; i < 20; i++ {
		d := m.AlarmDuration(i)
		assert.LessOrEqual(t, d, prev)
		prev = d
	}
}

func TestAlarmRequiresGameOver(t *testing.T) {
	m, _, _ := newTestMachine(t, testSettings())
	assert.ErrorIs(t, m.RunAlarm(), ErrNotOver)
}

func TestRunFullGame(t *testing.T) {
	m, board, _ := newTestMachine(t, testSettings(), 0, 3, 6, 2)

	// answer the first round right and every later one wrong, then stop
	// once the alarm has gone around twice
	holding := false
	board.SetFrameHook(func() error {
		s := m.Session()
		if s.AlarmCycles >= 2 {
			return ErrQuit
		}
		if holding {
			board.Buttons.ReleaseAll()
			holding = false
			return nil
		}
		if s.State != AwaitingResponse {
			return nil
		}

		p := s.LastPitch
		if s.Rounds > 1 {
			p = wrong(p)
		}
		line, ok := pins.ButtonFor(p)
		if !ok {
			return errors.New("no button for pitch")
		}
		board.Buttons.Press(line)
		holding = true
		return nil
	})

	err := m.Run()
	assert.ErrorIs(t, err, ErrQuit)

	s := m.Session()
	assert.True(t, s.DemoPlayed)
	assert.Equal(t, GameOver, s.State)
	assert.Equal(t, 3, s.Strikes)
	assert.Equal(t, 1, s.Hits)
	assert.Equal(t, 4, s.Rounds)
	assert.GreaterOrEqual(t, s.AlarmCycles, 2)
}

func TestRandSource(t *testing.T) {
	a := NewRandSource(42)
	b := NewRandSource(42)
	for range 100 {
		v := a.Draw(7)
		assert.Equal(t, v, b.Draw(7))
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting-next-round", AwaitingNextRound.String())
	assert.Equal(t, "awaiting-response", AwaitingResponse.String())
	assert.Equal(t, "game-over", GameOver.String())
}
