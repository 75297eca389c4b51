package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/input"
	"github.com/valerio/go-tonematch/tonematch/pins"
)

var (
	// ErrQuit is returned by a Host to stop the foreground program.
	ErrQuit = errors.New("game: quit requested")
	// ErrGameOver indicates an operation attempted after the session ended.
	ErrGameOver = errors.New("game: session is over")
	// ErrResponsePending indicates a new round was requested before answering the last.
	ErrResponsePending = errors.New("game: previous round not answered")
	// ErrNoPendingRound indicates a response with no round to answer.
	ErrNoPendingRound = errors.New("game: no round awaiting a response")
	// ErrBadDraw indicates the random source broke its contract.
	ErrBadDraw = errors.New("game: random draw out of range")
)

// Host is what the foreground program runs on. Idle is one spin of a busy
// wait; Elapsed is the time since power on.
type Host interface {
	Idle() error
	Elapsed() time.Duration
}

// Lines drives the discrete output lines (the LEDs).
type Lines interface {
	SetLine(line uint8, level bool)
	ClearLines()
}

// Port reads all button lines at once.
type Port interface {
	ReadSnapshot() uint32
}

// Settings are the game's tunables.
type Settings struct {
	TickClockHz     uint32
	RoundDuration   time.Duration
	DemoDuration    time.Duration
	Pause           time.Duration
	StrikeThreshold int
	AlarmStart      time.Duration
	AlarmFloor      time.Duration
	SkipDemo        bool
}

// DefaultSettings returns the tunings the board ships with.
func DefaultSettings() Settings {
	return Settings{
		TickClockHz:     audio.DefaultTickClockHz,
		RoundDuration:   time.Second,
		DemoDuration:    250 * time.Millisecond,
		Pause:           500 * time.Millisecond,
		StrikeThreshold: 3,
		AlarmStart:      400 * time.Millisecond,
		AlarmFloor:      60 * time.Millisecond,
	}
}

// Verdict is the outcome of one response.
type Verdict struct {
	Expected audio.Pitch
	Observed audio.Pitch
	Correct  bool
	Strikes  int
	GameOver bool
}

// Machine is the round state machine. It decides what to play next and
// scores responses; tone timing is left entirely to the sequencer.
type Machine struct {
	settings Settings
	session  *Session

	seq     *audio.Sequencer
	host    Host
	lines   Lines
	port    Port
	source  Source
	decoder *input.Decoder

	// pick chooses the next round's pitch
	pick func() (audio.Pitch, error)
}

// NewMachine creates a machine with a fresh session.
func NewMachine(settings Settings, seq *audio.Sequencer, host Host, lines Lines, port Port, source Source) (*Machine, error) {
	if settings.StrikeThreshold < 1 {
		return nil, fmt.Errorf("game: strike threshold must be at least 1, got %d", settings.StrikeThreshold)
	}

	decoder := input.NewDecoder(pins.LineToPitch)
	if err := decoder.Validate(pins.ButtonMask); err != nil {
		return nil, err
	}

	m := &Machine{
		settings: settings,
		session:  NewSession(),
		seq:      seq,
		host:     host,
		lines:    lines,
		port:     port,
		source:   source,
		decoder:  decoder,
	}
	m.pick = m.drawFromScale
	return m, nil
}

func (m *Machine) drawFromScale() (audio.Pitch, error) {
	n := m.source.Draw(len(audio.Scale))
	if n < 0 || n >= len(audio.Scale) {
		return 0, fmt.Errorf("%w: %d", ErrBadDraw, n)
	}
	return audio.Scale[n], nil
}

// Session returns the live session state.
func (m *Machine) Session() *Session {
	return m.session
}

// StartDemo plays the scale up and back down, lighting each note's LED.
func (m *Machine) StartDemo() error {
	slog.Info("Playing demo", "notes", 2*len(audio.Scale)-1, "duration", m.settings.DemoDuration)

	for i := 0; i < len(audio.Scale); i++ {
		if err := m.demoNote(audio.Scale[i]); err != nil {
			return err
		}
	}
	for i := len(audio.Scale) - 2; i >= 0; i-- {
		if err := m.demoNote(audio.Scale[i]); err != nil {
			return err
		}
	}

	m.lines.ClearLines()
	m.session.DemoPlayed = true
	return m.pause(m.settings.Pause)
}

func (m *Machine) demoNote(p audio.Pitch) error {
	m.light(p)
	return m.play(p, m.settings.DemoDuration)
}

// NextRound draws a pitch from the scale and plays it, returning once the
// tone has finished.
func (m *Machine) NextRound() (audio.Pitch, error) {
	switch m.session.State {
	case GameOver:
		return 0, ErrGameOver
	case AwaitingResponse:
		return 0, ErrResponsePending
	}

	p, err := m.pick()
	if err != nil {
		return 0, err
	}

	m.session.LastPitch = p
	m.session.State = AwaitingResponse
	m.session.Rounds++

	slog.Info("Round started", "round", m.session.Rounds, "strikes", m.session.Strikes)
	slog.Debug("Round pitch", "pitch", p.String(), "hz", p.Hz())

	return p, m.play(p, m.settings.RoundDuration)
}

// SubmitResponse scores an answer to the current round. A wrong answer adds
// a strike and blinks the right note; a right one just pauses.
func (m *Machine) SubmitResponse(observed audio.Pitch) (Verdict, error) {
	switch m.session.State {
	case GameOver:
		return Verdict{}, ErrGameOver
	case AwaitingNextRound:
		return Verdict{}, ErrNoPendingRound
	}

	v := Verdict{
		Expected: m.session.LastPitch,
		Observed: observed,
		Correct:  observed == m.session.LastPitch,
	}
	if v.Correct {
		m.session.Hits++
	} else {
		m.session.Strikes++
	}
	v.Strikes = m.session.Strikes
	v.GameOver = m.session.Strikes >= m.settings.StrikeThreshold

	if v.GameOver {
		m.session.State = GameOver
	} else {
		m.session.State = AwaitingNextRound
	}

	slog.Info("Response",
		"expected", v.Expected.String(),
		"observed", v.Observed.String(),
		"correct", v.Correct,
		"strikes", v.Strikes)

	var err error
	if v.Correct {
		err = m.pause(m.settings.Pause)
	} else {
		err = m.blink(v.Expected)
	}
	if err != nil {
		return v, err
	}

	if v.GameOver {
		slog.Warn("Game over", "rounds", m.session.Rounds, "hits", m.session.Hits)
		m.indicateGameOver()
	}
	return v, nil
}

// AwaitResponse spins on the button port until a button goes down, then
// until every button is released, and returns the pitch pressed.
func (m *Machine) AwaitResponse() (audio.Pitch, error) {
	var reading input.Reading
	for {
		reading = m.decoder.Decode(m.port.ReadSnapshot(), pins.ButtonMask)
		if reading.Status != input.NoSignal {
			break
		}
		if err := m.host.Idle(); err != nil {
			return 0, err
		}
	}

	if reading.Status == input.Ambiguous {
		slog.Warn("Several buttons pressed, taking the lowest line", "line", reading.Line, "pitch", reading.Pitch.String())
	}

	for m.decoder.Decode(m.port.ReadSnapshot(), pins.ButtonMask).Status != input.NoSignal {
		if err := m.host.Idle(); err != nil {
			return 0, err
		}
	}
	return reading.Pitch, nil
}

// Run is the foreground program: the demo, then rounds until the strike
// threshold, then the alarm. It only returns with an error, ErrQuit for a
// requested shutdown.
func (m *Machine) Run() error {
	if !m.settings.SkipDemo && !m.session.DemoPlayed {
		if err := m.StartDemo(); err != nil {
			return err
		}
	}

	for m.session.State != GameOver {
		if _, err := m.NextRound(); err != nil {
			return err
		}
		p, err := m.AwaitResponse()
		if err != nil {
			return err
		}
		if _, err := m.SubmitResponse(p); err != nil {
			return err
		}
	}

	return m.RunAlarm()
}

// play sounds p for d and blocks until the sequencer disarms.
func (m *Machine) play(p audio.Pitch, d time.Duration) error {
	timing, err := audio.ComputeTone(p.Hz(), d, m.settings.TickClockHz, audio.SamplesPerCycle)
	if err != nil {
		return fmt.Errorf("game: cannot play %s: %w", p, err)
	}
	if err := m.seq.Arm(timing); err != nil {
		return fmt.Errorf("game: cannot play %s: %w", p, err)
	}
	return m.seq.Wait(m.host.Idle)
}

// pause busy-waits for d of board time.
func (m *Machine) pause(d time.Duration) error {
	start := m.host.Elapsed()
	for m.host.Elapsed()-start < d {
		if err := m.host.Idle(); err != nil {
			return err
		}
	}
	return nil
}

// light turns on p's LED and every other LED off.
func (m *Machine) light(p audio.Pitch) {
	m.lines.ClearLines()
	if line, ok := pins.LineFor(p); ok {
		m.lines.SetLine(line, true)
	}
}

func (m *Machine) blink(p audio.Pitch) error {
	m.light(p)
	err := m.pause(m.settings.Pause)
	m.lines.ClearLines()
	return err
}

func (m *Machine) indicateGameOver() {
	for _, p := range audio.Scale {
		if line, ok := pins.LineFor(p); ok {
			m.lines.SetLine(line, true)
		}
	}
}
