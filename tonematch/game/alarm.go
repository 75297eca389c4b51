package game

import (
	"errors"
	"log/slog"
	"time"

	"github.com/valerio/go-tonematch/tonematch/audio"
)

// ErrNotOver indicates the alarm was requested before the session ended.
var ErrNotOver = errors.New("game: alarm requires a finished session")

// RunAlarm is the terminal action of a finished session. It alternates the
// top and the root of the scale with the LEDs flashing, shortening each
// cycle until the floor is reached, and keeps going until the host stops it.
func (m *Machine) RunAlarm() error {
	if m.session.State != GameOver {
		return ErrNotOver
	}

	top := audio.Scale[len(audio.Scale)-1]
	root := audio.Scale[0]

	slog.Info("Alarm started", "strikes", m.session.Strikes)
	for {
		d := m.AlarmDuration(m.session.AlarmCycles)

		m.indicateGameOver()
		if err := m.play(top, d); err != nil {
			return err
		}
		m.lines.ClearLines()
		if err := m.play(root, d); err != nil {
			return err
		}

		m.session.AlarmCycles++
		if m.session.AlarmCycles%10 == 0 {
			slog.Debug("Alarm running", "cycles", m.session.AlarmCycles, "note", d)
		}
	}
}

// AlarmDuration returns the note length of the given alarm cycle: three
// quarters of the previous cycle, never below the floor.
func (m *Machine) AlarmDuration(cycle int) time.Duration {
	d := m.settings.AlarmStart
	for i := 0; i < cycle && d > m.settings.AlarmFloor; i++ {
		d = d * 3 / 4
	}
	return max(d, m.settings.AlarmFloor)
}
