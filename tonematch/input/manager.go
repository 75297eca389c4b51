package input

import (
	"time"

	"github.com/valerio/go-tonematch/tonematch/input/action"
	"github.com/valerio/go-tonematch/tonematch/input/event"
	"github.com/valerio/go-tonematch/tonematch/pins"
)

const (
	// debounceDuration is the minimum time between repeated control events
	debounceDuration = 300 * time.Millisecond
)

// Buttons is the board side of the note buttons.
type Buttons interface {
	Press(line uint8)
	Release(line uint8)
}

// Manager handles input actions: note actions move the board's button lines,
// everything else goes to registered callbacks.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	buttons       Buttons
	now           func() time.Time
}

func NewManager(b Buttons) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		buttons:       b,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if line, ok := buttonLine(act); ok {
		if m.buttons == nil {
			return
		}
		switch evt {
		case event.Press:
			m.buttons.Press(line)
		case event.Release:
			m.buttons.Release(line)
		}
		return
	}

	// Debounce control Press and Release events
	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		if last, ok := m.lastTriggered[act][evt]; ok && now.Sub(last) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// buttonLine maps note actions to the board's button input lines
func buttonLine(act action.Action) (uint8, bool) {
	switch act {
	case action.NoteC:
		return pins.ButtonC, true
	case action.NoteD:
		return pins.ButtonD, true
	case action.NoteE:
		return pins.ButtonE, true
	case action.NoteF:
		return pins.ButtonF, true
	case action.NoteG:
		return pins.ButtonG, true
	case action.NoteA:
		return pins.ButtonA, true
	case action.NoteB:
		return pins.ButtonB, true
	default:
		return 0, false
	}
}
