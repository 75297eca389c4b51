package backend

import (
	"log/slog"

	"github.com/valerio/go-tonematch/tonematch/game"
	"github.com/valerio/go-tonematch/tonematch/input"
	"github.com/valerio/go-tonematch/tonematch/input/action"
	"github.com/valerio/go-tonematch/tonematch/input/event"
)

// Pump runs a backend once per frame and feeds its events to the input
// manager. Its Frame method is meant to be the board's frame hook.
type Pump struct {
	backend Backend
	manager *input.Manager
	view    func() View
	quit    bool
}

// NewPump creates a pump. view is called every frame to build what the backend shows.
func NewPump(b Backend, m *input.Manager, view func() View) *Pump {
	p := &Pump{
		backend: b,
		manager: m,
		view:    view,
	}
	m.On(action.Quit, event.Press, func() {
		slog.Info("Quit requested")
		p.quit = true
	})

	if h, ok := b.(ActionHandler); ok {
		for _, act := range []action.Action{action.LogLevelIncrease, action.LogLevelDecrease} {
			m.On(act, event.Press, func() { h.HandleAction(act) })
		}
	}
	return p
}

// Frame updates the backend and dispatches its events. It returns
// game.ErrQuit once a quit was requested.
func (p *Pump) Frame() error {
	v := p.view()
	events, err := p.backend.Update(&v)
	if err != nil {
		return err
	}

	for _, evt := range events {
		p.manager.Trigger(evt.Action, evt.Type)
	}

	if p.quit {
		return game.ErrQuit
	}
	return nil
}
