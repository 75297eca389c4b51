package backend

import (
	"time"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/game"
	"github.com/valerio/go-tonematch/tonematch/input/action"
	"github.com/valerio/go-tonematch/tonematch/input/event"
)

// Backend represents a front end for the board (status display + input).
// Backends are responsible for:
// - Showing the LED lines and the session state
// - Translating platform-specific input events to Actions
type Backend interface {
	// Init configures the backend. This is a required step before calling Update.
	Init(config Config) error

	// Update is called once per frame of board time. It shows the view and
	// returns the input events collected since the previous frame.
	Update(view *View) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that react to control actions
// themselves, such as changing the log filter.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// Config holds configuration for backends
type Config struct {
	Title           string
	StrikeThreshold int
}

// InputEvent is an action together with its edge.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// View is what a front end sees of the board on one frame.
type View struct {
	Frame   uint64
	Elapsed time.Duration

	LEDs    uint32 // output port snapshot, a set bit is a lit LED
	Playing bool   // a tone is being sequenced

	State       game.State
	LastPitch   audio.Pitch
	Rounds      int
	Strikes     int
	Hits        int
	AlarmCycles int
}

// NoteAction returns the button action that answers with p.
func NoteAction(p audio.Pitch) (action.Action, bool) {
	for i, s := range audio.Scale {
		if s == p {
			return action.Notes[i], true
		}
	}
	return 0, false
}
