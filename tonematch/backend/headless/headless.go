package headless

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/backend"
	"github.com/valerio/go-tonematch/tonematch/game"
	"github.com/valerio/go-tonematch/tonematch/input/action"
	"github.com/valerio/go-tonematch/tonematch/input/event"
)

// ErrBadScript indicates an answer script entry that is neither ok nor miss.
var ErrBadScript = errors.New("headless: invalid answer script")

// Answer is one scripted response.
type Answer int

const (
	Correct Answer = iota
	Wrong
)

func (a Answer) String() string {
	if a == Correct {
		return "ok"
	}
	return "miss"
}

// ParseScript reads a comma separated list of "ok" and "miss".
func ParseScript(s string) ([]Answer, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var answers []Answer
	for _, field := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "ok", "hit":
			answers = append(answers, Correct)
		case "miss", "wrong":
			answers = append(answers, Wrong)
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadScript, field)
		}
	}
	return answers, nil
}

// Backend plays the game unattended: it answers each round from a script,
// missing once the script runs out, and quits once the alarm has sounded
// or after maxFrames frames.
type Backend struct {
	config      backend.Config
	frameCount  int
	maxFrames   int // 0 runs until the alarm
	alarmCycles int

	script   []Answer
	answered int
	held     *action.Action
}

func New(maxFrames int, script []Answer) *Backend {
	return &Backend{
		maxFrames:   maxFrames,
		alarmCycles: 1,
		script:      script,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	// Set up debug logging for headless mode
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"script", len(h.script),
		"threshold", config.StrikeThreshold)
	return nil
}

// Update answers pending rounds and signals completion via a quit event.
func (h *Backend) Update(view *backend.View) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	h.frameCount++

	// a held button is let go on the following frame
	if h.held != nil {
		events = append(events, backend.InputEvent{Action: *h.held, Type: event.Release})
		h.held = nil
	} else if view.State == game.AwaitingResponse && !view.Playing && h.answered < view.Rounds {
		act := h.respond(view)
		h.answered = view.Rounds
		h.held = &act
		events = append(events, backend.InputEvent{Action: act, Type: event.Press})
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "rounds", view.Rounds, "strikes", view.Strikes)
	}

	switch {
	case view.State == game.GameOver && view.AlarmCycles >= h.alarmCycles:
		slog.Info("Headless execution completed", "frames", h.frameCount, "rounds", view.Rounds, "hits", view.Hits)
		events = append(events, backend.InputEvent{Action: action.Quit, Type: event.Press})
	case h.maxFrames > 0 && h.frameCount >= h.maxFrames:
		slog.Info("Headless frame limit reached", "frames", h.maxFrames)
		events = append(events, backend.InputEvent{Action: action.Quit, Type: event.Press})
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns the number of frames seen.
func (h *Backend) Frames() int {
	return h.frameCount
}

// respond picks the button for the current round.
func (h *Backend) respond(view *backend.View) action.Action {
	answer := Wrong
	if idx := view.Rounds - 1; idx < len(h.script) {
		answer = h.script[idx]
	}

	p := view.LastPitch
	if answer == Wrong {
		p = neighbour(p)
	}
	slog.Debug("Scripted answer", "round", view.Rounds, "answer", answer, "pitch", p.String())

	act, ok := backend.NoteAction(p)
	if !ok {
		// only scale notes have buttons
		act = action.NoteC
	}
	return act
}

// neighbour returns the next scale note after p.
func neighbour(p audio.Pitch) audio.Pitch {
	for i, s := range audio.Scale {
		if s == p {
			return audio.Scale[(i+1)%len(audio.Scale)]
		}
	}
	return audio.Scale[0]
}
