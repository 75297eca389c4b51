package game

import (
	"fmt"

	"github.com/valerio/go-tonematch/tonematch/audio"
)

// State is the round state of a session.
type State int

const (
	AwaitingNextRound State = iota
	AwaitingResponse
	GameOver
)

func (s State) String() string {
	switch s {
	case AwaitingNextRound:
		return "awaiting-next-round"
	case AwaitingResponse:
		return "awaiting-response"
	case GameOver:
		return "game-over"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is the mutable game state, owned by the Machine.
type Session struct {
	State     State
	LastPitch audio.Pitch
	Strikes   int

	// bookkeeping for front ends
	Rounds      int
	Hits        int
	DemoPlayed  bool
	AlarmCycles int
}

// NewSession creates a fresh session waiting for its first round.
func NewSession() *Session {
	return &Session{State: AwaitingNextRound}
}
