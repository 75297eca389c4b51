package input

import "github.com/valerio/go-tonematch/tonematch/input/action"

// DefaultKeyMap provides default key mappings that work across front ends.
// The home row plays the scale left to right; the number row is an alternative.
var DefaultKeyMap = map[string]action.Action{
	"a": action.NoteC,
	"s": action.NoteD,
	"d": action.NoteE,
	"f": action.NoteF,
	"g": action.NoteG,
	"h": action.NoteA,
	"j": action.NoteB,

	"1": action.NoteC,
	"2": action.NoteD,
	"3": action.NoteE,
	"4": action.NoteF,
	"5": action.NoteG,
	"6": action.NoteA,
	"7": action.NoteB,

	"Escape": action.Quit,
	"q":      action.Quit,

	"+": action.LogLevelIncrease,
	"=": action.LogLevelIncrease, // Alternative without shift
	"-": action.LogLevelDecrease,
	"_": action.LogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
