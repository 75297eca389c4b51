package action

// Action represents input actions a front end can trigger
type Action int

const (
	// Note buttons
	NoteC Action = iota
	NoteD
	NoteE
	NoteF
	NoteG
	NoteA
	NoteB

	// Application controls
	Quit
	LogLevelIncrease
	LogLevelDecrease
)

// Category groups actions by how front ends treat them
type Category int

const (
	// CategoryButton actions hold a board button down while the key is held
	CategoryButton Category = iota
	// CategoryControl actions fire once per key press
	CategoryControl
)

// Info describes an action
type Info struct {
	Category    Category
	Description string
}

var infos = map[Action]Info{
	NoteC:            {CategoryButton, "Button C"},
	NoteD:            {CategoryButton, "Button D"},
	NoteE:            {CategoryButton, "Button E"},
	NoteF:            {CategoryButton, "Button F"},
	NoteG:            {CategoryButton, "Button G"},
	NoteA:            {CategoryButton, "Button A"},
	NoteB:            {CategoryButton, "Button B"},
	Quit:             {CategoryControl, "Quit"},
	LogLevelIncrease: {CategoryControl, "More verbose logging"},
	LogLevelDecrease: {CategoryControl, "Less verbose logging"},
}

// GetInfo returns the description of an action
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Category: CategoryControl, Description: "Unknown"}
}

// Notes lists the note button actions in scale order
var Notes = []Action{NoteC, NoteD, NoteE, NoteF, NoteG, NoteA, NoteB}
