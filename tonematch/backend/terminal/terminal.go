package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/backend"
	"github.com/valerio/go-tonematch/tonematch/backend/terminal/render"
	"github.com/valerio/go-tonematch/tonematch/game"
	"github.com/valerio/go-tonematch/tonematch/input"
	"github.com/valerio/go-tonematch/tonematch/input/action"
	"github.com/valerio/go-tonematch/tonematch/input/event"
	"github.com/valerio/go-tonematch/tonematch/pins"
)

const (
	minTermWidth  = 60
	minTermHeight = 16

	ledRowY    = 2
	statusY    = 5
	logsTitleY = 8

	// spacing between LEDs on the LED row
	ledSpacing = 6
)

// Key expiry timeout, slightly longer than typical key repeat interval
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.Config
	eventQueue []backend.InputEvent // Collect events to return
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	now func() time.Time
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
		now:      time.Now,
	}
}

// NewWithScreen creates a terminal backend drawing on an existing screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	return t
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.running = true

	// Route logs to the log panel
	t.logBuffer = render.NewLogBuffer(100)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))
	slog.Info("Terminal backend initialized", "threshold", config.StrikeThreshold)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	// Set up signal handling for graceful shutdown
	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders the view and processes events
func (t *Backend) Update(view *backend.View) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := t.now()

	// Poll for input events synchronously
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.Quit, Type: event.Press})
	default:
	}

	// Track which buttons are currently held this frame
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true

			if !t.activeKeys[act] {
				slog.Debug("Key press", "action", action.GetInfo(act).Description)
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			} else {
				events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		} else {
			delete(t.keyStates, act)
		}
	}

	// Buttons active last frame but not this frame are released
	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.render(view)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.LogLevelIncrease:
		t.changeLogLevel(1)
	case action.LogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel returns the level the log panel filters at.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if act, exists := keyMapping[ev.Key()]; exists {
		t.queue(act, now)
		return
	}

	if ev.Key() == tcell.KeyRune {
		if act, exists := runeMapping[unicode.ToLower(ev.Rune())]; exists {
			t.queue(act, now)
		}
	}
}

// queue records a key: buttons are held until the key stops repeating,
// controls fire once.
func (t *Backend) queue(act action.Action, now time.Time) {
	if act == action.Quit {
		t.running = false
	}

	info := action.GetInfo(act)
	if info.Category == action.CategoryButton {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.Quit
	return mapping
}

// buildRuneMapping creates the rune mapping from the single character default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		if utf8.RuneCountInString(keyName) != 1 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(keyName)
		mapping[r] = act
	}
	return mapping
}

var keyMapping = buildKeyMapping()

var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(view *backend.View) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		t.drawText(0, termHeight/2, termWidth, fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight), style)
		return
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	title := t.config.Title
	if title == "" {
		title = "Tone Match"
	}
	t.drawText(1, 0, termWidth-1, " "+title+" ", titleStyle)

	t.drawLEDs(view, termWidth)
	t.drawStatus(view, termWidth)

	for x := 0; x < termWidth; x++ {
		t.screen.SetContent(x, logsTitleY-1, '─', nil, borderStyle)
	}
	levelStr := "INFO"
	switch t.logLevel {
	case slog.LevelDebug:
		levelStr = "DEBUG"
	case slog.LevelWarn:
		levelStr = "WARN"
	case slog.LevelError:
		levelStr = "ERROR"
	}
	t.drawText(1, logsTitleY, termWidth-1, fmt.Sprintf(" Logs [%s] (-/+ filter) ", levelStr), titleStyle)
	t.drawLogs(1, logsTitleY+1, termWidth-2, termHeight)

	help := " Keys: A S D F G H J (or 1-7) = C D E F G A B | Q/ESC quit | +/- logs "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

// drawLEDs shows one lamp per scale note, lit when its output line is high.
func (t *Backend) drawLEDs(view *backend.View, termWidth int) {
	offStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	onStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	if view.State == game.GameOver {
		onStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	}

	for i, p := range audio.Scale {
		x := 2 + i*ledSpacing
		if x+2 >= termWidth {
			break
		}

		lamp, style := '○', offStyle
		if line, ok := pins.LineFor(p); ok && view.LEDs&(1<<line) != 0 {
			lamp, style = '●', onStyle
		}
		t.screen.SetContent(x, ledRowY, lamp, nil, style)
		t.drawText(x, ledRowY+1, ledSpacing, p.String(), offStyle)
	}
}

func (t *Backend) drawStatus(view *backend.View, termWidth int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	status := fmt.Sprintf("State: %-20s Round: %-4d Strikes: %d/%d  Hits: %d",
		view.State, view.Rounds, view.Strikes, t.config.StrikeThreshold, view.Hits)
	t.drawText(2, statusY, termWidth-2, status, style)

	var detail string
	switch {
	case view.State == game.GameOver:
		detail = fmt.Sprintf("GAME OVER, alarm cycle %d. Press Q to quit.", view.AlarmCycles)
		style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case view.Playing:
		detail = "Listen..."
	case view.State == game.AwaitingResponse:
		detail = "Which note was it?"
		style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	detail = fmt.Sprintf("%-44s %8.1fs", detail, view.Elapsed.Seconds())
	t.drawText(2, statusY+1, termWidth-2, detail, style)
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	allLogs := t.logBuffer.GetRecent(availableHeight * 2)
	logs := make([]render.LogEntry, 0, availableHeight)
	for _, entry := range allLogs {
		if entry.Level >= t.logLevel {
			logs = append(logs, entry)
			if len(logs) >= availableHeight {
				break
			}
		}
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		logText := render.FormatLogEntry(logEntry)
		if utf8.RuneCountInString(logText) > width && width > 3 {
			logText = string([]rune(logText)[:width-3]) + "..."
		}
		t.drawText(startX, startY+i, width, logText, style)
	}
}

// drawText writes s from (x, y), clipped to width cells.
func (t *Backend) drawText(x, y, width int, s string, style tcell.Style) {
	i := 0
	for _, ch := range s {
		if i >= width {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
