package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	registerHeight = 10
	disasmHeight   = 9
	minTermWidth   = 80
	minTermHeight  = 24
	logCapacity    = 200
)

// Key expiry timeout - terminals only report key presses, so a key counts as
// held while repeats keep arriving.
const keyTimeout = 150 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	newScreen  func() (tcell.Screen, error)
	logBuffer  *render.LogBuffer
	logLevel   *slog.LevelVar
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was seen
	activeKeys map[action.Action]bool      // Keys active in previous frame

	debugProvider backend.DebugDataProvider

	redraw   bool   // layout changed, the next frame is drawn even if clean
	seenLogs uint64 // log entries already on screen
}

// New creates a new terminal backend drawing on the real terminal
func New() *Backend {
	return &Backend{newScreen: tcell.NewScreen}
}

// NewWithScreen creates a backend drawing on the given screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{newScreen: func() (tcell.Screen, error) { return screen, nil }}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen

	// Logs would corrupt the screen, capture them into the side panel instead
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.logLevel = new(slog.LevelVar)
	if config.ShowDebug {
		t.logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()
	t.redraw = true

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
			t.redraw = true
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal, shutting down", "signal", sig)
		t.queue(action.EmulatorQuit)
	default:
	}

	events := t.keypadEvents(now)
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if t.needsRedraw(frame) {
		t.seenLogs = t.logBuffer.Added()
		t.render(frame)
		t.screen.Show()
		frame.MarkClean()
		t.redraw = false
	}

	return events, nil
}

// needsRedraw reports whether anything on screen changed since the last draw.
// The debug panels follow the CPU every frame.
func (t *Backend) needsRedraw(frame *video.FrameBuffer) bool {
	return t.redraw || frame.Dirty() || t.config.ShowDebug || t.logBuffer.Added() != t.seenLogs
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
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		t.redraw = true
		if t.config.ShowDebug {
			t.logLevel.Set(slog.LevelDebug)
			slog.Info("Debug display enabled")
		} else {
			t.logLevel.Set(slog.LevelInfo)
			slog.Info("Debug display disabled")
		}
	}
}

// keypadEvents turns the timestamps of recently seen keypad keys into
// press, hold and release events.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastSeen := range t.keyStates {
		if now.Sub(lastSeen) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		} else {
			slog.Debug("Key press", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

func (t *Backend) queue(act action.Action) {
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if act.IsKey() {
		t.keyStates[act] = now
		return
	}
	t.queue(act)
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF7:     "F7",
	tcell.KeyF8:     "F8",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings. Every
// single character key name is a rune, plus the space bar.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		if r := []rune(keyName); len(r) == 1 {
			mapping[r[0]] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := width + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	logsY := 1
	if t.config.ShowDebug && t.debugProvider != nil {
		if data := t.debugProvider.ExtractDebugData(); data != nil {
			t.drawRegisters(data, rightPanelX, 1, rightPanelWidth)
			t.drawDisassembly(data, rightPanelX, registerHeight+2, rightPanelWidth)
		}
		logsY = registerHeight + disasmHeight + 3
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	for i, ch := range []rune(render.Truncate(text, maxWidth)) {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " CHIP-8 "
	if t.config.Title != "" {
		title = fmt.Sprintf(" %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	startX := dividerX + 2
	if t.config.ShowDebug {
		registerEndY := registerHeight + 1
		disasmEndY := registerEndY + disasmHeight + 1
		for _, y := range []int{registerEndY, disasmEndY} {
			for x := dividerX + 1; x < termWidth; x++ {
				t.screen.SetContent(x, y, '─', nil, borderStyle)
			}
			t.screen.SetContent(dividerX, y, '├', nil, borderStyle)
		}

		t.drawText(startX, 0, termWidth-startX, " Registers ", titleStyle)
		t.drawText(startX, registerEndY, termWidth-startX, " Disassembly ", titleStyle)
		t.drawText(startX, disasmEndY, termWidth-startX, fmt.Sprintf(" Logs [%s] ", t.logLevel.Level()), titleStyle)
	} else {
		t.drawText(startX, 0, termWidth-startX, " Logs ", titleStyle)
	}

	help := " 1234/QWER/ASDF/ZXCV=keypad SPACE=pause F7=step F8=frame F9=snapshot F10=debug ESC=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

// drawScreen paints the framebuffer two rows per cell, starting below the title.
func (t *Backend) drawScreen(frame *video.FrameBuffer) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := frame.GetPixel(uint(x), uint(y))
			bottom := frame.GetPixel(uint(x), uint(y+1))
			t.screen.SetContent(x, y/2+1, render.GetHalfBlockChar(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(data *debug.Data, startX, startY, panelWidth int) {
	if panelWidth <= 0 {
		return
	}

	state := data.CPU
	lines := []string{
		fmt.Sprintf("Status: %s", data.DebuggerState),
		fmt.Sprintf("PC: 0x%03X  I: 0x%03X  SP: %d", state.PC, state.I, state.SP),
	}
	for row := 0; row < 4; row++ {
		base := row * 4
		lines = append(lines, fmt.Sprintf("V%X:%02X V%X:%02X V%X:%02X V%X:%02X",
			base, state.V[base], base+1, state.V[base+1], base+2, state.V[base+2], base+3, state.V[base+3]))
	}
	lines = append(lines,
		fmt.Sprintf("DT: %3d  ST: %3d  %s", state.DelayTimer, state.SoundTimer, soundLabel(state)),
		fmt.Sprintf("Waiting for key: %t", state.WaitingForKey),
		fmt.Sprintf("Cycles: %d", state.Cycles),
	)

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(startX, startY+i, panelWidth, line, style)
	}
}

func (t *Backend) drawDisassembly(data *debug.Data, startX, startY, panelWidth int) {
	if panelWidth <= 0 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range data.Disassembly {
		if i >= disasmHeight {
			break
		}

		isCurrent := line.Address == data.CPU.PC
		useStyle := style
		if isCurrent {
			useStyle = currentStyle
		}
		t.drawText(startX, startY+i, panelWidth, disasm.FormatDisassemblyLine(line, isCurrent), useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, panelWidth, termHeight int) {
	availableHeight := termHeight - startY - 1
	if panelWidth <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(availableHeight) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		t.drawText(startX, startY+i, panelWidth, render.FormatLogEntry(entry), style)
	}
}

func soundLabel(state cpu.State) string {
	if state.SoundActive() {
		return "BEEP"
	}
	return ""
}
