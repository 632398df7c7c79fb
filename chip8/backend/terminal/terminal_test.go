package terminal

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

type staticProvider struct {
	data *debug.Data
}

func (p staticProvider) ExtractDebugData() *debug.Data { return p.data }

func newSimBackend(t *testing.T, config backend.BackendConfig) (*Backend, tcell.SimulationScreen) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(screen)
	require.NoError(t, b.Init(config))
	t.Cleanup(func() { _ = b.Cleanup() })
	screen.SetSize(160, 40)

	return b, screen
}

func screenText(screen tcell.SimulationScreen) string {
	cells, w, h := screen.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			runes := cells[y*w+x].Runes
			if len(runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(runes[0])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func cellRune(screen tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := screen.GetContents()
	runes := cells[y*w+x].Runes
	if len(runes) == 0 {
		return ' '
	}
	return runes[0]
}

func TestTerminal_KeypadPressHoldRelease(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{})
	frame := video.NewFrameBuffer()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	events, err := b.Update(frame)
	require.NoError(t, err)
	assert.Contains(t, events, backend.InputEvent{Action: action.Key0, Type: event.Press})

	events, err = b.Update(frame)
	require.NoError(t, err)
	assert.Contains(t, events, backend.InputEvent{Action: action.Key0, Type: event.Hold})

	time.Sleep(keyTimeout + 20*time.Millisecond)
	events, err = b.Update(frame)
	require.NoError(t, err)
	assert.Contains(t, events, backend.InputEvent{Action: action.Key0, Type: event.Release})
}

func TestTerminal_EmulatorKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want action.Action
	}{
		{"escape quits", tcell.KeyEscape, 0, action.EmulatorQuit},
		{"ctrl-c quits", tcell.KeyCtrlC, 0, action.EmulatorQuit},
		{"space pauses", tcell.KeyRune, ' ', action.EmulatorPauseToggle},
		{"F7 steps", tcell.KeyF7, 0, action.EmulatorStepInstruction},
		{"F9 snapshots", tcell.KeyF9, 0, action.EmulatorSnapshot},
		{"F10 toggles debug", tcell.KeyF10, 0, action.EmulatorDebugToggle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, screen := newSimBackend(t, backend.BackendConfig{})

			screen.InjectKey(tt.key, tt.r, tcell.ModNone)
			events, err := b.Update(video.NewFrameBuffer())
			require.NoError(t, err)
			assert.Equal(t, []backend.InputEvent{{Action: tt.want, Type: event.Press}}, events)
		})
	}
}

func TestTerminal_UnmappedKeyIgnored(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{})

	screen.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)
	events, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTerminal_RendersHalfBlocks(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{})

	frame := video.NewFrameBuffer()
	frame.SetPixel(0, 0, true)
	frame.SetPixel(1, 1, true)
	frame.SetPixel(2, 0, true)
	frame.SetPixel(2, 1, true)

	_, err := b.Update(frame)
	require.NoError(t, err)

	assert.Equal(t, '▀', cellRune(screen, 0, 1))
	assert.Equal(t, '▄', cellRune(screen, 1, 1))
	assert.Equal(t, '█', cellRune(screen, 2, 1))
	assert.Equal(t, ' ', cellRune(screen, 3, 1))
}

func TestTerminal_DebugPanels(t *testing.T) {
	state := cpu.State{PC: 0x202, I: 0x2F0, SoundTimer: 3}
	state.V[0xA] = 0x0F
	provider := staticProvider{data: &debug.Data{
		CPU: state,
		Disassembly: []disasm.DisassemblyLine{
			{Address: 0x200, Word: 0x6A0F, Instruction: "LD VA, 0x0F"},
			{Address: 0x202, Word: 0xA2F0, Instruction: "LD I, 0x2F0"},
		},
		DebuggerState: debug.DebuggerPaused,
	}}

	b, screen := newSimBackend(t, backend.BackendConfig{DebugProvider: provider})
	frame := video.NewFrameBuffer()

	_, err := b.Update(frame)
	require.NoError(t, err)
	assert.NotContains(t, screenText(screen), "Status: PAUSED")

	b.HandleAction(action.EmulatorDebugToggle)
	_, err = b.Update(frame)
	require.NoError(t, err)

	text := screenText(screen)
	assert.Contains(t, text, "Status: PAUSED")
	assert.Contains(t, text, "PC: 0x202  I: 0x2F0")
	assert.Contains(t, text, "VA:0F")
	assert.Contains(t, text, "ST:   3  BEEP")
	assert.Contains(t, text, "→0x202: A2F0  LD I, 0x2F0")
}

func TestTerminal_SkipsCleanFrames(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{})
	frame := video.NewFrameBuffer()

	_, err := b.Update(frame)
	require.NoError(t, err)
	assert.False(t, frame.Dirty())

	// a clean frame leaves the screen untouched
	screen.SetContent(0, 1, 'X', nil, tcell.StyleDefault)
	screen.Show()
	_, err = b.Update(frame)
	require.NoError(t, err)
	assert.Equal(t, 'X', cellRune(screen, 0, 1))

	frame.SetPixel(0, 0, true)
	_, err = b.Update(frame)
	require.NoError(t, err)
	assert.Equal(t, '▀', cellRune(screen, 0, 1))
	assert.False(t, frame.Dirty())
}

func TestTerminal_RedrawsOnNewLogs(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{})
	frame := video.NewFrameBuffer()

	_, err := b.Update(frame)
	require.NoError(t, err)

	slog.Info("rom reloaded")
	_, err = b.Update(frame)
	require.NoError(t, err)
	assert.Contains(t, screenText(screen), "rom reloaded")
}

func TestTerminal_CapturesLogs(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{})

	slog.Info("program loaded")
	_, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)

	assert.Contains(t, screenText(screen), "program loaded")
}

func TestTerminalImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
}
