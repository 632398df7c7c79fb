//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultScale  = 10
	bytesPerPixel = 4
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.BackendConfig
	pixels   []byte
	events   []backend.InputEvent
	redraw   bool
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferWidth*video.FramebufferHeight*bytesPerPixel),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	if config.Scale <= 0 {
		config.Scale = defaultScale
	}
	s.config = config

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*config.Scale),
		int32(video.FramebufferHeight*config.Scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture
	s.redraw = true

	slog.Info("SDL2 backend initialized", "scale", config.Scale)
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if s.redraw || frame.Dirty() {
		if err := s.renderFrame(frame); err != nil {
			return nil, err
		}
		frame.MarkClean()
		s.redraw = false
	}
	if s.config.ShowDebug {
		s.updateTitle()
	}

	events := s.events
	s.events = nil
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	if act != action.EmulatorDebugToggle {
		return
	}

	s.config.ShowDebug = !s.config.ShowDebug
	if !s.config.ShowDebug {
		s.window.SetTitle(s.config.Title)
	}
	slog.Info("Debug title toggled", "enabled", s.config.ShowDebug)
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.push(action.EmulatorQuit, event.Press)

	case *sdl.WindowEvent:
		// exposed or resized windows lose their contents
		s.redraw = true

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		switch {
		case e.Type == sdl.KEYUP:
			// only keypad keys have a meaningful release
			if act.IsKey() {
				s.push(act, event.Release)
			}
		case e.Repeat != 0:
			if act.IsKey() {
				s.push(act, event.Hold)
			}
		default:
			s.push(act, event.Press)
		}
	}
}

func (s *Backend) push(act action.Action, typ event.Type) {
	s.events = append(s.events, backend.InputEvent{Action: act, Type: typ})
}

// sdlKeyNameMap converts SDL keys to key names used in default mappings
var sdlKeyNameMap = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",

	sdl.K_SPACE:  "Space",
	sdl.K_F5:     "F5",
	sdl.K_F7:     "F7",
	sdl.K_F8:     "F8",
	sdl.K_F9:     "F9",
	sdl.K_F10:    "F10",
	sdl.K_ESCAPE: "Escape",
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}

// keyMapping maps SDL2 keys to actions
var keyMapping = buildKeyMapping()

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	// RGBA8888 is a packed format, on little-endian hosts the bytes are ABGR
	for i, pixel := range frame.ToSlice() {
		idx := i * bytesPerPixel
		s.pixels[idx] = byte(pixel >> 24)   // Alpha
		s.pixels[idx+1] = byte(pixel)       // Blue
		s.pixels[idx+2] = byte(pixel >> 8)  // Green
		s.pixels[idx+3] = byte(pixel >> 16) // Red
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	if err := s.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear renderer: %w", err)
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy texture: %w", err)
	}
	s.renderer.Present()

	return nil
}

func (s *Backend) updateTitle() {
	if s.config.DebugProvider == nil {
		return
	}
	data := s.config.DebugProvider.ExtractDebugData()
	if data == nil {
		return
	}

	title := fmt.Sprintf("%s [%s] PC=0x%03X I=0x%03X DT=%d ST=%d",
		s.config.Title, data.DebuggerState, data.CPU.PC, data.CPU.I, data.CPU.DelayTimer, data.CPU.SoundTimer)
	if data.CPU.SoundActive() {
		title += " BEEP"
	}
	s.window.SetTitle(title)
}
