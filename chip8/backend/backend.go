package backend

import (
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (debug panels, snapshots)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the provided frame and returns the input events
	// collected since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that react to emulator actions,
// such as toggling their debug panels.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// InputEvent is a host input translated to an emulator action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// DebugDataProvider gives backends access to the interpreter state.
type DebugDataProvider interface {
	ExtractDebugData() *debug.Data
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title         string
	Scale         int
	ShowDebug     bool   // Backends may ignore unsupported features
	SnapshotDir   string // Where the snapshot hotkey writes PNGs, empty means cwd
	DebugProvider DebugDataProvider
}
