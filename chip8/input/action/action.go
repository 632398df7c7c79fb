package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 hex keypad, Key0 through KeyF map to keys 0x0-0xF
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryKeypad Category = iota
	CategoryEmulator
)

// Info describes an action for logs and help screens.
type Info struct {
	Category    Category
	Description string
}

var descriptions = map[Action]string{
	EmulatorDebugToggle:     "Toggle debug panels",
	EmulatorSnapshot:        "Save a frame snapshot",
	EmulatorPauseToggle:     "Pause/resume",
	EmulatorStepFrame:       "Step one frame",
	EmulatorStepInstruction: "Step one instruction",
	EmulatorReset:           "Reload the program",
	EmulatorQuit:            "Quit",
}

// IsKey reports whether the action is one of the 16 keypad keys.
func (a Action) IsKey() bool {
	return a >= Key0 && a <= KeyF
}

// Key returns the keypad value of a key action.
func (a Action) Key() uint8 {
	return uint8(a - Key0)
}

// FromKey returns the action for keypad key k.
func FromKey(k uint8) Action {
	return Key0 + Action(k&0x0F)
}

// GetInfo returns the category and description of an action.
func GetInfo(a Action) Info {
	if a.IsKey() {
		return Info{Category: CategoryKeypad, Description: fmt.Sprintf("Key %X", a.Key())}
	}
	return Info{Category: CategoryEmulator, Description: descriptions[a]}
}

func (a Action) String() string {
	return GetInfo(a).Description
}
