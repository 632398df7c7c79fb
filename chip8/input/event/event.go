package event

// Type is the phase of an input event.
type Type int

const (
	Press   Type = iota // went down, debounced for emulator actions
	Release             // went up, debounced for emulator actions
	Hold                // still down on a later frame, keypad keys only
)

func (t Type) String() string {
	switch t {
	case Press:
		return "press"
	case Release:
		return "release"
	case Hold:
		return "hold"
	default:
		return "unknown"
	}
}
