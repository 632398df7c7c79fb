package debug

import (
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/disasm"
)

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerPaused:
		return "PAUSED"
	case DebuggerStepInstruction:
		return "STEP"
	case DebuggerStepFrame:
		return "FRAME"
	default:
		return "RUNNING"
	}
}

// Data contains all debug information needed by debug displays
type Data struct {
	CPU           cpu.State
	Disassembly   []disasm.DisassemblyLine
	DebuggerState DebuggerState
}
