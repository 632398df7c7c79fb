package cpu

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/memory"
)

var (
	// ErrProgramTooLarge is returned by LoadProgram for programs over 0xE00 bytes.
	ErrProgramTooLarge = memory.ErrProgramTooLarge
	// ErrStackOverflow is returned when a call is made with all 16 stack slots in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrPCOutOfRange is returned when the PC cannot address a full instruction.
	ErrPCOutOfRange = errors.New("program counter out of range")
)

// UnimplementedOpcodeError reports an instruction word with no mapped operation.
type UnimplementedOpcodeError struct {
	Word uint16
	PC   uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%04X at 0x%03X", e.Word, e.PC)
}

// CollaboratorError wraps a failure coming from the display or the keypad.
// Unwrap returns the original error untouched.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
