package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

// ErrProgramTooLarge is returned when a program does not fit between
// addr.ProgramStart and the end of memory.
var ErrProgramTooLarge = errors.New("program too large")

// RAM is the 4 KiB byte addressable memory of the interpreter.
// Every access is masked to 12 bits, so addresses wrap at the end of memory.
type RAM struct {
	data [addr.MemorySize]byte
}

// New returns a RAM with the font table installed.
func New() *RAM {
	m := &RAM{}
	m.Reset()
	return m
}

// Reset zeroes memory and installs the font table at addr.FontBase.
func (m *RAM) Reset() {
	m.data = [addr.MemorySize]byte{}
	copy(m.data[addr.FontBase:], Font[:])
}

// Load copies a program at addr.ProgramStart. Memory is left untouched on error.
func (m *RAM) Load(program []byte) error {
	if len(program) > addr.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrProgramTooLarge, len(program), addr.MaxProgramSize)
	}

	copy(m.data[addr.ProgramStart:], program)
	return nil
}

func (m *RAM) Read(address uint16) byte {
	return m.data[address&addr.Mask]
}

func (m *RAM) Write(address uint16, value byte) {
	m.data[address&addr.Mask] = value
}

// ReadWord returns the big endian word at address and address+1.
func (m *RAM) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address), m.Read(address+1))
}

// ReadRange copies n bytes starting at address, wrapping at the end of memory.
func (m *RAM) ReadRange(address uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Read(address + uint16(i))
	}
	return out
}
