package disasm

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// InstructionLength is the size in bytes of every CHIP-8 instruction.
const InstructionLength = 2

// MemoryReader gives read access to interpreter memory.
type MemoryReader interface {
	Peek(address uint16, n int) []byte
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Word        uint16
	Instruction string
}

// DisassembleAt disassembles the instruction at the given address
func DisassembleAt(pc uint16, mem MemoryReader) DisassemblyLine {
	raw := mem.Peek(pc, InstructionLength)
	word := bit.Combine(raw[0], raw[1])

	return DisassemblyLine{
		Address:     pc,
		Word:        word,
		Instruction: cpu.Decode(word).String(),
	}
}

// DisassembleRange disassembles count instructions starting from the given address
func DisassembleRange(start uint16, count int, mem MemoryReader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)

	for i := 0; i < count; i++ {
		pc := start + uint16(i*InstructionLength)
		if pc > 0xFFE {
			break
		}
		lines = append(lines, DisassembleAt(pc, mem))
	}

	return lines
}

// DisassembleAround disassembles instructions before, at, and after pc.
// Instructions are fixed width, so walking backwards is exact as long as pc
// is aligned with the program.
func DisassembleAround(pc uint16, before, after int, mem MemoryReader) []DisassemblyLine {
	start := pc
	for i := 0; i < before && start >= InstructionLength; i++ {
		start -= InstructionLength
	}

	count := int(pc-start)/InstructionLength + 1 + after
	return DisassembleRange(start, count, mem)
}

// DisassembleProgram disassembles a raw program as it would be laid out from base.
// A trailing odd byte is emitted as a data line.
func DisassembleProgram(program []byte, base uint16) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, len(program)/InstructionLength+1)

	for i := 0; i+1 < len(program); i += InstructionLength {
		word := bit.Combine(program[i], program[i+1])
		lines = append(lines, DisassemblyLine{
			Address:     base + uint16(i),
			Word:        word,
			Instruction: cpu.Decode(word).String(),
		})
	}

	if len(program)%InstructionLength == 1 {
		last := program[len(program)-1]
		lines = append(lines, DisassemblyLine{
			Address:     base + uint16(len(program)-1),
			Word:        uint16(last),
			Instruction: fmt.Sprintf("DB 0x%02X", last),
		})
	}

	return lines
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "→"
	}

	return fmt.Sprintf("%s0x%03X: %04X  %s", prefix, line.Address, line.Word, line.Instruction)
}
