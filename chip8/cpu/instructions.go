package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

// Op identifies one of the instruction forms understood by the interpreter.
// The zero value is OpUnknown, which every unmapped word decodes to.
type Op uint8

const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEImm      // 3XKK
	OpSNEImm     // 4XKK
	OpSEReg      // 5XY0
	OpLDImm      // 6XKK
	OpADDImm     // 7XKK
	OpLDReg      // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDReg     // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEReg     // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXKK
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDI       // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpLDIVx      // FX55
	OpLDVxI      // FX65

	opCount
)

var opNames = [opCount]string{
	"UNKNOWN", "CLS", "RET", "JP", "CALL", "SE", "SNE", "SE", "LD", "ADD",
	"LD", "OR", "AND", "XOR", "ADD", "SUB", "SHR", "SUBN", "SHL", "SNE",
	"LD", "JP", "RND", "DRW", "SKP", "SKNP", "LD", "LD", "LD", "LD",
	"ADD", "LD", "LD", "LD", "LD",
}

func (o Op) String() string {
	if o >= opCount {
		return opNames[OpUnknown]
	}
	return opNames[o]
}

// Instruction is a decoded instruction word. All operand fields are filled
// regardless of Op; each form only reads the ones it needs.
type Instruction struct {
	Op   Op
	Word uint16
	X    uint8  // second nibble, a register index
	Y    uint8  // third nibble, a register index
	N    uint8  // low nibble
	KK   uint8  // low byte, an immediate
	NNN  uint16 // low 12 bits, an address
}

// Decode maps any 16 bit word to an Instruction. Words that do not belong to
// the instruction set decode to OpUnknown.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    bit.Nibble(word, 2),
		Y:    bit.Nibble(word, 1),
		N:    bit.Nibble(word, 0),
		KK:   bit.Low(word),
		NNN:  bit.Address(word),
	}
	in.Op = decodeOp(in)
	return in
}

func decodeOp(in Instruction) Op {
	switch bit.Nibble(in.Word, 3) {
	case 0x0:
		switch in.Word {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEImm
	case 0x4:
		return OpSNEImm
	case 0x5:
		if in.N == 0x0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDImm
	case 0x7:
		return OpADDImm
	case 0x8:
		switch in.N {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if in.N == 0x0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch in.KK {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch in.KK {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}

	return OpUnknown
}

// String returns the assembly mnemonic of the instruction with its operands.
func (in Instruction) String() string {
	name := in.Op.String()

	switch in.Op {
	case OpCLS, OpRET:
		return name
	case OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03X", name, in.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("%s V%X, 0x%02X", name, in.X, in.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", name, in.X, in.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", name, in.X)
	case OpLDI:
		return fmt.Sprintf("%s I, 0x%03X", name, in.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, 0x%03X", name, in.NNN)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", name, in.X, in.Y, in.N)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", name, in.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", name, in.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", name, in.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", name, in.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", name, in.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", name, in.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", name, in.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", name, in.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", name, in.X)
	}

	return fmt.Sprintf("DW 0x%04X", in.Word)
}
