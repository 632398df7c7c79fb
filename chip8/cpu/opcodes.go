package cpu

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

// execute applies a decoded instruction. The PC is only written once the
// instruction has succeeded, so a failing instruction leaves it on itself.
func (c *CPU) execute(in Instruction) error {
	next := c.pc + 2

	switch in.Op {
	case OpCLS:
		if err := c.display.Clear(); err != nil {
			return &CollaboratorError{Op: "display clear", Err: err}
		}

	case OpRET:
		address, err := c.PopReturn()
		if err != nil {
			return err
		}
		next = address

	case OpJP:
		next = in.NNN

	case OpCALL:
		if err := c.PushReturn(next); err != nil {
			return err
		}
		next = in.NNN

	case OpSEImm:
		if c.v[in.X] == in.KK {
			next += 2
		}

	case OpSNEImm:
		if c.v[in.X] != in.KK {
			next += 2
		}

	case OpSEReg:
		if c.v[in.X] == c.v[in.Y] {
			next += 2
		}

	case OpLDImm:
		c.v[in.X] = in.KK

	case OpADDImm:
		c.v[in.X] += in.KK

	case OpLDReg:
		c.v[in.X] = c.v[in.Y]

	case OpOR:
		c.v[in.X] |= c.v[in.Y]

	case OpAND:
		c.v[in.X] &= c.v[in.Y]

	case OpXOR:
		c.v[in.X] ^= c.v[in.Y]

	case OpADDReg:
		result, carry := bit.CheckedAdd(c.v[in.X], c.v[in.Y])
		c.v[in.X] = result
		c.setFlag(carry)

	case OpSUB:
		result, borrow := bit.CheckedSub(c.v[in.X], c.v[in.Y])
		c.v[in.X] = result
		c.setFlag(!borrow)

	case OpSUBN:
		result, borrow := bit.CheckedSub(c.v[in.Y], c.v[in.X])
		c.v[in.X] = result
		c.setFlag(!borrow)

	case OpSHR:
		shifted := bit.GetBitValue(0, c.v[in.X])
		c.v[in.X] >>= 1
		c.v[flagRegister] = shifted

	case OpSHL:
		shifted := bit.GetBitValue(7, c.v[in.X])
		c.v[in.X] <<= 1
		c.v[flagRegister] = shifted

	case OpSNEReg:
		if c.v[in.X] != c.v[in.Y] {
			next += 2
		}

	case OpLDI:
		c.i = in.NNN

	case OpJPV0:
		next = in.NNN + uint16(c.v[0])

	case OpRND:
		c.v[in.X] = uint8(c.rng.UintN(256)) & in.KK

	case OpDRW:
		sprite := c.memory.ReadRange(c.i, int(in.N))
		collision, err := c.display.Draw(sprite, c.v[in.X], c.v[in.Y])
		if err != nil {
			return &CollaboratorError{Op: "display draw", Err: err}
		}
		c.setFlag(collision)

	case OpSKP, OpSKNP:
		down, err := c.keypad.IsKeyDown(c.v[in.X] & 0x0F)
		if err != nil {
			return &CollaboratorError{Op: "keypad read", Err: err}
		}
		if down == (in.Op == OpSKP) {
			next += 2
		}

	case OpLDVxDT:
		c.v[in.X] = c.delayTimer

	case OpLDVxK:
		c.waitingForKey = true
		c.waitRegister = in.X

	case OpLDDTVx:
		c.delayTimer = c.v[in.X]

	case OpLDSTVx:
		c.soundTimer = c.v[in.X]

	case OpADDI:
		c.i = (c.i + uint16(c.v[in.X])) & addr.Mask

	case OpLDF:
		c.i = addr.Glyph(c.v[in.X])

	case OpLDB:
		value := c.v[in.X]
		c.memory.Write(c.i, value/100)
		c.memory.Write(c.i+1, (value/10)%10)
		c.memory.Write(c.i+2, value%10)

	case OpLDIVx:
		for r := uint16(0); r <= uint16(in.X); r++ {
			c.memory.Write(c.i+r, c.v[r])
		}

	case OpLDVxI:
		for r := uint16(0); r <= uint16(in.X); r++ {
			c.v[r] = c.memory.Read(c.i + r)
		}

	default:
		return &UnimplementedOpcodeError{Word: in.Word, PC: c.pc}
	}

	c.pc = next
	return nil
}

// setFlag writes 1 or 0 into VF.
func (c *CPU) setFlag(condition bool) {
	if condition {
		c.v[flagRegister] = 1
		return
	}

	c.v[flagRegister] = 0
}
