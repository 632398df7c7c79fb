package cpu

import "fmt"

// StackSize is the number of return addresses the call stack can hold.
const StackSize = 16

// PushReturn stores a return address. The stack is untouched on overflow.
func (c *CPU) PushReturn(address uint16) error {
	if int(c.sp) == StackSize {
		return fmt.Errorf("%w: call depth %d at 0x%03X", ErrStackOverflow, StackSize, c.pc)
	}

	c.stack[c.sp] = address
	c.sp++
	return nil
}

// PopReturn returns the most recently pushed address.
func (c *CPU) PopReturn() (uint16, error) {
	if c.sp == 0 {
		return 0, fmt.Errorf("%w: return at 0x%03X", ErrStackUnderflow, c.pc)
	}

	c.sp--
	return c.stack[c.sp], nil
}
