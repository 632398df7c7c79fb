package cpu

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/memory"
)

// flagRegister is VF, overwritten by carry, borrow, shift and collision results.
const flagRegister = 0xF

// CPU is the single owner of the interpreter state: memory, registers,
// program counter, call stack, index register and the two timers.
// It is not safe for concurrent use; callers serialize Step and TickTimers.
type CPU struct {
	v     [16]uint8
	i     uint16
	pc    uint16
	sp    uint8
	stack [StackSize]uint16

	delayTimer uint8
	soundTimer uint8

	// key-wait (FX0A) suspends execution until ResumeWithKey
	waitingForKey bool
	waitRegister  uint8

	memory  *memory.RAM
	display Display
	keypad  Keypad
	rng     *rand.Rand

	cycles uint64
}

// New returns a reset CPU wired to its collaborators.
// A nil rng is replaced with a time seeded generator.
func New(display Display, keypad Keypad, rng *rand.Rand) *CPU {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	c := &CPU{
		memory:  memory.New(),
		display: display,
		keypad:  keypad,
		rng:     rng,
	}
	c.Reset()

	return c
}

// Reset zeroes registers, memory, stack and timers, installs the font and
// points the PC at the program start.
func (c *CPU) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = addr.ProgramStart
	c.sp = 0
	c.stack = [StackSize]uint16{}
	c.delayTimer = 0
	c.soundTimer = 0
	c.waitingForKey = false
	c.waitRegister = 0
	c.cycles = 0
	c.memory.Reset()
}

// LoadProgram copies a program at 0x200. Nothing else is modified, so it is
// normally called right after Reset.
func (c *CPU) LoadProgram(program []byte) error {
	return c.memory.Load(program)
}

// Step fetches, decodes and executes a single instruction.
// It does nothing while the CPU is waiting for a key.
func (c *CPU) Step() error {
	if c.waitingForKey {
		return nil
	}

	if c.pc > addr.LastInstruction {
		return fmt.Errorf("%w: 0x%04X", ErrPCOutOfRange, c.pc)
	}

	word := c.memory.ReadWord(c.pc)
	instruction := Decode(word)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("exec",
			"pc", fmt.Sprintf("0x%03X", c.pc),
			"opcode", fmt.Sprintf("0x%04X", word),
			"instr", instruction.String())
	}

	if err := c.execute(instruction); err != nil {
		return err
	}

	c.cycles++
	return nil
}

// TickTimers decrements the delay and sound timers once, stopping at zero.
func (c *CPU) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// WaitingForKey reports whether execution is suspended on a key-wait.
func (c *CPU) WaitingForKey() bool {
	return c.waitingForKey
}

// ResumeWithKey completes a pending key-wait by storing key in its target
// register. It returns false when no key-wait is pending.
func (c *CPU) ResumeWithKey(key uint8) bool {
	if !c.waitingForKey {
		return false
	}

	c.v[c.waitRegister] = key & 0x0F
	c.waitingForKey = false
	return true
}

// Peek returns a copy of n bytes of memory starting at address.
func (c *CPU) Peek(address uint16, n int) []byte {
	return c.memory.ReadRange(address, n)
}

// State is a copy of the CPU registers, used by debug views and tests.
type State struct {
	V             [16]uint8
	I             uint16
	PC            uint16
	SP            uint8
	Stack         [StackSize]uint16
	DelayTimer    uint8
	SoundTimer    uint8
	WaitingForKey bool
	Cycles        uint64
}

// Snapshot returns a copy of the current register state.
func (c *CPU) Snapshot() State {
	return State{
		V:             c.v,
		I:             c.i,
		PC:            c.pc,
		SP:            c.sp,
		Stack:         c.stack,
		DelayTimer:    c.delayTimer,
		SoundTimer:    c.soundTimer,
		WaitingForKey: c.waitingForKey,
		Cycles:        c.cycles,
	}
}

// SoundActive reports whether the buzzer sounds, which it does while the
// sound timer is non-zero.
func (s State) SoundActive() bool {
	return s.SoundTimer > 0
}

// GetPC returns the address of the next instruction.
func (c *CPU) GetPC() uint16 { return c.pc }
