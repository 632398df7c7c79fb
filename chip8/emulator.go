package chip8

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// DefaultInstructionsPerFrame gives roughly 660 instructions per second at 60 frames per second.
const DefaultInstructionsPerFrame = 11

// disassembly window shown by debug views, in instructions around the PC
const (
	disasmBefore = 4
	disasmAfter  = 4
)

// Config holds the session settings.
type Config struct {
	// InstructionsPerFrame is the number of instructions executed between
	// two frames. Zero means DefaultInstructionsPerFrame.
	InstructionsPerFrame int

	// Seed seeds the RND instruction. Zero means a time based seed.
	Seed uint64

	// Clock drives the 60 Hz timers. Nil means the wall clock.
	Clock timing.Clock

	// SnapshotDir is where the snapshot action writes PNGs. Empty means the
	// working directory.
	SnapshotDir string
}

// Emulator is a CHIP-8 session: interpreter state, display, keypad and timers,
// plus the frame loop that connects them to a backend.
type Emulator struct {
	cfg       Config
	cpu       *cpu.CPU
	frame     *video.FrameBuffer
	keypad    *input.Keypad
	input     *input.Manager
	scheduler *timing.TimerScheduler

	program []byte
	state   debug.DebuggerState
	quit    bool
	frames  uint64

	keyWait    <-chan uint8
	cancelWait func()
	backend    backend.Backend
}

// New creates a session with an empty program loaded.
func New(cfg Config) *Emulator {
	if cfg.InstructionsPerFrame <= 0 {
		cfg.InstructionsPerFrame = DefaultInstructionsPerFrame
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	e := &Emulator{
		cfg:       cfg,
		frame:     video.NewFrameBuffer(),
		keypad:    input.NewKeypad(),
		scheduler: timing.NewTimerScheduler(cfg.Clock),
	}
	e.cpu = cpu.New(e.frame, e.keypad, rng)
	e.input = input.NewManager(e.keypad)

	for _, act := range []action.Action{
		action.EmulatorQuit,
		action.EmulatorPauseToggle,
		action.EmulatorStepFrame,
		action.EmulatorStepInstruction,
		action.EmulatorReset,
		action.EmulatorSnapshot,
		action.EmulatorDebugToggle,
	} {
		e.input.On(act, event.Press, func() { e.HandleAction(act) })
	}

	return e
}

// LoadProgram resets the session and loads program at 0x200.
func (e *Emulator) LoadProgram(program []byte) error {
	e.stopKeyWait()
	e.cpu.Reset()
	_ = e.frame.Clear()
	e.keypad.ReleaseAll()
	e.scheduler.Reset()

	if err := e.cpu.LoadProgram(program); err != nil {
		return err
	}

	e.program = append(e.program[:0], program...)
	slog.Info("Program loaded", "bytes", len(program))
	return nil
}

// Step executes a single instruction. While the CPU waits for a key it
// checks for a new key press instead.
func (e *Emulator) Step() error {
	if e.cpu.WaitingForKey() && !e.pollKey() {
		return nil
	}

	pc := e.cpu.GetPC()
	if err := e.cpu.Step(); err != nil {
		return errors.Wrapf(err, "step at pc=0x%03X", pc)
	}

	// subscribe as soon as the wait starts, presses from the same frame count
	if e.cpu.WaitingForKey() {
		e.pollKey()
	}
	return nil
}

// RunFrame executes one frame worth of instructions, then applies the timer
// ticks that became due.
func (e *Emulator) RunFrame() error {
	if err := e.runInstructions(); err != nil {
		return err
	}

	e.scheduler.Advance(e.cpu)
	e.frames++
	return nil
}

// stepFrame runs a single frame while paused. Wall time does not apply, the
// timers get exactly one tick.
func (e *Emulator) stepFrame() error {
	if err := e.runInstructions(); err != nil {
		return err
	}

	e.cpu.TickTimers()
	e.scheduler.Reset()
	e.frames++
	return nil
}

func (e *Emulator) runInstructions() error {
	for i := 0; i < e.cfg.InstructionsPerFrame; i++ {
		if err := e.Step(); err != nil {
			return err
		}
		if e.cpu.WaitingForKey() {
			return nil
		}
	}
	return nil
}

// Run drives the session until a quit action, a fatal error or ctx being
// cancelled. Every frame it runs the interpreter, hands the frame to the
// backend and dispatches the returned input events. A nil limiter runs
// frames back to back.
func (e *Emulator) Run(ctx context.Context, b backend.Backend, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	e.backend = b
	e.quit = false
	defer func() {
		e.stopKeyWait()
		e.backend = nil
	}()

	limiter.Reset()
	e.scheduler.Reset()

	for !e.quit {
		if ctx.Err() != nil {
			slog.Info("Emulation cancelled", "frames", e.frames, "timer_ticks", e.scheduler.Ticks())
			return nil
		}

		if err := e.advance(); err != nil {
			return err
		}

		events, err := b.Update(e.frame)
		if err != nil {
			return errors.Wrap(err, "backend update")
		}
		for _, ev := range events {
			e.input.Trigger(ev.Action, ev.Type)
		}

		limiter.WaitForNextFrame()
	}

	slog.Info("Emulation stopped", "frames", e.frames, "timer_ticks", e.scheduler.Ticks())
	return nil
}

// advance moves the session forward by one host frame according to the
// debugger state.
func (e *Emulator) advance() error {
	switch e.state {
	case debug.DebuggerPaused:
		return nil
	case debug.DebuggerStepInstruction:
		e.state = debug.DebuggerPaused
		return e.Step()
	case debug.DebuggerStepFrame:
		e.state = debug.DebuggerPaused
		return e.stepFrame()
	default:
		return e.RunFrame()
	}
}

// HandleAction applies an emulator action. Actions the session does not own
// are forwarded to the backend when it handles actions.
func (e *Emulator) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorQuit:
		e.quit = true
	case action.EmulatorPauseToggle:
		if e.state == debug.DebuggerRunning {
			e.state = debug.DebuggerPaused
			slog.Info("Paused", "pc", e.cpu.GetPC())
		} else {
			e.state = debug.DebuggerRunning
			e.scheduler.Reset()
			slog.Info("Resumed")
		}
	case action.EmulatorStepInstruction:
		e.state = debug.DebuggerStepInstruction
	case action.EmulatorStepFrame:
		e.state = debug.DebuggerStepFrame
	case action.EmulatorReset:
		if err := e.LoadProgram(e.program); err != nil {
			slog.Error("Failed to reload program", "error", err)
		}
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(e.frame, e.cfg.SnapshotDir)
	default:
		if h, ok := e.backend.(backend.ActionHandler); ok {
			h.HandleAction(act)
		}
	}
}

// pollKey completes a pending key-wait if a key arrived. The first call for a
// key-wait subscribes to the keypad, so any press from then on resumes it.
func (e *Emulator) pollKey() bool {
	if e.keyWait == nil {
		e.keyWait, e.cancelWait = e.keypad.Subscribe()
	}

	select {
	case key := <-e.keyWait:
		e.stopKeyWait()
		e.cpu.ResumeWithKey(key)
		slog.Debug("Key-wait resumed", "key", key)
		return true
	default:
		return false
	}
}

func (e *Emulator) stopKeyWait() {
	if e.cancelWait != nil {
		e.cancelWait()
	}
	e.keyWait, e.cancelWait = nil, nil
}

// ExtractDebugData returns the state shown by debug views.
func (e *Emulator) ExtractDebugData() *debug.Data {
	state := e.cpu.Snapshot()
	return &debug.Data{
		CPU:           state,
		Disassembly:   disasm.DisassembleAround(state.PC, disasmBefore, disasmAfter, e.cpu),
		DebuggerState: e.state,
	}
}

// Snapshot returns a copy of the interpreter registers.
func (e *Emulator) Snapshot() cpu.State { return e.cpu.Snapshot() }

// Frame returns the display surface.
func (e *Emulator) Frame() *video.FrameBuffer { return e.frame }

// Keypad returns the keypad backends press keys on.
func (e *Emulator) Keypad() *input.Keypad { return e.keypad }

// Input returns the action dispatcher.
func (e *Emulator) Input() *input.Manager { return e.input }

// Frames returns the number of frames run.
func (e *Emulator) Frames() uint64 { return e.frames }

// State returns the debugger state.
func (e *Emulator) State() debug.DebuggerState { return e.state }
