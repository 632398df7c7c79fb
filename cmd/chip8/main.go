package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Interactive backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing for interactive backends: ticker or adaptive",
			Value: "ticker",
		},
		cli.IntFlag{
			Name:  "speed",
			Usage: "Instructions executed per 60 Hz frame",
			Value: chip8.DefaultInstructionsPerFrame,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: 10,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory in headless mode, cwd otherwise)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show debug panels and enable the instruction trace",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the RND instruction (0 = time based)",
		},
	}
	app.Action = runEmulator
	app.Commands = []cli.Command{
		{
			Name:      "disasm",
			Usage:     "Print a disassembly listing of a ROM",
			ArgsUsage: "<ROM file>",
			Action:    runDisasm,
		},
	}

	return app
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			_ = cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := loadROM(romPath)
	if err != nil {
		return err
	}

	cfg := chip8.Config{
		InstructionsPerFrame: c.Int("speed"),
		Seed:                 c.Uint64("seed"),
		SnapshotDir:          c.String("snapshot-dir"),
	}

	var (
		b       backend.Backend
		limiter timing.Limiter
	)

	if c.Bool("headless") {
		setupLogging(os.Stderr, c.Bool("debug"))

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}

		// every frame is exactly one frame of emulated time
		clock := timing.NewManualClock(time.Now())
		cfg.Clock = clock
		limiter = timing.NewSteppingLimiter(clock)
		b = headless.New(c.Int("frames"), snapshotConfig)
	} else {
		b, err = newInteractiveBackend(c.String("backend"))
		if err != nil {
			return err
		}
		if _, ok := b.(*sdl2.Backend); ok {
			setupLogging(os.Stderr, c.Bool("debug"))
		}

		limiter, err = newLimiter(c.String("limiter"))
		if err != nil {
			return err
		}
		if t, ok := limiter.(*timing.TickerLimiter); ok {
			defer t.Stop()
		}
	}

	emu := chip8.New(cfg)
	if err := emu.LoadProgram(rom); err != nil {
		return errors.Wrapf(err, "loading %s", romPath)
	}

	err = b.Init(backend.BackendConfig{
		Title:         fmt.Sprintf("CHIP-8 - %s", romName(romPath)),
		Scale:         c.Int("scale"),
		ShowDebug:     c.Bool("debug"),
		SnapshotDir:   c.String("snapshot-dir"),
		DebugProvider: emu,
	})
	if err != nil {
		return errors.Wrap(err, "initializing backend")
	}
	defer b.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return emu.Run(ctx, b, limiter)
}

func runDisasm(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no ROM path provided")
	}

	rom, err := loadROM(c.Args().First())
	if err != nil {
		return err
	}

	return writeListing(c.App.Writer, rom)
}

func writeListing(w io.Writer, rom []byte) error {
	for _, line := range disasm.DisassembleProgram(rom, addr.ProgramStart) {
		if _, err := fmt.Fprintln(w, disasm.FormatDisassemblyLine(line, false)); err != nil {
			return errors.Wrap(err, "writing listing")
		}
	}
	return nil
}

func loadROM(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading ROM %s", path)
	}
	if len(rom) > addr.MaxProgramSize {
		return nil, errors.Errorf("ROM %s is %d bytes, at most %d fit in memory", path, len(rom), addr.MaxProgramSize)
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(rom))
	return rom, nil
}

func newInteractiveBackend(name string) (backend.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	default:
		return nil, errors.Errorf("unknown backend %q (want terminal or sdl2)", name)
	}
}

func newLimiter(name string) (timing.Limiter, error) {
	switch name {
	case "ticker":
		return timing.NewTickerLimiter(), nil
	case "adaptive":
		return timing.NewAdaptiveLimiter(), nil
	default:
		return nil, errors.Errorf("unknown limiter %q (want ticker or adaptive)", name)
	}
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func romName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
