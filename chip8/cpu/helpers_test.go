package cpu

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/bit"
)

type drawCall struct {
	sprite []byte
	x, y   uint8
}

type fakeDisplay struct {
	clears    int
	draws     []drawCall
	collision bool
	err       error
}

func (d *fakeDisplay) Clear() error {
	if d.err != nil {
		return d.err
	}
	d.clears++
	return nil
}

func (d *fakeDisplay) Draw(sprite []byte, x, y uint8) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	d.draws = append(d.draws, drawCall{sprite: sprite, x: x, y: y})
	return d.collision, nil
}

type fakeKeypad struct {
	down map[uint8]bool
	err  error
}

func (k *fakeKeypad) IsKeyDown(key uint8) (bool, error) {
	if k.err != nil {
		return false, k.err
	}
	return k.down[key], nil
}

func (k *fakeKeypad) AwaitKey(ctx context.Context) (uint8, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

const testSeed = 42

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(testSeed, testSeed))
}

// newTestCPU returns a CPU with the given instruction words loaded at 0x200.
func newTestCPU(t *testing.T, words ...uint16) (*CPU, *fakeDisplay, *fakeKeypad) {
	t.Helper()

	display := &fakeDisplay{}
	keypad := &fakeKeypad{down: map[uint8]bool{}}
	c := New(display, keypad, newTestRand())

	require.NoError(t, c.LoadProgram(program(words...)))
	return c, display, keypad
}

func program(words ...uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, bit.High(w), bit.Low(w))
	}
	return out
}

// run executes n steps and fails the test on the first error.
func run(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, c.Step(), "step %d", i)
	}
}
