package cpu

import "context"

// Display is the drawing surface driven by the CLS and DRW instructions.
type Display interface {
	// Clear turns every pixel off.
	Clear() error
	// Draw XORs the sprite rows onto the surface with the top-left corner at
	// (x, y), wrapping at the edges. It reports whether any lit pixel was
	// turned off.
	Draw(sprite []byte, x, y uint8) (collision bool, err error)
}

// Keypad reports the state of the 16 hexadecimal keys.
type Keypad interface {
	IsKeyDown(key uint8) (bool, error)
	// AwaitKey blocks until a key is pressed or ctx is done.
	AwaitKey(ctx context.Context) (uint8, error)
}
