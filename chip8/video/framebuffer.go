package video

import "github.com/valerio/go-chip8/chip8/bit"

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
)

// Color is a packed 0xAARRGGBB value.
type Color uint32

const (
	OffColor Color = 0xFF000000
	OnColor  Color = 0xFFFFFFFF
)

// FrameBuffer is the monochrome 64x32 surface sprites are drawn onto.
// It satisfies the cpu.Display contract.
type FrameBuffer struct {
	width  uint
	height uint
	pixels []bool
	dirty  bool
}

// NewFrameBuffer creates a blank frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		pixels: make([]bool, FramebufferWidth*FramebufferHeight),
		dirty:  true,
	}
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

// GetPixel reports whether the pixel at (x, y) is lit.
func (fb *FrameBuffer) GetPixel(x, y uint) bool {
	return fb.pixels[y*fb.width+x]
}

// SetPixel lights or clears the pixel at (x, y).
func (fb *FrameBuffer) SetPixel(x, y uint, on bool) {
	fb.pixels[y*fb.width+x] = on
	fb.dirty = true
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() error {
	for i := range fb.pixels {
		fb.pixels[i] = false
	}
	fb.dirty = true
	return nil
}

// Draw XORs each sprite row onto the buffer starting at (x, y). Bit 7 of a
// row byte is its leftmost pixel. Coordinates wrap at the edges. The result
// reports whether any lit pixel was turned off.
func (fb *FrameBuffer) Draw(sprite []byte, x, y uint8) (bool, error) {
	collision := false

	for row, bits := range sprite {
		py := (uint(y) + uint(row)) % fb.height
		for col := uint8(0); col < 8; col++ {
			if !bit.IsSet(7-col, bits) {
				continue
			}

			px := (uint(x) + uint(col)) % fb.width
			idx := py*fb.width + px
			if fb.pixels[idx] {
				collision = true
			}
			fb.pixels[idx] = !fb.pixels[idx]
		}
	}

	if len(sprite) > 0 {
		fb.dirty = true
	}

	return collision, nil
}

// Dirty reports whether the buffer changed since the last MarkClean.
func (fb *FrameBuffer) Dirty() bool {
	return fb.dirty
}

// MarkClean resets the dirty flag after a backend presented the frame.
func (fb *FrameBuffer) MarkClean() {
	fb.dirty = false
}

// ToSlice returns the frame as packed colors, row by row.
func (fb *FrameBuffer) ToSlice() []uint32 {
	out := make([]uint32, len(fb.pixels))
	for i, on := range fb.pixels {
		if on {
			out[i] = uint32(OnColor)
		} else {
			out[i] = uint32(OffColor)
		}
	}
	return out
}

// Copy returns an independent copy of the frame.
func (fb *FrameBuffer) Copy() *FrameBuffer {
	out := NewFrameBuffer()
	copy(out.pixels, fb.pixels)
	return out
}
