package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func litPixels(fb *FrameBuffer) [][2]uint {
	var out [][2]uint
	for y := uint(0); y < fb.Height(); y++ {
		for x := uint(0); x < fb.Width(); x++ {
			if fb.GetPixel(x, y) {
				out = append(out, [2]uint{x, y})
			}
		}
	}
	return out
}

func TestDraw_XorAndCollision(t *testing.T) {
	fb := NewFrameBuffer()

	collision, err := fb.Draw([]byte{0b1000_0001}, 0, 0)
	require.NoError(t, err)
	assert.False(t, collision)
	assert.Equal(t, [][2]uint{{0, 0}, {7, 0}}, litPixels(fb))

	// overlapping one lit pixel turns it off and reports a collision
	collision, err = fb.Draw([]byte{0b1100_0000}, 0, 0)
	require.NoError(t, err)
	assert.True(t, collision)
	assert.Equal(t, [][2]uint{{1, 0}, {7, 0}}, litPixels(fb))
}

func TestDraw_NoCollisionOnDisjointSprites(t *testing.T) {
	fb := NewFrameBuffer()

	_, _ = fb.Draw([]byte{0xF0}, 0, 0)
	collision, _ := fb.Draw([]byte{0x0F}, 0, 0)

	assert.False(t, collision)
	assert.Len(t, litPixels(fb), 8)
}

func TestDraw_WrapsAtEdges(t *testing.T) {
	fb := NewFrameBuffer()

	_, err := fb.Draw([]byte{0b1100_0000, 0b1100_0000}, 63, 31)
	require.NoError(t, err)

	assert.True(t, fb.GetPixel(63, 31))
	assert.True(t, fb.GetPixel(0, 31))
	assert.True(t, fb.GetPixel(63, 0))
	assert.True(t, fb.GetPixel(0, 0))
	assert.Len(t, litPixels(fb), 4)
}

func TestDraw_CoordinatesBeyondScreenWrap(t *testing.T) {
	fb := NewFrameBuffer()

	_, _ = fb.Draw([]byte{0x80}, 64+5, 32+3)
	assert.True(t, fb.GetPixel(5, 3))
}

func TestClear(t *testing.T) {
	fb := NewFrameBuffer()
	_, _ = fb.Draw([]byte{0xFF, 0xFF}, 10, 10)
	fb.MarkClean()

	require.NoError(t, fb.Clear())

	assert.Empty(t, litPixels(fb))
	assert.True(t, fb.Dirty())
}

func TestToSlice(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(1, 0, true)

	pixels := fb.ToSlice()
	require.Len(t, pixels, FramebufferWidth*FramebufferHeight)
	assert.Equal(t, uint32(OffColor), pixels[0])
	assert.Equal(t, uint32(OnColor), pixels[1])
}

func TestCopy_IsIndependent(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(2, 2, true)

	c := fb.Copy()
	fb.SetPixel(2, 2, false)

	assert.True(t, c.GetPixel(2, 2))
}
