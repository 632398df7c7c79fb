package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerLimiter_PacesFrames(t *testing.T) {
	l := NewTickerLimiter()
	defer l.Stop()

	l.Reset()
	start := time.Now()
	for i := 0; i < 3; i++ {
		l.WaitForNextFrame()
	}

	// three full periods, with slack for coarse timers
	assert.GreaterOrEqual(t, time.Since(start), 2*FrameDuration())
}

func TestAdaptiveLimiter_PacesFrames(t *testing.T) {
	l := NewAdaptiveLimiter()

	start := time.Now()
	for i := 0; i < 4; i++ {
		l.WaitForNextFrame()
	}

	// the first call returns immediately, the following three wait a frame each
	assert.GreaterOrEqual(t, time.Since(start), 2*FrameDuration())
	assert.Equal(t, int64(4), l.frameCounter)
}

func TestAdaptiveLimiter_ReanchorsWhenBehind(t *testing.T) {
	l := NewAdaptiveLimiter()
	l.nextFrameTime = time.Now().Add(-time.Second)

	l.WaitForNextFrame()

	assert.WithinDuration(t, time.Now().Add(FrameDuration()), l.nextFrameTime, FrameDuration())

	l.Reset()
	assert.Equal(t, int64(0), l.frameCounter)
}
