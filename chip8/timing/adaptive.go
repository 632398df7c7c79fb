package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter sleeps for most of the frame and busy-waits the last
// millisecond, re-anchoring when it falls too far behind.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	switch {
	case sleepTime >= 2*time.Millisecond:
		time.Sleep(sleepTime - time.Millisecond)
		for time.Now().Before(a.nextFrameTime) {
		}
	case sleepTime > 0:
		for time.Now().Before(a.nextFrameTime) {
			// busy-wait for times under 2ms, higher accuracy.
		}
	case sleepTime < -5*time.Millisecond:
		slog.Debug("Frame limiter behind schedule, re-anchoring", "behind_ms", -sleepTime.Milliseconds())
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = time.Now()
	a.frameCounter = 0
}
