package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// FrameRate is the host refresh rate. It matches the timer frequency so that
// every rendered frame observes at most one timer decrement.
const FrameRate = TimerFrequency

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / FrameRate
}

// SteppingLimiter never sleeps. Each frame it moves a ManualClock forward by
// one frame duration, so emulated time advances at exactly the frame rate
// however fast the host runs.
type SteppingLimiter struct {
	clock *ManualClock
}

// NewSteppingLimiter returns a limiter that drives clock.
func NewSteppingLimiter(clock *ManualClock) *SteppingLimiter {
	return &SteppingLimiter{clock: clock}
}

func (s *SteppingLimiter) WaitForNextFrame() {
	s.clock.Advance(FrameDuration())
}

func (s *SteppingLimiter) Reset() {}
