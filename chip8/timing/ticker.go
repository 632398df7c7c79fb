package timing

import "time"

// TickerLimiter paces frames with a time.Ticker running at FrameRate. Ticks
// missed while the host was busy are dropped, not queued.
type TickerLimiter struct {
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

// WaitForNextFrame blocks until the next tick.
func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period from now and discards a pending tick, so the
// first frame after a pause is not released early.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
	select {
	case <-t.ticker.C:
	default:
	}
}

// Stop releases the ticker. The limiter must not be used afterwards.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
