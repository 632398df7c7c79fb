package timing

import "time"

// TimerFrequency is the rate at which the delay and sound timers count down.
const TimerFrequency = 60

// maxCatchUp bounds the ticks applied in one Advance. An 8 bit timer is zero
// after 255 ticks, so anything past that has no visible effect.
const maxCatchUp = 255

// TimerTicker is decremented once per timer period.
type TimerTicker interface {
	TickTimers()
}

// TimerScheduler converts elapsed clock time into 60 Hz timer ticks, so the
// timers follow real time no matter how many instructions run in between.
type TimerScheduler struct {
	clock  Clock
	period time.Duration
	last   time.Time
	carry  time.Duration
	ticks  uint64
}

// NewTimerScheduler starts a scheduler anchored at the clock's current time.
// A nil clock means the wall clock.
func NewTimerScheduler(clock Clock) *TimerScheduler {
	if clock == nil {
		clock = SystemClock{}
	}

	return &TimerScheduler{
		clock:  clock,
		period: TimerPeriod(),
		last:   clock.Now(),
	}
}

// TimerPeriod returns the duration of one timer tick.
func TimerPeriod() time.Duration {
	return time.Second / TimerFrequency
}

// Advance applies every tick that became due since the previous call and
// returns how many were applied. Leftover time carries over to the next call.
func (s *TimerScheduler) Advance(target TimerTicker) int {
	now := s.clock.Now()
	elapsed := now.Sub(s.last) + s.carry
	s.last = now

	if elapsed <= 0 {
		s.carry = 0
		return 0
	}

	due := int(elapsed / s.period)
	s.carry = elapsed % s.period
	if due > maxCatchUp {
		due = maxCatchUp
	}

	for i := 0; i < due; i++ {
		target.TickTimers()
	}
	s.ticks += uint64(due)

	return due
}

// Reset re-anchors the scheduler at the current time and drops pending time,
// so a paused session does not burst ticks when resumed.
func (s *TimerScheduler) Reset() {
	s.last = s.clock.Now()
	s.carry = 0
}

// Ticks returns the total number of ticks applied.
func (s *TimerScheduler) Ticks() uint64 {
	return s.ticks
}
