// Package countdown tracks a single phase countdown against wall-clock time.
// A Countdown is a value: it stores the phase start and planned duration and
// derives everything else from the caller's clock, so state machines can be
// driven by any tick source.
package countdown

import "time"

// Countdown measures the time left in one phase. The zero value is inactive.
type Countdown struct {
	start    time.Time
	duration time.Duration
}

// Start begins a countdown of the given duration at now.
func Start(now time.Time, duration time.Duration) Countdown {
	return Countdown{start: now, duration: duration}
}

// Active reports whether the countdown has been started.
func (c Countdown) Active() bool {
	return !c.start.IsZero()
}

// Remaining returns the time left, clamped to zero.
func (c Countdown) Remaining(now time.Time) time.Duration {
	if !c.Active() {
		return 0
	}
	remaining := c.duration - now.Sub(c.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingSeconds returns the countdown display value: planned seconds minus
// elapsed whole seconds, clamped to zero.
func (c Countdown) RemainingSeconds(now time.Time) int {
	if !c.Active() {
		return 0
	}
	elapsed := int(now.Sub(c.start).Seconds())
	remaining := int(c.duration.Seconds()) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed reports whether the planned duration has fully passed.
func (c Countdown) Elapsed(now time.Time) bool {
	if !c.Active() {
		return false
	}
	return now.Sub(c.start) >= c.duration
}

// Percent returns completion as a rounded percentage in [0,100]. It is
// monotonically non-decreasing under a monotonic clock and reports 100 once
// the countdown has elapsed.
func (c Countdown) Percent(now time.Time) int {
	if !c.Active() || c.duration <= 0 {
		return 100
	}
	elapsed := now.Sub(c.start)
	if elapsed >= c.duration {
		return 100
	}
	if elapsed < 0 {
		return 0
	}
	percent := int(float64(elapsed)/float64(c.duration)*100 + 0.5)
	if percent > 100 {
		percent = 100
	}
	return percent
}
