package timing

import "time"

// Limiter paces simulated frames against the wall clock.
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

// FrameRate is how many times per simulated second the front end is refreshed.
const FrameRate = 60

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / FrameRate
}

// TicksPerFrame returns how many tick clock periods make up one frame.
func TicksPerFrame(tickClockHz uint32) int {
	return max(1, int(tickClockHz/FrameRate))
}
