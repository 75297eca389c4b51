package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameConstants(t *testing.T) {
	assert.Equal(t, time.Second/60, FrameDuration())
	assert.Equal(t, 33333, TicksPerFrame(2_000_000))
	assert.Equal(t, 1, TicksPerFrame(10))
}

func TestAdaptiveLimiterSkipsAheadWhenBehind(t *testing.T) {
	clock := time.Unix(0, 0)
	a := NewAdaptiveLimiter()
	a.now = func() time.Time { return clock }
	a.sleep = func(d time.Duration) { clock = clock.Add(d) }
	a.Reset()

	// a second behind schedule: no sleeping, schedule restarts from now
	clock = clock.Add(time.Second)
	a.WaitForNextFrame()
	assert.Equal(t, clock.Add(FrameDuration()), a.nextFrameTime)
	assert.Equal(t, int64(1), a.Frames())
}

func TestAdaptiveLimiterSleepsUntilDeadline(t *testing.T) {
	clock := time.Unix(0, 0)
	a := NewAdaptiveLimiter()
	a.now = func() time.Time {
		// every poll moves time forward a little so busy-waiting terminates
		clock = clock.Add(100 * time.Microsecond)
		return clock
	}
	var slept time.Duration
	a.sleep = func(d time.Duration) {
		slept += d
		clock = clock.Add(d)
	}
	a.Reset()

	a.WaitForNextFrame() // first frame is due immediately
	a.WaitForNextFrame()

	assert.Greater(t, slept, time.Duration(0))
	assert.False(t, clock.Before(a.nextFrameTime.Add(-FrameDuration())))
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for range 100 {
		l.WaitForNextFrame()
	}
	l.Reset()
	assert.Less(t, time.Since(start), FrameDuration())
}
