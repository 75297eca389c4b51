package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerExpiries(t *testing.T) {
	tests := []struct {
		name       string
		reload     uint32
		ticks      []int
		interrupts uint64
	}{
		{"single period", 100, []int{100}, 1},
		{"short of a period", 100, []int{99}, 0},
		{"split across calls", 100, []int{60, 40, 99, 1}, 2},
		{"many periods in one call", 7, []int{70}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := NewTimer()
			calls := uint64(0)
			timer.InterruptHandler = func() {
				calls++
				timer.ClearPending()
			}
			timer.SetReload(tt.reload)
			timer.EnableInterrupt()

			for _, n := range tt.ticks {
				timer.Tick(n)
			}

			assert.Equal(t, tt.interrupts, calls)
			assert.Equal(t, tt.interrupts, timer.Interrupts())
		})
	}
}

func TestTimerMaskedInterrupt(t *testing.T) {
	timer := NewTimer()
	called := false
	timer.InterruptHandler = func() { called = true }
	timer.SetReload(10)
	timer.Start()

	timer.Tick(25)

	assert.False(t, called, "handler must not run while the interrupt is masked")
	assert.True(t, timer.Pending(), "timeout flag is still raised")
}

func TestTimerHandlerCanDisable(t *testing.T) {
	timer := NewTimer()
	calls := 0
	timer.InterruptHandler = func() {
		calls++
		timer.ClearPending()
		if calls == 3 {
			timer.DisableInterrupt()
		}
	}
	timer.SetReload(5)
	timer.EnableInterrupt()

	timer.Tick(1000)

	assert.Equal(t, 3, calls)
	assert.False(t, timer.InterruptEnabled())
	assert.True(t, timer.Pending(), "later expiries still raise the flag")
}

func TestTimerStoppedOrZeroReload(t *testing.T) {
	timer := NewTimer()
	called := false
	timer.InterruptHandler = func() { called = true }

	timer.Tick(1000)
	assert.False(t, called)

	timer.EnableInterrupt()
	timer.Tick(1000)
	assert.False(t, called, "a zero reload never expires")
}

func TestTimerEnableRestartsPeriod(t *testing.T) {
	timer := NewTimer()
	calls := 0
	timer.InterruptHandler = func() { calls++ }
	timer.SetReload(100)
	timer.Start()
	timer.Tick(90)

	timer.EnableInterrupt()
	timer.Tick(90)
	assert.Equal(t, 0, calls, "enabling reloads a full period")
	timer.Tick(10)
	assert.Equal(t, 1, calls)
}
