package hw

// Timer models a periodic interrupt timer channel.
//
// The channel counts down from its reload value at the board's tick clock.
// On reaching zero it raises the pending flag, reloads and, when interrupts
// are enabled, calls InterruptHandler. The handler runs synchronously inside
// Tick, the way an interrupt preempts the foreground on the real board.
type Timer struct {
	reload     uint32 // Load value, takes effect at the next expiry
	counter    uint32 // Ticks left in the current period
	running    bool
	irqEnabled bool
	pending    bool

	expirations uint64
	interrupts  uint64

	// IRQ callback
	InterruptHandler func()
}

// NewTimer creates a stopped timer channel with interrupts disabled.
func NewTimer() *Timer {
	return &Timer{}
}

// Start runs the channel without interrupts, as done once at board bring-up.
func (t *Timer) Start() {
	t.running = true
	t.counter = t.reload
}

// SetReload writes the load value.
func (t *Timer) SetReload(ticks uint32) {
	t.reload = ticks
	if t.counter == 0 {
		t.counter = ticks
	}
}

// EnableInterrupt restarts the countdown from the load value and lets
// expiries reach the handler.
func (t *Timer) EnableInterrupt() {
	t.running = true
	t.irqEnabled = true
	t.counter = t.reload
}

// DisableInterrupt masks the channel's interrupt. The channel keeps counting.
func (t *Timer) DisableInterrupt() {
	t.irqEnabled = false
}

// ClearPending acknowledges the timeout flag.
func (t *Timer) ClearPending() {
	t.pending = false
}

// Tick advances the channel by the given number of clock ticks.
func (t *Timer) Tick(ticks int) {
	if !t.running || t.reload == 0 {
		return
	}

	remaining := uint64(ticks)
	for remaining > 0 {
		if t.counter == 0 {
			t.counter = t.reload
		}
		if remaining < uint64(t.counter) {
			t.counter -= uint32(remaining)
			return
		}

		remaining -= uint64(t.counter)
		t.counter = t.reload
		t.pending = true
		t.expirations++

		if t.irqEnabled && t.InterruptHandler != nil {
			t.interrupts++
			t.InterruptHandler()
		}
		if t.reload == 0 {
			return
		}
	}
}

// Reload returns the current load value.
func (t *Timer) Reload() uint32 {
	return t.reload
}

// InterruptEnabled reports whether expiries reach the handler.
func (t *Timer) InterruptEnabled() bool {
	return t.irqEnabled
}

// Pending reports whether the timeout flag is raised.
func (t *Timer) Pending() bool {
	return t.pending
}

// Interrupts returns the number of times the handler was called.
func (t *Timer) Interrupts() uint64 {
	return t.interrupts
}
