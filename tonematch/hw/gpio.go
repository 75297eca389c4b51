package hw

import "github.com/valerio/go-tonematch/tonematch/bit"

// InputPort is a 32-line input port with pull-ups: an idle line reads 1 and a
// pressed button pulls its line to 0.
type InputPort struct {
	low uint32 // lines currently pulled low
}

// NewInputPort creates a port with every line released.
func NewInputPort() *InputPort {
	return &InputPort{}
}

// ReadSnapshot returns the raw level of all lines in one read.
func (p *InputPort) ReadSnapshot() uint32 {
	return ^p.low
}

// Press pulls a line low.
func (p *InputPort) Press(line uint8) {
	p.low = bit.Set(line, p.low)
}

// Release lets a line float back high.
func (p *InputPort) Release(line uint8) {
	p.low = bit.Clear(line, p.low)
}

// ReleaseAll releases every line.
func (p *InputPort) ReleaseAll() {
	p.low = 0
}

// OutputPort is a 32-line output data register restricted to the lines
// configured as outputs.
type OutputPort struct {
	mask      uint32
	data      uint32
	listeners []func(data uint32)
}

// NewOutputPort creates a port driving only the lines in mask, all low.
func NewOutputPort(mask uint32) *OutputPort {
	return &OutputPort{mask: mask}
}

// OnChange registers a callback fired with the new register value whenever
// an output level changes.
func (p *OutputPort) OnChange(callback func(data uint32)) {
	p.listeners = append(p.listeners, callback)
}

// SetLine drives a single line. Lines outside the output mask are ignored.
func (p *OutputPort) SetLine(line uint8, level bool) {
	if line > 31 || !bit.IsSet(line, p.mask) {
		return
	}

	data := bit.Clear(line, p.data)
	if level {
		data = bit.Set(line, data)
	}
	p.write(data)
}

// ClearLines drives every output line low.
func (p *OutputPort) ClearLines() {
	p.write(0)
}

// SetAll drives every output line high.
func (p *OutputPort) SetAll() {
	p.write(p.mask)
}

// Snapshot returns the output data register.
func (p *OutputPort) Snapshot() uint32 {
	return p.data
}

// IsHigh reports whether a line is driven high.
func (p *OutputPort) IsHigh(line uint8) bool {
	return line <= 31 && bit.IsSet(line, p.data)
}

func (p *OutputPort) write(data uint32) {
	data &= p.mask
	if data == p.data {
		return
	}
	p.data = data
	for _, l := range p.listeners {
		l(data)
	}
}
