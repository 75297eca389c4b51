package panel

import (
	"fmt"
	"io"
	"log/slog"

	"go.bug.st/serial"
)

// Port is the LED output port the panel mirrors.
type Port interface {
	OnChange(callback func(data uint32))
	Snapshot() uint32
}

// Panel mirrors the board's LEDs onto an external lamp board, one frame
// per change of the output port.
type Panel struct {
	w      io.Writer
	closer io.Closer
	frames int
	failed bool
}

// New creates a panel writing frames to w.
func New(w io.Writer) *Panel {
	p := &Panel{w: w}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// Open connects to a panel on a serial port.
func Open(name string, baud int) (*Panel, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("panel: failed to open %s: %w", name, err)
	}

	slog.Info("LED panel connected", "port", name, "baud", baud)
	return New(port), nil
}

// Ports lists the serial ports a panel could be attached to.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}

// Attach sends the current state and follows every later change.
func (p *Panel) Attach(port Port) error {
	port.OnChange(func(data uint32) {
		if err := p.Send(data); err != nil && !p.failed {
			// one report is enough, the game keeps running without the panel
			p.failed = true
			slog.Error("LED panel write failed", "error", err)
		}
	})
	return p.Send(port.Snapshot())
}

// Send writes one frame for an LED port snapshot.
func (p *Panel) Send(leds uint32) error {
	if _, err := p.w.Write(Encode(leds)); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	p.frames++
	return nil
}

// Frames returns the number of frames written.
func (p *Panel) Frames() int {
	return p.frames
}

func (p *Panel) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
