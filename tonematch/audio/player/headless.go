//go:build headless

package player

import (
	"sync/atomic"

	"github.com/valerio/go-tonematch/tonematch/audio"
)

// OtoPlayer is a silent stand-in for builds without a sound card. It still
// drains the provider so the converter buffer behaves as it does with audio.
type OtoPlayer struct {
	provider atomic.Pointer[providerRef]
	started  bool
}

type providerRef struct {
	audio.Provider
}

func New(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) Setup(provider audio.Provider) {
	op.provider.Store(&providerRef{provider})
}

func (op *OtoPlayer) Read(p []byte) (int, error) {
	ref := op.provider.Load()
	if ref == nil {
		clear(p)
		return len(p), nil
	}
	return fill(p, ref.Provider), nil
}

func (op *OtoPlayer) Start() {
	op.started = true
}

func (op *OtoPlayer) Close() {
	op.started = false
}

func (op *OtoPlayer) IsStarted() bool {
	return op.started
}
