//go:build !headless

package player

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/valerio/go-tonematch/tonematch/audio"
)

// bufferDuration trades latency against underruns on slow hosts
const bufferDuration = 50 * time.Millisecond

// OtoPlayer streams the converter output to the host sound card.
type OtoPlayer struct {
	ctx      *oto.Context
	player   *oto.Player
	provider atomic.Pointer[providerRef] // read lock-free from the audio thread
	started  bool
	mutex    sync.Mutex
}

type providerRef struct {
	audio.Provider
}

// New opens a mono signed 16-bit output at sampleRate.
func New(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferDuration,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("player: failed to open audio output: %w", err)
	}
	<-ready

	slog.Debug("Audio output ready", "sample_rate", sampleRate)
	return &OtoPlayer{ctx: ctx}, nil
}

// Setup attaches the sample source.
func (op *OtoPlayer) Setup(provider audio.Provider) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.provider.Store(&providerRef{provider})
	if op.player == nil {
		op.player = op.ctx.NewPlayer(op)
	}
}

// Read implements io.Reader for oto.
func (op *OtoPlayer) Read(p []byte) (int, error) {
	ref := op.provider.Load()
	if ref == nil {
		clear(p)
		return len(p), nil
	}
	return fill(p, ref.Provider), nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Close() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Pause()
		op.player.Close()
		op.player = nil
	}
	op.started = false
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
