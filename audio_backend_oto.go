//go:build !headless

// audio_backend_oto.go - OTO v3 audio output for live playback.

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

type OtoOutput struct {
	ctx       *oto.Context
	player    *oto.Player
	source    atomic.Pointer[PsgPlayer] // atomic for the lock-free Read() path
	sampleBuf []float32                 // pre-allocated pull buffer
	started   bool
	mutex     sync.Mutex // setup/control only
}

func NewAudioOutput(sampleRate uint32) (*OtoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoOutput{ctx: ctx}, nil
}

func (out *OtoOutput) SetupPlayer(p *PsgPlayer) {
	out.mutex.Lock()
	defer out.mutex.Unlock()

	out.source.Store(p)
	out.player = out.ctx.NewPlayer(out)
	// Typical oto pull size is 4096 bytes = 1024 float32 samples.
	out.sampleBuf = make([]float32, 4096)
}

func (out *OtoOutput) Read(p []byte) (n int, err error) {
	source := out.source.Load()
	if source == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4
	if len(out.sampleBuf) < numSamples {
		out.sampleBuf = make([]float32, numSamples)
	}
	samples := out.sampleBuf[:numSamples]

	source.GenerateSamplesInto(samples)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

func (out *OtoOutput) Start() {
	out.mutex.Lock()
	defer out.mutex.Unlock()

	if !out.started && out.player != nil {
		out.player.Play()
		out.started = true
	}
}

func (out *OtoOutput) Stop() {
	out.mutex.Lock()
	defer out.mutex.Unlock()

	if out.started && out.player != nil {
		out.player.Pause()
		out.started = false
	}
}

func (out *OtoOutput) Close() {
	out.Stop()
	out.mutex.Lock()
	defer out.mutex.Unlock()

	if out.player != nil {
		out.player.Close()
		out.player = nil
	}
}

func (out *OtoOutput) IsStarted() bool {
	out.mutex.Lock()
	defer out.mutex.Unlock()
	return out.started
}
