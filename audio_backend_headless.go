//go:build headless

// audio_backend_headless.go - Silent audio output for tests and CI.

package main

type OtoOutput struct {
	started bool
	source  *PsgPlayer
}

func NewAudioOutput(sampleRate uint32) (*OtoOutput, error) {
	return &OtoOutput{}, nil
}

func (out *OtoOutput) SetupPlayer(p *PsgPlayer) {
	out.source = p
}

func (out *OtoOutput) Read(p []byte) (n int, err error) {
	return len(p), nil
}

func (out *OtoOutput) Start() {
	out.started = true
}

func (out *OtoOutput) Stop() {
	out.started = false
}

func (out *OtoOutput) Close() {
	out.started = false
}

func (out *OtoOutput) IsStarted() bool {
	return out.started
}
