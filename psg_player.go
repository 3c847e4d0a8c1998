// psg_player.go - Mutex-guarded playback facade over backend, effects and sequencer.

package main

import (
	"fmt"
	"math"
	"sync"
)

// Backend selector, mirrors the audio output selection style.
const (
	PSG_BACKEND_HARDWARE = iota
	PSG_BACKEND_SOFTSYNTH
)

type PSGMetadata struct {
	Title      string
	Author     string
	Comments   string
	System     string
	Version    int
	FrameCount int
	FrameRate  uint16
	ClockHz    uint32
}

// PsgPlayer owns a backend, an effects manager and a sequencer behind one
// mutex. A producer thread (or the audio output's pull path) and control
// callers may share a single player; every public method takes the lock, so
// each call executes to completion before the next begins.
type PsgPlayer struct {
	mutex       sync.Mutex
	sampleRate  uint32
	backendKind int

	backend PsgBackend
	fx      *EffectsManager
	seq     *Sequencer

	file     *YMFile
	metadata PSGMetadata
}

func NewPsgPlayer(backendKind int, sampleRate uint32) *PsgPlayer {
	if sampleRate == 0 {
		sampleRate = SAMPLE_RATE
	}
	p := &PsgPlayer{
		sampleRate:  sampleRate,
		backendKind: backendKind,
		fx:          NewEffectsManager(sampleRate),
	}
	p.backend = p.newBackend(PSG_CLOCK_ATARI_ST)
	p.seq = NewSequencer(p.backend, p.fx, sampleRate, 50)
	return p
}

func (p *PsgPlayer) newBackend(clockHz uint32) PsgBackend {
	if p.backendKind == PSG_BACKEND_SOFTSYNTH {
		return NewSoftSynth(clockHz, p.sampleRate)
	}
	return NewYm2149(clockHz, p.sampleRate)
}

func (p *PsgPlayer) Load(path string) error {
	if !isYMExtension(path) {
		return fmt.Errorf("unsupported PSG file type: %s", pathExt(path))
	}
	file, err := ParseYMFile(path)
	if err != nil {
		return err
	}
	p.install(file)
	return nil
}

func (p *PsgPlayer) LoadData(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("psg data empty")
	}
	file, err := ParseYMData(data)
	if err != nil {
		decompressed, decErr := DecompressLHAData(data)
		if decErr != nil {
			return err
		}
		file, err = ParseYMData(decompressed)
		if err != nil {
			return err
		}
	}
	p.install(file)
	return nil
}

// install replaces the backend wholesale for the new song; chips are never
// reconfigured mid-session.
func (p *PsgPlayer) install(file *YMFile) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.file = file
	p.metadata = PSGMetadata{
		Title:      file.Title,
		Author:     file.Author,
		Comments:   file.Comments,
		System:     "Atari ST",
		Version:    file.Version,
		FrameCount: len(file.Frames),
		FrameRate:  file.FrameRate,
		ClockHz:    file.ClockHz,
	}
	p.backend = p.newBackend(file.ClockHz)
	p.fx = NewEffectsManager(p.sampleRate)
	p.seq = NewSequencer(p.backend, p.fx, p.sampleRate, file.FrameRate)
	p.seq.SetTranslator(NewYmMusic(file))

	if psgDebugEnabled() && len(file.Frames) > 0 {
		first := file.Frames[0]
		fmt.Printf("PSG debug: R0=%02X R1=%02X R2=%02X R3=%02X R4=%02X R5=%02X R6=%02X R7=%02X R8=%02X R9=%02X R10=%02X R11=%02X R12=%02X R13=%02X\n",
			first[0], first[1], first[2], first[3], first[4], first[5], first[6],
			first[7], first[8], first[9], first[10], first[11], first[12], first[13])
	}
}

func (p *PsgPlayer) Play() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.seq.Play()
}

func (p *PsgPlayer) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.seq.Pause()
}

func (p *PsgPlayer) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.fx.Reset()
	p.seq.Stop()
}

func (p *PsgPlayer) State() SequencerState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.seq.State()
}

func (p *PsgPlayer) IsPlaying() bool {
	return p.State() == SeqPlaying
}

// GenerateSamplesInto fills buf with the next samples of playback. Safe to
// call from the audio output's pull goroutine.
func (p *PsgPlayer) GenerateSamplesInto(buf []float32) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.seq.GenerateInto(buf)
}

func (p *PsgPlayer) GenerateSamples(count int) []float32 {
	if count <= 0 {
		return nil
	}
	buf := make([]float32, count)
	p.GenerateSamplesInto(buf)
	return buf
}

func (p *PsgPlayer) Metadata() PSGMetadata {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.metadata
}

func (p *PsgPlayer) SetChannelMute(voice int, mute bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.backend.SetChannelMute(voice, mute)
}

func (p *PsgPlayer) IsChannelMuted(voice int) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.backend.IsChannelMuted(voice)
}

func (p *PsgPlayer) SetColorFilter(enabled bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.backend.SetColorFilter(enabled)
}

func (p *PsgPlayer) ChannelOutputs() (float32, float32, float32) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.backend.ChannelOutputs()
}

func (p *PsgPlayer) DurationSeconds() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.file == nil || p.file.FrameRate == 0 {
		return 0
	}
	return float64(len(p.file.Frames)) / float64(p.file.FrameRate)
}

func (p *PsgPlayer) PositionSeconds() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.file == nil || p.file.FrameRate == 0 {
		return 0
	}
	return float64(p.seq.Frame()) / float64(p.file.FrameRate)
}

func (p *PsgPlayer) DurationText() string {
	secs := p.DurationSeconds()
	if secs <= 0 {
		return ""
	}
	mins := int(secs) / 60
	rem := int(math.Round(secs)) % 60
	return fmt.Sprintf("%d:%02d", mins, rem)
}
