// psg_effects.go - Timer-driven software effects: SID gating, sync buzzer, digidrum.

package main

import "math"

// sidSinTable holds one 0..1 amplitude cycle for the sinus SID mode.
var sidSinTable [256]float32

func init() {
	for i := range sidSinTable {
		sidSinTable[i] = float32(0.5 + 0.5*math.Sin(2*math.Pi*float64(i)/256))
	}
}

type sidVoiceState struct {
	active bool
	sinus  bool
	pos    uint32
	step   uint32
	vol    uint8
}

type drumVoiceState struct {
	active bool
	data   []byte
	pos    uint32
	step   uint32
}

type buzzerState struct {
	active bool
	phase  uint32
	step   uint32
}

// EffectsManager reproduces the Atari ST software playback tricks that abuse
// register-write timing. Tick must run once per sample, strictly before the
// backend is clocked for that sample, because it mutates registers that take
// effect in the same cycle. The manager never parses file data; all effect
// starts and stops are explicit calls from the frame translator.
type EffectsManager struct {
	sampleRate uint32
	sid        [3]sidVoiceState
	drum       [3]drumVoiceState
	buzzer     buzzerState
}

func NewEffectsManager(sampleRate uint32) *EffectsManager {
	if sampleRate == 0 {
		sampleRate = SAMPLE_RATE
	}
	return &EffectsManager{sampleRate: sampleRate}
}

// timerStep converts a timer frequency to a 32-bit phase accumulator step
// that overflows bit 31 timerFreq times per second.
func (fx *EffectsManager) timerStep(timerFreq uint32) uint32 {
	if timerFreq == 0 {
		return 0
	}
	return uint32((uint64(timerFreq) << 31) / uint64(fx.sampleRate))
}

func (fx *EffectsManager) SidStart(voice int, timerFreq uint32, vol uint8) {
	if voice < 0 || voice > 2 {
		return
	}
	fx.sid[voice] = sidVoiceState{
		active: true,
		step:   fx.timerStep(timerFreq),
		vol:    vol & 0x0F,
	}
}

func (fx *EffectsManager) SidSinStart(voice int, timerFreq uint32, vol uint8) {
	if voice < 0 || voice > 2 {
		return
	}
	fx.sid[voice] = sidVoiceState{
		active: true,
		sinus:  true,
		step:   fx.timerStep(timerFreq),
		vol:    vol & 0x0F,
	}
}

func (fx *EffectsManager) SidStop(voice int) {
	if voice < 0 || voice > 2 {
		return
	}
	fx.sid[voice] = sidVoiceState{}
}

// DigidrumStart begins 8-bit PCM playback on a voice. The sample buffer is
// shared and treated as immutable; playback stops on its own when the
// position passes the end.
func (fx *EffectsManager) DigidrumStart(voice int, sample []byte, freq uint32) {
	if voice < 0 || voice > 2 || len(sample) == 0 || freq == 0 {
		return
	}
	fx.drum[voice] = drumVoiceState{
		active: true,
		data:   sample,
		step:   uint32((uint64(freq) << DRUM_PREC) / uint64(fx.sampleRate)),
	}
}

func (fx *EffectsManager) DigidrumStop(voice int) {
	if voice < 0 || voice > 2 {
		return
	}
	fx.drum[voice] = drumVoiceState{}
}

func (fx *EffectsManager) SyncBuzzerStart(timerFreq uint32) {
	fx.buzzer = buzzerState{
		active: true,
		step:   fx.timerStep(timerFreq),
	}
}

func (fx *EffectsManager) SyncBuzzerStop() {
	fx.buzzer = buzzerState{}
}

// DrumActive reports whether a digidrum is still playing on the voice.
func (fx *EffectsManager) DrumActive(voice int) bool {
	if voice < 0 || voice > 2 {
		return false
	}
	return fx.drum[voice].active
}

// Reset stops every effect without touching the backend.
func (fx *EffectsManager) Reset() {
	for v := range fx.sid {
		fx.sid[v] = sidVoiceState{}
		fx.drum[v] = drumVoiceState{}
	}
	fx.buzzer = buzzerState{}
}

// Tick applies one sample's worth of effect modulation to the backend.
func (fx *EffectsManager) Tick(b PsgBackend) {
	for v := range fx.sid {
		sid := &fx.sid[v]
		if !sid.active {
			continue
		}
		if sid.sinus {
			level := sidSinTable[sid.pos>>24] * float32(sid.vol)
			b.WriteRegister(uint8(8+v), uint8(level+0.5))
		} else if sid.pos&(1<<31) != 0 {
			b.WriteRegister(uint8(8+v), sid.vol)
		} else {
			b.WriteRegister(uint8(8+v), 0)
		}
		sid.pos += sid.step
	}

	for v := range fx.drum {
		drum := &fx.drum[v]
		if !drum.active {
			continue
		}
		idx := drum.pos >> DRUM_PREC
		if int(idx) >= len(drum.data) {
			drum.active = false
			drum.data = nil
			b.ClearDrumOverride(v)
			continue
		}
		// Digidrums rely on rapid amplitude writes, not the tone generator;
		// the override bypasses the tone/noise mixer entirely.
		b.SetDrumOverride(v, float32(drum.data[idx])/255.0/3.0)
		drum.pos += drum.step
	}

	if fx.buzzer.active {
		fx.buzzer.phase += fx.buzzer.step
		if fx.buzzer.phase&(1<<31) != 0 {
			b.RetriggerEnvelope()
			fx.buzzer.phase &^= 1 << 31
		}
	}
}
