// psg_sequencer.go - Frame/tick scheduler decoupling replay rate from sample rate.

package main

import "math"

type SequencerState int

const (
	SeqIdle SequencerState = iota
	SeqPlaying
	SeqPaused
	SeqStopped
)

// FrameTranslator turns a frame index into register writes and effect calls.
// Implementations live outside the core (the YM translator is one).
type FrameTranslator interface {
	FrameCount() int
	LoopFrame() (int, bool)
	ApplyFrame(index int, b PsgBackend, fx *EffectsManager)
}

// Sequencer drives a backend at a musical replay rate (typically 50 Hz)
// while producing audio at the host sample rate. Samples-per-tick is
// generally non-integer, so a fractional accumulator decides where tick
// boundaries fall.
type Sequencer struct {
	backend    PsgBackend
	fx         *EffectsManager
	translator FrameTranslator

	samplesPerTick float64
	acc            float64
	frame          int
	state          SequencerState
}

func NewSequencer(b PsgBackend, fx *EffectsManager, sampleRate uint32, replayRate uint16) *Sequencer {
	seq := &Sequencer{
		backend: b,
		fx:      fx,
	}
	seq.SetReplayRate(sampleRate, replayRate)
	return seq
}

func (seq *Sequencer) SetReplayRate(sampleRate uint32, replayRate uint16) {
	if replayRate == 0 {
		replayRate = 50
	}
	if sampleRate == 0 {
		sampleRate = SAMPLE_RATE
	}
	seq.samplesPerTick = float64(sampleRate) / float64(replayRate)
}

func (seq *Sequencer) SetTranslator(t FrameTranslator) {
	seq.translator = t
	seq.frame = 0
	seq.acc = 0
	seq.state = SeqIdle
}

func (seq *Sequencer) State() SequencerState {
	return seq.state
}

func (seq *Sequencer) Frame() int {
	return seq.frame
}

// Play starts or resumes playback. Starting from Idle or Stopped applies the
// first frame on the very next generated batch.
func (seq *Sequencer) Play() {
	if seq.translator == nil {
		return
	}
	if seq.state == SeqPaused {
		seq.state = SeqPlaying
		return
	}
	seq.frame = 0
	seq.acc = seq.samplesPerTick
	seq.state = SeqPlaying
}

func (seq *Sequencer) Pause() {
	if seq.state == SeqPlaying {
		seq.state = SeqPaused
	}
}

// Stop rewinds to the first frame and silences the backend and effects.
func (seq *Sequencer) Stop() {
	seq.state = SeqStopped
	seq.frame = 0
	seq.acc = 0
	if seq.fx != nil {
		seq.fx.Reset()
	}
	seq.backend.Reset()
}

// GenerateInto fills buf completely. Tick boundaries are honored mid-buffer:
// the next register frame applies exactly where the accumulator crosses the
// samples-per-tick threshold. When not playing, the buffer is zero filled.
func (seq *Sequencer) GenerateInto(buf []float32) {
	pos := 0
	for pos < len(buf) {
		if seq.state != SeqPlaying {
			for ; pos < len(buf); pos++ {
				buf[pos] = 0
			}
			return
		}

		remain := int(math.Ceil(seq.samplesPerTick - seq.acc))
		if remain <= 0 {
			seq.acc -= seq.samplesPerTick
			seq.applyNextFrame()
			continue
		}
		n := remain
		if n > len(buf)-pos {
			n = len(buf) - pos
		}
		for i := 0; i < n; i++ {
			seq.fx.Tick(seq.backend)
			buf[pos+i] = seq.backend.NextSample()
		}
		pos += n
		seq.acc += float64(n)
	}
}

func (seq *Sequencer) applyNextFrame() {
	count := seq.translator.FrameCount()
	if seq.frame >= count {
		if loop, ok := seq.translator.LoopFrame(); ok && loop < count {
			seq.frame = loop
		} else {
			seq.state = SeqStopped
			return
		}
	}
	seq.translator.ApplyFrame(seq.frame, seq.backend, seq.fx)
	seq.frame++
}
