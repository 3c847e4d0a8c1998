// psg_sequencer_test.go - Tests for the frame sequencer.

package main

import "testing"

// scriptTranslator records which frames were applied.
type scriptTranslator struct {
	frames  int
	loop    int
	hasLoop bool
	applied []int
}

func (s *scriptTranslator) FrameCount() int { return s.frames }

func (s *scriptTranslator) LoopFrame() (int, bool) { return s.loop, s.hasLoop }

func (s *scriptTranslator) ApplyFrame(index int, b PsgBackend, fx *EffectsManager) {
	s.applied = append(s.applied, index)
}

func newTestSequencer(script *scriptTranslator) (*Sequencer, *Ym2149) {
	ym := newTestChip()
	fx := NewEffectsManager(SAMPLE_RATE)
	seq := NewSequencer(ym, fx, SAMPLE_RATE, 50)
	seq.SetTranslator(script)
	return seq, ym
}

func TestSequencerIdleProducesSilence(t *testing.T) {
	seq, _ := newTestSequencer(&scriptTranslator{frames: 10})
	buf := make([]float32, 256)
	buf[0] = 42
	seq.GenerateInto(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("idle sample %d = %f, want 0", i, s)
		}
	}
	if seq.State() != SeqIdle {
		t.Fatalf("state = %d, want idle", seq.State())
	}
}

func TestSequencerAppliesFramesAtReplayRate(t *testing.T) {
	script := &scriptTranslator{frames: 100}
	seq, _ := newTestSequencer(script)

	seq.Play()
	buf := make([]float32, SAMPLE_RATE) // one second at 50 Hz = 50 ticks
	seq.GenerateInto(buf)

	if len(script.applied) != 50 {
		t.Fatalf("applied %d frames in 1s, want 50", len(script.applied))
	}
	for i, frame := range script.applied {
		if frame != i {
			t.Fatalf("frame order broken at %d: got %d", i, frame)
		}
	}
}

func TestSequencerFrameBoundariesMidBuffer(t *testing.T) {
	script := &scriptTranslator{frames: 100}
	seq, _ := newTestSequencer(script)

	seq.Play()
	// Generate in odd-sized chunks; tick spacing must not depend on the
	// buffer size handed to GenerateInto.
	buf := make([]float32, 1337)
	total := 0
	for total < int(SAMPLE_RATE) {
		seq.GenerateInto(buf)
		total += len(buf)
	}
	ticks := len(script.applied)
	wantMin := total * 50 / int(SAMPLE_RATE)
	if ticks < wantMin || ticks > wantMin+2 {
		t.Fatalf("applied %d frames over %d samples, want ~%d", ticks, total, wantMin)
	}
}

func TestSequencerStopsAtEnd(t *testing.T) {
	script := &scriptTranslator{frames: 3}
	seq, _ := newTestSequencer(script)

	seq.Play()
	buf := make([]float32, SAMPLE_RATE/5) // 10 ticks worth
	seq.GenerateInto(buf)

	if seq.State() != SeqStopped {
		t.Fatalf("state = %d after final frame, want stopped", seq.State())
	}
	if len(script.applied) != 3 {
		t.Fatalf("applied %d frames, want 3", len(script.applied))
	}
	// Tail samples past the end must be silent.
	tail := buf[len(buf)-100:]
	for i, s := range tail {
		if s != 0 {
			t.Fatalf("post-stop sample %d = %f, want 0", i, s)
		}
	}
}

func TestSequencerLoops(t *testing.T) {
	script := &scriptTranslator{frames: 4, loop: 2, hasLoop: true}
	seq, _ := newTestSequencer(script)

	seq.Play()
	buf := make([]float32, SAMPLE_RATE/50*8) // 8 ticks
	seq.GenerateInto(buf)

	want := []int{0, 1, 2, 3, 2, 3, 2, 3}
	if len(script.applied) != len(want) {
		t.Fatalf("applied %d frames, want %d", len(script.applied), len(want))
	}
	for i, frame := range script.applied {
		if frame != want[i] {
			t.Fatalf("loop order broken at tick %d: got %d, want %d", i, frame, want[i])
		}
	}
	if seq.State() != SeqPlaying {
		t.Fatalf("looping song should still be playing")
	}
}

func TestSequencerPauseResume(t *testing.T) {
	script := &scriptTranslator{frames: 100}
	seq, _ := newTestSequencer(script)

	seq.Play()
	buf := make([]float32, SAMPLE_RATE/10)
	seq.GenerateInto(buf)
	applied := len(script.applied)

	seq.Pause()
	if seq.State() != SeqPaused {
		t.Fatalf("state after pause = %d", seq.State())
	}
	seq.GenerateInto(buf)
	if len(script.applied) != applied {
		t.Fatalf("frames advanced while paused")
	}
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("paused sample %d = %f, want 0", i, s)
		}
	}

	seq.Play()
	if seq.State() != SeqPlaying {
		t.Fatalf("resume should not rewind to idle")
	}
	seq.GenerateInto(buf)
	if len(script.applied) <= applied {
		t.Fatalf("frames did not advance after resume")
	}
	// Resume must continue, not restart from frame 0.
	if script.applied[applied] != applied {
		t.Fatalf("resume restarted at frame %d", script.applied[applied])
	}
}

func TestSequencerStopRewindsAndSilencesChip(t *testing.T) {
	script := &scriptTranslator{frames: 100}
	seq, ym := newTestSequencer(script)

	seq.Play()
	buf := make([]float32, SAMPLE_RATE/10)
	seq.GenerateInto(buf)
	ym.WriteRegister(8, 0x0F)

	seq.Stop()
	if seq.State() != SeqStopped {
		t.Fatalf("state after stop = %d", seq.State())
	}
	if seq.Frame() != 0 {
		t.Fatalf("stop should rewind to frame 0, at %d", seq.Frame())
	}
	if got := ym.ReadRegister(8); got != 0 {
		t.Fatalf("stop should reset the chip, R8 = 0x%02X", got)
	}
}

func TestSequencerPlayWithoutTranslator(t *testing.T) {
	ym := newTestChip()
	seq := NewSequencer(ym, NewEffectsManager(SAMPLE_RATE), SAMPLE_RATE, 50)
	seq.Play()
	if seq.State() != SeqIdle {
		t.Fatalf("play without a translator should stay idle")
	}
}

func TestSequencerZeroReplayRateDefaults(t *testing.T) {
	script := &scriptTranslator{frames: 10}
	ym := newTestChip()
	seq := NewSequencer(ym, NewEffectsManager(SAMPLE_RATE), SAMPLE_RATE, 0)
	seq.SetTranslator(script)
	seq.Play()

	buf := make([]float32, SAMPLE_RATE/10)
	seq.GenerateInto(buf)
	// 0 replay rate falls back to 50 Hz: 5 ticks in a tenth of a second.
	if len(script.applied) < 5 || len(script.applied) > 6 {
		t.Fatalf("applied %d frames, want ~5 at the 50 Hz default", len(script.applied))
	}
}
