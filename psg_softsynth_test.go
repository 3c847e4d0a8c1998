// psg_softsynth_test.go - Tests for the reinterpretive softsynth backend.

package main

import "testing"

// Both backends must satisfy the shared interface.
var (
	_ PsgBackend = (*Ym2149)(nil)
	_ PsgBackend = (*SoftSynth)(nil)
)

func newTestSynth() *SoftSynth {
	return NewSoftSynth(PSG_CLOCK_ATARI_ST, SAMPLE_RATE)
}

func TestSynthRegisterMasking(t *testing.T) {
	s := newTestSynth()
	for reg := uint8(0); reg < PSG_REG_COUNT; reg++ {
		s.WriteRegister(reg, 0xFF)
		if got := s.ReadRegister(reg); got != psgRegMask[reg] {
			t.Errorf("R%d: read 0x%02X, want 0x%02X", reg, got, psgRegMask[reg])
		}
	}
	s.WriteRegister(99, 0x55)
	if s.ReadRegister(99) != 0 {
		t.Fatalf("out-of-range register should read 0")
	}
}

func TestSynthResetState(t *testing.T) {
	s := newTestSynth()
	s.WriteRegister(8, 0x0F)
	s.WriteRegister(0, 0x80)
	for i := 0; i < 100; i++ {
		s.NextSample()
	}
	s.Reset()
	if got := s.ReadRegister(7); got != 0xFF {
		t.Fatalf("R7 after reset = 0x%02X, want 0xFF", got)
	}
	if got := s.ReadRegister(8); got != 0 {
		t.Fatalf("R8 after reset = 0x%02X, want 0", got)
	}
}

func TestSynthToneOscillates(t *testing.T) {
	s := newTestSynth()
	s.WriteRegister(0, 0x1C)
	s.WriteRegister(1, 0x01)
	s.WriteRegister(7, 0x3E)
	s.WriteRegister(8, 0x0F)

	transitions := 0
	prev := float32(0)
	for i := 0; i < 2000; i++ {
		s.NextSample()
		a, _, _ := s.ChannelOutputs()
		if i > 0 && ((a == 0) != (prev == 0)) {
			transitions++
		}
		prev = a
		if a < 0 || a > 1.01 {
			t.Fatalf("voice output %f out of range", a)
		}
	}
	// ~440 Hz means ~40 gate transitions over 2000 samples.
	if transitions < 30 || transitions > 50 {
		t.Fatalf("tone gate transitioned %d times, want ~40", transitions)
	}
}

func TestSynthMute(t *testing.T) {
	s := newTestSynth()
	s.WriteRegister(0, 0x1C)
	s.WriteRegister(1, 0x01)
	s.WriteRegister(7, 0x3E)
	s.WriteRegister(8, 0x0F)

	s.SetChannelMute(0, true)
	if !s.IsChannelMuted(0) {
		t.Fatalf("voice 0 should report muted")
	}
	for i := 0; i < 500; i++ {
		s.NextSample()
		if a, _, _ := s.ChannelOutputs(); a != 0 {
			t.Fatalf("muted voice produced output %f", a)
		}
	}
}

func TestSynthDrumOverride(t *testing.T) {
	s := newTestSynth()
	s.SetDrumOverride(2, 0.25)
	s.NextSample()
	_, _, c := s.ChannelOutputs()
	if diff := c - 0.75; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("drum voice output = %f, want 0.75", c)
	}
	s.ClearDrumOverride(2)
	s.NextSample()
	if _, _, c := s.ChannelOutputs(); c != 0 {
		t.Fatalf("cleared drum still outputs %f", c)
	}
}

func TestSynthEnvelopeMoves(t *testing.T) {
	s := newTestSynth()
	s.WriteRegister(11, 0x01)
	s.WriteRegister(13, 0x0C) // repeating ramp up
	s.WriteRegister(7, 0xFF)
	s.WriteRegister(8, 0x10) // voice A follows the envelope

	levels := map[int]bool{}
	for i := 0; i < 1000; i++ {
		s.NextSample()
		levels[s.envLevel] = true
	}
	if len(levels) < 8 {
		t.Fatalf("envelope visited only %d levels, want a moving ramp", len(levels))
	}
}

func TestSynthDeterministic(t *testing.T) {
	a := newTestSynth()
	b := newTestSynth()
	program := func(s *SoftSynth) {
		s.WriteRegister(0, 0x50)
		s.WriteRegister(6, 0x05)
		s.WriteRegister(7, 0x36)
		s.WriteRegister(8, 0x0D)
	}
	program(a)
	program(b)
	for i := 0; i < 5000; i++ {
		if sa, sb := a.NextSample(), b.NextSample(); sa != sb {
			t.Fatalf("outputs diverged at sample %d: %f != %f", i, sa, sb)
		}
	}
}
