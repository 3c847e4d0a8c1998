// psg_effects_test.go - Tests for SID gating, digidrums and the sync buzzer.

package main

import "testing"

// retriggerCounter wraps a chip so envelope retriggers through the backend
// interface can be counted.
type retriggerCounter struct {
	*Ym2149
	count int
}

func (r *retriggerCounter) RetriggerEnvelope() {
	r.count++
	r.Ym2149.RetriggerEnvelope()
}

func TestSyncBuzzerRetriggerRate(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	chip := &retriggerCounter{Ym2149: newTestChip()}

	fx.SyncBuzzerStart(100)
	for i := 0; i < int(SAMPLE_RATE); i++ {
		fx.Tick(chip)
	}
	if chip.count < 98 || chip.count > 101 {
		t.Fatalf("sync buzzer retriggered %d times in 1s at 100 Hz", chip.count)
	}

	fx.SyncBuzzerStop()
	before := chip.count
	for i := 0; i < 1000; i++ {
		fx.Tick(chip)
	}
	if chip.count != before {
		t.Fatalf("buzzer kept retriggering after stop")
	}
}

func TestSidSquareGating(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	ym := newTestChip()

	// 2205 Hz timer at 44100 Hz = a 20-sample half period.
	fx.SidStart(0, 2205, 0x0A)
	high, low := 0, 0
	for i := 0; i < 400; i++ {
		fx.Tick(ym)
		switch ym.ReadRegister(8) {
		case 0x0A:
			high++
		case 0x00:
			low++
		default:
			t.Fatalf("unexpected volume 0x%02X written by SID gate", ym.ReadRegister(8))
		}
	}
	if high < 198 || high > 202 {
		t.Fatalf("SID gate high for %d of 400 samples, want ~200", high)
	}
	if high+low != 400 {
		t.Fatalf("SID gate wrote a value outside {0, vol}")
	}
}

func TestSidStopFreezesRegister(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	ym := newTestChip()

	fx.SidStart(1, 1000, 0x0C)
	for i := 0; i < 50; i++ {
		fx.Tick(ym)
	}
	fx.SidStop(1)
	ym.WriteRegister(9, 0x05)
	for i := 0; i < 50; i++ {
		fx.Tick(ym)
	}
	if got := ym.ReadRegister(9); got != 0x05 {
		t.Fatalf("stopped SID still writes R9, got 0x%02X", got)
	}
}

func TestSidSinusWritesCurve(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	ym := newTestChip()

	fx.SidSinStart(2, 441, 0x0F)
	minV, maxV := uint8(0xFF), uint8(0)
	for i := 0; i < 200; i++ {
		fx.Tick(ym)
		v := ym.ReadRegister(10)
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV <= minV {
		t.Fatalf("sinus SID wrote a flat curve (min=%d max=%d)", minV, maxV)
	}
	if maxV > 0x0F {
		t.Fatalf("sinus SID exceeded the volume range: %d", maxV)
	}
}

func TestDigidrumPlaysAndSelfStops(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	ym := newTestChip()
	sample := []byte{40, 80, 120, 160}

	// Timer at the sample rate advances one PCM byte per tick.
	fx.DigidrumStart(0, sample, SAMPLE_RATE)
	if !fx.DrumActive(0) {
		t.Fatalf("drum should be active after start")
	}

	for i := 0; i < len(sample); i++ {
		fx.Tick(ym)
		if !ym.drumActive[0] {
			t.Fatalf("drum override missing at byte %d", i)
		}
		want := float32(sample[i]) / 255.0 / 3.0
		if diff := ym.drumOverride[0] - want; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("byte %d: override %f, want %f", i, ym.drumOverride[0], want)
		}
	}

	fx.Tick(ym)
	if fx.DrumActive(0) {
		t.Fatalf("drum should stop after its last byte")
	}
	if ym.drumActive[0] {
		t.Fatalf("drum override not cleared on completion")
	}
}

func TestDigidrumRejectsBadArgs(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	fx.DigidrumStart(0, nil, SAMPLE_RATE)
	fx.DigidrumStart(0, []byte{1}, 0)
	fx.DigidrumStart(5, []byte{1}, SAMPLE_RATE)
	for v := 0; v < 3; v++ {
		if fx.DrumActive(v) {
			t.Fatalf("invalid start activated drum on voice %d", v)
		}
	}
}

func TestEffectsReset(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	ym := newTestChip()

	fx.SidStart(0, 1000, 0x0F)
	fx.DigidrumStart(1, []byte{1, 2, 3}, 8000)
	fx.SyncBuzzerStart(50)
	fx.Reset()

	if fx.DrumActive(1) {
		t.Fatalf("reset left a drum active")
	}
	ym.WriteRegister(8, 0x07)
	for i := 0; i < 100; i++ {
		fx.Tick(ym)
	}
	if got := ym.ReadRegister(8); got != 0x07 {
		t.Fatalf("reset left a SID gate writing R8, got 0x%02X", got)
	}
}

func TestEffectsVoiceRangeChecks(t *testing.T) {
	fx := NewEffectsManager(SAMPLE_RATE)
	fx.SidStart(-1, 1000, 0x0F)
	fx.SidStart(3, 1000, 0x0F)
	fx.SidStop(-1)
	fx.DigidrumStop(9)
	if fx.DrumActive(-1) || fx.DrumActive(3) {
		t.Fatalf("out-of-range voices should never be active")
	}

	ym := newTestChip()
	for i := 0; i < 10; i++ {
		fx.Tick(ym)
	}
}
