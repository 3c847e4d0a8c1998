// psg_backend.go - Capability interface shared by the PSG backends.

package main

// PsgBackend is the register-level and sample-level surface the effects
// manager, sequencer and player are written against. Two implementations
// exist: the hardware-accurate Ym2149 and the reinterpretive SoftSynth.
// Implementations are infallible: out-of-range writes are masked or ignored,
// never rejected.
type PsgBackend interface {
	WriteRegister(reg, value uint8)
	ReadRegister(reg uint8) uint8
	LoadRegisters(frame [PSG_FRAME_SIZE]uint8)
	DumpRegisters() [PSG_FRAME_SIZE]uint8
	Reset()

	SetChannelMute(voice int, mute bool)
	IsChannelMuted(voice int) bool
	SetColorFilter(enabled bool)

	// EnterTimerIRQ brackets a register mutation window that models a timer
	// interrupt handler. Deferred edge resets are applied on exit.
	EnterTimerIRQ(inside bool)

	// RetriggerEnvelope forces the envelope back to phase 0, position 0,
	// regardless of the shape register. Used by the sync buzzer.
	RetriggerEnvelope()

	// SetDrumOverride substitutes a voice's audible level with an absolute
	// amplitude until cleared, bypassing tone, noise and volume registers.
	SetDrumOverride(voice int, level float32)
	ClearDrumOverride(voice int)

	NextSample() float32
	GenerateSamplesInto(buf []float32)

	// ChannelOutputs returns the most recent per-voice normalized levels
	// (0..1), intended for visualization consumers.
	ChannelOutputs() (float32, float32, float32)
}
