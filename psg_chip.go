// psg_chip.go - Cycle-accurate YM2149 PSG emulation core.

package main

// Ym2149 emulates one YM2149/AY-3-8912 programmable sound generator: three
// square-wave tone generators, a shared noise generator, the hardware
// envelope generator, and a mixer resampled from the internal clock
// (master/8) to the host sample rate. All state advances synchronously; the
// hot path never allocates.
type Ym2149 struct {
	regs       [PSG_REG_COUNT]uint8
	clockHz    uint32
	sampleRate uint32

	// Tone generators. Edge is the 5-bit square polarity, 0x00 or 0x1F.
	tonePeriod [3]uint32
	toneCount  [3]uint32
	toneEdge   [3]uint32

	// Noise generator. The 17-bit LFSR advances at half the tone tick rate.
	noisePeriod uint32
	noiseCount  uint32
	noiseFlip   bool
	noiseRack   uint32
	noiseBit    uint32

	// Envelope generator.
	envPeriod uint32
	envCount  uint32
	envShape  uint8
	envPhase  int
	envPos    uint32

	// Mixer output-enable masks derived from R7, 0x1F = generator bypassed.
	toneMask  [3]uint32
	noiseMask [3]uint32

	// Resampler accumulator (Bresenham, internal clock vs host rate).
	innerAcc  uint32
	innerRate uint32

	// Per-voice audibility vector from the last internal tick.
	audible [3]uint32

	muted        [3]bool
	drumActive   [3]bool
	drumOverride [3]float32

	// Zero-period tone writes inside a timer interrupt defer their edge
	// reset until the handler exits.
	insideIRQ   bool
	edgePending [3]bool

	colorFilter bool
	lowPass     [2]float32

	dcBuf [DC_WINDOW]float32
	dcPos int
	dcSum float64

	voiceOut [3]float32

	rng uint32
}

// envPosInc advances the 32-bit envelope position by one of 64 steps per
// phase pair; the overflow carry is what locks phase 0 into phase 1.
const envPosInc = 1 << 26

func NewYm2149(clockHz, sampleRate uint32) *Ym2149 {
	if clockHz == 0 {
		clockHz = PSG_CLOCK_ATARI_ST
	}
	if sampleRate == 0 {
		sampleRate = SAMPLE_RATE
	}
	ym := &Ym2149{
		clockHz:    clockHz,
		sampleRate: sampleRate,
	}
	ym.Reset()
	return ym
}

// Reset restores power-on state. Tone edges are scrambled with a fixed-seed
// LCG so the "unpredictable" hardware startup is reproducible run-to-run.
func (ym *Ym2149) Reset() {
	for reg := uint8(0); reg < PSG_REG_COUNT; reg++ {
		ym.WriteRegister(reg, 0)
	}
	ym.WriteRegister(7, 0xFF)

	for v := 0; v < 3; v++ {
		ym.toneCount[v] = 0
		ym.edgePending[v] = false
		ym.drumActive[v] = false
		ym.drumOverride[v] = 0
		ym.audible[v] = 0
		ym.voiceOut[v] = 0
	}
	ym.noiseCount = 0
	ym.noiseFlip = false
	ym.noiseRack = 1
	ym.noiseBit = 0x1F

	ym.envCount = 0
	ym.envPhase = 0
	ym.envPos = 0
	ym.envShape = 0

	ym.innerAcc = 0
	ym.innerRate = ym.clockHz / 8
	ym.insideIRQ = false

	ym.lowPass[0] = 0
	ym.lowPass[1] = 0
	ym.dcBuf = [DC_WINDOW]float32{}
	ym.dcPos = 0
	ym.dcSum = 0

	ym.rng = 1
	for v := 0; v < 3; v++ {
		if ym.lcgNext()&0x10000 != 0 {
			ym.toneEdge[v] = 0x1F
		} else {
			ym.toneEdge[v] = 0
		}
	}
}

func (ym *Ym2149) lcgNext() uint32 {
	ym.rng = (ym.rng*1103515245 + 12345) & 0x7FFFFFFF
	return ym.rng
}

// WriteRegister masks value to the register's valid width and updates the
// derived generator state.
func (ym *Ym2149) WriteRegister(reg, value uint8) {
	if reg >= PSG_REG_COUNT {
		return
	}
	value &= psgRegMask[reg]
	ym.regs[reg] = value

	switch reg {
	case 0, 1:
		ym.updateTonePeriod(0)
	case 2, 3:
		ym.updateTonePeriod(1)
	case 4, 5:
		ym.updateTonePeriod(2)
	case 6:
		ym.noisePeriod = uint32(value)
		if ym.noiseCount > ym.noisePeriod {
			ym.noiseCount = 0
		}
	case 7:
		for v := 0; v < 3; v++ {
			ym.toneMask[v] = 0
			if value&(1<<v) != 0 {
				ym.toneMask[v] = 0x1F
			}
			ym.noiseMask[v] = 0
			if value&(1<<(v+3)) != 0 {
				ym.noiseMask[v] = 0x1F
			}
		}
	case 11, 12:
		period := uint32(ym.regs[12])<<8 | uint32(ym.regs[11])
		if period == 0 {
			period = 1
		}
		ym.envPeriod = period
		if ym.envCount > ym.envPeriod {
			ym.envCount = 0
		}
	case 13:
		ym.envShape = envShapeIndex[value]
		ym.RetriggerEnvelope()
	}
}

func (ym *Ym2149) ReadRegister(reg uint8) uint8 {
	if reg >= PSG_REG_COUNT {
		return 0
	}
	return ym.regs[reg]
}

// LoadRegisters applies a 16-byte register frame; only the 14 hardware
// registers are consumed.
func (ym *Ym2149) LoadRegisters(frame [PSG_FRAME_SIZE]uint8) {
	for reg := uint8(0); reg < PSG_REG_COUNT; reg++ {
		ym.WriteRegister(reg, frame[reg])
	}
}

func (ym *Ym2149) DumpRegisters() [PSG_FRAME_SIZE]uint8 {
	var frame [PSG_FRAME_SIZE]uint8
	copy(frame[:PSG_REG_COUNT], ym.regs[:])
	return frame
}

func (ym *Ym2149) updateTonePeriod(voice int) {
	period := uint32(ym.regs[voice*2+1])<<8 | uint32(ym.regs[voice*2])
	ym.tonePeriod[voice] = period
	if ym.toneCount[voice] > period {
		ym.toneCount[voice] = 0
	}
	if period <= 1 {
		// SID-style effects write zero periods from inside a timer handler;
		// resetting the edge mid-handler glitches, so hold it until exit.
		if ym.insideIRQ {
			ym.edgePending[voice] = true
		} else {
			ym.forceEdge(voice)
		}
	}
}

func (ym *Ym2149) forceEdge(voice int) {
	ym.toneEdge[voice] = 0x1F
	ym.toneCount[voice] = 0
}

// EnterTimerIRQ brackets a timer-handler mutation window. Deferred edge
// resets recorded during the window are applied on exit.
func (ym *Ym2149) EnterTimerIRQ(inside bool) {
	if !inside {
		for v := 0; v < 3; v++ {
			if ym.edgePending[v] {
				ym.forceEdge(v)
				ym.edgePending[v] = false
			}
		}
	}
	ym.insideIRQ = inside
}

func (ym *Ym2149) RetriggerEnvelope() {
	ym.envPhase = 0
	ym.envPos = 0
	ym.envCount = 0
}

func (ym *Ym2149) SetChannelMute(voice int, mute bool) {
	if voice < 0 || voice > 2 {
		return
	}
	ym.muted[voice] = mute
}

func (ym *Ym2149) IsChannelMuted(voice int) bool {
	if voice < 0 || voice > 2 {
		return false
	}
	return ym.muted[voice]
}

func (ym *Ym2149) SetColorFilter(enabled bool) {
	ym.colorFilter = enabled
}

func (ym *Ym2149) SetDrumOverride(voice int, level float32) {
	if voice < 0 || voice > 2 {
		return
	}
	ym.drumActive[voice] = true
	ym.drumOverride[voice] = level
}

func (ym *Ym2149) ClearDrumOverride(voice int) {
	if voice < 0 || voice > 2 {
		return
	}
	ym.drumActive[voice] = false
	ym.drumOverride[voice] = 0
}

// tick advances the internal (master clock / 8) state machine by one step
// and returns the per-voice audibility mask: (edge OR tone-disable) AND
// (noise OR noise-disable). A non-zero entry means the voice is audible
// this hardware tick.
func (ym *Ym2149) tick() [3]uint32 {
	for v := 0; v < 3; v++ {
		ym.toneCount[v]++
		if ym.toneCount[v] >= ym.tonePeriod[v] {
			ym.toneCount[v] = 0
			ym.toneEdge[v] ^= 0x1F
		}
	}

	// Noise runs at half the tone tick rate.
	ym.noiseFlip = !ym.noiseFlip
	if ym.noiseFlip {
		period := ym.noisePeriod
		if period == 0 {
			period = 1
		}
		ym.noiseCount++
		if ym.noiseCount >= period {
			ym.noiseCount = 0
			bit := (ym.noiseRack ^ (ym.noiseRack >> 2)) & 1
			ym.noiseRack = (ym.noiseRack >> 1) | (bit << 16)
			ym.noiseBit = 0
			if ym.noiseRack&1 != 0 {
				ym.noiseBit = 0x1F
			}
		}
	}

	ym.envCount++
	if ym.envCount >= ym.envPeriod {
		ym.envCount = 0
		pos := ym.envPos + envPosInc
		if pos < ym.envPos {
			ym.envPhase = 1
		}
		ym.envPos = pos
	}

	var out [3]uint32
	for v := 0; v < 3; v++ {
		out[v] = (ym.toneEdge[v] | ym.toneMask[v]) & (ym.noiseBit | ym.noiseMask[v])
	}
	return out
}

// NextSample resamples the internal clock to the host rate and returns one
// signed output sample in roughly -1.0..1.0.
func (ym *Ym2149) NextSample() float32 {
	ym.innerAcc += ym.innerRate
	for ym.innerAcc >= ym.sampleRate {
		ym.innerAcc -= ym.sampleRate
		ym.audible = ym.tick()
	}

	envIdx := envLevels[ym.envShape][ym.envPhase][ym.envPos>>26]

	var sum float32
	for v := 0; v < 3; v++ {
		var level float32
		if ym.drumActive[v] {
			level = ym.drumOverride[v]
		} else {
			if ym.regs[8+v]&0x10 != 0 {
				level = ymVolume32[envIdx]
			} else {
				level = ymVolume16[ym.regs[8+v]&0x0F]
			}
			if ym.tonePeriod[v] <= 1 && ym.toneMask[v] == 0 {
				// The fastest tone toggles above the host rate; its mean is
				// half amplitude, gated only by the noise side of the mixer.
				if 0x1F&(ym.noiseBit|ym.noiseMask[v]) == 0 {
					level = 0
				} else {
					level *= 0.5
				}
			} else if ym.audible[v] == 0 {
				level = 0
			}
		}
		if ym.muted[v] {
			level = 0
		}
		ym.voiceOut[v] = level * 3
		sum += level
	}

	out := ym.dcFilter(sum)
	if ym.colorFilter {
		out = ym.colorPass(out)
	}
	return out
}

// dcFilter subtracts the sliding-window mean over the last DC_WINDOW samples.
func (ym *Ym2149) dcFilter(in float32) float32 {
	ym.dcSum -= float64(ym.dcBuf[ym.dcPos])
	ym.dcSum += float64(in)
	ym.dcBuf[ym.dcPos] = in
	ym.dcPos = (ym.dcPos + 1) & (DC_WINDOW - 1)
	return in - float32(ym.dcSum/DC_WINDOW)
}

func (ym *Ym2149) colorPass(in float32) float32 {
	out := ym.lowPass[0]*0.25 + ym.lowPass[1]*0.5 + in*0.25
	ym.lowPass[0] = ym.lowPass[1]
	ym.lowPass[1] = in
	return out
}

func (ym *Ym2149) GenerateSamplesInto(buf []float32) {
	for i := range buf {
		buf[i] = ym.NextSample()
	}
}

// GenerateSamples is a convenience wrapper that allocates; real-time callers
// should use GenerateSamplesInto with a reused buffer.
func (ym *Ym2149) GenerateSamples(count int) []float32 {
	if count <= 0 {
		return nil
	}
	buf := make([]float32, count)
	ym.GenerateSamplesInto(buf)
	return buf
}

func (ym *Ym2149) ChannelOutputs() (float32, float32, float32) {
	return ym.voiceOut[0], ym.voiceOut[1], ym.voiceOut[2]
}
