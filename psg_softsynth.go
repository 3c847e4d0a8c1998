// psg_softsynth.go - Experimental reinterpretive PSG backend (non-cycle-accurate).

package main

// SoftSynth renders the same register model as Ym2149 through free-running
// floating-point oscillators and a linear volume curve instead of the
// hardware state machine. It trades cycle accuracy for a cleaner, softer
// rendition; the effects manager and sequencer drive it through the same
// PsgBackend interface and never notice the difference.
type SoftSynth struct {
	regs       [PSG_REG_COUNT]uint8
	clockHz    uint32
	sampleRate uint32

	phase      [3]float64
	noisePhase float64
	noiseSR    uint32
	noiseBit   bool

	// Envelope walker: a 16-step level ramp advanced every envPeriodSamples,
	// with direction/hold derived from the shape register bits.
	envPeriodSamples float64
	envSampleCounter float64
	envLevel         int
	envDirection     int
	envHold          bool

	muted        [3]bool
	drumActive   [3]bool
	drumOverride [3]float32

	voiceOut [3]float32
	dcMean   float32
}

const softNoiseSeed = 0x7FFFFF

func NewSoftSynth(clockHz, sampleRate uint32) *SoftSynth {
	if clockHz == 0 {
		clockHz = PSG_CLOCK_ATARI_ST
	}
	if sampleRate == 0 {
		sampleRate = SAMPLE_RATE
	}
	s := &SoftSynth{
		clockHz:    clockHz,
		sampleRate: sampleRate,
	}
	s.Reset()
	return s
}

func (s *SoftSynth) Reset() {
	s.regs = [PSG_REG_COUNT]uint8{}
	s.regs[7] = 0xFF
	for v := 0; v < 3; v++ {
		s.phase[v] = 0
		s.drumActive[v] = false
		s.drumOverride[v] = 0
		s.voiceOut[v] = 0
	}
	s.noisePhase = 0
	s.noiseSR = softNoiseSeed
	s.noiseBit = true
	s.envLevel = 15
	s.envDirection = -1
	s.envHold = false
	s.envSampleCounter = 0
	s.dcMean = 0
	s.updateEnvPeriodSamples()
}

func (s *SoftSynth) WriteRegister(reg, value uint8) {
	if reg >= PSG_REG_COUNT {
		return
	}
	value &= psgRegMask[reg]
	s.regs[reg] = value
	switch reg {
	case 11, 12:
		s.updateEnvPeriodSamples()
	case 13:
		s.resetEnvelope()
	}
}

func (s *SoftSynth) ReadRegister(reg uint8) uint8 {
	if reg >= PSG_REG_COUNT {
		return 0
	}
	return s.regs[reg]
}

func (s *SoftSynth) LoadRegisters(frame [PSG_FRAME_SIZE]uint8) {
	for reg := uint8(0); reg < PSG_REG_COUNT; reg++ {
		s.WriteRegister(reg, frame[reg])
	}
}

func (s *SoftSynth) DumpRegisters() [PSG_FRAME_SIZE]uint8 {
	var frame [PSG_FRAME_SIZE]uint8
	copy(frame[:PSG_REG_COUNT], s.regs[:])
	return frame
}

func (s *SoftSynth) SetChannelMute(voice int, mute bool) {
	if voice >= 0 && voice < 3 {
		s.muted[voice] = mute
	}
}

func (s *SoftSynth) IsChannelMuted(voice int) bool {
	return voice >= 0 && voice < 3 && s.muted[voice]
}

// SetColorFilter is a no-op: the oscillators are already band-limited.
func (s *SoftSynth) SetColorFilter(enabled bool) {}

// EnterTimerIRQ is a no-op: there is no edge state to defer.
func (s *SoftSynth) EnterTimerIRQ(inside bool) {}

func (s *SoftSynth) RetriggerEnvelope() {
	s.resetEnvelope()
}

func (s *SoftSynth) SetDrumOverride(voice int, level float32) {
	if voice >= 0 && voice < 3 {
		s.drumActive[voice] = true
		s.drumOverride[voice] = level
	}
}

func (s *SoftSynth) ClearDrumOverride(voice int) {
	if voice >= 0 && voice < 3 {
		s.drumActive[voice] = false
		s.drumOverride[voice] = 0
	}
}

func (s *SoftSynth) updateEnvPeriodSamples() {
	period := uint32(s.regs[12])<<8 | uint32(s.regs[11])
	if period == 0 {
		period = 1
	}
	s.envPeriodSamples = float64(s.sampleRate) * 256.0 * float64(period) / float64(s.clockHz)
	if s.envPeriodSamples <= 0 {
		s.envPeriodSamples = 1
	}
}

func (s *SoftSynth) resetEnvelope() {
	shape := s.regs[13] & 0x0F
	if shape&0x04 != 0 {
		s.envLevel = 0
		s.envDirection = 1
	} else {
		s.envLevel = 15
		s.envDirection = -1
	}
	s.envHold = false
	s.envSampleCounter = 0
}

func (s *SoftSynth) advanceEnvelope() {
	s.envSampleCounter++
	if s.envSampleCounter < s.envPeriodSamples {
		return
	}
	steps := int(s.envSampleCounter / s.envPeriodSamples)
	s.envSampleCounter -= float64(steps) * s.envPeriodSamples

	for i := 0; i < steps; i++ {
		if s.envHold {
			break
		}
		s.envLevel += s.envDirection
		if s.envLevel > 15 {
			s.envLevel = 15
		}
		if s.envLevel < 0 {
			s.envLevel = 0
		}
		if s.envLevel == 0 || s.envLevel == 15 {
			shape := s.regs[13] & 0x0F
			cont := shape&0x08 != 0
			hold := shape&0x02 != 0
			alt := shape&0x01 != 0
			if !cont {
				s.envLevel = 0
				s.envHold = true
				break
			}
			if hold {
				s.envHold = true
				break
			}
			if alt {
				s.envDirection = -s.envDirection
			}
		}
	}
}

func (s *SoftSynth) advanceNoise() {
	period := uint32(s.regs[6] & 0x1F)
	if period == 0 {
		period = 1
	}
	freq := float64(s.clockHz) / (16.0 * float64(period))
	s.noisePhase += freq / float64(s.sampleRate)
	for s.noisePhase >= 1 {
		s.noisePhase--
		bit := ((s.noiseSR >> 22) ^ (s.noiseSR >> 17)) & 1
		s.noiseSR = ((s.noiseSR << 1) | bit) & softNoiseSeed
		s.noiseBit = s.noiseSR&1 != 0
	}
}

func (s *SoftSynth) NextSample() float32 {
	s.advanceEnvelope()
	s.advanceNoise()

	mixer := s.regs[7]
	var sum float32
	for v := 0; v < 3; v++ {
		if s.drumActive[v] {
			level := s.drumOverride[v]
			if s.muted[v] {
				level = 0
			}
			s.voiceOut[v] = level * 3
			sum += level
			continue
		}

		period := uint32(s.regs[v*2+1])<<8 | uint32(s.regs[v*2])
		if period == 0 {
			period = 1
		}
		freq := float64(s.clockHz) / (16.0 * float64(period))
		s.phase[v] += freq / float64(s.sampleRate)
		for s.phase[v] >= 1 {
			s.phase[v]--
		}
		high := s.phase[v] < 0.5

		vol := s.regs[8+v]
		level := int(vol & 0x0F)
		if vol&0x10 != 0 {
			level = s.envLevel
		}
		amp := float32(level) / 15.0 / 3.0

		gate := true
		if mixer&(1<<v) == 0 && !high {
			gate = false
		}
		if mixer&(1<<(v+3)) == 0 && !s.noiseBit {
			gate = false
		}
		// Fully disabled voices sit silent rather than at a DC level.
		if mixer&(1<<v) != 0 && mixer&(1<<(v+3)) != 0 {
			gate = false
		}

		var out float32
		if gate && !s.muted[v] {
			out = amp
		}
		s.voiceOut[v] = out * 3
		sum += out
	}

	// A slow running mean keeps sustained gates from biasing the output.
	dc := s.dcMean
	s.dcMean += (sum - s.dcMean) * 0.001
	return sum - dc
}

func (s *SoftSynth) GenerateSamplesInto(buf []float32) {
	for i := range buf {
		buf[i] = s.NextSample()
	}
}

func (s *SoftSynth) GenerateSamples(count int) []float32 {
	if count <= 0 {
		return nil
	}
	buf := make([]float32, count)
	s.GenerateSamplesInto(buf)
	return buf
}

func (s *SoftSynth) ChannelOutputs() (float32, float32, float32) {
	return s.voiceOut[0], s.voiceOut[1], s.voiceOut[2]
}
