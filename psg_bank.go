// psg_bank.go - Multi-chip PSG bank with combined or per-chip generation.

package main

import "fmt"

// PsgBank owns an ordered collection of chips, possibly running at different
// clock frequencies. Global channel index i maps to chip i/3, voice i%3.
type PsgBank struct {
	chips   []*Ym2149
	scratch []float32
}

func NewPsgBank(count int, clockHz, sampleRate uint32) *PsgBank {
	if count < 1 {
		count = 1
	}
	clocks := make([]uint32, count)
	for i := range clocks {
		clocks[i] = clockHz
	}
	return NewPsgBankWithFrequencies(clocks, sampleRate)
}

func NewPsgBankWithFrequencies(clocks []uint32, sampleRate uint32) *PsgBank {
	if len(clocks) == 0 {
		clocks = []uint32{PSG_CLOCK_ATARI_ST}
	}
	bank := &PsgBank{
		chips: make([]*Ym2149, len(clocks)),
	}
	for i, clock := range clocks {
		bank.chips[i] = NewYm2149(clock, sampleRate)
	}
	return bank
}

func (bank *PsgBank) ChipCount() int {
	return len(bank.chips)
}

// Chip returns the chip at the given index, or nil when out of range.
func (bank *PsgBank) Chip(index int) *Ym2149 {
	if index < 0 || index >= len(bank.chips) {
		return nil
	}
	return bank.chips[index]
}

func (bank *PsgBank) WriteRegister(psg int, reg, value uint8) {
	if chip := bank.Chip(psg); chip != nil {
		chip.WriteRegister(reg, value)
	}
}

func (bank *PsgBank) ReadRegister(psg int, reg uint8) uint8 {
	if chip := bank.Chip(psg); chip != nil {
		return chip.ReadRegister(reg)
	}
	return 0
}

func (bank *PsgBank) Reset() {
	for _, chip := range bank.chips {
		chip.Reset()
	}
}

func (bank *PsgBank) SetChannelMute(channel int, mute bool) {
	if chip := bank.Chip(channel / 3); chip != nil {
		chip.SetChannelMute(channel%3, mute)
	}
}

func (bank *PsgBank) IsChannelMuted(channel int) bool {
	if chip := bank.Chip(channel / 3); chip != nil {
		return chip.IsChannelMuted(channel % 3)
	}
	return false
}

// GenerateSamplesInterleaved clocks every chip into the shared scratch
// buffer and writes the equal-weight mix (sum / chip count) into buf.
func (bank *PsgBank) GenerateSamplesInterleaved(buf []float32) {
	if len(buf) == 0 {
		return
	}
	if len(bank.scratch) < len(buf) {
		bank.scratch = make([]float32, len(buf))
	}
	scratch := bank.scratch[:len(buf)]

	for i := range buf {
		buf[i] = 0
	}
	for _, chip := range bank.chips {
		chip.GenerateSamplesInto(scratch)
		for i, s := range scratch {
			buf[i] += s
		}
	}
	scale := float32(1) / float32(len(bank.chips))
	for i := range buf {
		buf[i] *= scale
	}
}

// GenerateSamplesSeparate writes each chip's output into its own caller
// provided buffer for independent downstream mixing.
func (bank *PsgBank) GenerateSamplesSeparate(bufs [][]float32) error {
	if len(bufs) != len(bank.chips) {
		return fmt.Errorf("psg bank: %d buffers for %d chips", len(bufs), len(bank.chips))
	}
	for i, chip := range bank.chips {
		chip.GenerateSamplesInto(bufs[i])
	}
	return nil
}
