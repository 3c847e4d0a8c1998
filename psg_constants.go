// psg_constants.go - Shared constants and register field masks for the YM2149 core.

package main

const (
	PSG_REG_COUNT  = 14
	PSG_FRAME_SIZE = 16

	SAMPLE_RATE = 44100

	PSG_CLOCK_ATARI_ST    = 2000000
	PSG_CLOCK_ZX_SPECTRUM = 1773400
	PSG_CLOCK_CPC         = 1000000
	PSG_CLOCK_MSX         = 1789773

	// Atari MFP 68901 timer clock, used by YM5/YM6 effect timers.
	MFP_CLOCK = 2457600

	// Sliding window length for DC removal. Must be a power of two.
	DC_WINDOW = 2048

	// Fractional bits of the digidrum playback position.
	DRUM_PREC = 15
)

// psgRegMask holds the hardware-valid bit width of each register. Unmasked
// bits read back as zero.
var psgRegMask = [PSG_REG_COUNT]uint8{
	0xFF, 0x0F, // tone A fine/coarse
	0xFF, 0x0F, // tone B
	0xFF, 0x0F, // tone C
	0x1F,       // noise period
	0xFF,       // mixer
	0x1F, 0x1F, 0x1F, // volume A/B/C
	0xFF, 0xFF, // envelope period fine/coarse
	0x0F, // envelope shape
}

// mfpPrediv maps the 3-bit timer control field to the MFP predivisor.
var mfpPrediv = [8]uint32{0, 4, 10, 16, 50, 64, 100, 200}
