// psg_envelope.go - YM2149 envelope shape tables and amplitude lookup.

package main

import "math"

// The shape register is 4 bits but only 11 visually distinct patterns exist.
// Codes 0-3 and 9 all produce a single decay followed by silence, and code 15
// behaves as attack-then-hold like code 13. envShapeIndex collapses the 16
// hardware codes onto the canonical pattern table.
var envShapeIndex = [16]uint8{
	0, 0, 0, 0,
	1, 2, 3, 4,
	5, 0, 6, 7,
	8, 9, 10, 9,
}

const envCanonicalShapes = 11

// Canonical patterns as four phases of (start, end) level pairs. The first
// two phases play exactly once after a trigger; the last two repeat forever.
var envShapePairs = [envCanonicalShapes][8]int{
	{1, 0, 0, 0, 0, 0, 0, 0}, // attack-decay (codes 0-3, 9)
	{0, 1, 0, 0, 0, 0, 0, 0}, // attack once, then silence (code 4)
	{0, 1, 0, 0, 0, 0, 0, 0}, // code 5
	{0, 1, 0, 0, 0, 0, 0, 0}, // code 6
	{0, 1, 0, 0, 0, 0, 0, 0}, // code 7
	{1, 0, 1, 0, 1, 0, 1, 0}, // repeating saw down (code 8)
	{1, 0, 0, 1, 1, 0, 0, 1}, // triangle down (code 10)
	{1, 0, 1, 1, 1, 1, 1, 1}, // decay, hold top (code 11)
	{0, 1, 0, 1, 0, 1, 0, 1}, // repeating saw up (code 12)
	{0, 1, 1, 1, 1, 1, 1, 1}, // attack-hold (codes 13, 15)
	{0, 1, 1, 0, 0, 1, 1, 0}, // triangle up (code 14)
}

// envLevels holds the expanded 5-bit amplitude curves. Index order is
// [canonical shape][phase pair][sub-step]. Phase pair 0 covers hardware
// phases 0-1 and runs once; phase pair 1 covers phases 2-3 and repeats.
var envLevels [envCanonicalShapes][2][64]uint8

// ymVolume16 is the fixed-amplitude DAC curve (4-bit volume registers),
// ymVolume32 the 5-bit envelope DAC curve. Both are scaled so that three
// voices at full level sum to roughly +/-1.0.
var (
	ymVolume16 [16]float32
	ymVolume32 [32]float32
)

// Measured YM2149 DAC output steps, full scale = 32767.
var ymDacSteps = [16]int32{
	62, 161, 265, 377, 580, 774, 1155, 1575,
	2260, 3088, 4570, 6233, 9330, 13187, 21220, 32767,
}

func init() {
	for i, v := range ymDacSteps {
		ymVolume16[i] = float32(v) / 32767.0 / 3.0
	}
	for i := 0; i < 32; i++ {
		lo := ymVolume16[i/2]
		if i%2 == 1 && i/2 < 15 {
			hi := ymVolume16[i/2+1]
			ymVolume32[i] = float32(math.Sqrt(float64(lo) * float64(hi)))
		} else {
			ymVolume32[i] = lo
		}
	}

	for shape := 0; shape < envCanonicalShapes; shape++ {
		pairs := envShapePairs[shape]
		for half := 0; half < 2; half++ {
			for seg := 0; seg < 2; seg++ {
				start := pairs[half*4+seg*2] * 31
				end := pairs[half*4+seg*2+1] * 31
				for i := 0; i < 32; i++ {
					val := start + (end-start)*i/31
					envLevels[shape][half][seg*32+i] = uint8(val)
				}
			}
		}
	}
}
