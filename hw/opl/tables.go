package opl

import "math"

const (
	sineBits = 10
	sineSize = 1 << sineBits

	// Attenuation table resolution, in steps per dB.
	attSteps = 8
	maxAtt   = 96.0
)

var (
	sineTable [sineSize]float64
	attTable  [int(maxAtt*attSteps) + 1]float64
)

// multTable holds twice the frequency multiplier for each MULT value.
var multTable = [16]uint32{1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 24, 24, 30, 30}

// kslTable is the key scale level attenuation, in dB, indexed by the top 4
// bits of the F-number, for block 7 at 3dB/octave.
var kslTable = [16]float64{
	0.000, 9.000, 12.000, 13.875, 15.000, 16.125, 16.875, 17.625,
	18.000, 18.750, 19.125, 19.500, 19.875, 20.250, 20.625, 21.000,
}

// kslScale maps the 2-bit KSL field to a multiple of 3dB/octave.
var kslScale = [4]float64{0, 1, 0.5, 2}

// slotIndex maps an operator register offset (0x00-0x15) to its slot, -1 for
// holes in the register map.
var slotIndex = [0x16]int{
	0, 1, 2, 3, 4, 5, -1, -1,
	6, 7, 8, 9, 10, 11, -1, -1,
	12, 13, 14, 15, 16, 17,
}

// chanOffsets holds the register offset of the modulator of each channel. The
// carrier is 3 offsets further.
var chanOffsets = [numChannels]uint8{0, 1, 2, 8, 9, 10, 16, 17, 18}

func init() {
	for i := range sineTable {
		sineTable[i] = math.Sin(2 * math.Pi * float64(i) / sineSize)
	}
	for i := range attTable {
		attTable[i] = math.Pow(10, -float64(i)/attSteps/20)
	}
	attTable[len(attTable)-1] = 0
}

// attToLin converts an attenuation in dB into a linear gain.
func attToLin(att float64) float64 {
	idx := int(att * attSteps)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(attTable) {
		return 0
	}
	return attTable[idx]
}

// waveform returns the value of waveform w at phase p, a full cycle being
// 2^32.
func waveform(w uint8, p uint32) float64 {
	idx := p >> (32 - sineBits)
	switch w {
	case 1: // half sine
		if p >= 1<<31 {
			return 0
		}
		return sineTable[idx]
	case 2: // absolute sine
		return sineTable[idx&(sineSize/2-1)]
	case 3: // quarter pulses
		if (p>>30)&1 != 0 {
			return 0
		}
		return sineTable[idx&(sineSize/4-1)]
	}
	return sineTable[idx]
}
