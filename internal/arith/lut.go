package arith

import (
	"math"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/core"
)

// levelTolerance absorbs float error so that 0.6*255 lands on 153, not 152.
const levelTolerance = 1e-9

// LUT is a 256-entry lookup table over 8-bit values.
type LUT [256]uint8

// Level converts a fraction of full scale into an 8-bit level, rounding down.
func Level(frac float64) int {
	return int(math.Floor(frac*255 + levelTolerance))
}

// NewLUT builds the clip table used by every mask stage. Values at or below
// the black point map to 0, values at or above the white point map to 255,
// values in between are linearly interpolated. Black and white are fractions
// of full scale; out-of-range or inverted pairs give a degenerate but still
// non-decreasing table.
func NewLUT(black, white float64) LUT {
	lo, hi := Level(black), Level(white)

	var lut LUT
	for i := range lut {
		switch {
		case i <= lo:
			lut[i] = 0
		case i >= hi:
			lut[i] = math.MaxUint8
		default:
			lut[i] = uint8((i - lo) * 255 / (hi - lo))
		}
	}
	return lut
}

// Apply maps every pixel of p through the table.
func (l *LUT) Apply(p core.Plane) (core.Plane, error) {
	return algorithms.LUT(p, l[:])
}
