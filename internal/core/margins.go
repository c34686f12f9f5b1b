package core

import (
	"image"
	"math"
)

// Margins are fractional crop amounts, each expected in [0,1).
type Margins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// IsZero reports whether no cropping is requested.
func (m Margins) IsZero() bool {
	return m.Left == 0 && m.Right == 0 && m.Top == 0 && m.Bottom == 0
}

// Rect returns the working region of a width x height frame:
// [floor(Left*w), w-floor(Right*w)) x [floor(Top*h), h-floor(Bottom*h)),
// clipped to the frame. The result is empty when the margins meet or cross.
func (m Margins) Rect(width, height int) image.Rectangle {
	x0 := clampInt(pixels(m.Left, width), 0, width)
	x1 := clampInt(width-pixels(m.Right, width), 0, width)
	y0 := clampInt(pixels(m.Top, height), 0, height)
	y1 := clampInt(height-pixels(m.Bottom, height), 0, height)

	// image.Rect would swap inverted corners; keep them so Empty reports true.
	return image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x1, y1)}
}

func pixels(frac float64, n int) int {
	return int(math.Floor(frac*float64(n) + 1e-9))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
