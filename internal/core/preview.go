package core

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/cockroachdb/errors"
)

// DefaultCheckerSize is the side of one checkerboard square in pixels.
const DefaultCheckerSize = 10

var (
	checkerDark  = color.Gray{Y: 30}
	checkerLight = color.Gray{Y: 255}
)

// Checkerboard renders the dark/light pattern used behind transparent pixels.
func Checkerboard(width, height, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := checkerLight
			if (x/cell+y/cell)%2 == 0 {
				c = checkerDark
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// Preview flattens an RGBA composite over a checkerboard so its alpha is
// visible in formats without transparency.
func Preview(composite Frame, cell int) (Frame, error) {
	if composite.Channels != RGBA {
		return Frame{}, errors.Wrapf(ErrChannels, "preview needs %d channels, got %d", RGBA, composite.Channels)
	}
	if cell < 1 {
		cell = DefaultCheckerSize
	}

	dst := Checkerboard(composite.Width, composite.Height, cell)
	draw.Draw(dst, dst.Bounds(), composite.Image(), image.Point{}, draw.Over)
	return FrameFromImage(dst), nil
}
