package keyer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/lucasb-eyer/go-colorful"

	"chroma-keyer/internal/core"
)

// ErrSampleRegion reports a key-color sample rectangle that is empty or
// reaches outside the frame.
var ErrSampleRegion = errors.New("invalid key color sample region")

// DefaultKeyColor is a mid green typical of a lit green screen.
var DefaultKeyColor = KeyColor{R: 20, G: 200, B: 20}

// KeyColor is the background color to remove.
type KeyColor struct {
	R, G, B uint8
}

// KeyColorOf converts any color.Color, dropping alpha.
func KeyColorOf(c color.Color) KeyColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return KeyColor{R: n.R, G: n.G, B: n.B}
}

// RGBA implements color.Color.
func (k KeyColor) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: k.R, G: k.G, B: k.B, A: 0xff}.RGBA()
}

// Hue returns the key's hue normalized to [0,1).
func (k KeyColor) Hue() float64 {
	h, _, _ := colorful.Color{
		R: float64(k.R) / 255,
		G: float64(k.G) / 255,
		B: float64(k.B) / 255,
	}.Hsv()
	return h / 360
}

// Hex formats the key as #rrggbb.
func (k KeyColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", k.R, k.G, k.B)
}

// AverageColor averages the RGB pixels of f inside sample. Each channel is
// the truncated integer mean.
func AverageColor(f core.Frame, sample image.Rectangle) (KeyColor, error) {
	if sample.Empty() || !sample.In(f.Bounds()) {
		return KeyColor{}, errors.WithHint(
			errors.Wrapf(ErrSampleRegion, "%v in %dx%d frame", sample, f.Width, f.Height),
			"the sample must be a non-empty rectangle inside the frame")
	}

	var r, g, b uint64
	for y := sample.Min.Y; y < sample.Max.Y; y++ {
		for x := sample.Min.X; x < sample.Max.X; x++ {
			i := f.Offset(x, y)
			r += uint64(f.Pix[i])
			g += uint64(f.Pix[i+1])
			b += uint64(f.Pix[i+2])
		}
	}

	n := uint64(sample.Dx() * sample.Dy())
	return KeyColor{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}, nil
}
