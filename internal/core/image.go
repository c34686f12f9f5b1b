// Core pixel buffers shared by the keying stages
package core

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
)

const (
	// RGB is the channel count of input frames.
	RGB = 3
	// RGBA is the channel count of the composite.
	RGBA = 4
)

var (
	// ErrBufferSize reports a pixel buffer whose length disagrees with its dimensions.
	ErrBufferSize = errors.New("pixel buffer size does not match dimensions")
	// ErrDimensions reports non-positive frame dimensions.
	ErrDimensions = errors.New("invalid frame dimensions")
	// ErrChannels reports an unsupported channel count.
	ErrChannels = errors.New("unsupported channel count")
)

// Plane is a single-channel 8-bit image stored row-major without padding.
type Plane struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPlane allocates a zeroed plane.
func NewPlane(width, height int) Plane {
	return Plane{Width: width, Height: height, Pix: make([]byte, width*height)}
}

// FilledPlane allocates a plane with every pixel set to v.
func FilledPlane(width, height int, v uint8) Plane {
	p := NewPlane(width, height)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// Empty reports whether the plane holds no pixels.
func (p Plane) Empty() bool {
	return p.Width <= 0 || p.Height <= 0 || len(p.Pix) == 0
}

// Clone returns a deep copy.
func (p Plane) Clone() Plane {
	out := Plane{Width: p.Width, Height: p.Height}
	if p.Pix != nil {
		out.Pix = append([]byte(nil), p.Pix...)
	}
	return out
}

// At returns the pixel at (x, y).
func (p Plane) At(x, y int) uint8 {
	return p.Pix[y*p.Width+x]
}

// Image exposes a copy of the plane as a grayscale image for presentation.
func (p Plane) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix)
	return img
}

// Frame is an interleaved 8-bit image with RGB or RGBA channels.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewFrame wraps pix as a frame after validating it. The buffer is not copied.
func NewFrame(pix []byte, width, height, channels int) (Frame, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return Frame{}, err
	}
	if channels != RGB && channels != RGBA {
		return Frame{}, errors.Wrapf(ErrChannels, "%d", channels)
	}
	if want := width * height * channels; len(pix) != want {
		return Frame{}, errors.WithHint(
			errors.Wrapf(ErrBufferSize, "got %d bytes for %dx%dx%d, want %d", len(pix), width, height, channels, want),
			"buffers must be tightly packed interleaved pixels without row padding")
	}
	return Frame{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// ValidateDimensions checks that a frame size is positive.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrDimensions, "%dx%d", width, height)
	}
	return nil
}

// Empty reports whether the frame holds no pixels.
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Pix) == 0
}

// Bounds returns the frame rectangle anchored at the origin.
func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Clone returns a deep copy.
func (f Frame) Clone() Frame {
	out := f
	if f.Pix != nil {
		out.Pix = append([]byte(nil), f.Pix...)
	}
	return out
}

// Offset returns the index of the first channel of pixel (x, y).
func (f Frame) Offset(x, y int) int {
	return (y*f.Width + x) * f.Channels
}

// Crop copies the pixels inside r into a new frame. r must lie inside Bounds.
func (f Frame) Crop(r image.Rectangle) Frame {
	out := Frame{Width: r.Dx(), Height: r.Dy(), Channels: f.Channels}
	out.Pix = make([]byte, out.Width*out.Height*out.Channels)

	rowBytes := out.Width * f.Channels
	for y := 0; y < out.Height; y++ {
		src := f.Offset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*rowBytes:(y+1)*rowBytes], f.Pix[src:src+rowBytes])
	}
	return out
}

// Image exposes a copy of the frame for presentation. RGB frames become opaque
// RGBA images; RGBA frames keep straight (non-premultiplied) alpha.
func (f Frame) Image() image.Image {
	rect := f.Bounds()
	switch f.Channels {
	case RGBA:
		img := image.NewNRGBA(rect)
		copy(img.Pix, f.Pix)
		return img
	default:
		img := image.NewRGBA(rect)
		for i := 0; i < f.Width*f.Height; i++ {
			img.Pix[i*4] = f.Pix[i*f.Channels]
			img.Pix[i*4+1] = f.Pix[i*f.Channels+1]
			img.Pix[i*4+2] = f.Pix[i*f.Channels+2]
			img.Pix[i*4+3] = 0xff
		}
		return img
	}
}

// FrameFromImage converts any image into a tightly packed RGB frame.
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()
	out := Frame{Width: b.Dx(), Height: b.Dy(), Channels: RGB}
	out.Pix = make([]byte, out.Width*out.Height*RGB)

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := out.Offset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c.R, c.G, c.B
		}
	}
	return out
}
