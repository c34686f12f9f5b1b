package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrameValidation(t *testing.T) {
	tests := []struct {
		name     string
		pix      int
		w, h, ch int
		want     error
	}{
		{"ok rgb", 2 * 3 * 3, 2, 3, RGB, nil},
		{"ok rgba", 2 * 2 * 4, 2, 2, RGBA, nil},
		{"short buffer", 11, 2, 2, RGB, ErrBufferSize},
		{"long buffer", 13, 2, 2, RGB, ErrBufferSize},
		{"zero width", 0, 0, 2, RGB, ErrDimensions},
		{"negative height", 0, 2, -1, RGB, ErrDimensions},
		{"wide strip", 20000 * RGB, 20000, 1, RGB, nil},
		{"gray", 4, 2, 2, 1, ErrChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrame(make([]byte, tt.pix), tt.w, tt.h, tt.ch)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCrop(t *testing.T) {
	// 3x2 frame where each pixel encodes its coordinates.
	pix := make([]byte, 3*2*RGB)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			i := (y*3 + x) * RGB
			pix[i], pix[i+1], pix[i+2] = byte(x), byte(y), byte(10*y+x)
		}
	}
	f, err := NewFrame(pix, 3, 2, RGB)
	require.NoError(t, err)

	cropped := f.Crop(image.Rect(1, 1, 3, 2))
	assert.Equal(t, 2, cropped.Width)
	assert.Equal(t, 1, cropped.Height)
	assert.Equal(t, []byte{1, 1, 11, 2, 1, 12}, cropped.Pix)

	cropped.Pix[0] = 99
	assert.Equal(t, byte(1), pix[f.Offset(1, 1)], "crop must not alias the source")
}

func TestImageRoundTrip(t *testing.T) {
	f, err := NewFrame([]byte{10, 20, 30, 40, 50, 60}, 2, 1, RGB)
	require.NoError(t, err)

	img := f.Image()
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.At(0, 0))

	back := FrameFromImage(img)
	assert.Equal(t, f.Pix, back.Pix)

	rgba, err := NewFrame([]byte{1, 2, 3, 0, 4, 5, 6, 128}, 2, 1, RGBA)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{4, 5, 6, 128}, rgba.Image().At(1, 0))

	gray := FilledPlane(2, 2, 7).Image()
	assert.Equal(t, color.Gray{Y: 7}, gray.At(1, 1))
}

func TestMarginsRect(t *testing.T) {
	tests := []struct {
		name  string
		m     Margins
		w, h  int
		want  image.Rectangle
		empty bool
	}{
		{"none", Margins{}, 10, 8, image.Rect(0, 0, 10, 8), false},
		{"mixed", Margins{Left: 0.2, Right: 0.1, Top: 0.25, Bottom: 0.25}, 10, 8, image.Rect(2, 2, 9, 6), false},
		{"sample app crop", Margins{Left: 0.2, Right: 0.2}, 640, 480, image.Rect(128, 0, 512, 480), false},
		{"meeting", Margins{Left: 0.5, Right: 0.5}, 10, 8, image.Rectangle{}, true},
		{"crossing", Margins{Top: 0.7, Bottom: 0.6}, 10, 10, image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.m.Rect(tt.w, tt.h)
			assert.Equal(t, tt.empty, r.Empty())
			if !tt.empty {
				assert.Equal(t, tt.want, r)
			}
		})
	}
}

func TestMarginsContainment(t *testing.T) {
	w, h := 200, 120
	for _, m := range []Margins{
		{Left: 0.1, Right: 0.2, Top: 0.05, Bottom: 0.15},
		{Left: 0.25, Right: 0.25, Top: 0.5},
		{Right: 0.9, Bottom: 0.9},
	} {
		r := m.Rect(w, h)
		wantW := w - int((m.Left+m.Right)*float64(w)+1e-9)
		wantH := h - int((m.Top+m.Bottom)*float64(h)+1e-9)
		assert.Equal(t, wantW*wantH, r.Dx()*r.Dy(), "margins %+v", m)
	}
}

func TestPreviewShowsCheckerboardThroughAlpha(t *testing.T) {
	pix := make([]byte, 12*1*RGBA)
	for x := 0; x < 12; x++ {
		copy(pix[x*RGBA:], []byte{200, 10, 20, 0})
	}
	copy(pix[11*RGBA:], []byte{200, 10, 20, 255})
	composite, err := NewFrame(pix, 12, 1, RGBA)
	require.NoError(t, err)

	preview, err := Preview(composite, 10)
	require.NoError(t, err)
	require.Equal(t, RGB, preview.Channels)

	assert.Equal(t, []byte{30, 30, 30}, preview.Pix[0:3], "dark square")
	assert.Equal(t, []byte{255, 255, 255}, preview.Pix[10*3:10*3+3], "light square")
	assert.Equal(t, []byte{200, 10, 20}, preview.Pix[11*3:11*3+3], "opaque pixel")

	_, err = Preview(preview, 10)
	assert.ErrorIs(t, err, ErrChannels)
}

func TestMarginsIsZero(t *testing.T) {
	assert.True(t, Margins{}.IsZero())
	assert.False(t, Margins{Bottom: 0.01}.IsZero())
}
