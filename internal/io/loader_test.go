package io

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chroma-keyer/internal/core"
)

func TestSupportedFormats(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"shot.png", true},
		{"SHOT.JPG", true},
		{"dir.v2/shot.tif", true},
		{"shot.gif", false},
		{"shot", false},
		{"archive.png/shot", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedImageFormat(tt.path), tt.path)
	}
}

func TestLoadFrameRejectsUnsupported(t *testing.T) {
	_, err := NewImageLoader(nil).LoadFrame("frame.gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFrameMissingFile(t *testing.T) {
	_, err := NewImageLoader(nil).LoadFrame(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	loader := NewImageLoader(nil)
	path := filepath.Join(t.TempDir(), "composite.png")

	pix := []byte{
		20, 200, 20, 0, 200, 20, 200, 255,
		1, 2, 3, 128, 250, 251, 252, 64,
	}
	composite, err := core.NewFrame(pix, 2, 2, core.RGBA)
	require.NoError(t, err)
	require.NoError(t, loader.SaveFrame(composite, path))

	loaded, err := loader.LoadFrame(path)
	require.NoError(t, err)
	assert.Equal(t, core.RGB, loaded.Channels)
	assert.Equal(t, []byte{
		20, 200, 20, 200, 20, 200,
		1, 2, 3, 250, 251, 252,
	}, loaded.Pix)
}

func TestSaveRejectsEmpty(t *testing.T) {
	loader := NewImageLoader(nil)
	dir := t.TempDir()

	assert.Error(t, loader.SaveFrame(core.Frame{}, filepath.Join(dir, "a.png")))
	assert.Error(t, loader.SaveMask(core.Plane{}, filepath.Join(dir, "a.png")))
	assert.ErrorIs(t, loader.SaveMask(core.FilledPlane(2, 2, 9), filepath.Join(dir, "a.gif")), ErrUnsupportedFormat)
}

func TestSaveMask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.png")
	require.NoError(t, NewImageLoader(nil).SaveMask(core.FilledPlane(3, 2, 77), path))

	loaded, err := NewImageLoader(nil).LoadFrame(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Width)
	assert.Equal(t, 2, loaded.Height)
	for _, v := range loaded.Pix {
		assert.Equal(t, byte(77), v)
	}
}
