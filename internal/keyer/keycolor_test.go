package keyer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnKeyColorRoundTrip(t *testing.T) {
	colors := [][3]byte{{20, 200, 20}, {0, 0, 0}, {255, 255, 255}, {7, 130, 251}}

	for _, c := range colors {
		k := New()
		key, err := k.LearnKeyColor(uniform(6, 5, c), 6, 5, image.Rect(1, 1, 4, 3))
		require.NoError(t, err)

		want := KeyColor{R: c[0], G: c[1], B: c[2]}
		assert.Equal(t, want, key)
		assert.Equal(t, want, k.KeyColor())
	}
}

func TestLearnKeyColorTruncatesMean(t *testing.T) {
	pix := []byte{
		10, 0, 255,
		11, 1, 254,
	}
	key, err := New().LearnKeyColor(pix, 2, 1, image.Rect(0, 0, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, KeyColor{R: 10, G: 0, B: 254}, key)
}

func TestLearnKeyColorFrameAndPick(t *testing.T) {
	pix := uniform(3, 3, [3]byte{40, 180, 60})
	copy(pix[(1*3+2)*3:], []byte{9, 8, 7})

	k := New()
	key, err := k.PickKeyColor(pix, 3, 3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, KeyColor{R: 9, G: 8, B: 7}, key)

	key, err = k.LearnKeyColorFrame(uniform(3, 3, [3]byte{40, 180, 60}), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, KeyColor{R: 40, G: 180, B: 60}, k.KeyColor())
	assert.Equal(t, key, k.KeyColor())
}

func TestLearnKeyColorRejectsBadSamples(t *testing.T) {
	pix := uniform(4, 4, [3]byte{1, 2, 3})
	samples := []image.Rectangle{
		image.Rect(0, 0, 0, 0),
		image.Rect(2, 2, 6, 3),
		image.Rect(-1, 0, 1, 1),
	}

	for _, s := range samples {
		k := New()
		_, err := k.LearnKeyColor(pix, 4, 4, s)
		assert.ErrorIs(t, err, ErrSampleRegion, "%v", s)
		assert.Equal(t, DefaultKeyColor, k.KeyColor(), "failed learn leaves key unchanged")
	}

	_, err := New().PickKeyColor(pix, 4, 4, 4, 0)
	assert.ErrorIs(t, err, ErrSampleRegion)
}

func TestLearnDoesNotReprocess(t *testing.T) {
	k := New()
	require.NoError(t, k.SetFrame(uniform(4, 4, keyBytes()), 4, 4))
	before := k.FinalMask()

	_, err := k.LearnKeyColorFrame(uniform(4, 4, magenta), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, before, k.FinalMask())
}

func TestKeyColorConversions(t *testing.T) {
	key := KeyColorOf(color.NRGBA{R: 20, G: 200, B: 20, A: 255})
	assert.Equal(t, DefaultKeyColor, key)
	assert.Equal(t, "#14c814", key.Hex())

	r, g, b, a := key.RGBA()
	assert.Equal(t, uint32(20*0x101), r)
	assert.Equal(t, uint32(200*0x101), g)
	assert.Equal(t, uint32(20*0x101), b)
	assert.Equal(t, uint32(0xffff), a)

	assert.InDelta(t, 0, KeyColor{R: 255}.Hue(), 1e-9)
	assert.InDelta(t, 2.0/3, KeyColor{B: 255}.Hue(), 1e-9)
}
