package main

import (
	"image"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chroma-keyer/internal/core"
	"chroma-keyer/internal/keyer"
)

func TestParseSample(t *testing.T) {
	r, err := parseSample("10, 20,30,40")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 20, 40, 60), r)

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "0,0,0,5", "0,0,5,-1"} {
		_, err := parseSample(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadInputNamesFormats(t *testing.T) {
	_, err := loadInput("")
	require.Error(t, err)
	hints := errors.GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Contains(t, hints[0], "PNG")
}

func TestBenchmarkCountsFrames(t *testing.T) {
	pix := make([]byte, 6*4*3)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	frame, err := core.NewFrame(pix, 6, 4, core.RGB)
	require.NoError(t, err)

	k := keyer.New()
	res, err := benchmark(k, frame, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Frames)
	assert.Equal(t, uint64(3), k.Stats().Frames)
	assert.LessOrEqual(t, res.Fastest, res.Slowest)
	assert.Len(t, res.StageAverages, 6)
	assert.GreaterOrEqual(t, res.FPS(), 0.0)
}

func TestBenchmarkStopsOnError(t *testing.T) {
	frame := core.Frame{Width: 2, Height: 2, Channels: core.RGB, Pix: make([]byte, 5)}
	_, err := benchmark(keyer.New(), frame, 2)
	assert.ErrorIs(t, err, core.ErrBufferSize)
}

func TestCompareSequential(t *testing.T) {
	pix := make([]byte, 8*8*3)
	for i := range pix {
		pix[i] = byte(i * 13)
	}
	frame, err := core.NewFrame(pix, 8, 8, core.RGB)
	require.NoError(t, err)

	k := keyer.New()
	k.SetWorkers(4)
	require.NoError(t, k.ProcessFrame(frame))
	assert.NoError(t, compareSequential(k, frame))
}

func TestInitLogger(t *testing.T) {
	assert.Equal(t, "debug", initLogger(true).GetLevel().String())
	assert.Equal(t, "info", initLogger(false).GetLevel().String())
}
