package arith

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chroma-keyer/internal/core"
)

func plane(pix ...byte) core.Plane {
	return core.Plane{Width: len(pix), Height: 1, Pix: pix}
}

func TestModularWraparound(t *testing.T) {
	a := plane(10, 20, 200, 255, 0)
	b := plane(20, 20, 100, 1, 255)

	diff, err := Modular.Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, []byte{246, 0, 100, 254, 1}, diff.Pix)

	sum, err := Modular.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []byte{30, 40, 44, 0, 255}, sum.Pix)

	shifted, err := Modular.SubScalar(plane(0, 10, 20, 255), 20)
	require.NoError(t, err)
	assert.Equal(t, []byte{236, 246, 0, 235}, shifted.Pix)

	assert.Equal(t, []byte{10, 20, 200, 255, 0}, a.Pix, "inputs are left untouched")
}

func TestSaturatingClamps(t *testing.T) {
	a := plane(10, 110, 200, 255, 10)
	b := plane(20, 20, 100, 0, 20)

	diff, err := Saturating.Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 90, 100, 255, 0}, diff.Pix)

	sum, err := Saturating.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []byte{30, 130, 255, 255, 30}, sum.Pix)

	shifted, err := Saturating.SubScalar(plane(0, 10, 20, 255), 20)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 235}, shifted.Pix)
}

func TestPlaneSizeMismatch(t *testing.T) {
	for _, m := range []Mode{Modular, Saturating} {
		_, err := m.Add(plane(1, 2), plane(1, 2, 3))
		assert.True(t, errors.Is(err, core.ErrBufferSize), "%s: %v", m, err)
	}
}

func TestOffset(t *testing.T) {
	// 178.5 rounds half to even.
	assert.Equal(t, uint8(178), Offset(0.3))
	assert.Equal(t, uint8(153), Offset(0.4))
	assert.Equal(t, uint8(0), Offset(1))
	assert.Equal(t, uint8(255), Offset(0))
	assert.Equal(t, uint8(255), Offset(-2))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Modular, m)

	m, err = ParseMode(" Saturating ")
	require.NoError(t, err)
	assert.Equal(t, Saturating, m)
	assert.Equal(t, "saturating", m.String())

	_, err = ParseMode("bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}
