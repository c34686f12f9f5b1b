// Explicit 8-bit channel arithmetic for the keying stages
package arith

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/core"
)

// Mode selects how 8-bit channel sums and differences leave the [0,255] range.
type Mode int

const (
	// Modular wraps around modulo 256, so 10-20 yields 246.
	Modular Mode = iota
	// Saturating clamps to [0,255], so 10-20 yields 0.
	Saturating
)

// ErrUnknownMode is returned by ParseMode for names it does not recognise.
var ErrUnknownMode = errors.New("unknown arithmetic mode")

// String returns the preset name of the mode.
func (m Mode) String() string {
	switch m {
	case Modular:
		return "modular"
	case Saturating:
		return "saturating"
	default:
		return "unknown"
	}
}

// ParseMode converts a preset name into a Mode. The empty string means Modular.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "modular", "mod", "wrap":
		return Modular, nil
	case "saturating", "sat", "clamp":
		return Saturating, nil
	}
	return Modular, errors.WithHint(
		errors.Wrapf(ErrUnknownMode, "%q", name),
		"use \"modular\" or \"saturating\"")
}

// Sub returns a-b per pixel. Saturating mode runs through OpenCV; modular
// wraparound has no OpenCV equivalent and is computed here.
func (m Mode) Sub(a, b core.Plane) (core.Plane, error) {
	if m == Saturating {
		return algorithms.Subtract(a, b)
	}
	return wrap(a, b, func(x, y uint8) uint8 { return x - y })
}

// Add returns a+b per pixel.
func (m Mode) Add(a, b core.Plane) (core.Plane, error) {
	if m == Saturating {
		return algorithms.Add(a, b)
	}
	return wrap(a, b, func(x, y uint8) uint8 { return x + y })
}

// SubScalar returns p-v per pixel.
func (m Mode) SubScalar(p core.Plane, v uint8) (core.Plane, error) {
	if m == Saturating {
		return algorithms.SubtractScalar(p, v)
	}
	out := core.NewPlane(p.Width, p.Height)
	for i, x := range p.Pix {
		out.Pix[i] = x - v
	}
	return out, nil
}

func wrap(a, b core.Plane, fn func(x, y uint8) uint8) (core.Plane, error) {
	if a.Width != b.Width || a.Height != b.Height || len(a.Pix) != len(b.Pix) {
		return core.Plane{}, errors.Wrapf(core.ErrBufferSize, "%dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	out := core.NewPlane(a.Width, a.Height)
	for i, x := range a.Pix {
		out.Pix[i] = fn(x, b.Pix[i])
	}
	return out, nil
}

// Offset converts a strength in [0,1] into the darkening amount
// (1-strength)*255 subtracted by the base and chroma masks, rounded half to
// even the way OpenCV rounds scalars.
func Offset(strength float64) uint8 {
	return clampByte(math.RoundToEven((1 - strength) * 255))
}

// clampByte clamps v into [0,255] and truncates the fraction. NaN maps to 0.
func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}
