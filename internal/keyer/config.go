package keyer

import (
	"fmt"

	"chroma-keyer/internal/arith"
	"chroma-keyer/internal/core"
)

// ClipRange is a black/white point pair, as fractions of full scale, used to
// contrast-stretch a mask through a lookup table.
type ClipRange struct {
	Black float64
	White float64
}

// Config holds every tunable of the keying pipeline. A copy is taken at the
// start of each frame, so edits apply from the next SetFrame call.
type Config struct {
	Key KeyColor

	Base   ClipRange
	Detail ClipRange
	Chroma ClipRange
	End    ClipRange

	BaseStrength   float64
	ChromaStrength float64
	SpillStrength  float64

	BaseMask         bool
	DetailMask       bool
	ChromaMask       bool
	SpillSuppression bool

	Crop core.Margins

	// Arithmetic selects wraparound or clamping for 8-bit channel sums.
	Arithmetic arith.Mode
	// Workers splits the hue pass into row bands; values below 2 run it inline.
	Workers int
}

// DefaultConfig returns the stock tuning for a green screen.
func DefaultConfig() Config {
	return Config{
		Key: DefaultKeyColor,

		Base:   ClipRange{Black: 0.2, White: 0.6},
		Detail: ClipRange{Black: 0.1, White: 0.6},
		Chroma: ClipRange{Black: 0.05, White: 0.95},
		End:    ClipRange{Black: 0.1, White: 0.6},

		BaseStrength:   0.3,
		ChromaStrength: 0.4,
		SpillStrength:  0.4,

		BaseMask:         true,
		DetailMask:       true,
		ChromaMask:       true,
		SpillSuppression: true,

		Arithmetic: arith.Modular,
		Workers:    1,
	}
}

// AnyMask reports whether at least one mask generator is enabled.
func (c Config) AnyMask() bool {
	return c.BaseMask || c.DetailMask || c.ChromaMask
}

// needsHuePass reports whether the HSV loop has any work to do.
func (c Config) needsHuePass() bool {
	return c.ChromaMask || c.SpillSuppression
}

// Warnings lists fractional parameters outside [0,1]. They are still honoured
// but produce degenerate lookup tables or strengths.
func (c Config) Warnings() []string {
	var out []string
	check := func(name string, v float64) {
		if v < 0 || v > 1 {
			out = append(out, fmt.Sprintf("%s=%g is outside [0,1]", name, v))
		}
	}

	check("base.clip_black", c.Base.Black)
	check("base.clip_white", c.Base.White)
	check("detail.clip_black", c.Detail.Black)
	check("detail.clip_white", c.Detail.White)
	check("chroma.clip_black", c.Chroma.Black)
	check("chroma.clip_white", c.Chroma.White)
	check("end.clip_black", c.End.Black)
	check("end.clip_white", c.End.White)
	check("base.strength", c.BaseStrength)
	check("chroma.strength", c.ChromaStrength)
	check("spill.strength", c.SpillStrength)
	check("crop.left", c.Crop.Left)
	check("crop.right", c.Crop.Right)
	check("crop.top", c.Crop.Top)
	check("crop.bottom", c.Crop.Bottom)

	clips := []struct {
		name string
		r    ClipRange
	}{{"base", c.Base}, {"detail", c.Detail}, {"chroma", c.Chroma}, {"end", c.End}}
	for _, cl := range clips {
		if cl.r.Black > cl.r.White {
			out = append(out, fmt.Sprintf("%s clip black %g exceeds white %g", cl.name, cl.r.Black, cl.r.White))
		}
	}
	return out
}
