// Concrete mask metrics
package metrics

import (
	"math"

	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/core"
)

// ErrSizeMismatch is returned when two masks being compared differ in size.
var ErrSizeMismatch = errors.New("mask dimensions mismatch")

// MaxPSNR is reported for identical masks.
const MaxPSNR = 100.0

// withMat runs fn on a matrix view of mask.
func withMat(mask core.Plane, fn func(m gocv.Mat) float64) (float64, error) {
	if mask.Empty() {
		return 0, errors.New("empty mask")
	}
	m, err := algorithms.PlaneMat(mask)
	if err != nil {
		return 0, err
	}
	defer m.Close()
	return fn(m), nil
}

func pixels(m gocv.Mat) float64 {
	return float64(m.Rows() * m.Cols())
}

// MeanAlpha is the average alpha value.
type MeanAlpha struct{}

func NewMeanAlpha() *MeanAlpha {
	return &MeanAlpha{}
}

func (a *MeanAlpha) Calculate(mask core.Plane) (float64, error) {
	return withMat(mask, func(m gocv.Mat) float64 {
		// Alpha is non-negative, so the L1 norm is the plain sum.
		return gocv.Norm(m, gocv.NormL1) / pixels(m)
	})
}

func (a *MeanAlpha) GetName() string {
	return "Mean alpha"
}

func (a *MeanAlpha) GetDescription() string {
	return "Average alpha over the working region; 255 keeps everything"
}

func (a *MeanAlpha) GetRange() (float64, float64) {
	return 0, 255
}

// AlphaSpread is the standard deviation of alpha. Hard masks score high,
// uniform ones zero.
type AlphaSpread struct{}

func NewAlphaSpread() *AlphaSpread {
	return &AlphaSpread{}
}

func (a *AlphaSpread) Calculate(mask core.Plane) (float64, error) {
	return withMat(mask, func(m gocv.Mat) float64 {
		n := pixels(m)
		mean := gocv.Norm(m, gocv.NormL1) / n
		l2 := gocv.Norm(m, gocv.NormL2)
		variance := l2*l2/n - mean*mean
		return math.Sqrt(math.Max(variance, 0))
	})
}

func (a *AlphaSpread) GetName() string {
	return "Alpha spread"
}

func (a *AlphaSpread) GetDescription() string {
	return "Standard deviation of alpha"
}

func (a *AlphaSpread) GetRange() (float64, float64) {
	return 0, 127.5
}

// OpaqueRatio is the fraction of pixels with alpha 255.
type OpaqueRatio struct{}

func NewOpaqueRatio() *OpaqueRatio {
	return &OpaqueRatio{}
}

func (o *OpaqueRatio) Calculate(mask core.Plane) (float64, error) {
	return withMat(mask, func(m gocv.Mat) float64 {
		full := gocv.NewMat()
		defer full.Close()

		gocv.Threshold(m, &full, 254, 255, gocv.ThresholdBinary)
		return float64(gocv.CountNonZero(full)) / pixels(m)
	})
}

func (o *OpaqueRatio) GetName() string {
	return "Opaque ratio"
}

func (o *OpaqueRatio) GetDescription() string {
	return "Fraction of pixels kept fully opaque"
}

func (o *OpaqueRatio) GetRange() (float64, float64) {
	return 0, 1
}

// TransparentRatio is the fraction of pixels with alpha 0.
type TransparentRatio struct{}

func NewTransparentRatio() *TransparentRatio {
	return &TransparentRatio{}
}

func (t *TransparentRatio) Calculate(mask core.Plane) (float64, error) {
	return withMat(mask, func(m gocv.Mat) float64 {
		n := pixels(m)
		return (n - float64(gocv.CountNonZero(m))) / n
	})
}

func (t *TransparentRatio) GetName() string {
	return "Transparent ratio"
}

func (t *TransparentRatio) GetDescription() string {
	return "Fraction of pixels fully keyed out"
}

func (t *TransparentRatio) GetRange() (float64, float64) {
	return 0, 1
}

// PSNR compares two equally sized masks. Identical masks give MaxPSNR.
func PSNR(a, b core.Plane) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, errors.Wrapf(ErrSizeMismatch, "%dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}

	ma, err := algorithms.PlaneMat(a)
	if err != nil {
		return 0, err
	}
	defer ma.Close()
	mb, err := algorithms.PlaneMat(b)
	if err != nil {
		return 0, err
	}
	defer mb.Close()

	fa := gocv.NewMat()
	defer fa.Close()
	fb := gocv.NewMat()
	defer fb.Close()
	ma.ConvertTo(&fa, gocv.MatTypeCV64F)
	mb.ConvertTo(&fb, gocv.MatTypeCV64F)

	diff := gocv.NewMat()
	defer diff.Close()
	if err := gocv.Subtract(fa, fb, &diff); err != nil {
		return 0, errors.Wrap(err, "psnr")
	}

	norm := gocv.Norm(diff, gocv.NormL2)
	mse := norm * norm / pixels(ma)
	if mse < 1e-15 {
		return MaxPSNR, nil
	}
	return math.Min(MaxPSNR, 20*math.Log10(255)-10*math.Log10(mse)), nil
}
