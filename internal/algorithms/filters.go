// Smoothing filters for mask refinement
package algorithms

import (
	"image"

	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/core"
)

// MaskBlurSize is the box filter size applied to the base and chroma masks.
const MaskBlurSize = 5

// BoxBlur applies a normalized size x size box filter with OpenCV's default
// reflect-101 border. Results are rounded to the nearest level.
func BoxBlur(src core.Plane, size int) (core.Plane, error) {
	if size < 1 {
		return core.Plane{}, errors.Newf("box blur size must be positive, got %d", size)
	}

	in, err := PlaneMat(src)
	if err != nil {
		return core.Plane{}, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	if err := gocv.Blur(in, &out, image.Pt(size, size)); err != nil {
		return core.Plane{}, errors.Wrap(err, "box blur")
	}
	return matToPlane(out, "box blur")
}
