// Morphological operations used to clean up masks
package algorithms

import (
	"image"

	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/core"
)

// DefaultKernelSize matches OpenCV's default structuring element, a 3x3 rectangle.
const DefaultKernelSize = 3

// Dilate grows bright regions with the default 3x3 rectangular kernel.
func Dilate(src core.Plane, iterations int) (core.Plane, error) {
	return morph(src, gocv.MorphDilate, iterations, "dilate")
}

// Erode shrinks bright regions with the default 3x3 rectangular kernel.
func Erode(src core.Plane, iterations int) (core.Plane, error) {
	return morph(src, gocv.MorphErode, iterations, "erode")
}

func morph(src core.Plane, op gocv.MorphType, iterations int, name string) (core.Plane, error) {
	if iterations < 1 {
		return src.Clone(), nil
	}

	in, err := PlaneMat(src)
	if err != nil {
		return core.Plane{}, err
	}
	defer in.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(DefaultKernelSize, DefaultKernelSize))
	defer kernel.Close()

	output := in.Clone()
	defer func() { output.Close() }()

	for i := 0; i < iterations; i++ {
		temp := gocv.NewMat()
		if err := gocv.MorphologyEx(output, &temp, op, kernel); err != nil {
			temp.Close()
			return core.Plane{}, errors.Wrap(err, name)
		}
		output.Close()
		output = temp
	}

	return matToPlane(output, name)
}
