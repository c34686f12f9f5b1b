// Per-pixel mask operations backed by OpenCV
package algorithms

import (
	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/core"
)

// unary runs fn from a matrix view of src into a fresh plane.
func unary(src core.Plane, op string, fn func(in gocv.Mat, out *gocv.Mat) error) (core.Plane, error) {
	in, err := PlaneMat(src)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, op)
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	if err := fn(in, &out); err != nil {
		return core.Plane{}, errors.Wrap(err, op)
	}
	return matToPlane(out, op)
}

// binary runs fn over two equally sized planes into a fresh plane.
func binary(a, b core.Plane, op string, fn func(ma, mb gocv.Mat, out *gocv.Mat) error) (core.Plane, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return core.Plane{}, errors.Wrapf(core.ErrBufferSize, "%s: %dx%d vs %dx%d", op, a.Width, a.Height, b.Width, b.Height)
	}
	mb, err := PlaneMat(b)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, op)
	}
	defer mb.Close()

	return unary(a, op, func(ma gocv.Mat, out *gocv.Mat) error {
		return fn(ma, mb, out)
	})
}

// Invert returns 255-v for every pixel.
func Invert(src core.Plane) (core.Plane, error) {
	return unary(src, "invert", func(in gocv.Mat, out *gocv.Mat) error {
		gocv.BitwiseNot(in, out)
		return nil
	})
}

// Scale multiplies every pixel by f, rounding half to even and saturating.
func Scale(src core.Plane, f float64) (core.Plane, error) {
	return unary(src, "scale", func(in gocv.Mat, out *gocv.Mat) error {
		in.ConvertToWithParams(out, gocv.MatTypeCV8U, float32(f), 0)
		return nil
	})
}

// LUT maps every pixel through a 256-entry table.
func LUT(src core.Plane, table []byte) (core.Plane, error) {
	if len(table) != 256 {
		return core.Plane{}, errors.Newf("lookup table needs 256 entries, got %d", len(table))
	}
	lut, err := gocv.NewMatFromBytes(1, 256, gocv.MatTypeCV8UC1, table)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, "wrap lookup table")
	}
	defer lut.Close()

	return unary(src, "lookup table", func(in gocv.Mat, out *gocv.Mat) error {
		gocv.LUT(in, lut, out)
		return nil
	})
}

// Add returns the saturated per-pixel sum a+b.
func Add(a, b core.Plane) (core.Plane, error) {
	return binary(a, b, "add", func(ma, mb gocv.Mat, out *gocv.Mat) error {
		return gocv.Add(ma, mb, out)
	})
}

// Subtract returns the saturated per-pixel difference a-b.
func Subtract(a, b core.Plane) (core.Plane, error) {
	return binary(a, b, "subtract", func(ma, mb gocv.Mat, out *gocv.Mat) error {
		return gocv.Subtract(ma, mb, out)
	})
}

// SubtractScalar returns the saturated difference src-v.
func SubtractScalar(src core.Plane, v uint8) (core.Plane, error) {
	return unary(src, "subtract scalar", func(in gocv.Mat, out *gocv.Mat) error {
		level := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(v), 0, 0, 0), in.Rows(), in.Cols(), gocv.MatTypeCV8UC1)
		defer level.Close()
		return gocv.Subtract(in, level, out)
	})
}
