// Conversions between keyer buffers and OpenCV matrices
package algorithms

import (
	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/core"
)

// ErrEmptyResult is returned when OpenCV produced no output for an operation.
var ErrEmptyResult = errors.New("opencv returned an empty result")

// PlaneMat wraps a plane as a CV_8UC1 matrix. The caller closes it.
func PlaneMat(p core.Plane) (gocv.Mat, error) {
	if p.Empty() {
		return gocv.NewMat(), errors.New("input plane is empty")
	}
	mat, err := gocv.NewMatFromBytes(p.Height, p.Width, gocv.MatTypeCV8UC1, p.Pix)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "wrap plane")
	}
	return mat, nil
}

// FrameMat wraps an RGB or RGBA frame as a CV_8UC3 or CV_8UC4 matrix.
func FrameMat(f core.Frame) (gocv.Mat, error) {
	if f.Empty() {
		return gocv.NewMat(), errors.New("input frame is empty")
	}
	mt := gocv.MatTypeCV8UC3
	if f.Channels == core.RGBA {
		mt = gocv.MatTypeCV8UC4
	}
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, mt, f.Pix)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "wrap frame")
	}
	return mat, nil
}

// matToPlane copies a single-channel 8-bit Mat back into Go memory.
func matToPlane(m gocv.Mat, op string) (core.Plane, error) {
	if m.Empty() {
		return core.Plane{}, errors.Wrap(ErrEmptyResult, op)
	}
	if m.Channels() != 1 {
		return core.Plane{}, errors.Newf("%s: expected 1 channel, got %d", op, m.Channels())
	}
	return core.Plane{Width: m.Cols(), Height: m.Rows(), Pix: m.ToBytes()}, nil
}

// MatFrame copies an 8-bit Mat with 3 or 4 channels into a frame.
func MatFrame(m gocv.Mat, op string) (core.Frame, error) {
	if m.Empty() {
		return core.Frame{}, errors.Wrap(ErrEmptyResult, op)
	}
	return core.NewFrame(m.ToBytes(), m.Cols(), m.Rows(), m.Channels())
}
