// Channel separation and interleaving
package algorithms

import (
	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/core"
)

// Split separates an interleaved frame into one plane per channel.
func Split(f core.Frame) ([]core.Plane, error) {
	in, err := FrameMat(f)
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	defer in.Close()

	mats := gocv.Split(in)
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()

	planes := make([]core.Plane, len(mats))
	for c, m := range mats {
		if planes[c], err = matToPlane(m, "split"); err != nil {
			return nil, err
		}
	}
	return planes, nil
}

// Merge interleaves three or four equally sized planes into one frame.
func Merge(planes ...core.Plane) (core.Frame, error) {
	if len(planes) != core.RGB && len(planes) != core.RGBA {
		return core.Frame{}, errors.Wrapf(core.ErrChannels, "merge %d planes", len(planes))
	}

	w, h := planes[0].Width, planes[0].Height
	mats := make([]gocv.Mat, 0, len(planes))
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()

	for i, p := range planes {
		if p.Width != w || p.Height != h || len(p.Pix) != w*h {
			return core.Frame{}, errors.Wrapf(core.ErrBufferSize, "plane %d is %dx%d, want %dx%d", i, p.Width, p.Height, w, h)
		}
		m, err := PlaneMat(p)
		if err != nil {
			return core.Frame{}, errors.Wrap(err, "merge")
		}
		mats = append(mats, m)
	}

	out := gocv.NewMat()
	defer out.Close()
	gocv.Merge(mats, &out)
	return MatFrame(out, "merge")
}
