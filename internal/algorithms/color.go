// Color-space conversion between RGB and 8-bit HSV
package algorithms

import (
	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/core"
)

// HueRange is the exclusive upper bound of the 8-bit hue channel produced by
// RGBToHSV: OpenCV stores degrees halved, so hue lies in [0,180).
const HueRange = 180

// RGBToHSV converts an RGB frame into OpenCV's 8-bit HSV layout
// (H in [0,180), S and V in [0,255]).
func RGBToHSV(src core.Frame) (core.Frame, error) {
	return convert(src, gocv.ColorRGBToHSV, "rgb to hsv")
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(src core.Frame) (core.Frame, error) {
	return convert(src, gocv.ColorHSVToRGB, "hsv to rgb")
}

func convert(src core.Frame, code gocv.ColorConversionCode, name string) (core.Frame, error) {
	if src.Channels != core.RGB {
		return core.Frame{}, errors.Wrapf(core.ErrChannels, "%s needs %d channels, got %d", name, core.RGB, src.Channels)
	}

	in, err := FrameMat(src)
	if err != nil {
		return core.Frame{}, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	if err := gocv.CvtColor(in, &out, code); err != nil {
		return core.Frame{}, errors.Wrap(err, name)
	}
	return MatFrame(out, name)
}
