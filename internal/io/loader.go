// Still-image loading and saving for the keyer CLI
package io

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/core"
)

var (
	// ErrUnsupportedFormat reports a file extension OpenCV is not asked to handle.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrUnreadable reports a file that exists in a supported format but did
	// not decode.
	ErrUnreadable = errors.New("failed to load image")
)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// Formats that keep an alpha channel when a composite is written.
var alphaFormats = []string{".png", ".tiff", ".tif"}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

// NewImageLoader returns a loader logging to logger, or nowhere when nil.
func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = silent
	}
	return &ImageLoader{logger: logger}
}

// LoadFrame decodes an image file into a tightly packed RGB frame.
func (il *ImageLoader) LoadFrame(path string) (core.Frame, error) {
	il.logger.WithField("filepath", path).Debug("LOADER: Loading image")

	if !IsSupportedImageFormat(path) {
		return core.Frame{}, errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%s", path),
			"use one of "+strings.Join(supportedFormats, ", "))
	}

	bgr := gocv.IMRead(path, gocv.IMReadColor)
	defer bgr.Close()
	if bgr.Empty() {
		return core.Frame{}, errors.Wrapf(ErrUnreadable, "%s", path)
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	if err := gocv.CvtColor(bgr, &rgb, gocv.ColorBGRToRGB); err != nil {
		return core.Frame{}, errors.Wrapf(err, "convert %s", path)
	}

	frame, err := algorithms.MatFrame(rgb, "load "+path)
	if err != nil {
		return core.Frame{}, err
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    frame.Width,
		"height":   frame.Height,
	}).Info("LOADER: Image loaded successfully")
	return frame, nil
}

// SaveFrame writes an RGB or RGBA frame. Formats without alpha drop the
// composite's mask, which is logged as a warning.
func (il *ImageLoader) SaveFrame(frame core.Frame, path string) error {
	il.logger.WithField("filepath", path).Debug("LOADER: Saving image")

	if frame.Empty() {
		return errors.New("cannot save empty image")
	}
	if !IsSupportedImageFormat(path) {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
	if frame.Channels == core.RGBA && !slices.Contains(alphaFormats, extension(path)) {
		il.logger.WithField("filepath", path).Warn("LOADER: Format has no alpha channel, mask dropped")
	}

	src, err := algorithms.FrameMat(frame)
	if err != nil {
		return err
	}
	defer src.Close()

	code := gocv.ColorRGBToBGR
	if frame.Channels == core.RGBA {
		code = gocv.ColorRGBAToBGRA
	}
	out := gocv.NewMat()
	defer out.Close()
	if err := gocv.CvtColor(src, &out, code); err != nil {
		return errors.Wrapf(err, "convert %s", path)
	}

	if !gocv.IMWrite(path, out) {
		return errors.Newf("failed to save image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    frame.Width,
		"height":   frame.Height,
		"channels": frame.Channels,
	}).Info("LOADER: Image saved successfully")
	return nil
}

// SaveMask writes a single-channel mask as a grayscale image.
func (il *ImageLoader) SaveMask(mask core.Plane, path string) error {
	if mask.Empty() {
		return errors.New("cannot save empty mask")
	}
	if !IsSupportedImageFormat(path) {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	m, err := algorithms.PlaneMat(mask)
	if err != nil {
		return err
	}
	defer m.Close()

	if !gocv.IMWrite(path, m) {
		return errors.Newf("failed to save mask: %s", path)
	}
	il.logger.WithField("filepath", path).Info("LOADER: Mask saved successfully")
	return nil
}

// IsSupportedImageFormat reports whether path has an extension the loader
// accepts.
func IsSupportedImageFormat(path string) bool {
	return slices.Contains(supportedFormats, extension(path))
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// GetSupportedFormats names the formats LoadFrame accepts.
func GetSupportedFormats() []string {
	return []string{"JPEG", "PNG", "TIFF", "BMP"}
}
