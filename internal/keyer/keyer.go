// Package keyer turns RGB frames and a key color into an alpha-masked
// composite. Each SetFrame call runs the whole pipeline synchronously:
// crop, channel split, detail/base/chroma masks, spill suppression, mask
// fusion and composite assembly. Outputs stay readable until the next frame.
package keyer

import (
	"image"
	"io"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"chroma-keyer/internal/core"
)

// ErrEmptyRegion reports crop margins that leave no pixels on the first frame.
// Later frames with such a crop are skipped and keep the previous outputs.
var ErrEmptyRegion = errors.New("crop leaves an empty working region")

// Keyer owns the configuration and every intermediate and output buffer.
// SetFrame calls are serialized; setters and accessors may be called from
// other goroutines between frames.
type Keyer struct {
	frameMu sync.Mutex

	cfgMu sync.RWMutex
	cfg   Config

	outMu sync.RWMutex
	out   *outputs
	stats Stats

	logger logrus.FieldLogger
}

// Option customizes a Keyer.
type Option func(*Keyer)

// WithLogger routes pipeline logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(k *Keyer) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(k *Keyer) {
		k.cfg = cfg
	}
}

// New creates a keyer with DefaultConfig and a discarding logger.
func New(opts ...Option) *Keyer {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	k := &Keyer{
		cfg:    DefaultConfig(),
		logger: silent,
	}
	for _, opt := range opts {
		opt(k)
	}

	k.warn(k.cfg)
	return k
}

// SetFrame keys one interleaved RGB frame. The caller's buffer is only read.
// A crop that leaves no pixels skips the frame and keeps the previous outputs,
// or returns ErrEmptyRegion if nothing has been keyed yet.
func (k *Keyer) SetFrame(pix []byte, width, height int) error {
	k.frameMu.Lock()
	defer k.frameMu.Unlock()

	src, err := core.NewFrame(pix, width, height, core.RGB)
	if err != nil {
		return errors.Wrap(err, "set frame")
	}

	cfg := k.Config()
	region := cfg.Crop.Rect(width, height)
	if region.Empty() {
		return k.skip(width, height, region)
	}

	input := src
	if !cfg.Crop.IsZero() {
		input = src.Crop(region)
	}

	start := time.Now()
	out, err := process(input, cfg)
	if err != nil {
		k.logger.WithError(err).WithFields(logrus.Fields{
			"width":  width,
			"height": height,
		}).Error("KEYER: Frame processing failed")
		return errors.Wrap(err, "key frame")
	}

	k.publish(out, time.Since(start))
	return nil
}

// ProcessFrame is SetFrame for an already validated frame.
func (k *Keyer) ProcessFrame(f core.Frame) error {
	if f.Channels != core.RGB {
		return errors.Wrapf(core.ErrChannels, "keyer input needs %d channels, got %d", core.RGB, f.Channels)
	}
	return k.SetFrame(f.Pix, f.Width, f.Height)
}

func (k *Keyer) skip(width, height int, region image.Rectangle) error {
	k.outMu.Lock()
	k.stats.Skipped++
	skipped := k.stats.Skipped
	primed := k.out != nil
	k.outMu.Unlock()

	if !primed {
		return errors.WithHint(
			errors.Wrapf(ErrEmptyRegion, "%v of %dx%d", region, width, height),
			"crop margins on each axis must sum to less than 1")
	}

	k.logger.WithFields(logrus.Fields{
		"width":   width,
		"height":  height,
		"region":  region.String(),
		"skipped": skipped,
	}).Debug("KEYER: Crop leaves no pixels, frame skipped")
	return nil
}

func (k *Keyer) publish(out *outputs, elapsed time.Duration) {
	k.outMu.Lock()
	k.out = out
	k.stats.Frames++
	k.stats.Width = out.composite.Width
	k.stats.Height = out.composite.Height
	k.stats.LastDuration = elapsed
	k.stats.Stages = out.timings
	frames := k.stats.Frames
	k.outMu.Unlock()

	k.logger.WithFields(logrus.Fields{
		"frame":       frames,
		"width":       out.composite.Width,
		"height":      out.composite.Height,
		"duration_ms": float64(elapsed.Microseconds()) / 1000,
	}).Debug("KEYER: Frame keyed")
}

func (k *Keyer) warn(cfg Config) {
	for _, w := range cfg.Warnings() {
		k.logger.WithField("parameter", w).Warn("KEYER: Parameter out of range")
	}
}
