package keyer

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"chroma-keyer/internal/core"
)

// LearnKeyColor sets the key to the average color of sample inside an RGB
// frame. Outputs already published are not recomputed.
func (k *Keyer) LearnKeyColor(pix []byte, width, height int, sample image.Rectangle) (KeyColor, error) {
	f, err := core.NewFrame(pix, width, height, core.RGB)
	if err != nil {
		return KeyColor{}, errors.Wrap(err, "learn key color")
	}

	key, err := AverageColor(f, sample)
	if err != nil {
		return KeyColor{}, errors.Wrap(err, "learn key color")
	}

	k.update(func(c *Config) { c.Key = key })
	k.logger.WithFields(logrus.Fields{
		"key":    key.Hex(),
		"sample": sample.String(),
	}).Info("KEYER: Key color learned")
	return key, nil
}

// LearnKeyColorFrame averages the whole frame, for a shot of the bare screen.
func (k *Keyer) LearnKeyColorFrame(pix []byte, width, height int) (KeyColor, error) {
	return k.LearnKeyColor(pix, width, height, image.Rect(0, 0, width, height))
}

// PickKeyColor takes the key from the single pixel at (x, y).
func (k *Keyer) PickKeyColor(pix []byte, width, height, x, y int) (KeyColor, error) {
	return k.LearnKeyColor(pix, width, height, image.Rect(x, y, x+1, y+1))
}
