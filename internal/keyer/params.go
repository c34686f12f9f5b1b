package keyer

import (
	"github.com/sirupsen/logrus"

	"chroma-keyer/internal/arith"
	"chroma-keyer/internal/core"
)

// Config returns a snapshot of the current configuration.
func (k *Keyer) Config() Config {
	k.cfgMu.RLock()
	defer k.cfgMu.RUnlock()
	return k.cfg
}

// SetConfig replaces the whole configuration. It applies from the next frame.
func (k *Keyer) SetConfig(cfg Config) {
	k.cfgMu.Lock()
	k.cfg = cfg
	k.cfgMu.Unlock()

	k.logger.WithFields(logrus.Fields{
		"key":        cfg.Key.Hex(),
		"arithmetic": cfg.Arithmetic.String(),
		"workers":    cfg.Workers,
	}).Debug("KEYER: Configuration replaced")
	k.warn(cfg)
}

func (k *Keyer) update(fn func(*Config)) {
	k.cfgMu.Lock()
	fn(&k.cfg)
	k.cfgMu.Unlock()
}

func (k *Keyer) checkFraction(name string, v float64) {
	if v < 0 || v > 1 {
		k.logger.WithFields(logrus.Fields{
			"parameter": name,
			"value":     v,
		}).Warn("KEYER: Parameter outside [0,1]")
	}
}

// setFraction stores a value expected in [0,1]. Out-of-range values are kept
// and reported.
func (k *Keyer) setFraction(name string, v float64, apply func(*Config)) {
	k.checkFraction(name, v)
	k.update(apply)
}

func (k *Keyer) setClip(name string, black, white float64, apply func(*Config, ClipRange)) {
	k.checkFraction(name+".clip_black", black)
	k.checkFraction(name+".clip_white", white)
	if black > white {
		k.logger.WithFields(logrus.Fields{
			"parameter": name,
			"black":     black,
			"white":     white,
		}).Warn("KEYER: Clip black point exceeds white point")
	}

	r := ClipRange{Black: black, White: white}
	k.update(func(c *Config) { apply(c, r) })
}

// SetKeyColor sets the background color to remove.
func (k *Keyer) SetKeyColor(r, g, b uint8) {
	key := KeyColor{R: r, G: g, B: b}
	k.update(func(c *Config) { c.Key = key })
	k.logger.WithField("key", key.Hex()).Debug("KEYER: Key color set")
}

// KeyColor returns the current key.
func (k *Keyer) KeyColor() KeyColor { return k.Config().Key }

// SetBaseClip sets the base mask black and white points.
func (k *Keyer) SetBaseClip(black, white float64) {
	k.setClip("base", black, white, func(c *Config, r ClipRange) { c.Base = r })
}

// BaseClip returns the base mask black and white points.
func (k *Keyer) BaseClip() ClipRange { return k.Config().Base }

// SetDetailClip sets the detail mask black and white points.
func (k *Keyer) SetDetailClip(black, white float64) {
	k.setClip("detail", black, white, func(c *Config, r ClipRange) { c.Detail = r })
}

// DetailClip returns the detail mask black and white points.
func (k *Keyer) DetailClip() ClipRange { return k.Config().Detail }

// SetChromaClip sets the chroma mask black and white points.
func (k *Keyer) SetChromaClip(black, white float64) {
	k.setClip("chroma", black, white, func(c *Config, r ClipRange) { c.Chroma = r })
}

// ChromaClip returns the chroma mask black and white points.
func (k *Keyer) ChromaClip() ClipRange { return k.Config().Chroma }

// SetEndClip sets the points applied to the fused mask.
func (k *Keyer) SetEndClip(black, white float64) {
	k.setClip("end", black, white, func(c *Config, r ClipRange) { c.End = r })
}

// EndClip returns the points applied to the fused mask.
func (k *Keyer) EndClip() ClipRange { return k.Config().End }

// SetBaseStrength sets how much of the green/red separation survives; lower
// values darken the base mask.
func (k *Keyer) SetBaseStrength(v float64) {
	k.setFraction("base.strength", v, func(c *Config) { c.BaseStrength = v })
}

func (k *Keyer) BaseStrength() float64 { return k.Config().BaseStrength }

// SetChromaStrength sets the chroma mask offset and gain.
func (k *Keyer) SetChromaStrength(v float64) {
	k.setFraction("chroma.strength", v, func(c *Config) { c.ChromaStrength = v })
}

func (k *Keyer) ChromaStrength() float64 { return k.Config().ChromaStrength }

// SetSpillStrength sets how aggressively key-hued pixels are desaturated.
func (k *Keyer) SetSpillStrength(v float64) {
	k.setFraction("spill.strength", v, func(c *Config) { c.SpillStrength = v })
}

func (k *Keyer) SpillStrength() float64 { return k.Config().SpillStrength }

func (k *Keyer) EnableBaseMask(on bool)   { k.update(func(c *Config) { c.BaseMask = on }) }
func (k *Keyer) BaseMaskEnabled() bool    { return k.Config().BaseMask }
func (k *Keyer) EnableDetailMask(on bool) { k.update(func(c *Config) { c.DetailMask = on }) }
func (k *Keyer) DetailMaskEnabled() bool  { return k.Config().DetailMask }
func (k *Keyer) EnableChromaMask(on bool) { k.update(func(c *Config) { c.ChromaMask = on }) }
func (k *Keyer) ChromaMaskEnabled() bool  { return k.Config().ChromaMask }

func (k *Keyer) EnableSpillSuppression(on bool) {
	k.update(func(c *Config) { c.SpillSuppression = on })
}

func (k *Keyer) SpillSuppressionEnabled() bool { return k.Config().SpillSuppression }

// SetCrop sets all four crop margins.
func (k *Keyer) SetCrop(m core.Margins) {
	k.checkFraction("crop.left", m.Left)
	k.checkFraction("crop.right", m.Right)
	k.checkFraction("crop.top", m.Top)
	k.checkFraction("crop.bottom", m.Bottom)
	k.update(func(c *Config) { c.Crop = m })
}

// Crop returns the crop margins.
func (k *Keyer) Crop() core.Margins { return k.Config().Crop }

func (k *Keyer) SetCropLeft(v float64) {
	k.setFraction("crop.left", v, func(c *Config) { c.Crop.Left = v })
}

func (k *Keyer) SetCropRight(v float64) {
	k.setFraction("crop.right", v, func(c *Config) { c.Crop.Right = v })
}

func (k *Keyer) SetCropTop(v float64) {
	k.setFraction("crop.top", v, func(c *Config) { c.Crop.Top = v })
}

func (k *Keyer) SetCropBottom(v float64) {
	k.setFraction("crop.bottom", v, func(c *Config) { c.Crop.Bottom = v })
}

// SetArithmetic selects wraparound or clamping channel arithmetic.
func (k *Keyer) SetArithmetic(m arith.Mode) {
	k.update(func(c *Config) { c.Arithmetic = m })
	k.logger.WithField("arithmetic", m.String()).Debug("KEYER: Arithmetic mode set")
}

func (k *Keyer) Arithmetic() arith.Mode { return k.Config().Arithmetic }

// SetWorkers sets the number of row bands used by the hue pass.
func (k *Keyer) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	k.update(func(c *Config) { c.Workers = n })
}

func (k *Keyer) Workers() int { return k.Config().Workers }
