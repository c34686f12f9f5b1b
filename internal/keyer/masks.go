package keyer

import (
	"github.com/cockroachdb/errors"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/arith"
)

// detailMask builds the key-subtracted channels and, when enabled, their
// clipped sum. The sub-channels are kept even with the mask off.
func (p *pass) detailMask() error {
	mode := p.cfg.Arithmetic
	key := p.cfg.Key

	red, err := mode.SubScalar(p.out.red, key.R)
	if err != nil {
		return errors.Wrap(err, "red sub-channel")
	}
	inverted, err := algorithms.Invert(p.out.green)
	if err != nil {
		return errors.Wrap(err, "green sub-channel")
	}
	green, err := mode.SubScalar(inverted, 255-key.G)
	if err != nil {
		return errors.Wrap(err, "green sub-channel")
	}
	blue, err := mode.SubScalar(p.out.blue, key.B)
	if err != nil {
		return errors.Wrap(err, "blue sub-channel")
	}

	p.out.redSub, p.out.greenSub, p.out.blueSub = red, green, blue

	if !p.cfg.DetailMask {
		p.out.detail = p.constant(255)
		return nil
	}

	sum, err := mode.Add(red, green)
	if err != nil {
		return errors.Wrap(err, "detail mask")
	}
	if sum, err = mode.Add(sum, blue); err != nil {
		return errors.Wrap(err, "detail mask")
	}

	lut := arith.NewLUT(p.cfg.Detail.Black, p.cfg.Detail.White)
	if p.out.detail, err = lut.Apply(sum); err != nil {
		return errors.Wrap(err, "detail mask")
	}
	return nil
}

// baseMask separates green from red, then smooths and closes the result.
func (p *pass) baseMask() error {
	if !p.cfg.BaseMask {
		p.out.base = p.constant(255)
		return nil
	}

	mode := p.cfg.Arithmetic
	diff, err := mode.Sub(p.out.green, p.out.red)
	if err != nil {
		return errors.Wrap(err, "base mask")
	}
	inverted, err := algorithms.Invert(diff)
	if err != nil {
		return errors.Wrap(err, "base mask")
	}
	darkened, err := mode.SubScalar(inverted, arith.Offset(p.cfg.BaseStrength))
	if err != nil {
		return errors.Wrap(err, "base mask")
	}

	lut := arith.NewLUT(p.cfg.Base.Black, p.cfg.Base.White)
	base, err := lut.Apply(darkened)
	if err != nil {
		return errors.Wrap(err, "base mask")
	}

	blurred, err := algorithms.BoxBlur(base, algorithms.MaskBlurSize)
	if err != nil {
		return errors.Wrap(err, "base mask")
	}
	grown, err := algorithms.Dilate(blurred, 1)
	if err != nil {
		return errors.Wrap(err, "base mask")
	}
	closed, err := algorithms.Erode(grown, 1)
	if err != nil {
		return errors.Wrap(err, "base mask")
	}

	p.out.base = closed
	return nil
}
