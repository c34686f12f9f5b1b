package keyer

import (
	"github.com/cockroachdb/errors"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/arith"
	"chroma-keyer/internal/core"
)

// fuse sums the enabled masks in a fixed order (base, detail, chroma) and
// clips the result once with the end pair. With every mask off the alpha is
// a constant 255.
func (p *pass) fuse() error {
	if !p.cfg.AnyMask() {
		p.out.final = p.constant(255)
		return nil
	}

	enabled := make([]core.Plane, 0, 3)
	if p.cfg.BaseMask {
		enabled = append(enabled, p.out.base)
	}
	if p.cfg.DetailMask {
		enabled = append(enabled, p.out.detail)
	}
	if p.cfg.ChromaMask {
		enabled = append(enabled, p.out.chroma)
	}

	sum := enabled[0]
	for _, m := range enabled[1:] {
		var err error
		if sum, err = p.cfg.Arithmetic.Add(sum, m); err != nil {
			return errors.Wrap(err, "fuse masks")
		}
	}

	lut := arith.NewLUT(p.cfg.End.Black, p.cfg.End.White)
	final, err := lut.Apply(sum)
	if err != nil {
		return errors.Wrap(err, "fuse masks")
	}
	p.out.final = final
	return nil
}

// merge interleaves the (possibly spill-corrected) color channels with the
// fused alpha.
func (p *pass) merge() error {
	composite, err := algorithms.Merge(p.out.red, p.out.green, p.out.blue, p.out.final)
	if err != nil {
		return errors.Wrap(err, "composite")
	}
	p.out.composite = composite
	return nil
}
