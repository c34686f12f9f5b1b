package keyer

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/arith"
	"chroma-keyer/internal/core"
)

// HueAffinity is the chroma response sin(2π(keyHue+0.25-hue)) for hues
// normalized to [0,1). It is 1 when hue equals keyHue and -1 when the two are
// half a turn apart.
func HueAffinity(keyHue, hue float64) float64 {
	return math.Sin(2 * math.Pi * (keyHue + 0.25 - hue))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// hueTables caches, for every 8-bit hue, the chroma precursor and the
// saturation factor applied by spill suppression. Both truncate toward zero
// when stored as bytes.
type hueTables struct {
	precursor [256]uint8
	keep      [256]float64
}

func newHueTables(keyHue, spillStrength float64) *hueTables {
	t := &hueTables{}
	amount := 4 * spillStrength
	for h := range t.precursor {
		f := HueAffinity(keyHue, float64(h)/algorithms.HueRange)
		t.precursor[h] = uint8(clamp01(f) * 255)
		t.keep[h] = 1 - clamp01(f*amount)
	}
	return t
}

// huePass walks the HSV image once, filling the chroma precursor and
// desaturating key-colored pixels in place, then finishes both stages. Only
// pixels whose saturation changed take the converted color back; the rest
// keep their exact input channels.
func (p *pass) huePass() error {
	if !p.cfg.needsHuePass() {
		p.out.chroma = p.constant(255)
		return nil
	}

	hsv, err := algorithms.RGBToHSV(p.input)
	if err != nil {
		return errors.Wrap(err, "hue pass")
	}

	w, h := p.input.Width, p.input.Height
	tables := newHueTables(p.cfg.Key.Hue(), p.cfg.SpillStrength)
	chroma, spill := p.cfg.ChromaMask, p.cfg.SpillSuppression

	var precursor core.Plane
	if chroma {
		precursor = core.NewPlane(w, h)
	}
	var desaturated []bool
	if spill {
		desaturated = make([]bool, w*h)
	}

	err = bands(h, p.cfg.Workers, func(y0, y1 int) {
		for i := y0 * w; i < y1*w; i++ {
			hue := hsv.Pix[i*3]
			if chroma {
				precursor.Pix[i] = tables.precursor[hue]
			}
			if spill {
				s := &hsv.Pix[i*3+1]
				if v := uint8(float64(*s) * tables.keep[hue]); v != *s {
					*s = v
					desaturated[i] = true
				}
			}
		}
	})
	if err != nil {
		return errors.Wrap(err, "hue pass")
	}

	if chroma {
		if p.out.chroma, err = p.chromaMask(precursor); err != nil {
			return err
		}
	} else {
		p.out.chroma = p.constant(255)
	}

	if spill {
		return p.suppressSpill(hsv, desaturated)
	}
	return nil
}

// suppressSpill writes the RGB of every desaturated pixel back into the
// color planes.
func (p *pass) suppressSpill(hsv core.Frame, desaturated []bool) error {
	rgb, err := algorithms.HSVToRGB(hsv)
	if err != nil {
		return errors.Wrap(err, "spill suppression")
	}

	planes := [3]core.Plane{p.out.red, p.out.green, p.out.blue}
	for i, changed := range desaturated {
		if !changed {
			continue
		}
		for c := range planes {
			planes[c].Pix[i] = rgb.Pix[i*3+c]
		}
	}
	return nil
}

func (p *pass) chromaMask(precursor core.Plane) (core.Plane, error) {
	inverted, err := algorithms.Invert(precursor)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, "chroma mask")
	}
	blurred, err := algorithms.BoxBlur(inverted, algorithms.MaskBlurSize)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, "chroma mask")
	}
	darkened, err := p.cfg.Arithmetic.SubScalar(blurred, arith.Offset(p.cfg.ChromaStrength))
	if err != nil {
		return core.Plane{}, errors.Wrap(err, "chroma mask")
	}
	scaled, err := algorithms.Scale(darkened, p.cfg.ChromaStrength)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, "chroma mask")
	}

	lut := arith.NewLUT(p.cfg.Chroma.Black, p.cfg.Chroma.White)
	mask, err := lut.Apply(scaled)
	if err != nil {
		return core.Plane{}, errors.Wrap(err, "chroma mask")
	}
	return mask, nil
}

// bands runs fn over [0,rows) split into contiguous row ranges, one goroutine
// per range. Fewer than two workers runs fn inline.
func bands(rows, workers int, fn func(y0, y1 int)) error {
	if workers < 2 || rows < 2 {
		fn(0, rows)
		return nil
	}

	workers = min(workers, rows)
	step := (rows + workers - 1) / workers

	var g errgroup.Group
	for y0 := 0; y0 < rows; y0 += step {
		y1 := min(y0+step, rows)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	return g.Wait()
}
