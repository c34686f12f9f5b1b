package keyer

import (
	"time"

	"chroma-keyer/internal/core"
)

// Stats summarizes the keyer's work so far.
type Stats struct {
	Frames  uint64
	Skipped uint64

	// Width and Height are the working size of the last keyed frame.
	Width  int
	Height int

	LastDuration time.Duration
	Stages       []StageTiming
}

// Stats returns a copy of the counters.
func (k *Keyer) Stats() Stats {
	k.outMu.RLock()
	defer k.outMu.RUnlock()

	s := k.stats
	s.Stages = append([]StageTiming(nil), k.stats.Stages...)
	return s
}

// plane copies one published buffer. Before the first frame it is empty.
func (k *Keyer) plane(pick func(*outputs) core.Plane) core.Plane {
	k.outMu.RLock()
	defer k.outMu.RUnlock()

	if k.out == nil {
		return core.Plane{}
	}
	return pick(k.out).Clone()
}

// Composite returns the RGBA result of the last keyed frame.
func (k *Keyer) Composite() core.Frame {
	k.outMu.RLock()
	defer k.outMu.RUnlock()

	if k.out == nil {
		return core.Frame{}
	}
	return k.out.composite.Clone()
}

// Size returns the working dimensions of the last keyed frame.
func (k *Keyer) Size() (width, height int) {
	k.outMu.RLock()
	defer k.outMu.RUnlock()

	if k.out == nil {
		return 0, 0
	}
	return k.out.composite.Width, k.out.composite.Height
}

// FinalMask is the alpha channel of Composite.
func (k *Keyer) FinalMask() core.Plane  { return k.plane(func(o *outputs) core.Plane { return o.final }) }
func (k *Keyer) DetailMask() core.Plane { return k.plane(func(o *outputs) core.Plane { return o.detail }) }
func (k *Keyer) BaseMask() core.Plane   { return k.plane(func(o *outputs) core.Plane { return o.base }) }
func (k *Keyer) ChromaMask() core.Plane { return k.plane(func(o *outputs) core.Plane { return o.chroma }) }

// Red, Green and Blue are the color channels of Composite, after spill
// suppression when it is enabled.
func (k *Keyer) Red() core.Plane   { return k.plane(func(o *outputs) core.Plane { return o.red }) }
func (k *Keyer) Green() core.Plane { return k.plane(func(o *outputs) core.Plane { return o.green }) }
func (k *Keyer) Blue() core.Plane  { return k.plane(func(o *outputs) core.Plane { return o.blue }) }

// RedSub, GreenSub and BlueSub are the key-subtracted channels feeding the
// detail mask. They are computed from the channels before spill suppression.
func (k *Keyer) RedSub() core.Plane   { return k.plane(func(o *outputs) core.Plane { return o.redSub }) }
func (k *Keyer) GreenSub() core.Plane { return k.plane(func(o *outputs) core.Plane { return o.greenSub }) }
func (k *Keyer) BlueSub() core.Plane  { return k.plane(func(o *outputs) core.Plane { return o.blueSub }) }
