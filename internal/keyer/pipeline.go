package keyer

import (
	"time"

	"github.com/cockroachdb/errors"

	"chroma-keyer/internal/algorithms"
	"chroma-keyer/internal/core"
)

// Stage names one step of the per-frame pipeline.
type Stage string

const (
	StageSplit     Stage = "split"
	StageDetail    Stage = "detail"
	StageBase      Stage = "base"
	StageHue       Stage = "hue"
	StageFusion    Stage = "fusion"
	StageComposite Stage = "composite"
)

// StageTiming records how long one stage took on the last keyed frame.
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

// outputs is everything one frame produces. It is immutable once published.
type outputs struct {
	red, green, blue          core.Plane
	redSub, greenSub, blueSub core.Plane

	detail core.Plane
	base   core.Plane
	chroma core.Plane
	final  core.Plane

	composite core.Frame
	timings   []StageTiming
}

// pass carries the state of a single frame through the stages.
type pass struct {
	cfg   Config
	input core.Frame
	out   *outputs
}

func process(input core.Frame, cfg Config) (*outputs, error) {
	p := &pass{cfg: cfg, input: input, out: &outputs{}}

	steps := []struct {
		stage Stage
		run   func() error
	}{
		{StageSplit, p.split},
		{StageDetail, p.detailMask},
		{StageBase, p.baseMask},
		{StageHue, p.huePass},
		{StageFusion, p.fuse},
		{StageComposite, p.merge},
	}

	for _, step := range steps {
		start := time.Now()
		if err := step.run(); err != nil {
			return nil, errors.Wrapf(err, "%s stage", step.stage)
		}
		p.out.timings = append(p.out.timings, StageTiming{Stage: step.stage, Duration: time.Since(start)})
	}
	return p.out, nil
}

func (p *pass) split() error {
	ch, err := algorithms.Split(p.input)
	if err != nil {
		return err
	}
	p.out.red, p.out.green, p.out.blue = ch[0], ch[1], ch[2]
	return nil
}

func (p *pass) constant(v uint8) core.Plane {
	return core.FilledPlane(p.input.Width, p.input.Height, v)
}
