package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chroma-keyer/internal/core"
	"chroma-keyer/internal/keyer"
	"chroma-keyer/internal/metrics"
)

func newBenchCmd() *cobra.Command {
	var input string
	var frames, workers int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated frame updates on one still frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(input, frames, workers)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input image")
	cmd.Flags().IntVarP(&frames, "frames", "n", 100, "Number of frames to key")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Hue pass row bands (0 keeps the preset value)")
	addKeyFlags(cmd)
	return cmd
}

// benchResult summarizes per-frame durations.
type benchResult struct {
	Frames        int
	Total         time.Duration
	Fastest       time.Duration
	Slowest       time.Duration
	StageAverages map[keyer.Stage]time.Duration
}

func (r benchResult) Average() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Frames)
}

func (r benchResult) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

// benchmark keys frame n times and collects durations from the keyer's stats.
func benchmark(k *keyer.Keyer, frame core.Frame, n int) (benchResult, error) {
	res := benchResult{StageAverages: make(map[keyer.Stage]time.Duration)}
	for i := 0; i < n; i++ {
		if err := k.ProcessFrame(frame); err != nil {
			return res, errors.Wrapf(err, "frame %d", i)
		}
		stats := k.Stats()
		d := stats.LastDuration
		res.Frames++
		res.Total += d
		if res.Fastest == 0 || d < res.Fastest {
			res.Fastest = d
		}
		res.Slowest = max(res.Slowest, d)
		for _, st := range stats.Stages {
			res.StageAverages[st.Stage] += st.Duration
		}
	}
	for stage, d := range res.StageAverages {
		res.StageAverages[stage] = d / time.Duration(max(res.Frames, 1))
	}
	return res, nil
}

func runBench(input string, frames, workers int) error {
	if frames < 1 {
		return errors.Newf("--frames must be at least 1, got %d", frames)
	}
	frame, err := loadInput(input)
	if err != nil {
		return err
	}
	k, err := newKeyer(frame, workers)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Keying frames")
	res, err := benchmark(k, frame, frames)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success("Keyed frames")

	logger.WithFields(logrus.Fields{
		"frames":  res.Frames,
		"workers": k.Workers(),
		"avg_ms":  float64(res.Average().Microseconds()) / 1000,
	}).Debug("Benchmark finished")

	data := pterm.TableData{
		{"frames", "workers", "average", "fastest", "slowest", "fps"},
		{
			pterm.Sprint(res.Frames), pterm.Sprint(k.Workers()),
			res.Average().String(), res.Fastest.String(), res.Slowest.String(),
			pterm.Sprintf("%.1f", res.FPS()),
		},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return errors.Wrap(err, "render bench table")
	}

	stages := pterm.TableData{{"stage", "average"}}
	for _, st := range k.Stats().Stages {
		stages = append(stages, []string{string(st.Stage), res.StageAverages[st.Stage].String()})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(stages).Render()

	if k.Workers() > 1 {
		return compareSequential(k, frame)
	}
	return nil
}

// compareSequential checks that banded output matches a single-band run.
func compareSequential(k *keyer.Keyer, frame core.Frame) error {
	cfg := k.Config()
	cfg.Workers = 1
	seq := keyer.New(keyer.WithLogger(logger), keyer.WithConfig(cfg))
	if err := seq.ProcessFrame(frame); err != nil {
		return err
	}

	psnr, err := metrics.PSNR(seq.FinalMask(), k.FinalMask())
	if err != nil {
		return err
	}
	if psnr < metrics.MaxPSNR {
		pterm.Warning.Printf("Banded mask differs from sequential run (PSNR %.2f dB)\n", psnr)
		return nil
	}
	pterm.Success.Println("Banded mask matches sequential run")
	return nil
}
