package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"chroma-keyer/internal/core"
	imageio "chroma-keyer/internal/io"
	"chroma-keyer/internal/keyer"
	"chroma-keyer/internal/metrics"
)

func newInspectCmd() *cobra.Command {
	var input, output, preview, maskDir string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Key one still frame and report on its masks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(input, output, preview, maskDir)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input image")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the RGBA composite here (png or tiff keep alpha)")
	cmd.Flags().StringVar(&preview, "preview", "", "Write the composite flattened over a checkerboard here")
	cmd.Flags().StringVar(&maskDir, "masks", "", "Write every mask as a grayscale png into this directory")
	addKeyFlags(cmd)
	return cmd
}

func runInspect(input, output, preview, maskDir string) error {
	frame, err := loadInput(input)
	if err != nil {
		return err
	}
	k, err := newKeyer(frame, 0)
	if err != nil {
		return err
	}
	if err := k.ProcessFrame(frame); err != nil {
		return err
	}

	cfg := k.Config()
	w, h := k.Size()
	pterm.DefaultSection.Println("Keyed " + input)
	pterm.Printf("Key color %s (hue %.1f°), %s arithmetic, working region %dx%d\n",
		cfg.Key.Hex(), cfg.Key.Hue()*360, cfg.Arithmetic, w, h)

	masks := []struct {
		name  string
		plane core.Plane
	}{
		{"final", k.FinalMask()},
		{"base", k.BaseMask()},
		{"detail", k.DetailMask()},
		{"chroma", k.ChromaMask()},
	}

	evaluator := metrics.NewEvaluator()
	names := evaluator.Names()
	data := pterm.TableData{append([]string{"mask"}, names...)}
	for _, m := range masks {
		values := evaluator.CalculateAll(m.plane)
		row := []string{m.name}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.3f", values[name]))
		}
		data = append(data, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return errors.Wrap(err, "render mask table")
	}

	report := evaluator.GenerateReport(masks[0].plane)
	for i, issue := range report.Issues {
		pterm.Warning.Println(issue)
		pterm.Info.Println(report.Suggestions[i])
	}

	printStages(k.Stats())

	loader := imageio.NewImageLoader(logger)
	if output != "" {
		if err := loader.SaveFrame(k.Composite(), output); err != nil {
			return err
		}
		pterm.Success.Printf("Composite written to %s\n", output)
	}
	if preview != "" {
		flat, err := core.Preview(k.Composite(), core.DefaultCheckerSize)
		if err != nil {
			return err
		}
		if err := loader.SaveFrame(flat, preview); err != nil {
			return err
		}
		pterm.Success.Printf("Preview written to %s\n", preview)
	}
	if maskDir != "" {
		if err := os.MkdirAll(maskDir, 0o755); err != nil {
			return errors.Wrap(err, "create mask directory")
		}
		for _, m := range masks {
			if err := loader.SaveMask(m.plane, filepath.Join(maskDir, m.name+".png")); err != nil {
				return err
			}
		}
		pterm.Success.Printf("Masks written to %s\n", maskDir)
	}
	return nil
}

func printStages(stats keyer.Stats) {
	data := pterm.TableData{{"stage", "duration"}}
	for _, s := range stats.Stages {
		data = append(data, []string{string(s.Stage), s.Duration.String()})
	}
	data = append(data, []string{"total", stats.LastDuration.String()})
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
