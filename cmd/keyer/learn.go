package main

import (
	"image"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"chroma-keyer/internal/keyer"
)

func newLearnCmd() *cobra.Command {
	var input, sample string

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Average a background sample into a key color",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLearn(input, sample)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input image")
	cmd.Flags().StringVarP(&sample, "sample", "s", "", "Rectangle x,y,w,h to average (default: whole frame)")
	return cmd
}

func runLearn(input, sample string) error {
	frame, err := loadInput(input)
	if err != nil {
		return err
	}

	region := image.Rect(0, 0, frame.Width, frame.Height)
	if sample != "" {
		if region, err = parseSample(sample); err != nil {
			return err
		}
	}

	k := keyer.New(keyer.WithLogger(logger))
	key, err := k.LearnKeyColor(frame.Pix, frame.Width, frame.Height, region)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Key color %d,%d,%d (%s), hue %.1f°\n", key.R, key.G, key.B, key.Hex(), key.Hue()*360)
	pterm.Info.Printf("Use it with --key %s or key_color: \"%s\" in a preset\n", key.Hex(), key.Hex())
	return nil
}
