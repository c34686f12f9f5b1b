package main

import (
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chroma-keyer/internal/config"
	"chroma-keyer/internal/core"
	imageio "chroma-keyer/internal/io"
	"chroma-keyer/internal/keyer"
)

var (
	debugMode  bool
	presetPath string
	keyFlag    string
	sampleFlag string

	logger = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "keyer",
	Short:   "Chroma keyer",
	Long:    `Removes a green (or any key color) screen from still frames and reports on the resulting alpha masks.`,
	Version: AppVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = initLogger(debugMode)
		logger.WithFields(logrus.Fields{
			"version":    AppVersion,
			"debug_mode": debugMode,
			"command":    cmd.Name(),
		}).Debug("Starting chroma keyer")
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose logging")
	rootCmd.PersistentFlags().StringVarP(&presetPath, "preset", "p", "", "Preset file (yaml, toml or json); KEYER_* variables override it")

	rootCmd.AddCommand(newInspectCmd(), newLearnCmd(), newBenchCmd())
}

// addKeyFlags registers the flags shared by commands that key frames.
func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&keyFlag, "key", "k", "", "Key color as r,g,b or #rrggbb (overrides the preset)")
	cmd.Flags().StringVarP(&sampleFlag, "sample", "s", "", "Learn the key from the rectangle x,y,w,h of the input")
}

// loadInput reads the still frame named by path.
func loadInput(path string) (core.Frame, error) {
	if path == "" {
		return core.Frame{}, errors.WithHint(errors.New("no input image"),
			"pass --input <file> in one of "+strings.Join(imageio.GetSupportedFormats(), ", "))
	}
	return imageio.NewImageLoader(logger).LoadFrame(path)
}

// newKeyer builds a keyer from the preset, then applies --key and --sample.
func newKeyer(frame core.Frame, workers int) (*keyer.Keyer, error) {
	cfg, err := config.Load(presetPath)
	if err != nil {
		return nil, err
	}
	if keyFlag != "" {
		if cfg.Key, err = config.ParseKeyColor(keyFlag); err != nil {
			return nil, err
		}
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	k := keyer.New(keyer.WithLogger(logger), keyer.WithConfig(cfg))

	if sampleFlag != "" {
		sample, err := parseSample(sampleFlag)
		if err != nil {
			return nil, err
		}
		if _, err := k.LearnKeyColor(frame.Pix, frame.Width, frame.Height, sample); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// parseSample reads "x,y,w,h" into a rectangle.
func parseSample(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, errors.WithHint(
			errors.Newf("invalid sample %q", s),
			"write the sample as x,y,width,height in pixels")
	}

	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return image.Rectangle{}, errors.Wrapf(err, "invalid sample %q", s)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, errors.Newf("invalid sample %q: width and height must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
