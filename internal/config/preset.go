// Keyer presets loaded from files and KEYER_* environment variables
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"chroma-keyer/internal/arith"
	"chroma-keyer/internal/core"
	"chroma-keyer/internal/keyer"
)

// EnvPrefix namespaces environment overrides, e.g. KEYER_BASE_CLIP_BLACK.
const EnvPrefix = "KEYER"

// ErrKeyColor reports a key color that is neither "r,g,b" nor "#rrggbb".
var ErrKeyColor = errors.New("invalid key color")

// Preset mirrors keyer.Config in file form.
type Preset struct {
	KeyColor   string      `mapstructure:"key_color"`
	Base       MaskPreset  `mapstructure:"base"`
	Detail     MaskPreset  `mapstructure:"detail"`
	Chroma     MaskPreset  `mapstructure:"chroma"`
	Spill      SpillPreset `mapstructure:"spill"`
	End        ClipPreset  `mapstructure:"end"`
	Crop       CropPreset  `mapstructure:"crop"`
	Arithmetic string      `mapstructure:"arithmetic"`
	Workers    int         `mapstructure:"workers"`
}

// MaskPreset configures one mask generator. Strength is unused by the
// detail mask.
type MaskPreset struct {
	Enabled   bool    `mapstructure:"enabled"`
	ClipBlack float64 `mapstructure:"clip_black"`
	ClipWhite float64 `mapstructure:"clip_white"`
	Strength  float64 `mapstructure:"strength"`
}

type SpillPreset struct {
	Enabled  bool    `mapstructure:"enabled"`
	Strength float64 `mapstructure:"strength"`
}

type ClipPreset struct {
	ClipBlack float64 `mapstructure:"clip_black"`
	ClipWhite float64 `mapstructure:"clip_white"`
}

type CropPreset struct {
	Left   float64 `mapstructure:"left"`
	Right  float64 `mapstructure:"right"`
	Top    float64 `mapstructure:"top"`
	Bottom float64 `mapstructure:"bottom"`
}

// SetDefaults configures default values for all preset keys
func SetDefaults(v *viper.Viper) {
	d := keyer.DefaultConfig()

	v.SetDefault("key_color", fmt.Sprintf("%d,%d,%d", d.Key.R, d.Key.G, d.Key.B))

	v.SetDefault("base.enabled", d.BaseMask)
	v.SetDefault("base.clip_black", d.Base.Black)
	v.SetDefault("base.clip_white", d.Base.White)
	v.SetDefault("base.strength", d.BaseStrength)

	v.SetDefault("detail.enabled", d.DetailMask)
	v.SetDefault("detail.clip_black", d.Detail.Black)
	v.SetDefault("detail.clip_white", d.Detail.White)

	v.SetDefault("chroma.enabled", d.ChromaMask)
	v.SetDefault("chroma.clip_black", d.Chroma.Black)
	v.SetDefault("chroma.clip_white", d.Chroma.White)
	v.SetDefault("chroma.strength", d.ChromaStrength)

	v.SetDefault("spill.enabled", d.SpillSuppression)
	v.SetDefault("spill.strength", d.SpillStrength)

	v.SetDefault("end.clip_black", d.End.Black)
	v.SetDefault("end.clip_white", d.End.White)

	v.SetDefault("crop.left", d.Crop.Left)
	v.SetDefault("crop.right", d.Crop.Right)
	v.SetDefault("crop.top", d.Crop.Top)
	v.SetDefault("crop.bottom", d.Crop.Bottom)

	v.SetDefault("arithmetic", d.Arithmetic.String())
	v.SetDefault("workers", d.Workers)
}

// NewViper builds a viper instance with defaults and environment binding.
// A non-empty path is read as a preset file; its type follows the extension.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read preset %s", path)
		}
	}
	return v, nil
}

// Load reads a preset (or only defaults and environment when path is empty)
// into a keyer configuration.
func Load(path string) (keyer.Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return keyer.Config{}, err
	}
	return LoadWithViper(v)
}

// LoadWithViper converts an already populated viper instance.
func LoadWithViper(v *viper.Viper) (keyer.Config, error) {
	var p Preset
	if err := v.Unmarshal(&p); err != nil {
		return keyer.Config{}, errors.Wrap(err, "failed to unmarshal preset")
	}
	return p.KeyerConfig()
}

// KeyerConfig validates the textual fields and builds the pipeline config.
func (p Preset) KeyerConfig() (keyer.Config, error) {
	key, err := ParseKeyColor(p.KeyColor)
	if err != nil {
		return keyer.Config{}, err
	}
	mode, err := arith.ParseMode(p.Arithmetic)
	if err != nil {
		return keyer.Config{}, errors.Wrap(err, "arithmetic")
	}

	return keyer.Config{
		Key: key,

		Base:   keyer.ClipRange{Black: p.Base.ClipBlack, White: p.Base.ClipWhite},
		Detail: keyer.ClipRange{Black: p.Detail.ClipBlack, White: p.Detail.ClipWhite},
		Chroma: keyer.ClipRange{Black: p.Chroma.ClipBlack, White: p.Chroma.ClipWhite},
		End:    keyer.ClipRange{Black: p.End.ClipBlack, White: p.End.ClipWhite},

		BaseStrength:   p.Base.Strength,
		ChromaStrength: p.Chroma.Strength,
		SpillStrength:  p.Spill.Strength,

		BaseMask:         p.Base.Enabled,
		DetailMask:       p.Detail.Enabled,
		ChromaMask:       p.Chroma.Enabled,
		SpillSuppression: p.Spill.Enabled,

		Crop: core.Margins{
			Left:   p.Crop.Left,
			Right:  p.Crop.Right,
			Top:    p.Crop.Top,
			Bottom: p.Crop.Bottom,
		},

		Arithmetic: mode,
		Workers:    max(p.Workers, 1),
	}, nil
}

// ParseKeyColor accepts "r,g,b" with components in [0,255] or a "#rrggbb"
// hex string.
func ParseKeyColor(s string) (keyer.KeyColor, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return keyer.KeyColor{}, errors.Wrapf(ErrKeyColor, "%q", s)
		}
		return keyer.KeyColorOf(c), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return keyer.KeyColor{}, errors.WithHint(
			errors.Wrapf(ErrKeyColor, "%q", s),
			"write the key as r,g,b or #rrggbb")
	}

	var rgb [3]uint8
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return keyer.KeyColor{}, errors.Wrapf(ErrKeyColor, "%q: component %d", s, i+1)
		}
		rgb[i] = uint8(n)
	}
	return keyer.KeyColor{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
