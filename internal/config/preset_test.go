package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chroma-keyer/internal/arith"
	"chroma-keyer/internal/core"
	"chroma-keyer/internal/keyer"
)

func writePreset(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, keyer.DefaultConfig(), cfg)
}

func TestLoadYAMLPreset(t *testing.T) {
	path := writePreset(t, "studio.yaml", `
key_color: "#1ec832"
base:
  clip_black: 0.25
  strength: 0.5
detail:
  enabled: false
spill:
  strength: 0.1
crop:
  left: 0.1
  right: 0.15
arithmetic: saturating
workers: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, keyer.KeyColor{R: 30, G: 200, B: 50}, cfg.Key)
	assert.Equal(t, keyer.ClipRange{Black: .25, White: .6}, cfg.Base)
	assert.Equal(t, .5, cfg.BaseStrength)
	assert.False(t, cfg.DetailMask)
	assert.True(t, cfg.ChromaMask, "unset keys keep defaults")
	assert.Equal(t, .1, cfg.SpillStrength)
	assert.Equal(t, core.Margins{Left: .1, Right: .15}, cfg.Crop)
	assert.Equal(t, arith.Saturating, cfg.Arithmetic)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadTOMLPreset(t *testing.T) {
	path := writePreset(t, "studio.toml", `
key_color = "10, 180, 40"

[end]
clip_black = 0.2
clip_white = 0.7
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, keyer.KeyColor{R: 10, G: 180, B: 40}, cfg.Key)
	assert.Equal(t, keyer.ClipRange{Black: .2, White: .7}, cfg.End)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writePreset(t, "studio.yaml", "chroma:\n  strength: 0.2\n")
	t.Setenv("KEYER_CHROMA_STRENGTH", "0.9")
	t.Setenv("KEYER_SPILL_ENABLED", "false")
	t.Setenv("KEYER_KEY_COLOR", "1,2,3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, .9, cfg.ChromaStrength)
	assert.False(t, cfg.SpillSuppression)
	assert.Equal(t, keyer.KeyColor{R: 1, G: 2, B: 3}, cfg.Key)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writePreset(t, "bad.yaml", "arithmetic: fuzzy\n"))
	assert.ErrorIs(t, err, arith.ErrUnknownMode)

	_, err = Load(writePreset(t, "bad.yaml", "key_color: green\n"))
	assert.ErrorIs(t, err, ErrKeyColor)
}

func TestWorkersFloor(t *testing.T) {
	cfg, err := Load(writePreset(t, "w.yaml", "workers: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}

func TestParseKeyColor(t *testing.T) {
	tests := []struct {
		in      string
		want    keyer.KeyColor
		wantErr bool
	}{
		{"20,200,20", keyer.DefaultKeyColor, false},
		{" 0, 255 ,7 ", keyer.KeyColor{R: 0, G: 255, B: 7}, false},
		{"#14C814", keyer.DefaultKeyColor, false},
		{"#ffffff", keyer.KeyColor{R: 255, G: 255, B: 255}, false},
		{"256,0,0", keyer.KeyColor{}, true},
		{"1,2", keyer.KeyColor{}, true},
		{"#zzzzzz", keyer.KeyColor{}, true},
		{"", keyer.KeyColor{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrKeyColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
