package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, OutputText, cfg.OutputFormat)
	assert.Equal(t, 500*time.Millisecond, cfg.Cadence.ToneDuration)
	assert.Equal(t, 100*time.Millisecond, cfg.Cadence.PauseDuration)
	assert.Equal(t, 8000, cfg.Cadence.SampleRate)
	assert.Equal(t, "half", cfg.Synth.Amplitude)
	assert.Equal(t, 10.0, cfg.Detector.ToleranceHz)
	assert.Equal(t, "last", cfg.Detector.TieBreak)
	assert.Equal(t, 1, cfg.Decode.Workers)
	assert.Equal(t, 16, cfg.WAV.BitDepth)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtmf-codec.yaml")
	content := `
log_level: debug
output_format: json
cadence:
  tone_duration: 250ms
  pause_duration: 50ms
  sample_rate: 16000
detector:
  tie_break: strongest
  tolerance_hz: 12.5
  peak_selection: top
decode:
  workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 250*time.Millisecond, cfg.Cadence.ToneDuration)
	assert.Equal(t, 50*time.Millisecond, cfg.Cadence.PauseDuration)
	assert.Equal(t, 16000, cfg.Cadence.SampleRate)
	assert.Equal(t, 0.02, cfg.Detector.PeakThreshold)

	codecCfg, err := cfg.CodecConfig()
	require.NoError(t, err)
	assert.Equal(t, dtmf.TieBreakStrongest, codecCfg.Detector.TieBreak)
	assert.Equal(t, dtmf.PeakTop, codecCfg.Detector.PeakSelection)
	assert.Equal(t, 12.5, codecCfg.Detector.Tolerance)
	assert.Equal(t, 4, codecCfg.Workers)
	assert.Equal(t, 4000, codecCfg.Cadence.ToneSamples(16000))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"output format", func(c *Config) { c.OutputFormat = "xml" }},
		{"sample rate", func(c *Config) { c.Cadence.SampleRate = 0 }},
		{"tone duration", func(c *Config) { c.Cadence.ToneDuration = 0 }},
		{"pause duration", func(c *Config) { c.Cadence.PauseDuration = -time.Second }},
		{"amplitude", func(c *Config) { c.Synth.Amplitude = "max" }},
		{"peak level", func(c *Config) { c.Synth.Amplitude = "peak"; c.Synth.PeakLevel = 2 }},
		{"tolerance", func(c *Config) { c.Detector.ToleranceHz = 33 }},
		{"threshold", func(c *Config) { c.Detector.PeakThreshold = -0.1 }},
		{"tie break", func(c *Config) { c.Detector.TieBreak = "first" }},
		{"peak selection", func(c *Config) { c.Detector.PeakSelection = "all" }},
		{"workers", func(c *Config) { c.Decode.Workers = -2 }},
		{"bit depth", func(c *Config) { c.WAV.BitDepth = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("cadence.sample_rate", 44100)
	SetDefaults(v)

	assert.Equal(t, 44100, v.GetInt("cadence.sample_rate"))
	assert.Equal(t, 500*time.Millisecond, v.GetDuration("cadence.tone_duration"))
}
