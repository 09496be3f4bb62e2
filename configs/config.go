package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/dtmf-codec/pkg/codec"
	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
	"github.com/RyanBlaney/dtmf-codec/pkg/wavio"
)

// Output formats understood by the decode command.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format"`

	// Timing contract shared by encode and decode
	Cadence CadenceConfig `mapstructure:"cadence" yaml:"cadence" json:"cadence"`

	// Tone generation
	Synth SynthConfig `mapstructure:"synth" yaml:"synth" json:"synth"`

	// Spectral detection
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Decode pipeline
	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`

	// WAV output
	WAV WAVConfig `mapstructure:"wav" yaml:"wav" json:"wav"`

	// Prometheus textfile export
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// CadenceConfig contains tone timing settings
type CadenceConfig struct {
	ToneDuration  time.Duration `mapstructure:"tone_duration" yaml:"tone_duration" json:"tone_duration"`
	PauseDuration time.Duration `mapstructure:"pause_duration" yaml:"pause_duration" json:"pause_duration"`
	SampleRate    int           `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
}

// SynthConfig contains tone generation settings
type SynthConfig struct {
	Amplitude string  `mapstructure:"amplitude" yaml:"amplitude" json:"amplitude"`
	PeakLevel float64 `mapstructure:"peak_level" yaml:"peak_level" json:"peak_level"`
}

// DetectorConfig contains spectral detection settings
type DetectorConfig struct {
	PeakThreshold float64 `mapstructure:"peak_threshold" yaml:"peak_threshold" json:"peak_threshold"`
	ToleranceHz   float64 `mapstructure:"tolerance_hz" yaml:"tolerance_hz" json:"tolerance_hz"`
	TieBreak      string  `mapstructure:"tie_break" yaml:"tie_break" json:"tie_break"`
	PeakSelection string  `mapstructure:"peak_selection" yaml:"peak_selection" json:"peak_selection"`
}

// DecodeConfig contains decode pipeline settings
type DecodeConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// WAVConfig contains WAV serialization settings
type WAVConfig struct {
	BitDepth int `mapstructure:"bit_depth" yaml:"bit_depth" json:"bit_depth"`
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file" json:"file"`
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v, filling unset keys with defaults
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.OutputFormat {
	case OutputText, OutputJSON, OutputYAML, OutputTable:
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}

	if err := c.Cadence.ToCadence().Validate(); err != nil {
		return err
	}

	if _, err := c.Synth.ToSynthConfig(); err != nil {
		return err
	}

	detector, err := c.Detector.ToDetectorConfig()
	if err != nil {
		return err
	}
	if err := detector.Validate(); err != nil {
		return err
	}

	if c.Decode.Workers < 0 {
		return fmt.Errorf("decode workers cannot be negative")
	}

	if !wavio.SupportedBitDepth(c.WAV.BitDepth) {
		return fmt.Errorf("unsupported wav bit depth %d (want 16, 24 or 32)", c.WAV.BitDepth)
	}

	return nil
}

// ToCadence converts to the codec cadence
func (c CadenceConfig) ToCadence() dtmf.Cadence {
	return dtmf.Cadence{
		ToneDuration:  c.ToneDuration,
		PauseDuration: c.PauseDuration,
		SampleRate:    c.SampleRate,
	}
}

// ToSynthConfig converts to the synthesizer settings
func (c SynthConfig) ToSynthConfig() (dtmf.SynthConfig, error) {
	policy, err := dtmf.ParseAmplitudePolicy(c.Amplitude)
	if err != nil {
		return dtmf.SynthConfig{}, err
	}
	if policy == dtmf.AmplitudePeak && (c.PeakLevel <= 0 || c.PeakLevel > 1) {
		return dtmf.SynthConfig{}, fmt.Errorf("peak level must be in (0, 1], got %g", c.PeakLevel)
	}
	return dtmf.SynthConfig{Amplitude: policy, PeakLevel: c.PeakLevel}, nil
}

// ToDetectorConfig converts to the detector settings
func (c DetectorConfig) ToDetectorConfig() (dtmf.DetectorConfig, error) {
	tieBreak, err := dtmf.ParseTieBreak(c.TieBreak)
	if err != nil {
		return dtmf.DetectorConfig{}, err
	}
	selection, err := dtmf.ParsePeakSelection(c.PeakSelection)
	if err != nil {
		return dtmf.DetectorConfig{}, err
	}
	return dtmf.DetectorConfig{
		PeakThreshold: c.PeakThreshold,
		Tolerance:     c.ToleranceHz,
		TieBreak:      tieBreak,
		PeakSelection: selection,
	}, nil
}

// CodecConfig assembles the pipeline configuration
func (c *Config) CodecConfig() (codec.Config, error) {
	synth, err := c.Synth.ToSynthConfig()
	if err != nil {
		return codec.Config{}, err
	}
	detector, err := c.Detector.ToDetectorConfig()
	if err != nil {
		return codec.Config{}, err
	}

	return codec.Config{
		Cadence:  c.Cadence.ToCadence(),
		Synth:    synth,
		Detector: detector,
		Workers:  c.Decode.Workers,
	}, nil
}
