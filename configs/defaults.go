package configs

import (
	"github.com/spf13/viper"

	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
)

// SetDefaults sets default configuration values for every key that is not
// already set on v
func SetDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	// Application defaults
	setDefault(v, "verbose", defaults.Verbose)
	setDefault(v, "log_level", defaults.LogLevel)
	setDefault(v, "output_format", defaults.OutputFormat)

	// Cadence defaults
	setDefault(v, "cadence.tone_duration", defaults.Cadence.ToneDuration)
	setDefault(v, "cadence.pause_duration", defaults.Cadence.PauseDuration)
	setDefault(v, "cadence.sample_rate", defaults.Cadence.SampleRate)

	// Synthesis defaults
	setDefault(v, "synth.amplitude", defaults.Synth.Amplitude)
	setDefault(v, "synth.peak_level", defaults.Synth.PeakLevel)

	// Detector defaults
	setDefault(v, "detector.peak_threshold", defaults.Detector.PeakThreshold)
	setDefault(v, "detector.tolerance_hz", defaults.Detector.ToleranceHz)
	setDefault(v, "detector.tie_break", defaults.Detector.TieBreak)
	setDefault(v, "detector.peak_selection", defaults.Detector.PeakSelection)

	// Pipeline and output defaults
	setDefault(v, "decode.workers", defaults.Decode.Workers)
	setDefault(v, "wav.bit_depth", defaults.WAV.BitDepth)
	setDefault(v, "metrics.file", defaults.Metrics.File)
}

func setDefault(v *viper.Viper, key string, value any) {
	if !v.IsSet(key) {
		v.SetDefault(key, value)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	cadence := dtmf.DefaultCadence()
	synth := dtmf.DefaultSynthConfig()
	detector := dtmf.DefaultDetectorConfig()

	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: OutputText,
		Cadence: CadenceConfig{
			ToneDuration:  cadence.ToneDuration,
			PauseDuration: cadence.PauseDuration,
			SampleRate:    cadence.SampleRate,
		},
		Synth: SynthConfig{
			Amplitude: string(synth.Amplitude),
			PeakLevel: synth.PeakLevel,
		},
		Detector: DetectorConfig{
			PeakThreshold: detector.PeakThreshold,
			ToleranceHz:   detector.Tolerance,
			TieBreak:      string(detector.TieBreak),
			PeakSelection: string(detector.PeakSelection),
		},
		Decode:  DecodeConfig{Workers: 1},
		WAV:     WAVConfig{BitDepth: 16},
		Metrics: MetricsConfig{},
	}
}
