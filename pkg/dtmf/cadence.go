package dtmf

import (
	"fmt"
	"time"
)

// Cadence is the timing contract shared by the synthesizer and the framer.
// SampleRate is the synthesis rate; decoding frames a capture at the rate
// recorded with the capture itself.
type Cadence struct {
	ToneDuration  time.Duration `json:"tone_duration" yaml:"tone_duration" mapstructure:"tone_duration"`
	PauseDuration time.Duration `json:"pause_duration" yaml:"pause_duration" mapstructure:"pause_duration"`
	SampleRate    int           `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
}

// DefaultCadence returns 500ms tones separated by 100ms of silence at 8 kHz.
func DefaultCadence() Cadence {
	return Cadence{
		ToneDuration:  500 * time.Millisecond,
		PauseDuration: 100 * time.Millisecond,
		SampleRate:    8000,
	}
}

// Validate checks that the cadence yields at least one tone sample.
func (c Cadence) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidCadence, c.SampleRate)
	}
	if c.ToneDuration <= 0 {
		return fmt.Errorf("%w: tone duration must be positive, got %s", ErrInvalidCadence, c.ToneDuration)
	}
	if c.PauseDuration < 0 {
		return fmt.Errorf("%w: pause duration cannot be negative, got %s", ErrInvalidCadence, c.PauseDuration)
	}
	if c.ToneSamples(c.SampleRate) < 1 {
		return fmt.Errorf("%w: tone duration %s is shorter than one sample at %d Hz",
			ErrInvalidCadence, c.ToneDuration, c.SampleRate)
	}
	return nil
}

// ToneSamples is the number of samples in one tone at the given rate.
func (c Cadence) ToneSamples(sampleRate int) int {
	return samplesFor(c.ToneDuration, sampleRate)
}

// PauseSamples is the number of silent samples after each tone.
func (c Cadence) PauseSamples(sampleRate int) int {
	return samplesFor(c.PauseDuration, sampleRate)
}

// StepSamples is the distance between the starts of consecutive tones.
func (c Cadence) StepSamples(sampleRate int) int {
	return c.ToneSamples(sampleRate) + c.PauseSamples(sampleRate)
}

// samplesFor truncates like int(rate * seconds) without float rounding error.
func samplesFor(d time.Duration, sampleRate int) int {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}
