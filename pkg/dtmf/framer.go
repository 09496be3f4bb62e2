package dtmf

import (
	"fmt"
	"iter"
)

// Framer cuts a capture into tone windows on the cadence grid. The pause
// between windows is never analyzed.
type Framer struct {
	toneSamples int
	stepSamples int
}

// NewFramer builds a framer for a capture recorded at sampleRate.
func NewFramer(c Cadence, sampleRate int) (*Framer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	c.SampleRate = sampleRate
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Framer{
		toneSamples: c.ToneSamples(sampleRate),
		stepSamples: c.StepSamples(sampleRate),
	}, nil
}

// ToneSamples returns the window length.
func (f *Framer) ToneSamples() int {
	return f.toneSamples
}

// StepSamples returns the window stride.
func (f *Framer) StepSamples() int {
	return f.stepSamples
}

// Count returns how many complete windows fit in length samples.
func (f *Framer) Count(length int) int {
	if length < f.toneSamples {
		return 0
	}
	return (length-f.toneSamples)/f.stepSamples + 1
}

// Frames yields every complete window of samples in offset order. A trailing
// partial tone is dropped. The sequence can be ranged over more than once.
func (f *Framer) Frames(samples []float64) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for offset := 0; offset+f.toneSamples <= len(samples); offset += f.stepSamples {
			frame := Frame{
				Offset:  offset,
				Samples: samples[offset : offset+f.toneSamples : offset+f.toneSamples],
			}
			if !yield(frame) {
				return
			}
		}
	}
}
