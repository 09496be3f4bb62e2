package dtmf

import "time"

// Signal is a mono sample buffer with its sample rate.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// NewSignal wraps samples recorded at sampleRate.
func NewSignal(samples []float64, sampleRate int) *Signal {
	return &Signal{Samples: samples, SampleRate: sampleRate}
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

// Duration returns the playback length of the signal.
func (s *Signal) Duration() time.Duration {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// Frame is a tone-length window of a Signal starting at Offset. Samples
// aliases the signal's buffer and must not be modified.
type Frame struct {
	Offset  int
	Samples []float64
}
