// Package metrics exposes Prometheus collectors for codec activity. The CLI
// exports them as a node_exporter textfile after each run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame result label values.
const (
	ResultResolved   = "resolved"
	ResultUnresolved = "unresolved"
)

// Metrics contains the codec collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Encode path
	SymbolsEncoded prometheus.Counter
	SymbolsSkipped prometheus.Counter
	SamplesEncoded prometheus.Counter
	EncodeDuration prometheus.Histogram

	// Decode path
	FramesDecoded  *prometheus.CounterVec
	SamplesDecoded prometheus.Counter
	DecodeDuration prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers the collectors on reg.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SymbolsEncoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_symbols_encoded_total",
			Help: "Total number of keypad symbols rendered as tones",
		}),
		SymbolsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_symbols_skipped_total",
			Help: "Total number of input characters skipped because they are not on the keypad",
		}),
		SamplesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_samples_encoded_total",
			Help: "Total number of samples produced by the synthesizer",
		}),
		EncodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dtmf_encode_duration_seconds",
			Help:    "Time spent encoding a symbol sequence",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 100us to ~1.6s
		}),

		FramesDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dtmf_frames_decoded_total",
			Help: "Total number of frames classified, by result",
		}, []string{"result"}),
		SamplesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_samples_decoded_total",
			Help: "Total number of captured samples handed to the decoder",
		}),
		DecodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dtmf_decode_duration_seconds",
			Help:    "Time spent decoding a capture",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
		}),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveEncode records one encode call.
func (m *Metrics) ObserveEncode(symbols, skipped, samples int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SymbolsEncoded.Add(float64(symbols))
	m.SymbolsSkipped.Add(float64(skipped))
	m.SamplesEncoded.Add(float64(samples))
	m.EncodeDuration.Observe(elapsed.Seconds())
}

// ObserveDecode records one decode call.
func (m *Metrics) ObserveDecode(resolved, unresolved, samples int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FramesDecoded.WithLabelValues(ResultResolved).Add(float64(resolved))
	m.FramesDecoded.WithLabelValues(ResultUnresolved).Add(float64(unresolved))
	m.SamplesDecoded.Add(float64(samples))
	m.DecodeDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
