// Package codec wires the keypad table, synthesizer, framer and detector
// into the encode and decode pipelines.
package codec

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
	"github.com/RyanBlaney/dtmf-codec/pkg/metrics"
)

// Config assembles the tunables of every stage.
type Config struct {
	Cadence  dtmf.Cadence        `json:"cadence" yaml:"cadence"`
	Synth    dtmf.SynthConfig    `json:"synth" yaml:"synth"`
	Detector dtmf.DetectorConfig `json:"detector" yaml:"detector"`
	// Workers bounds parallel frame detection; 0 or 1 decodes sequentially.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns the reference cadence with default synthesis and
// detection settings.
func DefaultConfig() Config {
	return Config{
		Cadence:  dtmf.DefaultCadence(),
		Synth:    dtmf.DefaultSynthConfig(),
		Detector: dtmf.DefaultDetectorConfig(),
		Workers:  1,
	}
}

// Codec encodes symbol strings to signals and decodes captures back. It keeps
// no state between calls and is safe for concurrent use.
type Codec struct {
	table    *dtmf.KeypadTable
	cadence  dtmf.Cadence
	synth    *dtmf.Synthesizer
	detector *dtmf.Detector
	workers  int
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// New builds a codec. metrics may be nil.
func New(table *dtmf.KeypadTable, config Config, m *metrics.Metrics, logger logging.Logger) (*Codec, error) {
	if table == nil {
		return nil, errors.New("keypad table is required")
	}
	if config.Workers < 0 {
		return nil, fmt.Errorf("workers cannot be negative, got %d", config.Workers)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	synth, err := dtmf.NewSynthesizer(table, config.Cadence, config.Synth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	detector, err := dtmf.NewDetector(table, config.Detector, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}

	return &Codec{
		table:    table,
		cadence:  config.Cadence,
		synth:    synth,
		detector: detector,
		workers:  max(config.Workers, 1),
		metrics:  m,
		logger: logger.WithFields(logging.Fields{
			"component": "codec",
		}),
	}, nil
}

// Table returns the keypad table shared by every stage.
func (c *Codec) Table() *dtmf.KeypadTable {
	return c.table
}

// Cadence returns the cadence used for encoding and framing.
func (c *Codec) Cadence() dtmf.Cadence {
	return c.cadence
}

// Encode renders symbols as tones. Characters that are not on the keypad are
// skipped and returned.
func (c *Codec) Encode(symbols string) (*dtmf.Signal, []dtmf.SymbolError) {
	start := time.Now()
	sig, skipped := c.synth.SynthesizeSequence(symbols)

	encoded := utf8.RuneCountInString(symbols) - len(skipped)
	c.metrics.ObserveEncode(encoded, len(skipped), sig.Len(), time.Since(start))

	if len(skipped) > 0 {
		c.logger.Warn("Skipped characters that are not on the keypad", logging.Fields{
			"skipped": len(skipped),
		})
	}

	return sig, skipped
}

// EncodeStrict is Encode that rejects input containing unknown characters.
func (c *Codec) EncodeStrict(symbols string) (*dtmf.Signal, error) {
	if err := c.table.Validate(symbols); err != nil {
		return nil, err
	}
	sig, _ := c.Encode(symbols)
	return sig, nil
}

// Decode classifies every complete frame of sig. Frames are cut at the
// sample rate recorded in sig, which must be the rate the audio was captured
// at. A capture shorter than one tone decodes to an empty sequence.
func (c *Codec) Decode(sig *dtmf.Signal) (dtmf.DecodedSequence, error) {
	if sig == nil {
		return nil, errors.New("signal is required")
	}

	start := time.Now()
	framer, err := dtmf.NewFramer(c.cadence, sig.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to frame signal: %w", err)
	}

	logger := c.logger.WithFields(logging.Fields{
		"sample_rate": sig.SampleRate,
		"samples":     sig.Len(),
	})
	if sig.SampleRate != c.cadence.SampleRate {
		logger.Warn("Capture sample rate differs from synthesis rate", logging.Fields{
			"synthesis_rate": c.cadence.SampleRate,
		})
	}

	var result dtmf.DecodedSequence
	if c.workers > 1 {
		result = c.decodeParallel(framer, sig)
	} else {
		result = c.decodeSequential(framer, sig)
	}

	elapsed := time.Since(start)
	c.metrics.ObserveDecode(result.Resolved(), result.Unresolved(), sig.Len(), elapsed)

	logger.Debug("Decoded capture", logging.Fields{
		"frames":     len(result),
		"unresolved": result.Unresolved(),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	return result, nil
}

func (c *Codec) decodeSequential(framer *dtmf.Framer, sig *dtmf.Signal) dtmf.DecodedSequence {
	result := make(dtmf.DecodedSequence, 0, framer.Count(sig.Len()))
	for frame := range framer.Frames(sig.Samples) {
		result = append(result, c.detector.Detect(frame, sig.SampleRate))
	}
	return result
}

// decodeParallel detects frames on up to c.workers goroutines and stores each
// result at its frame index.
func (c *Codec) decodeParallel(framer *dtmf.Framer, sig *dtmf.Signal) dtmf.DecodedSequence {
	result := make(dtmf.DecodedSequence, framer.Count(sig.Len()))

	var g errgroup.Group
	g.SetLimit(c.workers)

	i := 0
	for frame := range framer.Frames(sig.Samples) {
		idx := i
		g.Go(func() error {
			result[idx] = c.detector.Detect(frame, sig.SampleRate)
			return nil
		})
		i++
	}
	_ = g.Wait()

	return result
}
