package dtmf

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
)

// AmplitudePolicy selects how the two sinusoids of a tone are scaled.
type AmplitudePolicy string

const (
	// AmplitudeHalf gives each sinusoid amplitude 0.5, so the sum never
	// exceeds 1.
	AmplitudeHalf AmplitudePolicy = "half"
	// AmplitudePeak scales each tone block so its absolute peak equals
	// SynthConfig.PeakLevel.
	AmplitudePeak AmplitudePolicy = "peak"
)

// ParseAmplitudePolicy accepts "half" or "peak".
func ParseAmplitudePolicy(s string) (AmplitudePolicy, error) {
	switch p := AmplitudePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case AmplitudeHalf, AmplitudePeak:
		return p, nil
	case "":
		return AmplitudeHalf, nil
	default:
		return "", fmt.Errorf("unknown amplitude policy %q", s)
	}
}

// SynthConfig tunes tone generation.
type SynthConfig struct {
	Amplitude AmplitudePolicy `json:"amplitude" yaml:"amplitude" mapstructure:"amplitude"`
	PeakLevel float64         `json:"peak_level" yaml:"peak_level" mapstructure:"peak_level"`
}

// DefaultSynthConfig returns the half-amplitude policy.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{Amplitude: AmplitudeHalf, PeakLevel: 1.0}
}

// Synthesizer renders keypad symbols as two-tone sample blocks. Tone blocks
// for all 16 symbols are rendered once at construction.
type Synthesizer struct {
	table        *KeypadTable
	cadence      Cadence
	config       SynthConfig
	toneSamples  int
	pauseSamples int
	tones        map[Symbol][]float64
	logger       logging.Logger
}

// NewSynthesizer prepares a synthesizer for the given cadence.
func NewSynthesizer(table *KeypadTable, cadence Cadence, config SynthConfig, logger logging.Logger) (*Synthesizer, error) {
	if table == nil {
		return nil, fmt.Errorf("keypad table is required")
	}
	if err := cadence.Validate(); err != nil {
		return nil, err
	}
	if config.Amplitude == "" {
		config.Amplitude = AmplitudeHalf
	}
	if config.Amplitude == AmplitudePeak && (config.PeakLevel <= 0 || config.PeakLevel > 1) {
		return nil, fmt.Errorf("peak level must be in (0, 1], got %g", config.PeakLevel)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Synthesizer{
		table:        table,
		cadence:      cadence,
		config:       config,
		toneSamples:  cadence.ToneSamples(cadence.SampleRate),
		pauseSamples: cadence.PauseSamples(cadence.SampleRate),
		tones:        make(map[Symbol][]float64, 16),
		logger: logger.WithFields(logging.Fields{
			"component":   "synthesizer",
			"sample_rate": cadence.SampleRate,
			"amplitude":   string(config.Amplitude),
		}),
	}

	for _, sym := range table.Symbols() {
		pair, err := table.FrequenciesFor(sym)
		if err != nil {
			return nil, err
		}
		s.tones[sym] = s.render(pair)
	}

	return s, nil
}

// Cadence returns the cadence the synthesizer renders with.
func (s *Synthesizer) Cadence() Cadence {
	return s.cadence
}

func (s *Synthesizer) render(pair FrequencyPair) []float64 {
	block := make([]float64, s.toneSamples)
	rate := float64(s.cadence.SampleRate)
	wLow := 2 * math.Pi * pair.Low
	wHigh := 2 * math.Pi * pair.High

	for i := range block {
		t := float64(i) / rate
		block[i] = math.Sin(wLow*t) + math.Sin(wHigh*t)
	}

	switch s.config.Amplitude {
	case AmplitudePeak:
		if peak := floats.Norm(block, math.Inf(1)); peak > 0 {
			floats.Scale(s.config.PeakLevel/peak, block)
		}
	default:
		floats.Scale(0.5, block)
	}

	return block
}

// SynthesizeSymbol returns one tone block for sym, without trailing silence.
func (s *Synthesizer) SynthesizeSymbol(sym Symbol) (*Signal, error) {
	tone, ok := s.tones[sym]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, rune(sym))
	}

	samples := make([]float64, len(tone))
	copy(samples, tone)
	return NewSignal(samples, s.cadence.SampleRate), nil
}

// SynthesizeSequence renders each keypad character of symbols as a tone
// followed by a pause. Characters that are not on the keypad are skipped
// and returned so callers can report them.
func (s *Synthesizer) SynthesizeSequence(symbols string) (*Signal, []SymbolError) {
	valid := make([]Symbol, 0, len(symbols))
	var skipped []SymbolError

	pos := 0
	for _, r := range symbols {
		if sym, ok := s.table.Lookup(r); ok {
			valid = append(valid, sym)
		} else {
			skipped = append(skipped, SymbolError{Symbol: r, Position: pos})
			s.logger.Debug("Skipping unknown symbol", logging.Fields{
				"symbol":   string(r),
				"position": pos,
			})
		}
		pos++
	}

	step := s.toneSamples + s.pauseSamples
	samples := make([]float64, len(valid)*step)
	for i, sym := range valid {
		copy(samples[i*step:], s.tones[sym])
	}

	s.logger.Debug("Synthesized sequence", logging.Fields{
		"symbols": len(valid),
		"skipped": len(skipped),
		"samples": len(samples),
	})

	return NewSignal(samples, s.cadence.SampleRate), skipped
}
