package dtmf

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
)

// TieBreak decides which peak wins when several fall inside the tolerance
// of the same frequency group.
type TieBreak string

const (
	// TieBreakLast keeps the last matching peak in ascending frequency order.
	TieBreakLast TieBreak = "last"
	// TieBreakStrongest keeps the matching peak with the largest magnitude.
	TieBreakStrongest TieBreak = "strongest"
)

// ParseTieBreak accepts "last" or "strongest".
func ParseTieBreak(s string) (TieBreak, error) {
	switch tb := TieBreak(strings.ToLower(strings.TrimSpace(s))); tb {
	case TieBreakLast, TieBreakStrongest:
		return tb, nil
	case "":
		return TieBreakLast, nil
	default:
		return "", fmt.Errorf("unknown tie-break policy %q", s)
	}
}

// PeakSelection decides which spectrum bins count as peaks.
type PeakSelection string

const (
	// PeakLocalMax keeps every local maximum above the threshold.
	PeakLocalMax PeakSelection = "local-max"
	// PeakTop keeps the topPeaks largest bins above the threshold.
	PeakTop PeakSelection = "top"
)

const topPeaks = 10

// ParsePeakSelection accepts "local-max" or "top".
func ParsePeakSelection(s string) (PeakSelection, error) {
	switch ps := PeakSelection(strings.ToLower(strings.TrimSpace(s))); ps {
	case PeakLocalMax, PeakTop:
		return ps, nil
	case "":
		return PeakLocalMax, nil
	default:
		return "", fmt.Errorf("unknown peak selection %q", s)
	}
}

// maxTolerance keeps the tolerance windows of adjacent DTMF frequencies
// disjoint.
const maxTolerance = 33.0

// DetectorConfig holds the classification constants.
type DetectorConfig struct {
	// PeakThreshold is the minimum peak amplitude in normalized units: a
	// full-scale sinusoid centred on a bin measures 1.0.
	PeakThreshold float64 `json:"peak_threshold" yaml:"peak_threshold" mapstructure:"peak_threshold"`
	// Tolerance is the exclusive distance in Hz between a peak and a
	// nominal DTMF frequency.
	Tolerance     float64       `json:"tolerance_hz" yaml:"tolerance_hz" mapstructure:"tolerance_hz"`
	TieBreak      TieBreak      `json:"tie_break" yaml:"tie_break" mapstructure:"tie_break"`
	PeakSelection PeakSelection `json:"peak_selection" yaml:"peak_selection" mapstructure:"peak_selection"`
}

// DefaultDetectorConfig returns a 0.02 threshold, 10 Hz tolerance, the
// last-match tie-break and local-maximum peaks.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		PeakThreshold: 0.02,
		Tolerance:     10,
		TieBreak:      TieBreakLast,
		PeakSelection: PeakLocalMax,
	}
}

// Validate checks the detector constants.
func (c DetectorConfig) Validate() error {
	if c.PeakThreshold < 0 {
		return fmt.Errorf("peak threshold cannot be negative, got %g", c.PeakThreshold)
	}
	if c.Tolerance <= 0 || c.Tolerance >= maxTolerance {
		return fmt.Errorf("tolerance must be in (0, %g) Hz, got %g", maxTolerance, c.Tolerance)
	}
	if _, err := ParseTieBreak(string(c.TieBreak)); err != nil {
		return err
	}
	if _, err := ParsePeakSelection(string(c.PeakSelection)); err != nil {
		return err
	}
	return nil
}

// Peak is a local maximum of a magnitude spectrum.
type Peak struct {
	Bin       int     `json:"bin"`
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
}

// Detection is the outcome for one frame.
type Detection struct {
	Offset   int     `json:"offset" yaml:"offset"`
	Symbol   Symbol  `json:"symbol" yaml:"symbol"`
	Resolved bool    `json:"resolved" yaml:"resolved"`
	Row      float64 `json:"row_hz,omitempty" yaml:"row_hz,omitempty"`
	Column   float64 `json:"column_hz,omitempty" yaml:"column_hz,omitempty"`
}

// Detector classifies frames by their spectral peaks. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	table  *KeypadTable
	config DetectorConfig
	logger logging.Logger
}

// NewDetector validates config and binds it to table.
func NewDetector(table *KeypadTable, config DetectorConfig, logger logging.Logger) (*Detector, error) {
	if table == nil {
		return nil, fmt.Errorf("keypad table is required")
	}
	if config.TieBreak == "" {
		config.TieBreak = TieBreakLast
	}
	if config.PeakSelection == "" {
		config.PeakSelection = PeakLocalMax
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Detector{
		table:  table,
		config: config,
		logger: logger.WithFields(logging.Fields{
			"component": "detector",
			"tolerance": config.Tolerance,
			"tie_break": string(config.TieBreak),
			"peaks":     string(config.PeakSelection),
		}),
	}, nil
}

// Config returns the detector constants.
func (d *Detector) Config() DetectorConfig {
	return d.config
}

// Spectrum returns the bin centre frequencies and normalized magnitudes of
// the first N/2 bins of samples.
func (d *Detector) Spectrum(samples []float64, sampleRate int) (freqs, mags []float64) {
	n := len(samples)
	half := n / 2
	if half == 0 {
		return nil, nil
	}

	spectrum := fft.FFTReal(samples)

	freqs = make([]float64, half)
	mags = make([]float64, half)
	resolution := float64(sampleRate) / float64(n)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) * resolution
		mags[k] = cmplx.Abs(spectrum[k])
	}
	floats.Scale(2/float64(n), mags)

	return freqs, mags
}

// Peaks returns the bins above the threshold chosen by the peak selection
// policy, in ascending frequency order. With local-max the first and last
// bins are never peaks.
func (d *Detector) Peaks(samples []float64, sampleRate int) []Peak {
	freqs, mags := d.Spectrum(samples, sampleRate)
	if d.config.PeakSelection == PeakTop {
		return d.largestBins(freqs, mags)
	}

	var peaks []Peak
	for k := 1; k < len(mags)-1; k++ {
		m := mags[k]
		if m <= d.config.PeakThreshold {
			continue
		}
		// a two-bin plateau reports its lower bin only
		if m > mags[k-1] && m >= mags[k+1] {
			peaks = append(peaks, Peak{Bin: k, Frequency: freqs[k], Magnitude: m})
		}
	}
	return peaks
}

func (d *Detector) largestBins(freqs, mags []float64) []Peak {
	sorted := make([]float64, len(mags))
	copy(sorted, mags)
	inds := make([]int, len(mags))
	floats.Argsort(sorted, inds)

	bins := inds[max(len(inds)-topPeaks, 0):]
	slices.Sort(bins)

	var peaks []Peak
	for _, k := range bins {
		if mags[k] > d.config.PeakThreshold {
			peaks = append(peaks, Peak{Bin: k, Frequency: freqs[k], Magnitude: mags[k]})
		}
	}
	return peaks
}

// Detect classifies one frame captured at sampleRate.
func (d *Detector) Detect(frame Frame, sampleRate int) Detection {
	result := Detection{Offset: frame.Offset, Symbol: Unresolved}
	if sampleRate <= 0 {
		return result
	}

	peaks := d.Peaks(frame.Samples, sampleRate)
	row, rowOK := d.match(peaks, d.table.Rows())
	col, colOK := d.match(peaks, d.table.Columns())

	if rowOK {
		result.Row = row
	}
	if colOK {
		result.Column = col
	}
	if rowOK && colOK {
		if sym, err := d.table.SymbolFor(FrequencyPair{Low: row, High: col}); err == nil {
			result.Symbol = sym
			result.Resolved = true
		}
	}

	d.logger.Debug("Frame classified", logging.Fields{
		"offset":   frame.Offset,
		"peaks":    len(peaks),
		"symbol":   result.Symbol.String(),
		"resolved": result.Resolved,
	})

	return result
}

// match returns the nominal frequency of group selected from peaks by the
// tie-break policy.
func (d *Detector) match(peaks []Peak, group [4]float64) (float64, bool) {
	var (
		found   bool
		nominal float64
		best    = math.Inf(-1)
	)

	for _, p := range peaks {
		for _, f := range group {
			if math.Abs(p.Frequency-f) >= d.config.Tolerance {
				continue
			}
			if d.config.TieBreak == TieBreakStrongest && p.Magnitude <= best {
				continue
			}
			found, nominal, best = true, f, p.Magnitude
		}
	}

	return nominal, found
}
