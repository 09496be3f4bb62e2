// Package wavio converts between PCM WAV files and dtmf.Signal buffers.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
)

const formatPCM = 1

var ErrUnsupportedFormat = errors.New("unsupported wav format")

// SupportedBitDepth reports whether Write can produce bitDepth.
func SupportedBitDepth(bitDepth int) bool {
	switch bitDepth {
	case 16, 24, 32:
		return true
	}
	return false
}

// Read decodes a PCM WAV stream into a mono signal, averaging channels.
func Read(r io.ReadSeeker) (*dtmf.Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid wav file", ErrUnsupportedFormat)
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: audio format %d is not integer PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if !SupportedBitDepth(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}

	scale := 1 / fullScale(int(dec.BitDepth))
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range samples {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		samples[i] = float64(sum) * scale / float64(channels)
	}

	return dtmf.NewSignal(samples, int(dec.SampleRate)), nil
}

// ReadFile reads a WAV file from path.
func ReadFile(path string) (*dtmf.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Write encodes sig as a mono PCM WAV stream. Samples outside [-1, 1] are
// clipped.
func Write(w io.WriteSeeker, sig *dtmf.Signal, bitDepth int) error {
	if sig == nil || sig.SampleRate <= 0 {
		return fmt.Errorf("%w: signal has no sample rate", dtmf.ErrInvalidSampleRate)
	}
	if !SupportedBitDepth(bitDepth) {
		return fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	limit := fullScale(bitDepth) - 1
	data := make([]int, len(sig.Samples))
	for i, v := range sig.Samples {
		data[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * limit))
	}

	enc := wav.NewEncoder(w, sig.SampleRate, bitDepth, 1, formatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sig.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return nil
}

// WriteFile creates path and writes sig to it.
func WriteFile(path string, sig *dtmf.Signal, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	if err := Write(f, sig, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}
