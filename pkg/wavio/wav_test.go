package wavio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/dtmf-codec/pkg/codec"
	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
)

func TestWriteReadFile(t *testing.T) {
	c, err := codec.New(dtmf.NewKeypadTable(), codec.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	sig, _ := c.Encode("147#")

	for _, depth := range []int{16, 24, 32} {
		path := filepath.Join(t.TempDir(), "tones.wav")
		require.NoError(t, WriteFile(path, sig, depth))

		back, err := ReadFile(path)
		require.NoError(t, err, "depth %d", depth)
		assert.Equal(t, 8000, back.SampleRate)
		require.Equal(t, sig.Len(), back.Len())

		for i := 0; i < sig.Len(); i += 97 {
			assert.InDelta(t, sig.Samples[i], back.Samples[i], 1.0/32767, "sample %d at %d bits", i, depth)
		}

		decoded, err := c.Decode(back)
		require.NoError(t, err)
		assert.Equal(t, "147#", decoded.String())
	}
}

func TestReadMixesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 8000, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 8000},
		Data:           []int{16384, 0, -16384, -16384, 8192, 24576},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	sig, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, sig.Len())
	assert.InDelta(t, 0.25, sig.Samples[0], 1e-9)
	assert.InDelta(t, -0.5, sig.Samples[1], 1e-9)
	assert.InDelta(t, 0.5, sig.Samples[2], 1e-9)
}

func TestWriteClipsAndRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, WriteFile(path, dtmf.NewSignal([]float64{2, -2, 0}, 8000), 16))

	sig, err := ReadFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 32767.0/32768, sig.Samples[0], 1e-9)
	assert.InDelta(t, -32767.0/32768, sig.Samples[1], 1e-9)

	err = WriteFile(path, dtmf.NewSignal([]float64{0}, 8000), 12)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	err = WriteFile(path, dtmf.NewSignal([]float64{0}, 0), 16)
	assert.True(t, errors.Is(err, dtmf.ErrInvalidSampleRate))
}

func TestReadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0644))

	_, err := ReadFile(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
