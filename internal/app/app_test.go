package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/dtmf-codec/configs"
	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
)

func newTestApp(t *testing.T, mutate func(*configs.Config)) *App {
	t.Helper()

	cfg := configs.GetDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	app, err := NewApp(&Context{Config: cfg, Logger: logging.Nop()})
	require.NoError(t, err)
	return app
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	app := newTestApp(t, nil)
	path := filepath.Join(t.TempDir(), "out", "tones.wav")

	result, err := app.Encode("123A", path, false)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Symbols)
	assert.Equal(t, 4*4800, result.Samples)
	assert.Equal(t, 8000, result.SampleRate)
	assert.Equal(t, 16, result.BitDepth)
	assert.Empty(t, result.Skipped)
	assert.FileExists(t, path)

	report, err := app.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "123A", report.Decoded)
	assert.Equal(t, 4, report.Frames)
	assert.Equal(t, 4, report.Resolved)
	assert.Equal(t, 0, report.Unresolved)
}

func TestEncodeSkipsUnknownSymbols(t *testing.T) {
	app := newTestApp(t, nil)
	path := filepath.Join(t.TempDir(), "tones.wav")

	result, err := app.Encode("1x2", path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Symbols)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 'x', result.Skipped[0].Symbol)
	assert.Equal(t, 1, result.Skipped[0].Position)

	_, err = app.Encode("1x2", path, true)
	assert.ErrorIs(t, err, dtmf.ErrUnknownSymbol)

	_, err = app.Encode("xyz", path, false)
	assert.Error(t, err)
}

func TestDecodeMissingFile(t *testing.T) {
	app := newTestApp(t, nil)
	_, err := app.Decode(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	cfg := configs.GetDefaultConfig()
	cfg.Detector.TieBreak = "first"

	_, err := NewApp(&Context{Config: cfg, Logger: logging.Nop()})
	assert.Error(t, err)
}

func TestProfileOverlay(t *testing.T) {
	dir := t.TempDir()

	yamlProfile := filepath.Join(dir, "fast.yaml")
	require.NoError(t, os.WriteFile(yamlProfile, []byte(`
cadence:
  tone_duration: 100ms
  pause_duration: 20ms
detector:
  tie_break: strongest
  tolerance_hz: 20
`), 0644))

	cfg := configs.GetDefaultConfig()
	app, err := NewApp(&Context{Config: cfg, ProfileFile: yamlProfile, Logger: logging.Nop()})
	require.NoError(t, err)

	got := app.Config()
	assert.Equal(t, "100ms", got.Cadence.ToneDuration.String())
	assert.Equal(t, "20ms", got.Cadence.PauseDuration.String())
	assert.Equal(t, "strongest", got.Detector.TieBreak)
	assert.Equal(t, 20.0, got.Detector.ToleranceHz)
	assert.Equal(t, 8000, got.Cadence.SampleRate, "keys absent from the profile keep their value")

	jsonProfile := filepath.Join(dir, "wide.json")
	require.NoError(t, os.WriteFile(jsonProfile, []byte(`{"wav": {"bit_depth": 24}, "decode": {"workers": 4}}`), 0644))

	cfg = configs.GetDefaultConfig()
	app, err = NewApp(&Context{Config: cfg, ProfileFile: jsonProfile, OutputFormat: "json", Logger: logging.Nop()})
	require.NoError(t, err)
	assert.Equal(t, 24, app.Config().WAV.BitDepth)
	assert.Equal(t, 4, app.Config().Decode.Workers)
	assert.Equal(t, configs.OutputJSON, app.Config().OutputFormat)

	_, err = NewApp(&Context{Config: configs.GetDefaultConfig(), ProfileFile: filepath.Join(dir, "nope.yaml"), Logger: logging.Nop()})
	assert.Error(t, err)
}

func TestCloseWritesMetrics(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "dtmf.prom")
	app := newTestApp(t, func(c *configs.Config) { c.Metrics.File = metricsFile })

	wavPath := filepath.Join(t.TempDir(), "tones.wav")
	_, err := app.Encode("55", wavPath, false)
	require.NoError(t, err)
	_, err = app.Decode(wavPath)
	require.NoError(t, err)

	require.NoError(t, app.Close())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dtmf_symbols_encoded_total 2")
	assert.Contains(t, string(data), `dtmf_frames_decoded_total{result="resolved"} 2`)
}

func TestGenerateExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dtmf-codec.yaml")
	require.NoError(t, GenerateExampleConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg configs.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "500ms", cfg.Cadence.ToneDuration.String())
	assert.Equal(t, "last", cfg.Detector.TieBreak)
	assert.NotEmpty(t, cfg.Metrics.File)

	cfg.Metrics.File = ""
	assert.NoError(t, cfg.Validate())
}

func sampleReport() *DecodeReport {
	decoded := dtmf.DecodedSequence{
		{Offset: 0, Symbol: '1', Resolved: true, Row: 697, Column: 1209},
		{Offset: 4800, Symbol: dtmf.Unresolved},
		{Offset: 9600, Symbol: '#', Resolved: true, Row: 941, Column: 1477},
	}
	sig := dtmf.NewSignal(make([]float64, 14400), 8000)
	return NewDecodeReport("capture.wav", sig, decoded)
}

func TestWriteDecodeReport(t *testing.T) {
	report := sampleReport()
	assert.Equal(t, "1?#", report.Decoded)
	assert.Equal(t, 2, report.Resolved)
	assert.Equal(t, 1, report.Unresolved)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDecodeReport(&buf, report, configs.OutputText, false))
		assert.Equal(t, "1?#\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDecodeReport(&buf, report, configs.OutputJSON, false))
		assert.JSONEq(t, `{"decoded": "1?#"}`, buf.String())
	})

	t.Run("json detail", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDecodeReport(&buf, report, configs.OutputJSON, true))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "1?#", got["decoded"])
		assert.Equal(t, float64(3), got["frames"])
		assert.Len(t, got["detections"], 3)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDecodeReport(&buf, report, configs.OutputYAML, false))

		var got DecodeReport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "1?#", got.Decoded)
		assert.Equal(t, 2, got.Resolved)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDecodeReport(&buf, report, configs.OutputTable, false))

		out := buf.String()
		assert.Contains(t, out, "Row Hz")
		assert.Contains(t, out, "Column Hz")
		assert.Contains(t, out, "0.600s")
		assert.Contains(t, out, "1477")
		assert.Contains(t, out, "2/3")
	})
}

func TestWriteEncodeResult(t *testing.T) {
	result := &EncodeResult{
		Input:      "1x",
		Output:     "tones.wav",
		Symbols:    1,
		Skipped:    []dtmf.SymbolError{{Symbol: 'x', Position: 1}},
		Samples:    4800,
		SampleRate: 8000,
		Duration:   0.6,
		BitDepth:   16,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEncodeResult(&buf, result, configs.OutputText))
	assert.Contains(t, buf.String(), "tones.wav: 1 symbols, 4800 samples at 8000 Hz")
	assert.Contains(t, buf.String(), `skipped 'x' at position 1`)

	buf.Reset()
	require.NoError(t, WriteEncodeResult(&buf, result, configs.OutputJSON))
	assert.Contains(t, buf.String(), `"samples": 4800`)
}

func TestWriteKeypad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKeypad(&buf, dtmf.NewKeypadTable()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "1209")
	assert.Contains(t, lines[0], "1633")
	assert.Contains(t, lines[1], "697")
	assert.Contains(t, lines[4], "*")
	assert.Contains(t, lines[4], "D")
}

func TestNewAppInstallsDefaultLogger(t *testing.T) {
	defer logging.SetDefault(logging.NewDefaultLogger())

	var buf bytes.Buffer
	_, err := NewApp(&Context{Config: configs.GetDefaultConfig(), Logger: logging.New(&buf)})
	require.NoError(t, err)

	logging.Error(assert.AnError, "Command failed")
	assert.Contains(t, buf.String(), `"message":"Command failed"`)
}
