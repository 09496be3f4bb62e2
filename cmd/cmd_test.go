package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestEncodeThenDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dial.wav")

	execute(t, "encode", "159D", "-o", path, "-q")
	assert.FileExists(t, path)

	out := execute(t, "decode", path, "--format", "json", "--workers", "2")
	assert.JSONEq(t, `{"decoded": "159D"}`, out)
}

func TestKeypadCommand(t *testing.T) {
	out := execute(t, "keypad")
	assert.Contains(t, out, "1633")
	assert.Contains(t, out, "941")
}

func TestEncodeReportsMetricsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() {
		f := rootCmd.PersistentFlags().Lookup("metrics-file")
		_ = f.Value.Set("")
		f.Changed = false
	})

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{
		"encode", "12",
		"-o", filepath.Join(dir, "dial.wav"),
		"-q",
		"--metrics-file", filepath.Join(dir, "no", "such", "dir", "dtmf.prom"),
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics")
	assert.FileExists(t, filepath.Join(dir, "dial.wav"))
}
