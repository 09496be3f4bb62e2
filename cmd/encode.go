package cmd

import (
	"github.com/spf13/cobra"
)

var (
	encodeOutput string
	encodeStrict bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode [symbols]",
	Short: "Render keypad symbols as a DTMF WAV file",
	Long: `Render each keypad symbol as a tone burst followed by a pause and write
the result as a mono PCM WAV file.

Characters outside the keypad are skipped and reported unless --strict is set.

Examples:
  # Dial a number into dial.wav
  dtmf-codec encode 5551234 -o dial.wav

  # Short bursts at 16 kHz, 24-bit
  dtmf-codec encode "*123#" --tone-duration 80ms --pause-duration 40ms \
    --sample-rate 16000 --bit-depth 24`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "dtmf.wav",
		"output WAV file")
	encodeCmd.Flags().BoolVar(&encodeStrict, "strict", false,
		"fail on characters outside the keypad")
	encodeCmd.Flags().Int("bit-depth", 16,
		"WAV sample bit depth (16, 24 or 32)")
	encodeCmd.Flags().String("amplitude", "half",
		"tone amplitude policy (half, peak)")
	encodeCmd.Flags().Float64("peak-level", 1.0,
		"peak level for the peak amplitude policy")

	flagKeys["bit-depth"] = "wav.bit_depth"
	flagKeys["amplitude"] = "synth.amplitude"
	flagKeys["peak-level"] = "synth.peak_level"
}

func runEncode(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	result, err := a.Encode(args[0], encodeOutput, encodeStrict)
	if err != nil {
		return err
	}

	return writeEncodeResult(cmd, a, result)
}
