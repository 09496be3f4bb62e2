package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/dtmf-codec/internal/app"
)

var decodeDetail bool

var decodeCmd = &cobra.Command{
	Use:   "decode [file.wav]",
	Short: "Decode DTMF symbols from a WAV capture",
	Long: `Split a WAV capture into tone frames on the configured cadence and
decode each frame by spectral peak matching. Frames without a recognizable
row and column tone decode as '?'.

Examples:
  # Print the decoded symbols
  dtmf-codec decode dial.wav

  # Per-frame report
  dtmf-codec decode dial.wav --format table

  # Full JSON report using four workers
  dtmf-codec decode dial.wav --format json --detail --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVar(&decodeDetail, "detail", false,
		"include per-frame detections in JSON output")
	decodeCmd.Flags().Int("workers", 1,
		"number of frames decoded concurrently")
	decodeCmd.Flags().Float64("tolerance", 10,
		"frequency match tolerance in Hz")
	decodeCmd.Flags().Float64("threshold", 0.02,
		"minimum normalized peak magnitude")
	decodeCmd.Flags().String("tie-break", "last",
		"candidate selection within a tone group (last, strongest)")
	decodeCmd.Flags().String("peak-selection", "local-max",
		"spectrum peak selection (local-max, top)")

	flagKeys["workers"] = "decode.workers"
	flagKeys["tolerance"] = "detector.tolerance_hz"
	flagKeys["threshold"] = "detector.peak_threshold"
	flagKeys["tie-break"] = "detector.tie_break"
	flagKeys["peak-selection"] = "detector.peak_selection"
}

func runDecode(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	report, err := a.Decode(args[0])
	if err != nil {
		return err
	}

	detail := decodeDetail || a.Config().Verbose
	return app.WriteDecodeReport(cmd.OutOrStdout(), report, a.Config().OutputFormat, detail)
}
