package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/dtmf-codec/configs"
	"github.com/RyanBlaney/dtmf-codec/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and generate configuration",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write an example configuration file",
	Long: `Write the default configuration as YAML.

Examples:
  # Write ./configs/dtmf-codec.yaml
  dtmf-codec config generate

  # Write to a custom location
  dtmf-codec config generate ~/.config/dtmf-codec/dtmf-codec.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "configs/dtmf-codec.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := app.GenerateExampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Load the configuration from file, environment, flags and profile and
display every value to verify it is parsed as expected.

Examples:
  dtmf-codec --config ./dtmf-codec.yaml config show
  dtmf-codec --profile fast.yaml --tone-duration 80ms config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGenerateCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	printConfig(cmd.OutOrStdout(), a.Config())
	return nil
}

func printConfig(w io.Writer, config *configs.Config) {
	fmt.Fprintln(w, "DTMF CODEC CONFIGURATION")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	printSection(w, "APPLICATION SETTINGS")
	printKeyValue(w, "Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue(w, "Log Level", config.LogLevel)
	printKeyValue(w, "Output Format", config.OutputFormat)

	printSection(w, "CADENCE")
	printKeyValue(w, "Tone Duration", config.Cadence.ToneDuration.String())
	printKeyValue(w, "Pause Duration", config.Cadence.PauseDuration.String())
	printKeyValue(w, "Sample Rate", fmt.Sprintf("%d Hz", config.Cadence.SampleRate))

	printSection(w, "SYNTHESIS")
	printKeyValue(w, "Amplitude", config.Synth.Amplitude)
	printKeyValue(w, "Peak Level", fmt.Sprintf("%.3f", config.Synth.PeakLevel))
	printKeyValue(w, "WAV Bit Depth", fmt.Sprintf("%d", config.WAV.BitDepth))

	printSection(w, "DETECTION")
	printKeyValue(w, "Peak Threshold", fmt.Sprintf("%.3f", config.Detector.PeakThreshold))
	printKeyValue(w, "Tolerance", fmt.Sprintf("%.1f Hz", config.Detector.ToleranceHz))
	printKeyValue(w, "Tie Break", config.Detector.TieBreak)
	printKeyValue(w, "Peak Selection", config.Detector.PeakSelection)
	printKeyValue(w, "Workers", fmt.Sprintf("%d", config.Decode.Workers))

	printSection(w, "METRICS")
	printKeyValue(w, "Textfile", config.Metrics.File)

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "Config file: %s\n", used)
	} else {
		fmt.Fprintln(w, "Config file: (none, defaults)")
	}
}

func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func printKeyValue(w io.Writer, key, value string) {
	if value == "" {
		fmt.Fprintf(w, "%-25s\n", key)
	} else {
		fmt.Fprintf(w, "%-25s %s\n", key+":", value)
	}
}
