package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/dtmf-codec/configs"
	"github.com/RyanBlaney/dtmf-codec/internal/app"
	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
)

const envPrefix = "DTMF_CODEC"

var (
	configFile   string
	profileFile  string
	verbose      bool
	quiet        bool
	logLevel     string
	outputFormat string
)

// flagKeys maps persistent flags to their configuration keys
var flagKeys = map[string]string{
	"verbose":        "verbose",
	"log-level":      "log_level",
	"format":         "output_format",
	"tone-duration":  "cadence.tone_duration",
	"pause-duration": "cadence.pause_duration",
	"sample-rate":    "cadence.sample_rate",
	"metrics-file":   "metrics.file",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dtmf-codec",
	Short: "Encode keypad symbols as DTMF tones and decode them back",
	Long: `A DTMF codec for the 16-key telephone keypad.

Symbols are rendered as fixed-cadence dual-tone bursts into a WAV file, and
captured audio is split into frames on the same cadence and decoded by
spectral peak matching.

Key features:
- Keypad symbols 0-9, A-D, * and #
- Configurable tone and pause durations and sample rate
- Half-sum or peak-normalized tone amplitude
- Parallel frame decoding
- Text, JSON, YAML and table reports
- Prometheus textfile metrics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error(err, "Command failed", logging.Fields{
			"command": strings.Join(os.Args[1:], " "),
		})
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := configs.GetDefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/dtmf-codec/dtmf-codec.yaml)")
	flags.StringVar(&profileFile, "profile", "",
		"codec profile (YAML or JSON) overlaid on the configuration")

	// Output and logging flags
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false,
		"only log errors")
	flags.StringVar(&logLevel, "log-level", defaults.LogLevel,
		"log level (debug, info, warn, error)")
	flags.StringVarP(&outputFormat, "format", "f", defaults.OutputFormat,
		"output format (text, json, yaml, table)")

	// Cadence flags
	flags.Duration("tone-duration", defaults.Cadence.ToneDuration,
		"duration of each tone burst")
	flags.Duration("pause-duration", defaults.Cadence.PauseDuration,
		"silence between tone bursts")
	flags.Int("sample-rate", defaults.Cadence.SampleRate,
		"sample rate in Hz")

	flags.String("metrics-file", "",
		"write Prometheus metrics to this textfile on exit")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dtmf-codec"))
		}
		viper.AddConfigPath("/etc/dtmf-codec")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("dtmf-codec")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	// Bind all flags to viper
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each known cobra flag to its configuration key
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		envVarSuffix := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
		if err := v.BindEnv(key, envPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// newApp builds the application from the parsed flags and configuration
func newApp(cmd *cobra.Command) (*app.App, error) {
	ctx := &app.Context{
		ProfileFile: profileFile,
		Verbose:     verbose,
		Quiet:       quiet,
	}
	if cmd.Flags().Changed("format") {
		ctx.OutputFormat = outputFormat
	}
	return app.NewApp(ctx)
}
