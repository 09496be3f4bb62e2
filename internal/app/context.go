package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/RyanBlaney/dtmf-codec/configs"
	"github.com/RyanBlaney/dtmf-codec/pkg/codec"
	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
	"github.com/RyanBlaney/dtmf-codec/pkg/logging"
	"github.com/RyanBlaney/dtmf-codec/pkg/metrics"
	"github.com/RyanBlaney/dtmf-codec/pkg/wavio"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ProfileFile  string // Codec profile file (optional)
	OutputFormat string // Overrides output_format when set
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// App handles the codec application lifecycle
type App struct {
	ctx     *Context
	config  *configs.Config
	codec   *codec.Codec
	metrics *metrics.Metrics
	logger  logging.Logger
}

// EncodeResult describes one encode run
type EncodeResult struct {
	Input      string             `json:"input" yaml:"input"`
	Output     string             `json:"output" yaml:"output"`
	Symbols    int                `json:"symbols" yaml:"symbols"`
	Skipped    []dtmf.SymbolError `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Samples    int                `json:"samples" yaml:"samples"`
	SampleRate int                `json:"sample_rate" yaml:"sample_rate"`
	Duration   float64            `json:"duration_seconds" yaml:"duration_seconds"`
	BitDepth   int                `json:"bit_depth" yaml:"bit_depth"`
}

// NewApp loads configuration and builds the codec
func NewApp(ctx *Context) (*App, error) {
	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	logger, err := setupLogging(ctx, config)
	if err != nil {
		return nil, err
	}
	ctx.Logger = logger

	codecConfig, err := config.CodecConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid codec configuration: %w", err)
	}

	m := metrics.NewMetrics()
	c, err := codec.New(dtmf.NewKeypadTable(), codecConfig, m, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create codec: %w", err)
	}

	logger.Debug("Application initialized", logging.Fields{
		"profile_file":   ctx.ProfileFile,
		"output_format":  config.OutputFormat,
		"tone_duration":  config.Cadence.ToneDuration.String(),
		"pause_duration": config.Cadence.PauseDuration.String(),
		"sample_rate":    config.Cadence.SampleRate,
		"tie_break":      config.Detector.TieBreak,
		"peak_selection": config.Detector.PeakSelection,
		"workers":        config.Decode.Workers,
	})

	return &App{
		ctx:     ctx,
		config:  config,
		codec:   c,
		metrics: m,
		logger:  logger,
	}, nil
}

// Config returns the merged configuration
func (app *App) Config() *configs.Config {
	return app.config
}

// Encode renders symbols to a WAV file at outputPath
func (app *App) Encode(symbols, outputPath string, strict bool) (*EncodeResult, error) {
	var (
		sig     *dtmf.Signal
		skipped []dtmf.SymbolError
		err     error
	)

	if strict {
		sig, err = app.codec.EncodeStrict(symbols)
		if err != nil {
			return nil, err
		}
	} else {
		sig, skipped = app.codec.Encode(symbols)
	}

	if sig.Len() == 0 {
		return nil, fmt.Errorf("no keypad symbols in %q", symbols)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := wavio.WriteFile(outputPath, sig, app.config.WAV.BitDepth); err != nil {
		return nil, err
	}

	app.logger.Debug("Encoded symbols", logging.Fields{
		"output":  outputPath,
		"samples": sig.Len(),
		"skipped": len(skipped),
	})

	return &EncodeResult{
		Input:      symbols,
		Output:     outputPath,
		Symbols:    utf8.RuneCountInString(symbols) - len(skipped),
		Skipped:    skipped,
		Samples:    sig.Len(),
		SampleRate: sig.SampleRate,
		Duration:   sig.Duration().Seconds(),
		BitDepth:   app.config.WAV.BitDepth,
	}, nil
}

// Decode reads a WAV capture and decodes it
func (app *App) Decode(inputPath string) (*DecodeReport, error) {
	start := time.Now()

	sig, err := wavio.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	decoded, err := app.codec.Decode(sig)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", inputPath, err)
	}

	app.logger.Debug("Decoded capture", logging.Fields{
		"input":      inputPath,
		"frames":     len(decoded),
		"unresolved": decoded.Unresolved(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	return NewDecodeReport(inputPath, sig, decoded), nil
}

// Close flushes metrics to the configured textfile
func (app *App) Close() error {
	if app.config.Metrics.File == "" {
		return nil
	}

	if err := app.metrics.WriteTextfile(app.config.Metrics.File); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	app.logger.Debug("Metrics written", logging.Fields{
		"metrics_file": app.config.Metrics.File,
	})
	return nil
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context, config *configs.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	if ctx.Verbose || config.Verbose {
		level = logging.DebugLevel
	}
	if ctx.Quiet {
		level = logging.ErrorLevel
	}
	logging.SetLevel(level)

	logger := ctx.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	logging.SetDefault(logger)
	return logger, nil
}

// loadAndMergeConfig loads configuration from viper, overlays the profile
// file and applies CLI overrides
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	config := ctx.Config
	if config == nil {
		base, err := configs.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load base configuration: %w", err)
		}
		config = base
	}

	if ctx.ProfileFile != "" {
		if err := loadProfileFromFile(ctx.ProfileFile, config); err != nil {
			return nil, fmt.Errorf("failed to load codec profile: %w", err)
		}
	}

	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if ctx.Verbose {
		config.Verbose = true
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}
