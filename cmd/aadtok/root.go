package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nupi-ai/aad-tokenizer/internal/config"
)

// rootFlags holds the persistent flags shared by every subcommand, mapped
// onto a config.Config just like config.Loader's env/YAML layers, with
// flags taking final precedence.
type rootFlags struct {
	logLevel    string
	yamlPath    string
	metricsAddr string

	sampleRate  int
	channels    int
	blockSizeMs int
	hopSizeMs   int

	thresholdDB            float64
	minLengthMs            int
	maxLengthMs            int
	maxContinuousSilenceMs int
	initMinMs              int
	initMaxSilenceMs       int
	strictMinLength        bool
	dropTrailingSilence    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "aadtok",
		Short:        "Audio Activity Detection stream tokenizer",
		Version:      version,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.yamlPath, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.metricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (empty disables)")
	pf.IntVar(&flags.sampleRate, "sample-rate", 0, "sampling rate in Hz (0 uses config/default)")
	pf.IntVar(&flags.channels, "channels", 0, "number of input channels")
	pf.IntVar(&flags.blockSizeMs, "block-size-ms", 0, "analysis window size in milliseconds")
	pf.IntVar(&flags.hopSizeMs, "hop-size-ms", 0, "hop size between windows in milliseconds")
	pf.Float64Var(&flags.thresholdDB, "threshold-db", 0, "energy validator threshold in dB")
	pf.IntVar(&flags.minLengthMs, "min-length-ms", 0, "minimum event length in milliseconds")
	pf.IntVar(&flags.maxLengthMs, "max-length-ms", 0, "maximum event length in milliseconds")
	pf.IntVar(&flags.maxContinuousSilenceMs, "max-continuous-silence-ms", 0, "silence tolerance inside a confirmed event")
	pf.IntVar(&flags.initMinMs, "init-min-ms", 0, "activity required to confirm a candidate event")
	pf.IntVar(&flags.initMaxSilenceMs, "init-max-silence-ms", 0, "silence tolerance while confirming a candidate event")
	pf.BoolVar(&flags.strictMinLength, "strict-min-length", false, "discard events shorter than min-length with no exception")
	pf.BoolVar(&flags.dropTrailingSilence, "drop-trailing-silence", false, "truncate emitted events at their last valid frame")

	cmd.AddCommand(newDetectCmd(flags))
	cmd.AddCommand(newRecordCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// resolve loads config.Config from the layered Loader and overlays any
// flags the user actually set on the command line.
func (f *rootFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	loader := config.Loader{YAMLPath: f.yamlPath}
	cfg, err := loader.Load()
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("sample-rate") {
		cfg.SampleRate = f.sampleRate
	}
	if changed("channels") {
		cfg.Channels = f.channels
	}
	if changed("block-size-ms") {
		cfg.BlockSizeMs = f.blockSizeMs
	}
	if changed("hop-size-ms") {
		cfg.HopSizeMs = f.hopSizeMs
	}
	if changed("threshold-db") {
		cfg.ThresholdDB = f.thresholdDB
	}
	if changed("min-length-ms") {
		cfg.MinLengthMs = f.minLengthMs
	}
	if changed("max-length-ms") {
		cfg.MaxLengthMs = f.maxLengthMs
	}
	if changed("max-continuous-silence-ms") {
		cfg.MaxContinuousSilenceMs = f.maxContinuousSilenceMs
	}
	if changed("init-min-ms") {
		cfg.InitMinMs = f.initMinMs
	}
	if changed("init-max-silence-ms") {
		cfg.InitMaxSilenceMs = f.initMaxSilenceMs
	}
	if changed("strict-min-length") {
		cfg.StrictMinLength = f.strictMinLength
	}
	if changed("drop-trailing-silence") {
		cfg.DropTrailingSilence = f.dropTrailingSilence
	}

	return cfg, cfg.Validate()
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
