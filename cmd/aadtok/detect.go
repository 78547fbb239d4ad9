package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nupi-ai/aad-tokenizer/internal/config"
	"github.com/nupi-ai/aad-tokenizer/internal/driver"
	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/metrics"
	"github.com/nupi-ai/aad-tokenizer/internal/sink"
	"github.com/nupi-ai/aad-tokenizer/internal/validate"
)

func newDetectCmd(flags *rootFlags) *cobra.Command {
	var eventPathTemplate string
	var capturePath string
	var concurrency int
	var useDevice bool
	var overlap float64

	cmd := &cobra.Command{
		Use:   "detect [files...]",
		Short: "Tokenize one or more WAV files, or the live input device, into activity events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			if useDevice {
				return detectDevice(cmd, logger, cfg, eventPathTemplate, capturePath, overlap)
			}
			if len(args) == 0 {
				return fmt.Errorf("detect: at least one input file is required (or pass --device)")
			}
			return detectFiles(logger, cfg, args, eventPathTemplate, concurrency, overlap)
		},
	}

	cmd.Flags().StringVar(&eventPathTemplate, "event-path", "", "write each event to a WAV file, e.g. event-{id}-{start}-{end}.wav")
	cmd.Flags().StringVar(&capturePath, "capture", "", "write the entire input stream to this WAV file (device mode only)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "max files tokenized concurrently")
	cmd.Flags().BoolVar(&useDevice, "device", false, "read from the default input device instead of files")
	cmd.Flags().Float64Var(&overlap, "overlap", 0, "fraction of the analysis window consecutive frames overlap by (0 disables, e.g. 0.5 for 50%)")

	return cmd
}

func detectFiles(logger *slog.Logger, cfg config.Config, paths []string, eventPathTemplate string, concurrency int, overlap float64) error {
	blockSize := frame.BlockSizeForDuration(cfg.SampleRate, float64(cfg.BlockSizeMs)/1000)
	hopSize := frame.BlockSizeForDuration(cfg.SampleRate, float64(cfg.HopSizeMs)/1000)
	v := validate.NewEnergyValidator(cfg.ThresholdDB)

	results, err := driver.RunBatch(driver.BatchOptions{
		Paths:       paths,
		Validator:   v,
		Config:      cfg.TokenizerConfig(),
		BlockSize:   blockSize,
		HopSize:     hopSize,
		Concurrency: concurrency,
		Overlap:     overlap,
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			logger.Error("file failed", "path", r.Path, "error", r.Err)
			continue
		}
		logger.Info("file tokenized", "path", r.Path, "events", len(r.Events))
		if eventPathTemplate != "" {
			hopSeconds := float64(cfg.HopSizeMs) / 1000
			s := sink.NewWAVEventSink(perFileTemplate(eventPathTemplate, r.Path), cfg.SampleRate, cfg.Channels, hopSeconds)
			for _, e := range r.Events {
				if err := s.Deliver(e); err != nil {
					logger.Error("failed to write event", "path", r.Path, "error", err)
				}
			}
		}
	}
	return nil
}

func detectDevice(cmd *cobra.Command, logger *slog.Logger, cfg config.Config, eventPathTemplate, capturePath string, overlap float64) error {
	blockSize := frame.BlockSizeForDuration(cfg.SampleRate, float64(cfg.BlockSizeMs)/1000)
	device, err := frame.NewDeviceSource(cfg.SampleRate, cfg.Channels, blockSize, blockSize)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	if closer, ok := device.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	hopSeconds := float64(cfg.HopSizeMs) / 1000
	var src frame.Source = device
	if overlap > 0 {
		src = frame.NewOverlappedWrapper(device, overlap)
		hopSeconds = float64(src.HopSize()) / float64(cfg.SampleRate)
	}

	var capture *sink.StreamCapture
	if capturePath != "" {
		capture, err = sink.NewStreamCapture(capturePath, cfg.SampleRate, cfg.Channels)
		if err != nil {
			return err
		}
		defer capture.Close()
	}

	var eventSink sink.Sink
	if eventPathTemplate != "" {
		eventSink = sink.NewWAVEventSink(eventPathTemplate, cfg.SampleRate, cfg.Channels, hopSeconds)
	}
	logSink, err := sink.NewLogLineSink(cmd.OutOrStdout(), hopSeconds)
	if err != nil {
		return err
	}
	sinks := sink.Multi{logSink}
	if eventSink != nil {
		sinks = append(sinks, eventSink)
	}

	var metricsServer *metrics.Server
	reg := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, reg)
		go func() {
			if err := metricsServer.Run(cmd.Context()); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	logger.Info("listening on default input device", "sample_rate", cfg.SampleRate, "channels", cfg.Channels)
	n, err := driver.Run(driver.Options{
		Source:    src,
		Validator: validate.NewEnergyValidator(cfg.ThresholdDB),
		Config:    cfg.TokenizerConfig(),
		Sink:      sinks,
		Capture:   capture,
		Metrics:   reg,
	})
	logger.Info("detection finished", "events", n)
	return err
}

// perFileTemplate scopes a shared --event-path template to one input file
// by prefixing the template's file name with the input's own base name, so
// a batch run over several files doesn't collide on the same output paths.
func perFileTemplate(template, path string) string {
	dir := filepath.Dir(template)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, base+"-"+filepath.Base(template))
}
