package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/sink"
)

func newRecordCmd(flags *rootFlags) *cobra.Command {
	var durationSeconds float64

	cmd := &cobra.Command{
		Use:   "record <output.wav>",
		Short: "Capture the default input device to a WAV file, with no tokenization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			blockSize := frame.BlockSizeForDuration(cfg.SampleRate, float64(cfg.BlockSizeMs)/1000)
			src, err := frame.NewDeviceSource(cfg.SampleRate, cfg.Channels, blockSize, blockSize)
			if err != nil {
				return fmt.Errorf("record: %w", err)
			}
			if closer, ok := src.(interface{ Close() error }); ok {
				defer closer.Close()
			}

			var bounded frame.Source = src
			if durationSeconds > 0 {
				bounded = frame.NewLimitedDurationWrapper(src, durationSeconds)
			}

			capture, err := sink.NewStreamCapture(args[0], cfg.SampleRate, cfg.Channels)
			if err != nil {
				return err
			}

			logger.Info("recording", "output", args[0], "duration_seconds", durationSeconds)
			for {
				f, err := bounded.Read()
				if err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					capture.Close()
					return err
				}
				if err := capture.Write(f); err != nil {
					capture.Close()
					return err
				}
			}
			logger.Info("recording finished", "output", args[0])
			return capture.Close()
		},
	}

	cmd.Flags().Float64Var(&durationSeconds, "duration", 0, "recording length in seconds (0 means until interrupted)")
	return cmd
}
