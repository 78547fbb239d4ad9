// Package config loads the settings for an aadtok run: tokenizer
// parameters, validator threshold, frame source geometry, and the CLI's
// own ambient settings (log level, metrics endpoint).
package config

import "github.com/nupi-ai/aad-tokenizer/internal/tokenizer"

const (
	DefaultLogLevel               = "info"
	DefaultSampleRate             = 16000
	DefaultChannels               = 1
	DefaultBlockSizeMs            = 10
	DefaultHopSizeMs              = 10
	DefaultThresholdDB            = -45.0
	DefaultMinLengthMs            = 200
	DefaultMaxLengthMs            = 10000
	DefaultMaxContinuousSilenceMs = 300
	DefaultInitMinMs              = 20
	DefaultInitMaxSilenceMs       = 100
	DefaultMetricsAddr            = ""
)

// Config is the full aadtok run configuration.
type Config struct {
	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	SampleRate  int `json:"sample_rate" yaml:"sample_rate" validate:"required,gt=0"`
	Channels    int `json:"channels" yaml:"channels" validate:"required,gt=0"`
	BlockSizeMs int `json:"block_size_ms" yaml:"block_size_ms" validate:"required,gt=0"`
	HopSizeMs   int `json:"hop_size_ms" yaml:"hop_size_ms" validate:"required,gt=0"`

	ThresholdDB float64 `json:"threshold_db" yaml:"threshold_db"`

	MinLengthMs            int  `json:"min_length_ms" yaml:"min_length_ms" validate:"required,gt=0"`
	MaxLengthMs            int  `json:"max_length_ms" yaml:"max_length_ms" validate:"required,gtefield=MinLengthMs"`
	MaxContinuousSilenceMs int  `json:"max_continuous_silence_ms" yaml:"max_continuous_silence_ms" validate:"gte=0"`
	InitMinMs              int  `json:"init_min_ms" yaml:"init_min_ms" validate:"gte=0"`
	InitMaxSilenceMs       int  `json:"init_max_silence_ms" yaml:"init_max_silence_ms" validate:"gte=0"`
	StrictMinLength        bool `json:"strict_min_length" yaml:"strict_min_length"`
	DropTrailingSilence    bool `json:"drop_trailing_silence" yaml:"drop_trailing_silence"`

	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
}

// defaults returns the configuration baseline every Loader starts from.
func defaults() Config {
	return Config{
		LogLevel:               DefaultLogLevel,
		SampleRate:             DefaultSampleRate,
		Channels:               DefaultChannels,
		BlockSizeMs:            DefaultBlockSizeMs,
		HopSizeMs:              DefaultHopSizeMs,
		ThresholdDB:            DefaultThresholdDB,
		MinLengthMs:            DefaultMinLengthMs,
		MaxLengthMs:            DefaultMaxLengthMs,
		MaxContinuousSilenceMs: DefaultMaxContinuousSilenceMs,
		InitMinMs:              DefaultInitMinMs,
		InitMaxSilenceMs:       DefaultInitMaxSilenceMs,
		MetricsAddr:            DefaultMetricsAddr,
	}
}

// TokenizerConfig converts the millisecond-denominated fields into a
// tokenizer.Config in frame units, given the configured hop duration.
func (c Config) TokenizerConfig() tokenizer.Config {
	toFrames := func(ms int) int {
		if ms <= 0 {
			return 0
		}
		frames := ms / c.HopSizeMs
		if frames < 1 {
			frames = 1
		}
		return frames
	}
	var mode tokenizer.Mode
	if c.StrictMinLength {
		mode |= tokenizer.StrictMinLength
	}
	if c.DropTrailingSilence {
		mode |= tokenizer.DropTrailingSilence
	}
	return tokenizer.Config{
		MinLength:            toFrames(c.MinLengthMs),
		MaxLength:            toFrames(c.MaxLengthMs),
		MaxContinuousSilence: toFrames(c.MaxContinuousSilenceMs),
		InitMin:              toFrames(c.InitMinMs),
		InitMaxSilence:       toFrames(c.InitMaxSilenceMs),
		Mode:                 mode,
	}
}
