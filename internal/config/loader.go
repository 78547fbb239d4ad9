package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags against Config (required fields, ordering
// between MinLengthMs/MaxLengthMs, allowed LogLevel values).
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Loader loads configuration layered defaults -> JSON env blob -> individual
// env var overrides -> YAML file -> Validate. Tests can override Lookup to
// inject a deterministic environment.
type Loader struct {
	Lookup func(string) (string, bool)
	// YAMLPath, if non-empty, is read and merged over the env-derived
	// config before validation. It is applied last, so its fields take
	// precedence over both the JSON blob and individual env vars.
	YAMLPath string
}

// Load builds the final Config.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := defaults()

	if raw, ok := l.Lookup("AADTOK_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "AADTOK_LOG_LEVEL", &cfg.LogLevel)
	if err := overrideInt(l.Lookup, "AADTOK_SAMPLE_RATE", &cfg.SampleRate); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_CHANNELS", &cfg.Channels); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_BLOCK_SIZE_MS", &cfg.BlockSizeMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_HOP_SIZE_MS", &cfg.HopSizeMs); err != nil {
		return Config{}, err
	}
	if err := overrideFloat(l.Lookup, "AADTOK_THRESHOLD_DB", &cfg.ThresholdDB); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_MIN_LENGTH_MS", &cfg.MinLengthMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_MAX_LENGTH_MS", &cfg.MaxLengthMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_MAX_CONTINUOUS_SILENCE_MS", &cfg.MaxContinuousSilenceMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_INIT_MIN_MS", &cfg.InitMinMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "AADTOK_INIT_MAX_SILENCE_MS", &cfg.InitMaxSilenceMs); err != nil {
		return Config{}, err
	}
	overrideString(l.Lookup, "AADTOK_METRICS_ADDR", &cfg.MetricsAddr)

	if l.YAMLPath != "" {
		if err := applyYAMLFile(l.YAMLPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configPayload mirrors Config with pointer fields so a JSON/YAML layer can
// distinguish "not present" from "explicitly zero" — MaxContinuousSilenceMs,
// InitMinMs and InitMaxSilenceMs are all spec-legal at 0, so a plain Config
// payload would silently drop an explicit 0 back to the default.
type configPayload struct {
	LogLevel *string `json:"log_level" yaml:"log_level"`

	SampleRate  *int `json:"sample_rate" yaml:"sample_rate"`
	Channels    *int `json:"channels" yaml:"channels"`
	BlockSizeMs *int `json:"block_size_ms" yaml:"block_size_ms"`
	HopSizeMs   *int `json:"hop_size_ms" yaml:"hop_size_ms"`

	ThresholdDB *float64 `json:"threshold_db" yaml:"threshold_db"`

	MinLengthMs            *int  `json:"min_length_ms" yaml:"min_length_ms"`
	MaxLengthMs            *int  `json:"max_length_ms" yaml:"max_length_ms"`
	MaxContinuousSilenceMs *int  `json:"max_continuous_silence_ms" yaml:"max_continuous_silence_ms"`
	InitMinMs              *int  `json:"init_min_ms" yaml:"init_min_ms"`
	InitMaxSilenceMs       *int  `json:"init_max_silence_ms" yaml:"init_max_silence_ms"`
	StrictMinLength        *bool `json:"strict_min_length" yaml:"strict_min_length"`
	DropTrailingSilence    *bool `json:"drop_trailing_silence" yaml:"drop_trailing_silence"`

	MetricsAddr *string `json:"metrics_addr" yaml:"metrics_addr"`
}

func applyJSON(raw string, cfg *Config) error {
	var payload configPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode AADTOK_CONFIG: %w", err)
	}
	applyPayload(cfg, payload)
	return nil
}

func applyYAMLFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var payload configPayload
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	applyPayload(cfg, payload)
	return nil
}

// applyPayload overlays every present (non-nil) field of patch onto cfg.
// A field left absent from the JSON/YAML document keeps cfg's current
// value; a field present with a zero value (e.g. max_continuous_silence_ms:
// 0) overwrites it, since presence, not zero-ness, is what distinguishes
// "set" from "unset" here.
func applyPayload(cfg *Config, patch configPayload) {
	if patch.LogLevel != nil {
		cfg.LogLevel = *patch.LogLevel
	}
	if patch.SampleRate != nil {
		cfg.SampleRate = *patch.SampleRate
	}
	if patch.Channels != nil {
		cfg.Channels = *patch.Channels
	}
	if patch.BlockSizeMs != nil {
		cfg.BlockSizeMs = *patch.BlockSizeMs
	}
	if patch.HopSizeMs != nil {
		cfg.HopSizeMs = *patch.HopSizeMs
	}
	if patch.ThresholdDB != nil {
		cfg.ThresholdDB = *patch.ThresholdDB
	}
	if patch.MinLengthMs != nil {
		cfg.MinLengthMs = *patch.MinLengthMs
	}
	if patch.MaxLengthMs != nil {
		cfg.MaxLengthMs = *patch.MaxLengthMs
	}
	if patch.MaxContinuousSilenceMs != nil {
		cfg.MaxContinuousSilenceMs = *patch.MaxContinuousSilenceMs
	}
	if patch.InitMinMs != nil {
		cfg.InitMinMs = *patch.InitMinMs
	}
	if patch.InitMaxSilenceMs != nil {
		cfg.InitMaxSilenceMs = *patch.InitMaxSilenceMs
	}
	if patch.StrictMinLength != nil {
		cfg.StrictMinLength = *patch.StrictMinLength
	}
	if patch.DropTrailingSilence != nil {
		cfg.DropTrailingSilence = *patch.DropTrailingSilence
	}
	if patch.MetricsAddr != nil {
		cfg.MetricsAddr = *patch.MetricsAddr
	}
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideFloat(lookup func(string) (string, bool), key string, target *float64) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
