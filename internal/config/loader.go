package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", cfg.Audio.SampleRate))
	}
	if cfg.Audio.WindowCap < 2 {
		errs = append(errs, fmt.Errorf("audio.window_cap must be at least 2, got %d", cfg.Audio.WindowCap))
	} else if cfg.Audio.WindowCap&(cfg.Audio.WindowCap-1) != 0 {
		// Not fatal: the extractor rounds down to a power of two, but the
		// operator probably meant the rounded value.
		slog.Warn("audio.window_cap is not a power of two; the extractor will round it down",
			"window_cap", cfg.Audio.WindowCap)
	}

	if _, err := cfg.Scoring.BuildRuleset(); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}

	if cfg.Fusion.HeartRateMin < 0 || cfg.Fusion.HeartRateMax < 0 {
		errs = append(errs, fmt.Errorf("fusion heart-rate bounds must not be negative, got min=%d max=%d",
			cfg.Fusion.HeartRateMin, cfg.Fusion.HeartRateMax))
	}
	if cfg.Fusion.HeartRateMin > 0 && cfg.Fusion.HeartRateMax > 0 &&
		cfg.Fusion.HeartRateMin >= cfg.Fusion.HeartRateMax {
		errs = append(errs, fmt.Errorf("fusion.heart_rate_min (%d) must be below fusion.heart_rate_max (%d)",
			cfg.Fusion.HeartRateMin, cfg.Fusion.HeartRateMax))
	}

	return errors.Join(errs...)
}
