// Package config provides the configuration schema and loader for the
// Ausculta triage core.
package config

import (
	"log/slog"

	"github.com/mrezendes/ausculta/pkg/fusion"
	"github.com/mrezendes/ausculta/pkg/symptom"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level converts l to its slog equivalent. Unknown levels map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the root configuration structure, typically loaded from a YAML
// file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Audio   AudioConfig   `yaml:"audio"`
	Scoring ScoringConfig `yaml:"scoring"`
	Fusion  FusionConfig  `yaml:"fusion"`
}

// ServerConfig holds logging and operational-endpoint settings.
type ServerConfig struct {
	// OpsAddr is the TCP address for the metrics and health listener
	// (e.g., ":9090"). Empty disables the listener.
	OpsAddr string `yaml:"ops_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// AudioConfig holds analysis settings for the acoustic pipeline.
type AudioConfig struct {
	// SampleRate is the sample rate assumed for raw PCM input, in Hz.
	SampleRate int `yaml:"sample_rate"`

	// WindowCap bounds the FFT size used by the feature extractor. Rounded
	// down to a power of two at analysis time.
	WindowCap int `yaml:"window_cap"`
}

// ScoringConfig selects the questionnaire weighting table: a named preset,
// or a full inline ruleset override.
type ScoringConfig struct {
	// Preset names a built-in table: "standard" or "strict". Ignored when
	// Ruleset is set.
	Preset string `yaml:"preset"`

	// Ruleset overrides the preset with an explicit table.
	Ruleset *RulesetConfig `yaml:"ruleset"`
}

// RulesetConfig is the YAML shape of a custom scoring table.
type RulesetConfig struct {
	Name               string `yaml:"name"`
	BreathingWeight    int    `yaml:"breathing_weight"`
	ChestPainWeight    int    `yaml:"chest_pain_weight"`
	FeverWeight        int    `yaml:"fever_weight"`
	PainSevereWeight   int    `yaml:"pain_severe_weight"`
	PainModerateWeight int    `yaml:"pain_moderate_weight"`
	PainMildWeight     int    `yaml:"pain_mild_weight"`
	AcuteOnsetBonus    int    `yaml:"acute_onset_bonus"`
	AcuteOnsetFloor    int    `yaml:"acute_onset_floor"`
	SweatingBonus      int    `yaml:"sweating_bonus"`
	DizzinessBonus     int    `yaml:"dizziness_bonus"`
	HeadacheBonus      int    `yaml:"headache_bonus"`
	CriticalCutoff     int    `yaml:"critical_cutoff"`
	HighCutoff         int    `yaml:"high_cutoff"`
	MediumCutoff       int    `yaml:"medium_cutoff"`
}

// FusionConfig tunes the correlation engine's comparison thresholds. Zero
// values fall back to the engine defaults.
type FusionConfig struct {
	ElevatedStress int `yaml:"elevated_stress"`
	StressGap      int `yaml:"stress_gap"`
	CalmStress     int `yaml:"calm_stress"`
	HighHeartRate  int `yaml:"high_heart_rate"`
	HeartRateMax   int `yaml:"heart_rate_max"`
	HeartRateMin   int `yaml:"heart_rate_min"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset fields in place.
func applyDefaults(cfg *Config) {
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.WindowCap == 0 {
		cfg.Audio.WindowCap = 2048
	}
	if cfg.Scoring.Preset == "" && cfg.Scoring.Ruleset == nil {
		cfg.Scoring.Preset = "standard"
	}
}

// BuildRuleset resolves the scoring configuration into a validated
// [symptom.Ruleset].
func (c ScoringConfig) BuildRuleset() (symptom.Ruleset, error) {
	if c.Ruleset != nil {
		r := symptom.Ruleset{
			Name:               c.Ruleset.Name,
			BreathingWeight:    c.Ruleset.BreathingWeight,
			ChestPainWeight:    c.Ruleset.ChestPainWeight,
			FeverWeight:        c.Ruleset.FeverWeight,
			PainSevereWeight:   c.Ruleset.PainSevereWeight,
			PainModerateWeight: c.Ruleset.PainModerateWeight,
			PainMildWeight:     c.Ruleset.PainMildWeight,
			AcuteOnsetBonus:    c.Ruleset.AcuteOnsetBonus,
			AcuteOnsetFloor:    c.Ruleset.AcuteOnsetFloor,
			SweatingBonus:      c.Ruleset.SweatingBonus,
			DizzinessBonus:     c.Ruleset.DizzinessBonus,
			HeadacheBonus:      c.Ruleset.HeadacheBonus,
			CriticalCutoff:     c.Ruleset.CriticalCutoff,
			HighCutoff:         c.Ruleset.HighCutoff,
			MediumCutoff:       c.Ruleset.MediumCutoff,
		}
		if r.Name == "" {
			r.Name = "custom"
		}
		return r, r.Validate()
	}
	return symptom.PresetRuleset(c.Preset)
}

// Tolerances converts the fusion configuration into engine tolerances.
// Unset fields stay zero so the engine applies its defaults.
func (c FusionConfig) Tolerances() fusion.Tolerances {
	return fusion.Tolerances{
		ElevatedStress: c.ElevatedStress,
		StressGap:      c.StressGap,
		CalmStress:     c.CalmStress,
		HighHeartRate:  c.HighHeartRate,
		HeartRateMax:   c.HeartRateMax,
		HeartRateMin:   c.HeartRateMin,
	}
}
