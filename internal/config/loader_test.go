package config_test

import (
	"strings"
	"testing"

	"github.com/mrezendes/ausculta/internal/config"
)

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()

	const doc = `
server:
  ops_addr: ":9090"
  log_level: debug
audio:
  sample_rate: 44100
  window_cap: 4096
scoring:
  preset: strict
fusion:
  high_heart_rate: 110
  heart_rate_min: 35
  heart_rate_max: 190
`
	cfg, err := config.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: unexpected error: %v", err)
	}

	if cfg.Server.OpsAddr != ":9090" {
		t.Errorf("Server.OpsAddr=%q, want :9090", cfg.Server.OpsAddr)
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("Server.LogLevel=%q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate=%d, want 44100", cfg.Audio.SampleRate)
	}

	rules, err := cfg.Scoring.BuildRuleset()
	if err != nil {
		t.Fatalf("BuildRuleset: %v", err)
	}
	if rules.Name != "strict" {
		t.Errorf("ruleset name=%q, want strict", rules.Name)
	}

	tol := cfg.Fusion.Tolerances()
	if tol.HighHeartRate != 110 {
		t.Errorf("Tolerances.HighHeartRate=%d, want 110", tol.HighHeartRate)
	}
}

func TestLoadFromReader_EmptyDocumentGetsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: unexpected error: %v", err)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("LogLevel=%q, want default info", cfg.Server.LogLevel)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate=%d, want default 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.WindowCap != 2048 {
		t.Errorf("WindowCap=%d, want default 2048", cfg.Audio.WindowCap)
	}
	if cfg.Scoring.Preset != "standard" {
		t.Errorf("Scoring.Preset=%q, want default standard", cfg.Scoring.Preset)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("server:\n  listen_port: 8080\n"))
	if err == nil {
		t.Fatal("LoadFromReader: err=nil for unknown field, want error")
	}
}

func TestLoadFromReader_InvalidValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bad log level",
			doc:  "server:\n  log_level: verbose\n",
			want: "log_level",
		},
		{
			name: "negative sample rate",
			doc:  "audio:\n  sample_rate: -1\n",
			want: "sample_rate",
		},
		{
			name: "unknown preset",
			doc:  "scoring:\n  preset: lenient\n",
			want: "preset",
		},
		{
			name: "inverted heart-rate bounds",
			doc:  "fusion:\n  heart_rate_min: 200\n  heart_rate_max: 100\n",
			want: "heart_rate_min",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatalf("LoadFromReader: err=nil, want error mentioning %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err=%q, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadFromReader_InlineRulesetOverride(t *testing.T) {
	t.Parallel()

	const doc = `
scoring:
  ruleset:
    name: pilot
    breathing_weight: 35
    chest_pain_weight: 30
    fever_weight: 18
    pain_severe_weight: 22
    pain_moderate_weight: 12
    pain_mild_weight: 6
    acute_onset_bonus: 12
    acute_onset_floor: 20
    sweating_bonus: 10
    dizziness_bonus: 10
    headache_bonus: 8
    critical_cutoff: 75
    high_cutoff: 45
    medium_cutoff: 25
`
	cfg, err := config.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: unexpected error: %v", err)
	}
	rules, err := cfg.Scoring.BuildRuleset()
	if err != nil {
		t.Fatalf("BuildRuleset: %v", err)
	}
	if rules.Name != "pilot" {
		t.Errorf("ruleset name=%q, want pilot", rules.Name)
	}
	if rules.BreathingWeight != 35 {
		t.Errorf("BreathingWeight=%d, want 35", rules.BreathingWeight)
	}
	if rules.CriticalCutoff != 75 {
		t.Errorf("CriticalCutoff=%d, want 75", rules.CriticalCutoff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := config.Load("/nonexistent/ausculta.yaml"); err == nil {
		t.Error("Load: err=nil for missing file, want error")
	}
}
