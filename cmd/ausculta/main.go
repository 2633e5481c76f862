// Command ausculta runs one non-clinical triage session from the command
// line: it analyses a voice recording, scores questionnaire answers, folds in
// externally collected facial telemetry, and prints the consolidated
// assessment.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrezendes/ausculta/internal/app"
	"github.com/mrezendes/ausculta/internal/config"
	"github.com/mrezendes/ausculta/internal/observe"
	"github.com/mrezendes/ausculta/internal/session"
	"github.com/mrezendes/ausculta/pkg/audio"
	"github.com/mrezendes/ausculta/pkg/fusion"
	"github.com/mrezendes/ausculta/pkg/symptom"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	audioPath := flag.String("audio", "", "path to a raw signed 16-bit little-endian PCM recording")
	rate := flag.Int("rate", 0, "sample rate of the recording in Hz (overrides audio.sample_rate)")
	answersPath := flag.String("answers", "", "path to a YAML file of questionnaire answers")
	facialPath := flag.String("facial", "", "path to a YAML file of facial telemetry readings")
	asJSON := flag.Bool("json", false, "print the report as JSON instead of a table")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ausculta: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry providers ───────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "ausculta",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Application ───────────────────────────────────────────────────────────
	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}
	application.StartOps()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := application.Shutdown(sctx); err != nil {
			slog.Warn("shutdown error", "err", err)
		}
	}()

	// ── Session input ─────────────────────────────────────────────────────────
	in, err := buildInput(cfg, *audioPath, *rate, *answersPath, *facialPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ausculta: %v\n", err)
		return 1
	}
	if in.Audio == nil && in.Answers == nil && in.Facial == nil {
		if cfg.Server.OpsAddr != "" {
			// Nothing to triage; keep serving health and metrics until
			// interrupted.
			slog.Info("no session input given, serving ops endpoints", "addr", cfg.Server.OpsAddr)
			<-ctx.Done()
			return 0
		}
		fmt.Fprintln(os.Stderr, "ausculta: nothing to do; provide -audio, -answers, or -facial (see -help)")
		return 2
	}

	// ── Triage ────────────────────────────────────────────────────────────────
	report, err := application.Triage(ctx, in)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 1
		}
		slog.Error("triage failed", "err", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			slog.Error("encode report", "err", err)
			return 1
		}
		return 0
	}
	fmt.Println(renderReport(report))
	return 0
}

// buildInput assembles the session input from the file flags. Absent flags
// leave the corresponding modality nil.
func buildInput(cfg *config.Config, audioPath string, rate int, answersPath, facialPath string) (session.Input, error) {
	var in session.Input

	if audioPath != "" {
		data, err := os.ReadFile(audioPath)
		if err != nil {
			return in, fmt.Errorf("read audio: %w", err)
		}
		if rate == 0 {
			rate = cfg.Audio.SampleRate
		}
		buf, err := audio.FromPCM16(data, rate)
		if err != nil {
			return in, err
		}
		in.Audio = &buf
	}

	if answersPath != "" {
		ans, err := loadAnswers(answersPath)
		if err != nil {
			return in, err
		}
		in.Answers = ans
	}

	if facialPath != "" {
		fb, err := loadFacial(facialPath)
		if err != nil {
			return in, err
		}
		in.Facial = fb
	}

	return in, nil
}

// loadAnswers reads a flat YAML mapping of question keys to answer strings.
func loadAnswers(path string) (symptom.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var ans map[string]string
	if err := yaml.Unmarshal(data, &ans); err != nil {
		return nil, fmt.Errorf("parse answers %q: %w", path, err)
	}
	return symptom.Answers(ans), nil
}

// facialFile is the YAML shape of an externally collected telemetry reading.
type facialFile struct {
	HeartRate   int     `yaml:"heart_rate"`
	StressLevel int     `yaml:"stress_level"`
	Confidence  float64 `yaml:"confidence"`
}

// loadFacial reads a facial telemetry reading from a YAML file.
func loadFacial(path string) (*fusion.FacialBiometric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facial telemetry: %w", err)
	}
	var f facialFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse facial telemetry %q: %w", path, err)
	}
	return &fusion.FacialBiometric{
		HeartRate:   f.HeartRate,
		StressLevel: f.StressLevel,
		Confidence:  f.Confidence,
	}, nil
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level.Level(),
	}))
}
