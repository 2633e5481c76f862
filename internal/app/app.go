// Package app wires all Ausculta subsystems into a runnable application.
//
// New builds the full analysis pipeline from configuration: the acoustic
// feature extractor, the questionnaire scorer, the correlation engine, and
// the session runner that orchestrates them. When an operational address is
// configured, the App also serves health probes and Prometheus metrics.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrezendes/ausculta/internal/config"
	"github.com/mrezendes/ausculta/internal/health"
	"github.com/mrezendes/ausculta/internal/observe"
	"github.com/mrezendes/ausculta/internal/session"
	"github.com/mrezendes/ausculta/pkg/acoustic"
	"github.com/mrezendes/ausculta/pkg/fusion"
	"github.com/mrezendes/ausculta/pkg/symptom"
)

// App owns the triage pipeline and the optional operational HTTP listener.
type App struct {
	cfg     *config.Config
	metrics *observe.Metrics
	scorer  *symptom.Scorer
	runner  *session.Runner

	// ops is nil when server.ops_addr is not configured.
	ops *http.Server

	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithMetrics injects a metrics instance instead of using the package-level
// default. Tests use this to avoid cross-test pollution of the global meter.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New assembles the application from cfg. The config must already be
// validated; New still surfaces ruleset errors because an injected custom
// table can be structurally valid YAML yet semantically broken.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	rules, err := cfg.Scoring.BuildRuleset()
	if err != nil {
		return nil, fmt.Errorf("app: build ruleset: %w", err)
	}
	scorer, err := symptom.NewScorer(rules)
	if err != nil {
		return nil, fmt.Errorf("app: create scorer: %w", err)
	}
	a.scorer = scorer

	a.runner = session.NewRunner(
		acoustic.NewExtractorWithWindow(cfg.Audio.WindowCap),
		scorer,
		fusion.NewEngine(cfg.Fusion.Tolerances()),
		a.metrics,
	)

	if cfg.Server.OpsAddr != "" {
		a.ops = &http.Server{
			Addr:              cfg.Server.OpsAddr,
			Handler:           a.OpsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// Triage runs one triage session through the pipeline.
func (a *App) Triage(ctx context.Context, in session.Input) (*session.Report, error) {
	return a.runner.Run(ctx, in)
}

// Ruleset returns the active scoring table.
func (a *App) Ruleset() symptom.Ruleset {
	return a.scorer.Rules()
}

// OpsHandler builds the operational endpoint handler: /healthz, /readyz, and
// the Prometheus /metrics scrape target, all behind the tracing middleware.
func (a *App) OpsHandler() http.Handler {
	mux := http.NewServeMux()

	h := health.New(
		health.Checker{Name: "ruleset", Check: func(_ context.Context) error {
			return a.scorer.Rules().Validate()
		}},
	)
	h.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(a.metrics)(mux)
}

// StartOps starts the operational listener in the background. It is a no-op
// when server.ops_addr is not configured.
func (a *App) StartOps() {
	if a.ops == nil {
		return
	}
	go func() {
		slog.Info("ops listener starting", "addr", a.ops.Addr)
		if err := a.ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ops listener error", "err", err)
		}
	}()
}

// Shutdown stops the operational listener, respecting the context deadline.
// Safe to call multiple times and with no listener configured.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	a.stopOnce.Do(func() {
		if a.ops != nil {
			err = a.ops.Shutdown(ctx)
		}
	})
	return err
}
