// Package observe provides application-wide observability primitives for
// Ausculta: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Ausculta metrics.
const meterName = "github.com/mrezendes/ausculta"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// ExtractDuration tracks acoustic feature extraction latency.
	ExtractDuration metric.Float64Histogram

	// ScoreDuration tracks questionnaire scoring latency.
	ScoreDuration metric.Float64Histogram

	// CorrelateDuration tracks cross-modal correlation latency.
	CorrelateDuration metric.Float64Histogram

	// SessionDuration tracks end-to-end triage session latency.
	SessionDuration metric.Float64Histogram

	// --- Counters ---

	// SessionsCompleted counts finished triage sessions. Use with attributes:
	//   attribute.String("band", ...), attribute.String("data_quality", ...)
	SessionsCompleted metric.Int64Counter

	// ModalityMissing counts sessions that ran without a modality. Use with
	// attribute: attribute.String("modality", ...)
	ModalityMissing metric.Int64Counter

	// ConflictsDetected counts cross-modal conflicts flagged by the
	// correlation engine.
	ConflictsDetected metric.Int64Counter

	// --- Error counters ---

	// ExtractionFailures counts audio buffers rejected by the feature
	// extractor. Use with attribute: attribute.String("reason", ...)
	ExtractionFailures metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of triage sessions in flight.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for analysis-pipeline latencies.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ExtractDuration, err = m.Float64Histogram("ausculta.extract.duration",
		metric.WithDescription("Latency of acoustic feature extraction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ScoreDuration, err = m.Float64Histogram("ausculta.score.duration",
		metric.WithDescription("Latency of questionnaire scoring."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CorrelateDuration, err = m.Float64Histogram("ausculta.correlate.duration",
		metric.WithDescription("Latency of cross-modal correlation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SessionDuration, err = m.Float64Histogram("ausculta.session.duration",
		metric.WithDescription("End-to-end triage session latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.SessionsCompleted, err = m.Int64Counter("ausculta.sessions.completed",
		metric.WithDescription("Total completed triage sessions by band and data quality."),
	); err != nil {
		return nil, err
	}
	if met.ModalityMissing, err = m.Int64Counter("ausculta.modality.missing",
		metric.WithDescription("Total sessions that ran without a modality, by modality."),
	); err != nil {
		return nil, err
	}
	if met.ConflictsDetected, err = m.Int64Counter("ausculta.conflicts.detected",
		metric.WithDescription("Total cross-modal conflicts flagged by the correlation engine."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.ExtractionFailures, err = m.Int64Counter("ausculta.extraction.failures",
		metric.WithDescription("Total audio buffers rejected by the feature extractor, by reason."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("ausculta.active_sessions",
		metric.WithDescription("Number of triage sessions in flight."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("ausculta.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordSessionCompleted is a convenience method that records a completed
// session counter increment with the standard attribute set.
func (m *Metrics) RecordSessionCompleted(ctx context.Context, band, dataQuality string) {
	m.SessionsCompleted.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("band", band),
			attribute.String("data_quality", dataQuality),
		),
	)
}

// RecordModalityMissing is a convenience method that records a missing
// modality counter increment.
func (m *Metrics) RecordModalityMissing(ctx context.Context, modality string) {
	m.ModalityMissing.Add(ctx, 1,
		metric.WithAttributes(attribute.String("modality", modality)),
	)
}

// RecordExtractionFailure is a convenience method that records a rejected
// audio buffer counter increment.
func (m *Metrics) RecordExtractionFailure(ctx context.Context, reason string) {
	m.ExtractionFailures.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}
