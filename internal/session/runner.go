// Package session orchestrates one triage session: it fans the captured
// modalities out to their analysers, waits for all of them, and hands the
// per-modality results to the correlation engine for consolidation.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrezendes/ausculta/internal/observe"
	"github.com/mrezendes/ausculta/pkg/acoustic"
	"github.com/mrezendes/ausculta/pkg/audio"
	"github.com/mrezendes/ausculta/pkg/fusion"
	"github.com/mrezendes/ausculta/pkg/symptom"
)

// Input carries the modalities captured for one session. Any field may be
// absent; the session still completes with degraded data quality.
type Input struct {
	// Audio is the voice recording to analyse. Nil when no recording was
	// captured.
	Audio *audio.Buffer

	// Answers holds the questionnaire responses. Nil when the questionnaire
	// was skipped.
	Answers symptom.Answers

	// Facial is the externally collected facial/biometric telemetry. Nil
	// when the collaborator did not deliver a result.
	Facial *fusion.FacialBiometric
}

// Report is the complete outcome of one triage session.
type Report struct {
	// SessionID uniquely identifies this session in logs and metrics.
	SessionID string

	StartedAt time.Time
	Duration  time.Duration

	// Features holds the raw acoustic feature vector. Nil when no usable
	// audio was supplied.
	Features *acoustic.FeatureVector

	// Per-modality results. Nil fields mirror the input: a modality that was
	// absent or unusable produces no result.
	Acoustic *acoustic.Assessment
	Symptoms *symptom.Assessment
	Facial   *fusion.FacialBiometric

	// Consolidated is the cross-modal assessment. Always populated, even
	// when every modality is missing.
	Consolidated fusion.Consolidated

	// Warnings lists non-fatal problems encountered while analysing, such as
	// a recording too short to extract features from.
	Warnings []string
}

// Runner executes triage sessions. Safe for concurrent use; all collaborators
// are fixed at construction and are themselves concurrency-safe.
type Runner struct {
	extractor *acoustic.Extractor
	scorer    *symptom.Scorer
	engine    *fusion.Engine
	metrics   *observe.Metrics
}

// NewRunner assembles a Runner from its pipeline stages.
func NewRunner(extractor *acoustic.Extractor, scorer *symptom.Scorer, engine *fusion.Engine, m *observe.Metrics) *Runner {
	return &Runner{
		extractor: extractor,
		scorer:    scorer,
		engine:    engine,
		metrics:   m,
	}
}

// Run executes one triage session. The audio analysis and questionnaire
// scoring run concurrently; correlation waits for both.
//
// A recording that is too short to analyse degrades the session instead of
// failing it: the acoustic modality is dropped, a warning is recorded, and
// correlation proceeds with whatever remains. Any other analysis error aborts
// the session.
func (r *Runner) Run(ctx context.Context, in Input) (*Report, error) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "triage.session")
	defer span.End()

	rep := &Report{
		SessionID: uuid.NewString(),
		StartedAt: start,
		Facial:    in.Facial,
	}
	log := observe.Logger(ctx).With("session_id", rep.SessionID)

	r.metrics.ActiveSessions.Add(ctx, 1)
	defer r.metrics.ActiveSessions.Add(ctx, -1)

	var audioWarning string

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if in.Audio == nil {
			return nil
		}
		if err := egCtx.Err(); err != nil {
			return err
		}
		stageStart := time.Now()
		fv, err := r.extractor.Extract(*in.Audio)
		r.metrics.ExtractDuration.Record(egCtx, time.Since(stageStart).Seconds())
		if err != nil {
			var insufficient *audio.InsufficientDataError
			if errors.As(err, &insufficient) {
				r.metrics.RecordExtractionFailure(egCtx, "insufficient_data")
				audioWarning = fmt.Sprintf("audio dropped: %v", err)
				return nil
			}
			r.metrics.RecordExtractionFailure(egCtx, "invalid_input")
			return fmt.Errorf("session: extract features: %w", err)
		}
		assessment := acoustic.Classify(fv)
		rep.Features = &fv
		rep.Acoustic = &assessment
		return nil
	})

	eg.Go(func() error {
		if in.Answers == nil {
			return nil
		}
		if err := egCtx.Err(); err != nil {
			return err
		}
		stageStart := time.Now()
		assessment := r.scorer.Score(in.Answers)
		r.metrics.ScoreDuration.Record(egCtx, time.Since(stageStart).Seconds())
		rep.Symptoms = &assessment
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if audioWarning != "" {
		rep.Warnings = append(rep.Warnings, audioWarning)
		log.Warn("acoustic modality dropped", "reason", audioWarning)
	}

	r.recordMissingModalities(ctx, rep)

	corrStart := time.Now()
	rep.Consolidated = r.engine.Correlate(fusion.Input{
		Acoustic: rep.Acoustic,
		Facial:   rep.Facial,
		Symptoms: rep.Symptoms,
	})
	r.metrics.CorrelateDuration.Record(ctx, time.Since(corrStart).Seconds())

	if n := len(rep.Consolidated.ConflictingMetrics); n > 0 {
		r.metrics.ConflictsDetected.Add(ctx, int64(n))
	}

	rep.Duration = time.Since(start)
	r.metrics.SessionDuration.Record(ctx, rep.Duration.Seconds())
	r.metrics.RecordSessionCompleted(ctx,
		string(rep.Consolidated.Overall.Band), string(rep.Consolidated.DataQuality))

	log.Info("session completed",
		"band", rep.Consolidated.Overall.Band,
		"score", rep.Consolidated.Overall.Score,
		"data_quality", rep.Consolidated.DataQuality,
		"consistency", rep.Consolidated.ConsistencyScore,
		"reliability", rep.Consolidated.Reliability,
		"duration", rep.Duration,
	)
	return rep, nil
}

// recordMissingModalities bumps the missing-modality counter once per absent
// modality so dashboards can track capture coverage.
func (r *Runner) recordMissingModalities(ctx context.Context, rep *Report) {
	missing := make([]string, 0, 3)
	if rep.Acoustic == nil {
		missing = append(missing, "acoustic")
	}
	if rep.Facial == nil {
		missing = append(missing, "facial")
	}
	if rep.Symptoms == nil {
		missing = append(missing, "questionnaire")
	}
	for _, m := range missing {
		r.metrics.RecordModalityMissing(ctx, m)
	}
}
