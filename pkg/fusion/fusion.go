// Package fusion reconciles per-modality triage results into one consolidated
// assessment.
//
// The engine consumes up to three modality results: the acoustic voice
// assessment, an externally supplied facial/biometric telemetry result, and
// the questionnaire urgency assessment. Any subset may be present; the engine
// never fails on missing input, it downgrades the reported data quality
// instead. Correlation is pure and deterministic, so independent sessions can
// run it concurrently.
package fusion

import (
	"fmt"

	"github.com/mrezendes/ausculta/pkg/acoustic"
	"github.com/mrezendes/ausculta/pkg/symptom"
)

// FacialBiometric is the output contract of the external facial-telemetry
// collaborator. The engine requires only these fields; everything else the
// collaborator produces is opaque to this core.
type FacialBiometric struct {
	// HeartRate in beats per minute.
	HeartRate int

	// StressLevel on a 0-10 scale.
	StressLevel int

	// Confidence on either a 0-1 or 0-100 scale; normalised on use.
	Confidence float64
}

// Input carries the optional modality results for one session. A nil field
// means the modality was not captured.
type Input struct {
	Acoustic *acoustic.Assessment
	Facial   *FacialBiometric
	Symptoms *symptom.Assessment
}

// present counts how many modalities the input carries.
func (in Input) present() int {
	n := 0
	if in.Acoustic != nil {
		n++
	}
	if in.Facial != nil {
		n++
	}
	if in.Symptoms != nil {
		n++
	}
	return n
}

// DataQuality labels how many of the three modalities were available.
type DataQuality string

const (
	QualityComplete DataQuality = "complete"
	QualityGood     DataQuality = "good"
	QualityPartial  DataQuality = "partial"
)

// Reliability grades how much the cross-modal agreement can be trusted.
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// Overall is the holistic urgency verdict. Its numeric score lives on a
// coarse small-integer scale, deliberately independent from the
// questionnaire scorer's 0-100 scale.
type Overall struct {
	Band   symptom.Band
	Score  int
	Action string
}

// Consensus records per-pair agreement between modalities. A flag is
// vacuously true when one of its modalities is absent.
type Consensus struct {
	// Stress is true when voice and face agree on elevated-vs-not stress.
	Stress bool

	// Emotional is true when the detected emotional state is not flatly
	// contradicted by the biometric readings.
	Emotional bool

	// Urgency is true when the questionnaire band and the holistic band
	// fall in the same or an adjacent tier.
	Urgency bool
}

// Consolidated is the engine's output: one immutable assessment per triage
// session.
type Consolidated struct {
	Overall          Overall
	ConsistencyScore int
	Reliability      Reliability
	Consensus        Consensus

	// ConflictingMetrics are advisory explanations of cross-modal
	// disagreements, intended for human review.
	ConflictingMetrics []string

	// Outliers flag single metrics outside physiologically plausible
	// ranges.
	Outliers []string

	// Confidence is the mean of the present modalities' own confidences on
	// a 0-100 scale.
	Confidence int

	DataQuality DataQuality
}

// Tolerances holds the thresholds the engine compares modalities against.
type Tolerances struct {
	// ElevatedStress is the 0-10 stress level at or above which a modality
	// counts as "elevated" for consensus purposes.
	ElevatedStress int

	// StressGap is the voice/face stress difference beyond which the pair
	// is flagged as conflicting.
	StressGap int

	// CalmStress is the level at or below which a voice reads as calm.
	CalmStress int

	// HighHeartRate marks an elevated heart rate in bpm.
	HighHeartRate int

	// HeartRateMax and HeartRateMin bound the physiologically plausible
	// heart-rate range; readings outside are reported as outliers.
	HeartRateMax int
	HeartRateMin int
}

// DefaultTolerances returns the thresholds used when no configuration
// overrides them.
func DefaultTolerances() Tolerances {
	return Tolerances{
		ElevatedStress: 6,
		StressGap:      3,
		CalmStress:     3,
		HighHeartRate:  100,
		HeartRateMax:   180,
		HeartRateMin:   40,
	}
}

// Engine correlates modality results. Safe for concurrent use; tolerances
// are fixed at construction.
type Engine struct {
	tol Tolerances
}

// NewEngine creates an Engine with the given tolerances. Zero-valued
// threshold fields fall back to their defaults.
func NewEngine(tol Tolerances) *Engine {
	def := DefaultTolerances()
	if tol.ElevatedStress <= 0 {
		tol.ElevatedStress = def.ElevatedStress
	}
	if tol.StressGap <= 0 {
		tol.StressGap = def.StressGap
	}
	if tol.CalmStress <= 0 {
		tol.CalmStress = def.CalmStress
	}
	if tol.HighHeartRate <= 0 {
		tol.HighHeartRate = def.HighHeartRate
	}
	if tol.HeartRateMax <= 0 {
		tol.HeartRateMax = def.HeartRateMax
	}
	if tol.HeartRateMin <= 0 {
		tol.HeartRateMin = def.HeartRateMin
	}
	return &Engine{tol: tol}
}

// Correlate fuses the present modalities into a Consolidated assessment. It
// never fails: with no modalities at all it still returns a well-formed
// result with partial data quality.
func (e *Engine) Correlate(in Input) Consolidated {
	out := Consolidated{
		Overall:     e.overallUrgency(in),
		Confidence:  combinedConfidence(in),
		DataQuality: dataQuality(in.present()),
	}

	consistency := 100
	consistency -= e.checkStressAgreement(in, &out)
	consistency -= e.checkBiometricOutliers(in, &out)
	consistency -= e.checkQuestionnaireAgreement(in, &out)
	if consistency < 0 {
		consistency = 0
	}
	out.ConsistencyScore = consistency

	out.Consensus = Consensus{
		Stress:    e.stressConsensus(in),
		Emotional: e.emotionalConsensus(in),
		Urgency:   e.urgencyConsensus(in, out.Overall.Band),
	}
	out.Reliability = reliability(consistency, in.present())

	return out
}

// overallUrgency recomputes urgency holistically across modalities on a
// coarse scale: the questionnaire contributes its score collapsed to 0-10,
// and elevated sensor readings add small increments on top.
func (e *Engine) overallUrgency(in Input) Overall {
	score := 0
	if in.Symptoms != nil {
		score = in.Symptoms.Score / 10
	}
	if in.Acoustic != nil && in.Acoustic.StressLevel > 7 {
		score += 3
	}
	if in.Facial != nil {
		if in.Facial.StressLevel > 7 {
			score += 2
		}
		if in.Facial.HeartRate > e.tol.HighHeartRate {
			score += 2
		}
	}

	var band symptom.Band
	switch {
	case score >= 8:
		band = symptom.BandCritical
	case score >= 5:
		band = symptom.BandHigh
	case score >= 2:
		band = symptom.BandMedium
	default:
		band = symptom.BandLow
	}
	return Overall{Band: band, Score: score, Action: actionText(band)}
}

// actionText returns the short guidance attached to an overall band.
func actionText(band symptom.Band) string {
	switch band {
	case symptom.BandCritical:
		return "Seek emergency care immediately."
	case symptom.BandHigh:
		return "Seek urgent medical attention within hours."
	case symptom.BandMedium:
		return "Arrange a medical consultation within 24-48 hours."
	default:
		return "Continue routine monitoring."
	}
}

// combinedConfidence averages the present modalities' confidences on a 0-100
// scale. The questionnaire contributes a fixed 85: structured answers are
// more dependable than probabilistic sensing but not infallible.
func combinedConfidence(in Input) int {
	var sum float64
	var n int
	if in.Acoustic != nil {
		sum += in.Acoustic.Confidence * 100
		n++
	}
	if in.Facial != nil {
		sum += normalizeConfidence(in.Facial.Confidence)
		n++
	}
	if in.Symptoms != nil {
		sum += 85
		n++
	}
	if n == 0 {
		return 0
	}
	return int(sum/float64(n) + 0.5)
}

// normalizeConfidence accepts either a 0-1 or 0-100 confidence scale and
// returns 0-100.
func normalizeConfidence(c float64) float64 {
	if c <= 1 {
		c *= 100
	}
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func dataQuality(present int) DataQuality {
	switch present {
	case 3:
		return QualityComplete
	case 2:
		return QualityGood
	default:
		return QualityPartial
	}
}

// checkStressAgreement compares the voice and face stress signals and
// returns the consistency penalty.
func (e *Engine) checkStressAgreement(in Input, out *Consolidated) int {
	if in.Acoustic == nil || in.Facial == nil {
		return 0
	}
	penalty := 0

	gap := in.Acoustic.StressLevel - in.Facial.StressLevel
	if gap < 0 {
		gap = -gap
	}
	if gap > e.tol.StressGap {
		penalty += 25
		out.ConflictingMetrics = append(out.ConflictingMetrics,
			fmt.Sprintf("voice stress (%d/10) and facial stress (%d/10) diverge beyond tolerance",
				in.Acoustic.StressLevel, in.Facial.StressLevel))
	}

	if in.Acoustic.StressLevel <= e.tol.CalmStress && in.Facial.HeartRate > e.tol.HighHeartRate {
		penalty += 20
		out.ConflictingMetrics = append(out.ConflictingMetrics,
			fmt.Sprintf("voice indicates calm but facial heart rate is elevated (%d bpm)",
				in.Facial.HeartRate))
	}

	return penalty
}

// checkBiometricOutliers flags physiologically implausible facial readings.
func (e *Engine) checkBiometricOutliers(in Input, out *Consolidated) int {
	if in.Facial == nil {
		return 0
	}
	penalty := 0
	hr := in.Facial.HeartRate
	if hr > e.tol.HeartRateMax || (hr > 0 && hr < e.tol.HeartRateMin) {
		penalty += 10
		out.Outliers = append(out.Outliers,
			fmt.Sprintf("heart rate %d bpm is outside the plausible %d-%d range",
				hr, e.tol.HeartRateMin, e.tol.HeartRateMax))
	}
	return penalty
}

// checkQuestionnaireAgreement compares the questionnaire's urgency band with
// the sensor stress signals.
func (e *Engine) checkQuestionnaireAgreement(in Input, out *Consolidated) int {
	if in.Symptoms == nil {
		return 0
	}
	penalty := 0
	urgent := in.Symptoms.Band == symptom.BandHigh || in.Symptoms.Band == symptom.BandCritical

	if in.Facial != nil {
		if urgent && in.Facial.StressLevel <= 2 {
			penalty += 15
			out.ConflictingMetrics = append(out.ConflictingMetrics,
				"questionnaire reports urgent symptoms but facial biometric stress is low")
		}
		if in.Symptoms.Band == symptom.BandLow && in.Facial.StressLevel >= 8 {
			penalty += 15
			out.ConflictingMetrics = append(out.ConflictingMetrics,
				"questionnaire reports mild symptoms but facial biometric stress is very high")
		}
	}
	if in.Acoustic != nil && urgent && in.Acoustic.StressLevel <= 2 {
		penalty += 10
		out.ConflictingMetrics = append(out.ConflictingMetrics,
			"questionnaire reports urgent symptoms but the voice sounds calm")
	}
	return penalty
}

// stressConsensus is true when voice and face agree on elevated-vs-not, and
// vacuously true when either is absent.
func (e *Engine) stressConsensus(in Input) bool {
	if in.Acoustic == nil || in.Facial == nil {
		return true
	}
	return (in.Acoustic.StressLevel >= e.tol.ElevatedStress) ==
		(in.Facial.StressLevel >= e.tol.ElevatedStress)
}

// emotionalConsensus is false only when the voice emotion and the biometric
// stress level flatly contradict each other.
func (e *Engine) emotionalConsensus(in Input) bool {
	if in.Acoustic == nil || in.Facial == nil {
		return true
	}
	agitated := in.Acoustic.EmotionalState == acoustic.EmotionAnxiety ||
		in.Acoustic.EmotionalState == acoustic.EmotionStress
	if agitated && in.Facial.StressLevel <= 2 {
		return false
	}
	if in.Acoustic.EmotionalState == acoustic.EmotionNeutral && in.Facial.StressLevel >= 8 {
		return false
	}
	return true
}

// urgencyConsensus is true when the questionnaire band sits within one tier
// of the holistic band, and vacuously true without a questionnaire.
func (e *Engine) urgencyConsensus(in Input, overall symptom.Band) bool {
	if in.Symptoms == nil {
		return true
	}
	diff := in.Symptoms.Band.Tier() - overall.Tier()
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// reliability grades the consistency score, requiring corroboration from at
// least two modalities before calling the result highly reliable.
func reliability(consistency, present int) Reliability {
	switch {
	case consistency >= 80 && present >= 2:
		return ReliabilityHigh
	case consistency < 50:
		return ReliabilityLow
	default:
		return ReliabilityMedium
	}
}
