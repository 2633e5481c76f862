package acoustic

import (
	"math"
	"time"
)

// EmotionalState is the coarse emotional label inferred from voice features.
type EmotionalState string

const (
	EmotionNeutral    EmotionalState = "neutral"
	EmotionSadness    EmotionalState = "sadness"
	EmotionAnxiety    EmotionalState = "anxiety"
	EmotionExcitement EmotionalState = "excitement"
	EmotionStress     EmotionalState = "stress"
)

// BreathingPattern is the breathing label inferred from voice features.
type BreathingPattern string

const (
	BreathingNormal  BreathingPattern = "normal"
	BreathingShallow BreathingPattern = "shallow"
	BreathingLabored BreathingPattern = "labored"
	BreathingWeak    BreathingPattern = "weak"
)

// VoiceQuality is the voice-quality label inferred from voice features.
type VoiceQuality string

const (
	VoiceClear  VoiceQuality = "clear"
	VoiceRough  VoiceQuality = "rough"
	VoiceHoarse VoiceQuality = "hoarse"
	VoiceWeak   VoiceQuality = "weak"
)

// Assessment is the classifier's output for one recording.
type Assessment struct {
	// StressLevel is an accumulated score clamped to [0, 10].
	StressLevel int

	// EmotionalState is the first matching emotional rule.
	EmotionalState EmotionalState

	// BreathingPattern is the inferred breathing label.
	BreathingPattern BreathingPattern

	// VoiceQuality is the inferred voice-quality label.
	VoiceQuality VoiceQuality

	// Confidence is always within [0.70, 0.95].
	Confidence float64
}

const (
	confidenceFloor = 0.70
	confidenceCap   = 0.95
)

// Classify maps a feature vector to an Assessment. It is a total function:
// every vector, including the all-zero vector of a silent recording, yields a
// label at or above the confidence floor.
func Classify(fv FeatureVector) Assessment {
	if degenerate(fv) {
		return Assessment{
			StressLevel:      0,
			EmotionalState:   EmotionNeutral,
			BreathingPattern: BreathingNormal,
			VoiceQuality:     VoiceClear,
			Confidence:       confidenceFloor,
		}
	}

	a := Assessment{
		StressLevel:      stressLevel(fv),
		BreathingPattern: breathingPattern(fv),
		VoiceQuality:     voiceQuality(fv),
	}
	a.EmotionalState = emotionalState(fv, a.StressLevel)
	a.Confidence = confidence(fv)
	return a
}

// degenerate reports whether fv carries no usable signal at all, as produced
// by a silent (all-zero) recording. Such vectors would otherwise trip the
// low-pitch/low-loudness sadness rule.
func degenerate(fv FeatureVector) bool {
	if fv.PitchHz != 0 || fv.Loudness != 0 || fv.SpectralCentroidHz != 0 || fv.ZeroCrossingRate != 0 {
		return false
	}
	for _, b := range fv.BandEnergies {
		if b != 0 {
			return false
		}
	}
	return true
}

// stressLevel accumulates independent stress indicators and clamps to [0, 10].
func stressLevel(fv FeatureVector) int {
	level := 0
	if fv.PitchHz < 80 || fv.PitchHz > 200 {
		level += 2
	}
	if fv.Loudness > 0.5 {
		level++
	}
	if fv.ZeroCrossingRate > 0.10 {
		level++
	}
	if bandInstability(fv.BandEnergies) > 0.02 {
		level++
	}
	if level > 10 {
		level = 10
	}
	return level
}

// bandInstability is the mean absolute successive difference across band
// energies, a proxy for spectral instability.
func bandInstability(bands [NumBands]float64) float64 {
	var sum float64
	for i := 1; i < NumBands; i++ {
		sum += math.Abs(bands[i] - bands[i-1])
	}
	return sum / float64(NumBands-1)
}

// emotionalState evaluates the emotion rules in order; the first match wins.
func emotionalState(fv FeatureVector, stress int) EmotionalState {
	switch {
	case fv.PitchHz < 100 && fv.Loudness < 0.2:
		return EmotionSadness
	case fv.PitchHz > 180 && fv.Loudness > 0.4:
		return EmotionAnxiety
	case fv.PitchHz > 150 && fv.SpectralCentroidHz > 1000:
		return EmotionExcitement
	case stress > 6:
		return EmotionStress
	default:
		return EmotionNeutral
	}
}

func breathingPattern(fv FeatureVector) BreathingPattern {
	switch {
	case fv.Duration < 2*time.Second:
		return BreathingShallow
	case fv.ZeroCrossingRate < 0.02:
		return BreathingLabored
	case fv.Loudness < 0.1:
		return BreathingWeak
	default:
		return BreathingNormal
	}
}

func voiceQuality(fv FeatureVector) VoiceQuality {
	switch {
	case fv.ZeroCrossingRate > 0.08:
		return VoiceRough
	case fv.SpectralCentroidHz < 500:
		return VoiceHoarse
	case fv.Loudness < 0.15:
		return VoiceWeak
	default:
		return VoiceClear
	}
}

// confidence starts at the floor and rewards signal qualities that make the
// other labels trustworthy.
func confidence(fv FeatureVector) float64 {
	c := confidenceFloor
	if fv.Loudness > 0.1 {
		c += 0.10
	}
	if fv.Duration > time.Second {
		c += 0.10
	}
	if fv.PitchHz > 80 && fv.PitchHz < 300 {
		c += 0.10
	}
	if c > confidenceCap {
		c = confidenceCap
	}
	return c
}
