package symptom

import (
	"fmt"
	"strings"
)

// Canonical symptom names surfaced in assessments for affirmative cardinal
// answers.
const (
	SymptomRespiratory = "respiratory difficulty"
	SymptomChestPain   = "chest pain"
	SymptomFever       = "fever"
)

// Assessment is the scorer's output for one completed questionnaire.
type Assessment struct {
	// Score is the clamped urgency score in [0, 100].
	Score int

	// Band is derived from Score through the ruleset cutoffs.
	Band Band

	// Symptoms lists the extracted symptoms: the free-text main symptom plus
	// canonical names for affirmative cardinal answers. Order is stable.
	Symptoms []string

	// Recommendations is band-selected guidance plus symptom-specific
	// add-ons, most urgent first.
	Recommendations []string
}

// Scorer evaluates questionnaires against an injected [Ruleset]. Safe for
// concurrent use; the ruleset is fixed at construction.
type Scorer struct {
	rules Ruleset
}

// NewScorer creates a Scorer after validating the ruleset.
func NewScorer(rules Ruleset) (*Scorer, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("symptom: invalid ruleset %q: %w", rules.Name, err)
	}
	return &Scorer{rules: rules}, nil
}

// Rules returns the ruleset the scorer was built with.
func (s *Scorer) Rules() Ruleset { return s.rules }

// Score evaluates one answer set. Deterministic and total: missing keys are
// neutral and malformed values count as zero.
func (s *Scorer) Score(ans Answers) Assessment {
	r := s.rules
	breathing := ans.Yes(KeyBreathing)
	chest := ans.Yes(KeyChestPain)
	fever := ans.Yes(KeyFever)

	var score int
	if breathing && chest {
		// Respiratory distress combined with chest pain bypasses additive
		// scoring entirely.
		score = 100
	} else {
		if breathing {
			score += r.BreathingWeight
		}
		if chest {
			score += r.ChestPainWeight
		}
		if fever {
			score += r.FeverWeight
		}

		pain, _ := ans.Scale(KeyPainIntensity) // malformed counts as 0
		switch {
		case pain >= 8:
			score += r.PainSevereWeight
		case pain >= 6:
			score += r.PainModerateWeight
		case pain >= 4:
			score += r.PainMildWeight
		}

		// Acute short-onset symptoms escalate an already concerning score.
		if acuteOnset(ans[KeyDuration]) && score > r.AcuteOnsetFloor {
			score += r.AcuteOnsetBonus
		}

		assoc := ans[KeyAssociated]
		if containsAnyTerm(assoc, sweatingTerms) {
			score += r.SweatingBonus
		}
		if containsAnyTerm(assoc, dizzinessTerms) {
			score += r.DizzinessBonus
		}
		if containsAnyTerm(assoc, headacheTerms) {
			score += r.HeadacheBonus
		}

		if score > 100 {
			score = 100
		}
		if score < 0 {
			score = 0
		}
	}

	band := r.Band(score)
	return Assessment{
		Score:           score,
		Band:            band,
		Symptoms:        extractSymptoms(ans, breathing, chest, fever),
		Recommendations: s.recommendations(ans, band, breathing),
	}
}

// acuteOnset reports whether the duration answer falls in the shortest
// bucket ("menos de 1 hora" / "menos de 1 dia" / "less than ...").
func acuteOnset(duration string) bool {
	d := strings.ToLower(strings.TrimSpace(duration))
	return strings.HasPrefix(d, "menos de 1") || strings.HasPrefix(d, "less than")
}

// extractSymptoms builds the stable-ordered symptom list: main symptom
// first, then canonical names for affirmative answers.
func extractSymptoms(ans Answers, breathing, chest, fever bool) []string {
	var out []string
	if main := strings.TrimSpace(ans[KeyMainSymptom]); main != "" {
		out = append(out, main)
	}
	if breathing {
		out = append(out, SymptomRespiratory)
	}
	if chest {
		out = append(out, SymptomChestPain)
	}
	if fever {
		out = append(out, SymptomFever)
	}
	return out
}

// recommendations selects band guidance and appends symptom-specific
// add-ons.
func (s *Scorer) recommendations(ans Answers, band Band, breathing bool) []string {
	var out []string
	switch band {
	case BandCritical:
		out = append(out,
			"Call emergency services (SAMU 192) or go to the nearest emergency department immediately.",
			"Do not drive yourself; have someone stay with you until help arrives.")
	case BandHigh:
		out = append(out, "Seek urgent care within the next few hours.")
	case BandMedium:
		out = append(out, "Schedule a medical appointment within the next 24-48 hours.")
	default:
		out = append(out, "Monitor your symptoms; routine self-care is appropriate.")
	}

	if breathing {
		out = append(out, "While waiting for care, sit upright and loosen tight clothing.")
	}
	if !trivialAnswer(ans[KeyMedications]) {
		out = append(out, "Bring a complete list of your current medications.")
	}
	return out
}
