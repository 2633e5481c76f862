// Package symptom scores a structured triage questionnaire into a 0-100
// urgency assessment.
//
// The scorer is data-driven: all weights and band cutoffs live in a [Ruleset]
// injected at construction, so the two historical weighting tables ship as
// the [StandardRuleset] and [StrictRuleset] presets instead of being baked
// into the code. Scoring is deterministic and total: missing or malformed
// answers are treated as absent, never as a fatal condition.
package symptom

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known questionnaire keys. The scorer reads these; any other keys are
// carried by the answer set but ignored.
const (
	KeyBreathing     = "breathing"
	KeyChestPain     = "chest_pain"
	KeyFever         = "fever_check"
	KeyPainIntensity = "pain_intensity"
	KeyDuration      = "symptom_duration"
	KeyMainSymptom   = "main_symptom"
	KeyMedications   = "medications"
	KeyAssociated    = "associated_symptoms"
)

// Answers is an immutable mapping of question identifier to the raw answer
// text collected by the questionnaire UI. Yes/no questions answer "Sim"/"Não"
// (English "yes"/"no" is also accepted); scale questions answer decimal
// digits.
type Answers map[string]string

// Yes reports whether the answer for key is an affirmative.
func (a Answers) Yes(key string) bool {
	switch strings.ToLower(strings.TrimSpace(a[key])) {
	case "sim", "yes":
		return true
	}
	return false
}

// Scale parses the 0-10 integer scale answer for key. A missing key returns
// (0, nil); a present but non-numeric value returns 0 together with a
// [*MalformedAnswerError] so the caller can decide whether to surface it.
// Values outside [0, 10] are clamped.
func (a Answers) Scale(key string) (int, error) {
	raw, ok := a[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &MalformedAnswerError{Key: key, Value: raw}
	}
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n, nil
}

// MalformedAnswerError reports a questionnaire answer whose value could not
// be interpreted for its question type. It is always recovered locally by
// treating the answer as absent.
type MalformedAnswerError struct {
	Key   string
	Value string
}

func (e *MalformedAnswerError) Error() string {
	return fmt.Sprintf("symptom: malformed answer for %q: %q", e.Key, e.Value)
}
