package symptom_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mrezendes/ausculta/pkg/symptom"
)

func newStandardScorer(t *testing.T) *symptom.Scorer {
	t.Helper()
	s, err := symptom.NewScorer(symptom.StandardRuleset())
	if err != nil {
		t.Fatalf("NewScorer(standard): %v", err)
	}
	return s
}

func TestScore_CriticalOverride(t *testing.T) {
	t.Parallel()

	s := newStandardScorer(t)

	// Breathing difficulty plus chest pain bypasses additive scoring no
	// matter what the rest of the questionnaire says.
	cases := []symptom.Answers{
		{"breathing": "Sim", "chest_pain": "Sim"},
		{"breathing": "sim", "chest_pain": "SIM", "pain_intensity": "0", "fever_check": "Não"},
		{"breathing": "yes", "chest_pain": "yes", "symptom_duration": "Mais de 1 semana"},
	}
	for _, ans := range cases {
		got := s.Score(ans)
		if got.Score != 100 {
			t.Errorf("Score(%v).Score=%d, want 100", ans, got.Score)
		}
		if got.Band != symptom.BandCritical {
			t.Errorf("Score(%v).Band=%q, want critical", ans, got.Band)
		}
	}
}

func TestScore_MonotonicInPainIntensity(t *testing.T) {
	t.Parallel()

	s := newStandardScorer(t)
	base := symptom.Answers{
		"breathing":   "Não",
		"chest_pain":  "Não",
		"fever_check": "Sim",
	}

	score := func(pain string) int {
		ans := symptom.Answers{"pain_intensity": pain}
		for k, v := range base {
			ans[k] = v
		}
		return s.Score(ans).Score
	}

	s0, s5, s9 := score("0"), score("5"), score("9")
	if !(s9 >= s5 && s5 >= s0) {
		t.Errorf("scores not monotonic in pain intensity: score(9)=%d score(5)=%d score(0)=%d", s9, s5, s0)
	}
}

func TestScore_AcuteFeverScenario(t *testing.T) {
	t.Parallel()

	ans := symptom.Answers{
		"breathing":        "Não",
		"chest_pain":       "Não",
		"fever_check":      "Sim",
		"pain_intensity":   "9",
		"symptom_duration": "Menos de 1 hora",
	}

	// Standard table: fever 15 + severe pain 20 = 35, which exceeds the
	// acute-onset floor of 20, so the acute bonus of 10 applies: 45 -> high.
	got := newStandardScorer(t).Score(ans)
	if got.Score != 45 {
		t.Errorf("standard Score=%d, want 45", got.Score)
	}
	if got.Band != symptom.BandHigh {
		t.Errorf("standard Band=%q, want high", got.Band)
	}

	// Strict table: fever 20 + severe pain 25 + acute 15 = 60 -> high.
	strict, err := symptom.NewScorer(symptom.StrictRuleset())
	if err != nil {
		t.Fatalf("NewScorer(strict): %v", err)
	}
	got = strict.Score(ans)
	if got.Score != 60 {
		t.Errorf("strict Score=%d, want 60", got.Score)
	}
	if got.Band != symptom.BandHigh {
		t.Errorf("strict Band=%q, want high", got.Band)
	}
}

func TestScore_AcuteBonusNeedsConcerningScore(t *testing.T) {
	t.Parallel()

	s := newStandardScorer(t)

	// Fever alone is 15, below the acute-onset floor, so a short duration
	// adds nothing.
	got := s.Score(symptom.Answers{
		"fever_check":      "Sim",
		"symptom_duration": "Menos de 1 hora",
	})
	if got.Score != 15 {
		t.Errorf("Score=%d, want 15 (no acute bonus below floor)", got.Score)
	}
}

func TestScore_AssociatedSymptomBonuses(t *testing.T) {
	t.Parallel()

	s := newStandardScorer(t)

	cases := []struct {
		name  string
		assoc string
		want  int
	}{
		{"sweating and dizziness in Portuguese", "Tontura e sudorese intensa", 20},
		{"severe headache", "dor de cabeça muito forte", 8},
		{"misspelled dizziness still matches", "muita tontra ao levantar", 10},
		{"misspelled headache still matches", "cefalia constante", 8},
		{"unrelated text matches nothing", "coceira no braço", 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := s.Score(symptom.Answers{"associated_symptoms": tc.assoc})
			if got.Score != tc.want {
				t.Errorf("Score(assoc=%q)=%d, want %d", tc.assoc, got.Score, tc.want)
			}
		})
	}
}

func TestScore_ClampsToHundred(t *testing.T) {
	t.Parallel()

	strict, err := symptom.NewScorer(symptom.StrictRuleset())
	if err != nil {
		t.Fatalf("NewScorer(strict): %v", err)
	}

	got := strict.Score(symptom.Answers{
		"breathing":           "Sim",
		"fever_check":         "Sim",
		"pain_intensity":      "9",
		"symptom_duration":    "Menos de 1 hora",
		"associated_symptoms": "sudorese, tontura e dor de cabeça",
	})
	if got.Score != 100 {
		t.Errorf("Score=%d, want clamp at 100", got.Score)
	}
	if got.Band != symptom.BandCritical {
		t.Errorf("Band=%q, want critical", got.Band)
	}
}

func TestScore_EmptyAnswersAreNeutral(t *testing.T) {
	t.Parallel()

	got := newStandardScorer(t).Score(symptom.Answers{})
	if got.Score != 0 {
		t.Errorf("Score=%d, want 0", got.Score)
	}
	if got.Band != symptom.BandLow {
		t.Errorf("Band=%q, want low", got.Band)
	}
	if len(got.Symptoms) != 0 {
		t.Errorf("Symptoms=%v, want none", got.Symptoms)
	}
	if len(got.Recommendations) == 0 {
		t.Error("Recommendations empty, want at least routine guidance")
	}
}

func TestScore_SymptomExtraction(t *testing.T) {
	t.Parallel()

	got := newStandardScorer(t).Score(symptom.Answers{
		"main_symptom": "Falta de ar ao subir escadas",
		"breathing":    "Sim",
		"fever_check":  "Sim",
	})

	want := []string{
		"Falta de ar ao subir escadas",
		symptom.SymptomRespiratory,
		symptom.SymptomFever,
	}
	if !slices.Equal(got.Symptoms, want) {
		t.Errorf("Symptoms=%v, want %v", got.Symptoms, want)
	}
}

func TestScore_RecommendationAddOns(t *testing.T) {
	t.Parallel()

	s := newStandardScorer(t)

	got := s.Score(symptom.Answers{
		"breathing":   "Sim",
		"medications": "Losartana 50mg",
	})
	if !containsSubstring(got.Recommendations, "sit upright") {
		t.Errorf("Recommendations=%v, want positioning guidance for breathing difficulty", got.Recommendations)
	}
	if !containsSubstring(got.Recommendations, "medications") {
		t.Errorf("Recommendations=%v, want medication list reminder", got.Recommendations)
	}

	got = s.Score(symptom.Answers{"medications": "Não"})
	if containsSubstring(got.Recommendations, "medications") {
		t.Errorf("Recommendations=%v, trivial medications answer must not add reminder", got.Recommendations)
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestAnswers_ScaleMalformed(t *testing.T) {
	t.Parallel()

	ans := symptom.Answers{"pain_intensity": "muito forte"}
	n, err := ans.Scale("pain_intensity")
	if n != 0 {
		t.Errorf("Scale=%d, want 0 for malformed value", n)
	}
	var mae *symptom.MalformedAnswerError
	if !errors.As(err, &mae) {
		t.Fatalf("err=%v, want *MalformedAnswerError", err)
	}
	if mae.Key != "pain_intensity" {
		t.Errorf("Key=%q, want pain_intensity", mae.Key)
	}

	// Malformed values never make scoring fail.
	got := newStandardScorer(t).Score(ans)
	if got.Score != 0 {
		t.Errorf("Score=%d, want 0", got.Score)
	}
}

func TestAnswers_ScaleClamps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int
	}{
		{"15", 10},
		{"-3", 0},
		{"7", 7},
		{" 8 ", 8},
	}
	for _, tc := range cases {
		tc := tc
		ans := symptom.Answers{"pain_intensity": tc.raw}
		n, err := ans.Scale("pain_intensity")
		if err != nil {
			t.Errorf("Scale(%q): unexpected error: %v", tc.raw, err)
		}
		if n != tc.want {
			t.Errorf("Scale(%q)=%d, want %d", tc.raw, n, tc.want)
		}
	}
}

func TestRuleset_BandMappingIsStable(t *testing.T) {
	t.Parallel()

	r := symptom.StandardRuleset()
	cases := []struct {
		score int
		want  symptom.Band
	}{
		{0, symptom.BandLow},
		{24, symptom.BandLow},
		{25, symptom.BandMedium},
		{39, symptom.BandMedium},
		{40, symptom.BandHigh},
		{69, symptom.BandHigh},
		{70, symptom.BandCritical},
		{100, symptom.BandCritical},
	}
	for _, tc := range cases {
		tc := tc
		if got := r.Band(tc.score); got != tc.want {
			t.Errorf("Band(%d)=%q, want %q", tc.score, got, tc.want)
		}
		// Pure function: a second call must agree with the first.
		if again := r.Band(tc.score); again != r.Band(tc.score) {
			t.Errorf("Band(%d) unstable across calls", tc.score)
		}
	}
}

func TestRuleset_Validate(t *testing.T) {
	t.Parallel()

	bad := symptom.StandardRuleset()
	bad.HighCutoff = 90 // above the critical cutoff
	if err := bad.Validate(); err == nil {
		t.Error("Validate: err=nil for inverted cutoffs, want error")
	}

	bad = symptom.StandardRuleset()
	bad.BreathingWeight = -5
	if err := bad.Validate(); err == nil {
		t.Error("Validate: err=nil for negative weight, want error")
	}

	if err := symptom.StandardRuleset().Validate(); err != nil {
		t.Errorf("Validate(standard): unexpected error: %v", err)
	}
	if err := symptom.StrictRuleset().Validate(); err != nil {
		t.Errorf("Validate(strict): unexpected error: %v", err)
	}
}

func TestPresetRuleset(t *testing.T) {
	t.Parallel()

	r, err := symptom.PresetRuleset("strict")
	if err != nil {
		t.Fatalf("PresetRuleset(strict): %v", err)
	}
	if r.Name != "strict" {
		t.Errorf("Name=%q, want strict", r.Name)
	}

	if _, err := symptom.PresetRuleset("lenient"); err == nil {
		t.Error("PresetRuleset(lenient): err=nil, want error")
	}
}

func TestBand_Tier(t *testing.T) {
	t.Parallel()

	tiers := map[symptom.Band]int{
		symptom.BandLow:      0,
		symptom.BandMedium:   1,
		symptom.BandHigh:     2,
		symptom.BandCritical: 3,
	}
	for band, want := range tiers {
		if got := band.Tier(); got != want {
			t.Errorf("%q.Tier()=%d, want %d", band, got, want)
		}
	}
}
