package symptom

import (
	"errors"
	"fmt"
)

// Band is the ordinal triage category derived from a numeric urgency score.
type Band string

const (
	BandLow      Band = "low"
	BandMedium   Band = "medium"
	BandHigh     Band = "high"
	BandCritical Band = "critical"
)

// Tier returns the ordinal position of the band, from 0 (low) to 3
// (critical). Unknown bands map to 0.
func (b Band) Tier() int {
	switch b {
	case BandMedium:
		return 1
	case BandHigh:
		return 2
	case BandCritical:
		return 3
	}
	return 0
}

// IsValid reports whether b is a recognised band.
func (b Band) IsValid() bool {
	switch b {
	case BandLow, BandMedium, BandHigh, BandCritical:
		return true
	}
	return false
}

// Ruleset is the weighting and threshold table driving the scorer. Two
// presets exist ([StandardRuleset], [StrictRuleset]); deployments may also
// supply a custom table through configuration.
type Ruleset struct {
	// Name identifies the table in logs and reports.
	Name string

	// Weights for affirmative answers to the three cardinal questions.
	BreathingWeight int
	ChestPainWeight int
	FeverWeight     int

	// Graduated pain-intensity weights for the fixed >=8 / >=6 / >=4
	// thresholds. Only the highest matching threshold applies.
	PainSevereWeight   int
	PainModerateWeight int
	PainMildWeight     int

	// AcuteOnsetBonus is added when symptoms started within the shortest
	// duration bucket and the running score already exceeds AcuteOnsetFloor.
	AcuteOnsetBonus int
	AcuteOnsetFloor int

	// Additive bonuses for associated symptoms found in free text.
	SweatingBonus  int
	DizzinessBonus int
	HeadacheBonus  int

	// Band cutoffs: score >= CriticalCutoff is critical, >= HighCutoff is
	// high, >= MediumCutoff is medium, anything below is low.
	CriticalCutoff int
	HighCutoff     int
	MediumCutoff   int
}

// StandardRuleset returns the default weighting table.
func StandardRuleset() Ruleset {
	return Ruleset{
		Name:               "standard",
		BreathingWeight:    30,
		ChestPainWeight:    25,
		FeverWeight:        15,
		PainSevereWeight:   20,
		PainModerateWeight: 10,
		PainMildWeight:     5,
		AcuteOnsetBonus:    10,
		AcuteOnsetFloor:    20,
		SweatingBonus:      10,
		DizzinessBonus:     10,
		HeadacheBonus:      8,
		CriticalCutoff:     70,
		HighCutoff:         40,
		MediumCutoff:       25,
	}
}

// StrictRuleset returns the stricter weighting table, which escalates the
// cardinal symptoms harder and raises the high/medium cutoffs.
func StrictRuleset() Ruleset {
	return Ruleset{
		Name:               "strict",
		BreathingWeight:    50,
		ChestPainWeight:    40,
		FeverWeight:        20,
		PainSevereWeight:   25,
		PainModerateWeight: 15,
		PainMildWeight:     10,
		AcuteOnsetBonus:    15,
		AcuteOnsetFloor:    20,
		SweatingBonus:      10,
		DizzinessBonus:     10,
		HeadacheBonus:      8,
		CriticalCutoff:     70,
		HighCutoff:         50,
		MediumCutoff:       30,
	}
}

// PresetRuleset returns the named preset table.
func PresetRuleset(name string) (Ruleset, error) {
	switch name {
	case "", "standard":
		return StandardRuleset(), nil
	case "strict":
		return StrictRuleset(), nil
	}
	return Ruleset{}, fmt.Errorf("symptom: unknown ruleset preset %q", name)
}

// Validate checks the table for internal coherence and returns a joined
// error listing every problem found.
func (r Ruleset) Validate() error {
	var errs []error

	nonNegative := map[string]int{
		"breathing weight":     r.BreathingWeight,
		"chest pain weight":    r.ChestPainWeight,
		"fever weight":         r.FeverWeight,
		"severe pain weight":   r.PainSevereWeight,
		"moderate pain weight": r.PainModerateWeight,
		"mild pain weight":     r.PainMildWeight,
		"acute onset bonus":    r.AcuteOnsetBonus,
		"sweating bonus":       r.SweatingBonus,
		"dizziness bonus":      r.DizzinessBonus,
		"headache bonus":       r.HeadacheBonus,
	}
	for name, v := range nonNegative {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}

	if r.PainSevereWeight < r.PainModerateWeight || r.PainModerateWeight < r.PainMildWeight {
		errs = append(errs, fmt.Errorf("pain weights must not decrease with intensity: severe=%d moderate=%d mild=%d",
			r.PainSevereWeight, r.PainModerateWeight, r.PainMildWeight))
	}
	if !(r.CriticalCutoff > r.HighCutoff && r.HighCutoff > r.MediumCutoff && r.MediumCutoff > 0) {
		errs = append(errs, fmt.Errorf("band cutoffs must descend critical > high > medium > 0, got %d/%d/%d",
			r.CriticalCutoff, r.HighCutoff, r.MediumCutoff))
	}
	if r.CriticalCutoff > 100 {
		errs = append(errs, fmt.Errorf("critical cutoff must be reachable on a 0-100 scale, got %d", r.CriticalCutoff))
	}

	return errors.Join(errs...)
}

// Band maps a clamped score to its triage band. Pure function of the cutoff
// table: calling it twice on the same score always yields the same band.
func (r Ruleset) Band(score int) Band {
	switch {
	case score >= r.CriticalCutoff:
		return BandCritical
	case score >= r.HighCutoff:
		return BandHigh
	case score >= r.MediumCutoff:
		return BandMedium
	default:
		return BandLow
	}
}
