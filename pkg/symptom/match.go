package symptom

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// Free-text answers arrive in Portuguese or English, typed on a phone
// keyboard, so keyword detection tolerates small misspellings. Multi-word
// terms are matched as substrings; single words additionally match any token
// with a high Jaro-Winkler similarity.
var (
	sweatingTerms  = []string{"sudorese", "suor", "sweating"}
	dizzinessTerms = []string{"tontura", "desmaio", "vertigem", "dizziness", "fainting"}
	headacheTerms  = []string{"cefaleia", "enxaqueca", "headache", "dor de cabeca", "dor de cabeça"}
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a token to count
// as a keyword match. Tuned so one transposition or dropped letter in a
// medium-length word still matches while short unrelated words do not.
const fuzzyThreshold = 0.92

// containsAnyTerm reports whether the free-text answer mentions any of the
// given terms, exactly or approximately.
func containsAnyTerm(text string, terms []string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	if norm == "" {
		return false
	}
	tokens := splitWords(norm)

	for _, term := range terms {
		if strings.Contains(norm, term) {
			return true
		}
		if strings.ContainsRune(term, ' ') {
			continue
		}
		if len(term) < 5 {
			// Short terms only match exactly; fuzzy matching them
			// produces too many false positives.
			continue
		}
		for _, tok := range tokens {
			if matchr.JaroWinkler(tok, term, false) >= fuzzyThreshold {
				return true
			}
		}
	}
	return false
}

// splitWords lowercases and tokenises free text on non-letter boundaries.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// trivialAnswer reports whether a free-text answer carries no information
// (empty or an explicit "none"). Used to decide whether the medications
// answer warrants a recommendation.
func trivialAnswer(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "não", "nao", "no", "nenhum", "nenhuma", "none", "-":
		return true
	}
	return false
}
