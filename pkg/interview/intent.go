package interview

import "strings"

// Intent is the classification of a caller utterance against the fixed
// screening vocabulary.
type Intent string

const (
	IntentNegative    Intent = "negative"
	IntentAffirmative Intent = "affirmative"
	IntentFresher     Intent = "fresher"
	IntentExperienced Intent = "experienced"
	IntentUnknown     Intent = "unknown"
)

// Keyword sets are data so tests can enumerate them. Matching is substring
// containment on the case-folded, trimmed utterance. Negative is checked
// before affirmative: "not interested" must decline even though it also
// contains "interested".
var (
	NegativeKeywords    = []string{"no", "not", "nah", "nope"}
	AffirmativeKeywords = []string{"yes", "yeah", "sure", "interested", "ok"}
	FresherKeywords     = []string{"fresher", "fresh", "student"}
	ExperiencedKeywords = []string{"experience", "experienced", "worked"}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ClassifyInterest maps an utterance to negative, affirmative, or unknown.
func ClassifyInterest(text string) Intent {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case containsAny(text, NegativeKeywords):
		return IntentNegative
	case containsAny(text, AffirmativeKeywords):
		return IntentAffirmative
	}
	return IntentUnknown
}

// ClassifyExperience maps an utterance to fresher, experienced, or unknown.
// "fresher" wins when both vocabularies match, mirroring check order.
func ClassifyExperience(text string) Intent {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case containsAny(text, FresherKeywords):
		return IntentFresher
	case containsAny(text, ExperiencedKeywords):
		return IntentExperienced
	}
	return IntentUnknown
}
