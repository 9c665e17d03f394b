package interview

import "strings"

// Sufficient reports whether a narrative answer was spoken at sufficient
// length: at least 8 sentences (split on . ! ?) or at least 50 words.
// This is a cheap length proxy, not a semantic check; the thresholds are
// part of the screening contract.
func Sufficient(text string) bool {
	sentences := 0
	for _, frag := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(frag) != "" {
			sentences++
		}
	}
	return sentences >= 8 || len(strings.Fields(text)) >= 50
}
