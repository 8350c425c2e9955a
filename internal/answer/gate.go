// Package answer classifies raw LLM responses as usable or not.
package answer

import (
	"strings"
	"unicode/utf8"
)

// Canonical is the caller-facing replacement for an unhelpful response.
const Canonical = "I cannot provide a helpful response based on the available information."

// minHelpfulLen is the shortest trimmed response considered usable.
const minHelpfulLen = 15

// unhelpfulPhrases are boilerplate fragments that mark a response as
// not actually answering the question, regardless of length.
var unhelpfulPhrases = []string{
	"sorry, i am unable",
	"cannot provide a helpful response",
	"no information available",
	"based on the text provided",
	"information is not available",
}

// Unhelpful reports whether a raw LLM response fails the quality gate:
// empty, shorter than 15 trimmed characters, or containing a known
// boilerplate phrase.
func Unhelpful(response string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(response)) < minHelpfulLen {
		return true
	}
	lower := strings.ToLower(response)
	for _, phrase := range unhelpfulPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Filter returns the caller-facing response: the raw response when it
// passes the gate, Canonical otherwise. Whether the LLM was invoked at
// all is tracked by the caller, not here.
func Filter(response string) string {
	if Unhelpful(response) {
		return Canonical
	}
	return response
}
