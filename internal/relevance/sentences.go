package relevance

import (
	"regexp"
	"strings"
)

// sentenceBoundary matches sentence-ending punctuation followed by
// whitespace. Splits happen after the punctuation character.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// SplitSentences breaks a flat text blob into sentences using
// punctuation-boundary heuristics. Sentences are trimmed; empty
// fragments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// Cut just after the punctuation character.
		end := loc[0] + 1
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// FilterSentences extracts the sentences of a flat text blob that are
// relevant to the query: a sentence is included when any meaningful
// query token appears in it as a whole word, case-insensitive.
// Sentences keep their original order and duplicates are not removed.
// An empty result signals that no LLM call should follow.
func FilterSentences(text, query string) []string {
	if text == "" || query == "" {
		return nil
	}

	meaningful := meaningfulTokens(Tokenize(query))
	if len(meaningful) == 0 {
		return nil
	}

	matchers := make([]*regexp.Regexp, 0, len(meaningful))
	for token := range meaningful {
		matchers = append(matchers, wholeWord(token))
	}

	var relevant []string
	for _, sentence := range SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, m := range matchers {
			if m.MatchString(lower) {
				relevant = append(relevant, sentence)
				break
			}
		}
	}
	return relevant
}
