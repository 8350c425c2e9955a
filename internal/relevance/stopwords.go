package relevance

// stopWords is the closed list of English function words, pronouns,
// auxiliary verbs, and contraction fragments excluded from relevance
// matching. A query made up entirely of these words never triggers an
// LLM call.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "an", "the", "and", "or", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "can", "could", "will", "would",
		"shall", "should", "may", "might", "must", "it's", "don't", "i'm", "you're",
		"he's", "she's", "we're", "they're", "isn't", "aren't", "wasn't", "weren't",
		"haven't", "hasn't", "hadn't", "doesn't", "didn't", "can't", "couldn't",
		"won't", "wouldn't", "shan't", "shouldn't", "mayn't", "mightn't", "mustn't",
		"you", "i", "he", "she", "it", "we", "they", "this", "that", "these", "those",
		"my", "your", "his", "her", "its", "our", "their", "here", "there", "what",
		"where", "when", "why", "how", "who", "whom", "whose", "with", "without",
		"to", "from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
		"further", "then", "once",
		"all", "any", "both", "each", "few", "many", "more", "most", "some", "such",
		"no", "nor", "not", "only", "own", "same", "so", "than", "too", "very",
		"s", "t", "m", "d", "ll", "re", "ve", "y",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether the lowercased token is on the stop-word list.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
