package relevance

import (
	"regexp"
	"strings"

	"webagent/pkg/models"
)

// tokenPattern matches letter and digit runs in any script.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize splits a query into lowercased alphanumeric word tokens.
func Tokenize(query string) []string {
	return tokenPattern.FindAllString(strings.ToLower(query), -1)
}

// meaningfulTokens returns the set of query tokens that survive
// stop-word removal.
func meaningfulTokens(tokens []string) map[string]struct{} {
	meaningful := make(map[string]struct{})
	for _, token := range tokens {
		if !IsStopWord(token) {
			meaningful[token] = struct{}{}
		}
	}
	return meaningful
}

// wholeWord compiles a case-already-folded whole-word matcher for a token.
// RE2's \b only knows ASCII word characters, so the boundary is spelled
// out as the absence of an adjacent letter or digit. Keeps "cat" from
// matching "category" in any script.
func wholeWord(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?:\A|[^\p{L}\p{N}])` + regexp.QuoteMeta(token) + `(?:[^\p{L}\p{N}]|\z)`)
}

// FilterPages decides which pages are relevant to a free-text query.
// A page is relevant if any meaningful query token appears as a whole
// word in the page's combined heading+paragraph text, case-insensitive.
// Relevant pages keep their input order; no scoring is performed.
//
// The second return value is true only when at least one page matched
// on a non-stop-word token. Queries with no tokens, or only stop-word
// tokens, match nothing: this is a binary gate that exists to avoid
// invoking the LLM with irrelevant context.
func FilterPages(pages []models.PageContent, query string) ([]models.PageContent, bool) {
	tokens := Tokenize(query)
	if len(pages) == 0 || len(tokens) == 0 {
		return nil, false
	}

	meaningful := meaningfulTokens(tokens)
	if len(meaningful) == 0 {
		return nil, false
	}

	matchers := make([]*regexp.Regexp, 0, len(meaningful))
	for token := range meaningful {
		matchers = append(matchers, wholeWord(token))
	}

	var relevant []models.PageContent
	matchFound := false
	for _, page := range pages {
		blob := strings.ToLower(page.Text())
		for _, m := range matchers {
			if m.MatchString(blob) {
				relevant = append(relevant, page)
				matchFound = true
				break
			}
		}
	}
	return relevant, matchFound
}
