// Package markdown detects markdown/plain-text page bodies and splits
// them into heading-delimited sections.
package markdown

import (
	"regexp"
	"strings"

	"webagent/pkg/models"
)

var (
	atxHeading  = regexp.MustCompile(`^(#{1,6})\s+(\S.*)$`)
	listMarker  = regexp.MustCompile(`(?m)^[\-\*]\s+\S`)
	inlineLink  = regexp.MustCompile(`\[.+?\]\(.+?\)`)
	headingLead = regexp.MustCompile(`^#{1,6}\s+\S`)
)

// IsMarkdownContentType checks the Content-Type header.
func IsMarkdownContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/markdown") ||
		strings.HasPrefix(ct, "text/x-markdown") ||
		strings.HasPrefix(ct, "text/plain")
}

// IsMarkdownURL checks the URL's file extension.
func IsMarkdownURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".markdown") ||
		strings.HasSuffix(lower, ".txt")
}

// looksLikeHTML checks for an HTML document prologue.
func looksLikeHTML(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, prefix := range []string{"<!doctype", "<html", "<head", "<body"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Detect reports whether a page body should be treated as markdown
// rather than HTML. Checks Content-Type first, then the URL, then
// content heuristics (headings, list markers, inline links).
func Detect(url, contentType, content string) bool {
	if IsMarkdownContentType(contentType) {
		return true
	}
	if IsMarkdownURL(url) {
		return true
	}
	if content == "" || looksLikeHTML(content) {
		return false
	}
	return headingLead.MatchString(strings.TrimSpace(content)) ||
		listMarker.MatchString(content) ||
		inlineLink.MatchString(content)
}

// Sections splits markdown content into heading+paragraphs units: each
// ATX heading starts a new unit, blank lines separate paragraphs, and
// text before the first heading becomes a headingless unit. Units with
// no text are dropped.
func Sections(content string) []models.ContentUnit {
	var units []models.ContentUnit
	current := models.ContentUnit{}
	var para []string

	flushParagraph := func() {
		if len(para) > 0 {
			current.Paragraphs = append(current.Paragraphs, strings.Join(para, " "))
			para = nil
		}
	}
	flushUnit := func() {
		flushParagraph()
		if !current.Empty() {
			units = append(units, current)
		}
		current = models.ContentUnit{}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t")
		if m := atxHeading.FindStringSubmatch(line); m != nil {
			flushUnit()
			current.Heading = models.Heading(strings.TrimSpace(m[2]))
			continue
		}
		if strings.TrimSpace(line) == "" {
			flushParagraph()
			continue
		}
		para = append(para, strings.TrimSpace(line))
	}
	flushUnit()

	return units
}
