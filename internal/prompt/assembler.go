package prompt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"webagent/pkg/models"
)

// ErrNoUsableContent is returned when the relevant pages contained no
// text at all. The LLM must not be called in that case.
var ErrNoUsableContent = errors.New("no usable content for prompt")

// instructionHeader is the fixed framing for both prompt shapes. It
// directs the model to answer from the given content only, to never
// mention that it was given content, and to admit when the answer is
// absent. The user's literal query is embedded once.
const instructionHeader = `As a knowledgeable agent, please provide a direct and conversational answer to the user's question based *only* on the provided website content below.
Do not mention that you are using the provided information.
If the answer is not found in the text, state that you cannot provide a helpful response based on the available information.
User question: "%s"

Website content:
`

// truncationMarker is appended when a content block is cut at
// MaxContextChars.
const truncationMarker = "\n... [truncated]"

// Assembler renders bounded, attributable prompts from relevant content.
type Assembler struct {
	// MaxContextChars caps the assembled content block. Zero means
	// no truncation.
	MaxContextChars int
}

// cap truncates the content block when a limit is configured. The cut
// backs up to a rune boundary so the prompt stays valid UTF-8.
func (a Assembler) cap(content string) string {
	if a.MaxContextChars <= 0 || len(content) <= a.MaxContextChars {
		return content
	}
	cut := a.MaxContextChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + truncationMarker
}

// BuildPagePrompt renders the per-page structured prompt used for
// stored-agent question answering. Each relevant page becomes a
// delimited block attributing its URL, with headings and paragraphs in
// document order. Returns ErrNoUsableContent if no text was added.
func (a Assembler) BuildPagePrompt(pages []models.PageContent, query string) (string, error) {
	var content strings.Builder
	contentAdded := false

	for _, page := range pages {
		fmt.Fprintf(&content, "\n--- Content from %s ---\n", page.URL)
		for _, unit := range page.Content {
			if unit.Heading != nil && *unit.Heading != "" {
				fmt.Fprintf(&content, "Heading: %s\n", *unit.Heading)
				contentAdded = true
			}
			if len(unit.Paragraphs) > 0 {
				content.WriteString(strings.Join(unit.Paragraphs, "\n"))
				content.WriteString("\n")
				contentAdded = true
			}
		}
		content.WriteString("--- End of Content ---\n")
	}

	if !contentAdded {
		return "", ErrNoUsableContent
	}

	return fmt.Sprintf(instructionHeader, query) + a.cap(content.String()), nil
}

// BuildSentencePrompt renders the flat prompt used for ad hoc AI
// scraping and crawling: relevant sentences joined by newlines,
// embedded verbatim inside the instruction template.
func (a Assembler) BuildSentencePrompt(sentences []string, query string) (string, error) {
	if len(sentences) == 0 {
		return "", ErrNoUsableContent
	}

	content := a.cap(strings.Join(sentences, "\n"))
	return fmt.Sprintf(instructionHeader, query) +
		fmt.Sprintf("\"\"\"\n%s\n\"\"\"\n\nAnswer:", content), nil
}
