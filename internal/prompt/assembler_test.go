package prompt

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"webagent/pkg/models"
)

func TestBuildPagePrompt(t *testing.T) {
	pages := []models.PageContent{
		{
			URL: "https://example.com/refunds",
			Content: []models.ContentUnit{
				{
					Heading:    models.Heading("Refund Policy"),
					Paragraphs: []string{"Refunds are issued within 14 days.", "Contact support to start one."},
				},
			},
		},
		{
			URL: "https://example.com/shipping",
			Content: []models.ContentUnit{
				{Paragraphs: []string{"Orders ship in two business days."}},
			},
		},
	}

	var a Assembler
	got, err := a.BuildPagePrompt(pages, "What is the refund policy?")
	if err != nil {
		t.Fatalf("BuildPagePrompt() error = %v", err)
	}

	for _, want := range []string{
		`User question: "What is the refund policy?"`,
		"--- Content from https://example.com/refunds ---",
		"Heading: Refund Policy",
		"Refunds are issued within 14 days.\nContact support to start one.",
		"--- Content from https://example.com/shipping ---",
		"Orders ship in two business days.",
		"--- End of Content ---",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q, got:\n%s", want, got)
		}
	}

	// Paragraph-only units must not emit a heading line.
	shippingBlock := got[strings.Index(got, "https://example.com/shipping"):]
	if strings.Contains(shippingBlock, "Heading:") {
		t.Errorf("paragraph-only page emitted a heading line:\n%s", shippingBlock)
	}
}

func TestBuildPagePrompt_NoUsableContent(t *testing.T) {
	tests := []struct {
		name  string
		pages []models.PageContent
	}{
		{
			name:  "no pages",
			pages: nil,
		},
		{
			name: "pages without content",
			pages: []models.PageContent{
				{URL: "https://example.com/a"},
				{URL: "https://example.com/b", Content: []models.ContentUnit{{}}},
			},
		},
	}

	var a Assembler
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.BuildPagePrompt(tt.pages, "anything")
			if !errors.Is(err, ErrNoUsableContent) {
				t.Errorf("BuildPagePrompt() error = %v, want ErrNoUsableContent", err)
			}
		})
	}
}

func TestBuildPagePrompt_Truncation(t *testing.T) {
	pages := []models.PageContent{
		{
			URL: "https://example.com/long",
			Content: []models.ContentUnit{
				{Paragraphs: []string{strings.Repeat("x", 500)}},
			},
		},
	}

	a := Assembler{MaxContextChars: 100}
	got, err := a.BuildPagePrompt(pages, "question")
	if err != nil {
		t.Fatalf("BuildPagePrompt() error = %v", err)
	}

	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("truncated prompt missing marker, got tail %q", got[len(got)-40:])
	}

	content := got[strings.Index(got, "Website content:"):]
	if len(content) > len("Website content:\n")+100+len(truncationMarker) {
		t.Errorf("content block exceeds limit: %d chars", len(content))
	}
}

func TestBuildPagePrompt_TruncationKeepsValidUTF8(t *testing.T) {
	pages := []models.PageContent{
		{
			URL: "https://example.jp/long",
			Content: []models.ContentUnit{
				{Paragraphs: []string{strings.Repeat("返", 500)}},
			},
		},
	}

	// A limit that does not land on a rune boundary must back up to
	// one instead of splitting a multi-byte character.
	a := Assembler{MaxContextChars: 101}
	got, err := a.BuildPagePrompt(pages, "question")
	if err != nil {
		t.Fatalf("BuildPagePrompt() error = %v", err)
	}

	if !utf8.ValidString(got) {
		t.Errorf("truncated prompt contains invalid UTF-8, got tail %q", got[len(got)-40:])
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("truncated prompt missing marker, got tail %q", got[len(got)-40:])
	}
}

func TestBuildSentencePrompt(t *testing.T) {
	sentences := []string{
		"Refunds are issued within 14 days.",
		"Contact support to start one.",
	}

	var a Assembler
	got, err := a.BuildSentencePrompt(sentences, "How do refunds work?")
	if err != nil {
		t.Fatalf("BuildSentencePrompt() error = %v", err)
	}

	wantBlock := "\"\"\"\nRefunds are issued within 14 days.\nContact support to start one.\n\"\"\"\n\nAnswer:"
	if !strings.Contains(got, wantBlock) {
		t.Errorf("prompt missing fenced block, got:\n%s", got)
	}
	if !strings.Contains(got, `User question: "How do refunds work?"`) {
		t.Errorf("prompt missing user question, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "Answer:") {
		t.Errorf("prompt must end with answer cue, got tail %q", got[len(got)-20:])
	}
}

func TestBuildSentencePrompt_NoSentences(t *testing.T) {
	var a Assembler
	if _, err := a.BuildSentencePrompt(nil, "anything"); !errors.Is(err, ErrNoUsableContent) {
		t.Errorf("BuildSentencePrompt() error = %v, want ErrNoUsableContent", err)
	}
}
