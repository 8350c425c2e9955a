package markdown

import (
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		content     string
		want        bool
	}{
		{
			name:        "markdown content type",
			contentType: "text/markdown; charset=utf-8",
			want:        true,
		},
		{
			name:        "x-markdown content type",
			contentType: "text/x-markdown",
			want:        true,
		},
		{
			name:        "plain text content type",
			contentType: "text/plain",
			want:        true,
		},
		{
			name: "md extension",
			url:  "https://example.com/README.md",
			want: true,
		},
		{
			name: "txt extension",
			url:  "https://example.com/notes.TXT",
			want: true,
		},
		{
			name:        "html content type with html body",
			url:         "https://example.com/page",
			contentType: "text/html",
			content:     "<!DOCTYPE html><html><body></body></html>",
			want:        false,
		},
		{
			name:    "heading heuristic",
			content: "# Title\n\nSome text.",
			want:    true,
		},
		{
			name:    "list marker heuristic",
			content: "intro\n- item one\n- item two",
			want:    true,
		},
		{
			name:    "inline link heuristic",
			content: "see [the docs](https://example.com) for details",
			want:    true,
		},
		{
			name:    "plain prose is not markdown",
			content: "Just a sentence with nothing special in it.",
			want:    false,
		},
		{
			name:    "html prologue wins over heuristics",
			content: "<html><body># not a heading</body></html>",
			want:    false,
		},
		{
			name: "empty everything",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.url, tt.contentType, tt.content); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSections(t *testing.T) {
	content := `intro line one
intro line two

# First Section

Paragraph one.
Continues here.

Paragraph two.

## Second Section

Body text.

### Empty Section Heading
`

	units := Sections(content)
	if len(units) != 4 {
		t.Fatalf("Sections() = %d units, want 4", len(units))
	}

	// Preamble before the first heading is a headingless unit.
	if units[0].Heading != nil {
		t.Errorf("units[0].Heading = %q, want nil", *units[0].Heading)
	}
	if len(units[0].Paragraphs) != 1 || units[0].Paragraphs[0] != "intro line one intro line two" {
		t.Errorf("units[0].Paragraphs = %v", units[0].Paragraphs)
	}

	if units[1].Heading == nil || *units[1].Heading != "First Section" {
		t.Errorf("units[1].Heading = %v, want First Section", units[1].Heading)
	}
	if len(units[1].Paragraphs) != 2 {
		t.Fatalf("units[1].Paragraphs = %v, want 2 paragraphs", units[1].Paragraphs)
	}
	if units[1].Paragraphs[0] != "Paragraph one. Continues here." {
		t.Errorf("units[1].Paragraphs[0] = %q", units[1].Paragraphs[0])
	}

	if units[2].Heading == nil || *units[2].Heading != "Second Section" {
		t.Errorf("units[2].Heading = %v, want Second Section", units[2].Heading)
	}

	// A trailing heading with no body still forms a unit.
	if units[3].Heading == nil || *units[3].Heading != "Empty Section Heading" {
		t.Errorf("units[3].Heading = %v, want Empty Section Heading", units[3].Heading)
	}
	if len(units[3].Paragraphs) != 0 {
		t.Errorf("units[3].Paragraphs = %v, want none", units[3].Paragraphs)
	}
}

func TestSections_Empty(t *testing.T) {
	if units := Sections(""); len(units) != 0 {
		t.Errorf("Sections(\"\") = %v, want none", units)
	}
	if units := Sections("\n\n  \n"); len(units) != 0 {
		t.Errorf("Sections(blank) = %v, want none", units)
	}
}
