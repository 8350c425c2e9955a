package models

import (
	"strings"
	"testing"
)

func TestContentUnit_Empty(t *testing.T) {
	tests := []struct {
		name string
		unit ContentUnit
		want bool
	}{
		{
			name: "zero value",
			unit: ContentUnit{},
			want: true,
		},
		{
			name: "empty heading pointer",
			unit: ContentUnit{Heading: Heading("")},
			want: true,
		},
		{
			name: "heading only",
			unit: ContentUnit{Heading: Heading("Title")},
			want: false,
		},
		{
			name: "paragraphs only",
			unit: ContentUnit{Paragraphs: []string{"text"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageContent_Text(t *testing.T) {
	page := PageContent{
		URL: "https://example.com",
		Content: []ContentUnit{
			{Heading: Heading("Refunds"), Paragraphs: []string{"Issued in 14 days.", "Contact support."}},
			{Paragraphs: []string{"Second unit."}},
		},
	}

	got := page.Text()
	for _, want := range []string{"Refunds", "Issued in 14 days.", "Contact support.", "Second unit."} {
		if !strings.Contains(got, want) {
			t.Errorf("Text() missing %q, got %q", want, got)
		}
	}

	// Order is preserved and pieces are space separated.
	if strings.Index(got, "Refunds") > strings.Index(got, "Second unit.") {
		t.Errorf("Text() lost document order: %q", got)
	}
	if strings.Contains(got, "days.Contact") {
		t.Errorf("Text() joined paragraphs without a separator: %q", got)
	}
}

func TestAgentRecord_HasURL(t *testing.T) {
	record := AgentRecord{URLs: []string{"https://a.example", "https://b.example"}}

	if !record.HasURL("https://a.example") {
		t.Error("HasURL() = false for stored URL")
	}
	if record.HasURL("https://c.example") {
		t.Error("HasURL() = true for unknown URL")
	}
}

func TestHeading(t *testing.T) {
	if Heading("") != nil {
		t.Error("Heading(\"\") should be nil")
	}
	if h := Heading("Title"); h == nil || *h != "Title" {
		t.Errorf("Heading(\"Title\") = %v", h)
	}
}

func TestNewAgentID(t *testing.T) {
	a, b := NewAgentID(), NewAgentID()
	if a == b {
		t.Error("NewAgentID() returned duplicate identifiers")
	}
	if len(a) != 36 {
		t.Errorf("NewAgentID() = %q, want UUID string form", a)
	}
}
