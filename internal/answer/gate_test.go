package answer

import (
	"strings"
	"testing"
)

func TestUnhelpful(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{
			name:     "empty response",
			response: "",
			want:     true,
		},
		{
			name:     "whitespace only",
			response: "   \n\t  ",
			want:     true,
		},
		{
			name:     "fourteen characters is too short",
			response: "12345678901234",
			want:     true,
		},
		{
			name:     "fifteen characters passes",
			response: "123456789012345",
			want:     false,
		},
		{
			name:     "length counted after trimming",
			response: "   short one   ",
			want:     true,
		},
		{
			name:     "length counted in characters not bytes",
			response: "ありがとうございました",
			want:     true,
		},
		{
			name:     "fifteen non-ascii characters passes",
			response: "返品は購入後十四日以内に可能です",
			want:     false,
		},
		{
			name:     "boilerplate phrase regardless of length",
			response: "Sorry, I am unable to answer that question with the data given to me.",
			want:     true,
		},
		{
			name:     "phrase match is case insensitive",
			response: "There is NO INFORMATION AVAILABLE about that topic in these pages.",
			want:     true,
		},
		{
			name:     "phrase in the middle of a long answer",
			response: "Based on the text provided, the refund window appears to be 14 days.",
			want:     true,
		},
		{
			name:     "normal helpful answer",
			response: "Refunds are issued within 14 days of purchase.",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unhelpful(tt.response); got != tt.want {
				t.Errorf("Unhelpful(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	helpful := "Refunds are issued within 14 days of purchase."
	if got := Filter(helpful); got != helpful {
		t.Errorf("Filter() rewrote a helpful response: %q", got)
	}

	if got := Filter("nope"); got != Canonical {
		t.Errorf("Filter() = %q, want canonical response", got)
	}

	// The canonical response itself fails the gate and maps to itself.
	if !strings.Contains(strings.ToLower(Canonical), "cannot provide a helpful response") {
		t.Fatalf("canonical response no longer matches its own gate phrase")
	}
	if got := Filter(Canonical); got != Canonical {
		t.Errorf("Filter(Canonical) = %q, want canonical response", got)
	}
}
