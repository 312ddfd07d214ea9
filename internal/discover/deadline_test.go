package discover

import "testing"

func TestExtractDeadline(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "Named month date keeps original casing",
			text:     "Application deadline: March 15, 2024 for all applicants.",
			expected: "March 15, 2024",
		},
		{
			name:     "Slash date after due cue",
			text:     "Proposals are due 12/31/2024 at the latest.",
			expected: "12/31/2024",
		},
		{
			name:     "Short date after closes cue",
			text:     "The call closes 1/31/25 and late entries are rejected.",
			expected: "1/31/25",
		},
		{
			name:     "Submit by cue with named month",
			text:     "Please submit by January 5, 2025 to be considered.",
			expected: "January 5, 2025",
		},
		{
			name:     "Cue without a parseable date returns the phrase",
			text:     "Deadline: end of the fiscal year.",
			expected: "end of the fiscal year",
		},
		{
			name:     "No cue at all",
			text:     "An annual report on research activity.",
			expected: "",
		},
		{
			name:     "Empty input",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDeadline(tt.text)
			if got != tt.expected {
				t.Errorf("ExtractDeadline(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}
