package discover

import (
	"regexp"
	"strings"
)

// deadlineCues are tried in order; the first one that matches wins. Matching
// is case-insensitive but the returned text keeps the original casing.
var deadlineCues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)deadline[:\s]*([^.]+)`),
	regexp.MustCompile(`(?i)due[:\s]*([^.]+)`),
	regexp.MustCompile(`(?i)closes?[:\s]*([^.]+)`),
	regexp.MustCompile(`(?i)submit by[:\s]*([^.]+)`),
	regexp.MustCompile(`(?i)application deadline[:\s]*([^.]+)`),
	regexp.MustCompile(`(?i)proposal due[:\s]*([^.]+)`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}`),
}

const maxDeadlineRunes = 100

// ExtractDeadline scans free text for a deadline phrase and returns the
// concrete date inside it when one is present, otherwise the start of the
// phrase itself. Returns "" when no cue matches.
func ExtractDeadline(text string) string {
	for _, cue := range deadlineCues {
		m := cue.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		phrase := strings.TrimSpace(m[1])

		for _, dp := range datePatterns {
			if date := dp.FindString(phrase); date != "" {
				return date
			}
		}

		return truncate(phrase, maxDeadlineRunes)
	}

	return ""
}
