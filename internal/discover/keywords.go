package discover

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeywords = 20

// commonWords are skipped when picking salient terms out of free text.
var commonWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "applications": {}, "available": {},
	"been": {}, "before": {}, "being": {}, "between": {}, "both": {},
	"during": {}, "each": {}, "from": {}, "have": {}, "here": {},
	"information": {}, "into": {}, "more": {}, "most": {}, "must": {},
	"other": {}, "over": {}, "please": {}, "should": {}, "some": {},
	"submit": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"through": {}, "under": {}, "until": {}, "view": {}, "well": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "within": {}, "would": {},
	"your": {},
}

// ExtractKeywords derives a deterministic keyword list for a record:
// category-tagged cue hits first, then the most frequent salient terms of
// the text, capped at 20 entries total.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	var keywords []string
	for _, cat := range keywordCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				keywords = append(keywords, cat.Name+":"+kw)
			}
		}
	}

	keywords = mergeUniqueFold(keywords, salientTerms(lower, maxKeywords-len(keywords)))

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// salientTerms picks up to n frequent terms of at least four letters,
// ordered by frequency then alphabetically.
func salientTerms(lower string, n int) []string {
	if n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(tok) < 4 {
			continue
		}
		if _, skip := commonWords[tok]; skip {
			continue
		}
		counts[tok]++
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
