package models

import "strings"

// ConsumerProfile describes the applicant an opportunity corpus is ranked
// against. Every field is optional free text; the matcher flattens the whole
// struct into one bag of words, so nothing here needs to be structured.
type ConsumerProfile struct {
	Skills            []string `json:"skills"`
	Experience        string   `json:"experience"`
	Education         string   `json:"education"`
	ResearchInterests []string `json:"research_interests"`
	Keywords          []string `json:"keywords"`
	Specialization    string   `json:"specialization"`
	Industry          string   `json:"industry"`
	Technologies      []string `json:"technologies"`
	Publications      []string `json:"publications"`
}

// Text flattens the profile into a single string for vectorization.
func (p ConsumerProfile) Text() string {
	parts := make([]string, 0, 16)
	parts = append(parts, p.Skills...)
	for _, s := range []string{p.Experience, p.Education, p.Specialization, p.Industry} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, p.ResearchInterests...)
	parts = append(parts, p.Keywords...)
	parts = append(parts, p.Technologies...)
	parts = append(parts, p.Publications...)
	return strings.Join(parts, " ")
}
