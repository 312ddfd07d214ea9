package discover

import (
	"regexp"
	"strings"

	"github.com/mlopez/fundscout/internal/models"
)

// Category holds the cue phrases that assign a record to a thematic area.
// Order matters: when two categories hit the same number of cues, the one
// listed first wins.
type Category struct {
	Name     string
	Keywords []string
}

var keywordCategories = []Category{
	{"space_technology", []string{"satellite", "spacecraft", "orbital", "space", "aerospace", "astronaut", "mission", "launch", "rocket"}},
	{"ai_ml", []string{"artificial intelligence", "machine learning", "neural network", "deep learning", "computer vision", "nlp", "robotics"}},
	{"energy", []string{"renewable energy", "solar", "wind", "battery", "energy storage", "fuel cell", "nuclear", "clean energy"}},
	{"biotech", []string{"biotechnology", "genomics", "bioinformatics", "pharmaceutical", "medical device", "drug discovery"}},
	{"materials", []string{"advanced materials", "nanotechnology", "composites", "metamaterials", "smart materials"}},
	{"defense", []string{"defense", "security", "cybersecurity", "surveillance", "military", "homeland security"}},
	{"climate", []string{"climate change", "environmental", "sustainability", "carbon capture", "green technology"}},
	{"quantum", []string{"quantum computing", "quantum communication", "quantum sensing", "quantum cryptography"}},
	{"education", []string{"education", "outreach", "stem", "workforce development", "training"}},
	{"healthcare", []string{"healthcare", "medical", "clinical", "therapy", "diagnostic", "patient care"}},
}

var fundingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)[\d,]+\s*(?:million|thousand|billion)?\s*(?:dollars|USD|EUR|GBP)`),
	regexp.MustCompile(`(?i)up to\s*\$[\d,]+`),
	regexp.MustCompile(`(?i)maximum\s*\$[\d,]+`),
}

const (
	maxCategories    = 5
	minValidTitle    = 10
	maxValidTitle    = 500
	minRelevance     = 0.3
	generalCategory  = "general"
	longDescription  = 100
	maxCategoryBonus = 3
)

// Classify fills in the derived fields of a candidate: categories, funding,
// opportunity type and relevance score.
func Classify(c *Candidate) {
	text := c.Title + " " + c.Description
	lower := strings.ToLower(text)

	c.Categories = classifyCategories(lower)
	if len(c.Categories) > 0 {
		c.Category = c.Categories[0]
	} else {
		c.Category = generalCategory
	}

	c.EstimatedFunding = ExtractFunding(text)
	c.OpportunityType = DetermineType(lower)
	c.RelevanceScore = relevanceScore(c)
}

// classifyCategories scores each category by the number of cue phrases
// present and returns the top hits, most relevant first. Ties keep the
// category table's order, so results are deterministic.
func classifyCategories(lower string) []string {
	type hit struct {
		name  string
		score int
	}

	var hits []hit
	for _, cat := range keywordCategories {
		score := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{cat.Name, score})
		}
	}

	// stable insertion sort by score, descending
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].score > hits[j-1].score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	if len(hits) > maxCategories {
		hits = hits[:maxCategories]
	}

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}

// TextCategories returns every category with at least one cue phrase hit,
// in category table order.
func TextCategories(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, cat := range keywordCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				out = append(out, cat.Name)
				break
			}
		}
	}
	return out
}

// ExtractFunding returns the first monetary amount mentioned in the text,
// or "" when none is found.
func ExtractFunding(text string) string {
	for _, p := range fundingPatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// DetermineType maps cue words to an opportunity type. The input must be
// lowercased. Rules are checked in a fixed order and the first hit wins.
func DetermineType(lower string) string {
	switch {
	case containsAnyWord(lower, "grant", "funding", "award"):
		return models.TypeGrant
	case containsAnyWord(lower, "competition", "challenge", "prize"):
		return models.TypeCompetition
	case containsAnyWord(lower, "conference", "paper", "abstract"):
		return models.TypeConference
	case containsAnyWord(lower, "collaboration", "partnership"):
		return models.TypeCollaboration
	case containsAnyWord(lower, "job", "position", "hiring"):
		return models.TypeEmployment
	default:
		return models.TypeOther
	}
}

func containsAnyWord(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// relevanceScore rewards completeness: present fields, thematic breadth and
// a mentioned amount. Capped at 1.0.
func relevanceScore(c *Candidate) float64 {
	score := 0.0

	if c.Title != "" {
		score += 0.2
	}
	if len([]rune(c.Description)) > longDescription {
		score += 0.2
	}
	if c.Deadline != "" {
		score += 0.2
	}
	if c.Link != "" {
		score += 0.1
	}

	if n := len(c.Categories); n > 0 {
		if n > maxCategoryBonus {
			n = maxCategoryBonus
		}
		score += 0.2 * float64(n)
	}

	if c.EstimatedFunding != "" {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Valid is the gate between extraction and persistence. Records that fail
// it are dropped silently.
func Valid(c Candidate) bool {
	titleLen := len([]rune(c.Title))
	if titleLen < minValidTitle || titleLen > maxValidTitle {
		return false
	}
	if len([]rune(c.Description)) < minDescriptionRunes {
		return false
	}
	return c.RelevanceScore >= minRelevance
}
