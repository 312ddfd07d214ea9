package match

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mlopez/fundscout/internal/models"
)

const (
	donorKeywordWeight  = 0.6
	donorTypeCueWeight  = 0.1
	donorScoreThreshold = 0.3
	donorTopN           = 10
)

// donorTypeCues reward donors whose profile mentions the vocabulary of an
// opportunity domain.
var donorTypeCues = map[string][]string{
	"research":    {"research", "science", "education", "innovation"},
	"space":       {"space", "aerospace", "technology", "exploration"},
	"education":   {"education", "learning", "students", "schools"},
	"health":      {"health", "medical", "healthcare", "medicine"},
	"environment": {"environment", "climate", "sustainability", "conservation"},
}

// DonorMatch is one donor ranked against an opportunity.
type DonorMatch struct {
	Donor models.Donor `json:"donor"`
	Score float64      `json:"score"`
}

// MatchDonors ranks donors against an opportunity's keywords and domain.
// Donors scoring below the threshold are excluded and at most the top ten
// are returned, best first. Ties keep registry order.
func MatchDonors(keywords []string, opportunityDomain string, donors []models.Donor) []DonorMatch {
	var matches []DonorMatch
	for _, d := range donors {
		score := donorScore(d, keywords, opportunityDomain)
		if score < donorScoreThreshold {
			continue
		}
		matches = append(matches, DonorMatch{Donor: d, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > donorTopN {
		matches = matches[:donorTopN]
	}
	return matches
}

// DonorMatchRecords converts a donor ranking into persistable match rows.
// Each row's subject is the donor; the opportunity id is shared.
func DonorMatchRecords(oppID uuid.UUID, matches []DonorMatch) []models.Match {
	records := make([]models.Match, len(matches))
	for i, m := range matches {
		records[i] = models.Match{
			SubjectKind:   models.SubjectDonor,
			SubjectID:     m.Donor.ID.String(),
			OpportunityID: oppID,
			Score:         m.Score,
			Signals:       map[string]string{"donor": m.Donor.Name},
		}
	}
	return records
}

func donorScore(d models.Donor, keywords []string, opportunityDomain string) float64 {
	donorText := strings.ToLower(strings.Join(d.FocusAreas, " ") + " " + d.Description)

	score := 0.0
	if len(keywords) > 0 {
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(donorText, strings.ToLower(kw)) {
				matched++
			}
		}
		score += float64(matched) / float64(len(keywords)) * donorKeywordWeight
	}

	if cues, ok := donorTypeCues[strings.ToLower(opportunityDomain)]; ok {
		for _, cue := range cues {
			if strings.Contains(donorText, cue) {
				score += donorTypeCueWeight
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
