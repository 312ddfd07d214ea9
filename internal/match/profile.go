package match

import (
	"sort"
	"strings"

	"github.com/mlopez/fundscout/internal/models"
)

const (
	profileSimilarityWeight = 0.7
	profileRelevanceWeight  = 0.3
	defaultProfileTopN      = 20
)

// ProfileMatch is one ranked opportunity for a consumer profile.
type ProfileMatch struct {
	Opportunity models.Opportunity `json:"opportunity"`
	Similarity  float64            `json:"similarity"`
	Combined    float64            `json:"combined_score"`
}

func opportunityText(o models.Opportunity) string {
	return o.Title + " " + o.Description + " " + strings.Join(o.Keywords, " ")
}

// RankForProfile ranks opportunities against a profile. The profile and all
// opportunity texts share one TF-IDF space, and text similarity is blended
// with each record's own relevance score. Ties keep input order.
func RankForProfile(profile models.ConsumerProfile, opps []models.Opportunity, topN int) []ProfileMatch {
	if len(opps) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = defaultProfileTopN
	}

	texts := make([]string, 0, len(opps)+1)
	texts = append(texts, profile.Text())
	for _, o := range opps {
		texts = append(texts, opportunityText(o))
	}

	vectors := NewVectorizer().FitTransform(texts)
	profileVec := vectors[0]

	matches := make([]ProfileMatch, len(opps))
	for i, o := range opps {
		sim := Cosine(profileVec, vectors[i+1])
		matches[i] = ProfileMatch{
			Opportunity: o,
			Similarity:  sim,
			Combined:    sim*profileSimilarityWeight + o.RelevanceScore*profileRelevanceWeight,
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Combined > matches[j].Combined
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}
