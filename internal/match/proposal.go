package match

import (
	"sort"

	"github.com/mlopez/fundscout/internal/discover"
	"github.com/mlopez/fundscout/internal/models"
)

const (
	proposalSimilarityWeight = 0.5
	proposalKeywordWeight    = 0.3
	proposalCategoryWeight   = 0.2
	defaultProposalTopN      = 10
)

// ProposalMatch is one ranked opportunity for a proposal text.
type ProposalMatch struct {
	Opportunity     models.Opportunity `json:"opportunity"`
	Similarity      float64            `json:"similarity"`
	KeywordOverlap  int                `json:"keyword_overlap"`
	CategoryOverlap int                `json:"category_overlap"`
	Score           float64            `json:"score"`
}

// RankForProposal ranks opportunities against a free-text proposal. The
// score blends pairwise text similarity with the keyword and category
// overlap between the proposal and each record.
func RankForProposal(proposalText string, opps []models.Opportunity, topN int) []ProposalMatch {
	if len(opps) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = defaultProposalTopN
	}

	proposalKeywords := discover.ExtractKeywords(proposalText)
	proposalCategories := discover.TextCategories(proposalText)

	kwSet := toSet(proposalKeywords)
	catSet := toSet(proposalCategories)

	matches := make([]ProposalMatch, len(opps))
	for i, o := range opps {
		kwOverlap := overlap(kwSet, o.Keywords)
		catOverlap := overlap(catSet, o.Categories)

		// pairwise TF-IDF space: the proposal and this one record
		vectors := NewVectorizer().FitTransform([]string{proposalText, o.Title + " " + o.Description})
		sim := Cosine(vectors[0], vectors[1])

		score := sim*proposalSimilarityWeight +
			float64(kwOverlap)/float64(max(len(proposalKeywords), 1))*proposalKeywordWeight +
			float64(catOverlap)/float64(max(len(proposalCategories), 1))*proposalCategoryWeight

		matches[i] = ProposalMatch{
			Opportunity:     o,
			Similarity:      sim,
			KeywordOverlap:  kwOverlap,
			CategoryOverlap: catOverlap,
			Score:           score,
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func overlap(set map[string]struct{}, items []string) int {
	n := 0
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			n++
		}
	}
	return n
}
