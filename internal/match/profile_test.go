package match

import (
	"testing"

	"github.com/mlopez/fundscout/internal/models"
)

func testOpportunities() []models.Opportunity {
	return []models.Opportunity{
		{
			Title:          "Machine learning for satellite imagery",
			Description:    "Deep learning and computer vision methods applied to orbital imagery analysis.",
			Keywords:       []string{"ai_ml:machine learning", "ai_ml:computer vision"},
			RelevanceScore: 0.8,
		},
		{
			Title:          "Marine biology field survey grant",
			Description:    "Funding for coastal ecosystem surveys and marine species monitoring programs.",
			Keywords:       []string{"marine", "ecosystem"},
			RelevanceScore: 0.8,
		},
		{
			Title:          "Community theater renovation fund",
			Description:    "Support for renovating local performance venues and stage equipment upgrades.",
			Keywords:       []string{"theater"},
			RelevanceScore: 0.8,
		},
	}
}

func TestRankForProfileOrdering(t *testing.T) {
	profile := models.ConsumerProfile{
		Skills:            []string{"machine learning", "computer vision"},
		ResearchInterests: []string{"deep learning", "satellite imagery analysis"},
	}

	matches := RankForProfile(profile, testOpportunities(), 0)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}

	if matches[0].Opportunity.Title != "Machine learning for satellite imagery" {
		t.Errorf("best match = %q, want the machine learning opportunity", matches[0].Opportunity.Title)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Combined > matches[i-1].Combined {
			t.Errorf("matches out of order at %d: %f > %f", i, matches[i].Combined, matches[i-1].Combined)
		}
	}
}

func TestRankForProfileTopN(t *testing.T) {
	profile := models.ConsumerProfile{Skills: []string{"research"}}

	matches := RankForProfile(profile, testOpportunities(), 2)
	if len(matches) != 2 {
		t.Errorf("got %d matches, want top_n = 2", len(matches))
	}
}

func TestRankForProfileEmptyCorpus(t *testing.T) {
	profile := models.ConsumerProfile{Skills: []string{"anything"}}
	if matches := RankForProfile(profile, nil, 10); matches != nil {
		t.Errorf("expected nil for an empty corpus, got %d matches", len(matches))
	}
}

func TestRankForProfileCombinedWeights(t *testing.T) {
	profile := models.ConsumerProfile{Skills: []string{"machine learning"}}

	matches := RankForProfile(profile, testOpportunities(), 0)
	for _, m := range matches {
		expected := m.Similarity*0.7 + m.Opportunity.RelevanceScore*0.3
		if diff := m.Combined - expected; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("combined score %f does not match 0.7*sim + 0.3*relevance = %f", m.Combined, expected)
		}
	}
}
