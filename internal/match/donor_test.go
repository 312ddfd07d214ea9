package match

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/mlopez/fundscout/internal/models"
)

func TestMatchDonorsExcludesZeroOverlap(t *testing.T) {
	donors := []models.Donor{
		{
			Name:        "Space Futures Trust",
			FocusAreas:  []string{"space exploration", "aerospace education"},
			Description: "Funds early-stage aerospace and space technology programs",
		},
		{
			Name:        "Folk Music Heritage Fund",
			FocusAreas:  []string{"folk music", "cultural preservation"},
			Description: "Preserves traditional music archives",
		},
	}

	matches := MatchDonors([]string{"space", "aerospace", "satellite"}, "space", donors)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Donor.Name != "Space Futures Trust" {
		t.Errorf("matched %q, want Space Futures Trust", matches[0].Donor.Name)
	}
	for _, m := range matches {
		if m.Score < 0.3 {
			t.Errorf("donor %q scored %f, below the exclusion threshold", m.Donor.Name, m.Score)
		}
	}
}

func TestMatchDonorsScoreCap(t *testing.T) {
	donor := models.Donor{
		Name:        "Everything Foundation",
		FocusAreas:  []string{"research", "science", "education", "innovation", "space", "aerospace", "technology", "exploration"},
		Description: "Funds research science education innovation across all fields",
	}

	matches := MatchDonors([]string{"research", "science", "education"}, "research", []models.Donor{donor})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Score > 1.0 {
		t.Errorf("score = %f, must be capped at 1.0", matches[0].Score)
	}
}

func TestMatchDonorsTopTen(t *testing.T) {
	var donors []models.Donor
	for i := 0; i < 15; i++ {
		donors = append(donors, models.Donor{
			Name:       fmt.Sprintf("Education Fund %02d", i),
			FocusAreas: []string{"education", "students"},
		})
	}

	matches := MatchDonors([]string{"education", "students"}, "education", donors)
	if len(matches) != 10 {
		t.Errorf("got %d matches, want at most 10", len(matches))
	}
	// equal scores keep registry order
	if matches[0].Donor.Name != "Education Fund 00" {
		t.Errorf("first match = %q, ties should preserve input order", matches[0].Donor.Name)
	}
}

func TestMatchDonorsNoKeywords(t *testing.T) {
	donors := []models.Donor{
		{Name: "General Fund", FocusAreas: []string{"research"}},
	}

	// keyword score is zero; a single type cue hit (0.1) stays below threshold
	matches := MatchDonors(nil, "research", donors)
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0 when nothing clears the threshold", len(matches))
	}
}

func TestDonorMatchRecordsKeepDonorSubject(t *testing.T) {
	oppID := uuid.New()
	donors := []models.Donor{
		{ID: uuid.New(), Name: "Space Trust", FocusAreas: []string{"space", "research"}},
		{ID: uuid.New(), Name: "Science Fund", FocusAreas: []string{"research", "science"}},
	}

	matches := MatchDonors([]string{"space", "research"}, "space", donors)
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}

	records := DonorMatchRecords(oppID, matches)
	if len(records) != len(matches) {
		t.Fatalf("got %d records, want %d", len(records), len(matches))
	}
	for i, r := range records {
		if r.SubjectKind != models.SubjectDonor {
			t.Errorf("record %d kind = %q, want %q", i, r.SubjectKind, models.SubjectDonor)
		}
		if r.SubjectID != matches[i].Donor.ID.String() {
			t.Errorf("record %d subject = %q, want donor id %q", i, r.SubjectID, matches[i].Donor.ID)
		}
		if r.OpportunityID != oppID {
			t.Errorf("record %d opportunity = %s, want %s", i, r.OpportunityID, oppID)
		}
		if r.Score != matches[i].Score {
			t.Errorf("record %d score = %v, want %v", i, r.Score, matches[i].Score)
		}
		if r.Signals["donor"] != matches[i].Donor.Name {
			t.Errorf("record %d signals = %v, missing donor name", i, r.Signals)
		}
	}
}
