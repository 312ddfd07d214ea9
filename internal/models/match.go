package models

import (
	"time"

	"github.com/google/uuid"
)

// Match is the result of ranking one opportunity against a consumer (a
// profile, a proposal, or a donor). Matches are derived data: safe to delete
// and regenerate at any time, never the source of truth.
type Match struct {
	ID            uuid.UUID         `json:"id"`
	SubjectKind   string            `json:"subject_kind"` // profile, proposal, donor
	SubjectID     string            `json:"subject_id"`
	OpportunityID uuid.UUID         `json:"opportunity_id"`
	Score         float64           `json:"score"`
	Signals       map[string]string `json:"signals"` // contributing signal values, for display
	CreatedAt     time.Time         `json:"created_at"`
}

const (
	SubjectProfile  = "profile"
	SubjectProposal = "proposal"
	SubjectDonor    = "donor"
)
