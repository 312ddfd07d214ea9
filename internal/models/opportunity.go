package models

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is a structured record for one discovered funding, competition,
// conference or collaboration listing. Records are created by the discovery
// pipeline and kept unique on (title, source_url): re-discovering the same
// listing updates the existing row instead of duplicating it.
type Opportunity struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Organization     string    `json:"organization"`
	SourceName       string    `json:"source_name"`
	SourceURL        string    `json:"source_url"`
	ExternalURL      string    `json:"external_url"`
	Deadline         string    `json:"deadline"` // raw text, best-effort date extraction
	Category         string    `json:"category"` // primary category, "general" if nothing matched
	Categories       []string  `json:"categories"`
	Keywords         []string  `json:"keywords"`
	EstimatedFunding string    `json:"estimated_funding"`
	OpportunityType  string    `json:"opportunity_type"`
	RelevanceScore   float64   `json:"relevance_score"` // heuristic completeness score in [0,1]
	Processed        bool      `json:"processed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Opportunity types assigned by the classifier.
const (
	TypeGrant         = "grant"
	TypeCompetition   = "competition"
	TypeConference    = "conference"
	TypeCollaboration = "collaboration"
	TypeEmployment    = "employment"
	TypeOther         = "other"
)
