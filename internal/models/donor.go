package models

import (
	"time"

	"github.com/google/uuid"
)

// Donor is a long-lived registry entry for a funder (individual, foundation,
// corporation or government body). Donors are maintained by explicit
// administrative action, never written by the discovery pipeline.
type Donor struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"` // unique
	Type               string    `json:"type"` // individual, foundation, corporation, government
	Region             string    `json:"region"`
	Country            string    `json:"country"`
	FocusAreas         []string  `json:"focus_areas"`
	Website            string    `json:"website"`
	ContactEmail       string    `json:"contact_email"`
	ContactPhone       string    `json:"contact_phone"`
	Description        string    `json:"description"`
	GivingAmount       string    `json:"giving_amount"` // estimated annual giving, free text
	ApplicationProcess string    `json:"application_process"`
	Deadlines          string    `json:"deadlines"`
	Requirements       string    `json:"requirements"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
