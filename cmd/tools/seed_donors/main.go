package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mlopez/fundscout/internal/db"
	"github.com/mlopez/fundscout/internal/models"
)

// initialDonors is a starter registry of well-known funders. Seeding is
// idempotent: donors are keyed by name.
var initialDonors = []models.Donor{
	{
		Name:         "MacKenzie Scott",
		Type:         "individual",
		Region:       "North America",
		Country:      "USA",
		FocusAreas:   []string{"inequality reduction", "education", "community development"},
		Description:  "Known for low-profile and highly impactful giving, donated over $14 billion to nonprofits and underserved communities",
		GivingAmount: "$14+ billion",
		Website:      "https://mackenzie-scott.medium.com/",
	},
	{
		Name:         "Warren Buffett",
		Type:         "individual",
		Region:       "North America",
		Country:      "USA",
		FocusAreas:   []string{"charity", "education", "healthcare"},
		Description:  "Pledged to donate over 99% of wealth through the Giving Pledge",
		GivingAmount: "$50+ billion pledged",
		Website:      "https://www.berkshirehathaway.com/",
	},
	{
		Name:        "The Giving Pledge",
		Type:        "foundation",
		Region:      "Global",
		Country:     "USA",
		FocusAreas:  []string{"philanthropy", "social impact", "global development"},
		Description: "Network of billionaires pledging to donate most of their wealth",
		Website:     "https://givingpledge.org/",
	},
	{
		Name:         "Tata Trusts",
		Type:         "foundation",
		Region:       "Asia",
		Country:      "India",
		FocusAreas:   []string{"healthcare", "education", "rural development"},
		Description:  "One of India's largest philanthropic organizations",
		GivingAmount: "Billions annually",
		Website:      "https://www.tatatrusts.org/",
	},
	{
		Name:        "Patagonia Foundation",
		Type:        "corporation",
		Region:      "North America",
		Country:     "USA",
		FocusAreas:  []string{"environmental conservation", "climate change", "land protection"},
		Description: "All profits dedicated to fighting climate change and protecting undeveloped land",
		Website:     "https://www.patagonia.com/ownership/",
	},
	{
		Name:         "Bill & Melinda Gates Foundation",
		Type:         "foundation",
		Region:       "Global",
		Country:      "USA",
		FocusAreas:   []string{"global health", "education", "poverty alleviation"},
		Description:  "One of the world's largest private foundations",
		GivingAmount: "$50+ billion",
		Website:      "https://www.gatesfoundation.org/",
	},
	{
		Name:         "Chan Zuckerberg Initiative",
		Type:         "foundation",
		Region:       "North America",
		Country:      "USA",
		FocusAreas:   []string{"science", "education", "justice & opportunity"},
		Description:  "Focuses on advancing human potential and promoting equality",
		GivingAmount: "$45 billion pledged",
		Website:      "https://chanzuckerberg.com/",
	},
	{
		Name:         "Open Society Foundations",
		Type:         "foundation",
		Region:       "Global",
		Country:      "USA",
		FocusAreas:   []string{"human rights", "democracy", "justice"},
		Description:  "Works to build vibrant and tolerant societies",
		GivingAmount: "$18+ billion",
		Website:      "https://www.opensocietyfoundations.org/",
	},
	{
		Name:         "Ford Foundation",
		Type:         "foundation",
		Region:       "Global",
		Country:      "USA",
		FocusAreas:   []string{"inequality", "democracy", "education"},
		Description:  "Fights inequality and strengthens democratic values",
		GivingAmount: "$600+ million annually",
		Website:      "https://www.fordfoundation.org/",
	},
	{
		Name:         "Rockefeller Foundation",
		Type:         "foundation",
		Region:       "Global",
		Country:      "USA",
		FocusAreas:   []string{"resilience", "equity", "innovation"},
		Description:  "Works to promote the well-being of humanity",
		GivingAmount: "$200+ million annually",
		Website:      "https://www.rockefellerfoundation.org/",
	},
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	store := db.NewStore(pool)
	for _, d := range initialDonors {
		if _, err := store.UpsertDonor(ctx, d); err != nil {
			log.Printf("Failed to seed donor %q: %v", d.Name, err)
			continue
		}
	}
	log.Printf("Seeded %d donors", len(initialDonors))
}
