package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/mlopez/fundscout/internal/db"
	"github.com/mlopez/fundscout/internal/match"
	"github.com/mlopez/fundscout/internal/models"
)

func main() {
	_ = godotenv.Load()

	oppID := flag.String("opportunity", "", "opportunity id to match donors against (required)")
	domain := flag.String("domain", "", "opportunity domain: research, space, education, health, environment")
	save := flag.Bool("save", false, "persist matches")
	flag.Parse()

	if *oppID == "" {
		flag.Usage()
		os.Exit(2)
	}

	id, err := uuid.Parse(*oppID)
	if err != nil {
		log.Fatalf("Invalid opportunity id: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	opp, err := store.GetByID(ctx, id)
	if err != nil {
		log.Fatalf("Failed to load opportunity: %v", err)
	}

	donors, err := store.AllDonors(ctx)
	if err != nil {
		log.Fatalf("Failed to load donors: %v", err)
	}
	if len(donors) == 0 {
		log.Fatal("No donors registered; run seed_donors first")
	}

	matches := match.MatchDonors(opp.Keywords, *domain, donors)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Donor", "Type", "Focus Areas", "Score"})
	for i, m := range matches {
		t.AppendRow(table.Row{
			i + 1,
			m.Donor.Name,
			m.Donor.Type,
			strings.Join(m.Donor.FocusAreas, ", "),
			fmt.Sprintf("%.2f", m.Score),
		})
	}
	t.Render()

	if *save {
		records := match.DonorMatchRecords(opp.ID, matches)
		if err := store.SaveOpportunityMatches(ctx, models.SubjectDonor, opp.ID, records); err != nil {
			log.Fatalf("Failed to save matches: %v", err)
		}
		log.Printf("Saved %d donor matches for %q", len(records), opp.Title)
	}
}
