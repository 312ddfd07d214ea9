package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/mlopez/fundscout/internal/db"
	"github.com/mlopez/fundscout/internal/match"
	"github.com/mlopez/fundscout/internal/models"
)

func main() {
	_ = godotenv.Load()

	profilePath := flag.String("profile", "", "path to a JSON consumer profile (required)")
	topN := flag.Int("top", 20, "number of matches to show")
	flag.Parse()

	if *profilePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*profilePath)
	if err != nil {
		log.Fatalf("Failed to read profile: %v", err)
	}
	var profile models.ConsumerProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.Fatalf("Failed to parse profile: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	opps, err := store.All(ctx)
	if err != nil {
		log.Fatalf("Failed to load opportunities: %v", err)
	}
	if len(opps) == 0 {
		log.Fatal("No opportunities stored; run discovery first")
	}

	matches := match.RankForProfile(profile, opps, *topN)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Title", "Org", "Type", "Similarity", "Combined"})
	for i, m := range matches {
		t.AppendRow(table.Row{
			i + 1,
			truncate(m.Opportunity.Title, 60),
			m.Opportunity.Organization,
			m.Opportunity.OpportunityType,
			fmt.Sprintf("%.3f", m.Similarity),
			fmt.Sprintf("%.3f", m.Combined),
		})
	}
	t.Render()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
