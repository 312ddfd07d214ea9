package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/mlopez/fundscout/internal/db"
	"github.com/mlopez/fundscout/internal/discover"
)

func main() {
	_ = godotenv.Load()

	sourceID := flag.String("source", "", "run a single source by id instead of all")
	workers := flag.Int("workers", 0, "number of concurrent source workers")
	maxPerSource := flag.Int("max", 0, "max saved records per seed URL")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	registry, err := discover.LoadRegistry("internal/discover/config/sources.yaml")
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}

	store := db.NewStore(pool)
	runner := discover.NewRunner(store, registry)
	if *workers > 0 {
		runner.Workers = *workers
	}
	if *maxPerSource > 0 {
		runner.MaxPerSource = *maxPerSource
	}

	started := time.Now()
	var stats discover.DiscoveryStats

	if *sourceID != "" {
		cfg, err := registry.Get(*sourceID)
		if err != nil {
			log.Fatal(err)
		}
		s := runner.DiscoverSource(ctx, cfg)
		stats.Sources = map[string]discover.SourceStats{cfg.ID: s}
		stats.Found, stats.Saved, stats.Rejected, stats.Errors = s.Found, s.Saved, s.Rejected, s.Errors
	} else {
		stats, err = runner.DiscoverAll(ctx)
		if err != nil {
			log.Printf("Run cut short: %v", err)
		}
	}
	finished := time.Now()

	sources, _ := json.Marshal(stats.Sources)
	if _, err := store.RecordRun(ctx, db.DiscoveryRun{
		StartedAt:  started,
		FinishedAt: finished,
		Found:      stats.Found,
		Saved:      stats.Saved,
		Rejected:   stats.Rejected,
		Errors:     stats.Errors,
		Sources:    sources,
	}); err != nil {
		log.Printf("Failed to record run: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Found", "Saved", "Rejected", "Errors"})
	for id, s := range stats.Sources {
		t.AppendRow(table.Row{id, s.Found, s.Saved, s.Rejected, s.Errors})
	}
	t.AppendFooter(table.Row{"TOTAL", stats.Found, stats.Saved, stats.Rejected, stats.Errors})
	t.Render()

	log.Printf("Discovery finished in %s", finished.Sub(started).Round(time.Second))
}
