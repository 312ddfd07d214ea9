package discover

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/mlopez/fundscout/internal/models"
)

// OpportunityStore persists classified records. Upsert must be keyed on
// (title, source URL) so re-running discovery updates rather than
// duplicates.
type OpportunityStore interface {
	Upsert(ctx context.Context, opp models.Opportunity) (uuid.UUID, error)
}

const (
	defaultWorkers      = 8
	defaultMaxPerSource = 20
)

// Runner drives a discovery pass: sources are dispatched to a bounded pool
// of workers, each source is fetched, extracted, classified and persisted.
// A failing source never aborts the run; its errors are counted instead.
type Runner struct {
	Fetcher      Fetcher // plain HTTP, the default
	Crawler      Fetcher // used when a source sets fetch.use_crawler
	Workers      int
	MaxPerSource int // cap of saved records per seed URL

	store    OpportunityStore
	registry *Registry
}

func NewRunner(store OpportunityStore, registry *Registry) *Runner {
	fetcher := NewRateLimitedFetcher(FetchConfig{})
	for _, src := range registry.Sources {
		fetcher.Configure(src)
	}

	return &Runner{
		Fetcher:      fetcher,
		Crawler:      NewCrawlerFetcher(),
		Workers:      defaultWorkers,
		MaxPerSource: defaultMaxPerSource,
		store:        store,
		registry:     registry,
	}
}

// DiscoverAll runs discovery over every registered source. It returns the
// aggregated stats and the context error if the run was cut short.
func (r *Runner) DiscoverAll(ctx context.Context) (DiscoveryStats, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(r.registry.Sources) && len(r.registry.Sources) > 0 {
		workers = len(r.registry.Sources)
	}

	jobs := make(chan SourceConfig)
	var mu sync.Mutex
	var stats DiscoveryStats
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cfg := range jobs {
				s := r.DiscoverSource(ctx, cfg)
				mu.Lock()
				stats.add(cfg.ID, s)
				mu.Unlock()
			}
		}()
	}

	// Stop dispatching once the context is done; in-flight sources finish
	// on their own because they watch the same context.
dispatch:
	for _, cfg := range r.registry.Sources {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- cfg:
		}
	}
	close(jobs)
	wg.Wait()

	return stats, ctx.Err()
}

// DiscoverSource processes a single source: every seed URL is fetched and
// its candidates classified, validated and saved.
func (r *Runner) DiscoverSource(ctx context.Context, cfg SourceConfig) SourceStats {
	var stats SourceStats

	maxPerSource := cfg.MaxRecords
	if maxPerSource <= 0 {
		maxPerSource = r.MaxPerSource
	}

	fetcher := r.Fetcher
	if cfg.Fetch.UseCrawler && r.Crawler != nil {
		fetcher = r.Crawler
	}

	for _, seed := range cfg.Seeds {
		if ctx.Err() != nil {
			return stats
		}

		doc, err := fetcher.Fetch(ctx, seed)
		if err != nil {
			log.Printf("[%s] fetch failed for %s: %v", cfg.ID, seed, err)
			stats.Errors++
			continue
		}

		candidates, err := ExtractCandidates(doc, cfg)
		if err != nil {
			log.Printf("[%s] extraction failed for %s: %v", cfg.ID, seed, err)
			stats.Errors++
			continue
		}

		saved := 0
		for _, c := range candidates {
			Classify(&c)
			stats.Found++

			if !Valid(c) {
				stats.Rejected++
				continue
			}
			if saved >= maxPerSource {
				break
			}

			if _, err := r.store.Upsert(ctx, c.ToOpportunity()); err != nil {
				log.Printf("[%s] save failed for %q: %v", cfg.ID, c.Title, err)
				stats.Errors++
				continue
			}
			saved++
			stats.Saved++
		}

		log.Printf("[%s] %s: %d candidates, %d saved", cfg.ID, seed, len(candidates), saved)
	}

	return stats
}
