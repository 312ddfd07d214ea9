package discover

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mlopez/fundscout/internal/models"
)

type mockFetcher struct {
	pages map[string]string // URL -> HTML, missing URLs fail
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*FetchedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, ok := m.pages[url]
	if !ok {
		return nil, fmt.Errorf("unexpected status code: 503")
	}
	return &FetchedDocument{
		URL:         url,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        io.NopCloser(strings.NewReader(html)),
		FetchedAt:   time.Now(),
	}, nil
}

type memoryStore struct {
	mu    sync.Mutex
	saved []models.Opportunity
}

func (m *memoryStore) Upsert(ctx context.Context, opp models.Opportunity) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.saved {
		if existing.Title == opp.Title && existing.SourceURL == opp.SourceURL {
			opp.ID = existing.ID
			m.saved[i] = opp
			return opp.ID, nil
		}
	}
	opp.ID = uuid.New()
	m.saved = append(m.saved, opp)
	return opp.ID, nil
}

const goodPage = `<html><body><article>
<h2>SBIR Solicitation for Orbital Robotics Research</h2>
<p>A funding opportunity for orbital robotics and satellite research with
awards of $200,000. Application deadline: March 15, 2024. Proposals from
small businesses are welcome and should describe the planned mission.</p>
<a href="/call">Details</a>
</article></body></html>`

func testRegistry(sources ...SourceConfig) *Registry {
	return &Registry{Sources: sources}
}

func TestDiscoverAllIsolatesFailingSources(t *testing.T) {
	good := SourceConfig{
		ID:       "good",
		Name:     "Good Agency",
		Seeds:    []string{"https://good.example.org/"},
		Keywords: []string{"sbir"},
	}
	bad := SourceConfig{
		ID:       "bad",
		Name:     "Bad Agency",
		Seeds:    []string{"https://bad.example.org/"},
		Keywords: []string{"sbir"},
	}

	store := &memoryStore{}
	runner := NewRunner(store, testRegistry(good, bad))
	runner.Fetcher = &mockFetcher{pages: map[string]string{
		"https://good.example.org/": goodPage,
	}}

	stats, err := runner.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll returned error: %v", err)
	}

	if stats.Sources["bad"].Errors != 1 {
		t.Errorf("bad source errors = %d, want 1", stats.Sources["bad"].Errors)
	}
	if stats.Sources["good"].Saved == 0 {
		t.Errorf("good source saved nothing, failing source must not poison the run")
	}
	if len(store.saved) == 0 {
		t.Fatal("no opportunities persisted")
	}

	opp := store.saved[0]
	if opp.OpportunityType != models.TypeGrant {
		t.Errorf("OpportunityType = %q, want grant", opp.OpportunityType)
	}
	if opp.Category != "space_technology" {
		t.Errorf("Category = %q, want space_technology", opp.Category)
	}
	if opp.EstimatedFunding != "$200,000" {
		t.Errorf("EstimatedFunding = %q", opp.EstimatedFunding)
	}
}

func TestDiscoverAllEmptyRegistry(t *testing.T) {
	store := &memoryStore{}
	runner := NewRunner(store, testRegistry())
	runner.Fetcher = &mockFetcher{}

	stats, err := runner.DiscoverAll(context.Background())
	if err != nil {
		t.Fatalf("DiscoverAll returned error: %v", err)
	}
	if stats.Found != 0 || stats.Saved != 0 || stats.Errors != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}

func TestDiscoverAllCancelledContext(t *testing.T) {
	var sources []SourceConfig
	for i := 0; i < 20; i++ {
		sources = append(sources, SourceConfig{
			ID:       fmt.Sprintf("src-%d", i),
			Name:     "Agency",
			Seeds:    []string{fmt.Sprintf("https://agency-%d.example.org/", i)},
			Keywords: []string{"sbir"},
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &memoryStore{}
	runner := NewRunner(store, testRegistry(sources...))
	runner.Fetcher = &mockFetcher{}

	stats, err := runner.DiscoverAll(ctx)
	if err == nil {
		t.Fatal("expected context error from a cancelled run")
	}
	if stats.Saved != 0 {
		t.Errorf("saved = %d after pre-cancelled context, want 0", stats.Saved)
	}
}

func TestDiscoverSourceRespectsPerSourceCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, `<article><h2>SBIR call number %02d for orbital systems</h2>
		<p>A funding opportunity for satellite research with a generous budget
		and an application deadline: March 15, 2024 for all applicants.</p></article>`, i)
	}
	b.WriteString("</body></html>")

	cfg := SourceConfig{
		ID:         "nasa",
		Name:       "NASA",
		Seeds:      []string{"https://nasa.example.org/"},
		Keywords:   []string{"sbir"},
		MaxRecords: 3,
	}

	store := &memoryStore{}
	runner := NewRunner(store, testRegistry(cfg))
	runner.Fetcher = &mockFetcher{pages: map[string]string{
		"https://nasa.example.org/": b.String(),
	}}

	stats := runner.DiscoverSource(context.Background(), cfg)
	if stats.Saved != 3 {
		t.Errorf("saved = %d, want the per-source cap of 3", stats.Saved)
	}
	if len(store.saved) != 3 {
		t.Errorf("persisted = %d, want 3", len(store.saved))
	}
}
