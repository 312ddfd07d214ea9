package discover

import (
	"context"
	"io"
	"time"

	"github.com/mlopez/fundscout/internal/models"
)

// FetchedDocument is the raw result of fetching one source page.
type FetchedDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
	FetchedAt   time.Time
	Headers     map[string][]string
}

// Fetcher retrieves raw content from a URL. Transport mechanics (retries,
// rate limiting, timeouts) live behind this interface.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}

// Candidate is the untrusted record extracted from one document element,
// before classification and validation.
type Candidate struct {
	Title            string
	Description      string
	Organization     string
	SourceName       string
	SourceURL        string // page the candidate was extracted from
	Link             string // resolved external link, may be empty
	Deadline         string // raw deadline text, may be empty
	Keywords         []string
	Categories       []string // filled by the classifier, most relevant first
	Category         string   // primary category
	EstimatedFunding string
	OpportunityType  string
	RelevanceScore   float64
	ExtractedAt      time.Time
}

// ToOpportunity converts a classified candidate into the canonical record.
func (c Candidate) ToOpportunity() models.Opportunity {
	return models.Opportunity{
		Title:            c.Title,
		Description:      c.Description,
		Organization:     c.Organization,
		SourceName:       c.SourceName,
		SourceURL:        c.SourceURL,
		ExternalURL:      c.Link,
		Deadline:         c.Deadline,
		Category:         c.Category,
		Categories:       c.Categories,
		Keywords:         c.Keywords,
		EstimatedFunding: c.EstimatedFunding,
		OpportunityType:  c.OpportunityType,
		RelevanceScore:   c.RelevanceScore,
	}
}

// SourceStats holds per-source counters for one discovery run.
type SourceStats struct {
	Found    int `json:"found"`
	Saved    int `json:"saved"`
	Rejected int `json:"rejected"` // failed the validity gate, expected and silent
	Errors   int `json:"errors"`   // fetch, parse or persistence failures
}

// DiscoveryStats aggregates counters across all sources of a run.
type DiscoveryStats struct {
	Sources  map[string]SourceStats `json:"sources"`
	Found    int                    `json:"found"`
	Saved    int                    `json:"saved"`
	Rejected int                    `json:"rejected"`
	Errors   int                    `json:"errors"`
}

func (d *DiscoveryStats) add(id string, s SourceStats) {
	if d.Sources == nil {
		d.Sources = make(map[string]SourceStats)
	}
	d.Sources[id] = s
	d.Found += s.Found
	d.Saved += s.Saved
	d.Rejected += s.Rejected
	d.Errors += s.Errors
}
