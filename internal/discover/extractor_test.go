package discover

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func docFromHTML(url, html string) *FetchedDocument {
	return &FetchedDocument{
		URL:         url,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        io.NopCloser(strings.NewReader(html)),
		FetchedAt:   time.Now(),
	}
}

const samplePage = `<html><body>
<article>
  <h2>SBIR Phase I Solicitation for Satellite Communications</h2>
  <p>NASA invites proposals for small business innovation research in satellite
  communications and orbital systems. Application deadline: March 15, 2024.
  Awards of $150,000 are available for Phase I work.</p>
  <a href="/solicitations/sbir-phase-1">Read the full solicitation</a>
</article>
<article>
  <h2>Weekly press digest</h2>
  <p>A roundup of agency press releases and media mentions from the past week,
  collected for journalists and media partners.</p>
</article>
<div class="announcement">
  <strong>STTR announcement coming soon</strong>
  short text
</div>
</body></html>`

func TestExtractCandidates(t *testing.T) {
	cfg := SourceConfig{
		ID:       "nasa",
		Name:     "NASA",
		Keywords: []string{"sbir", "sttr", "solicitation"},
	}

	candidates, err := ExtractCandidates(docFromHTML("https://example.org/funding/", samplePage), cfg)
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}

	c := candidates[0]
	if c.Title != "SBIR Phase I Solicitation for Satellite Communications" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Organization != "NASA" || c.SourceName != "NASA" {
		t.Errorf("Organization/SourceName = %q/%q, want NASA", c.Organization, c.SourceName)
	}
	if c.SourceURL != "https://example.org/funding/" {
		t.Errorf("SourceURL = %q", c.SourceURL)
	}
	if c.Link != "https://example.org/solicitations/sbir-phase-1" {
		t.Errorf("Link = %q, relative href should resolve against the page", c.Link)
	}
	if c.Deadline != "March 15, 2024" {
		t.Errorf("Deadline = %q, want March 15, 2024", c.Deadline)
	}
	if !strings.Contains(c.Description, "satellite") {
		t.Errorf("Description = %q, want element text", c.Description)
	}

	// the press digest mentions none of the source keywords
	for _, cand := range candidates {
		if strings.Contains(cand.Title, "press digest") {
			t.Errorf("keyword filter failed: %q extracted", cand.Title)
		}
	}
}

func TestExtractCandidatesShortDescriptionDropped(t *testing.T) {
	html := `<html><body><div class="announcement">
	  <strong>A valid length title for an SBIR call</strong> tiny
	</div></body></html>`

	candidates, err := ExtractCandidates(docFromHTML("https://example.org/", html), SourceConfig{
		Name:     "NASA",
		Keywords: []string{"sbir"},
	})
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected short descriptions to be dropped, got %d candidates", len(candidates))
	}
}

func TestExtractCandidatesAnchorFallback(t *testing.T) {
	html := `<html><body>
	  <a href="https://grants.example.org/call-42">Funding opportunity: advanced materials research call</a>
	</body></html>`

	candidates, err := ExtractCandidates(docFromHTML("https://example.org/", html), SourceConfig{
		Name:     "NSF",
		Keywords: []string{"funding opportunity"},
	})
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 anchor candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Title != "Funding opportunity: advanced materials research call" {
		t.Errorf("Title = %q, anchor text should become the title", c.Title)
	}
	if c.Link != "https://grants.example.org/call-42" {
		t.Errorf("Link = %q", c.Link)
	}
}

func TestFindCandidateElementsCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, `<a href="/call-%d">SBIR listing %02d with enough descriptive padding text to pass the length gate</a>`, i, i)
	}
	b.WriteString("</body></html>")

	candidates, err := ExtractCandidates(docFromHTML("https://example.org/", b.String()), SourceConfig{
		Name:     "NASA",
		Keywords: []string{"sbir"},
	})
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(candidates) != maxCandidatesPerPage {
		t.Errorf("got %d candidates, cap is %d", len(candidates), maxCandidatesPerPage)
	}
}

func TestExtractCandidatesDedupesRepeatedTitles(t *testing.T) {
	entry := `<article>
	  <h2>SBIR Phase I research solicitation</h2>
	  <p>Small business innovation research funding for early stage aerospace
	  technology development, supporting prototypes and feasibility studies.</p>
	</article>`
	html := "<html><body>" + entry + entry + entry + "</body></html>"

	candidates, err := ExtractCandidates(docFromHTML("https://example.org/", html), SourceConfig{
		Name:     "NASA",
		Keywords: []string{"sbir"},
	})
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, repeated titles should collapse to 1", len(candidates))
	}
	if candidates[0].Title != "SBIR Phase I research solicitation" {
		t.Errorf("Title = %q", candidates[0].Title)
	}
}
