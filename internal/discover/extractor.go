package discover

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// candidateSelectors are the element shapes that commonly wrap a single
// opportunity listing on agency and foundation pages.
var candidateSelectors = []string{
	"article", "div.opportunity", "div.call", "div.funding",
	"div.grant", "div.proposal", "div.competition", "li.opportunity",
	"tr", "div.content", "div.announcement", "div.news-item",
}

var titleSelectors = []string{"h1", "h2", "h3", "h4", ".title", ".heading", "strong", "b"}

const (
	maxCandidatesPerPage = 50
	maxDescriptionRunes  = 2000
	maxTitleRunes        = 200
	minDescriptionRunes  = 50
)

// ExtractCandidates parses one fetched page and returns the raw candidate
// records found on it. The page body is consumed and closed.
func ExtractCandidates(doc *FetchedDocument, cfg SourceConfig) ([]Candidate, error) {
	defer doc.Body.Close()

	page, err := goquery.NewDocumentFromReader(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", doc.URL, err)
	}

	elements := findCandidateElements(page, cfg.Keywords)

	candidates := make([]Candidate, 0, len(elements))
	seenTitles := make(map[string]bool, len(elements))
	for _, el := range elements {
		c, ok := extractCandidate(el, doc.URL, cfg)
		if !ok {
			continue
		}
		// listing pages repeat entries in summaries and sidebars
		if seenTitles[c.Title] {
			continue
		}
		seenTitles[c.Title] = true
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// findCandidateElements collects elements whose text mentions at least one
// of the source's trigger keywords, then keyword-bearing anchors, capped to
// keep pathological pages cheap.
func findCandidateElements(page *goquery.Document, keywords []string) []*goquery.Selection {
	var elements []*goquery.Selection

	for _, selector := range candidateSelectors {
		page.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if containsAnyFold(s.Text(), keywords) {
				elements = append(elements, s)
			}
		})
	}

	page.Find("a").Each(func(_ int, s *goquery.Selection) {
		if containsAnyFold(s.Text(), keywords) {
			elements = append(elements, s)
		}
	})

	if len(elements) > maxCandidatesPerPage {
		elements = elements[:maxCandidatesPerPage]
	}
	return elements
}

func extractCandidate(el *goquery.Selection, pageURL string, cfg SourceConfig) (Candidate, bool) {
	title := extractTitle(el)
	description := truncate(cleanText(el.Text()), maxDescriptionRunes)

	if title == "" || len([]rune(description)) <= minDescriptionRunes {
		return Candidate{}, false
	}

	link := extractLink(el, pageURL)
	if link == "" {
		link = pageURL
	}

	return Candidate{
		Title:        title,
		Description:  description,
		Organization: cfg.Name,
		SourceName:   cfg.Name,
		SourceURL:    pageURL,
		Link:         link,
		Deadline:     ExtractDeadline(description),
		Keywords:     ExtractKeywords(description),
		ExtractedAt:  time.Now(),
	}, true
}

// extractTitle tries heading-like children first, then falls back to the
// element's own text when the element is an anchor.
func extractTitle(el *goquery.Selection) string {
	for _, selector := range titleSelectors {
		found := el.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		title := cleanText(found.Text())
		n := len([]rune(title))
		if n >= 10 && n <= maxTitleRunes {
			return title
		}
	}

	if goquery.NodeName(el) == "a" {
		return truncate(cleanText(el.Text()), maxTitleRunes)
	}

	return ""
}

func extractLink(el *goquery.Selection, pageURL string) string {
	if goquery.NodeName(el) == "a" {
		if href, ok := el.Attr("href"); ok {
			return resolveURL(pageURL, href)
		}
	}

	if href, ok := el.Find("a[href]").First().Attr("href"); ok {
		return resolveURL(pageURL, href)
	}

	return ""
}
