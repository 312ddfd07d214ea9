package discover

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

// CrawlerFetcher implements Fetcher using colly. Some portals behave
// better with a crawler that honors robots.txt and per-domain delays, so
// sources can opt in via fetch.use_crawler.
type CrawlerFetcher struct {
	UserAgent      string
	MaxRetries     int
	RequestTimeout time.Duration
	DomainDelay    time.Duration
	MaxBodySize    int // bytes, 0 = unlimited
	CacheDir       string
}

func NewCrawlerFetcher() *CrawlerFetcher {
	return &CrawlerFetcher{
		UserAgent:      browserUserAgent,
		MaxRetries:     3,
		RequestTimeout: 30 * time.Second,
		DomainDelay:    time.Second,
		MaxBodySize:    10 * 1024 * 1024,
	}
}

func (f *CrawlerFetcher) buildCollector(allowedDomains []string) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	}

	if len(allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(allowedDomains...))
	}
	if f.CacheDir != "" {
		opts = append(opts, colly.CacheDir(f.CacheDir))
	}

	c := colly.NewCollector(opts...)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 2,
		Delay:       f.DomainDelay,
		RandomDelay: f.DomainDelay / 2,
	})

	c.SetRequestTimeout(f.RequestTimeout)

	return c
}

// Fetch implements the Fetcher interface.
func (f *CrawlerFetcher) Fetch(ctx context.Context, targetURL string) (*FetchedDocument, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// colly matches allowed domains against Hostname(), so strip any port.
	c := f.buildCollector([]string{parsedURL.Hostname()})

	type fetchResult struct {
		doc *FetchedDocument
		err error
	}
	results := make(chan fetchResult, 1)
	deliver := func(doc *FetchedDocument, err error) {
		select {
		case results <- fetchResult{doc: doc, err: err}:
		default:
		}
	}

	c.OnResponse(func(r *colly.Response) {
		deliver(&FetchedDocument{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        io.NopCloser(bytes.NewReader(r.Body)),
			FetchedAt:   time.Now(),
			Headers:     map[string][]string(r.Headers.Clone()),
		}, nil)
	})

	c.OnError(func(r *colly.Response, err error) {
		retries := 0
		if v := r.Request.Ctx.GetAny("retries"); v != nil {
			retries = v.(int)
		}
		if retries < f.MaxRetries {
			r.Request.Ctx.Put("retries", retries+1)
			time.Sleep(time.Duration(retries+1) * time.Second)
			r.Request.Retry()
			return
		}
		deliver(nil, fmt.Errorf("fetch failed after %d retries: %w", f.MaxRetries, err))
	})

	go func() {
		if err := c.Visit(targetURL); err != nil {
			deliver(nil, fmt.Errorf("visit failed: %w", err))
			return
		}
		c.Wait()
		deliver(nil, fmt.Errorf("no response received for %s", targetURL))
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		return res.doc, nil
	}
}
