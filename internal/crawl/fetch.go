package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/city-scrapers/internal/document"
)

const (
	UserAgent = "city-scrapers/1.0 (github.com/pfrederiksen/city-scrapers)"
	Timeout   = 30 * time.Second
)

// Fetcher retrieves and parses one page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*document.Document, error)
}

// HTTPFetcher fetches pages over HTTP
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher sending userAgent with every request.
// An empty userAgent uses UserAgent.
func NewHTTPFetcher(userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &HTTPFetcher{
		client: resty.New().
			SetTimeout(Timeout).
			SetHeader("User-Agent", userAgent),
	}
}

// Fetch GETs url and parses the body. The document keeps the final URL
// after redirects.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*document.Document, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	pageURL := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		pageURL = raw.Request.URL.String()
	}

	return document.Parse(bytes.NewReader(resp.Body()), pageURL)
}
