package titlescrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Custom errors
var (
	ErrPageNotFound = errors.New("page no longer exists")
	ErrNoTitle      = errors.New("page has no title")
	ErrFetchFailed  = errors.New("failed to fetch page")
)

// browserUserAgent mimics a regular browser request; the product pages serve
// different markup to unknown agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper fetches web pages and extracts human-readable text from them.
type Scraper struct {
	client *http.Client
}

func NewScraper(timeout time.Duration) *Scraper {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{client: &http.Client{Timeout: timeout}}
}

// PageTitle returns the trimmed contents of the page's <title> tag.
func (s *Scraper) PageTitle(ctx context.Context, pageURL string) (string, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", ErrNoTitle
	}
	return title, nil
}

// ExportTimestamp fetches the export index page and returns the date and time
// of the latest export: the last two whitespace-delimited tokens of the first
// <pre> block, e.g. "17-Apr-2025 09:30".
func (s *Scraper) ExportTimestamp(ctx context.Context, indexURL string) (string, error) {
	doc, err := s.fetchDocument(ctx, indexURL)
	if err != nil {
		return "", err
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return "", fmt.Errorf("%w: no <pre> block in listing", ErrFetchFailed)
	}
	fields := strings.Fields(pre.Text())
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: listing has no timestamp tokens", ErrFetchFailed)
	}
	return fields[len(fields)-2] + " " + fields[len(fields)-1], nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrPageNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return doc, nil
}
