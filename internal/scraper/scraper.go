package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/class-schedule/internal/schedule"
)

const (
	DefaultUserAgent = "class-schedule/1.0 (github.com/pfrederiksen/class-schedule)"
	DefaultTimeout   = 30 * time.Second
)

// Scraper handles fetching and parsing a class schedule page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	tableID   string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with the request
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTable sets the id of the schedule table to parse
func WithTable(id string) Option {
	return func(s *Scraper) {
		if id != "" {
			s.tableID = id
		}
	}
}

// New creates a Scraper for the schedule page at url
func New(url string, opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		url:       url,
		userAgent: DefaultUserAgent,
		tableID:   DefaultTableID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the schedule page address
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the schedule page and returns its raw HTML.
// Any non-2xx response is a *NetworkError.
func (s *Scraper) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &NetworkError{URL: s.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			URL:        s.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: s.url, Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, nil
}

// FetchEntries fetches the schedule page and parses its table
func (s *Scraper) FetchEntries(ctx context.Context) ([]*schedule.Entry, error) {
	body, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(body, WithTableID(s.tableID))
}
