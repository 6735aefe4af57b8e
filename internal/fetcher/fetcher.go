// Package fetcher downloads arXiv feeds and turns them into snapshots.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"arxivbot/internal/model"
)

var (
	// ErrFetchFailed is returned when the feed could not be downloaded.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMalformedFeed is returned when the body is not a feed or carries no publication date.
	ErrMalformedFeed = errors.New("malformed feed")
)

const maxBodySize = 5 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses arXiv feeds.
type Fetcher struct {
	client    HTTPClient
	userAgent string
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: "arxivbot/1.0",
	}
}

// Fetch downloads the feed at url and parses it into a snapshot.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.Snapshot, error) {
	body, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(string(body))
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http get: %w", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	return body, nil
}
