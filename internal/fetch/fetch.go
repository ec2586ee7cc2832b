// Package fetch is the page transport: one GET per call, body returned as
// text, non-2xx responses reported as *TransportError. No retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultUserAgent identifies the sync tool to source sites.
const DefaultUserAgent = "uae-laws-sync/1.0"

// Fetcher retrieves the text of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TransportError reports a response outside the 2xx range.
type TransportError struct {
	URL        string
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s -> %d", e.URL, e.StatusCode)
}

// IsTransportError returns true if err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// HTTPFetcher implements Fetcher over net/http.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher creates a fetcher with the given user agent.
// An empty agent falls back to DefaultUserAgent. The client sets no
// timeout; callers bound a fetch through its context.
func NewHTTPFetcher(userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		Client:    &http.Client{},
		UserAgent: userAgent,
	}
}

// Fetch performs a single GET and returns the body as text.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	return string(body), nil
}
