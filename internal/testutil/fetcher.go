package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/roach88/lexsync/internal/fetch"
)

// ScriptedFetcher serves canned pages by URL.
//
// Unknown URLs answer with a 404 *fetch.TransportError. Failures can be
// scripted per URL with Fail. Every call is recorded in order.
type ScriptedFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errors map[string]error
	calls  []string
}

// NewScriptedFetcher creates a fetcher serving pages.
func NewScriptedFetcher(pages map[string]string) *ScriptedFetcher {
	f := &ScriptedFetcher{pages: map[string]string{}, errors: map[string]error{}}
	for url, body := range pages {
		f.pages[url] = body
	}
	return f
}

// Serve registers body for url.
func (f *ScriptedFetcher) Serve(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = body
}

// Fail makes every fetch of url return err. A nil err scripts a 500.
func (f *ScriptedFetcher) Fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = &fetch.TransportError{URL: url, StatusCode: http.StatusInternalServerError}
	}
	f.errors[url] = err
}

// Fetch implements fetch.Fetcher.
func (f *ScriptedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if err, ok := f.errors[url]; ok {
		return "", err
	}
	body, ok := f.pages[url]
	if !ok {
		return "", &fetch.TransportError{URL: url, StatusCode: http.StatusNotFound}
	}
	return body, nil
}

// Calls returns the URLs fetched so far, in order.
func (f *ScriptedFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
