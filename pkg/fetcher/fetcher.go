// Package fetcher loads page HTML from the network, the page cache or a
// local file.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/web-table-parser/pkg/caching"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 32 << 20

const userAgent = "web-table-parser/1.0 (+https://github.com/dtnitsch/web-table-parser)"

type Fetcher struct {
	client *http.Client
	cache  *caching.Cache

	// Refresh drops the cached copy of a URL before loading it, so the page
	// is always refetched and the cache rewritten.
	Refresh bool
}

// NewFetcher creates a Fetcher. cache may be nil.
func NewFetcher(timeout time.Duration, cache *caching.Cache) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		cache:  cache,
	}
}

// Source is a loaded page.
type Source struct {
	// URL is the page address used to resolve relative links: the request
	// URL for fetched pages, a file:// URL for local files.
	URL       string
	HTML      []byte
	FromCache bool
}

// Load reads source, which is either an http(s) URL or a path to a local
// HTML file.
func (f *Fetcher) Load(ctx context.Context, source string) (Source, error) {
	if isRemote(source) {
		return f.loadRemote(ctx, source)
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return Source{}, fmt.Errorf("failed to resolve path %s: %w", source, err)
	}
	body, err := os.ReadFile(abs)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read HTML file: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return Source{URL: u.String(), HTML: body}, nil
}

func (f *Fetcher) loadRemote(ctx context.Context, rawURL string) (Source, error) {
	if f.cache != nil {
		if f.Refresh {
			if err := f.cache.Delete(rawURL); err != nil {
				return Source{}, err
			}
		} else if body, _, ok := f.cache.Get(rawURL); ok {
			return Source{URL: rawURL, HTML: body, FromCache: true}, nil
		}
	}

	body, err := f.GetHtmlBytes(ctx, rawURL)
	if err != nil {
		return Source{}, err
	}
	if f.cache != nil {
		if err := f.cache.Set(rawURL, body); err != nil {
			return Source{URL: rawURL, HTML: body}, fmt.Errorf("fetched %s but %w", rawURL, err)
		}
	}
	return Source{URL: rawURL, HTML: body}, nil
}

// GetHtmlBytes fetches rawURL, bypassing the cache.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
