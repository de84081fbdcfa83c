package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
)

// Client downloads registration pages that are served already rendered,
// such as saved snapshots. Live check-in pages need a BrowserFetcher.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// Fetch downloads and parses the check-in page at url.
func (c *Client) Fetch(ctx context.Context, url string) (*Registration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: non-200 status code: %d %s", url, resp.StatusCode, resp.Status)
	}

	reg, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("registration page scraped",
		"url", url,
		"title", reg.Title,
		"competitors", len(reg.Competitors),
		"from_cache", resp.Header.Get(httpcache.XFromCache) == "1",
	)
	return reg, nil
}

// NewCachedHTTPClient returns a client that keeps pages in cache for maxAge,
// whatever caching headers the origin sends. Requests that reach the origin
// carry userAgent when it is set.
func NewCachedHTTPClient(cache httpcache.Cache, maxAge, timeout time.Duration, userAgent string) *http.Client {
	transport := httpcache.NewTransport(cache)
	transport.Transport = &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			if userAgent != "" {
				req.Header.Set("User-Agent", userAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// HeaderOverrideTransport rewrites requests and responses around another
// RoundTripper.
type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
