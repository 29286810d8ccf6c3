// ABOUTME: HTTP client boundary for feed and page retrieval
// ABOUTME: Enforces per-request timeout, User-Agent, and a response size cap

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"lectern/internal/config"
)

// MaxResponseSize caps feed downloads at 10MB.
const MaxResponseSize = 10 * 1024 * 1024

// Client retrieves URLs on behalf of the ingestion pipeline. The underlying
// http.Client timeout is the only cancellation guarantee a hung feed gets,
// so it is always set.
type Client struct {
	http      *http.Client
	userAgent string
}

// New builds a Client from config.
func New(cfg *config.Config) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.FetchTimeout()},
		userAgent: cfg.UserAgent,
	}
}

// Fetch retrieves a URL and returns the response body. Non-200 statuses and
// oversized responses are errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}

	return body, nil
}
