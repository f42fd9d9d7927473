// Package api is the HTTP client for the search service's list endpoint.
//
// The endpoint is a read-only paged query: calling it repeatedly is safe,
// and discarding a response has no side effects to undo. All failures are
// reported as *TransportError so callers can treat network, server, and
// decode problems uniformly.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// TransportError wraps any failure to obtain a page from the server.
// StatusCode is zero when the request never reached the HTTP layer.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search service: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("search service: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client lists search requests from the service.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the service at baseURL.
// Requests are rate limited to keep rapid page flipping polite; the
// limiter burst of 2 lets an initial load and one navigation through
// without waiting.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 2),
	}
}

// List fetches one page of search requests. A concrete status narrows the
// listing; StatusAny lists everything. Page is 1-based.
//
// The call respects context cancellation and returns *TransportError on
// any failure.
func (c *Client) List(ctx context.Context, page int, status Status) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if status.Concrete() {
		q.Set("status", string(status))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/searches?"+q.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "querydeck/0.1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var p Page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode page: %w", err)}
	}
	return &p, nil
}
